package countdown

import "strconv"

// FormatField renders a unit as at least two digits. Zero is "00".
func FormatField(v int64) string {
	if v == 0 {
		return "00"
	}
	s := strconv.FormatInt(v, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
