// Package countdown renders a live remaining-lifespan countdown.
//
// A Countdown is seeded with remaining seconds and ticks once per second on its
// own goroutine, publishing a Breakdown to a Display until it reaches zero or is
// cancelled. Units follow the fixed calendar in pkg/lifetime.
package countdown

import "lifeclock/pkg/lifetime"

// Breakdown is a seconds count split into fixed-size units, largest first.
type Breakdown struct {
	Years   int64
	Months  int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Decompose splits total by successive floor-division and remainder.
// Negative input yields the zero Breakdown.
func Decompose(total int64) Breakdown {
	if total <= 0 {
		return Breakdown{}
	}
	var b Breakdown
	b.Years, total = total/lifetime.SecondsPerYear, total%lifetime.SecondsPerYear
	b.Months, total = total/lifetime.SecondsPerMonth, total%lifetime.SecondsPerMonth
	b.Days, total = total/lifetime.SecondsPerDay, total%lifetime.SecondsPerDay
	b.Hours, total = total/lifetime.SecondsPerHour, total%lifetime.SecondsPerHour
	b.Minutes, b.Seconds = total/lifetime.SecondsPerMinute, total%lifetime.SecondsPerMinute
	return b
}

// TotalSeconds recombines the units.
func (b Breakdown) TotalSeconds() int64 {
	return b.Years*lifetime.SecondsPerYear +
		b.Months*lifetime.SecondsPerMonth +
		b.Days*lifetime.SecondsPerDay +
		b.Hours*lifetime.SecondsPerHour +
		b.Minutes*lifetime.SecondsPerMinute +
		b.Seconds
}

// Fields returns the six units formatted for display.
func (b Breakdown) Fields() [6]string {
	return [6]string{
		FormatField(b.Years),
		FormatField(b.Months),
		FormatField(b.Days),
		FormatField(b.Hours),
		FormatField(b.Minutes),
		FormatField(b.Seconds),
	}
}
