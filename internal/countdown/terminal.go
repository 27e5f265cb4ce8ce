package countdown

import (
	"fmt"
	"io"
	"sync"
)

// TerminalDisplay writes each state as a line of text. In place mode rewrites
// the current terminal line instead of appending.
type TerminalDisplay struct {
	mu       sync.Mutex
	w        io.Writer
	messages *Messages
	inPlace  bool
	prefix   string
}

func NewTerminalDisplay(w io.Writer, messages *Messages, inPlace bool) *TerminalDisplay {
	return &TerminalDisplay{w: w, messages: messages, inPlace: inPlace}
}

// WithPrefix returns a copy of the display that prefixes every line, e.g.
// with a person's name.
func (d *TerminalDisplay) WithPrefix(prefix string) *TerminalDisplay {
	return &TerminalDisplay{w: d.w, messages: d.messages, inPlace: d.inPlace, prefix: prefix}
}

func (d *TerminalDisplay) Render(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := d.prefix + d.messages.Line(s)
	if d.inPlace {
		// carriage return then clear to end of line
		_, _ = fmt.Fprintf(d.w, "\r\x1b[K%s", line)
		return
	}
	_, _ = fmt.Fprintln(d.w, line)
}
