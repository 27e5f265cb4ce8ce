// Package calendar renders a person's statistically expected end date as an
// iCalendar document.
package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const (
	ContentType = "text/calendar; charset=utf-8"
	productID   = "-//lifeclock//expected end date//EN"
)

// Entry describes the single all-day event. When Found is false the
// calendar carries no event.
type Entry struct {
	UID     string
	Summary string
	At      time.Time
	Found   bool
}

// Build assembles the calendar. stamp is the DTSTAMP of the event.
func Build(entry Entry, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	if !entry.Found {
		return cal
	}

	day := time.Date(entry.At.Year(), entry.At.Month(), entry.At.Day(), 0, 0, 0, 0, time.UTC)
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, entry.UID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDate(ical.PropDateTimeStart, day)
	event.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
	event.Props.SetText(ical.PropSummary, entry.Summary)
	event.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	cal.Children = append(cal.Children, event.Component)
	return cal
}

// Encode serializes cal.
func Encode(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
