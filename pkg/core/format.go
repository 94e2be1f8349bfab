package core

import "time"

const (
	clockLayout     = "15:04"
	timestampLayout = "Jan 2, 2006 15:04"
)

// FormatClock renders the hour and minute of t in local time.
func FormatClock(t time.Time) string {
	return t.Local().Format(clockLayout)
}

// FormatTimestamp renders t as a short local date and time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

// DefaultNoteTitle is the title given to notes saved without one.
func DefaultNoteTitle(capturedAt time.Time) string {
	return "Voice note " + FormatClock(capturedAt)
}
