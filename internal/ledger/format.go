package ledger

import "time"

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// IsDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClock reports whether s is a 24h HH:MM time.
func IsClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// Stamp splits t into the ledger's date and time strings.
func Stamp(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(ClockLayout)
}
