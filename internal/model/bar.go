package model

import "time"

// DateFormat is the canonical YYYY-MM-DD layout used for bar dates in storage,
// provider queries, and API responses.
const DateFormat = "2006-01-02"

// Bar is one symbol-day OHLCV observation. Date carries day precision only;
// at most one Bar exists per (Symbol, Date).
type Bar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// ParseDate parses a YYYY-MM-DD string into a date-only UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// Day truncates t to its calendar date (midnight UTC).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
