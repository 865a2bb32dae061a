package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DateFormat is the canonical (written) date layout.
const DateFormat = "2006-01-02"

// readFormats are tried in order when reading dates from rows; the first one
// that parses wins. Single digit days & months are accepted.
var readFormats = []string{
	"2006-1-2", // ISO
	"2-1-2006", // day first
	"1/2/2006", // month first, US style
}

// Date is a calendar day. The zero Date marks a missing or unreadable date.
type Date struct {
	t time.Time
}

// NewDate returns a normalized Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads a date in any of the accepted row formats.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	for _, layout := range readFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewDate(t.Date()), true
		}
	}
	return Date{}, false
}

// ParseCanonicalDate only accepts the canonical YYYY-MM-DD layout.
func ParseCanonicalDate(s string) (Date, bool) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, false
	}
	return NewDate(t.Date()), true
}

// IsMissing returns true if the date is the missing marker.
func (d Date) IsMissing() bool { return d.t.IsZero() }

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time { return d.t }

// String returns YYYY-MM-DD, or an empty string for a missing date.
func (d Date) String() string {
	if d.IsMissing() {
		return ""
	}
	return d.t.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsMissing() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	*d, _ = ParseCanonicalDate(*s)
	return nil
}
