package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month identifies a calendar month in YYYY-MM form. The zero value is an
// unset month.
type Month string

// ParseMonth validates and normalises a YYYY-MM string ("2025-1" becomes "2025-01").
func ParseMonth(value string) (Month, error) {
	value = strings.TrimSpace(value)
	year, month, err := splitMonth(value)
	if err != nil {
		return "", err
	}
	if year < 1 || year > 9999 {
		return "", fmt.Errorf("month %q has an invalid year", value)
	}
	return NewMonth(year, time.Month(month)), nil
}

// splitMonth reads the year and month of a YYYY-MM string. The year is not
// range checked so that months past 9999-12 still order correctly.
func splitMonth(value string) (int, int, error) {
	yearPart, monthPart, ok := strings.Cut(value, "-")
	if !ok {
		return 0, 0, fmt.Errorf("month %q must use the YYYY-MM format", value)
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 0 {
		return 0, 0, fmt.Errorf("month %q has an invalid year", value)
	}

	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %q has an invalid month number", value)
	}
	return year, month, nil
}

// MustParseMonth is ParseMonth for literals known to be valid.
func MustParseMonth(value string) Month {
	m, err := ParseMonth(value)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMonth builds a Month from its year and month parts.
func NewMonth(year int, month time.Month) Month {
	return Month(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// Valid reports whether m is a well-formed month.
func (m Month) Valid() bool {
	_, err := ParseMonth(string(m))
	return err == nil
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m == ""
}

// String implements fmt.Stringer.
func (m Month) String() string {
	return string(m)
}

// Time returns the first instant of the month in UTC.
func (m Month) Time() time.Time {
	parsed, err := ParseMonth(string(m))
	if err != nil {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01", string(parsed))
	return t
}

// ordinal counts months since January of year 0.
func (m Month) ordinal() (int, bool) {
	year, month, err := splitMonth(string(m))
	if err != nil {
		return 0, false
	}
	return year*12 + month - 1, true
}

func monthFromOrdinal(n int) Month {
	if n < 0 {
		n = 0
	}
	return NewMonth(n/12, time.Month(n%12+1))
}

// Add returns the month n months after m (n may be negative). A malformed
// month yields the zero Month.
func (m Month) Add(n int) Month {
	o, ok := m.ordinal()
	if !ok {
		return ""
	}
	return monthFromOrdinal(o + n)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.Add(1)
}

// MonthsUntil returns how many months other lies after m; negative when other
// comes first and 0 when either month is malformed.
func (m Month) MonthsUntil(other Month) int {
	from, ok := m.ordinal()
	if !ok {
		return 0
	}
	to, ok := other.ordinal()
	if !ok {
		return 0
	}
	return to - from
}

// Compare orders months chronologically, returning -1, 0 or +1. Malformed
// months fall back to string order.
func (m Month) Compare(other Month) int {
	a, okA := m.ordinal()
	b, okB := other.ordinal()
	if !okA || !okB {
		return strings.Compare(string(m), string(other))
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	return m.Compare(other) < 0
}

// After reports whether m follows other.
func (m Month) After(other Month) bool {
	return m.Compare(other) > 0
}
