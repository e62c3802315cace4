package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month identifies a calendar month used for monthly aggregation.
type Month struct {
	Year  int
	Month time.Month
}

// Of returns the month containing t.
func Of(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String returns a key like "2025-01".
func (m Month) String() string {
	return FormatMonthKey(m.Year, int(m.Month))
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// FormatMonthKey returns a month key like "2025-01".
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey parses "2025-01" into a Month.
func ParseMonthKey(key string) (Month, error) {
	parts := strings.SplitN(strings.TrimSpace(key), "-", 2)
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month key format: %q", key)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid year in month key %q: %w", key, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month in month key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month out of range in month key %q", key)
	}

	return Month{Year: year, Month: time.Month(month)}, nil
}

// MarshalText encodes the month as its key.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a month key.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonthKey(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
