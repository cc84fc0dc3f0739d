package valueobject

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Period identifies a billing cycle by year and month, formatted "YYYY-MM".
type Period struct {
	year  int
	month time.Month
}

// ParsePeriod parses a "YYYY-MM" string into a Period
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("period must be formatted YYYY-MM: %w", err)
	}
	return Period{year: t.Year(), month: t.Month()}, nil
}

// PeriodOf returns the Period containing the given time
func PeriodOf(t time.Time) Period {
	return Period{year: t.Year(), month: t.Month()}
}

// Year returns the period's year
func (p Period) Year() int {
	return p.year
}

// Month returns the period's month
func (p Period) Month() time.Month {
	return p.month
}

// IsZero returns true for the zero Period
func (p Period) IsZero() bool {
	return p.year == 0 && p.month == 0
}

// Next returns the following period
func (p Period) Next() Period {
	t := time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return Period{year: t.Year(), month: t.Month()}
}

// Equals returns true if both periods identify the same year-month
func (p Period) Equals(other Period) bool {
	return p.year == other.year && p.month == other.month
}

// String returns the canonical "YYYY-MM" representation
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
}

// MarshalJSON implements json.Marshaler
func (p Period) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Period) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParsePeriod(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (p Period) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Period) Scan(value any) error {
	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Period", value)
	}
	parsed, err := ParsePeriod(strVal)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
