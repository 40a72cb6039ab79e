package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Layout for day-precision dates (purchase/sale/expense dates)
const dateLayout = "2006-01-02"

// Date is a day-precision calendar date. It is stored in a DATE column
// and serialized as "2006-01-02" in JSON.
type Date struct {
	time.Time // Embedded time, always truncated to midnight UTC
}

// NewDate builds a Date for the given calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string into a Date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s) // Parse using the date layout
	if err != nil {
		return Date{}, err // Return error if parsing fails
	}
	return Date{Time: t}, nil
}

// String returns the date in "2006-01-02" form
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON serializes the date as a quoted "2006-01-02" string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted "2006-01-02" string
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`) // Strip surrounding quotes
	// Treat null and empty string as the zero date
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s) // Parse using the date layout
	if err != nil {
		return err // Return error if parsing fails
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer so the column holds a bare date string
func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

// Scan implements sql.Scanner for values coming back from the store
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{} // NULL column scans to the zero date
		return nil
	case time.Time:
		// Drivers with date parsing enabled hand back a time.Time
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case []byte:
		t, err := time.Parse(dateLayout, string(v)) // Parse raw bytes
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case string:
		t, err := time.Parse(dateLayout, v) // Parse raw string
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// GormDataType tells GORM to migrate Date fields as DATE columns
func (Date) GormDataType() string {
	return "date"
}

// DaysUntil returns the number of whole days from d to other
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}
