package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDateString возвращается при некорректном формате даты
var ErrInvalidDateString = errors.New("invalid date string format")

// DateString календарная дата в формате YYYY-MM-DD.
// Строковое представление сравнимо лексикографически и годится как ключ map.
type DateString string

// NewDateString берет календарную дату из time.Time в его собственной локации
func NewDateString(t time.Time) DateString {
	return DateString(t.Format(dateLayout))
}

// NewDateStringFromString парсит строку YYYY-MM-DD
func NewDateStringFromString(s string) (DateString, error) {
	d := DateString(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate проверяет формат YYYY-MM-DD
func (d DateString) Validate() error {
	if len(d) != len(dateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	if _, err := time.Parse(dateLayout, string(d)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	return nil
}

func (d DateString) IsZero() bool {
	return d == ""
}

func (d DateString) String() string {
	return string(d)
}

// Before строго раньше other
func (d DateString) Before(other DateString) bool {
	return string(d) < string(other)
}

// After строго позже other
func (d DateString) After(other DateString) bool {
	return string(d) > string(other)
}

// In возвращает полночь этой даты в указанной локации
func (d DateString) In(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	return t, nil
}

// At собирает момент времени из даты и времени суток в указанной локации
func (d DateString) At(t TimeString, loc *time.Location) (time.Time, error) {
	day, err := d.In(loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// AddDays сдвигает дату на n дней
func (d DateString) AddDays(n int) (DateString, error) {
	day, err := d.In(time.UTC)
	if err != nil {
		return "", err
	}
	return NewDateString(day.AddDate(0, 0, n)), nil
}

// Scan реализует sql.Scanner. lib/pq отдает DATE как time.Time.
func (d *DateString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = DateString(v.Format(dateLayout))
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDateString, src)
	}
}

func (d *DateString) scanString(raw string) error {
	if len(raw) < len(dateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, raw)
	}
	parsed, err := NewDateStringFromString(raw[:len(dateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer
func (d DateString) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}
