package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateFormat формат даты на границе сервиса (без времени и часового пояса)
const DateFormat = "2006-01-02"

// ErrInvalidDate возвращается при некорректной дате
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Date календарная дата без времени и часового пояса.
// Сравнивается через ==, годится как ключ map.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate создает дату, нормализуя переполнение (31 апреля -> 1 мая)
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf берет календарную дату из t в его собственной локации
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate парсит строку YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// String форматирует дату как YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Year год
func (d Date) Year() int { return d.year }

// Month месяц
func (d Date) Month() time.Month { return d.month }

// Day день месяца
func (d Date) Day() int { return d.day }

// IsZero возвращает true для незаданной даты
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time возвращает полночь даты в UTC
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday день недели (воскресенье = 0)
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays сдвигает дату на n дней
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before возвращает true, если d строго раньше other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After возвращает true, если d строго позже other
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// DaysUntil количество дней от d до other (отрицательное, если other в прошлом)
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// MarshalJSON сериализует дату как "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON парсит "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner для колонок DATE
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		// pq отдает DATE как полночь UTC, берем компоненты без конвертации зоны
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateFormat) {
		s = s[:len(DateFormat)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer; в БД уходит строка YYYY-MM-DD
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
