package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_RoundTrip(t *testing.T) {
	inputs := []string{
		"2025-12-25",
		"2024-02-29",
		"2000-01-01",
		"1999-12-31",
		"2025-06-01",
		"2026-03-29", // переход на летнее время в Европе
		"2026-11-01", // переход на зимнее время в США
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			d, err := ParseDate(s)
			require.NoError(t, err)
			assert.Equal(t, s, d.String())
		})
	}
}

func TestParseDate_RoundTripEveryDayOfLeapYear(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		s := start.AddDate(0, 0, i).Format(DateFormat)
		d, err := ParseDate(s)
		require.NoError(t, err)
		require.Equal(t, s, d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "2025-02-30", "25-12-2025", "2025-12-25T00:00:00Z", "2023-02-29"} {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrInvalidDate, s)
	}
}

func TestDateOf_IgnoresTimezoneShift(t *testing.T) {
	// 23:30 по Москве 31 декабря — это 20:30 UTC того же дня, но 01 января в Токио
	moscow := time.FixedZone("MSK", 3*60*60)
	tm := time.Date(2025, 12, 31, 23, 30, 0, 0, moscow)

	assert.Equal(t, "2025-12-31", DateOf(tm).String())
	assert.Equal(t, "2025-12-31", DateOf(tm.UTC()).String())
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)

	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, 2, d.DaysUntil(d.AddDays(2)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 30))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date Date  `json:"date"`
		Opt  *Date `json:"opt,omitempty"`
	}

	data, err := json.Marshal(payload{Date: NewDate(2025, time.December, 25)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-12-25"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-06-01","opt":"2025-06-02"}`), &decoded))
	assert.Equal(t, NewDate(2025, time.June, 1), decoded.Date)
	require.NotNil(t, decoded.Opt)
	assert.Equal(t, "2025-06-02", decoded.Opt.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"06/01/2025"}`), &decoded))
}

func TestDate_ScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-12-25T00:00:00Z")))
	assert.Equal(t, "2025-12-25", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-25", v)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestTimeString(t *testing.T) {
	start, err := NewTimeStringFromString("18:30")
	require.NoError(t, err)

	end, err := start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("20:00"), end)
	assert.True(t, start.IsBefore(end))
	assert.True(t, end.IsAfter(start))

	_, err = start.AddMinutes(6 * 60)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	var ts TimeString
	require.NoError(t, ts.Scan("09:15:00"))
	assert.Equal(t, TimeString("09:15"), ts)
}
