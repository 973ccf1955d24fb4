// Package calendar builds the month grid of a provider's availability and
// decides which cells an actor may pick.
package calendar

import (
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

const (
	daysInWeek = 7
	minCells   = 4 * daysInWeek
	maxCells   = 6 * daysInWeek
)

// Cell one day of the month grid
type Cell struct {
	Date            types.Date
	Status          domain.AvailabilityStatus
	HasTimeSlots    bool
	TimeSlots       []domain.TimeSlot
	Notes           *string
	LinkedBookingID *int64

	IsCurrentMonth bool
	IsPast         bool
	IsToday        bool
	IsSelected     bool
	IsHighlighted  bool
}

// Options caller-supplied annotations
type Options struct {
	Today       types.Date
	Selected    *types.Date
	Highlighted []types.Date
}

// BuildMonthGrid turns a month and its availability records into full weeks of cells,
// Sunday first. The grid always starts on the Sunday on/before the 1st and ends on
// the Saturday on/after the last day, so len is a multiple of 7 within [28, 42].
func BuildMonthGrid(year int, month time.Month, days []*domain.AvailabilityDay, opts Options) []Cell {
	first := types.NewDate(year, month, 1)
	last := first.Time().AddDate(0, 1, -1)
	lastDay := types.DateOf(last)

	leading := int(first.Weekday())
	trailing := int(time.Saturday - lastDay.Weekday())
	total := leading + lastDay.Day() + trailing

	byDate := make(map[types.Date]*domain.AvailabilityDay, len(days))
	for _, d := range days {
		if d != nil {
			byDate[d.Date] = d
		}
	}

	highlighted := make(map[types.Date]struct{}, len(opts.Highlighted))
	for _, d := range opts.Highlighted {
		highlighted[d] = struct{}{}
	}

	cells := make([]Cell, 0, total)
	start := first.AddDays(-leading)
	for i := 0; i < total; i++ {
		date := start.AddDays(i)
		cells = append(cells, newCell(date, month, byDate[date], highlighted, opts))
	}

	return cells
}

func newCell(
	date types.Date,
	month time.Month,
	day *domain.AvailabilityDay,
	highlighted map[types.Date]struct{},
	opts Options,
) Cell {
	cell := Cell{
		Date:           date,
		Status:         domain.AvailabilityAvailable,
		IsCurrentMonth: date.Month() == month,
		IsPast:         !opts.Today.IsZero() && date.Before(opts.Today),
		IsToday:        date == opts.Today,
		IsSelected:     opts.Selected != nil && date == *opts.Selected,
	}
	_, cell.IsHighlighted = highlighted[date]

	if day != nil {
		cell.Status = day.Status
		cell.HasTimeSlots = day.HasTimeSlots()
		cell.TimeSlots = day.TimeSlots
		cell.Notes = day.Notes
		cell.LinkedBookingID = day.LinkedBookingID
	}

	return cell
}

// MonthRange returns the first and last date covered by the grid of a month
func MonthRange(year int, month time.Month) (types.Date, types.Date) {
	first := types.NewDate(year, month, 1)
	lastDay := types.DateOf(first.Time().AddDate(0, 1, -1))
	start := first.AddDays(-int(first.Weekday()))
	end := lastDay.AddDays(int(time.Saturday - lastDay.Weekday()))
	return start, end
}
