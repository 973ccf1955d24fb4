package models

import (
	"github.com/m04kA/BH-BookingService/internal/calendar"
	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Request модели

// GetCalendarRequest запрос месячной сетки календаря провайдера
type GetCalendarRequest struct {
	ProviderID       int64
	Year             int
	Month            int
	Role             string
	Mode             string
	Selected         *types.Date
	Highlighted      []types.Date
	DisablePastDates bool
}

// SetDayRequest правка дня провайдером
type SetDayRequest struct {
	ProviderID int64         `json:"-"`
	ActorID    int64         `json:"-"`
	Date       types.Date    `json:"-"`
	Status     string        `json:"status"`
	TimeSlots  []TimeSlotDTO `json:"timeSlots,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
}

// DeleteDayRequest удаление записи дня
type DeleteDayRequest struct {
	ProviderID int64
	ActorID    int64
	Date       types.Date
}

// Response модели

// TimeSlotDTO интервал времени
type TimeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CellResponse ячейка календарной сетки
type CellResponse struct {
	Date            types.Date    `json:"date"`
	Status          string        `json:"status"`
	HasTimeSlots    bool          `json:"hasTimeSlots"`
	TimeSlots       []TimeSlotDTO `json:"timeSlots,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	LinkedBookingID *int64        `json:"linkedBookingId,omitempty"`
	IsCurrentMonth  bool          `json:"isCurrentMonth"`
	IsPast          bool          `json:"isPast"`
	IsToday         bool          `json:"isToday"`
	IsSelected      bool          `json:"isSelected"`
	IsHighlighted   bool          `json:"isHighlighted"`
	IsSelectable    bool          `json:"isSelectable"`
}

// CalendarResponse месячная сетка
type CalendarResponse struct {
	ProviderID int64          `json:"providerId"`
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Role       string         `json:"role"`
	Mode       string         `json:"mode"`
	Cells      []CellResponse `json:"cells"`
}

// DayResponse запись дня
type DayResponse struct {
	ProviderID      int64         `json:"providerId"`
	Date            types.Date    `json:"date"`
	Status          string        `json:"status"`
	HasTimeSlots    bool          `json:"hasTimeSlots"`
	TimeSlots       []TimeSlotDTO `json:"timeSlots,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	LinkedBookingID *int64        `json:"linkedBookingId,omitempty"`
	RestoreStatus   *string       `json:"restoreStatus,omitempty"` // статус после отмены связанного бронирования
}

// ToDomainTimeSlots конвертирует DTO в доменные интервалы
func ToDomainTimeSlots(slots []TimeSlotDTO) []domain.TimeSlot {
	if len(slots) == 0 {
		return nil
	}
	result := make([]domain.TimeSlot, len(slots))
	for i, s := range slots {
		result[i] = domain.TimeSlot{Start: types.TimeString(s.Start), End: types.TimeString(s.End)}
	}
	return result
}

// FromDomainTimeSlots конвертирует доменные интервалы в DTO
func FromDomainTimeSlots(slots []domain.TimeSlot) []TimeSlotDTO {
	if len(slots) == 0 {
		return nil
	}
	result := make([]TimeSlotDTO, len(slots))
	for i, s := range slots {
		result[i] = TimeSlotDTO{Start: s.Start.String(), End: s.End.String()}
	}
	return result
}

// FromCell конвертирует ячейку сетки в ответ
func FromCell(cell calendar.Cell, selectable bool) CellResponse {
	return CellResponse{
		Date:            cell.Date,
		Status:          string(cell.Status),
		HasTimeSlots:    cell.HasTimeSlots,
		TimeSlots:       FromDomainTimeSlots(cell.TimeSlots),
		Notes:           cell.Notes,
		LinkedBookingID: cell.LinkedBookingID,
		IsCurrentMonth:  cell.IsCurrentMonth,
		IsPast:          cell.IsPast,
		IsToday:         cell.IsToday,
		IsSelected:      cell.IsSelected,
		IsHighlighted:   cell.IsHighlighted,
		IsSelectable:    selectable,
	}
}

// FromDomainDay конвертирует запись дня в ответ
func FromDomainDay(day *domain.AvailabilityDay) *DayResponse {
	resp := &DayResponse{
		ProviderID:      day.ProviderID,
		Date:            day.Date,
		Status:          string(day.Status),
		HasTimeSlots:    day.HasTimeSlots(),
		TimeSlots:       FromDomainTimeSlots(day.TimeSlots),
		Notes:           day.Notes,
		LinkedBookingID: day.LinkedBookingID,
	}
	if day.IsLinkedToBooking() {
		restore := string(day.RestoreStatus())
		resp.RestoreStatus = &restore
	}
	return resp
}
