// Package availability управляет календарем доступности провайдера:
// чтение месячной сетки и правки дней в режиме редактирования.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BH-BookingService/internal/calendar"
	"github.com/m04kA/BH-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Service сервис календаря доступности
type Service struct {
	availabilityRepo AvailabilityRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(availabilityRepo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// GetCalendar строит месячную сетку календаря провайдера и помечает ячейки,
// которые можно выбрать в заданной роли и режиме
func (s *Service) GetCalendar(ctx context.Context, req *models.GetCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("GetCalendar: provider=%d, %04d-%02d, role=%s, mode=%s", req.ProviderID, req.Year, req.Month, req.Role, req.Mode)

	role, mode, err := validateCalendarRequest(req)
	if err != nil {
		s.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	month := time.Month(req.Month)
	from, to := calendar.MonthRange(req.Year, month)

	days, err := s.availabilityRepo.GetRange(ctx, req.ProviderID, from, to)
	if err != nil {
		s.logger.Error("GetCalendar: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	cells := calendar.BuildMonthGrid(req.Year, month, days, calendar.Options{
		Today:       types.DateOf(s.timeProvider.Now()),
		Selected:    req.Selected,
		Highlighted: req.Highlighted,
	})

	resp := &models.CalendarResponse{
		ProviderID: req.ProviderID,
		Year:       req.Year,
		Month:      req.Month,
		Role:       string(role),
		Mode:       string(mode),
		Cells:      make([]models.CellResponse, len(cells)),
	}
	for i, cell := range cells {
		resp.Cells[i] = models.FromCell(cell, calendar.CanSelect(cell, role, mode, req.DisablePastDates))
	}

	s.logger.Info("GetCalendar: built %d cells for provider=%d (%d stored days)", len(cells), req.ProviderID, len(days))
	return resp, nil
}

// SetDay сохраняет правку дня провайдером.
// Если день уже занят бронированием, он остается booked, а новый статус будет восстановлен после отмены.
func (s *Service) SetDay(ctx context.Context, req *models.SetDayRequest) (*models.DayResponse, error) {
	s.logger.Info("SetDay: provider=%d, date=%s, status=%s by user=%d", req.ProviderID, req.Date, req.Status, req.ActorID)

	if req.ActorID != req.ProviderID {
		s.logger.Warn("SetDay: user=%d is not provider=%d", req.ActorID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	day, err := s.buildDay(req)
	if err != nil {
		s.logger.Warn("SetDay: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.availabilityRepo.Upsert(ctx, day)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn("SetDay: conflict for provider=%d, date=%s: %v", req.ProviderID, req.Date, err)
			return nil, fmt.Errorf("SetDay: %w", err)
		}
		s.logger.Error("SetDay: repository error for provider=%d, date=%s: %v", req.ProviderID, req.Date, err)
		return nil, fmt.Errorf("%w: SetDay - repository error: %v", ErrInternal, err)
	}

	if saved.IsLinkedToBooking() {
		s.logger.Info("SetDay: day %s is owned by booking id=%d, status %s kept for restoration",
			req.Date, *saved.LinkedBookingID, day.Status)
	}

	s.logger.Info("SetDay: saved provider=%d, date=%s, status=%s", saved.ProviderID, saved.Date, saved.Status)
	return models.FromDomainDay(saved), nil
}

// DeleteDay удаляет запись дня; день снова считается available.
// День, занятый бронированием, удалить нельзя.
func (s *Service) DeleteDay(ctx context.Context, req *models.DeleteDayRequest) error {
	s.logger.Info("DeleteDay: provider=%d, date=%s by user=%d", req.ProviderID, req.Date, req.ActorID)

	if req.ActorID != req.ProviderID {
		s.logger.Warn("DeleteDay: user=%d is not provider=%d", req.ActorID, req.ProviderID)
		return ErrAccessDenied
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.availabilityRepo.Delete(ctx, req.ProviderID, req.Date); err != nil {
		switch {
		case errors.Is(err, availabilityRepo.ErrDayNotFound):
			s.logger.Warn("DeleteDay: provider=%d has no record for %s", req.ProviderID, req.Date)
			return ErrDayNotFound
		case errors.Is(err, availabilityRepo.ErrDayBooked):
			s.logger.Warn("DeleteDay: day %s of provider=%d is booked", req.Date, req.ProviderID)
			return ErrDayBooked
		default:
			s.logger.Error("DeleteDay: repository error for provider=%d, date=%s: %v", req.ProviderID, req.Date, err)
			return fmt.Errorf("%w: DeleteDay - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("DeleteDay: deleted provider=%d, date=%s", req.ProviderID, req.Date)
	return nil
}

func (s *Service) buildDay(req *models.SetDayRequest) (*domain.AvailabilityDay, error) {
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Date.Before(types.DateOf(s.timeProvider.Now())) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, req.Date)
	}

	status := domain.AvailabilityStatus(req.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if status == domain.AvailabilityBooked {
		return nil, fmt.Errorf("%w: booked is set only by accepting a booking request", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	slots, err := domain.NormalizeTimeSlots(models.ToDomainTimeSlots(req.TimeSlots))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &domain.AvailabilityDay{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		Status:     status,
		TimeSlots:  slots,
		Notes:      req.Notes,
	}, nil
}

func validateCalendarRequest(req *models.GetCalendarRequest) (calendar.Role, calendar.Mode, error) {
	if req.ProviderID <= 0 {
		return "", "", fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}
	if req.Month < 1 || req.Month > 12 {
		return "", "", fmt.Errorf("%w: month must be within 1..12", ErrInvalidInput)
	}
	if req.Year < 1 || req.Year > 9999 {
		return "", "", fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}

	role := calendar.RoleCustomer
	if req.Role != "" {
		role = calendar.Role(req.Role)
	}
	mode := calendar.ModeView
	if req.Mode != "" {
		mode = calendar.Mode(req.Mode)
	}

	if !role.IsValid() {
		return "", "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}
	if !mode.IsValid() {
		return "", "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}
	if role == calendar.RoleCustomer && mode == calendar.ModeEdit {
		return "", "", fmt.Errorf("%w: customers cannot edit a calendar", ErrInvalidInput)
	}

	return role, mode, nil
}
