// Package bookings реализует чтение бронирований и переходы, не затрагивающие календарь:
// статусы in_progress/completed/disputed/refunded, договор, платежи и выплату.
// Отмена бронирования освобождает день и выполняется usecase cancel_booking.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/m04kA/BH-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/internal/service/bookings/models"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут только провайдер и клиент.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsParticipant(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, s.today()), nil
}

// GetUserBookings получает бронирования пользователя в роли провайдера или клиента.
// Опционально фильтрует по статусу и периоду дат события.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d as=%s, status=%v", req.UserID, req.As, req.Status)

	if req.ActorID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%d cannot list bookings of user=%d", req.ActorID, req.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid filter for user=%d: %v", req.UserID, err)
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.today()), nil
}

// UpdateStatus меняет статус бронирования.
// in_progress, completed и refunded выставляет провайдер, disputed - любая сторона.
// Отмена выполняется отдельной операцией.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d", req.BookingID, req.Status, req.ActorID)

	to := domain.BookingStatus(req.Status)
	switch to {
	case domain.StatusInProgress, domain.StatusCompleted, domain.StatusRefunded, domain.StatusDisputed:
	case domain.StatusCancelled:
		return nil, fmt.Errorf("%w: use the cancel endpoint to cancel a booking", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: status %q cannot be set", ErrInvalidInput, req.Status)
	}

	booking, err := s.get(ctx, "UpdateStatus", req.BookingID)
	if err != nil {
		return nil, err
	}

	party, ok := booking.PartyOf(req.ActorID)
	if !ok {
		s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", req.ActorID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if to != domain.StatusDisputed && party != domain.PartyProvider {
		s.logger.Warn("UpdateStatus: %s cannot move booking id=%d to %s", party, booking.ID, to)
		return nil, fmt.Errorf("%w: only the provider sets %s", ErrWrongParty, to)
	}

	if !domain.CanTransitionBooking(booking.Status, to) {
		s.logger.Warn("UpdateStatus: booking id=%d cannot move %s -> %s", booking.ID, booking.Status, to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	updated, err := s.bookingRepo.Transition(ctx, booking.ID,
		[]domain.BookingStatus{booking.Status},
		domain.BookingTransition{To: to, At: s.timeProvider.Now()})
	if err != nil {
		return nil, s.mapRepoError("UpdateStatus", booking.ID, err)
	}

	s.notifyOther(ctx, updated, req.ActorID, notifier.KindBookingStatusChanged, notifier.Payload{
		"from": string(booking.Status),
		"to":   string(updated.Status),
	})

	s.logger.Info("UpdateStatus: booking id=%d is now %s", updated.ID, updated.Status)
	return models.FromDomainBooking(updated, s.today()), nil
}

// AttachContract прикрепляет ссылку на договор. Доступно провайдеру, пока договор никто не подписал.
func (s *Service) AttachContract(ctx context.Context, req *models.AttachContractRequest) (*models.BookingResponse, error) {
	s.logger.Info("AttachContract: booking id=%d by user=%d", req.BookingID, req.ActorID)

	if err := validateContractURL(req.ContractURL); err != nil {
		s.logger.Warn("AttachContract: validation failed: %v", err)
		return nil, err
	}

	booking, err := s.get(ctx, "AttachContract", req.BookingID)
	if err != nil {
		return nil, err
	}

	party, ok := booking.PartyOf(req.ActorID)
	if !ok {
		s.logger.Warn("AttachContract: access denied for user=%d to booking id=%d", req.ActorID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if party != domain.PartyProvider {
		return nil, fmt.Errorf("%w: only the provider attaches a contract", ErrWrongParty)
	}

	updated, err := s.bookingRepo.AttachContract(ctx, booking.ID, req.ContractURL, s.timeProvider.Now())
	if err != nil {
		return nil, s.mapRepoError("AttachContract", booking.ID, err)
	}

	s.notifyOther(ctx, updated, req.ActorID, notifier.KindContractAttached, notifier.Payload{
		"contract_url": req.ContractURL,
	})

	s.logger.Info("AttachContract: contract attached to booking id=%d", updated.ID)
	return models.FromDomainBooking(updated, s.today()), nil
}

// SignContract отмечает подпись стороны пользователя
func (s *Service) SignContract(ctx context.Context, req *models.SignContractRequest) (*models.BookingResponse, error) {
	s.logger.Info("SignContract: booking id=%d by user=%d", req.BookingID, req.ActorID)

	booking, err := s.get(ctx, "SignContract", req.BookingID)
	if err != nil {
		return nil, err
	}

	party, ok := booking.PartyOf(req.ActorID)
	if !ok {
		s.logger.Warn("SignContract: access denied for user=%d to booking id=%d", req.ActorID, req.BookingID)
		return nil, ErrAccessDenied
	}

	updated, err := s.bookingRepo.SignContract(ctx, booking.ID, party, s.timeProvider.Now())
	if err != nil {
		return nil, s.mapRepoError("SignContract", booking.ID, err)
	}

	contract := updated.Contract()
	s.notifyOther(ctx, updated, req.ActorID, notifier.KindContractSigned, notifier.Payload{
		"party":           string(party),
		"contract_status": string(contract.Status),
	})

	s.logger.Info("SignContract: %s signed booking id=%d, contract is %s", party, updated.ID, contract.Status)
	return models.FromDomainBooking(updated, s.today()), nil
}

// MarkMilestonePaid отмечает оплату задатка или финального платежа (вызывается PaymentService)
func (s *Service) MarkMilestonePaid(ctx context.Context, req *models.MarkPaidRequest) (*models.BookingResponse, error) {
	s.logger.Info("MarkMilestonePaid: booking id=%d milestone=%s", req.BookingID, req.Milestone)

	kind := domain.MilestoneKind(req.Milestone)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown milestone %q", ErrInvalidInput, req.Milestone)
	}

	updated, err := s.bookingRepo.MarkMilestonePaid(ctx, req.BookingID, kind, s.timeProvider.Now())
	if err != nil {
		return nil, s.mapRepoError("MarkMilestonePaid", req.BookingID, err)
	}

	payload := notifier.Payload{"milestone": string(kind)}
	s.notify(ctx, updated, updated.ProviderID, notifier.KindPaymentReceived, payload)
	s.notify(ctx, updated, updated.ClientID, notifier.KindPaymentReceived, payload)

	s.logger.Info("MarkMilestonePaid: %s paid for booking id=%d", kind, updated.ID)
	return models.FromDomainBooking(updated, s.today()), nil
}

// UpdatePayout переводит выплату провайдеру в следующий статус (вызывается PaymentService)
func (s *Service) UpdatePayout(ctx context.Context, req *models.UpdatePayoutRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePayout: booking id=%d -> %s", req.BookingID, req.Status)

	to := domain.PayoutStatus(req.Status)
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: unknown payout status %q", ErrInvalidInput, req.Status)
	}
	if to == domain.PayoutScheduled && req.ScheduledDate == nil {
		return nil, fmt.Errorf("%w: scheduledDate is required to schedule a payout", ErrInvalidInput)
	}

	booking, err := s.get(ctx, "UpdatePayout", req.BookingID)
	if err != nil {
		return nil, err
	}

	if !domain.CanAdvancePayout(booking.PayoutStatus, to) {
		s.logger.Warn("UpdatePayout: booking id=%d payout cannot move %s -> %s", booking.ID, booking.PayoutStatus, to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrPayoutConflict, booking.PayoutStatus, to)
	}

	now := s.timeProvider.Now()
	upd := domain.PayoutUpdate{From: booking.PayoutStatus, To: to}
	if to == domain.PayoutScheduled {
		upd.ScheduledDate = req.ScheduledDate
	}
	if to == domain.PayoutCompleted {
		upd.CompletedAt = &now
	}

	updated, err := s.bookingRepo.UpdatePayout(ctx, booking.ID, upd, now)
	if err != nil {
		return nil, s.mapRepoError("UpdatePayout", booking.ID, err)
	}

	s.notify(ctx, updated, updated.ProviderID, notifier.KindPayoutUpdated, notifier.Payload{
		"payout_status": string(updated.PayoutStatus),
	})

	s.logger.Info("UpdatePayout: booking id=%d payout is now %s", updated.ID, updated.PayoutStatus)
	return models.FromDomainBooking(updated, s.today()), nil
}

func (s *Service) today() types.Date {
	return types.DateOf(s.timeProvider.Now())
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		s.logger.Warn("%s: booking id=%d changed concurrently", op, id)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case errors.Is(err, bookingRepo.ErrContractConflict):
		s.logger.Warn("%s: booking id=%d contract conflict", op, id)
		return fmt.Errorf("%w: %v", ErrContractConflict, err)
	case errors.Is(err, bookingRepo.ErrMilestoneConflict):
		s.logger.Warn("%s: booking id=%d milestone conflict", op, id)
		return fmt.Errorf("%w: %v", ErrMilestoneConflict, err)
	case errors.Is(err, bookingRepo.ErrPayoutConflict):
		s.logger.Warn("%s: booking id=%d payout conflict", op, id)
		return fmt.Errorf("%w: %v", ErrPayoutConflict, err)
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// notifyOther уведомляет сторону, не совершавшую действие
func (s *Service) notifyOther(ctx context.Context, b *domain.Booking, actorID int64, kind notifier.Kind, extra notifier.Payload) {
	recipient := b.ProviderID
	if actorID == b.ProviderID {
		recipient = b.ClientID
	}
	s.notify(ctx, b, recipient, kind, extra)
}

func (s *Service) notify(ctx context.Context, b *domain.Booking, userID int64, kind notifier.Kind, extra notifier.Payload) {
	payload := notifier.Payload{
		"booking_id":     b.ID,
		"booking_number": b.BookingNumber,
		"status":         string(b.Status),
	}
	for k, v := range extra {
		payload[k] = v
	}
	s.notifier.Notify(ctx, userID, kind, payload)
}

func toDomainFilter(req *models.GetUserBookingsRequest) (domain.BookingsFilter, error) {
	var filter domain.BookingsFilter

	switch req.As {
	case "", string(domain.PartyClient):
		filter.ClientID = &req.UserID
	case string(domain.PartyProvider):
		filter.ProviderID = &req.UserID
	default:
		return filter, fmt.Errorf("%w: as must be provider or client", ErrInvalidInput)
	}

	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return filter, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	filter.StartDate = req.StartDate
	filter.EndDate = req.EndDate

	return filter, nil
}

func validateContractURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: contractUrl is required", ErrInvalidInput)
	}
	if len(raw) > domain.MaxContractURLLength {
		return fmt.Errorf("%w: contractUrl longer than %d characters", ErrInvalidInput, domain.MaxContractURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: contractUrl must be an absolute http(s) URL", ErrInvalidInput)
	}
	return nil
}
