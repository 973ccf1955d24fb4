package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
)

// UseCase use case отмены бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	notifier         Notifier
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		notifier:         notifier,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute отменяет бронирование и в той же транзакции возвращает день провайдера
// в статус, который был до бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking id=%d by user=%d", req.BookingID, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		cancelled *domain.Booking
		restored  *domain.AvailabilityDay
	)
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Получаем бронирование под блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3. Отменить может любая из сторон
		if !booking.IsParticipant(req.ActorID) {
			uc.logger.Warn("CancelBooking: access denied for user=%d to booking id=%d", req.ActorID, booking.ID)
			return ErrAccessDenied
		}
		if !domain.CanTransitionBooking(booking.Status, domain.StatusCancelled) {
			uc.logger.Warn("CancelBooking: booking id=%d is %s", booking.ID, booking.Status)
			return fmt.Errorf("%w: booking is %s", ErrCannotCancel, booking.Status)
		}

		// 4. Compare-and-swap статуса
		actorID := req.ActorID
		reason := req.Reason
		cancelled, err = uc.bookingRepo.Transition(txCtx, booking.ID,
			domain.BookingSourceStatuses(domain.StatusCancelled),
			domain.BookingTransition{
				To:                        domain.StatusCancelled,
				At:                        now,
				CancelledBy:               &actorID,
				CancellationReason:        &reason,
				CancellationFeePercentage: req.CancellationFeePercentage,
			})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: %v", ErrCannotCancel, err)
			}
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 5. Освобождаем день. Если день уже не связан с бронированием, отмена все равно проходит
		restored, err = uc.availabilityRepo.Release(txCtx, cancelled.ProviderID, cancelled.EventDate, cancelled.ID)
		switch {
		case errors.Is(err, availabilityRepo.ErrDayNotFound):
			uc.logger.Warn("CancelBooking: day %s of provider=%d is not linked to booking id=%d",
				cancelled.EventDate, cancelled.ProviderID, cancelled.ID)
			restored = nil
		case err != nil:
			uc.logger.Error("CancelBooking: failed to release %s for provider=%d: %v", cancelled.EventDate, cancelled.ProviderID, err)
			return fmt.Errorf("%w: failed to release availability: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled by user=%d", cancelled.ID, req.ActorID)

	// 6. Уведомляем другую сторону после коммита
	recipient := cancelled.ProviderID
	if req.ActorID == cancelled.ProviderID {
		recipient = cancelled.ClientID
	}
	uc.notifier.Notify(ctx, recipient, notifier.KindBookingCancelled, notifier.Payload{
		"booking_id":     cancelled.ID,
		"booking_number": cancelled.BookingNumber,
		"cancelled_by":   req.ActorID,
		"reason":         req.Reason,
		"event_date":     cancelled.EventDate.String(),
	})

	resp := &Response{
		BookingID:                 cancelled.ID,
		BookingNumber:             cancelled.BookingNumber,
		Status:                    string(cancelled.Status),
		CancelledAt:               now,
		CancelledBy:               req.ActorID,
		CancellationReason:        req.Reason,
		CancellationFeePercentage: cancelled.CancellationFeePercentage,
	}
	if restored != nil {
		status := string(restored.Status)
		resp.RestoredDayStatus = &status
	}
	return resp, nil
}
