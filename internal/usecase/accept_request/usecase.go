package accept_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking"
	requestRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking_request"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/internal/integrations/paymentservice"
)

// UseCase use case принятия запроса на бронирование
type UseCase struct {
	requestRepo      RequestRepository
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	paymentClient    PaymentServiceClient
	notifier         Notifier
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	requestRepo RequestRepository,
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	paymentClient PaymentServiceClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:      requestRepo,
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		paymentClient:    paymentClient,
		notifier:         notifier,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute принимает запрос: в одной транзакции запрос переходит в accepted,
// создается бронирование и день провайдера помечается booked.
// Любой сбой откатывает все три изменения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AcceptRequest: request id=%d by user=%d", req.RequestID, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AcceptRequest: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Предварительные проверки вне транзакции, чтобы не ходить в PaymentService зря
	request, err := uc.getRequest(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}
	if err := checkAcceptable(request, req.ActorID, now); err != nil {
		uc.logger.Warn("AcceptRequest: request id=%d: %v", request.ID, err)
		return nil, err
	}

	totalPrice := resolveTotalPrice(req, request)

	// 3. Платежный план. Недоступность PaymentService не блокирует принятие
	quote, err := uc.paymentClient.GetQuoteWithGracefulDegradation(ctx, paymentservice.QuoteRequest{
		RequestID:  request.ID,
		ProviderID: request.ProviderID,
		ClientID:   request.RequesterID,
		EventDate:  request.EventDate,
		EventType:  string(request.EventType),
		TotalPrice: totalPrice,
	})
	if err != nil {
		uc.logger.Warn("AcceptRequest: creating booking without payment plan for request id=%d: %v", request.ID, err)
		quote = nil
	}

	// 4. Атомарное принятие
	var (
		accepted *domain.BookingRequest
		created  *domain.Booking
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем запрос под блокировкой
		current, err := uc.getRequest(txCtx, req.RequestID)
		if err != nil {
			return err
		}
		if err := checkAcceptable(current, req.ActorID, now); err != nil {
			return err
		}

		// 4.2. Compare-and-swap статуса запроса
		accepted, err = uc.requestRepo.Transition(txCtx, current.ID,
			[]domain.BookingRequestStatus{current.Status},
			domain.RequestTransition{To: domain.RequestAccepted, At: now})
		if err != nil {
			if errors.Is(err, requestRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			uc.logger.Error("AcceptRequest: failed to transition request id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to transition request: %v", ErrInternal, err)
		}

		// 4.3. Бронирование с копией данных события
		booking := newBooking(accepted, totalPrice, quote)
		created, err = uc.bookingRepo.Create(txCtx, booking, func() string {
			return domain.NewBookingNumber(now)
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingExists) {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			uc.logger.Error("AcceptRequest: failed to create booking for request id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.4. Занимаем день провайдера
		if _, err := uc.availabilityRepo.Claim(txCtx, created.ProviderID, created.EventDate, created.ID); err != nil {
			if errors.Is(err, availabilityRepo.ErrDayNotClaimable) || errors.Is(err, availabilityRepo.ErrConcurrentUpdate) {
				return fmt.Errorf("%w: %s: %v", ErrDateUnavailable, created.EventDate, err)
			}
			uc.logger.Error("AcceptRequest: failed to claim %s for provider=%d: %v", created.EventDate, created.ProviderID, err)
			return fmt.Errorf("%w: failed to claim availability: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		uc.logger.Warn("AcceptRequest: request id=%d not accepted: %v", req.RequestID, err)
		return nil, err
	}

	uc.logger.Info("AcceptRequest: request id=%d accepted, booking id=%d number=%s",
		accepted.ID, created.ID, created.BookingNumber)

	// 5. Уведомления после коммита
	payload := notifier.Payload{
		"request_id":     accepted.ID,
		"booking_id":     created.ID,
		"booking_number": created.BookingNumber,
		"event_date":     created.EventDate.String(),
	}
	uc.notifier.Notify(ctx, created.ClientID, notifier.KindRequestAccepted, payload)
	uc.notifier.Notify(ctx, created.ProviderID, notifier.KindRequestAccepted, payload)

	return toResponse(accepted, created), nil
}

func (uc *UseCase) getRequest(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	request, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			uc.logger.Warn("AcceptRequest: request id=%d not found", id)
			return nil, ErrRequestNotFound
		}
		uc.logger.Error("AcceptRequest: failed to get request id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
	}
	return request, nil
}

func newBooking(request *domain.BookingRequest, totalPrice float64, quote *domain.PaymentQuote) *domain.Booking {
	booking := &domain.Booking{
		RequestID:       request.ID,
		ProviderID:      request.ProviderID,
		ClientID:        request.RequesterID,
		EventDate:       request.EventDate,
		EventTimeStart:  request.EventTimeStart,
		EventTimeEnd:    request.EventTimeEnd,
		EventType:       request.EventType,
		LocationName:    request.LocationName,
		LocationAddress: request.LocationAddress,
		TotalPrice:      totalPrice,
		Status:          domain.StatusConfirmed,
		PayoutStatus:    domain.PayoutPending,
	}
	if quote != nil {
		quote.Apply(booking)
	}
	return booking
}

func toResponse(request *domain.BookingRequest, b *domain.Booking) *Response {
	return &Response{
		RequestID:            request.ID,
		RequestStatus:        string(request.Status),
		BookingID:            b.ID,
		BookingNumber:        b.BookingNumber,
		BookingStatus:        string(b.Status),
		ProviderID:           b.ProviderID,
		ClientID:             b.ClientID,
		EventDate:            b.EventDate,
		TotalPrice:           b.TotalPrice,
		DepositAmount:        b.DepositAmount,
		DepositDueDate:       b.DepositDueDate,
		FinalPaymentAmount:   b.FinalPaymentAmount,
		FinalPaymentDueDate:  b.FinalPaymentDueDate,
		ProviderPayoutAmount: b.ProviderPayoutAmount,
		CreatedAt:            b.CreatedAt,
	}
}
