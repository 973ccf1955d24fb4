// Package requests реализует машину состояний запроса на бронирование:
// создание, чтение и переходы, кроме принятия (usecase accept_request).
package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	requestRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking_request"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
)

// Service сервис запросов на бронирование
type Service struct {
	requestRepo      RequestRepository
	availabilityRepo AvailabilityRepository
	notifier         Notifier
	requestTTL       time.Duration
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса запросов.
// requestTTL - срок ответа по умолчанию; 0 - запросы без срока.
func NewService(
	requestRepo RequestRepository,
	availabilityRepo AvailabilityRepository,
	notifier Notifier,
	requestTTL time.Duration,
	logger Logger,
) *Service {
	return &Service{
		requestRepo:      requestRepo,
		availabilityRepo: availabilityRepo,
		notifier:         notifier,
		requestTTL:       requestTTL,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Create создает запрос в статусе pending.
// День должен быть доступен заказчику (available или open_gig); календарь при этом не меняется.
func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.BookingRequestResponse, error) {
	s.logger.Info("Create: requester=%d, provider=%d, date=%s, type=%s",
		req.RequesterID, req.ProviderID, req.EventDate, req.EventType)

	now := s.timeProvider.Now()

	request, err := buildRequest(req, now, s.requestTTL)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	day, err := s.availabilityRepo.Get(ctx, request.ProviderID, request.EventDate)
	switch {
	case errors.Is(err, availabilityRepo.ErrDayNotFound):
		day = domain.DefaultAvailabilityDay(request.ProviderID, request.EventDate)
	case err != nil:
		s.logger.Error("Create: failed to read availability of provider=%d: %v", request.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - availability error: %v", ErrInternal, err)
	}
	if !day.Status.IsClaimable() {
		s.logger.Warn("Create: date %s of provider=%d is %s", request.EventDate, request.ProviderID, day.Status)
		return nil, fmt.Errorf("%w: %s is %s", ErrDateUnavailable, request.EventDate, day.Status)
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.notifier.Notify(ctx, created.ProviderID, notifier.KindRequestCreated, payload(created))

	s.logger.Info("Create: created request id=%d", created.ID)
	return models.FromDomainRequest(created), nil
}

// GetByID возвращает запрос участнику.
// Просроченный pending-запрос переводится в expired при чтении.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*models.BookingRequestResponse, error) {
	s.logger.Info("GetByID: fetching request id=%d for user=%d", id, userID)

	request, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !request.IsParticipant(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to request id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	request, err = s.expireIfDue(ctx, request)
	if err != nil {
		return nil, err
	}

	return models.FromDomainRequest(request), nil
}

// List возвращает запросы пользователя в роли провайдера или заказчика
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.BookingRequestListResponse, error) {
	s.logger.Info("List: user=%d as=%s status=%v", req.UserID, req.As, req.Status)

	if req.ActorID != req.UserID {
		s.logger.Warn("List: user=%d cannot list requests of user=%d", req.ActorID, req.UserID)
		return nil, ErrAccessDenied
	}

	var filter domain.RequestsFilter
	switch req.As {
	case "", string(domain.ActorRequester):
		filter.RequesterID = &req.UserID
	case string(domain.ActorProvider):
		filter.ProviderID = &req.UserID
	default:
		return nil, fmt.Errorf("%w: as must be provider or requester", ErrInvalidInput)
	}

	if req.Status != nil {
		status := domain.BookingRequestStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	for i, r := range requests {
		if requests[i], err = s.expireIfDue(ctx, r); err != nil {
			return nil, err
		}
	}

	s.logger.Info("List: fetched %d requests for user=%d", len(requests), req.UserID)
	return models.FromDomainRequestList(requests), nil
}

// UpdateStatus выполняет переходы reject, negotiate, resubmit (negotiating -> pending) и cancel.
// Принятие выполняется usecase accept_request, истечение срока - только системой.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingRequestResponse, error) {
	s.logger.Info("UpdateStatus: request id=%d -> %s by user=%d", req.RequestID, req.Status, req.ActorID)

	to := domain.BookingRequestStatus(req.Status)
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	request, err := s.get(ctx, "UpdateStatus", req.RequestID)
	if err != nil {
		return nil, err
	}

	// из финального статуса переходов нет, кто бы их ни запрашивал
	if request.Status.IsTerminal() {
		s.logger.Warn("UpdateStatus: request id=%d is already %s", request.ID, request.Status)
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidTransition, request.Status)
	}

	switch to {
	case domain.RequestAccepted:
		return nil, fmt.Errorf("%w: use the accept endpoint to accept a request", ErrInvalidInput)
	case domain.RequestExpired:
		return nil, fmt.Errorf("%w: requests expire automatically", ErrWrongActor)
	}

	actor, ok := request.ActorOf(req.ActorID)
	if !ok {
		s.logger.Warn("UpdateStatus: access denied for user=%d to request id=%d", req.ActorID, req.RequestID)
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()
	if request.IsExpiredAt(now) {
		if _, err := s.expireIfDue(ctx, request); err != nil {
			return nil, err
		}
		s.logger.Warn("UpdateStatus: request id=%d expired at %s", request.ID, request.ExpiresAt.Format(time.RFC3339))
		return nil, ErrRequestExpired
	}

	allowed, exists := domain.RequestTransitionActor(request.Status, to)
	if !exists {
		s.logger.Warn("UpdateStatus: request id=%d cannot move %s -> %s", request.ID, request.Status, to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, request.Status, to)
	}
	if allowed != actor {
		s.logger.Warn("UpdateStatus: %s cannot move request id=%d to %s", actor, request.ID, to)
		return nil, fmt.Errorf("%w: %s -> %s is reserved for the %s", ErrWrongActor, request.Status, to, allowed)
	}

	transition, err := buildTransition(req, request, now, s.requestTTL)
	if err != nil {
		s.logger.Warn("UpdateStatus: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.requestRepo.Transition(ctx, request.ID, []domain.BookingRequestStatus{request.Status}, transition)
	if err != nil {
		return nil, s.mapRepoError("UpdateStatus", request.ID, err)
	}

	s.notifyTransition(ctx, updated, actor)

	s.logger.Info("UpdateStatus: request id=%d is now %s", updated.ID, updated.Status)
	return models.FromDomainRequest(updated), nil
}

// expireIfDue переводит просроченный pending-запрос в expired.
// Если конкурентная транзакция успела изменить запрос, возвращается его актуальное состояние.
func (s *Service) expireIfDue(ctx context.Context, request *domain.BookingRequest) (*domain.BookingRequest, error) {
	now := s.timeProvider.Now()
	if !request.IsExpiredAt(now) {
		return request, nil
	}

	expired, err := s.requestRepo.Transition(ctx, request.ID,
		domain.RequestSourceStatuses(domain.RequestExpired),
		domain.RequestTransition{To: domain.RequestExpired, At: now})
	switch {
	case errors.Is(err, requestRepo.ErrStatusConflict):
		return s.get(ctx, "expireIfDue", request.ID)
	case err != nil:
		return nil, s.mapRepoError("expireIfDue", request.ID, err)
	}

	s.logger.Info("expireIfDue: request id=%d expired", expired.ID)
	s.notifier.Notify(ctx, expired.RequesterID, notifier.KindRequestExpired, payload(expired))
	s.notifier.Notify(ctx, expired.ProviderID, notifier.KindRequestExpired, payload(expired))
	return expired, nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.BookingRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			s.logger.Warn("%s: request id=%d not found", op, id)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("%s: repository error for request id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return request, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, requestRepo.ErrRequestNotFound):
		s.logger.Warn("%s: request id=%d not found", op, id)
		return ErrRequestNotFound
	case errors.Is(err, requestRepo.ErrStatusConflict):
		s.logger.Warn("%s: request id=%d changed concurrently", op, id)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	default:
		s.logger.Error("%s: repository error for request id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) notifyTransition(ctx context.Context, request *domain.BookingRequest, actor domain.Actor) {
	recipient := request.RequesterID
	if actor == domain.ActorRequester {
		recipient = request.ProviderID
	}

	var kind notifier.Kind
	switch request.Status {
	case domain.RequestRejected:
		kind = notifier.KindRequestRejected
	case domain.RequestNegotiating:
		kind = notifier.KindRequestNegotiating
	case domain.RequestPending:
		kind = notifier.KindRequestResubmitted
	case domain.RequestCancelled:
		kind = notifier.KindRequestCancelled
	default:
		return
	}

	s.notifier.Notify(ctx, recipient, kind, payload(request))
}

func payload(r *domain.BookingRequest) notifier.Payload {
	return notifier.Payload{
		"request_id":  r.ID,
		"provider_id": r.ProviderID,
		"event_date":  r.EventDate.String(),
		"status":      string(r.Status),
	}
}
