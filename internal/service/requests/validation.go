package requests

import (
	"fmt"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/service/requests/models"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// buildRequest валидирует входные данные и собирает доменный запрос
func buildRequest(req *models.CreateRequest, now time.Time, ttl time.Duration) (*domain.BookingRequest, error) {
	if req.RequesterID <= 0 {
		return nil, fmt.Errorf("%w: requesterId must be positive", ErrInvalidInput)
	}
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}
	if req.ProviderID == req.RequesterID {
		return nil, fmt.Errorf("%w: cannot request a booking from yourself", ErrInvalidInput)
	}

	if req.EventDate.IsZero() {
		return nil, fmt.Errorf("%w: eventDate is required", ErrInvalidInput)
	}
	if req.EventDate.Before(types.DateOf(now)) {
		return nil, fmt.Errorf("%w: eventDate %s is in the past", ErrInvalidInput, req.EventDate)
	}

	start, err := parseOptionalTime("eventTimeStart", req.EventTimeStart)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalTime("eventTimeEnd", req.EventTimeEnd)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && !end.IsAfter(*start) {
		return nil, fmt.Errorf("%w: eventTimeEnd must be after eventTimeStart", ErrInvalidInput)
	}

	eventType := domain.EventType(req.EventType)
	if !eventType.IsValid() {
		return nil, fmt.Errorf("%w: unknown eventType %q", ErrInvalidInput, req.EventType)
	}

	if req.ProposedBudget != nil && *req.ProposedBudget < 0 {
		return nil, fmt.Errorf("%w: proposedBudget must not be negative", ErrInvalidInput)
	}
	if err := checkLength("locationName", req.LocationName, domain.MaxLocationLength); err != nil {
		return nil, err
	}
	if err := checkLength("locationAddress", req.LocationAddress, domain.MaxLocationLength); err != nil {
		return nil, err
	}
	if err := checkLength("message", req.Message, domain.MaxMessageLength); err != nil {
		return nil, err
	}

	expiresAt := req.ExpiresAt
	switch {
	case expiresAt != nil && !expiresAt.After(now):
		return nil, fmt.Errorf("%w: expiresAt must be in the future", ErrInvalidInput)
	case expiresAt == nil && ttl > 0:
		deadline := now.Add(ttl)
		expiresAt = &deadline
	}

	return &domain.BookingRequest{
		ProviderID:      req.ProviderID,
		RequesterID:     req.RequesterID,
		EventDate:       req.EventDate,
		EventTimeStart:  start,
		EventTimeEnd:    end,
		EventType:       eventType,
		LocationName:    req.LocationName,
		LocationAddress: req.LocationAddress,
		ProposedBudget:  req.ProposedBudget,
		Message:         req.Message,
		Status:          domain.RequestPending,
		ExpiresAt:       expiresAt,
	}, nil
}

// buildTransition валидирует поля перехода, которые приходят от пользователя.
// ttl продлевает срок ответа при возврате запроса в pending.
func buildTransition(
	req *models.UpdateStatusRequest,
	current *domain.BookingRequest,
	now time.Time,
	ttl time.Duration,
) (domain.RequestTransition, error) {
	t := domain.RequestTransition{To: domain.BookingRequestStatus(req.Status), At: now}

	switch t.To {
	case domain.RequestRejected:
		if err := checkLength("rejectionReason", req.RejectionReason, domain.MaxReasonLength); err != nil {
			return t, err
		}
		reason := ""
		if req.RejectionReason != nil {
			reason = *req.RejectionReason
		}
		t.RejectionReason = &reason
	case domain.RequestNegotiating:
		if req.CounterBudget != nil && *req.CounterBudget < 0 {
			return t, fmt.Errorf("%w: counterBudget must not be negative", ErrInvalidInput)
		}
		if err := checkLength("counterMessage", req.CounterMessage, domain.MaxMessageLength); err != nil {
			return t, err
		}
		t.CounterBudget = req.CounterBudget
		t.CounterMessage = req.CounterMessage
	case domain.RequestPending:
		// requester принимает встречное предложение
		t.ProposedBudget = current.CounterBudget
		t.ExpiresAt = resumeDeadline(current.ExpiresAt, now, ttl)
	case domain.RequestCancelled:
		if err := checkLength("cancellationReason", req.CancellationReason, domain.MaxReasonLength); err != nil {
			return t, err
		}
		by := req.ActorID
		t.CancelledBy = &by
		t.CancellationReason = req.CancellationReason
	}

	return t, nil
}

func parseOptionalTime(field string, value *string) (*types.TimeString, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := types.NewTimeStringFromString(*value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", ErrInvalidInput, field, err)
	}
	return &t, nil
}

func checkLength(field string, value *string, max int) error {
	if value != nil && len(*value) > max {
		return fmt.Errorf("%w: %s longer than %d characters", ErrInvalidInput, field, max)
	}
	return nil
}

// resumeDeadline срок ответа после возобновления запроса: не раньше now + ttl.
// Запрос без срока остается без срока; при ttl = 0 срок не меняется.
func resumeDeadline(current *time.Time, now time.Time, ttl time.Duration) *time.Time {
	if current == nil || ttl <= 0 {
		return current
	}
	deadline := now.Add(ttl)
	if current.After(deadline) {
		return current
	}
	return &deadline
}
