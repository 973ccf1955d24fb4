package accept_request

import (
	"fmt"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequestID <= 0 {
		return fmt.Errorf("%w: requestId must be positive", ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}
	if req.TotalPrice != nil && *req.TotalPrice < 0 {
		return fmt.Errorf("%w: totalPrice must not be negative", ErrInvalidInput)
	}
	return nil
}

// checkAcceptable проверяет участника, статус и срок ответа
func checkAcceptable(request *domain.BookingRequest, actorID int64, now time.Time) error {
	actor, ok := request.ActorOf(actorID)
	if !ok {
		return ErrAccessDenied
	}
	if actor != domain.ActorProvider {
		return ErrNotProvider
	}
	if request.IsExpiredAt(now) {
		return ErrRequestExpired
	}
	if !domain.CanTransitionRequest(request.Status, domain.RequestAccepted) {
		return fmt.Errorf("%w: request is %s", ErrInvalidTransition, request.Status)
	}
	return nil
}

// resolveTotalPrice цена из запроса на принятие, иначе предложенный бюджет, иначе 0
func resolveTotalPrice(req *Request, request *domain.BookingRequest) float64 {
	switch {
	case req.TotalPrice != nil:
		return *req.TotalPrice
	case request.ProposedBudget != nil:
		return *request.ProposedBudget
	default:
		return 0
	}
}
