package accept_request

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: accept_request: invalid input data", domain.ErrValidation)

	// ErrRequestNotFound возвращается, когда запрос не найден
	ErrRequestNotFound = fmt.Errorf("%w: accept_request: request not found", domain.ErrNotFound)

	// ErrAccessDenied пользователь не участвует в запросе
	ErrAccessDenied = fmt.Errorf("%w: accept_request: access denied", domain.ErrForbidden)

	// ErrNotProvider принять запрос может только провайдер
	ErrNotProvider = fmt.Errorf("%w: accept_request: only the provider can accept a request", domain.ErrForbidden)

	// ErrInvalidTransition запрос уже не ожидает ответа
	ErrInvalidTransition = fmt.Errorf("%w: accept_request: request cannot be accepted", domain.ErrConflict)

	// ErrRequestExpired срок ответа на запрос истек
	ErrRequestExpired = fmt.Errorf("%w: accept_request: request expired", domain.ErrConflict)

	// ErrDateUnavailable день уже занят другим бронированием или заблокирован
	ErrDateUnavailable = fmt.Errorf("%w: accept_request: date is no longer available", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("accept_request: internal error")
)
