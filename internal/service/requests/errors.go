package requests

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: booking request: invalid input data", domain.ErrValidation)

	// ErrRequestNotFound возвращается, когда запрос не найден
	ErrRequestNotFound = fmt.Errorf("%w: booking request not found", domain.ErrNotFound)

	// ErrAccessDenied пользователь не участвует в запросе
	ErrAccessDenied = fmt.Errorf("%w: booking request: access denied", domain.ErrForbidden)

	// ErrWrongActor переход разрешен другой стороне
	ErrWrongActor = fmt.Errorf("%w: booking request: transition is reserved for another party", domain.ErrForbidden)

	// ErrDateUnavailable выбранный день недоступен для бронирования
	ErrDateUnavailable = fmt.Errorf("%w: booking request: date is not available", domain.ErrConflict)

	// ErrInvalidTransition переход не существует в машине состояний
	ErrInvalidTransition = fmt.Errorf("%w: booking request: invalid status transition", domain.ErrConflict)

	// ErrRequestExpired срок ответа на запрос истек
	ErrRequestExpired = fmt.Errorf("%w: booking request expired", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("booking request: internal error")
)
