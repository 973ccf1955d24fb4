package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не участвует в бронировании
	ErrAccessDenied = fmt.Errorf("%w: booking: access denied", domain.ErrForbidden)

	// ErrWrongParty действие разрешено другой стороне
	ErrWrongParty = fmt.Errorf("%w: booking: action is reserved for another party", domain.ErrForbidden)

	// ErrInvalidTransition переход не существует в машине состояний
	ErrInvalidTransition = fmt.Errorf("%w: booking: invalid status transition", domain.ErrConflict)

	// ErrContractConflict договор уже подписан, не прикреплен или бронирование закрыто
	ErrContractConflict = fmt.Errorf("%w: booking: contract cannot be changed", domain.ErrConflict)

	// ErrMilestoneConflict платеж уже отмечен или не запланирован
	ErrMilestoneConflict = fmt.Errorf("%w: booking: payment milestone cannot be marked paid", domain.ErrConflict)

	// ErrPayoutConflict выплата не может перейти в указанный статус
	ErrPayoutConflict = fmt.Errorf("%w: booking: payout cannot advance", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: booking: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("booking: internal error")
)
