package cancel_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: cancel_booking: invalid input data", domain.ErrValidation)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: cancel_booking: booking not found", domain.ErrNotFound)

	// ErrAccessDenied пользователь не участвует в бронировании
	ErrAccessDenied = fmt.Errorf("%w: cancel_booking: access denied", domain.ErrForbidden)

	// ErrCannotCancel бронирование уже в статусе, из которого отмена невозможна
	ErrCannotCancel = fmt.Errorf("%w: cancel_booking: booking cannot be cancelled", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
