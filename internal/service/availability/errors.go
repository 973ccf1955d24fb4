package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: availability: invalid input data", domain.ErrValidation)

	// ErrAccessDenied календарь может менять только сам провайдер
	ErrAccessDenied = fmt.Errorf("%w: availability: only the provider may edit the calendar", domain.ErrForbidden)

	// ErrDayNotFound у провайдера нет записи на эту дату
	ErrDayNotFound = fmt.Errorf("%w: availability: day not found", domain.ErrNotFound)

	// ErrDayBooked день принадлежит бронированию
	ErrDayBooked = fmt.Errorf("%w: availability: day is owned by a booking", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
