package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrDayNotFound запись дня отсутствует (день считается available)
	ErrDayNotFound = fmt.Errorf("%w: availability.repository: day not found", domain.ErrNotFound)

	// ErrDayNotClaimable день уже занят бронированием или заблокирован
	ErrDayNotClaimable = fmt.Errorf("%w: availability.repository: day is not available for booking", domain.ErrConflict)

	// ErrDayBooked день принадлежит бронированию и не может быть удален
	ErrDayBooked = fmt.Errorf("%w: availability.repository: day is owned by a booking", domain.ErrConflict)

	// ErrConcurrentUpdate конкурентная транзакция изменила день раньше
	ErrConcurrentUpdate = fmt.Errorf("%w: availability.repository: concurrent update", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
