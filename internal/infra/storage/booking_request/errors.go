package booking_request

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrRequestNotFound возвращается, когда запрос на бронирование не найден
	ErrRequestNotFound = fmt.Errorf("%w: booking_request.repository: request not found", domain.ErrNotFound)

	// ErrStatusConflict запрос уже не находится в ожидаемом статусе
	ErrStatusConflict = fmt.Errorf("%w: booking_request.repository: request status changed concurrently", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking_request.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking_request.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking_request.repository: failed to scan row")
)
