package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking.repository: booking not found", domain.ErrNotFound)

	// ErrBookingExists по запросу уже создано бронирование
	ErrBookingExists = fmt.Errorf("%w: booking.repository: booking for request already exists", domain.ErrConflict)

	// ErrBookingNumberExhausted не удалось подобрать свободный номер бронирования
	ErrBookingNumberExhausted = fmt.Errorf("%w: booking.repository: booking number attempts exhausted", domain.ErrConflict)

	// ErrStatusConflict бронирование уже не находится в ожидаемом статусе
	ErrStatusConflict = fmt.Errorf("%w: booking.repository: booking status changed concurrently", domain.ErrConflict)

	// ErrContractConflict договор уже подписан или не прикреплен
	ErrContractConflict = fmt.Errorf("%w: booking.repository: contract cannot be changed", domain.ErrConflict)

	// ErrMilestoneConflict платеж уже отмечен или не запланирован
	ErrMilestoneConflict = fmt.Errorf("%w: booking.repository: payment milestone cannot be marked paid", domain.ErrConflict)

	// ErrPayoutConflict выплата не может перейти в указанный статус
	ErrPayoutConflict = fmt.Errorf("%w: booking.repository: payout cannot advance", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
