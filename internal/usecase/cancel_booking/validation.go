package cancel_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason longer than %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	if fee := req.CancellationFeePercentage; fee != nil &&
		(*fee < domain.MinCancellationFeePercent || *fee > domain.MaxCancellationFeePercent) {
		return fmt.Errorf("%w: cancellationFeePercentage must be within [%d, %d]",
			ErrInvalidInput, domain.MinCancellationFeePercent, domain.MaxCancellationFeePercent)
	}
	return nil
}
