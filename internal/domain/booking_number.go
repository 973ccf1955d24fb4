package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

var bookingNumberPattern = regexp.MustCompile(`^BH-\d{4}-\d{6}$`)

// NewBookingNumber generates BH-<year>-<6 random digits>.
// Uniqueness is enforced by the store; callers retry on collision.
func NewBookingNumber(now time.Time) string {
	return fmt.Sprintf("%s-%04d-%0*d", BookingNumberPrefix, now.Year(), BookingNumberDigits, rand.Intn(1_000_000))
}

// IsValidBookingNumber checks the human-readable booking number format
func IsValidBookingNumber(s string) bool {
	return bookingNumberPattern.MatchString(s)
}
