package pgerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "bookings_booking_number_key"}
	serialization := &pq.Error{Code: "40001"}
	wrapped := fmt.Errorf("exec: %w", unique)

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(serialization))
	assert.True(t, IsSerializationFailure(serialization))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.False(t, IsSerializationFailure(errors.New("boom")))

	assert.Equal(t, "bookings_booking_number_key", Constraint(wrapped))
	assert.Equal(t, "", Constraint(errors.New("boom")))
}
