package booking_request

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/ptr"
)

const requestID int64 = 5

var stamp = time.Date(2025, time.December, 10, 15, 0, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewRepository(db), mock
}

func sqlPattern(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(quoted, ".*")
}

func requestRows(statuses ...domain.BookingRequestStatus) *sqlmock.Rows {
	rows := sqlmock.NewRows(columns)
	for i, status := range statuses {
		rows.AddRow(
			requestID+int64(i),
			int64(10),
			int64(20),
			"2025-12-24",
			"19:00",
			"23:00",
			string(domain.EventWedding),
			nil,
			nil,
			1500.0,
			nil,
			string(status),
			nil,
			nil,
			nil,
			nil,
			nil,
			nil,
			stamp.Add(72*time.Hour),
			nil,
			stamp,
			stamp,
		)
	}
	return rows
}

var getByIDSQL = sqlPattern("FROM booking_requests WHERE id = $1")

func TestTransition_Reject(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(sqlPattern(
		"UPDATE booking_requests SET status = $1, updated_at = $2, responded_at = $3, rejection_reason = $4",
		"WHERE id = $5 AND status IN ($6,$7)",
		"AND (status <> $8 OR expires_at IS NULL OR expires_at > $9) RETURNING",
	)).
		WithArgs("rejected", stamp, stamp, "dates clash", requestID, "pending", "negotiating", "pending", stamp).
		WillReturnRows(requestRows(domain.RequestRejected))

	updated, err := repo.Transition(context.Background(), requestID,
		[]domain.BookingRequestStatus{domain.RequestPending, domain.RequestNegotiating},
		domain.RequestTransition{To: domain.RequestRejected, At: stamp, RejectionReason: ptr.Ptr("dates clash")})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, updated.Status)
	assert.Equal(t, requestID, updated.ID)
	assert.Equal(t, "2025-12-24", updated.EventDate.String())
}

func TestTransition_ResumeMovesDeadline(t *testing.T) {
	repo, mock := newMockRepository(t)
	deadline := stamp.Add(72 * time.Hour)

	mock.ExpectQuery(sqlPattern(
		"UPDATE booking_requests SET status = $1, updated_at = $2, responded_at = $3, expires_at = $4",
		"WHERE id = $5 AND status IN ($6)",
	)).
		WithArgs("pending", stamp, stamp, deadline, requestID, "negotiating", "pending", stamp).
		WillReturnRows(requestRows(domain.RequestPending))

	_, err := repo.Transition(context.Background(), requestID,
		[]domain.BookingRequestStatus{domain.RequestNegotiating},
		domain.RequestTransition{To: domain.RequestPending, At: stamp, ExpiresAt: &deadline})
	require.NoError(t, err)
}

func TestTransition_ExpireOnlyOverdue(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(sqlPattern(
		"UPDATE booking_requests SET status = $1, updated_at = $2, responded_at = $3",
		"WHERE id = $4 AND status IN ($5) AND expires_at < $6 RETURNING",
	)).
		WithArgs("expired", stamp, stamp, requestID, "pending", stamp).
		WillReturnRows(requestRows(domain.RequestExpired))

	updated, err := repo.Transition(context.Background(), requestID,
		[]domain.BookingRequestStatus{domain.RequestPending},
		domain.RequestTransition{To: domain.RequestExpired, At: stamp})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestExpired, updated.Status)
}

func TestTransition_Errors(t *testing.T) {
	updateSQL := sqlPattern("UPDATE booking_requests SET status = $1")
	transition := domain.RequestTransition{To: domain.RequestCancelled, At: stamp, CancelledBy: ptr.Ptr(int64(20))}
	from := []domain.BookingRequestStatus{domain.RequestPending}

	t.Run("status changed concurrently", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(updateSQL).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(getByIDSQL).WithArgs(requestID).WillReturnRows(requestRows(domain.RequestAccepted))

		_, err := repo.Transition(context.Background(), requestID, from, transition)
		assert.ErrorIs(t, err, ErrStatusConflict)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("request does not exist", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(updateSQL).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(getByIDSQL).WithArgs(requestID).WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.Transition(context.Background(), requestID, from, transition)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("serialization failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(updateSQL).WillReturnError(&pq.Error{Code: "40001"})

		_, err := repo.Transition(context.Background(), requestID, from, transition)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("deadlock", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(updateSQL).WillReturnError(&pq.Error{Code: "40P01"})

		_, err := repo.Transition(context.Background(), requestID, from, transition)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}

func TestExpireDue(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(sqlPattern(
		"UPDATE booking_requests SET status = $1, responded_at = $2, updated_at = $3",
		"WHERE id IN (SELECT id FROM booking_requests WHERE status = $4 AND expires_at < $5",
		"ORDER BY expires_at ASC LIMIT 50 FOR UPDATE SKIP LOCKED) AND status = $6 RETURNING",
	)).
		WithArgs("expired", stamp, stamp, "pending", stamp, "pending").
		WillReturnRows(requestRows(domain.RequestExpired, domain.RequestExpired))

	expired, err := repo.ExpireDue(context.Background(), stamp, 50)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, requestID, expired[0].ID)
	assert.Equal(t, requestID+1, expired[1].ID)
	for _, r := range expired {
		assert.Equal(t, domain.RequestExpired, r.Status)
	}
}

func TestExpireDue_DriverError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(sqlPattern("UPDATE booking_requests")).WillReturnError(&pq.Error{Code: "57014"})

	_, err := repo.ExpireDue(context.Background(), stamp, 50)
	assert.ErrorIs(t, err, ErrExecQuery)
}
