package booking_request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/BH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/BH-BookingService/pkg/psqlbuilder"
)

const table = "booking_requests"

var columns = []string{
	"id",
	"provider_id",
	"requester_id",
	"event_date",
	"event_time_start",
	"event_time_end",
	"event_type",
	"location_name",
	"location_address",
	"proposed_budget",
	"message",
	"status",
	"rejection_reason",
	"counter_budget",
	"counter_message",
	"cancelled_at",
	"cancelled_by",
	"cancellation_reason",
	"expires_at",
	"responded_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий запросов на бронирование
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория запросов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запрос в статусе pending
func (r *Repository) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"provider_id",
			"requester_id",
			"event_date",
			"event_time_start",
			"event_time_end",
			"event_type",
			"location_name",
			"location_address",
			"proposed_budget",
			"message",
			"status",
			"expires_at",
		).
		Values(
			req.ProviderID,
			req.RequesterID,
			req.EventDate,
			req.EventTimeStart,
			req.EventTimeEnd,
			req.EventType,
			req.LocationName,
			req.LocationAddress,
			req.ProposedBudget,
			req.Message,
			domain.RequestPending,
			req.ExpiresAt,
		).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает запрос по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// List возвращает запросы по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.RequestsFilter) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC")

	if filter.ProviderID != nil {
		builder = builder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.RequesterID != nil {
		builder = builder.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// Transition меняет статус запроса compare-and-swap:
// UPDATE срабатывает, только если текущий статус входит в from.
// Просроченный pending-запрос не может быть переведен пользователем, только в expired.
func (r *Repository) Transition(
	ctx context.Context,
	id int64,
	from []domain.BookingRequestStatus,
	t domain.RequestTransition,
) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(table).
		Set("status", t.To).
		Set("updated_at", t.At).
		Where(squirrel.Eq{"id": id, "status": statusStrings(from)})

	switch t.To {
	case domain.RequestExpired:
		builder = builder.
			Set("responded_at", t.At).
			Where(squirrel.Lt{"expires_at": t.At})
	case domain.RequestRejected:
		builder = builder.
			Set("responded_at", t.At).
			Set("rejection_reason", t.RejectionReason)
	case domain.RequestNegotiating:
		builder = builder.
			Set("responded_at", t.At).
			Set("counter_budget", t.CounterBudget).
			Set("counter_message", t.CounterMessage)
	case domain.RequestPending:
		builder = builder.Set("responded_at", t.At)
		if t.ProposedBudget != nil {
			builder = builder.Set("proposed_budget", *t.ProposedBudget)
		}
		if t.ExpiresAt != nil {
			builder = builder.Set("expires_at", *t.ExpiresAt)
		}
	case domain.RequestCancelled:
		builder = builder.
			Set("cancelled_at", t.At).
			Set("cancelled_by", t.CancelledBy).
			Set("cancellation_reason", t.CancellationReason)
	default:
		builder = builder.Set("responded_at", t.At)
	}

	if t.To != domain.RequestExpired {
		builder = builder.Where(squirrel.Or{
			squirrel.NotEq{"status": domain.RequestPending},
			squirrel.Eq{"expires_at": nil},
			squirrel.Gt{"expires_at": t.At},
		})
	}

	query, args, err := builder.Suffix(returning()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	case pgerrors.IsSerializationFailure(err):
		return nil, ErrStatusConflict
	case err != nil:
		return nil, fmt.Errorf("%w: Transition - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// ExpireDue переводит в expired все pending-запросы с истекшим expires_at
func (r *Repository) ExpireDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// подзапрос собирается с плейсхолдерами "?", внешний builder перенумерует их
	due := squirrel.Select("id").
		From(table).
		Where(squirrel.Eq{"status": domain.RequestPending}).
		Where(squirrel.Lt{"expires_at": now}).
		OrderBy("expires_at ASC").
		Suffix("FOR UPDATE SKIP LOCKED")
	if limit > 0 {
		due = due.Limit(limit)
	}

	dueSQL, dueArgs, err := due.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - build select query: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.RequestExpired).
		Set("responded_at", now).
		Set("updated_at", now).
		Where(squirrel.Expr("id IN ("+dueSQL+")", dueArgs...)).
		Where(squirrel.Eq{"status": domain.RequestPending}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func scanRequests(rows *sql.Rows) ([]*domain.BookingRequest, error) {
	requests := make([]*domain.BookingRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRequests - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRequests - rows error: %v", ErrScanRow, err)
	}
	return requests, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.BookingRequest, error) {
	var req domain.BookingRequest
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.ProviderID,
		&req.RequesterID,
		&req.EventDate,
		&req.EventTimeStart,
		&req.EventTimeEnd,
		&req.EventType,
		&req.LocationName,
		&req.LocationAddress,
		&req.ProposedBudget,
		&req.Message,
		&req.Status,
		&req.RejectionReason,
		&req.CounterBudget,
		&req.CounterMessage,
		&req.CancelledAt,
		&req.CancelledBy,
		&req.CancellationReason,
		&req.ExpiresAt,
		&req.RespondedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.CreatedAt = createdAt.Time
	req.UpdatedAt = updatedAt.Time

	return &req, nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func statusStrings(statuses []domain.BookingRequestStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
