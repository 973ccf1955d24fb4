package booking

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

const table = "bookings"

var columns = []string{
	"id",
	"booking_number",
	"request_id",
	"provider_id",
	"client_id",
	"event_date",
	"event_time_start",
	"event_time_end",
	"event_type",
	"location_name",
	"location_address",
	"total_price",
	"deposit_amount",
	"deposit_due_date",
	"deposit_paid_at",
	"final_payment_amount",
	"final_payment_due_date",
	"final_payment_paid_at",
	"platform_fee_percentage",
	"platform_fee_amount",
	"provider_payout_amount",
	"payout_status",
	"payout_scheduled_date",
	"payout_completed_at",
	"contract_url",
	"contract_signed_provider",
	"contract_signed_provider_at",
	"contract_signed_client",
	"contract_signed_client_at",
	"status",
	"cancelled_at",
	"cancelled_by",
	"cancellation_reason",
	"cancellation_fee_percentage",
	"provider_calendar_event_id",
	"client_calendar_event_id",
	"created_at",
	"updated_at",
}

// closedStatuses бронирования, у которых больше не меняются договор, платежи и выплата
var closedStatuses = []string{string(domain.StatusCancelled), string(domain.StatusRefunded)}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование. Номер берется из nextNumber; при совпадении с уже
// существующим номером вставка повторяется с новым номером (не более MaxBookingNumberGenAttempts раз).
// ON CONFLICT DO NOTHING не прерывает внешнюю транзакцию при коллизии.
func (r *Repository) Create(ctx context.Context, b *domain.Booking, nextNumber NumberGenerator) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for attempt := 0; attempt < domain.MaxBookingNumberGenAttempts; attempt++ {
		b.BookingNumber = nextNumber()

		query, args, err := psqlbuilder.Insert(table).
			Columns(
				"booking_number",
				"request_id",
				"provider_id",
				"client_id",
				"event_date",
				"event_time_start",
				"event_time_end",
				"event_type",
				"location_name",
				"location_address",
				"total_price",
				"deposit_amount",
				"deposit_due_date",
				"final_payment_amount",
				"final_payment_due_date",
				"platform_fee_percentage",
				"platform_fee_amount",
				"provider_payout_amount",
				"payout_status",
				"status",
			).
			Values(
				b.BookingNumber,
				b.RequestID,
				b.ProviderID,
				b.ClientID,
				b.EventDate,
				b.EventTimeStart,
				b.EventTimeEnd,
				b.EventType,
				b.LocationName,
				b.LocationAddress,
				b.TotalPrice,
				b.DepositAmount,
				b.DepositDueDate,
				b.FinalPaymentAmount,
				b.FinalPaymentDueDate,
				b.PlatformFeePercentage,
				b.PlatformFeeAmount,
				b.ProviderPayoutAmount,
				domain.PayoutPending,
				domain.StatusConfirmed,
			).
			Suffix("ON CONFLICT (booking_number) DO NOTHING").
			Suffix(returning()).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
		}

		created, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// номер занят, пробуем следующий
			continue
		case pgerrors.IsUniqueViolation(err):
			return nil, ErrBookingExists
		case pgerrors.IsSerializationFailure(err):
			return nil, ErrStatusConflict
		case err != nil:
			return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
		}

		return created, nil
	}

	return nil, ErrBookingNumberExhausted
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
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

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// List получает бронирования по фильтру
// Поддерживает фильтрацию по:
// - провайдеру и/или клиенту
// - статусу
// - периоду даты события (StartDate, EndDate)
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("event_date DESC", "id DESC")

	if filter.ProviderID != nil {
		builder = builder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.ClientID != nil {
		builder = builder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"event_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"event_date": *filter.EndDate})
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

	return scanBookings(rows)
}

// Transition меняет статус бронирования compare-and-swap по списку допустимых исходных статусов
func (r *Repository) Transition(
	ctx context.Context,
	id int64,
	from []domain.BookingStatus,
	t domain.BookingTransition,
) (*domain.Booking, error) {
	sources := make([]string, len(from))
	for i, s := range from {
		sources[i] = string(s)
	}

	builder := psqlbuilder.Update(table).
		Set("status", t.To).
		Set("updated_at", t.At).
		Where(squirrel.Eq{"id": id, "status": sources})

	switch t.To {
	case domain.StatusCancelled:
		builder = builder.
			Set("cancelled_at", t.At).
			Set("cancelled_by", t.CancelledBy).
			Set("cancellation_reason", t.CancellationReason).
			Set("cancellation_fee_percentage", t.CancellationFeePercentage)
	case domain.StatusRefunded:
		// выплата провайдеру обнуляется, запланированная выплата сбрасывается
		builder = builder.
			Set("provider_payout_amount", nil).
			Set("payout_scheduled_date", nil).
			Set("payout_status", squirrel.Expr(
				"CASE WHEN payout_status IN (?, ?) THEN ? ELSE payout_status END",
				domain.PayoutScheduled, domain.PayoutProcessing, domain.PayoutPending,
			))
	}

	return r.update(ctx, "Transition", id, builder, ErrStatusConflict)
}

// AttachContract прикрепляет ссылку на договор, пока ни одна сторона не подписала его
func (r *Repository) AttachContract(ctx context.Context, id int64, url string, at time.Time) (*domain.Booking, error) {
	builder := psqlbuilder.Update(table).
		Set("contract_url", url).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"id":                       id,
			"contract_signed_provider": false,
			"contract_signed_client":   false,
		}).
		Where(squirrel.NotEq{"status": closedStatuses})

	return r.update(ctx, "AttachContract", id, builder, ErrContractConflict)
}

// SignContract отмечает подпись стороны; каждая сторона подписывает один раз
func (r *Repository) SignContract(ctx context.Context, id int64, party domain.ContractParty, at time.Time) (*domain.Booking, error) {
	flag, signedAt := "contract_signed_client", "contract_signed_client_at"
	if party == domain.PartyProvider {
		flag, signedAt = "contract_signed_provider", "contract_signed_provider_at"
	}

	builder := psqlbuilder.Update(table).
		Set(flag, true).
		Set(signedAt, at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, flag: false}).
		Where(squirrel.NotEq{"contract_url": nil}).
		Where(squirrel.NotEq{"status": closedStatuses})

	return r.update(ctx, "SignContract", id, builder, ErrContractConflict)
}

// MarkMilestonePaid отмечает оплату задатка или финального платежа
func (r *Repository) MarkMilestonePaid(ctx context.Context, id int64, kind domain.MilestoneKind, at time.Time) (*domain.Booking, error) {
	amount, paidAt := "deposit_amount", "deposit_paid_at"
	if kind == domain.MilestoneFinal {
		amount, paidAt = "final_payment_amount", "final_payment_paid_at"
	}

	builder := psqlbuilder.Update(table).
		Set(paidAt, at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, paidAt: nil}).
		Where(squirrel.NotEq{amount: nil}).
		Where(squirrel.NotEq{"status": closedStatuses})

	return r.update(ctx, "MarkMilestonePaid", id, builder, ErrMilestoneConflict)
}

// UpdatePayout переводит выплату из upd.From в upd.To compare-and-swap.
// Пока бронирование в споре, выплата не продвигается дальше pending.
func (r *Repository) UpdatePayout(ctx context.Context, id int64, upd domain.PayoutUpdate, at time.Time) (*domain.Booking, error) {
	builder := psqlbuilder.Update(table).
		Set("payout_status", upd.To).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "payout_status": upd.From}).
		Where(squirrel.NotEq{"provider_payout_amount": nil}).
		Where(squirrel.NotEq{"status": append([]string{string(domain.StatusDisputed)}, closedStatuses...)})

	if upd.ScheduledDate != nil {
		builder = builder.Set("payout_scheduled_date", *upd.ScheduledDate)
	}
	if upd.CompletedAt != nil {
		builder = builder.Set("payout_completed_at", *upd.CompletedAt)
	}

	return r.update(ctx, "UpdatePayout", id, builder, ErrPayoutConflict)
}

// update выполняет условный UPDATE ... RETURNING.
// Если ни одна строка не подошла, различает отсутствие бронирования и конфликт состояния.
func (r *Repository) update(
	ctx context.Context,
	op string,
	id int64,
	builder squirrel.UpdateBuilder,
	conflict error,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.Suffix(returning()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, conflict
	case pgerrors.IsSerializationFailure(err):
		return nil, conflict
	case err != nil:
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.RequestID,
		&b.ProviderID,
		&b.ClientID,
		&b.EventDate,
		&b.EventTimeStart,
		&b.EventTimeEnd,
		&b.EventType,
		&b.LocationName,
		&b.LocationAddress,
		&b.TotalPrice,
		&b.DepositAmount,
		&b.DepositDueDate,
		&b.DepositPaidAt,
		&b.FinalPaymentAmount,
		&b.FinalPaymentDueDate,
		&b.FinalPaymentPaidAt,
		&b.PlatformFeePercentage,
		&b.PlatformFeeAmount,
		&b.ProviderPayoutAmount,
		&b.PayoutStatus,
		&b.PayoutScheduledDate,
		&b.PayoutCompletedAt,
		&b.ContractURL,
		&b.ContractSignedProvider,
		&b.ContractSignedProviderAt,
		&b.ContractSignedClient,
		&b.ContractSignedClientAt,
		&b.Status,
		&b.CancelledAt,
		&b.CancelledBy,
		&b.CancellationReason,
		&b.CancellationFeePercentage,
		&b.ProviderCalendarEventID,
		&b.ClientCalendarEventID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}
