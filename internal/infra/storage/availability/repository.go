package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/BH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/BH-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

const table = "availability_days"

var columns = []string{
	"provider_id",
	"date",
	"status",
	"time_slots",
	"notes",
	"linked_booking_id",
	"previous_status",
	"created_at",
	"updated_at",
}

// Repository репозиторий календаря доступности провайдеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRange возвращает сохраненные дни провайдера в диапазоне [from, to] по возрастанию даты.
// Дни без записи не возвращаются: вызывающий считает их available.
func (r *Repository) GetRange(ctx context.Context, providerID int64, from, to types.Date) ([]*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.AvailabilityDay, 0)
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRange - scan row: %v", ErrScanRow, err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRange - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// Get возвращает день провайдера; ErrDayNotFound, если записи нет.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) Get(ctx context.Context, providerID int64, date types.Date) (*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"provider_id": providerID, "date": date})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	day, err := scanDay(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan day: %v", ErrScanRow, err)
	}

	return day, nil
}

// Upsert сохраняет правку провайдера.
// Если день принадлежит бронированию, статус остается booked, а новый статус
// записывается в previous_status и будет восстановлен при отмене бронирования.
func (r *Repository) Upsert(ctx context.Context, day *domain.AvailabilityDay) (*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots, err := encodeSlots(day.TimeSlots)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - encode time slots: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("provider_id", "date", "status", "time_slots", "notes").
		Values(day.ProviderID, day.Date, day.Status, slots, day.Notes).
		Suffix(`ON CONFLICT (provider_id, date) DO UPDATE SET
			status = CASE WHEN availability_days.linked_booking_id IS NULL
				THEN EXCLUDED.status ELSE availability_days.status END,
			previous_status = CASE WHEN availability_days.linked_booking_id IS NULL
				THEN NULL ELSE EXCLUDED.status END,
			time_slots = EXCLUDED.time_slots,
			notes = EXCLUDED.notes,
			updated_at = NOW()`).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	saved, err := scanDay(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if pgerrors.IsSerializationFailure(err) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return saved, nil
}

// Delete удаляет запись дня по явному действию провайдера.
// День, принадлежащий бронированию, удалить нельзя.
func (r *Repository) Delete(ctx context.Context, providerID int64, date types.Date) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"provider_id": providerID, "date": date, "linked_booking_id": nil}).
		Where(squirrel.NotEq{"status": domain.AvailabilityBooked}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// различаем "нет записи" и "день занят бронированием"
		if _, err := r.Get(ctx, providerID, date); err != nil {
			return err
		}
		return ErrDayBooked
	}

	return nil
}

// Claim атомарно переводит день в booked и связывает его с бронированием.
// Условный upsert срабатывает только для available/open_gig (или отсутствующей записи),
// поэтому из двух конкурирующих транзакций успешна ровно одна.
func (r *Repository) Claim(ctx context.Context, providerID int64, date types.Date, bookingID int64) (*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("provider_id", "date", "status", "time_slots", "linked_booking_id", "previous_status").
		Values(providerID, date, domain.AvailabilityBooked, "[]", bookingID, domain.AvailabilityAvailable).
		Suffix(`ON CONFLICT (provider_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			previous_status = availability_days.status,
			linked_booking_id = EXCLUDED.linked_booking_id,
			updated_at = NOW()
			WHERE availability_days.status IN (?, ?)`,
			domain.AvailabilityAvailable, domain.AvailabilityOpenGig).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Claim - build insert query: %v", ErrBuildQuery, err)
	}

	day, err := scanDay(executor.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrDayNotClaimable
	case pgerrors.IsSerializationFailure(err), pgerrors.IsUniqueViolation(err):
		return nil, ErrConcurrentUpdate
	case err != nil:
		return nil, fmt.Errorf("%w: Claim - execute insert: %v", ErrExecQuery, err)
	}

	return day, nil
}

// Release возвращает день, связанный с бронированием, в статус до захвата
// (available, если он неизвестен). ErrDayNotFound, если день не связан с бронированием.
func (r *Repository) Release(ctx context.Context, providerID int64, date types.Date, bookingID int64) (*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", squirrel.Expr(
			"CASE WHEN previous_status IN (?, ?, ?, ?) THEN previous_status ELSE ? END",
			domain.AvailabilityAvailable,
			domain.AvailabilityPending,
			domain.AvailabilityBlocked,
			domain.AvailabilityOpenGig,
			domain.AvailabilityAvailable,
		)).
		Set("previous_status", nil).
		Set("linked_booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"provider_id": providerID, "date": date, "linked_booking_id": bookingID}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	day, err := scanDay(executor.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrDayNotFound
	case pgerrors.IsSerializationFailure(err):
		return nil, ErrConcurrentUpdate
	case err != nil:
		return nil, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return day, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDay(row rowScanner) (*domain.AvailabilityDay, error) {
	var day domain.AvailabilityDay
	var slots []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&day.ProviderID,
		&day.Date,
		&day.Status,
		&slots,
		&day.Notes,
		&day.LinkedBookingID,
		&day.PreviousStatus,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if day.TimeSlots, err = decodeSlots(slots); err != nil {
		return nil, err
	}
	day.CreatedAt = createdAt.Time
	day.UpdatedAt = updatedAt.Time

	return &day, nil
}

func returning() string {
	return "RETURNING provider_id, date, status, time_slots, notes, linked_booking_id, previous_status, created_at, updated_at"
}

func encodeSlots(slots []domain.TimeSlot) (string, error) {
	if len(slots) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSlots(data []byte) ([]domain.TimeSlot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var slots []domain.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("decode time slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, nil
	}
	return slots, nil
}
