package memstore

import (
	"context"
	"sort"

	"github.com/m04kA/BH-BookingService/internal/domain"
	availabilityRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/availability"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// AvailabilityRepo in-memory репозиторий календаря
type AvailabilityRepo struct {
	s *Store
}

// GetRange дни провайдера в диапазоне по возрастанию даты
func (r *AvailabilityRepo) GetRange(ctx context.Context, providerID int64, from, to types.Date) ([]*domain.AvailabilityDay, error) {
	result := make([]*domain.AvailabilityDay, 0)
	r.s.with(ctx, func(st *state) {
		for k, d := range st.days {
			if k.providerID == providerID && !k.date.Before(from) && !k.date.After(to) {
				day := d
				result = append(result, &day)
			}
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// Get день провайдера
func (r *AvailabilityRepo) Get(ctx context.Context, providerID int64, date types.Date) (*domain.AvailabilityDay, error) {
	var (
		day domain.AvailabilityDay
		ok  bool
	)
	r.s.with(ctx, func(st *state) {
		day, ok = st.days[dayKey{providerID, date}]
	})
	if !ok {
		return nil, availabilityRepo.ErrDayNotFound
	}
	return &day, nil
}

// Upsert правка провайдера; связанный с бронированием день остается booked
func (r *AvailabilityRepo) Upsert(ctx context.Context, day *domain.AvailabilityDay) (*domain.AvailabilityDay, error) {
	var saved domain.AvailabilityDay
	r.s.with(ctx, func(st *state) {
		key := dayKey{day.ProviderID, day.Date}
		existing, ok := st.days[key]
		if ok && existing.LinkedBookingID != nil {
			status := day.Status
			existing.PreviousStatus = &status
			existing.TimeSlots = day.TimeSlots
			existing.Notes = day.Notes
			saved = existing
		} else {
			saved = *day
			saved.PreviousStatus = nil
			saved.LinkedBookingID = nil
		}
		st.days[key] = saved
	})
	return &saved, nil
}

// Delete удаляет запись, если день не занят бронированием
func (r *AvailabilityRepo) Delete(ctx context.Context, providerID int64, date types.Date) error {
	var err error
	r.s.with(ctx, func(st *state) {
		key := dayKey{providerID, date}
		d, ok := st.days[key]
		switch {
		case !ok:
			err = availabilityRepo.ErrDayNotFound
		case d.LinkedBookingID != nil || d.Status == domain.AvailabilityBooked:
			err = availabilityRepo.ErrDayBooked
		default:
			delete(st.days, key)
		}
	})
	return err
}

// Claim условный захват дня: только из available/open_gig или при отсутствии записи
func (r *AvailabilityRepo) Claim(ctx context.Context, providerID int64, date types.Date, bookingID int64) (*domain.AvailabilityDay, error) {
	var (
		claimed domain.AvailabilityDay
		err     error
	)
	r.s.with(ctx, func(st *state) {
		key := dayKey{providerID, date}
		d, ok := st.days[key]
		if !ok {
			d = *domain.DefaultAvailabilityDay(providerID, date)
		}
		if !d.Status.IsClaimable() {
			err = availabilityRepo.ErrDayNotClaimable
			return
		}
		previous := d.Status
		id := bookingID
		d.PreviousStatus = &previous
		d.Status = domain.AvailabilityBooked
		d.LinkedBookingID = &id
		st.days[key] = d
		claimed = d
	})
	if err != nil {
		return nil, err
	}
	return &claimed, nil
}

// Release возвращает день в статус до захвата
func (r *AvailabilityRepo) Release(ctx context.Context, providerID int64, date types.Date, bookingID int64) (*domain.AvailabilityDay, error) {
	var (
		released domain.AvailabilityDay
		err      error
	)
	r.s.with(ctx, func(st *state) {
		key := dayKey{providerID, date}
		d, ok := st.days[key]
		if !ok || d.LinkedBookingID == nil || *d.LinkedBookingID != bookingID {
			err = availabilityRepo.ErrDayNotFound
			return
		}
		d.Status = d.RestoreStatus()
		d.PreviousStatus = nil
		d.LinkedBookingID = nil
		st.days[key] = d
		released = d
	})
	if err != nil {
		return nil, err
	}
	return &released, nil
}
