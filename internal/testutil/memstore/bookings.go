package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking"
)

// BookingRepo in-memory репозиторий бронирований
type BookingRepo struct {
	s *Store
}

// Create сохраняет бронирование; номер подбирается так же, как в БД: до MaxBookingNumberGenAttempts попыток
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking, nextNumber bookingRepo.NumberGenerator) (*domain.Booking, error) {
	var (
		created domain.Booking
		err     error
	)
	r.s.with(ctx, func(st *state) {
		for _, existing := range st.bookings {
			if existing.RequestID == b.RequestID {
				err = bookingRepo.ErrBookingExists
				return
			}
		}

		for attempt := 0; attempt < domain.MaxBookingNumberGenAttempts; attempt++ {
			number := nextNumber()
			if numberTaken(st, number) {
				continue
			}
			st.nextBookingID++
			created = *b
			created.ID = st.nextBookingID
			created.BookingNumber = number
			created.Status = domain.StatusConfirmed
			created.PayoutStatus = domain.PayoutPending
			created.CreatedAt = time.Now()
			created.UpdatedAt = created.CreatedAt
			st.bookings[created.ID] = created
			return
		}
		err = bookingRepo.ErrBookingNumberExhausted
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func numberTaken(st *state, number string) bool {
	for _, b := range st.bookings {
		if b.BookingNumber == number {
			return true
		}
	}
	return false
}

// GetByID бронирование по ID
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var (
		b  domain.Booking
		ok bool
	)
	r.s.with(ctx, func(st *state) {
		b, ok = st.bookings[id]
	})
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

// List бронирования по фильтру
func (r *BookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	r.s.with(ctx, func(st *state) {
		for _, b := range st.bookings {
			if filter.ProviderID != nil && b.ProviderID != *filter.ProviderID {
				continue
			}
			if filter.ClientID != nil && b.ClientID != *filter.ClientID {
				continue
			}
			if filter.Status != nil && b.Status != *filter.Status {
				continue
			}
			if filter.StartDate != nil && b.EventDate.Before(*filter.StartDate) {
				continue
			}
			if filter.EndDate != nil && b.EventDate.After(*filter.EndDate) {
				continue
			}
			item := b
			result = append(result, &item)
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Transition compare-and-swap смена статуса
func (r *BookingRepo) Transition(ctx context.Context, id int64, from []domain.BookingStatus, t domain.BookingTransition) (*domain.Booking, error) {
	return r.update(ctx, id, bookingRepo.ErrStatusConflict, func(b *domain.Booking) bool {
		if !containsStatus(from, b.Status) {
			return false
		}
		at := t.At
		b.Status = t.To
		b.UpdatedAt = at
		switch t.To {
		case domain.StatusCancelled:
			b.CancelledAt = &at
			b.CancelledBy = t.CancelledBy
			b.CancellationReason = t.CancellationReason
			b.CancellationFeePercentage = t.CancellationFeePercentage
		case domain.StatusRefunded:
			b.ProviderPayoutAmount = nil
			b.PayoutScheduledDate = nil
			if b.PayoutStatus == domain.PayoutScheduled || b.PayoutStatus == domain.PayoutProcessing {
				b.PayoutStatus = domain.PayoutPending
			}
		}
		return true
	})
}

// AttachContract прикрепляет договор, пока нет подписей
func (r *BookingRepo) AttachContract(ctx context.Context, id int64, url string, at time.Time) (*domain.Booking, error) {
	return r.update(ctx, id, bookingRepo.ErrContractConflict, func(b *domain.Booking) bool {
		if b.HasAnySignature() || isClosed(b) {
			return false
		}
		u := url
		b.ContractURL = &u
		b.UpdatedAt = at
		return true
	})
}

// SignContract подпись стороны
func (r *BookingRepo) SignContract(ctx context.Context, id int64, party domain.ContractParty, at time.Time) (*domain.Booking, error) {
	return r.update(ctx, id, bookingRepo.ErrContractConflict, func(b *domain.Booking) bool {
		if b.ContractURL == nil || isClosed(b) {
			return false
		}
		signedAt := at
		if party == domain.PartyProvider {
			if b.ContractSignedProvider {
				return false
			}
			b.ContractSignedProvider = true
			b.ContractSignedProviderAt = &signedAt
		} else {
			if b.ContractSignedClient {
				return false
			}
			b.ContractSignedClient = true
			b.ContractSignedClientAt = &signedAt
		}
		b.UpdatedAt = at
		return true
	})
}

// MarkMilestonePaid отмечает оплату
func (r *BookingRepo) MarkMilestonePaid(ctx context.Context, id int64, kind domain.MilestoneKind, at time.Time) (*domain.Booking, error) {
	return r.update(ctx, id, bookingRepo.ErrMilestoneConflict, func(b *domain.Booking) bool {
		if isClosed(b) {
			return false
		}
		paidAt := at
		switch kind {
		case domain.MilestoneDeposit:
			if b.DepositAmount == nil || b.DepositPaidAt != nil {
				return false
			}
			b.DepositPaidAt = &paidAt
		case domain.MilestoneFinal:
			if b.FinalPaymentAmount == nil || b.FinalPaymentPaidAt != nil {
				return false
			}
			b.FinalPaymentPaidAt = &paidAt
		default:
			return false
		}
		b.UpdatedAt = at
		return true
	})
}

// UpdatePayout compare-and-swap смена статуса выплаты
func (r *BookingRepo) UpdatePayout(ctx context.Context, id int64, upd domain.PayoutUpdate, at time.Time) (*domain.Booking, error) {
	return r.update(ctx, id, bookingRepo.ErrPayoutConflict, func(b *domain.Booking) bool {
		if b.PayoutStatus != upd.From || b.ProviderPayoutAmount == nil || isClosed(b) || b.Status == domain.StatusDisputed {
			return false
		}
		b.PayoutStatus = upd.To
		if upd.ScheduledDate != nil {
			date := *upd.ScheduledDate
			b.PayoutScheduledDate = &date
		}
		if upd.CompletedAt != nil {
			completed := *upd.CompletedAt
			b.PayoutCompletedAt = &completed
		}
		b.UpdatedAt = at
		return true
	})
}

func (r *BookingRepo) update(ctx context.Context, id int64, conflict error, mutate func(b *domain.Booking) bool) (*domain.Booking, error) {
	var (
		updated domain.Booking
		err     error
	)
	r.s.with(ctx, func(st *state) {
		b, ok := st.bookings[id]
		if !ok {
			err = bookingRepo.ErrBookingNotFound
			return
		}
		if !mutate(&b) {
			err = conflict
			return
		}
		st.bookings[id] = b
		updated = b
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func containsStatus(statuses []domain.BookingStatus, s domain.BookingStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func isClosed(b *domain.Booking) bool {
	return b.Status == domain.StatusCancelled || b.Status == domain.StatusRefunded
}
