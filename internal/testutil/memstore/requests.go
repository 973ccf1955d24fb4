package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	requestRepo "github.com/m04kA/BH-BookingService/internal/infra/storage/booking_request"
)

// RequestRepo in-memory репозиторий запросов
type RequestRepo struct {
	s *Store
}

// Create сохраняет запрос в статусе pending
func (r *RequestRepo) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error) {
	var created domain.BookingRequest
	r.s.with(ctx, func(st *state) {
		st.nextRequestID++
		created = *req
		created.ID = st.nextRequestID
		created.Status = domain.RequestPending
		created.CreatedAt = time.Now()
		created.UpdatedAt = created.CreatedAt
		st.requests[created.ID] = created
	})
	return &created, nil
}

// GetByID запрос по ID
func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	var (
		req domain.BookingRequest
		ok  bool
	)
	r.s.with(ctx, func(st *state) {
		req, ok = st.requests[id]
	})
	if !ok {
		return nil, requestRepo.ErrRequestNotFound
	}
	return &req, nil
}

// List запросы по фильтру, новые первыми
func (r *RequestRepo) List(ctx context.Context, filter domain.RequestsFilter) ([]*domain.BookingRequest, error) {
	result := make([]*domain.BookingRequest, 0)
	r.s.with(ctx, func(st *state) {
		for _, req := range st.requests {
			if filter.ProviderID != nil && req.ProviderID != *filter.ProviderID {
				continue
			}
			if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
				continue
			}
			if filter.Status != nil && req.Status != *filter.Status {
				continue
			}
			item := req
			result = append(result, &item)
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Transition compare-and-swap смена статуса
func (r *RequestRepo) Transition(
	ctx context.Context,
	id int64,
	from []domain.BookingRequestStatus,
	t domain.RequestTransition,
) (*domain.BookingRequest, error) {
	var (
		updated domain.BookingRequest
		err     error
	)
	r.s.with(ctx, func(st *state) {
		req, ok := st.requests[id]
		if !ok {
			err = requestRepo.ErrRequestNotFound
			return
		}
		if !matches(req, from, t) {
			err = requestRepo.ErrStatusConflict
			return
		}
		apply(&req, t)
		st.requests[id] = req
		updated = req
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ExpireDue переводит просроченные pending-запросы в expired
func (r *RequestRepo) ExpireDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.BookingRequest, error) {
	result := make([]*domain.BookingRequest, 0)
	r.s.with(ctx, func(st *state) {
		ids := make([]int64, 0)
		for id, req := range st.requests {
			if req.Status == domain.RequestPending && req.ExpiresAt != nil && req.ExpiresAt.Before(now) {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		if limit > 0 && uint64(len(ids)) > limit {
			ids = ids[:limit]
		}
		for _, id := range ids {
			req := st.requests[id]
			apply(&req, domain.RequestTransition{To: domain.RequestExpired, At: now})
			st.requests[id] = req
			item := req
			result = append(result, &item)
		}
	})
	return result, nil
}

func matches(req domain.BookingRequest, from []domain.BookingRequestStatus, t domain.RequestTransition) bool {
	found := false
	for _, s := range from {
		if req.Status == s {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if t.To == domain.RequestExpired {
		return req.ExpiresAt != nil && req.ExpiresAt.Before(t.At)
	}
	return req.Status != domain.RequestPending || req.ExpiresAt == nil || req.ExpiresAt.After(t.At)
}

func apply(req *domain.BookingRequest, t domain.RequestTransition) {
	at := t.At
	req.Status = t.To
	req.UpdatedAt = at

	switch t.To {
	case domain.RequestRejected:
		req.RespondedAt = &at
		req.RejectionReason = t.RejectionReason
	case domain.RequestNegotiating:
		req.RespondedAt = &at
		req.CounterBudget = t.CounterBudget
		req.CounterMessage = t.CounterMessage
	case domain.RequestPending:
		req.RespondedAt = &at
		if t.ProposedBudget != nil {
			budget := *t.ProposedBudget
			req.ProposedBudget = &budget
		}
		if t.ExpiresAt != nil {
			deadline := *t.ExpiresAt
			req.ExpiresAt = &deadline
		}
	case domain.RequestCancelled:
		req.CancelledAt = &at
		req.CancelledBy = t.CancelledBy
		req.CancellationReason = t.CancellationReason
	default:
		req.RespondedAt = &at
	}
}
