// Package memstore in-memory реализация репозиториев с семантикой compare-and-swap
// и транзакциями с откатом. Используется в тестах сервисов и usecase.
package memstore

import (
	"context"
	"sync"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

type dayKey struct {
	providerID int64
	date       types.Date
}

type state struct {
	days          map[dayKey]domain.AvailabilityDay
	requests      map[int64]domain.BookingRequest
	bookings      map[int64]domain.Booking
	nextRequestID int64
	nextBookingID int64
}

func (s state) clone() state {
	c := state{
		days:          make(map[dayKey]domain.AvailabilityDay, len(s.days)),
		requests:      make(map[int64]domain.BookingRequest, len(s.requests)),
		bookings:      make(map[int64]domain.Booking, len(s.bookings)),
		nextRequestID: s.nextRequestID,
		nextBookingID: s.nextBookingID,
	}
	for k, v := range s.days {
		c.days[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	return c
}

// Store общее состояние всех репозиториев.
// Транзакция держит мьютекс целиком, поэтому конкурентные транзакции сериализуются.
type Store struct {
	mu    sync.Mutex
	state state

	Availability *AvailabilityRepo
	Requests     *RequestRepo
	Bookings     *BookingRepo
	Tx           *TxManager
}

// New создает пустое хранилище
func New() *Store {
	s := &Store{
		state: state{
			days:     make(map[dayKey]domain.AvailabilityDay),
			requests: make(map[int64]domain.BookingRequest),
			bookings: make(map[int64]domain.Booking),
		},
	}
	s.Availability = &AvailabilityRepo{s: s}
	s.Requests = &RequestRepo{s: s}
	s.Bookings = &BookingRepo{s: s}
	s.Tx = &TxManager{s: s}
	return s
}

type txKey struct{}

// with выполняет fn под мьютексом, если вызов не внутри транзакции
func (s *Store) with(ctx context.Context, fn func(st *state)) {
	if ctx.Value(txKey{}) != nil {
		fn(&s.state)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// TxManager менеджер транзакций над Store
type TxManager struct {
	s *Store

	// Commits число успешно зафиксированных транзакций
	Commits int
	// Rollbacks число откатов
	Rollbacks int
}

// Do выполняет fn атомарно; при ошибке состояние восстанавливается
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snapshot := m.s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.state = snapshot
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// DoSerializable то же, что Do: транзакции и так сериализованы
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// DoReadOnly то же, что Do
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// PutDay сохраняет день напрямую (подготовка данных в тестах)
func (s *Store) PutDay(day domain.AvailabilityDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.days[dayKey{day.ProviderID, day.Date}] = day
}

// Day возвращает день; ok=false, если записи нет
func (s *Store) Day(providerID int64, date types.Date) (domain.AvailabilityDay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.state.days[dayKey{providerID, date}]
	return d, ok
}

// PutRequest сохраняет запрос напрямую; ID назначается, если не задан
func (s *Store) PutRequest(req domain.BookingRequest) domain.BookingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == 0 {
		s.state.nextRequestID++
		req.ID = s.state.nextRequestID
	} else if req.ID > s.state.nextRequestID {
		s.state.nextRequestID = req.ID
	}
	s.state.requests[req.ID] = req
	return req
}

// PutBooking сохраняет бронирование напрямую; ID назначается, если не задан
func (s *Store) PutBooking(b domain.Booking) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		s.state.nextBookingID++
		b.ID = s.state.nextBookingID
	} else if b.ID > s.state.nextBookingID {
		s.state.nextBookingID = b.ID
	}
	s.state.bookings[b.ID] = b
	return b
}

// BookingCount число бронирований
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.bookings)
}
