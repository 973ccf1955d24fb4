package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
	"github.com/m04kA/BH-BookingService/internal/integrations/paymentservice"
	"github.com/m04kA/BH-BookingService/internal/service/availability"
	availabilityModels "github.com/m04kA/BH-BookingService/internal/service/availability/models"
	"github.com/m04kA/BH-BookingService/internal/service/bookings"
	bookingModels "github.com/m04kA/BH-BookingService/internal/service/bookings/models"
	"github.com/m04kA/BH-BookingService/internal/service/requests"
	requestModels "github.com/m04kA/BH-BookingService/internal/service/requests/models"
	"github.com/m04kA/BH-BookingService/internal/testutil/memstore"
	acceptRequestUC "github.com/m04kA/BH-BookingService/internal/usecase/accept_request"
	cancelBookingUC "github.com/m04kA/BH-BookingService/internal/usecase/cancel_booking"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

const (
	providerID = int64(10)
	clientID   = int64(20)
	otherID    = int64(30)
)

type testServer struct {
	t        *testing.T
	router   *mux.Router
	store    *memstore.Store
	notifier *memstore.Notifier
}

func newTestServer(t *testing.T, quote http.HandlerFunc) *testServer {
	t.Helper()

	payments := httptest.NewServer(quote)
	t.Cleanup(payments.Close)

	store := memstore.New()
	notify := &memstore.Notifier{}
	log := memstore.Logger{}

	r := mux.NewRouter()
	RegisterRoutes(r, Dependencies{
		Availability: availability.NewService(store.Availability, log),
		Requests:     requests.NewService(store.Requests, store.Availability, notify, 72*time.Hour, log),
		Bookings:     bookings.NewService(store.Bookings, notify, log),
		AcceptRequest: acceptRequestUC.NewUseCase(
			store.Requests,
			store.Bookings,
			store.Availability,
			paymentservice.NewClient(payments.URL, time.Second, log),
			notify,
			store.Tx,
			log,
		),
		CancelBooking: cancelBookingUC.NewUseCase(store.Bookings, store.Availability, notify, store.Tx, log),
		Logger:        log,
	})

	return &testServer{t: t, router: r, store: store, notifier: notify}
}

// do выполняет запрос; userID 0 означает запрос без X-User-ID
func (s *testServer) do(method, path string, userID int64, body interface{}, out interface{}) int {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != 0 {
		req.Header.Set(middleware.UserIDHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusMultipleChoices {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *testServer) dayStatus(date types.Date) string {
	s.t.Helper()

	var cal availabilityModels.CalendarResponse
	path := fmt.Sprintf("/api/v1/providers/%d/calendar?year=%d&month=%d", providerID, date.Year(), int(date.Month()))
	require.Equal(s.t, http.StatusOK, s.do(http.MethodGet, path, 0, nil, &cal))

	for _, c := range cal.Cells {
		if c.Date == date {
			return c.Status
		}
	}
	s.t.Fatalf("date %s not in grid", date)
	return ""
}

func quoteHandler(w http.ResponseWriter, r *http.Request) {
	deposit, final, fee, feeAmount, payout := 500.0, 1000.0, 10.0, 150.0, 1350.0
	_ = json.NewEncoder(w).Encode(paymentservice.Quote{
		DepositAmount:         &deposit,
		FinalPaymentAmount:    &final,
		PlatformFeePercentage: &fee,
		PlatformFeeAmount:     &feeAmount,
		ProviderPayoutAmount:  &payout,
	})
}

func eventDate() types.Date {
	return types.DateOf(time.Now().AddDate(0, 2, 0))
}

func createRequest(s *testServer, requester int64, date types.Date) (requestModels.BookingRequestResponse, int) {
	budget := 1500.0
	var created requestModels.BookingRequestResponse
	code := s.do(http.MethodPost, "/api/v1/booking-requests", requester, map[string]interface{}{
		"providerId":     providerID,
		"eventDate":      date.String(),
		"eventType":      "wedding",
		"proposedBudget": budget,
	}, &created)
	return created, code
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t, quoteHandler)
	date := eventDate()

	// Запрос не меняет календарь
	request, code := createRequest(s, clientID, date)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "pending", request.Status)
	assert.Equal(t, "available", s.dayStatus(date))

	// Провайдер принимает
	var accepted acceptRequestUC.Response
	code = s.do(http.MethodPost, fmt.Sprintf("/api/v1/booking-requests/%d/accept", request.ID), providerID, nil, &accepted)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "accepted", accepted.RequestStatus)
	assert.Equal(t, "confirmed", accepted.BookingStatus)
	assert.Equal(t, 1500.0, accepted.TotalPrice)
	require.NotNil(t, accepted.DepositAmount)
	assert.Equal(t, 500.0, *accepted.DepositAmount)
	assert.Equal(t, "booked", s.dayStatus(date))

	// Дата больше не доступна другим
	_, code = createRequest(s, otherID, date)
	assert.Equal(t, http.StatusConflict, code)

	bookingPath := fmt.Sprintf("/api/v1/bookings/%d", accepted.BookingID)

	// Чужой не видит бронирование
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, bookingPath, otherID, nil, nil))

	// Договор: прикрепляет провайдер, подписывают обе стороны
	var booking bookingModels.BookingResponse
	code = s.do(http.MethodPut, bookingPath+"/contract", providerID,
		map[string]string{"contractUrl": "https://contracts.example.com/b/1.pdf"}, &booking)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "awaiting_both", booking.Contract.Status)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, bookingPath+"/contract/sign", clientID, nil, &booking))
	assert.Equal(t, "awaiting_one", booking.Contract.Status)
	require.NotNil(t, booking.Contract.PendingParty)
	assert.Equal(t, "provider", *booking.Contract.PendingParty)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, bookingPath+"/contract/sign", providerID, nil, &booking))
	assert.Equal(t, "fully_executed", booking.Contract.Status)

	// После подписи договор заменить нельзя
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPut, bookingPath+"/contract", providerID,
		map[string]string{"contractUrl": "https://contracts.example.com/b/2.pdf"}, nil))

	// Оплата задатка приходит от PaymentService без X-User-ID
	depositPath := fmt.Sprintf("/internal/bookings/%d/payments/deposit", accepted.BookingID)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, depositPath, 0, nil, &booking))
	require.Len(t, booking.Milestones, 2)
	assert.True(t, booking.Milestones[0].IsPaid)
	assert.False(t, booking.Milestones[1].IsPaid)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, depositPath, 0, nil, nil))

	// Клиент отменяет, день возвращается в календарь
	var cancelled cancelBookingUC.Response
	code = s.do(http.MethodPatch, bookingPath+"/cancel", clientID,
		map[string]string{"reason": "Venue closed"}, &cancelled)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", cancelled.Status)
	require.NotNil(t, cancelled.RestoredDayStatus)
	assert.Equal(t, "available", *cancelled.RestoredDayStatus)
	assert.Equal(t, "available", s.dayStatus(date))

	// Повторная отмена невозможна
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPatch, bookingPath+"/cancel", clientID,
		map[string]string{"reason": "again"}, nil))

	var list bookingModels.BookingListResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/bookings?as=provider&status=cancelled", providerID), providerID, nil, &list))
	assert.Equal(t, 1, list.Total)

	kinds := map[notifier.Kind]int{}
	for _, n := range s.notifier.Sent() {
		kinds[n.Kind]++
	}
	assert.Equal(t, 2, kinds[notifier.KindRequestAccepted])
	assert.Equal(t, 1, kinds[notifier.KindBookingCancelled])
}

func TestRejectedRequestLeavesCalendarUntouched(t *testing.T) {
	s := newTestServer(t, quoteHandler)
	date := eventDate()

	request, code := createRequest(s, clientID, date)
	require.Equal(t, http.StatusCreated, code)

	statusPath := fmt.Sprintf("/api/v1/booking-requests/%d/status", request.ID)

	// Отклонить может только провайдер
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, statusPath, clientID,
		map[string]string{"status": "rejected", "rejectionReason": "no"}, nil))

	var rejected requestModels.BookingRequestResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, statusPath, providerID,
		map[string]string{"status": "rejected", "rejectionReason": "Already booked elsewhere"}, &rejected))
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, "available", s.dayStatus(date))

	// Принять отклоненный запрос нельзя
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost,
		fmt.Sprintf("/api/v1/booking-requests/%d/accept", request.ID), providerID, nil, nil))
	assert.Zero(t, s.store.BookingCount())
}

func TestAccept_PaymentServiceDown(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	date := eventDate()

	request, code := createRequest(s, clientID, date)
	require.Equal(t, http.StatusCreated, code)

	var accepted acceptRequestUC.Response
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost,
		fmt.Sprintf("/api/v1/booking-requests/%d/accept", request.ID), providerID, nil, &accepted))
	assert.Nil(t, accepted.DepositAmount)
	assert.Nil(t, accepted.ProviderPayoutAmount)

	var booking bookingModels.BookingResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet,
		fmt.Sprintf("/api/v1/bookings/%d", accepted.BookingID), clientID, nil, &booking))
	assert.Empty(t, booking.Milestones)
	assert.Equal(t, "not_set", booking.Payout.Status)
}

func TestProviderCalendarEditing(t *testing.T) {
	s := newTestServer(t, quoteHandler)
	date := eventDate()
	dayPath := fmt.Sprintf("/api/v1/providers/%d/availability/%s", providerID, date)

	// Чужой календарь менять нельзя
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, dayPath, otherID,
		map[string]string{"status": "blocked"}, nil))

	var day availabilityModels.DayResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, dayPath, providerID, map[string]interface{}{
		"status":    "open_gig",
		"timeSlots": []map[string]string{{"start": "18:00", "end": "23:00"}},
	}, &day))
	assert.Equal(t, "open_gig", day.Status)
	assert.True(t, day.HasTimeSlots)
	assert.Equal(t, "open_gig", s.dayStatus(date))

	// Заблокированный день нельзя запросить
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, dayPath, providerID,
		map[string]string{"status": "blocked"}, nil))
	_, code := createRequest(s, clientID, date)
	assert.Equal(t, http.StatusConflict, code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, dayPath, providerID, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, dayPath, providerID, nil, nil))
	assert.Equal(t, "available", s.dayStatus(date))
}

func TestProtectedRoutesRequireUser(t *testing.T) {
	s := newTestServer(t, quoteHandler)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/bookings/1", 0, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/booking-requests", 0,
		map[string]string{"eventType": "club"}, nil))

	// Календарь публичный
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet,
		fmt.Sprintf("/api/v1/providers/%d/calendar?year=2026&month=2", providerID), 0, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet,
		fmt.Sprintf("/api/v1/providers/%d/calendar?year=2026&month=13", providerID), 0, nil, nil))
}
