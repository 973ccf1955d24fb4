package api

import (
	"net/http"

	"github.com/gorilla/mux"

	acceptRequestHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/accept_request"
	attachContractHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/attach_contract"
	cancelBookingHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/cancel_booking"
	createRequestHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/create_request"
	deleteAvailabilityHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/delete_availability"
	getBookingHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/get_calendar"
	getRequestHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/get_request"
	getUserBookingsHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/get_user_bookings"
	getUserRequestsHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/get_user_requests"
	markPaymentHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/mark_payment"
	setAvailabilityHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/set_availability"
	signContractHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/sign_contract"
	updateBookingStatusHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/update_booking_status"
	updatePayoutHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/update_payout"
	updateRequestStatusHandler "github.com/m04kA/BH-BookingService/internal/api/handlers/update_request_status"
	"github.com/m04kA/BH-BookingService/internal/api/middleware"
	"github.com/m04kA/BH-BookingService/internal/service/availability"
	"github.com/m04kA/BH-BookingService/internal/service/bookings"
	"github.com/m04kA/BH-BookingService/internal/service/requests"
	acceptRequestUC "github.com/m04kA/BH-BookingService/internal/usecase/accept_request"
	cancelBookingUC "github.com/m04kA/BH-BookingService/internal/usecase/cancel_booking"
)

// Logger интерфейс логгера хендлеров
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dependencies сервисы и use cases, которые обслуживают HTTP API
type Dependencies struct {
	Availability  *availability.Service
	Requests      *requests.Service
	Bookings      *bookings.Service
	AcceptRequest *acceptRequestUC.UseCase
	CancelBooking *cancelBookingUC.UseCase
	Logger        Logger
}

// RegisterRoutes регистрирует все маршруты сервиса на роутере
func RegisterRoutes(r *mux.Router, deps Dependencies) {
	log := deps.Logger

	// Инициализируем handlers
	getCalendar := getCalendarHandler.NewHandler(deps.Availability, log)
	setAvailability := setAvailabilityHandler.NewHandler(deps.Availability, log)
	deleteAvailability := deleteAvailabilityHandler.NewHandler(deps.Availability, log)

	createRequest := createRequestHandler.NewHandler(deps.Requests, log)
	getRequest := getRequestHandler.NewHandler(deps.Requests, log)
	getUserRequests := getUserRequestsHandler.NewHandler(deps.Requests, log)
	updateRequestStatus := updateRequestStatusHandler.NewHandler(deps.Requests, log)
	acceptRequest := acceptRequestHandler.NewHandler(deps.AcceptRequest, log)

	getBooking := getBookingHandler.NewHandler(deps.Bookings, log)
	getUserBookings := getUserBookingsHandler.NewHandler(deps.Bookings, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(deps.Bookings, log)
	attachContract := attachContractHandler.NewHandler(deps.Bookings, log)
	signContract := signContractHandler.NewHandler(deps.Bookings, log)
	cancelBooking := cancelBookingHandler.NewHandler(deps.CancelBooking, log)

	markPayment := markPaymentHandler.NewHandler(deps.Bookings, log)
	updatePayout := updatePayoutHandler.NewHandler(deps.Bookings, log)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Месячная сетка календаря провайдера
	api.HandleFunc("/providers/{providerId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Календарь провайдера ---
	protected.HandleFunc("/providers/{providerId}/availability/{date}", setAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/availability/{date}", deleteAvailability.Handle).Methods(http.MethodDelete)

	// --- Запросы на бронирование ---
	protected.HandleFunc("/booking-requests", createRequest.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/booking-requests/{requestId}", getRequest.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/booking-requests/{requestId}/accept", acceptRequest.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/booking-requests/{requestId}/status", updateRequestStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/booking-requests", getUserRequests.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/contract", attachContract.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/contract/sign", signContract.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// INTERNAL ROUTES (PaymentService, без X-User-ID)
	// ============================================================

	internal := r.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/bookings/{bookingId}/payments/{milestone}", markPayment.Handle).Methods(http.MethodPost)
	internal.HandleFunc("/bookings/{bookingId}/payout", updatePayout.Handle).Methods(http.MethodPatch)
}
