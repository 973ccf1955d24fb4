package models

import (
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/pkg/types"
)

// Request модели

// CreateRequest запрос на создание запроса бронирования
type CreateRequest struct {
	RequesterID     int64      `json:"-"`
	ProviderID      int64      `json:"providerId"`
	EventDate       types.Date `json:"eventDate"`
	EventTimeStart  *string    `json:"eventTimeStart,omitempty"`
	EventTimeEnd    *string    `json:"eventTimeEnd,omitempty"`
	EventType       string     `json:"eventType"`
	LocationName    *string    `json:"locationName,omitempty"`
	LocationAddress *string    `json:"locationAddress,omitempty"`
	ProposedBudget  *float64   `json:"proposedBudget,omitempty"`
	Message         *string    `json:"message,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// ListRequest запрос списка запросов пользователя
type ListRequest struct {
	UserID  int64
	ActorID int64
	As      string // provider | requester
	Status  *string
}

// UpdateStatusRequest запрос смены статуса (reject, negotiate, resubmit, cancel)
type UpdateStatusRequest struct {
	RequestID          int64    `json:"-"`
	ActorID            int64    `json:"-"`
	Status             string   `json:"status"`
	RejectionReason    *string  `json:"rejectionReason,omitempty"`
	CounterBudget      *float64 `json:"counterBudget,omitempty"`
	CounterMessage     *string  `json:"counterMessage,omitempty"`
	CancellationReason *string  `json:"cancellationReason,omitempty"`
}

// Response модели

// BookingRequestResponse ответ с данными запроса
type BookingRequestResponse struct {
	ID                 int64      `json:"id"`
	ProviderID         int64      `json:"providerId"`
	RequesterID        int64      `json:"requesterId"`
	EventDate          types.Date `json:"eventDate"`
	EventTimeStart     *string    `json:"eventTimeStart,omitempty"`
	EventTimeEnd       *string    `json:"eventTimeEnd,omitempty"`
	EventType          string     `json:"eventType"`
	LocationName       *string    `json:"locationName,omitempty"`
	LocationAddress    *string    `json:"locationAddress,omitempty"`
	ProposedBudget     *float64   `json:"proposedBudget,omitempty"`
	Message            *string    `json:"message,omitempty"`
	Status             string     `json:"status"`
	RejectionReason    *string    `json:"rejectionReason,omitempty"`
	CounterBudget      *float64   `json:"counterBudget,omitempty"`
	CounterMessage     *string    `json:"counterMessage,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy        *int64     `json:"cancelledBy,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty"`
	RespondedAt        *time.Time `json:"respondedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingRequestListResponse список запросов
type BookingRequestListResponse struct {
	Requests []*BookingRequestResponse `json:"requests"`
	Total    int                       `json:"total"`
}

// FromDomainRequest конвертирует доменную модель в ответ
func FromDomainRequest(r *domain.BookingRequest) *BookingRequestResponse {
	return &BookingRequestResponse{
		ID:                 r.ID,
		ProviderID:         r.ProviderID,
		RequesterID:        r.RequesterID,
		EventDate:          r.EventDate,
		EventTimeStart:     timeStringPtr(r.EventTimeStart),
		EventTimeEnd:       timeStringPtr(r.EventTimeEnd),
		EventType:          string(r.EventType),
		LocationName:       r.LocationName,
		LocationAddress:    r.LocationAddress,
		ProposedBudget:     r.ProposedBudget,
		Message:            r.Message,
		Status:             string(r.Status),
		RejectionReason:    r.RejectionReason,
		CounterBudget:      r.CounterBudget,
		CounterMessage:     r.CounterMessage,
		CancelledAt:        r.CancelledAt,
		CancelledBy:        r.CancelledBy,
		CancellationReason: r.CancellationReason,
		ExpiresAt:          r.ExpiresAt,
		RespondedAt:        r.RespondedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// FromDomainRequestList конвертирует список
func FromDomainRequestList(requests []*domain.BookingRequest) *BookingRequestListResponse {
	result := make([]*BookingRequestResponse, len(requests))
	for i, r := range requests {
		result[i] = FromDomainRequest(r)
	}
	return &BookingRequestListResponse{Requests: result, Total: len(result)}
}

func timeStringPtr(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
