package get_calendar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BH-BookingService/internal/service/availability"
	"github.com/m04kA/BH-BookingService/internal/service/availability/models"
	"github.com/m04kA/BH-BookingService/internal/testutil/memstore"
)

type fakeService struct {
	got *models.GetCalendarRequest
	err error
}

func (f *fakeService) GetCalendar(_ context.Context, req *models.GetCalendarRequest) (*models.CalendarResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.CalendarResponse{ProviderID: req.ProviderID, Year: req.Year, Month: req.Month}, nil
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/providers/{providerId}/calendar", h.Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ParsesQuery(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, memstore.Logger{})

	rec := serve(h, "/providers/7/calendar?year=2024&month=2&selected=2024-02-29"+
		"&highlight=2024-02-10,2024-02-11&highlight=2024-02-12&role=provider&mode=edit&disablePastDates=false")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(7), svc.got.ProviderID)
	assert.Equal(t, 2024, svc.got.Year)
	assert.Equal(t, 2, svc.got.Month)
	require.NotNil(t, svc.got.Selected)
	assert.Equal(t, "2024-02-29", svc.got.Selected.String())
	assert.Len(t, svc.got.Highlighted, 3)
	assert.Equal(t, "provider", svc.got.Role)
	assert.Equal(t, "edit", svc.got.Mode)
	assert.False(t, svc.got.DisablePastDates)
}

func TestHandle_Defaults(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, memstore.Logger{})
	h.now = func() time.Time { return time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC) }

	rec := serve(h, "/providers/7/calendar")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2025, svc.got.Year)
	assert.Equal(t, 12, svc.got.Month)
	assert.Nil(t, svc.got.Selected)
	assert.Empty(t, svc.got.Highlighted)
	assert.True(t, svc.got.DisablePastDates)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []string{
		"/providers/abc/calendar",
		"/providers/7/calendar?year=twenty",
		"/providers/7/calendar?month=x",
		"/providers/7/calendar?selected=2024-02-30",
		"/providers/7/calendar?highlight=2024-02-01,nope",
		"/providers/7/calendar?disablePastDates=maybe",
	}

	for _, target := range tests {
		svc := &fakeService{}
		rec := serve(NewHandler(svc, memstore.Logger{}), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Nil(t, svc.got, target)
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	rec := serve(NewHandler(&fakeService{err: availability.ErrInvalidInput}, memstore.Logger{}), "/providers/7/calendar")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(NewHandler(&fakeService{err: errors.New("db down")}, memstore.Logger{}), "/providers/7/calendar")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
