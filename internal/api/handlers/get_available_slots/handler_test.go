package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonScheduling/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
)

type fakeSlots struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeSlots) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newHandler(uc *fakeSlots) *Handler {
	return NewHandler(uc, time.UTC, logger.NewWithWriter(io.Discard, logrus.InfoLevel))
}

func TestHandle_ConcreteStaff(t *testing.T) {
	monday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	nine := monday.Add(9 * time.Hour)
	uc := &fakeSlots{resp: &getAvailableSlots.Response{
		Date:            monday,
		StaffID:         7,
		DurationMinutes: 60,
		Slots: []getAvailableSlots.Slot{
			{StartTime: nine, EndTime: nine.Add(time.Hour), StaffIDs: []int64{7}},
		},
	}}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/availability?date=2025-03-10&staffId=7&durationMinutes=60&granularity=30", nil)
	rec := httptest.NewRecorder()
	newHandler(uc).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.StaffID)
	assert.Equal(t, 30, uc.got.GranularityMinutes)
	require.NotNil(t, uc.got.DurationMinutes)
	assert.Equal(t, 60, *uc.got.DurationMinutes)
	assert.True(t, uc.got.Date.Equal(monday))

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-10", body.Date)
	require.Len(t, body.Slots, 1)
	assert.True(t, body.Slots[0].StartTime.Equal(nine))
	assert.Equal(t, []int64{7}, body.Slots[0].StaffIDs)
}

func TestHandle_AnyStaffByDefault(t *testing.T) {
	uc := &fakeSlots{resp: &getAvailableSlots.Response{Date: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2025-03-10&serviceId=3", nil)
	rec := httptest.NewRecorder()
	newHandler(uc).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.AnyStaff, uc.got.StaffID)
	require.NotNil(t, uc.got.ServiceID)
	assert.Equal(t, int64(3), *uc.got.ServiceID)
	assert.Zero(t, uc.got.GranularityMinutes)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{name: "missing date", query: "serviceId=3", status: http.StatusBadRequest},
		{name: "bad date", query: "date=10.03.2025", status: http.StatusBadRequest},
		{name: "bad staff", query: "date=2025-03-10&staffId=abc", status: http.StatusBadRequest},
		{name: "bad duration", query: "date=2025-03-10&durationMinutes=x", status: http.StatusBadRequest},
		{name: "service not found", query: "date=2025-03-10&serviceId=3", err: getAvailableSlots.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "not qualified", query: "date=2025-03-10&serviceId=3&staffId=9", err: getAvailableSlots.ErrStaffNotQualified, status: http.StatusBadRequest},
		{name: "validation", query: "date=2025-03-10&durationMinutes=0", err: getAvailableSlots.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", query: "date=2025-03-10&serviceId=3", err: errors.New("catalog down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeSlots{err: tt.err}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+tt.query, nil)
			rec := httptest.NewRecorder()

			newHandler(uc).Handle(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
