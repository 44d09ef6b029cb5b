package appointment_lifecycle

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	appointmentLifecycle "github.com/m04kA/SMC-SalonScheduling/internal/usecase/appointment_lifecycle"
	"github.com/m04kA/SMC-SalonScheduling/pkg/logger"
)

type fakeLifecycle struct {
	calls  []string
	cancel *appointmentLifecycle.CancelRequest
	err    error
}

func (f *fakeLifecycle) result(action string, id int64, status domain.AppointmentStatus) (*models.AppointmentResponse, error) {
	f.calls = append(f.calls, action)
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: string(status)}, nil
}

func (f *fakeLifecycle) CheckIn(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	return f.result("check-in", id, domain.StatusCheckedIn)
}

func (f *fakeLifecycle) Start(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	return f.result("start", id, domain.StatusInProgress)
}

func (f *fakeLifecycle) Pause(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	return f.result("pause", id, domain.StatusPaused)
}

func (f *fakeLifecycle) Resume(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	return f.result("resume", id, domain.StatusInProgress)
}

func (f *fakeLifecycle) Complete(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	return f.result("complete", id, domain.StatusCompleted)
}

func (f *fakeLifecycle) Cancel(_ context.Context, req *appointmentLifecycle.CancelRequest) (*models.AppointmentResponse, error) {
	f.cancel = req
	return f.result("cancel", req.AppointmentID, domain.StatusCancelled)
}

func (f *fakeLifecycle) NoShow(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	return f.result("no-show", id, domain.StatusNoShow)
}

func call(h http.HandlerFunc, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func newHandler(uc *fakeLifecycle) *Handler {
	return NewHandler(uc, logger.NewWithWriter(io.Discard, logrus.InfoLevel))
}

func TestHandler_Transitions(t *testing.T) {
	uc := &fakeLifecycle{}
	h := newHandler(uc)

	for _, fn := range []http.HandlerFunc{h.CheckIn, h.Start, h.Pause, h.Resume, h.Complete, h.NoShow} {
		rec := call(fn, "9", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []string{"check-in", "start", "pause", "resume", "complete", "no-show"}, uc.calls)
}

func TestHandler_CancelPassesReason(t *testing.T) {
	uc := &fakeLifecycle{}

	rec := call(newHandler(uc).Cancel, "9", `{"cancellationReason":"client sick"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.cancel)
	assert.Equal(t, int64(9), uc.cancel.AppointmentID)
	assert.Equal(t, "client sick", uc.cancel.Reason)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: appointmentLifecycle.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "wrong state", err: appointmentLifecycle.ErrStatusChanged, status: http.StatusUnprocessableEntity},
		{name: "open time entry", err: domain.NewConflictError("open entry", nil), status: http.StatusConflict},
		{name: "internal", err: appointmentLifecycle.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(newHandler(&fakeLifecycle{err: tt.err}).Start, "9", "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_InvalidID(t *testing.T) {
	uc := &fakeLifecycle{}

	rec := call(newHandler(uc).Complete, "abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, uc.calls)
}
