package appointment_lifecycle

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
	appointmentLifecycle "github.com/m04kA/SMC-SalonScheduling/internal/usecase/appointment_lifecycle"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgInvalidTransition    = "действие недоступно в текущем статусе записи"
	msgTimeEntryConflict    = "у мастера уже есть открытая отметка времени"
	msgInvalidData          = "некорректные данные запроса"
)

type transitionFunc func(ctx context.Context, id int64) (*models.AppointmentResponse, error)

type Handler struct {
	useCase LifecycleUseCase
	logger  Logger
}

func NewHandler(useCase LifecycleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// CheckIn POST /api/v1/appointments/{appointmentId}/check-in
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "check-in", h.useCase.CheckIn)
}

// Start POST /api/v1/appointments/{appointmentId}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "start", h.useCase.Start)
}

// Pause POST /api/v1/appointments/{appointmentId}/pause
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "pause", h.useCase.Pause)
}

// Resume POST /api/v1/appointments/{appointmentId}/resume
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "resume", h.useCase.Resume)
}

// Complete POST /api/v1/appointments/{appointmentId}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "complete", h.useCase.Complete)
}

// NoShow POST /api/v1/appointments/{appointmentId}/no-show
func (h *Handler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "no-show", h.useCase.NoShow)
}

// Cancel POST /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.handle(w, r, "cancel", func(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
		return h.useCase.Cancel(ctx, req.ToUseCaseRequest(id))
	})
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action string, fn transitionFunc) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/%s - Invalid appointment ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := fn(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentLifecycle.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/%s - Appointment not found: appointment_id=%d", action, appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/%s - Invalid transition: appointment_id=%d, error=%v",
				action, appointmentID, err)
			handlers.RespondUnprocessable(w, msgInvalidTransition)

		case errors.Is(err, domain.ErrConflict):
			conflicts, _ := domain.ConflictsFromError(err)
			h.logger.Warn("POST /appointments/{id}/%s - Time entry conflict: appointment_id=%d", action, appointmentID)
			handlers.RespondConflict(w, msgTimeEntryConflict, conflicts)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /appointments/{id}/%s - Invalid data: appointment_id=%d, error=%v",
				action, appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /appointments/{id}/%s - Failed to apply transition: appointment_id=%d, error=%v",
				action, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/%s - Transition applied: appointment_id=%d, status=%s",
		action, appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
