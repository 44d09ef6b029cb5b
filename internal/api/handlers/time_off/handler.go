package time_off

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timeoff"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timeoff/models"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные заявки"
	msgInvalidParams      = "некорректные параметры запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заявка не найдена"
	msgAlreadyDecided     = "решение по заявке уже принято"
	msgHasAppointments    = "на период отсутствия есть записи клиентов"
)

type decideFunc func(ctx context.Context, req *models.DecideRequest) (*models.TimeOffResponse, error)

type Handler struct {
	service TimeOffService
	logger  Logger
}

func NewHandler(service TimeOffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Submit POST /api/v1/staff/{staffId}/time-off
// Заявка создается даже при пересечении с записями, их ID возвращаются в ответе
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("POST /staff/{id}/time-off - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req models.SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.StaffID = staffID

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /staff/{id}/time-off - Invalid data: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /staff/{id}/time-off - Failed to submit: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/{id}/time-off - Request submitted: staff_id=%d, request_id=%d, conflicting=%v",
		staffID, result.ID, result.ConflictingAppointmentIDs)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/time-off
// Query params: staffId, from, to (RFC3339), status (опционально)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req, err := ParseListRequest(r)
	if err != nil {
		h.logger.Warn("GET /time-off - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /time-off - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /time-off - Failed to list requests: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /time-off - Requests retrieved: count=%d", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Approve POST /api/v1/time-off/{requestId}/approve
// Body (опционально): {"force": true} - одобрить, несмотря на записи
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve", h.service.Approve)
}

// Reject POST /api/v1/time-off/{requestId}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject", h.service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action string, fn decideFunc) {
	requestID, err := handlers.PathInt64(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /time-off/{id}/%s - Invalid request ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /time-off/{id}/%s - Missing user ID", action)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body DecideBody
	if err := handlers.DecodeOptionalJSON(r, &body); err != nil {
		h.logger.Warn("POST /time-off/{id}/%s - Invalid request body: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := fn(r.Context(), &models.DecideRequest{
		RequestID: requestID,
		DecidedBy: userID,
		Force:     body.Force,
	})
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrRequestNotFound):
			h.logger.Warn("POST /time-off/{id}/%s - Request not found: request_id=%d", action, requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, timeoff.ErrAlreadyDecided):
			h.logger.Warn("POST /time-off/{id}/%s - Already decided: request_id=%d", action, requestID)
			handlers.RespondUnprocessable(w, msgAlreadyDecided)

		case errors.Is(err, domain.ErrConflict):
			conflicts, _ := domain.ConflictsFromError(err)
			h.logger.Warn("POST /time-off/{id}/%s - Blocked by appointments: request_id=%d, count=%d",
				action, requestID, len(conflicts))
			handlers.RespondConflict(w, msgHasAppointments, conflicts)

		default:
			h.logger.Error("POST /time-off/{id}/%s - Failed to decide: request_id=%d, error=%v", action, requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /time-off/{id}/%s - Request decided: request_id=%d, status=%s, by=%d",
		action, requestID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
