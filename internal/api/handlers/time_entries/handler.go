package time_entries

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timetracking"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timetracking/models"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPeriod      = "параметры from и to обязательны в формате RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "отметиться можно только за себя"
	msgNoShift            = "нет одобренной смены для отметки"
	msgNoOpenEntry        = "нет открытой отметки"
	msgBlocked            = "время сотрудника заблокировано"
)

type checkFunc func(ctx context.Context, req *models.CheckRequest) (*models.TimeEntryResponse, error)

type Handler struct {
	service TimeTrackingService
	logger  Logger
}

func NewHandler(service TimeTrackingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CheckIn POST /api/v1/staff/{staffId}/check-in
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, "check-in", http.StatusCreated, h.service.CheckIn)
}

// CheckOut POST /api/v1/staff/{staffId}/check-out
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, "check-out", http.StatusOK, h.service.CheckOut)
}

// List GET /api/v1/staff/{staffId}/time-entries
// Query params: from, to (required, RFC3339)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/time-entries - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	from, err := handlers.RequiredQueryTime(r, "from")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/time-entries - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := handlers.RequiredQueryTime(r, "to")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/time-entries - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.List(r.Context(), staffID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /staff/{id}/time-entries - Invalid period: staff_id=%d", staffID)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /staff/{id}/time-entries - Failed to list entries: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/time-entries - Entries retrieved: staff_id=%d, count=%d", staffID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request, action string, status int, fn checkFunc) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("POST /staff/{id}/%s - Invalid staff ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /staff/{id}/%s - Missing user ID", action)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if userID != staffID {
		h.logger.Warn("POST /staff/{id}/%s - Access denied: staff_id=%d, user_id=%d", action, staffID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req models.CheckRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/%s - Invalid request body: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.StaffID = staffID

	result, err := fn(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, timetracking.ErrNoShiftToCheckIn):
			h.logger.Warn("POST /staff/{id}/%s - No shift: staff_id=%d", action, staffID)
			handlers.RespondUnprocessable(w, msgNoShift)

		case errors.Is(err, timetracking.ErrNoOpenTimeEntry):
			h.logger.Warn("POST /staff/{id}/%s - No open entry: staff_id=%d", action, staffID)
			handlers.RespondUnprocessable(w, msgNoOpenEntry)

		case errors.Is(err, domain.ErrConflict):
			conflicts, _ := domain.ConflictsFromError(err)
			h.logger.Warn("POST /staff/{id}/%s - Blocked: staff_id=%d", action, staffID)
			handlers.RespondConflict(w, msgBlocked, conflicts)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /staff/{id}/%s - Invalid data: staff_id=%d, error=%v", action, staffID, err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)

		default:
			h.logger.Error("POST /staff/{id}/%s - Failed: staff_id=%d, error=%v", action, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/{id}/%s - Done: staff_id=%d, entry_id=%d", action, staffID, result.ID)
	handlers.RespondJSON(w, status, result)
}
