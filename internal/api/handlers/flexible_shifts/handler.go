package flexible_shifts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные смены"
	msgInvalidParams      = "некорректные параметры запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "смена не найдена"
	msgAlreadyDecided     = "решение по смене уже принято"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Submit POST /api/v1/staff/{staffId}/flexible-shifts
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("POST /staff/{id}/flexible-shifts - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req models.SubmitFlexibleShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/flexible-shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.StaffID = staffID

	result, err := h.service.SubmitFlexibleShift(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /staff/{id}/flexible-shifts - Invalid data: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /staff/{id}/flexible-shifts - Failed to submit: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/{id}/flexible-shifts - Shift submitted: staff_id=%d, shift_id=%d", staffID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/flexible-shifts
// Query params: staffId, from, to (RFC3339), status (опционально)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req, err := ParseListRequest(r)
	if err != nil {
		h.logger.Warn("GET /flexible-shifts - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListFlexibleShifts(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /flexible-shifts - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /flexible-shifts - Failed to list shifts: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /flexible-shifts - Shifts retrieved: count=%d", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Decide POST /api/v1/flexible-shifts/{shiftId}/decision
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	shiftID, err := handlers.PathInt64(r, "shiftId")
	if err != nil {
		h.logger.Warn("POST /flexible-shifts/{id}/decision - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /flexible-shifts/{id}/decision - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.DecideFlexibleShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /flexible-shifts/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ShiftID = shiftID
	req.DecidedBy = userID

	result, err := h.service.DecideFlexibleShift(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrFlexibleShiftNotFound):
			h.logger.Warn("POST /flexible-shifts/{id}/decision - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shifts.ErrAlreadyDecided):
			h.logger.Warn("POST /flexible-shifts/{id}/decision - Already decided: shift_id=%d", shiftID)
			handlers.RespondUnprocessable(w, msgAlreadyDecided)

		default:
			h.logger.Error("POST /flexible-shifts/{id}/decision - Failed to decide: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /flexible-shifts/{id}/decision - Shift decided: shift_id=%d, status=%s, by=%d",
		shiftID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
