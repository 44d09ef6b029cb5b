package schedule_overrides

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные исключения"
	msgInvalidPeriod      = "параметры from и to обязательны в формате YYYY-MM-DD"
)

type Handler struct {
	service  ShiftService
	location *time.Location
	logger   Logger
}

func NewHandler(service ShiftService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Create POST /api/v1/staff/{staffId}/overrides
// В ответе - записи, оказавшиеся вне рабочего времени после исключения
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("POST /staff/{id}/overrides - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req models.CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff/{id}/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.StaffID = staffID
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		req.CreatedBy = &userID
	}

	result, err := h.service.CreateOverride(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /staff/{id}/overrides - Invalid data: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /staff/{id}/overrides - Failed to create override: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff/{id}/overrides - Override created: staff_id=%d, override_id=%d, warnings=%d",
		staffID, result.Override.ID, len(result.Warnings))
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// List GET /api/v1/staff/{staffId}/overrides
// Query params: from, to (required, YYYY-MM-DD, включительно)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/overrides - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	from, err := handlers.RequiredQueryDate(r, "from", h.location)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/overrides - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := handlers.RequiredQueryDate(r, "to", h.location)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/overrides - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListOverrides(r.Context(), staffID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /staff/{id}/overrides - Invalid period: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /staff/{id}/overrides - Failed to list overrides: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/overrides - Overrides retrieved: staff_id=%d, count=%d", staffID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
