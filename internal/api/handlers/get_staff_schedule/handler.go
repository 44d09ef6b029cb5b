package get_staff_schedule

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
)

const (
	msgInvalidStaffID = "некорректный ID сотрудника"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service  ScheduleService
	location *time.Location
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/schedule
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	date, err := handlers.RequiredQueryDate(r, "date", h.location)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/schedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	working, err := h.service.ResolveDaySchedule(r.Context(), staffID, date)
	if err != nil {
		h.logger.Error("GET /staff/{id}/schedule - Failed to resolve schedule: staff_id=%d, error=%v", staffID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	free, err := h.service.FreeWindows(r.Context(), staffID, date)
	if err != nil {
		h.logger.Error("GET /staff/{id}/schedule - Failed to get free windows: staff_id=%d, error=%v", staffID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /staff/{id}/schedule - Schedule retrieved successfully: staff_id=%d, working=%d, free=%d",
		staffID, len(working), len(free))
	handlers.RespondJSON(w, http.StatusOK, NewScheduleResponse(staffID, date, working, free))
}
