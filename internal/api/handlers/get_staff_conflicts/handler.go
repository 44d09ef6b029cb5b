package get_staff_conflicts

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

const (
	msgInvalidStaffID       = "некорректный ID сотрудника"
	msgInvalidInterval      = "параметры start и end обязательны в формате RFC3339"
	msgInvalidAppointmentID = "некорректный ID записи"
)

type Handler struct {
	detector ConflictDetector
	logger   Logger
}

func NewHandler(detector ConflictDetector, logger Logger) *Handler {
	return &Handler{
		detector: detector,
		logger:   logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/conflicts
// Query params: start, end (required, RFC3339), excludeAppointmentId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/conflicts - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	start, err := handlers.RequiredQueryTime(r, "start")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/conflicts - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}
	end, err := handlers.RequiredQueryTime(r, "end")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/conflicts - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	exclude, err := handlers.QueryInt64(r, "excludeAppointmentId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/conflicts - Invalid exclude ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	interval := domain.Interval{Start: start, End: end}
	conflicts, err := h.detector.FindConflicts(r.Context(), staffID, interval, exclude)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/conflicts - Failed to find conflicts: staff_id=%d, error=%v", staffID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /staff/{id}/conflicts - Conflicts checked: staff_id=%d, count=%d", staffID, len(conflicts))
	handlers.RespondJSON(w, http.StatusOK, &ConflictsResponse{
		StaffID:   staffID,
		Conflicts: handlers.FromDomainConflicts(conflicts),
	})
}
