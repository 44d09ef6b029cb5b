package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonScheduling/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidDuration    = "некорректная длительность"
	msgInvalidGranularity = "некорректный шаг сетки"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotQualified  = "мастер не выполняет эту услугу"
	msgInvalidParams      = "некорректные параметры запроса"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), serviceId, staffId (0 или пусто - любой мастер),
// durationMinutes, granularity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	staffID, err := handlers.QueryInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	duration, err := handlers.QueryInt(r, "durationMinutes")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	granularity, err := handlers.QueryInt(r, "granularity")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid granularity: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGranularity)
		return
	}

	date, err := handlers.RequiredQueryDate(r, "date", h.location)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	useCaseReq := ToUseCaseRequest(serviceID, staffID, duration, granularity, date)

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%v", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotQualified):
			h.logger.Warn("GET /availability - Staff not qualified: staff_id=%d, service_id=%v",
				useCaseReq.StaffID, serviceID)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /availability - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /availability - Failed to get slots: staff_id=%d, service_id=%v, error=%v",
				useCaseReq.StaffID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: staff_id=%d, service_id=%v, slots_count=%d",
		useCaseReq.StaffID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
