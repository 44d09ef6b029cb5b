package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotAvailable   = "выбранное время недоступно"
	msgServiceNotFound    = "услуга не найдена"
	msgCustomerNotFound   = "клиент не найден"
	msgPackageNotFound    = "пакет процедур не найден"
	msgStaffNotQualified  = "мастер не выполняет эту услугу"
	msgNoQualifiedStaff   = "нет мастеров, выполняющих эту услугу"
	msgStartInPast        = "нельзя записаться на прошедшее время"
	msgPackageMismatch    = "пакет процедур не подходит для этой записи"
	msgPackageExhausted   = "в пакете не осталось сеансов"
	msgInvalidData        = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			conflicts, _ := domain.ConflictsFromError(err)
			h.logger.Warn("POST /appointments - Slot not available: service_id=%d, staff=%v, conflicts=%d",
				req.ServiceID, req.StaffIDs, len(conflicts))
			handlers.RespondConflict(w, msgSlotNotAvailable, conflicts)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrCustomerNotFound):
			h.logger.Warn("POST /appointments - Customer not found: customer_id=%v", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createAppointment.ErrPackageNotFound):
			h.logger.Warn("POST /appointments - Package not found: package_id=%v", req.PackageID)
			handlers.RespondNotFound(w, msgPackageNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotQualified):
			h.logger.Warn("POST /appointments - Staff not qualified: service_id=%d, staff=%v", req.ServiceID, req.StaffIDs)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, createAppointment.ErrNoQualifiedStaff):
			h.logger.Warn("POST /appointments - No qualified staff: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgNoQualifiedStaff)

		case errors.Is(err, createAppointment.ErrStartInPast):
			h.logger.Warn("POST /appointments - Start in past: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createAppointment.ErrPackageMismatch):
			h.logger.Warn("POST /appointments - Package mismatch: package_id=%v", req.PackageID)
			handlers.RespondBadRequest(w, msgPackageMismatch)

		case errors.Is(err, createAppointment.ErrPackageExhausted):
			h.logger.Warn("POST /appointments - Package exhausted: package_id=%v", req.PackageID)
			handlers.RespondBadRequest(w, msgPackageExhausted)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /appointments - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, staff=%v",
		result.ID, result.StaffIDs)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
