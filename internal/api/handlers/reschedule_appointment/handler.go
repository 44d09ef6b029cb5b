package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SalonScheduling/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgNotReschedulable     = "перенести можно только предстоящую запись"
	msgSlotNotAvailable     = "выбранное время недоступно"
	msgStaffNotQualified    = "мастер не выполняет эту услугу"
	msgStartInPast          = "нельзя перенести запись на прошедшее время"
	msgInvalidData          = "некорректные данные переноса"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrNotReschedulable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not reschedulable: appointment_id=%d", appointmentID)
			handlers.RespondUnprocessable(w, msgNotReschedulable)

		case errors.Is(err, domain.ErrConflict):
			conflicts, _ := domain.ConflictsFromError(err)
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot not available: appointment_id=%d, conflicts=%d",
				appointmentID, len(conflicts))
			handlers.RespondConflict(w, msgSlotNotAvailable, conflicts)

		case errors.Is(err, rescheduleAppointment.ErrStaffNotQualified):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Staff not qualified: appointment_id=%d, staff=%v",
				appointmentID, req.StaffIDs)
			handlers.RespondBadRequest(w, msgStaffNotQualified)

		case errors.Is(err, rescheduleAppointment.ErrStartInPast):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Start in past: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid data: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled successfully: appointment_id=%d, start=%s",
		appointmentID, result.StartTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
