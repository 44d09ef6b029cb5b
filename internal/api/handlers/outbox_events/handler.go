package outbox_events

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/events"
)

const (
	msgInvalidLimit   = "некорректный параметр limit"
	msgInvalidEventID = "некорректный ID события"
	msgNotFound       = "событие не найдено или уже подтверждено"
)

type Handler struct {
	service EventService
	logger  Logger
}

func NewHandler(service EventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListPending GET /api/v1/events/pending
// Query params: limit (опционально)
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		h.logger.Warn("GET /events/pending - Invalid limit: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}

	n := 0
	if limit != nil {
		n = *limit
	}

	result, err := h.service.ListPending(r.Context(), n)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /events/pending - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)

		default:
			h.logger.Error("GET /events/pending - Failed to list events: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /events/pending - Events retrieved: count=%d", len(result.Events))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Ack POST /api/v1/events/{eventId}/ack
func (h *Handler) Ack(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	if err := h.service.Ack(r.Context(), eventID); err != nil {
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			h.logger.Warn("POST /events/{id}/ack - Event not found: event_id=%s", eventID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /events/{id}/ack - Invalid event ID: event_id=%s", eventID)
			handlers.RespondBadRequest(w, msgInvalidEventID)

		default:
			h.logger.Error("POST /events/{id}/ack - Failed to ack event: event_id=%s, error=%v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /events/{id}/ack - Event delivered: event_id=%s", eventID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
