package booking_drafts

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
	bookingFlow "github.com/m04kA/SMC-SalonScheduling/internal/usecase/booking_flow"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingDraftID     = "отсутствует ID черновика"
	msgDraftNotFound      = "черновик не найден или истек"
	msgSlotNotAvailable   = "выбранное время недоступно"
	msgServiceLocked      = "при переносе нельзя сменить услугу"
)

type Handler struct {
	useCase BookingFlowUseCase
	logger  Logger
}

func NewHandler(useCase BookingFlowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Start POST /api/v1/booking-drafts
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartDraftRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-drafts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.useCase.Start(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		h.respondError(w, "POST /booking-drafts", "", err)
		return
	}

	h.logger.Info("POST /booking-drafts - Draft started: draft_id=%s, stage=%s", draft.ID, draft.StageName)
	handlers.RespondJSON(w, http.StatusCreated, draft)
}

// Get GET /api/v1/booking-drafts/{draftId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	draftID, ok := h.draftID(w, r, "GET /booking-drafts/{id}")
	if !ok {
		return
	}

	draft, err := h.useCase.Get(r.Context(), draftID)
	if err != nil {
		h.respondError(w, "GET /booking-drafts/{id}", draftID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, draft)
}

// SetService PUT /api/v1/booking-drafts/{draftId}/service
func (h *Handler) SetService(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /booking-drafts/{id}/service"
	draftID, ok := h.draftID(w, r, op)
	if !ok {
		return
	}

	var req ServiceStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.useCase.SetService(r.Context(), draftID, req.ServiceID)
	h.respondDraft(w, op, draftID, draft, err)
}

// SetTechnician PUT /api/v1/booking-drafts/{draftId}/technician
func (h *Handler) SetTechnician(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /booking-drafts/{id}/technician"
	draftID, ok := h.draftID(w, r, op)
	if !ok {
		return
	}

	var req TechnicianStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.useCase.SetTechnician(r.Context(), req.ToUseCaseRequest(draftID))
	h.respondDraft(w, op, draftID, draft, err)
}

// SetTime PUT /api/v1/booking-drafts/{draftId}/time
func (h *Handler) SetTime(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /booking-drafts/{id}/time"
	draftID, ok := h.draftID(w, r, op)
	if !ok {
		return
	}

	var req TimeStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.useCase.SetTime(r.Context(), req.ToUseCaseRequest(draftID))
	h.respondDraft(w, op, draftID, draft, err)
}

// SetCustomer PUT /api/v1/booking-drafts/{draftId}/customer
func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /booking-drafts/{id}/customer"
	draftID, ok := h.draftID(w, r, op)
	if !ok {
		return
	}

	var req CustomerStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.useCase.SetCustomer(r.Context(), req.ToUseCaseRequest(draftID))
	h.respondDraft(w, op, draftID, draft, err)
}

// Back POST /api/v1/booking-drafts/{draftId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-drafts/{id}/back"
	draftID, ok := h.draftID(w, r, op)
	if !ok {
		return
	}

	var req BackStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := h.useCase.Back(r.Context(), &bookingFlow.BackRequest{DraftID: draftID, Stage: req.Stage})
	h.respondDraft(w, op, draftID, draft, err)
}

// Confirm POST /api/v1/booking-drafts/{draftId}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking-drafts/{id}/confirm"
	draftID, ok := h.draftID(w, r, op)
	if !ok {
		return
	}

	appointment, err := h.useCase.Confirm(r.Context(), draftID)
	if err != nil {
		h.respondError(w, op, draftID, err)
		return
	}

	h.logger.Info("%s - Draft confirmed: draft_id=%s, appointment_id=%d", op, draftID, appointment.ID)
	handlers.RespondJSON(w, http.StatusCreated, appointment)
}

func (h *Handler) draftID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	draftID := mux.Vars(r)["draftId"]
	if draftID == "" {
		h.logger.Warn("%s - Missing draft ID", op)
		handlers.RespondBadRequest(w, msgMissingDraftID)
		return "", false
	}
	return draftID, true
}

func (h *Handler) respondDraft(w http.ResponseWriter, op, draftID string, draft *bookingFlow.DraftResponse, err error) {
	if err != nil {
		h.respondError(w, op, draftID, err)
		return
	}

	h.logger.Info("%s - Draft updated: draft_id=%s, stage=%s", op, draftID, draft.StageName)
	handlers.RespondJSON(w, http.StatusOK, draft)
}

func (h *Handler) respondError(w http.ResponseWriter, op, draftID string, err error) {
	switch {
	case errors.Is(err, bookingFlow.ErrDraftNotFound):
		h.logger.Warn("%s - Draft not found: draft_id=%s", op, draftID)
		handlers.RespondNotFound(w, msgDraftNotFound)

	case errors.Is(err, bookingFlow.ErrServiceLocked):
		h.logger.Warn("%s - Service locked: draft_id=%s", op, draftID)
		handlers.RespondBadRequest(w, msgServiceLocked)

	case errors.Is(err, domain.ErrConflict):
		conflicts, _ := domain.ConflictsFromError(err)
		h.logger.Warn("%s - Slot not available: draft_id=%s, conflicts=%d", op, draftID, len(conflicts))
		handlers.RespondConflict(w, msgSlotNotAvailable, conflicts)

	case handlers.StatusFor(err) != http.StatusInternalServerError:
		h.logger.Warn("%s - Rejected: draft_id=%s, error=%v", op, draftID, err)
		handlers.RespondDomainError(w, err)

	default:
		h.logger.Error("%s - Failed: draft_id=%s, error=%v", op, draftID, err)
		handlers.RespondInternalError(w)
	}
}
