package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Conflicts []ConflictModel `json:"conflicts,omitempty"`
}

// ConflictModel пересекающийся элемент расписания
type ConflictModel struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id,omitempty"`
	StaffID   int64     `json:"staffId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status,omitempty"`
}

// FromDomainConflicts конвертирует конфликты из domain
func FromDomainConflicts(conflicts []domain.Conflict) []ConflictModel {
	result := make([]ConflictModel, 0, len(conflicts))
	for _, c := range conflicts {
		result = append(result, ConflictModel{
			Kind:      string(c.Kind),
			ID:        c.ID,
			StaffID:   c.StaffID,
			StartTime: c.Start,
			EndTime:   c.End,
			Status:    c.Status,
		})
	}
	return result
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondConflict 409 со списком пересечений
func RespondConflict(w http.ResponseWriter, message string, conflicts []domain.Conflict) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{
		Code:      http.StatusConflict,
		Message:   message,
		Conflicts: FromDomainConflicts(conflicts),
	})
}

// RespondUnprocessable 422
func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, message)
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON декодирует тело запроса, отклоняя неизвестные поля
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// DecodeOptionalJSON декодирует тело запроса, допуская его отсутствие
func DecodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
