package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

const (
	msgValidation        = "некорректные данные запроса"
	msgNotFound          = "объект не найден"
	msgConflict          = "выбранное время пересекается с расписанием"
	msgInvalidTransition = "действие недоступно в текущем статусе"
)

// StatusFor возвращает HTTP статус для ошибки по доменной классификации
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отправляет ответ по доменной классификации ошибки.
// Для 4xx в тело попадает текст ошибки, конфликты передаются списком.
func RespondDomainError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusBadRequest:
		RespondBadRequest(w, messageOr(err, msgValidation))
	case http.StatusNotFound:
		RespondNotFound(w, messageOr(err, msgNotFound))
	case http.StatusConflict:
		conflicts, _ := domain.ConflictsFromError(err)
		RespondConflict(w, messageOr(err, msgConflict), conflicts)
	case http.StatusUnprocessableEntity:
		RespondUnprocessable(w, messageOr(err, msgInvalidTransition))
	default:
		RespondInternalError(w)
	}
}

func messageOr(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
