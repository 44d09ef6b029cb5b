package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

// EventResponse событие для смежного сервиса
type EventResponse struct {
	ID            string          `json:"id"`
	AppointmentID int64           `json:"appointmentId"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// EventListResponse список недоставленных событий
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// FromDomainEvents конвертирует события из domain
func FromDomainEvents(events []domain.AppointmentEvent) *EventListResponse {
	resp := &EventListResponse{Events: make([]EventResponse, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, EventResponse{
			ID:            e.ID.String(),
			AppointmentID: e.AppointmentID,
			Type:          e.Type,
			Payload:       e.Payload,
			CreatedAt:     e.CreatedAt,
		})
	}
	return resp
}
