package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventAppointmentCompleted notifies package and invoicing collaborators
const EventAppointmentCompleted = "appointment.completed"

// AppointmentEvent outbox record written in the same transaction as the status change
type AppointmentEvent struct {
	ID            uuid.UUID
	AppointmentID int64
	Type          string
	Payload       json.RawMessage
	CreatedAt     time.Time
	DeliveredAt   *time.Time
}

// AppointmentCompletedPayload linkage fields collaborators need to settle a completed appointment
type AppointmentCompletedPayload struct {
	AppointmentID    int64     `json:"appointmentId"`
	ServiceID        int64     `json:"serviceId"`
	StaffIDs         []int64   `json:"staffIds"`
	CustomerID       *int64    `json:"customerId,omitempty"`
	GuestName        *string   `json:"guestName,omitempty"`
	PackageID        *int64    `json:"packageId,omitempty"`
	PackageSessionID *int64    `json:"packageSessionId,omitempty"`
	PaymentStatus    string    `json:"paymentStatus"`
	CompletedAt      time.Time `json:"completedAt"`
}

// NewAppointmentCompletedPayload builds the payload from a completed appointment
func NewAppointmentCompletedPayload(a *Appointment, completedAt time.Time) AppointmentCompletedPayload {
	return AppointmentCompletedPayload{
		AppointmentID:    a.ID,
		ServiceID:        a.ServiceID,
		StaffIDs:         a.StaffIDs,
		CustomerID:       a.CustomerID,
		GuestName:        a.GuestName,
		PackageID:        a.PackageID,
		PackageSessionID: a.PackageSessionID,
		PaymentStatus:    string(a.PaymentStatus),
		CompletedAt:      completedAt,
	}
}
