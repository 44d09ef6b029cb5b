package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на получение списка записей
type ListAppointmentsRequest struct {
	StaffID    *int64     `json:"staffId,omitempty"`    // Фильтр по мастеру (опционально)
	CustomerID *int64     `json:"customerId,omitempty"` // Фильтр по клиенту (опционально)
	From       *time.Time `json:"from,omitempty"`       // Начало периода (опционально)
	To         *time.Time `json:"to,omitempty"`         // Конец периода (опционально)
	Status     *string    `json:"status,omitempty"`     // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		CustomerID: r.CustomerID,
		From:       r.From,
		To:         r.To,
	}
	if r.StaffID != nil {
		filter.StaffIDs = []int64{*r.StaffID}
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID               int64     `json:"id"`
	CustomerID       *int64    `json:"customerId,omitempty"`
	GuestName        *string   `json:"guestName,omitempty"`
	ServiceID        int64     `json:"serviceId"`
	StaffIDs         []int64   `json:"staffIds"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	DurationMinutes  int       `json:"durationMinutes"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	PackageID        *int64    `json:"packageId,omitempty"`
	PackageSessionID *int64    `json:"packageSessionId,omitempty"`
	Notes            *string   `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CheckedInAt        *string `json:"checkedInAt,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	staff := a.StaffIDs
	if staff == nil {
		staff = []int64{}
	}

	return &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		GuestName:          a.GuestName,
		ServiceID:          a.ServiceID,
		StaffIDs:           staff,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		DurationMinutes:    int(a.Interval().Duration() / time.Minute),
		Status:             string(a.Status),
		PaymentStatus:      string(a.PaymentStatus),
		PackageID:          a.PackageID,
		PackageSessionID:   a.PackageSessionID,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CancelledAt:        formatTime(a.CancelledAt),
		CheckedInAt:        formatTime(a.CheckedInAt),
		CompletedAt:        formatTime(a.CompletedAt),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// formatTime конвертирует время в строку ISO 8601
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
