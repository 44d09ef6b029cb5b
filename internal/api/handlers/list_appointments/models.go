package list_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/appointments/models"
)

// ParseListRequest собирает фильтр из query параметров
func ParseListRequest(r *http.Request) (*models.ListAppointmentsRequest, error) {
	staffID, err := handlers.QueryInt64(r, "staffId")
	if err != nil {
		return nil, err
	}
	customerID, err := handlers.QueryInt64(r, "customerId")
	if err != nil {
		return nil, err
	}
	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return nil, err
	}

	return &models.ListAppointmentsRequest{
		StaffID:    staffID,
		CustomerID: customerID,
		From:       from,
		To:         to,
		Status:     handlers.QueryString(r, "status"),
	}, nil
}
