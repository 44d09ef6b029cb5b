package flexible_shifts

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/shifts/models"
)

// ParseListRequest собирает фильтр из query параметров
func ParseListRequest(r *http.Request) (*models.ListFlexibleShiftsRequest, error) {
	staffID, err := handlers.QueryInt64(r, "staffId")
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

	return &models.ListFlexibleShiftsRequest{
		StaffID: staffID,
		From:    from,
		To:      to,
		Status:  handlers.QueryString(r, "status"),
	}, nil
}
