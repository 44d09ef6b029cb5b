package time_off

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/service/timeoff/models"
)

// DecideBody тело запроса решения по заявке
type DecideBody struct {
	Force bool `json:"force"`
}

// ParseListRequest собирает фильтр из query параметров
func ParseListRequest(r *http.Request) (*models.ListRequest, error) {
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

	return &models.ListRequest{
		StaffID: staffID,
		From:    from,
		To:      to,
		Status:  handlers.QueryString(r, "status"),
	}, nil
}
