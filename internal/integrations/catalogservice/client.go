package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Logger интерфейс логгера клиента
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с каталогом услуг (услуги, квалификация мастеров, пакеты)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу по ID
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	var service Service
	if err := c.get(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}
	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %d has non-positive duration %d", ErrInvalidResponse, serviceID, service.DurationMinutes)
	}

	return &service, nil
}

// ListQualifiedStaff получает ID сотрудников, которые могут выполнять услугу (по возрастанию)
func (c *Client) ListQualifiedStaff(ctx context.Context, serviceID int64) ([]int64, error) {
	url := fmt.Sprintf("%s/internal/services/%d/staff", c.baseURL, serviceID)

	var resp QualifiedStaffResponse
	if err := c.get(ctx, url, ErrServiceNotFound, &resp); err != nil {
		return nil, err
	}

	staffIDs := append([]int64(nil), resp.StaffIDs...)
	sort.Slice(staffIDs, func(i, j int) bool { return staffIDs[i] < staffIDs[j] })

	c.log.Info("Fetched %d qualified staff for service_id=%d", len(staffIDs), serviceID)
	return staffIDs, nil
}

// GetPackage получает пакет процедур с остатком сеансов
func (c *Client) GetPackage(ctx context.Context, packageID int64) (*Package, error) {
	url := fmt.Sprintf("%s/internal/packages/%d", c.baseURL, packageID)

	var pkg Package
	if err := c.get(ctx, url, ErrPackageNotFound, &pkg); err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("CatalogService request failed: GET %s: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
