package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/analytics"), svc, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestAnalyticsHandlersRoutes(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery(`GROUP BY employee_id, fix_date`).
		WithArgs("emp-1", "2025-06-01").
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "fix_date", "sessions", "total_distance", "total_time", "average_speed", "fuel_consumed", "fuel_cost", "shipments_completed"}).
			AddRow("emp-1", "2025-06-01", 1, 20.0, int64(3600), 20.0, 1.33, 2.0, 4))

	app := newTestApp(NewService(mock, zerolog.Nop()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/routes?employeeId=emp-1&date=2025-06-01", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("routes status: %v %d", err, resp.StatusCode)
	}

	var out []RouteAnalytics
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Efficiency != 5.0 {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestAnalyticsHandlersBadRange(t *testing.T) {
	app := newTestApp(NewService(nil, zerolog.Nop()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/routes?startDate=2025-06-30&endDate=2025-06-01", nil))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request: %v %d", err, resp.StatusCode)
	}
}

func TestAnalyticsHandlersBadGroupBy(t *testing.T) {
	app := newTestApp(NewService(nil, zerolog.Nop()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/time?groupBy=quarter", nil))
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request: %v %d", err, resp.StatusCode)
	}
}

func TestAnalyticsHandlersTopPerformers(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery(`GROUP BY employee_id`).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "total_distance", "shipments_completed", "fuel_consumed"}).
			AddRow("emp-a", 100.0, 20, 5.0).
			AddRow("emp-b", 50.0, 10, 4.0))

	app := newTestApp(NewService(mock, zerolog.Nop()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/top?metric=fuel&limit=5", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("top status: %v %d", err, resp.StatusCode)
	}

	var out []TopPerformer
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].EmployeeID != "emp-a" {
		t.Fatalf("unexpected ranking %+v", out)
	}
}

func TestAnalyticsHandlersHourlyError(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery(`EXTRACT\(HOUR FROM recorded_at\)`).
		WillReturnError(errAnalytics)

	app := newTestApp(NewService(mock, zerolog.Nop()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/hourly", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected error: %v %d", err, resp.StatusCode)
	}
}
