package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
)

var errAnalytics = errors.New("analytics error")

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRouteAnalyticsDerivesEfficiency(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`GROUP BY employee_id, fix_date`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "fix_date", "sessions", "total_distance", "total_time", "average_speed", "fuel_consumed", "fuel_cost", "shipments_completed"}).
			AddRow("emp-1", "2025-06-01", 2, 40.0, int64(7200), 20.0, 2.67, 4.0, 8).
			AddRow("emp-1", "2025-06-02", 1, 15.0, int64(3600), 15.0, 1.0, 1.5, 0))

	out, err := svc.RouteAnalytics(context.Background(), Filters{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("route analytics: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].Efficiency != 5.0 {
		t.Fatalf("expected efficiency 5.0, got %v", out[0].Efficiency)
	}
	// zero shipments must yield 0, never a division error
	if out[1].Efficiency != 0 {
		t.Fatalf("expected zero-guarded efficiency, got %v", out[1].Efficiency)
	}
}

func TestRouteAnalyticsRejectsInvertedRange(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	_, err := svc.RouteAnalytics(context.Background(), Filters{StartDate: "2025-06-30", EndDate: "2025-06-01"})
	if !errors.Is(err, ErrInvalidFilters) {
		t.Fatalf("expected invalid filters, got %v", err)
	}
}

func TestEmployeePerformancePerDayAverages(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`COUNT\(DISTINCT fix_date\)`).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "working_days", "sessions", "total_distance", "total_time", "average_speed", "fuel_consumed", "fuel_cost", "shipments_completed"}).
			AddRow("emp-1", 4, 6, 100.0, int64(14400), 25.0, 6.67, 10.0, 20).
			AddRow("emp-2", 0, 0, 0.0, int64(0), 0.0, 0.0, 0.0, 0))

	out, err := svc.EmployeePerformance(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("performance: %v", err)
	}
	if out[0].AverageDistancePerDay != 25.0 || out[0].AverageShipmentsPerDay != 5.0 {
		t.Fatalf("unexpected per-day averages %+v", out[0])
	}
	if out[1].AverageDistancePerDay != 0 || out[1].AverageShipmentsPerDay != 0 || out[1].Efficiency != 0 {
		t.Fatalf("expected zero-guarded averages %+v", out[1])
	}
}

func TestTimeBasedBuckets(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`IYYY-"W"IW`).
		WillReturnRows(pgxmock.NewRows([]string{"period", "active_employees", "total_sessions", "total_distance", "total_time", "fuel_consumed", "fuel_cost", "shipments_completed"}).
			AddRow("2025-W23", 3, 12, 240.0, int64(86400), 16.0, 24.0, 48).
			AddRow("2025-W24", 2, 8, 150.0, int64(43200), 10.0, 15.0, 30))

	out, err := svc.TimeBased(context.Background(), "week", Filters{})
	if err != nil {
		t.Fatalf("time based: %v", err)
	}
	if len(out) != 2 || out[0].Period != "2025-W23" || out[0].ActiveEmployees != 3 {
		t.Fatalf("unexpected buckets %+v", out)
	}
}

func TestTimeBasedRejectsUnknownGrouping(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())

	_, err := svc.TimeBased(context.Background(), "quarter", Filters{})
	if !errors.Is(err, ErrInvalidFilters) {
		t.Fatalf("expected invalid filters, got %v", err)
	}
}

func TestFuelAnalyticsBreakdowns(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`WHERE fuel_consumed > 0`).
		WillReturnRows(pgxmock.NewRows([]string{"fuel", "cost", "distance"}).AddRow(9.0, 13.5, 135.0))

	mock.ExpectQuery(`AVG\(fuel_efficiency\)`).
		WillReturnRows(pgxmock.NewRows([]string{"efficiency", "price"}).AddRow(15.0, 1.5))

	mock.ExpectQuery(`GROUP BY employee_id`).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "fuel", "cost", "distance"}).
			AddRow("emp-1", 5.0, 7.5, 75.0).
			AddRow("emp-2", 4.0, 6.0, 60.0))

	mock.ExpectQuery(`GROUP BY e.vehicle_type`).
		WillReturnRows(pgxmock.NewRows([]string{"vehicle_type", "fuel", "cost", "distance"}).
			AddRow("bike", 9.0, 13.5, 135.0))

	out, err := svc.Fuel(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("fuel: %v", err)
	}
	if out.TotalFuelConsumed != 9.0 || len(out.ByEmployee) != 2 || len(out.ByVehicleType) != 1 {
		t.Fatalf("unexpected fuel report %+v", out)
	}
	if out.ByVehicleType[0].VehicleType != "bike" {
		t.Fatalf("unexpected vehicle breakdown %+v", out.ByVehicleType)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTopPerformersFuelRatio(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`GROUP BY employee_id`).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "total_distance", "shipments_completed", "fuel_consumed"}).
			AddRow("emp-b", 50.0, 10, 4.0).
			AddRow("emp-a", 100.0, 20, 5.0).
			AddRow("emp-c", 30.0, 5, 0.0))

	out, err := svc.TopPerformers(context.Background(), "fuel", 5, Filters{})
	if err != nil {
		t.Fatalf("top performers: %v", err)
	}
	// A at 100/5=20 beats B at 50/4=12.5; C with no fuel data guards to 0
	if out[0].EmployeeID != "emp-a" || out[1].EmployeeID != "emp-b" || out[2].EmployeeID != "emp-c" {
		t.Fatalf("unexpected ranking %+v", out)
	}
	if out[0].Value != 20.0 || out[2].Value != 0 {
		t.Fatalf("unexpected values %+v", out)
	}
}

func TestTopPerformersLimitAndMetricValidation(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	_, err := svc.TopPerformers(context.Background(), "charisma", 5, Filters{})
	if !errors.Is(err, ErrInvalidFilters) {
		t.Fatalf("expected invalid filters, got %v", err)
	}

	mock := newMockPool(t)
	svc = NewService(mock, zerolog.Nop())
	mock.ExpectQuery(`GROUP BY employee_id`).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "total_distance", "shipments_completed", "fuel_consumed"}).
			AddRow("emp-a", 100.0, 20, 5.0).
			AddRow("emp-b", 50.0, 10, 4.0))

	out, err := svc.TopPerformers(context.Background(), "distance", 1, Filters{})
	if err != nil {
		t.Fatalf("top performers: %v", err)
	}
	if len(out) != 1 || out[0].EmployeeID != "emp-a" {
		t.Fatalf("expected trimmed ranking %+v", out)
	}
}

func TestHourlyActivity(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`EXTRACT\(HOUR FROM recorded_at\)`).
		WithArgs("2025-06-01").
		WillReturnRows(pgxmock.NewRows([]string{"hour", "fixes", "sessions", "employees"}).
			AddRow(9, 120, 4, 3).
			AddRow(17, 80, 2, 2))

	out, err := svc.HourlyActivity(context.Background(), Filters{Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("hourly: %v", err)
	}
	if len(out) != 2 || out[0].Hour != 9 || out[1].Fixes != 80 {
		t.Fatalf("unexpected hourly data %+v", out)
	}
}

func TestQueryErrorPropagates(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, zerolog.Nop())

	mock.ExpectQuery(`GROUP BY employee_id, fix_date`).
		WillReturnError(errAnalytics)

	if _, err := svc.RouteAnalytics(context.Background(), Filters{}); err == nil {
		t.Fatalf("expected error")
	}
}
