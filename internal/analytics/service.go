package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/printo/RiderPro-sub006/internal/db"
)

// Service answers report queries over the denormalized fix data. It never
// recomputes raw GPS; it trusts the aggregates the session back-fill wrote.
type Service struct {
	db  db.Querier
	log zerolog.Logger
}

func NewService(db db.Querier, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// sessionStats collapses the per-fix denormalization back to one row per
// session. Every fix of a session carries identical aggregates, so MAX just
// picks the shared value.
const sessionStatsCTE = `
	WITH session_stats AS (
		SELECT session_id, employee_id, fix_date,
		       MAX(total_distance) AS total_distance,
		       MAX(total_time) AS total_time,
		       MAX(average_speed) AS average_speed,
		       MAX(fuel_consumed) AS fuel_consumed,
		       MAX(fuel_cost) AS fuel_cost,
		       MAX(shipments_completed) AS shipments_completed
		FROM gps_fixes
		%s
		GROUP BY session_id, employee_id, fix_date
	)
`

func (s *Service) RouteAnalytics(ctx context.Context, f Filters) ([]RouteAnalytics, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	where, args := f.whereClause()

	sql := fmt.Sprintf(sessionStatsCTE, where) + `
	SELECT employee_id, fix_date, COUNT(*),
	       COALESCE(SUM(total_distance),0), COALESCE(SUM(total_time),0), COALESCE(AVG(average_speed),0),
	       COALESCE(SUM(fuel_consumed),0), COALESCE(SUM(fuel_cost),0), COALESCE(SUM(shipments_completed),0)
	FROM session_stats
	GROUP BY employee_id, fix_date
	ORDER BY fix_date, employee_id`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RouteAnalytics
	for rows.Next() {
		var r RouteAnalytics
		if err := rows.Scan(&r.EmployeeID, &r.Date, &r.Sessions,
			&r.TotalDistance, &r.TotalTime, &r.AverageSpeed,
			&r.FuelConsumed, &r.FuelCost, &r.ShipmentsCompleted); err != nil {
			return nil, err
		}
		r.Efficiency = safeDiv(r.TotalDistance, float64(r.ShipmentsCompleted))
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Service) EmployeePerformance(ctx context.Context, f Filters) ([]EmployeePerformance, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	where, args := f.whereClause()

	sql := fmt.Sprintf(sessionStatsCTE, where) + `
	SELECT employee_id, COUNT(DISTINCT fix_date), COUNT(*),
	       COALESCE(SUM(total_distance),0), COALESCE(SUM(total_time),0), COALESCE(AVG(average_speed),0),
	       COALESCE(SUM(fuel_consumed),0), COALESCE(SUM(fuel_cost),0), COALESCE(SUM(shipments_completed),0)
	FROM session_stats
	GROUP BY employee_id
	ORDER BY SUM(total_distance) DESC`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeePerformance
	for rows.Next() {
		var p EmployeePerformance
		if err := rows.Scan(&p.EmployeeID, &p.WorkingDays, &p.Sessions,
			&p.TotalDistance, &p.TotalTime, &p.AverageSpeed,
			&p.FuelConsumed, &p.FuelCost, &p.ShipmentsCompleted); err != nil {
			return nil, err
		}
		p.Efficiency = safeDiv(p.TotalDistance, float64(p.ShipmentsCompleted))
		p.AverageDistancePerDay = safeDiv(p.TotalDistance, float64(p.WorkingDays))
		p.AverageShipmentsPerDay = safeDiv(float64(p.ShipmentsCompleted), float64(p.WorkingDays))
		out = append(out, p)
	}
	return out, rows.Err()
}

// TimeBased groups session stats into day, ISO week or month buckets.
func (s *Service) TimeBased(ctx context.Context, groupBy string, f Filters) ([]TimeBucket, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var bucket string
	switch groupBy {
	case "day":
		bucket = `to_char(fix_date, 'YYYY-MM-DD')`
	case "week":
		bucket = `to_char(fix_date, 'IYYY-"W"IW')`
	case "month":
		bucket = `to_char(fix_date, 'YYYY-MM')`
	default:
		return nil, fmt.Errorf("%w: groupBy must be day, week or month", ErrInvalidFilters)
	}

	where, args := f.whereClause()
	sql := fmt.Sprintf(sessionStatsCTE, where) + fmt.Sprintf(`
	SELECT %s AS period, COUNT(DISTINCT employee_id), COUNT(DISTINCT session_id),
	       COALESCE(SUM(total_distance),0), COALESCE(SUM(total_time),0),
	       COALESCE(SUM(fuel_consumed),0), COALESCE(SUM(fuel_cost),0), COALESCE(SUM(shipments_completed),0)
	FROM session_stats
	GROUP BY period
	ORDER BY period`, bucket)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TimeBucket
	for rows.Next() {
		var b TimeBucket
		if err := rows.Scan(&b.Period, &b.ActiveEmployees, &b.TotalSessions,
			&b.TotalDistance, &b.TotalTime,
			&b.FuelConsumed, &b.FuelCost, &b.ShipmentsCompleted); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Fuel builds the fuel report. Sessions without fuel data are excluded
// rather than dragging the averages toward zero.
func (s *Service) Fuel(ctx context.Context, f Filters) (FuelAnalytics, error) {
	if err := f.Validate(); err != nil {
		return FuelAnalytics{}, err
	}
	where, args := f.whereClause()

	var out FuelAnalytics
	sumSQL := fmt.Sprintf(sessionStatsCTE, where) + `
	SELECT COALESCE(SUM(fuel_consumed),0), COALESCE(SUM(fuel_cost),0), COALESCE(SUM(total_distance),0)
	FROM session_stats
	WHERE fuel_consumed > 0`
	if err := s.db.QueryRow(ctx, sumSQL, args...).
		Scan(&out.TotalFuelConsumed, &out.TotalFuelCost, &out.TotalDistance); err != nil {
		return FuelAnalytics{}, err
	}

	avgWhere := "WHERE fuel_consumed > 0"
	if where != "" {
		avgWhere = where + " AND fuel_consumed > 0"
	}
	avgSQL := `
	SELECT COALESCE(AVG(fuel_efficiency),0), COALESCE(AVG(fuel_price),0)
	FROM gps_fixes ` + avgWhere
	if err := s.db.QueryRow(ctx, avgSQL, args...).
		Scan(&out.AverageFuelEfficiency, &out.AverageFuelPrice); err != nil {
		return FuelAnalytics{}, err
	}

	empSQL := fmt.Sprintf(sessionStatsCTE, where) + `
	SELECT employee_id, COALESCE(SUM(fuel_consumed),0), COALESCE(SUM(fuel_cost),0), COALESCE(SUM(total_distance),0)
	FROM session_stats
	WHERE fuel_consumed > 0
	GROUP BY employee_id
	ORDER BY SUM(fuel_consumed) DESC`
	rows, err := s.db.Query(ctx, empSQL, args...)
	if err != nil {
		return FuelAnalytics{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var b FuelEmployeeBreakdown
		if err := rows.Scan(&b.EmployeeID, &b.FuelConsumed, &b.FuelCost, &b.TotalDistance); err != nil {
			return FuelAnalytics{}, err
		}
		out.ByEmployee = append(out.ByEmployee, b)
	}
	if err := rows.Err(); err != nil {
		return FuelAnalytics{}, err
	}

	vehSQL := fmt.Sprintf(sessionStatsCTE, where) + `
	SELECT COALESCE(e.vehicle_type,'unknown'), COALESCE(SUM(s.fuel_consumed),0), COALESCE(SUM(s.fuel_cost),0), COALESCE(SUM(s.total_distance),0)
	FROM session_stats s
	LEFT JOIN employees e ON e.id = s.employee_id
	WHERE s.fuel_consumed > 0
	GROUP BY e.vehicle_type
	ORDER BY SUM(s.fuel_consumed) DESC`
	vrows, err := s.db.Query(ctx, vehSQL, args...)
	if err != nil {
		return FuelAnalytics{}, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var b FuelVehicleBreakdown
		if err := vrows.Scan(&b.VehicleType, &b.FuelConsumed, &b.FuelCost, &b.TotalDistance); err != nil {
			return FuelAnalytics{}, err
		}
		out.ByVehicleType = append(out.ByVehicleType, b)
	}
	return out, vrows.Err()
}

// TopPerformers ranks employees descending. Every metric reads higher as
// better: summed distance, distance per shipment, or distance per liter.
func (s *Service) TopPerformers(ctx context.Context, metric string, limit int, f Filters) ([]TopPerformer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch metric {
	case "distance", "efficiency", "fuel":
	default:
		return nil, fmt.Errorf("%w: metric must be distance, efficiency or fuel", ErrInvalidFilters)
	}
	if limit <= 0 {
		limit = 10
	}

	where, args := f.whereClause()
	sql := fmt.Sprintf(sessionStatsCTE, where) + `
	SELECT employee_id,
	       COALESCE(SUM(total_distance),0), COALESCE(SUM(shipments_completed),0), COALESCE(SUM(fuel_consumed),0)
	FROM session_stats
	GROUP BY employee_id`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var performers []TopPerformer
	for rows.Next() {
		var p TopPerformer
		if err := rows.Scan(&p.EmployeeID, &p.TotalDistance, &p.ShipmentsCompleted, &p.FuelConsumed); err != nil {
			return nil, err
		}
		switch metric {
		case "distance":
			p.Value = p.TotalDistance
		case "efficiency":
			p.Value = safeDiv(p.TotalDistance, float64(p.ShipmentsCompleted))
		case "fuel":
			p.Value = safeDiv(p.TotalDistance, p.FuelConsumed)
		}
		performers = append(performers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].Value > performers[j].Value
	})
	if len(performers) > limit {
		performers = performers[:limit]
	}
	return performers, nil
}

func (s *Service) HourlyActivity(ctx context.Context, f Filters) ([]HourlyActivity, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	where, args := f.whereClause()

	sql := `
	SELECT EXTRACT(HOUR FROM recorded_at)::int AS hour,
	       COUNT(*), COUNT(DISTINCT session_id), COUNT(DISTINCT employee_id)
	FROM gps_fixes
	` + where + `
	GROUP BY hour
	ORDER BY hour`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HourlyActivity
	for rows.Next() {
		var h HourlyActivity
		if err := rows.Scan(&h.Hour, &h.Fixes, &h.Sessions, &h.Employees); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// safeDiv substitutes 0 for any empty denominator so reports never carry
// NaN or Inf.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
