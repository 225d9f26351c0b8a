package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/printo/RiderPro-sub006/internal/db"
	"github.com/printo/RiderPro-sub006/internal/geofence"
	"github.com/printo/RiderPro-sub006/internal/shared/geo"
	"github.com/printo/RiderPro-sub006/internal/stream"
)

var (
	ErrInvalidCoordinate = errors.New("latitude/longitude out of range")
	ErrSessionNotActive  = errors.New("session is not active")
)

type Service struct {
	db      db.Querier
	hub     *stream.Hub
	monitor *geofence.Monitor
	log     zerolog.Logger
}

func NewService(db db.Querier, hub *stream.Hub, monitor *geofence.Monitor, log zerolog.Logger) *Service {
	return &Service{db: db, hub: hub, monitor: monitor, log: log}
}

// StartSession creates an active session and arms a return-to-origin
// geofence centered on the start position. Completion candidates and zone
// exits are pushed to the session's live stream.
func (s *Service) StartSession(ctx context.Context, input Session) (Session, error) {
	if !geo.ValidCoordinate(input.StartLatitude, input.StartLongitude) {
		return Session{}, ErrInvalidCoordinate
	}

	input.ID = uuid.NewString()
	if input.StartTime.IsZero() {
		input.StartTime = time.Now()
	}
	input.Status = "active"

	row := s.db.QueryRow(ctx, `
		INSERT INTO route_sessions (id, employee_id, start_time, status, start_latitude, start_longitude)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING start_time, status
	`, input.ID, input.EmployeeID, input.StartTime, input.Status, input.StartLatitude, input.StartLongitude)
	if err := row.Scan(&input.StartTime, &input.Status); err != nil {
		return Session{}, err
	}

	if s.monitor != nil {
		s.monitor.Arm(geofence.Geofence{
			ID:        input.ID,
			SessionID: input.ID,
			CenterLat: input.StartLatitude,
			CenterLng: input.StartLongitude,
			Label:     "return to origin",
		})
		s.monitor.Register(input.ID, s.publishGeofenceEvent)
	}
	return input, nil
}

func (s *Service) publishGeofenceEvent(ev geofence.Event) {
	s.log.Info().
		Str("session_id", ev.SessionID).
		Str("event", string(ev.Type)).
		Float64("distance_m", ev.DistanceM).
		Msg("geofence event")

	if s.hub != nil {
		payload, _ := json.Marshal(ev)
		s.hub.Broadcast(ev.SessionID, payload)
	}

	if ev.Type != geofence.EventCompletionCandidate || s.monitor == nil {
		return
	}
	cfg := s.monitor.ConfigSnapshot()
	if !cfg.AutoDeliver || ev.DistanceM > cfg.AutoDeliverRadiusM {
		return
	}
	if _, err := s.StopSession(context.Background(), ev.SessionID, nil, nil); err != nil {
		s.log.Warn().Err(err).Str("session_id", ev.SessionID).Msg("auto completion failed")
	}
}

// StopSession completes an active session, tears down its geofence and runs
// the analytics back-fill. A back-fill failure is logged, not returned; the
// recalculate endpoint exists to retry it.
func (s *Service) StopSession(ctx context.Context, sessionID string, endLat, endLng *float64) (Session, error) {
	endTime := time.Now()
	tag, err := s.db.Exec(ctx, `
		UPDATE route_sessions
		SET status='completed', end_time=$2, end_latitude=$3, end_longitude=$4
		WHERE id=$1 AND status='active'
	`, sessionID, endTime, endLat, endLng)
	if err != nil {
		return Session{}, err
	}
	if tag.RowsAffected() == 0 {
		return Session{}, ErrSessionNotActive
	}

	if s.monitor != nil {
		s.monitor.Destroy(sessionID)
	}

	if err := s.Recalculate(ctx, sessionID); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("session analytics back-fill failed")
	}

	return s.session(ctx, sessionID)
}

func (s *Service) session(ctx context.Context, sessionID string) (Session, error) {
	var out Session
	row := s.db.QueryRow(ctx, `
		SELECT id, employee_id, start_time, end_time, status,
		       start_latitude, start_longitude, end_latitude, end_longitude,
		       COALESCE(total_distance,0), COALESCE(total_time,0), COALESCE(average_speed,0),
		       COALESCE(fuel_consumed,0), COALESCE(fuel_cost,0), COALESCE(shipments_completed,0)
		FROM route_sessions WHERE id=$1
	`, sessionID)
	err := row.Scan(&out.ID, &out.EmployeeID, &out.StartTime, &out.EndTime, &out.Status,
		&out.StartLatitude, &out.StartLongitude, &out.EndLatitude, &out.EndLongitude,
		&out.TotalDistance, &out.TotalTime, &out.AverageSpeed,
		&out.FuelConsumed, &out.FuelCost, &out.ShipmentsCompleted)
	if err != nil {
		return Session{}, err
	}
	return out, nil
}

// AddFix appends one position to the session's trail, keeps the session's
// running distance current and feeds the geofence monitor.
func (s *Service) AddFix(ctx context.Context, sessionID string, input GPSFix) (GPSFix, error) {
	if !geo.ValidCoordinate(input.Latitude, input.Longitude) {
		return GPSFix{}, ErrInvalidCoordinate
	}
	if input.Timestamp.IsZero() {
		input.Timestamp = time.Now()
	}
	input.SessionID = sessionID
	input.Date = input.Timestamp.Format("2006-01-02")

	var lastLat, lastLng float64
	hasPrev := true
	prevErr := s.db.QueryRow(ctx, `
		SELECT latitude, longitude
		FROM gps_fixes
		WHERE session_id=$1
		ORDER BY recorded_at DESC
		LIMIT 1
	`, sessionID).Scan(&lastLat, &lastLng)
	if prevErr != nil {
		hasPrev = false
		if !errors.Is(prevErr, pgx.ErrNoRows) {
			s.log.Warn().Err(prevErr).Str("session_id", sessionID).Msg("previous fix lookup failed")
		}
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO gps_fixes (session_id, employee_id, latitude, longitude, recorded_at, fix_date, accuracy, speed, event_type, shipment_id, fuel_efficiency, fuel_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at
	`, sessionID, input.EmployeeID, input.Latitude, input.Longitude, input.Timestamp, input.Date,
		input.Accuracy, input.Speed, nullIfEmpty(input.EventType), nullIfEmpty(input.ShipmentID),
		input.FuelEfficiency, input.FuelPrice)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		return GPSFix{}, err
	}

	deltaKm := 0.0
	if hasPrev {
		deltaKm = geo.HaversineKm(lastLat, lastLng, input.Latitude, input.Longitude)
	}

	var startTime time.Time
	var runningKm float64
	err := s.db.QueryRow(ctx, `
		UPDATE route_sessions
		SET total_distance = COALESCE(total_distance,0) + $2
		WHERE id=$1
		RETURNING start_time, total_distance
	`, sessionID, deltaKm).Scan(&startTime, &runningKm)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("running distance update failed")
	}

	if s.hub != nil {
		payload, _ := json.Marshal(input)
		s.hub.Broadcast(sessionID, payload)
	}

	if s.monitor != nil && err == nil {
		s.monitor.Observe(sessionID, geofence.Update{
			Lat:             input.Latitude,
			Lng:             input.Longitude,
			SessionDuration: input.Timestamp.Sub(startTime),
			TotalDistanceKm: runningKm,
			At:              input.Timestamp,
		})
	}

	return input, nil
}

// AddFixBatch attempts each fix independently. One bad fix does not abort
// the rest; callers inspect the counts.
func (s *Service) AddFixBatch(ctx context.Context, sessionID string, fixes []GPSFix) BatchResult {
	var result BatchResult
	for i, fix := range fixes {
		if _, err := s.AddFix(ctx, sessionID, fix); err != nil {
			s.log.Warn().Err(err).
				Str("session_id", sessionID).
				Int("index", i).
				Msg("batch fix rejected")
			result.Failed++
			continue
		}
		result.Success++
	}
	return result
}

func (s *Service) FixesBySession(ctx context.Context, sessionID string) ([]GPSFix, error) {
	return s.queryFixes(ctx, `
		SELECT id, session_id, employee_id, latitude, longitude, recorded_at, fix_date,
		       accuracy, speed, COALESCE(event_type,''), COALESCE(shipment_id,''),
		       fuel_efficiency, fuel_price,
		       COALESCE(total_distance,0), COALESCE(total_time,0), COALESCE(average_speed,0),
		       COALESCE(fuel_consumed,0), COALESCE(fuel_cost,0), COALESCE(shipments_completed,0),
		       created_at
		FROM gps_fixes WHERE session_id=$1
		ORDER BY recorded_at
	`, sessionID)
}

// fixesBySessionUnsorted skips the ORDER BY; the calculator sorts in memory
// and never trusts store order anyway.
func (s *Service) fixesBySessionUnsorted(ctx context.Context, sessionID string) ([]GPSFix, error) {
	return s.queryFixes(ctx, `
		SELECT id, session_id, employee_id, latitude, longitude, recorded_at, fix_date,
		       accuracy, speed, COALESCE(event_type,''), COALESCE(shipment_id,''),
		       fuel_efficiency, fuel_price,
		       COALESCE(total_distance,0), COALESCE(total_time,0), COALESCE(average_speed,0),
		       COALESCE(fuel_consumed,0), COALESCE(fuel_cost,0), COALESCE(shipments_completed,0),
		       created_at
		FROM gps_fixes WHERE session_id=$1
	`, sessionID)
}

func (s *Service) queryFixes(ctx context.Context, sql, sessionID string) ([]GPSFix, error) {
	rows, err := s.db.Query(ctx, sql, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixes []GPSFix
	for rows.Next() {
		var f GPSFix
		if err := rows.Scan(&f.ID, &f.SessionID, &f.EmployeeID, &f.Latitude, &f.Longitude,
			&f.Timestamp, &f.Date, &f.Accuracy, &f.Speed, &f.EventType, &f.ShipmentID,
			&f.FuelEfficiency, &f.FuelPrice,
			&f.TotalDistance, &f.TotalTime, &f.AverageSpeed,
			&f.FuelConsumed, &f.FuelCost, &f.ShipmentsCompleted, &f.CreatedAt); err != nil {
			return nil, err
		}
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}

// Recalculate re-reads the session's full fix set and writes the derived
// aggregates onto every fix row and the session row. Safe to run again;
// every run produces the same values from the same fixes.
func (s *Service) Recalculate(ctx context.Context, sessionID string) error {
	fixes, err := s.fixesBySessionUnsorted(ctx, sessionID)
	if err != nil {
		return err
	}

	agg, ok := ComputeAggregates(fixes)
	if !ok {
		s.log.Debug().Str("session_id", sessionID).Msg("too few fixes, aggregates skipped")
		return nil
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE gps_fixes
		SET total_distance=$2, total_time=$3, average_speed=$4,
		    fuel_consumed=$5, fuel_cost=$6, shipments_completed=$7
		WHERE session_id=$1
	`, sessionID, agg.TotalDistance, agg.TotalTime, agg.AverageSpeed,
		agg.FuelConsumed, agg.FuelCost, agg.ShipmentsCompleted); err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE route_sessions
		SET total_distance=$2, total_time=$3, average_speed=$4,
		    fuel_consumed=$5, fuel_cost=$6, shipments_completed=$7
		WHERE id=$1
	`, sessionID, agg.TotalDistance, agg.TotalTime, agg.AverageSpeed,
		agg.FuelConsumed, agg.FuelCost, agg.ShipmentsCompleted)
	return err
}

func (s *Service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	var out Summary
	row := s.db.QueryRow(ctx, `
		SELECT id, COALESCE(total_distance,0), COALESCE(total_time,0), COALESCE(average_speed,0),
		       COALESCE(fuel_consumed,0), COALESCE(fuel_cost,0), COALESCE(shipments_completed,0)
		FROM route_sessions WHERE id=$1
	`, sessionID)
	if err := row.Scan(&out.SessionID, &out.TotalDistance, &out.TotalTime, &out.AverageSpeed,
		&out.FuelConsumed, &out.FuelCost, &out.ShipmentsCompleted); err != nil {
		return Summary{}, err
	}

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM gps_fixes WHERE session_id=$1`, sessionID).Scan(&out.FixCount); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
