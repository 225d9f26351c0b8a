package shipment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/printo/RiderPro-sub006/internal/db"
	"github.com/printo/RiderPro-sub006/internal/tracking"
)

var ErrUnknownStatus = errors.New("unknown shipment status")

type Service struct {
	db     db.Querier
	tracks *tracking.Service
	log    zerolog.Logger
}

func NewService(db db.Querier, tracks *tracking.Service, log zerolog.Logger) *Service {
	return &Service{db: db, tracks: tracks, log: log}
}

func (s *Service) Create(ctx context.Context, input Shipment) (Shipment, error) {
	input.ID = uuid.NewString()
	if input.TrackingNumber == "" {
		input.TrackingNumber = fmt.Sprintf("RP-%s", input.ID[:8])
	}
	input.Status = StatusPending

	row := s.db.QueryRow(ctx, `
		INSERT INTO shipments (id, tracking_number, employee_id, recipient_name, address, latitude, longitude, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.TrackingNumber, input.EmployeeID, input.RecipientName, input.Address,
		input.Latitude, input.Longitude, input.Status)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Shipment{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Shipment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, tracking_number, employee_id, recipient_name, address, latitude, longitude, status, created_at, delivered_at
		FROM shipments WHERE id=$1
	`, id)
	var out Shipment
	if err := row.Scan(&out.ID, &out.TrackingNumber, &out.EmployeeID, &out.RecipientName,
		&out.Address, &out.Latitude, &out.Longitude, &out.Status, &out.CreatedAt, &out.DeliveredAt); err != nil {
		return Shipment{}, err
	}
	return out, nil
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]Shipment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, tracking_number, employee_id, recipient_name, address, latitude, longitude, status, created_at, delivered_at
		FROM shipments WHERE employee_id=$1
		ORDER BY created_at DESC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shipment
	for rows.Next() {
		var sh Shipment
		if err := rows.Scan(&sh.ID, &sh.TrackingNumber, &sh.EmployeeID, &sh.RecipientName,
			&sh.Address, &sh.Latitude, &sh.Longitude, &sh.Status, &sh.CreatedAt, &sh.DeliveredAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// UpdateStatus moves the shipment and, when the caller supplies a session
// and position, drops a pickup or delivery fix onto the live trail so the
// session analytics can count the shipment later.
func (s *Service) UpdateStatus(ctx context.Context, id string, up StatusUpdate) (Shipment, error) {
	switch up.Status {
	case StatusPending, StatusPickedUp, StatusDelivered, StatusFailed:
	default:
		return Shipment{}, fmt.Errorf("%w: %q", ErrUnknownStatus, up.Status)
	}

	var deliveredAt *time.Time
	if up.Status == StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	_, err := s.db.Exec(ctx, `
		UPDATE shipments SET status=$2, delivered_at=COALESCE($3, delivered_at) WHERE id=$1
	`, id, up.Status, deliveredAt)
	if err != nil {
		return Shipment{}, err
	}

	out, err := s.Get(ctx, id)
	if err != nil {
		return Shipment{}, err
	}

	if s.tracks != nil && up.SessionID != "" && up.Latitude != nil && up.Longitude != nil {
		eventType := ""
		switch up.Status {
		case StatusPickedUp:
			eventType = tracking.EventPickup
		case StatusDelivered:
			eventType = tracking.EventDelivery
		}
		if eventType != "" {
			_, err := s.tracks.AddFix(ctx, up.SessionID, tracking.GPSFix{
				EmployeeID: out.EmployeeID,
				Latitude:   *up.Latitude,
				Longitude:  *up.Longitude,
				EventType:  eventType,
				ShipmentID: id,
			})
			if err != nil {
				s.log.Warn().Err(err).
					Str("shipment_id", id).
					Str("session_id", up.SessionID).
					Msg("status fix not recorded")
			}
		}
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM shipments WHERE id=$1`, id)
	return err
}
