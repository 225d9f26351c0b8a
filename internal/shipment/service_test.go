package shipment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"

	"github.com/printo/RiderPro-sub006/internal/tracking"
)

var errShipment = errors.New("shipment error")

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func shipmentColumns() []string {
	return []string{"id", "tracking_number", "employee_id", "recipient_name", "address",
		"latitude", "longitude", "status", "created_at", "delivered_at"}
}

func TestCreateAssignsTrackingNumber(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, nil, zerolog.Nop())

	mock.ExpectQuery(`INSERT INTO shipments`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "emp-1", "Asha", "12 MG Road",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	out, err := svc.Create(context.Background(), Shipment{EmployeeID: "emp-1", RecipientName: "Asha", Address: "12 MG Road"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.ID == "" || out.TrackingNumber == "" || out.Status != StatusPending {
		t.Fatalf("unexpected shipment %+v", out)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewService(nil, nil, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "ship-1", StatusUpdate{Status: "lost"})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected unknown status, got %v", err)
	}
}

func TestUpdateStatusRecordsDeliveryFix(t *testing.T) {
	mock := newMockPool(t)
	tracks := tracking.NewService(mock, nil, nil, zerolog.Nop())
	svc := NewService(mock, tracks, zerolog.Nop())

	mock.ExpectExec(`UPDATE shipments SET status`).
		WithArgs("ship-1", StatusDelivered, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	delivered := time.Now()
	mock.ExpectQuery(`SELECT id, tracking_number`).
		WithArgs("ship-1").
		WillReturnRows(pgxmock.NewRows(shipmentColumns()).
			AddRow("ship-1", "RP-1", "emp-1", "Asha", "12 MG Road", nil, nil, StatusDelivered, time.Now(), &delivered))

	// the tagged fix lands on the live tracking trail
	mock.ExpectQuery(`SELECT latitude, longitude`).
		WithArgs("sess-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO gps_fixes`).
		WithArgs("sess-1", "emp-1", 12.97, 77.59, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), tracking.EventDelivery, "ship-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))
	mock.ExpectQuery(`SET total_distance = COALESCE`).
		WithArgs("sess-1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"start_time", "total_distance"}).AddRow(time.Now(), 1.2))

	lat, lng := 12.97, 77.59
	out, err := svc.UpdateStatus(context.Background(), "ship-1", StatusUpdate{
		Status: StatusDelivered, SessionID: "sess-1", Latitude: &lat, Longitude: &lng,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if out.Status != StatusDelivered {
		t.Fatalf("unexpected shipment %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusWithoutPositionSkipsFix(t *testing.T) {
	mock := newMockPool(t)
	tracks := tracking.NewService(mock, nil, nil, zerolog.Nop())
	svc := NewService(mock, tracks, zerolog.Nop())

	mock.ExpectExec(`UPDATE shipments SET status`).
		WithArgs("ship-1", StatusPickedUp, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`SELECT id, tracking_number`).
		WithArgs("ship-1").
		WillReturnRows(pgxmock.NewRows(shipmentColumns()).
			AddRow("ship-1", "RP-1", "emp-1", "Asha", "12 MG Road", nil, nil, StatusPickedUp, time.Now(), nil))

	out, err := svc.UpdateStatus(context.Background(), "ship-1", StatusUpdate{Status: StatusPickedUp})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if out.Status != StatusPickedUp {
		t.Fatalf("unexpected shipment %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByEmployee(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, nil, zerolog.Nop())

	mock.ExpectQuery(`FROM shipments WHERE employee_id`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows(shipmentColumns()).
			AddRow("ship-1", "RP-1", "emp-1", "Asha", "12 MG Road", nil, nil, StatusPending, time.Now(), nil).
			AddRow("ship-2", "RP-2", "emp-1", "Ravi", "4 Brigade Road", nil, nil, StatusDelivered, time.Now(), nil))

	out, err := svc.ListByEmployee(context.Background(), "emp-1")
	if err != nil || len(out) != 2 {
		t.Fatalf("list: %v %d", err, len(out))
	}
}

func TestGetError(t *testing.T) {
	mock := newMockPool(t)
	svc := NewService(mock, nil, zerolog.Nop())

	mock.ExpectQuery(`SELECT id, tracking_number`).
		WithArgs("missing").
		WillReturnError(errShipment)

	if _, err := svc.Get(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error")
	}
}
