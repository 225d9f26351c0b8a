package tracking

import "time"

type Session struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Status         string     `json:"status"`
	StartLatitude  float64    `json:"startLatitude"`
	StartLongitude float64    `json:"startLongitude"`
	EndLatitude    *float64   `json:"endLatitude,omitempty"`
	EndLongitude   *float64   `json:"endLongitude,omitempty"`

	TotalDistance      float64 `json:"totalDistance"`
	TotalTime          int64   `json:"totalTime"`
	AverageSpeed       float64 `json:"averageSpeed"`
	FuelConsumed       float64 `json:"fuelConsumed"`
	FuelCost           float64 `json:"fuelCost"`
	ShipmentsCompleted int     `json:"shipmentsCompleted"`
}

type GPSFix struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	EmployeeID string    `json:"employeeId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Timestamp  time.Time `json:"timestamp"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	EventType  string    `json:"eventType,omitempty"`
	ShipmentID string    `json:"shipmentId,omitempty"`
	Date       string    `json:"date"`

	// Device fuel settings captured with the fix. The calculator reads them
	// from the session's earliest fix only.
	FuelEfficiency *float64 `json:"fuelEfficiency,omitempty"`
	FuelPrice      *float64 `json:"fuelPrice,omitempty"`

	// Session aggregates back-filled onto every fix once the session
	// completes. Identical across all fixes of one session.
	TotalDistance      float64 `json:"totalDistance"`
	TotalTime          int64   `json:"totalTime"`
	AverageSpeed       float64 `json:"averageSpeed"`
	FuelConsumed       float64 `json:"fuelConsumed"`
	FuelCost           float64 `json:"fuelCost"`
	ShipmentsCompleted int     `json:"shipmentsCompleted"`

	CreatedAt time.Time `json:"createdAt"`
}

const (
	EventGPS      = "gps"
	EventPickup   = "pickup"
	EventDelivery = "delivery"
)

type BatchResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type SessionAggregates struct {
	TotalDistance      float64 `json:"totalDistance"`
	TotalTime          int64   `json:"totalTime"`
	AverageSpeed       float64 `json:"averageSpeed"`
	FuelConsumed       float64 `json:"fuelConsumed"`
	FuelCost           float64 `json:"fuelCost"`
	ShipmentsCompleted int     `json:"shipmentsCompleted"`
}

type Summary struct {
	SessionID string `json:"sessionId"`
	FixCount  int    `json:"fixCount"`
	SessionAggregates
}
