package shipment

import "time"

type Shipment struct {
	ID             string     `json:"id"`
	TrackingNumber string     `json:"trackingNumber"`
	EmployeeID     string     `json:"employeeId"`
	RecipientName  string     `json:"recipientName"`
	Address        string     `json:"address"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

const (
	StatusPending   = "pending"
	StatusPickedUp  = "picked_up"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// StatusUpdate optionally carries the rider's position so the transition is
// recorded as a tagged fix on the active tracking session.
type StatusUpdate struct {
	Status    string   `json:"status"`
	SessionID string   `json:"sessionId,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
