package geofence

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/printo/RiderPro-sub006/internal/shared/geo"
)

type State string

const (
	StateNoGeofence State = "NO_GEOFENCE"
	StateArmed      State = "ARMED"
	StateInZone     State = "IN_ZONE"
	StateDestroyed  State = "DESTROYED"
)

type EventType string

const (
	// EventCompletionCandidate fires on zone entry once both the session
	// duration and (when required) distance gates hold.
	EventCompletionCandidate EventType = "completion_candidate"
	EventExit                EventType = "exit"
)

type Event struct {
	Type       EventType `json:"type"`
	GeofenceID string    `json:"geofenceId"`
	SessionID  string    `json:"sessionId"`
	DistanceM  float64   `json:"distanceM"`
	At         time.Time `json:"at"`
}

// Geofence is an ephemeral circular zone centered on a session's start
// position. It lives only in the monitor; nothing is persisted.
type Geofence struct {
	ID        string
	SessionID string
	CenterLat float64
	CenterLng float64
	RadiusM   float64
	Label     string
}

type Listener func(Event)

// Update is one observed position for a live geofence, together with the
// session facts the completion gates are evaluated against.
type Update struct {
	Lat             float64
	Lng             float64
	SessionDuration time.Duration
	TotalDistanceKm float64
	At              time.Time
}

type zone struct {
	Geofence
	state    State
	listener Listener
}

// Monitor tracks every live geofence and runs the completion state machine
// on each position update. Updates for unknown or destroyed geofences are
// dropped without error since sessions can end with a fix still in flight.
type Monitor struct {
	mu    sync.Mutex
	cfg   Config
	zones map[string]*zone
	log   zerolog.Logger
}

func NewMonitor(cfg Config, log zerolog.Logger) *Monitor {
	return &Monitor{
		cfg:   cfg.Normalize(),
		zones: map[string]*zone{},
		log:   log,
	}
}

// SetConfig replaces the smart-completion settings. A radius change is
// applied in place to every live geofence without resetting its state.
func (m *Monitor) SetConfig(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg = cfg.Normalize()
	if cfg.RadiusM != m.cfg.RadiusM {
		for _, z := range m.zones {
			z.RadiusM = cfg.RadiusM
		}
	}
	m.cfg = cfg
}

func (m *Monitor) ConfigSnapshot() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Arm creates a geofence and moves it to ARMED. Without a usable center the
// monitor stays in NO_GEOFENCE and the caller is not interrupted.
func (m *Monitor) Arm(gf Geofence) {
	if !geo.ValidCoordinate(gf.CenterLat, gf.CenterLng) {
		m.log.Warn().
			Str("geofence_id", gf.ID).
			Str("session_id", gf.SessionID).
			Msg("geofence not armed: invalid center")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gf.RadiusM <= 0 {
		gf.RadiusM = m.cfg.RadiusM
	}
	m.zones[gf.ID] = &zone{Geofence: gf, state: StateArmed}
}

// Register attaches the listener for a geofence id, replacing any previous
// one so re-registration never stacks duplicate callbacks.
func (m *Monitor) Register(geofenceID string, fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if z, ok := m.zones[geofenceID]; ok {
		z.listener = fn
	}
}

func (m *Monitor) UpdateRadius(geofenceID string, radiusM float64) {
	if radiusM <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if z, ok := m.zones[geofenceID]; ok {
		z.RadiusM = radiusM
	}
}

func (m *Monitor) StateOf(geofenceID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if z, ok := m.zones[geofenceID]; ok {
		return z.state
	}
	return StateNoGeofence
}

// Destroy ends monitoring for a geofence and drops its listener. Later
// updates for the id are silently ignored.
func (m *Monitor) Destroy(geofenceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if z, ok := m.zones[geofenceID]; ok {
		z.state = StateDestroyed
		z.listener = nil
		delete(m.zones, geofenceID)
	}
}

func (m *Monitor) DestroyAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, z := range m.zones {
		z.state = StateDestroyed
		z.listener = nil
		delete(m.zones, id)
	}
}

// Observe runs one position update through the state machine. The listener,
// when one fires, is invoked synchronously outside the monitor lock.
func (m *Monitor) Observe(geofenceID string, up Update) {
	m.mu.Lock()
	z, ok := m.zones[geofenceID]
	if !ok {
		m.mu.Unlock()
		return
	}

	distM := geo.HaversineKm(up.Lat, up.Lng, z.CenterLat, z.CenterLng) * 1000
	inside := distM <= z.RadiusM

	var ev *Event
	switch {
	case z.state == StateArmed && inside:
		z.state = StateInZone
		if m.gatesHold(up) {
			ev = &Event{
				Type:       EventCompletionCandidate,
				GeofenceID: z.ID,
				SessionID:  z.SessionID,
				DistanceM:  distM,
				At:         up.At,
			}
		} else {
			m.log.Debug().
				Str("geofence_id", z.ID).
				Str("session_id", z.SessionID).
				Dur("session_duration", up.SessionDuration).
				Float64("total_distance_km", up.TotalDistanceKm).
				Msg("zone entry below completion thresholds")
		}
	case z.state == StateInZone && !inside:
		z.state = StateArmed
		ev = &Event{
			Type:       EventExit,
			GeofenceID: z.ID,
			SessionID:  z.SessionID,
			DistanceM:  distM,
			At:         up.At,
		}
	}
	listener := z.listener
	m.mu.Unlock()

	if ev != nil && listener != nil {
		listener(*ev)
	}
}

func (m *Monitor) gatesHold(up Update) bool {
	if up.SessionDuration < time.Duration(m.cfg.MinSessionDurationSeconds)*time.Second {
		return false
	}
	if m.cfg.RequireMinDistance && up.TotalDistanceKm < m.cfg.MinDistanceKm {
		return false
	}
	return true
}
