package geofence

// Config holds the device-level smart-completion settings. It is read on
// every position evaluation, so changes apply to sessions already in flight.
type Config struct {
	RadiusM                   float64 `json:"radius"`
	MinSessionDurationSeconds int     `json:"minSessionDurationSeconds"`
	AutoConfirmDelaySeconds   int     `json:"autoConfirmDelaySeconds"`
	RequireMinDistance        bool    `json:"requireMinDistance"`
	MinDistanceKm             float64 `json:"minDistanceKm"`
	AutoDeliver               bool    `json:"autoDeliver"`
	AutoDeliverRadiusM        float64 `json:"autoDeliverRadius"`
}

func DefaultConfig() Config {
	return Config{
		RadiusM:                   100,
		MinSessionDurationSeconds: 300,
		AutoConfirmDelaySeconds:   10,
		RequireMinDistance:        true,
		MinDistanceKm:             0.5,
		AutoDeliver:               false,
		AutoDeliverRadiusM:        50,
	}
}

// Normalize fills zero or negative knobs with their defaults so a partially
// specified config never disables the duration or radius gates by accident.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.RadiusM <= 0 {
		c.RadiusM = d.RadiusM
	}
	if c.MinSessionDurationSeconds <= 0 {
		c.MinSessionDurationSeconds = d.MinSessionDurationSeconds
	}
	if c.AutoConfirmDelaySeconds <= 0 {
		c.AutoConfirmDelaySeconds = d.AutoConfirmDelaySeconds
	}
	if c.MinDistanceKm <= 0 {
		c.MinDistanceKm = d.MinDistanceKm
	}
	if c.AutoDeliverRadiusM <= 0 {
		c.AutoDeliverRadiusM = d.AutoDeliverRadiusM
	}
	return c
}
