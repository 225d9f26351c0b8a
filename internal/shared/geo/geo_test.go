package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Bangalore city center to airport is roughly 32 km as the crow flies
	d := HaversineKm(12.9716, 77.5946, 13.1986, 77.7066)
	if d < 25 || d > 40 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmIdenticalPoints(t *testing.T) {
	assert.InDelta(t, 0, HaversineKm(12.97, 77.59, 12.97, 77.59), 1e-9)
}

func TestHaversineKmSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 0, 0.01},
		{12.97, 77.59, 12.98, 77.60},
		{-33.87, 151.21, 51.5, -0.12},
		{89.9, 10, -89.9, -170},
	}
	for _, p := range pairs {
		ab := HaversineKm(p[0], p[1], p[2], p[3])
		ba := HaversineKm(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestHaversineKmEquatorDegree(t *testing.T) {
	// 0.01 degrees of longitude at the equator is ~1.11 km
	d := HaversineKm(0, 0, 0, 0.01)
	assert.InDelta(t, 1.11, d, 0.02)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.False(t, ValidCoordinate(200, 0))
	assert.False(t, ValidCoordinate(0, -181))
	assert.False(t, ValidCoordinate(91, 0))
}
