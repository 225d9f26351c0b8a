package tracking

import (
	"math"
	"sort"
	"time"

	"github.com/printo/RiderPro-sub006/internal/shared/geo"
)

const (
	defaultFuelEfficiencyKmPerL = 15.0
	defaultFuelPricePerL        = 1.5
)

// ComputeAggregates derives the session-level metrics from its raw fixes.
// Returns false when fewer than two fixes exist; a single fix cannot yield
// distance or speed and the session keeps zero aggregates.
func ComputeAggregates(fixes []GPSFix) (SessionAggregates, bool) {
	if len(fixes) < 2 {
		return SessionAggregates{}, false
	}

	sorted := make([]GPSFix, len(fixes))
	copy(sorted, fixes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	totalKm := 0.0
	for i := 1; i < len(sorted); i++ {
		totalKm += geo.HaversineKm(
			sorted[i-1].Latitude, sorted[i-1].Longitude,
			sorted[i].Latitude, sorted[i].Longitude,
		)
	}

	span := sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp)
	totalSec := int64(span / time.Second)
	if totalSec < 1 {
		totalSec = 1
	}
	avgSpeed := totalKm / (float64(totalSec) / 3600)

	shipments := map[string]struct{}{}
	for _, f := range sorted {
		if f.ShipmentID == "" {
			continue
		}
		if f.EventType == EventPickup || f.EventType == EventDelivery {
			shipments[f.ShipmentID] = struct{}{}
		}
	}

	// Fuel settings ride on the earliest fix; later fixes never override.
	efficiency := defaultFuelEfficiencyKmPerL
	price := defaultFuelPricePerL
	if v := sorted[0].FuelEfficiency; v != nil && *v > 0 {
		efficiency = *v
	}
	if v := sorted[0].FuelPrice; v != nil && *v > 0 {
		price = *v
	}

	fuelConsumed := totalKm / efficiency
	fuelCost := fuelConsumed * price

	return SessionAggregates{
		TotalDistance:      roundTo(totalKm, 3),
		TotalTime:          totalSec,
		AverageSpeed:       roundTo(avgSpeed, 2),
		FuelConsumed:       roundTo(fuelConsumed, 2),
		FuelCost:           roundTo(fuelCost, 2),
		ShipmentsCompleted: len(shipments),
	}, true
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
