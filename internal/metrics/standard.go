package metrics

import (
	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/sim"
)

// DefaultTargetSpeed is the TimeToSpeed target of Standard, cm/s (36 km/h).
const DefaultTargetSpeed = 1000.0

// Standard returns a fresh copy of the metrics every run reports.
func Standard(cfg *config.Vehicle) []sim.Metric {
	return []sim.Metric{
		NewTopSpeed(),
		NewTimeToSpeed(DefaultTargetSpeed),
		NewShiftCount(),
		NewBrakeEnergy(),
		NewMaxCompression(MeanLength(cfg)),
		NewGroundContact(len(cfg.Suspension.Wheels) / 2),
	}
}
