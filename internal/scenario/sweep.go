package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/trackdyn/internal/analysis"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/metrics"
	"github.com/san-kum/trackdyn/internal/sim"
)

// SettleTolerance is the suspension band, cm, used to find the settle length.
const SettleTolerance = 0.05

// ParameterSweep runs the same scenario once per value of one vehicle
// parameter, all runs concurrently.
type ParameterSweep struct {
	Param string
	From  float64
	To    float64
	Steps int
}

// SweepPoint summarizes one run of a sweep.
type SweepPoint struct {
	Value    float64
	TopSpeed float64
	// SettleLength is the mean suspension length the run came to rest at.
	SettleLength float64
	Settled      bool
	Metrics      map[string]float64
}

// Values returns Steps evenly spaced values from From to To inclusive.
func (p ParameterSweep) Values() []float64 {
	if p.Steps <= 1 {
		return []float64{p.From}
	}
	out := make([]float64, p.Steps)
	step := (p.To - p.From) / float64(p.Steps-1)
	for i := range out {
		out[i] = p.From + step*float64(i)
	}
	return out
}

func (p ParameterSweep) validate() error {
	if p.Param == "" {
		return fmt.Errorf("%w: sweep needs a parameter", dynamo.ErrInvalidConfig)
	}
	if p.Steps < 1 {
		return fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	if math.IsNaN(p.From) || math.IsNaN(p.To) {
		return fmt.Errorf("%w: sweep range is not a number", dynamo.ErrInvalidConfig)
	}
	return nil
}

// Run sweeps base. Samples are drawn from one pool and released once each
// run is summarized.
func (p ParameterSweep) Run(ctx context.Context, base *File, opts ...sim.Option) ([]SweepPoint, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	cfg, err := base.VehicleConfig()
	if err != nil {
		return nil, err
	}

	values := p.Values()
	scenarios := make([]sim.Scenario, len(values))
	for i, v := range values {
		sc, err := base.build(cfg)
		if err != nil {
			return nil, err
		}
		sc.Name = fmt.Sprintf("%s[%s=%g]", base.Name, p.Param, v)
		sc.Params[p.Param] = v
		scenarios[i] = sc
	}

	simCfg := base.Sim
	if simCfg.RecordEvery <= 0 {
		simCfg.RecordEvery = 1
	}
	steps := int(math.Round(simCfg.Duration/simCfg.Dt)) / simCfg.RecordEvery
	pool := sim.NewSamplePool(steps + 1)

	s := sim.New(append(opts, sim.WithSamplePool(pool))...)
	results, err := sim.NewEnsemble(s, scenarios).WithMetrics(func() []sim.Metric {
		return metrics.Standard(cfg)
	}).Run(ctx, simCfg)
	if err != nil {
		for _, r := range results {
			if r != nil {
				r.Release()
			}
		}
		return nil, err
	}

	points := make([]SweepPoint, len(results))
	for i, r := range results {
		points[i] = summarize(values[i], r)
		r.Release()
	}
	return points, nil
}

func summarize(value float64, r *sim.Result) SweepPoint {
	pt := SweepPoint{
		Value:    value,
		TopSpeed: r.Metrics["top_speed"],
		Metrics:  r.Metrics,
	}
	_, susp, _ := sim.Series(r.Samples, "suspension")
	settle := analysis.Settling(susp, SettleTolerance)
	pt.SettleLength = settle.Value
	pt.Settled = settle.Settled
	return pt
}

// Best returns the point with the lowest value of metric, or the highest
// when maximize is set. ok is false when no point carries the metric.
func Best(points []SweepPoint, metric string, maximize bool) (best SweepPoint, ok bool) {
	for _, pt := range points {
		v, has := pt.Metrics[metric]
		if !has {
			continue
		}
		if !ok {
			best, ok = pt, true
			continue
		}
		cur := best.Metrics[metric]
		if (maximize && v > cur) || (!maximize && v < cur) {
			best = pt
		}
	}
	return best, ok
}
