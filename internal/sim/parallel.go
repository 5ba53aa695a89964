package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent scenarios concurrently, one goroutine each.
// Every run gets its own world, body, vehicle and metrics.
type Ensemble struct {
	base       *Simulator
	scenarios  []Scenario
	newMetrics func() []Metric
}

// NewEnsemble runs scenarios with the logger, vehicle options and pool of s.
// Metrics added to s are not shared; use WithMetrics.
func NewEnsemble(s *Simulator, scenarios []Scenario) *Ensemble {
	return &Ensemble{base: s, scenarios: scenarios}
}

// WithMetrics sets a factory called once per run.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.newMetrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.scenarios))
	errs := make([]error, len(e.scenarios))

	var wg sync.WaitGroup
	for i := range e.scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim := &Simulator{
				log:         e.base.log,
				vehicleOpts: e.base.vehicleOpts,
				pool:        e.base.pool,
			}
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, e.scenarios[idx], cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
