package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vehicle"
)

type Simulator struct {
	metrics     []Metric
	observers   []Observer
	log         *slog.Logger
	vehicleOpts []vehicle.Option
	pool        *SamplePool
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithVehicleOptions passes extra options to every vehicle the simulator builds.
func WithVehicleOptions(opts ...vehicle.Option) Option {
	return func(s *Simulator) { s.vehicleOpts = append(s.vehicleOpts, opts...) }
}

// WithSamplePool draws sample buffers from p; see Result.Release.
func WithSamplePool(p *SamplePool) Option {
	return func(s *Simulator) { s.pool = p }
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run plays sc for cfg.Duration. On cancellation or an invalid state the
// partial result is returned with the error.
func (s *Simulator) Run(ctx context.Context, sc Scenario, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ss, err := s.Open(sc)
	if err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Name:    sc.Name,
		Metrics: make(map[string]float64),
	}
	if cfg.RecordEvery > 0 {
		if s.pool != nil {
			result.Samples = s.pool.Get()
			result.pool = s.pool
		} else {
			result.Samples = make([]Sample, 0, steps/cfg.RecordEvery+1)
		}
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Debug("run started", "scenario", sc.Name, "steps", steps, "dt", cfg.Dt)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, ss)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		sample, err := ss.Step(cfg.Dt, cfg.ValidateState)
		if err != nil {
			s.log.Warn("run aborted", "scenario", sc.Name, "err", err)
			s.finish(result, ss)
			return result, err
		}

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}
		if cfg.RecordEvery > 0 && i%cfg.RecordEvery == 0 {
			result.Samples = append(result.Samples, sample)
		}
	}

	s.finish(result, ss)
	s.log.Debug("run finished", "scenario", sc.Name, "steps", result.StepsTaken, "shifts", len(result.Shifts))
	return result, nil
}

func (s *Simulator) finish(result *Result, ss *Session) {
	result.StepsTaken = ss.Steps()
	result.Shifts = ss.Shifts()
	result.Final = ss.Vehicle.View()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Validate checks the run settings against the tick loop limits.
func (cfg Config) Validate() error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Dt > vehicle.MaxSuspensionDt {
		return fmt.Errorf("%w: dt %f exceeds the suspension step limit %f", dynamo.ErrInvalidConfig, cfg.Dt, vehicle.MaxSuspensionDt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("%w: record_every must not be negative", dynamo.ErrInvalidConfig)
	}
	return nil
}
