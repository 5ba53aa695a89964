package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/control"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vehicle"
	"github.com/san-kum/trackdyn/internal/vmath"
)

func throttleScenario(preset string) Scenario {
	return Scenario{
		Name:    preset,
		Vehicle: config.GetPreset(preset),
		Driver:  control.NewScript(control.Keyframe{At: 0, Input: control.Input{Throttle: 1}}),
		Settle:  0.5,
	}
}

func TestSimulatorRun(t *testing.T) {
	sim := New()

	cfg := Config{Dt: 1.0 / 60, Duration: 4, RecordEvery: 1, ValidateState: true}
	result, err := sim.Run(context.Background(), throttleScenario("tank"), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 240 {
		t.Errorf("expected 240 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 240 {
		t.Errorf("expected 240 steps, got %d", result.StepsTaken)
	}
	for i := 1; i < len(result.Samples); i++ {
		if result.Samples[i].Time <= result.Samples[i-1].Time {
			t.Fatalf("sample times not increasing at %d", i)
		}
	}
	if result.Final.ForwardSpeed <= 0 {
		t.Errorf("expected forward motion, got %.2f cm/s", result.Final.ForwardSpeed)
	}
	if len(result.Shifts) == 0 {
		t.Error("expected at least one gear event")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"dt above suspension limit", Config{Dt: 0.5, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.01, Duration: 0}},
		{"negative duration", Config{Dt: 0.01, Duration: -1.0}},
		{"negative record interval", Config{Dt: 0.01, Duration: 1, RecordEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), throttleScenario("tank"), tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	_, err := sim.Run(context.Background(), Scenario{Name: "empty"}, DefaultConfig())
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a missing vehicle, got %v", err)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s Sample) {
	t.count++
	t.sum += s.Speed
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sim := New()

	metric := &testMetric{}
	sim.AddMetric(metric)
	seen := 0
	sim.AddObserver(ObserverFunc(func(Sample) { seen++ }))

	cfg := Config{Dt: 0.01, Duration: 1.0, RecordEvery: 10}
	result, err := sim.Run(context.Background(), throttleScenario("tank"), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 100 {
		t.Errorf("expected 100 observations, got %d", metric.count)
	}
	if seen != 100 {
		t.Errorf("expected 100 observer calls, got %d", seen)
	}
	if len(result.Samples) != 10 {
		t.Errorf("expected 10 recorded samples, got %d", len(result.Samples))
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, throttleScenario("tank"), DefaultConfig())
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected the context error to be wrapped, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected an empty partial result, got %+v", result)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	poison := func(m *vehicle.Movement) {
		m.Body().SetLinearVelocity(vmath.Vec3{math.NaN(), 0, 0})
	}
	sim := New(WithVehicleOptions(poison))

	_, err := sim.Run(context.Background(), throttleScenario("tank"), DefaultConfig())
	var tickErr *dynamo.TickError
	if !errors.As(err, &tickErr) {
		t.Fatalf("expected a TickError, got %v", err)
	}
	if tickErr.Step != 0 {
		t.Errorf("expected failure on the first tick, got step %d", tickErr.Step)
	}
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestSpawnHeight(t *testing.T) {
	if got := SpawnHeight(config.DefaultConfig()); math.Abs(got-96) > 1e-9 {
		t.Errorf("SpawnHeight = %v, want 96", got)
	}
}

func TestSessionReset(t *testing.T) {
	sc := throttleScenario("tank")
	sc.Start = vmath.Vec3{100, 200, 0}
	sc.Yaw = 90

	ss, err := New().Open(sc)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		if _, err := ss.Step(1.0/60, true); err != nil {
			t.Fatal(err)
		}
	}

	ss.Reset()
	loc := ss.Body.Transform().Location
	if loc.X() != 100 || loc.Y() != 200 {
		t.Errorf("reset should respawn at the start, got %v", loc)
	}
	if ss.Vehicle.EngineRPM() != 0 || len(ss.Shifts()) != 0 {
		t.Error("reset should clear the vehicle")
	}
	s := SampleOf(ss.Vehicle)
	if math.Abs(s.Yaw-90) > 1e-6 {
		t.Errorf("yaw = %v, want 90", s.Yaw)
	}
}

func TestEnsemble(t *testing.T) {
	scenarios := []Scenario{throttleScenario("tank"), throttleScenario("apc"), throttleScenario("car")}
	ens := NewEnsemble(New(), scenarios).WithMetrics(func() []Metric {
		return []Metric{&testMetric{}}
	})

	cfg := Config{Dt: 0.01, Duration: 1, RecordEvery: 1, ValidateState: true}
	results, err := ens.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Name != scenarios[i].Name {
			t.Errorf("result %d is %q, want %q", i, r.Name, scenarios[i].Name)
		}
		if r.StepsTaken != 100 {
			t.Errorf("%s: expected 100 steps, got %d", r.Name, r.StepsTaken)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("%s: missing metric", r.Name)
		}
	}
}

func TestOpenAppliesParams(t *testing.T) {
	sc := throttleScenario("tank")
	sc.Params = map[string]float64{"boost": 1.5, "brake_force": 0.5}

	ss, err := New().Open(sc)
	if err != nil {
		t.Fatal(err)
	}
	params := ss.Vehicle.GetParams()
	if params["boost"] != 1.5 || params["brake_force"] != 0.5 {
		t.Errorf("params not applied: %v", params)
	}

	sc.Params = map[string]float64{"warp_drive": 1}
	if _, err := New().Open(sc); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
