package control

import (
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

func TestNone(t *testing.T) {
	if in := NewNone().Compute(Status{}, 1); in != (Input{}) {
		t.Errorf("expected empty input, got %+v", in)
	}
}

func TestManual(t *testing.T) {
	ctrl := NewManual()
	ctrl.Set(Input{Throttle: 0.5})
	ctrl.Update(func(in *Input) { in.Steering = -1 })

	got := ctrl.Compute(Status{}, 0)
	if got.Throttle != 0.5 || got.Steering != -1 {
		t.Errorf("unexpected input %+v", got)
	}
}

func TestPIDStep(t *testing.T) {
	p := NewPID(2, 0.5, 1, -1, 1)

	if got := p.Step(0.8, 0.2); math.Abs(got-1.8) > 1e-12 {
		t.Errorf("first step = %v, want 1.8", got)
	}
	if got := p.Step(0.8, 0.3); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("second step = %v, want 2.0", got)
	}
	if p.ErrorSum() != 1 {
		t.Errorf("error sum should clamp at 1, got %v", p.ErrorSum())
	}

	p.Reset()
	if p.ErrorSum() != 0 {
		t.Error("reset should clear the error sum")
	}
}

func TestPIDParams(t *testing.T) {
	p := NewPID(1, 0, 0, -1, 1)
	if err := p.SetParam("kd", 3); err != nil {
		t.Fatal(err)
	}
	if p.GetParams()["kd"] != 3 {
		t.Error("kd not applied")
	}
	if err := p.SetParam("gain", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestScriptTimeline(t *testing.T) {
	s := NewScript(
		Keyframe{At: 1, Input: Input{Throttle: 1}},
		Keyframe{At: 0, Input: Input{Steering: 0.5}},
	)

	tests := []struct {
		t    float64
		want Input
	}{
		{-1, Input{}},
		{0, Input{Steering: 0.5}},
		{0.5, Input{Steering: 0.5}},
		{1, Input{Throttle: 1}},
		{5, Input{Throttle: 1}},
	}
	for _, tt := range tests {
		if got := s.Compute(Status{}, tt.t); got != tt.want {
			t.Errorf("Compute(%v) = %+v, want %+v", tt.t, got, tt.want)
		}
	}
	if s.End() != 1 {
		t.Errorf("End = %v, want 1", s.End())
	}
}

func TestScriptYAML(t *testing.T) {
	data := []byte(`
keys:
  - at: 2
    throttle: -1
  - at: 0
    steering: 0.5
    handbrake: true
`)
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if len(s.Keys) != 2 || s.Keys[0].At != 0 {
		t.Fatalf("keys not sorted: %+v", s.Keys)
	}
	if !s.Keys[0].Handbrake || s.Keys[0].Steering != 0.5 {
		t.Errorf("inline input not decoded: %+v", s.Keys[0])
	}
	if got := s.Compute(Status{}, 3); got.Throttle != -1 {
		t.Errorf("expected reverse throttle at the end, got %+v", got)
	}
}

func TestCruise(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		speed  float64
		want   float64
	}{
		{"from standstill", 1000, 0, 1},
		{"at target", 1000, 1000, 0},
		{"too fast", 1000, 1500, -0.5},
		{"reverse target", -500, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCruise(tt.target, NewPID(1, 0, 0, -1, 1))
			got := c.Compute(Status{ForwardSpeed: tt.speed}, 0)
			if math.Abs(got.Throttle-tt.want) > 1e-12 {
				t.Errorf("throttle = %v, want %v", got.Throttle, tt.want)
			}
		})
	}

	stop := NewCruise(0, NewPID(1, 0, 0, -1, 1))
	if !stop.Compute(Status{}, 0).Handbrake {
		t.Error("zero target should hold the handbrake at standstill")
	}
}

func TestSeek(t *testing.T) {
	newSeek := func(target vmath.Vec3) *Seek {
		return NewSeek(target, NewPID(1, 0, 0, -1, 1), NewPID(1, 0, 0, -1, 1))
	}
	start := Status{Forward: vmath.Forward}

	tests := []struct {
		name     string
		target   vmath.Vec3
		throttle float64
		steering float64
	}{
		{"ahead", vmath.Vec3{1000, 0, 0}, 1, 0},
		{"behind", vmath.Vec3{-1000, 0, 0}, -1, -1},
		{"right", vmath.Vec3{0, 1000, 0}, 0.6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newSeek(tt.target).Compute(start, 0)
			if math.Abs(got.Throttle-tt.throttle) > 1e-9 || math.Abs(got.Steering-tt.steering) > 1e-9 {
				t.Errorf("got %+v, want throttle %v steering %v", got, tt.throttle, tt.steering)
			}
		})
	}
}

func TestSeekArrives(t *testing.T) {
	d := NewSeek(vmath.Vec3{1000, 0, 0}, NewPID(1, 0, 0, -1, 1), NewPID(1, 0, 0, -1, 1))
	d.Compute(Status{Forward: vmath.Forward}, 0)

	in := d.Compute(Status{Position: vmath.Vec3{900, 20, 0}, Forward: vmath.Forward}, 1)
	if !in.Handbrake || in.Throttle != 0 || !d.Arrived() {
		t.Errorf("expected a stop on arrival, got %+v", in)
	}
	if d.InitialHeading() != 0 {
		t.Errorf("initial heading = %v", d.InitialHeading())
	}

	d.Restart()
	if d.Arrived() {
		t.Error("restart should clear arrival")
	}
}

func TestAvoidanceLock(t *testing.T) {
	a := DefaultAvoidance()
	current := vmath.Vec3{100, 0, 0}
	diverted := vmath.Vec3{100, 100, 0}

	if got := a.Resolve(current, diverted, 0); got != diverted {
		t.Fatalf("expected diverted velocity, got %v", got)
	}
	if !a.Locked(0.1) {
		t.Fatal("diversion should lock")
	}
	if got := a.Resolve(current, current, 0.1); got != diverted {
		t.Errorf("locked velocity should win, got %v", got)
	}
	if got := a.Resolve(current, current, 0.3); got != current {
		t.Errorf("expired lock should accept the current velocity, got %v", got)
	}
	if got := a.Resolve(vmath.Vec3{}, diverted, 1); got != (vmath.Vec3{}) {
		t.Errorf("standing still ignores avoidance, got %v", got)
	}
}

func TestAvoidanceBias(t *testing.T) {
	a := DefaultAvoidance()
	current := vmath.Vec3{100, 0, 0}

	in := a.Bias(Input{}, current, vmath.Vec3{100, 100, 0})
	if in.Steering != 0.5 {
		t.Errorf("steering = %v, want 0.5", in.Steering)
	}
	if in.Throttle != 0.375 {
		t.Errorf("throttle = %v, want 0.375", in.Throttle)
	}

	in = a.Bias(Input{Steering: 0.1}, current, vmath.Vec3{50, 0, 0})
	if in.Steering != 0.1 || in.Throttle != -0.375 {
		t.Errorf("straight slowdown gave %+v", in)
	}
}

func TestAvoidWrapsDriver(t *testing.T) {
	base := DriverFunc(func(Status, float64) Input { return Input{Throttle: 0.5} })

	if got := NewAvoid(base, nil).Compute(Status{}, 0); got.Throttle != 0.5 {
		t.Errorf("nil source should pass through, got %+v", got)
	}

	src := func(s Status, _ float64) vmath.Vec3 { return s.Velocity.Mul(2) }
	got := NewAvoid(base, src).Compute(Status{Velocity: vmath.Vec3{100, 0, 0}}, 0)
	if got.Throttle != 0.875 {
		t.Errorf("throttle = %v, want 0.875", got.Throttle)
	}
}
