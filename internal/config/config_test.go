package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/trackdyn/internal/curve"
	"github.com/san-kum/trackdyn/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Body.Mass != DefaultMass {
		t.Errorf("expected mass %v, got %v", DefaultMass, cfg.Body.Mass)
	}
	if len(cfg.Suspension.Wheels) != 10 {
		t.Errorf("expected 10 wheels, got %d", len(cfg.Suspension.Wheels))
	}
	if !cfg.Suspension.ClampForce {
		t.Error("suspension force should be clamped by default")
	}
	neutral := -1
	for i, g := range cfg.Gearbox.Gears {
		if g.Ratio == 0 {
			neutral = i
			break
		}
	}
	if neutral != 2 {
		t.Errorf("expected neutral at index 2, got %d", neutral)
	}
}

func TestTrackMOI(t *testing.T) {
	tr := TrackConfig{SprocketMass: 2, SprocketRadius: 10, TrackMass: 3}
	if got := tr.MOI(); got != 400 {
		t.Errorf("MOI = %v, want 400", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Vehicle)
		want   error
	}{
		{"no gears", func(v *Vehicle) { v.Gearbox.Gears = nil }, dynamo.ErrNoGears},
		{"zero sprocket", func(v *Vehicle) { v.Track.SprocketRadius = 0 }, dynamo.ErrInvalidConfig},
		{"negative mass", func(v *Vehicle) { v.Body.Mass = -1 }, dynamo.ErrInvalidConfig},
		{"empty torque curve", func(v *Vehicle) { v.Engine.TorqueCurve = curve.Curve{} }, dynamo.ErrInvalidConfig},
		{"bad default length", func(v *Vehicle) { v.Suspension.DefaultLength = 0 }, dynamo.ErrInvalidConfig},
		{"bad custom wheel", func(v *Vehicle) {
			v.Suspension.Wheels[3].Custom = true
			v.Suspension.Wheels[3].Length = -5
		}, dynamo.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWheelDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Suspension.DefaultStiffness = 123

	w := cfg.Wheel(0)
	if w.Stiffness != 123 {
		t.Errorf("default stiffness not applied: %v", w.Stiffness)
	}
	if w.Length != DefaultLength {
		t.Errorf("expected length %v, got %v", DefaultLength, w.Length)
	}

	cfg.Suspension.Wheels[1].Custom = true
	cfg.Suspension.Wheels[1].Length = 40
	cfg.Suspension.Wheels[1].Stiffness = 7
	w = cfg.Wheel(1)
	if w.Length != 40 || w.Stiffness != 7 {
		t.Errorf("custom wheel overridden: %+v", w)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tank.yaml")

	cfg := GetPreset("tank")
	cfg.Engine.DifferentialRatio = 4.25
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "tank" {
		t.Errorf("expected name tank, got %s", loaded.Name)
	}
	if loaded.Engine.DifferentialRatio != 4.25 {
		t.Errorf("differential ratio lost: %v", loaded.Engine.DifferentialRatio)
	}
	if len(loaded.Suspension.Wheels) != len(cfg.Suspension.Wheels) {
		t.Errorf("wheel count %d, want %d", len(loaded.Suspension.Wheels), len(cfg.Suspension.Wheels))
	}
	if got := loaded.Engine.TorqueCurve.Eval(700); got != 825 {
		t.Errorf("torque curve lost, Eval(700) = %v", got)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	src := "name: light\nbody:\n  mass: 5000\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Body.Mass != 5000 {
		t.Errorf("expected mass 5000, got %v", cfg.Body.Mass)
	}
	if cfg.Track.SprocketRadius != DefaultSprocketRadius {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gearbox:\n  gears: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrNoGears) {
		t.Errorf("expected ErrNoGears, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s is nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	car := GetPreset("car")
	if !car.Body.Wheeled {
		t.Error("car should be wheeled")
	}
	driving, steering := 0, 0
	for _, w := range car.Suspension.Wheels {
		if w.DrivingWheel {
			driving++
			if w.Location.X() >= 0 {
				t.Errorf("%s: front wheel should not drive", w.Name)
			}
		}
		if w.SteeringWheel {
			steering++
		}
	}
	if driving != 2 || steering != 2 {
		t.Errorf("car has %d driving and %d steering wheels", driving, steering)
	}
}

func TestGetPreset_Fresh(t *testing.T) {
	a := GetPreset("tank")
	a.Suspension.Wheels[0].Name = "changed"
	b := GetPreset("tank")
	if b.Suspension.Wheels[0].Name == "changed" {
		t.Error("presets should not share state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("hovercraft") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"apc", "car", "tank"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	c := cfg.Clone()
	c.Gearbox.Gears[0].Ratio = 99
	c.Suspension.Wheels[0].Stiffness = 1
	c.Engine.TorqueCurve.Keys[0].Value = -1

	if cfg.Gearbox.Gears[0].Ratio == 99 || cfg.Suspension.Wheels[0].Stiffness == 1 {
		t.Error("clone shares slices with the original")
	}
	if cfg.Engine.TorqueCurve.Keys[0].Value == -1 {
		t.Error("clone shares curve keys")
	}
}
