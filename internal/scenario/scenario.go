package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/metrics"
	"github.com/san-kum/trackdyn/internal/sim"
	"github.com/san-kum/trackdyn/internal/vmath"
	"github.com/san-kum/trackdyn/internal/world"
)

var ErrUnknownPreset = errors.New("scenario: unknown preset")

const DefaultSettle = 0.5

// File is a scripted run as written in YAML.
type File struct {
	Name string `yaml:"name"`
	// Preset names a built-in vehicle; Vehicle, when set, is a vehicle
	// YAML path relative to the scenario file and wins over Preset.
	Preset  string `yaml:"preset"`
	Vehicle string `yaml:"vehicle"`

	Ground world.Ground       `yaml:"ground"`
	Start  vmath.Vec3         `yaml:"start"`
	Yaw    float64            `yaml:"yaw"`
	Settle float64            `yaml:"settle"`
	Params map[string]float64 `yaml:"params"`
	Sim    sim.Config         `yaml:"sim"`
	Driver DriverSpec         `yaml:"driver"`

	dir string
}

// Default is a tank on flat dirt with no driver.
func Default() *File {
	return &File{
		Name:   "default",
		Preset: "tank",
		Ground: *world.Flat(),
		Settle: DefaultSettle,
		Sim:    sim.DefaultConfig(),
		Driver: DriverSpec{Type: "none"},
	}
}

// LoadScenario reads path over Default.
func LoadScenario(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	if f.Name == "default" {
		f.Name = trimExt(filepath.Base(path))
	}
	return f, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

// VehicleConfig resolves the vehicle of f.
func (f *File) VehicleConfig() (*config.Vehicle, error) {
	if f.Vehicle != "" {
		path := f.Vehicle
		if !filepath.IsAbs(path) {
			path = filepath.Join(f.dir, path)
		}
		return config.Load(path)
	}
	cfg := config.GetPreset(f.Preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, f.Preset)
	}
	return cfg, nil
}

// Build turns f into a runnable scenario with a fresh driver.
func (f *File) Build() (sim.Scenario, error) {
	cfg, err := f.VehicleConfig()
	if err != nil {
		return sim.Scenario{}, err
	}
	return f.build(cfg)
}

func (f *File) build(cfg *config.Vehicle) (sim.Scenario, error) {
	driver, err := f.Driver.Build()
	if err != nil {
		return sim.Scenario{}, fmt.Errorf("scenario %q: %w", f.Name, err)
	}
	ground := f.Ground
	ground.Bumps = append([]world.Bump(nil), f.Ground.Bumps...)

	params := make(map[string]float64, len(f.Params))
	for k, v := range f.Params {
		params[k] = v
	}
	return sim.Scenario{
		Name:    f.Name,
		Vehicle: cfg,
		Driver:  driver,
		Ground:  &ground,
		Start:   f.Start,
		Yaw:     f.Yaw,
		Settle:  f.Settle,
		Params:  params,
	}, nil
}

// Label names the vehicle for run ids.
func (f *File) Label() string {
	if f.Vehicle != "" {
		return trimExt(filepath.Base(f.Vehicle))
	}
	return f.Preset
}

// RunScenario builds f and runs it with the standard metrics.
func RunScenario(ctx context.Context, f *File, opts ...sim.Option) (*sim.Result, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil scenario", dynamo.ErrInvalidConfig)
	}
	sc, err := f.Build()
	if err != nil {
		return nil, err
	}

	s := sim.New(opts...)
	for _, m := range metrics.Standard(sc.Vehicle) {
		s.AddMetric(m)
	}
	return s.Run(ctx, sc, f.Sim)
}
