package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/control"
	"github.com/san-kum/trackdyn/internal/scenario"
	"github.com/san-kum/trackdyn/internal/sim"
	"github.com/san-kum/trackdyn/internal/storage"
	"github.com/san-kum/trackdyn/internal/vehicle"
	"github.com/san-kum/trackdyn/internal/viz"
	"github.com/san-kum/trackdyn/internal/vmath"
	"github.com/san-kum/trackdyn/internal/world"
)

// fileFromFlags describes a run on preset entirely from command line flags.
func fileFromFlags(preset string) (*scenario.File, error) {
	f := scenario.Default()
	f.Name = preset
	f.Preset = preset
	f.Vehicle = configFile
	f.Settle = settle
	f.Sim = sim.Config{Dt: dt, Duration: duration, RecordEvery: recordEvery, ValidateState: true}

	p, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	f.Params = p

	f.Driver = scenario.DriverSpec{
		Type:     driverType,
		Speed:    speed,
		Steering: steering,
		Target:   vmath.Vec3{targetX, targetY, 0},
	}
	if driverType == "script" {
		if scriptFile != "" {
			script, err := control.LoadScript(scriptFile)
			if err != nil {
				return nil, err
			}
			f.Driver.Keys = script.Keys
		} else {
			f.Driver.Keys = []control.Keyframe{{At: 0, Input: control.Input{Throttle: throttle, Steering: steering}}}
		}
	}
	return f, nil
}

// applyOverrides lets explicitly set flags win over a scenario file.
func applyOverrides(cmd *cobra.Command, f *scenario.File) error {
	flags := cmd.Flags()
	if flags.Changed("dt") {
		f.Sim.Dt = dt
	}
	if flags.Changed("time") {
		f.Sim.Duration = duration
	}
	if flags.Changed("record-every") {
		f.Sim.RecordEvery = recordEvery
	}
	if flags.Changed("settle") {
		f.Settle = settle
	}
	if flags.Changed("config") {
		f.Vehicle = configFile
	}
	if flags.Changed("param") {
		p, err := parseParams(params)
		if err != nil {
			return err
		}
		if f.Params == nil {
			f.Params = make(map[string]float64)
		}
		for k, v := range p {
			f.Params[k] = v
		}
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runVehicle(cmd *cobra.Command, args []string) error {
	f, err := fileFromFlags(presetArg(args))
	if err != nil {
		return err
	}
	return runAndStore(f)
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	f, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, f); err != nil {
		return err
	}
	return runAndStore(f)
}

func runAndStore(f *scenario.File) error {
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s, %s driver)...\n", f.Name, f.Label(), f.Driver.Type)
	start := time.Now()

	logger.Info("run starting", "scenario", f.Name, "dt", f.Sim.Dt, "duration", f.Sim.Duration)
	result, err := scenario.RunScenario(ctx, f, sim.WithLogger(logger))
	if err != nil {
		if result != nil {
			logger.Warn("run stopped early", "steps", result.StepsTaken, "err", err)
		}
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunInfo{
			Preset:   f.Label(),
			Scenario: f.Name,
			Driver:   f.Driver.Type,
			Dt:       f.Sim.Dt,
			Duration: f.Sim.Duration,
			Params:   f.Params,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("steps: %d\nshifts: %d\n", result.StepsTaken, len(result.Shifts))
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	var f *scenario.File
	var err error
	if config.GetPreset(args[0]) != nil {
		f, err = fileFromFlags(args[0])
	} else if f, err = scenario.LoadScenario(args[0]); err == nil {
		err = applyOverrides(cmd, f)
	}
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := scenario.ParameterSweep{Param: sweepParam, From: sweepFrom, To: sweepTo, Steps: sweepSteps}
	fmt.Printf("sweeping %s over %d values on %s...\n", sweepParam, sweepSteps, f.Label())
	start := time.Now()

	points, err := sweep.Run(ctx, f, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTOP SPEED\tTIME TO SPEED\tSETTLE LENGTH\tSETTLED\tMAX COMPRESSION\n", sweepParam)
	for _, pt := range points {
		fmt.Fprintf(w, "%.4g\t%.1f\t%.2f\t%.2f\t%v\t%.3f\n",
			pt.Value, pt.TopSpeed, pt.Metrics["time_to_speed"], pt.SettleLength, pt.Settled, pt.Metrics["max_compression"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v\n", len(points), time.Since(start))

	if bestMetric != "" {
		best, ok := scenario.Best(points, bestMetric, maximize)
		if !ok {
			return fmt.Errorf("no run reported metric %q", bestMetric)
		}
		fmt.Printf("best %s: %s=%.4g (%.6f)\n", bestMetric, sweepParam, best.Value, best.Metrics[bestMetric])
	}
	return nil
}

func benchVehicle(cmd *cobra.Command, args []string) error {
	preset := presetArg(args)
	cfg, err := loadVehicle(preset)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{1.0 / 120, 1.0 / 60, 1.0 / 30}

	fmt.Printf("benchmarking %s\n\n", preset)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	s := sim.New(sim.WithLogger(logger))
	for _, dur := range durations {
		for _, step := range dts {
			sc := sim.Scenario{
				Name:    preset,
				Vehicle: cfg,
				Driver:  control.NewScript(control.Keyframe{At: 0, Input: control.Input{Throttle: 1, Steering: 0.3}}),
				Settle:  scenario.DefaultSettle,
			}

			start := time.Now()
			result, err := s.Run(context.Background(), sc, sim.Config{Dt: step, Duration: dur})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	preset := presetArg(args)
	cfg, err := loadVehicle(preset)
	if err != nil {
		return err
	}
	p, err := parseParams(params)
	if err != nil {
		return err
	}

	// the dashboard owns the terminal, so logs are dropped
	var paramErr error
	tune := func(v *vehicle.Movement) {
		for name, val := range p {
			if err := v.SetParam(name, val); err != nil && paramErr == nil {
				paramErr = err
			}
		}
	}
	m, err := viz.NewModel(sim.New(sim.WithVehicleOptions(tune)), cfg, demoGround(), preset, dt)
	if err != nil {
		return err
	}
	if paramErr != nil {
		return paramErr
	}
	return viz.Run(m)
}

// demoGround is a gentle hill field for driving around in.
func demoGround() *world.Ground {
	g := world.Flat()
	g.Bumps = []world.Bump{
		{X: 2000, Y: 0, Radius: 600, Height: 40},
		{X: 1200, Y: 1500, Radius: 400, Height: 80},
		{X: -1500, Y: -800, Radius: 900, Height: 60},
	}
	return g
}
