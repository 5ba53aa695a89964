package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/scenario"
	"github.com/san-kum/trackdyn/internal/sim"
)

var (
	dataDir  string
	logLevel string

	dt          float64
	duration    float64
	settle      float64
	recordEvery int
	configFile  string
	params      []string
	noSave      bool

	driverType string
	scriptFile string
	throttle   float64
	steering   float64
	speed      float64
	targetX    float64
	targetY    float64

	channels  []string
	pngPath   string
	trackPlot bool
	format    string
	outPath   string
	channel   string
	tolerance float64

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	bestMetric string
	maximize   bool
)

var logger = slog.Default()

func main() {
	rootCmd := &cobra.Command{
		Use:           "trackdyn",
		Short:         "tracked and wheeled vehicle dynamics lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trackdyn", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a vehicle and store its telemetry",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVehicle,
	}
	addRunFlags(runCmd)
	addDriverFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}
	addRunFlags(scenarioCmd)
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset|file]",
		Short: "sweep one vehicle parameter over a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	addDriverFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "boost", "parameter to sweep (see GetParams)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&bestMetric, "best", "", "report the value with the best metric")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "best means largest")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the tick loop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchVehicle,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "drive a vehicle in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	liveCmd.Flags().StringVar(&configFile, "config", "", "vehicle config file (yaml)")
	liveCmd.Flags().StringSliceVar(&params, "param", nil, "vehicle parameter override name=value")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&channels, "channels", []string{"speed", "rpm", "suspension"}, "channels to plot")
	plotCmd.Flags().StringVar(&pngPath, "png", "", "write an image instead (png, svg or pdf by extension)")
	plotCmd.Flags().BoolVar(&trackPlot, "track", false, "plot the ground path instead of channels")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json or csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or csv")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and settling of a telemetry channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&channel, "channel", "suspension", "channel to analyze")
	analyzeCmd.Flags().Float64Var(&tolerance, "tol", scenario.SettleTolerance, "settling band")
	analyzeCmd.Flags().StringVar(&pngPath, "png", "", "write the spectrum plot to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list vehicle presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [preset]",
		Short: "write a vehicle config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, scenarioCmd, sweepCmd, benchCmd, liveCmd, listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", def.Duration, "duration")
	cmd.Flags().Float64Var(&settle, "settle", scenario.DefaultSettle, "seconds without input before the driver starts")
	cmd.Flags().IntVar(&recordEvery, "record-every", def.RecordEvery, "keep one sample per n ticks")
	cmd.Flags().StringVar(&configFile, "config", "", "vehicle config file (yaml)")
	cmd.Flags().StringSliceVar(&params, "param", nil, "vehicle parameter override name=value")
}

func addDriverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&driverType, "driver", "script", "driver: "+strings.Join(scenario.Drivers(), ", "))
	cmd.Flags().StringVar(&scriptFile, "script", "", "script driver keyframes (yaml)")
	cmd.Flags().Float64Var(&throttle, "throttle", 1, "constant throttle when no script is given")
	cmd.Flags().Float64Var(&steering, "steering", 0, "constant steering")
	cmd.Flags().Float64Var(&speed, "speed", 1000, "cruise target speed, cm/s")
	cmd.Flags().Float64Var(&targetX, "target-x", 5000, "seek target x, cm")
	cmd.Flags().Float64Var(&targetY, "target-y", 0, "seek target y, cm")
}

// parseParams reads name=value pairs.
func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, val, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q, want name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func presetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "tank"
}

func loadVehicle(preset string) (*config.Vehicle, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, nil
}
