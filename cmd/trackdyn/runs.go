package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trackdyn/internal/analysis"
	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/export"
	"github.com/san-kum/trackdyn/internal/sim"
	"github.com/san-kum/trackdyn/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVEHICLE\tTIME\tDURATION\tDT\tDRIVER\tSHIFTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Driver,
			run.Shifts,
		)
	}

	return w.Flush()
}

// loadRun reads a stored run back as a result.
func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, &sim.Result{
		Name:       meta.Scenario,
		Samples:    samples,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if pngPath != "" {
		p, err := export.Channels(result.Samples, channels, meta.ID)
		if trackPlot {
			p, err = export.Track(result.Samples, meta.ID)
		}
		if err != nil {
			return err
		}
		if err := export.Save(p, pngPath, export.DefaultSize); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("vehicle: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	if trackPlot {
		xs, _ := seriesOf(result.Samples, "x")
		ys, _ := seriesOf(result.Samples, "y")
		fmt.Println(asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(12), asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("x (red) and y (blue), cm")))
		return nil
	}

	for _, ch := range channels {
		data, err := seriesOf(result.Samples, ch)
		if err != nil {
			return err
		}
		caption := ch
		if unit, ok := export.Units[ch]; ok {
			caption = fmt.Sprintf("%s (%s)", ch, unit)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption)))
		fmt.Println()
	}

	return nil
}

func seriesOf(samples []sim.Sample, ch string) ([]float64, error) {
	_, values, err := sim.Series(samples, ch)
	return values, err
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return storage.ExportJSON(out, meta.RunInfo, result)
	case "csv":
		return storage.WriteCSV(out, result.Samples)
	default:
		return fmt.Errorf("unknown format: %s (json or csv)", format)
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	times, values, err := sim.Series(result.Samples, channel)
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("run %s: %w", meta.ID, analysis.ErrShortSeries)
	}
	interval := times[1] - times[0]

	freqs, power, err := analysis.Spectrum(values, interval)
	if err != nil {
		return err
	}
	dominant, err := analysis.DominantFrequency(values, interval)
	if err != nil {
		return err
	}
	st := analysis.Settling(values, tolerance)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("channel: %s\n", channel)
	fmt.Printf("samples: %d at %.4fs\n\n", len(values), interval)
	fmt.Printf("dominant frequency: %.3f Hz\n", dominant)
	if st.Settled {
		fmt.Printf("settled at t=%.3fs to %.4f\n", times[st.Index], st.Value)
	} else {
		fmt.Println("not settled")
	}
	fmt.Println()

	if len(power) > 1 {
		fmt.Println(asciigraph.Plot(power[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum, 0 to %.1f Hz", freqs[len(freqs)-1]))))
	}

	if pngPath != "" {
		p, err := export.Spectrum(freqs, power, fmt.Sprintf("%s %s", meta.ID, channel))
		if err != nil {
			return err
		}
		if err := export.Save(p, pngPath, export.DefaultSize); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tMASS\tWHEELS\tGEARS\tMAX RPM")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		kind := "tracked"
		if cfg.Body.Wheeled {
			kind = "wheeled"
		}
		_, maxRPM := cfg.Engine.TorqueCurve.TimeRange()
		fmt.Fprintf(w, "%s\t%s\t%.0f kg\t%d\t%d\t%.0f\n",
			name, kind, cfg.Body.Mass, len(cfg.Suspension.Wheels), len(cfg.Gearbox.Gears), maxRPM)
	}

	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadVehicle(presetArg(args))
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := config.Save(outPath, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
