package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/trackdyn/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	telemetryFile = "telemetry.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir is the directory holding runID.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Preset   string             `json:"preset"`
	Scenario string             `json:"scenario,omitempty"`
	Driver   string             `json:"driver"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Params   map[string]float64 `json:"params,omitempty"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Steps   int                `json:"steps"`
	Shifts  int                `json:"shifts"`
	Samples int                `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

// NewRunID returns "<preset>_<uuid>".
func NewRunID(preset string) string {
	if preset == "" {
		preset = "custom"
	}
	return fmt.Sprintf("%s_%s", preset, uuid.NewString())
}

// Save writes metadata.json and telemetry.csv for result under a fresh run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := NewRunID(info.Preset)
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: s.now(),
		RunInfo:   info,
		Steps:     result.StepsTaken,
		Shifts:    len(result.Shifts),
		Samples:   len(result.Samples),
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, telemetryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", fmt.Errorf("write telemetry: %w", err)
	}
	return runID, nil
}

// WriteCSV writes a header row then one row per sample.
func WriteCSV(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)

	header := append([]string{"time"}, sim.Channels...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, smp := range samples {
		if err := w.Write(smp.Record()); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSamples reads telemetry.csv back. Columns are matched by name, so
// files with fewer channels still load.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), telemetryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func ReadCSV(in io.Reader) ([]sim.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	header := records[0]
	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		var smp sim.Sample
		for j, val := range record {
			if j >= len(header) {
				break
			}
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				continue
			}
			smp.Set(header[j], v)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}
