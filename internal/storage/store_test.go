package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/trackdyn/internal/sim"
	"github.com/san-kum/trackdyn/internal/vehicle"
)

func testResult() *sim.Result {
	return &sim.Result{
		Name: "tank",
		Samples: []sim.Sample{
			{Time: 0, Speed: 0, RPM: 800, Gear: 1, Grounded: 10},
			{Time: 0.01, Speed: 12.5, RPM: 950, Gear: 2, Throttle: 1, Reverse: true},
		},
		Shifts:     []vehicle.GearEvent{{From: 1, To: 2, Up: true, Time: 0.01}},
		StepsTaken: 2,
		Metrics: map[string]float64{
			"top_speed": 12.5,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	info := RunInfo{Preset: "tank", Driver: "script", Dt: 0.01, Duration: 1, Params: map[string]float64{"boost": 2}}
	runID, err := st.Save(info, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "tank_") {
		t.Errorf("expected a tank_ prefix, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Preset != "tank" || meta.Driver != "script" {
		t.Errorf("unexpected run info %+v", meta.RunInfo)
	}
	if meta.Params["boost"] != 2 {
		t.Errorf("expected boost 2, got %v", meta.Params["boost"])
	}
	if meta.Metrics["top_speed"] != 12.5 {
		t.Errorf("expected top speed 12.5, got %f", meta.Metrics["top_speed"])
	}
	if meta.Shifts != 1 || meta.Samples != 2 || meta.Steps != 2 {
		t.Errorf("unexpected counts %+v", meta)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1] != testResult().Samples[1] {
		t.Errorf("sample round trip: got %+v", samples[1])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(-time.Duration(calls) * time.Hour)
	}

	first, err := st.Save(RunInfo{Preset: "tank"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunInfo{Preset: "car"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatal("run ids must be unique")
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second {
		t.Errorf("expected oldest first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "custom_") {
		t.Errorf("expected a custom_ prefix, got %q", runID)
	}

	for _, name := range []string{"metadata.json", "telemetry.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReadCSVPartialColumns(t *testing.T) {
	in := "time,speed,unknown\n0.5,100,7\n1.0,bad,1\n"
	samples, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Time != 0.5 || samples[0].Speed != 100 {
		t.Errorf("unexpected first sample %+v", samples[0])
	}
	if samples[1].Speed != 0 {
		t.Errorf("unparsable cells should be skipped, got %v", samples[1].Speed)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunInfo{Preset: "tank", Dt: 0.01}, testResult()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Preset != "tank" || data.Steps != 2 || len(data.Samples) != 2 || len(data.Shifts) != 1 {
		t.Errorf("unexpected export %+v", data)
	}
}
