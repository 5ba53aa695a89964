package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/trackdyn/internal/sim"
	"github.com/san-kum/trackdyn/internal/vehicle"
)

type ExportData struct {
	RunInfo
	Steps   int                 `json:"steps"`
	Samples []sim.Sample        `json:"samples"`
	Shifts  []vehicle.GearEvent `json:"shifts"`
	Metrics map[string]float64  `json:"metrics"`
}

func NewExportData(info RunInfo, result *sim.Result) ExportData {
	return ExportData{
		RunInfo: info,
		Steps:   result.StepsTaken,
		Samples: result.Samples,
		Shifts:  result.Shifts,
		Metrics: result.Metrics,
	}
}

// ExportJSON writes the whole run as indented JSON to w.
func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

func ExportJSONFile(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, info, result)
}
