// Package storage archives finished runs as one directory per run:
// metadata.json with the verdict and parameters, samples.csv with the
// yearly period history.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/trojansim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string    `json:"id"`
	System       string    `json:"system"`
	Timestamp    time.Time `json:"timestamp"`
	Integrator   string    `json:"integrator"`
	Dt           float64   `json:"dt"`
	Margin       float64   `json:"margin"`
	HorizonYears float64   `json:"horizon_years"`

	Outcome      string  `json:"outcome"`
	ElapsedYears float64 `json:"elapsed_years"`
	Steps        int     `json:"steps"`

	BreakStep      int     `json:"break_step,omitempty"`
	BreakYears     float64 `json:"break_years,omitempty"`
	BreakDeviation float64 `json:"break_deviation,omitempty"`

	Trojan          string   `json:"trojan,omitempty"`
	Companion       string   `json:"companion,omitempty"`
	ExtraTrojans    []string `json:"extra_trojans,omitempty"`
	DegeneratePairs int      `json:"degenerate_pairs,omitempty"`

	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

var sampleHeader = []string{"years", "trojan_period_days", "companion_period_days", "deviation_pct"}

// Save archives one finished run and returns its id.
func (s *Store) Save(system, integrator string, cfg sim.Config, report *sim.Report) (string, error) {
	runID := fmt.Sprintf("%s_%d", system, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		System:       system,
		Timestamp:    time.Now(),
		Integrator:   integrator,
		Dt:           cfg.Dt,
		Margin:       cfg.Margin,
		HorizonYears: cfg.Horizon / sim.Year,

		Outcome:      report.Outcome.String(),
		ElapsedYears: report.ElapsedYears(),
		Steps:        report.Steps,

		BreakStep:      report.BreakStep,
		BreakYears:     report.BreakElapsed / sim.Year,
		BreakDeviation: report.BreakDeviation,

		Trojan:          report.Trojan,
		Companion:       report.Companion,
		ExtraTrojans:    report.ExtraTrojans,
		DegeneratePairs: report.DegeneratePairs,

		EnergyDrift: report.EnergyDrift,
		Metrics:     report.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, sample := range report.Samples {
		row := []string{
			strconv.FormatFloat(sample.Years, 'g', -1, 64),
			strconv.FormatFloat(sample.TrojanPeriod, 'g', -1, 64),
			strconv.FormatFloat(sample.CompanionPeriod, 'g', -1, 64),
			strconv.FormatFloat(sample.Deviation, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List reads the metadata of every archived run. Unreadable entries are
// skipped.
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads back the period history of a run. Rows that fail to
// parse are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		var vals [4]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		samples = append(samples, sim.Sample{
			Years:           vals[0],
			TrojanPeriod:    vals[1],
			CompanionPeriod: vals[2],
			Deviation:       vals[3],
		})
	}

	return samples, nil
}
