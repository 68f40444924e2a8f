package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/trojansim/internal/celestial"
	"github.com/san-kum/trojansim/internal/orbit"
	"github.com/san-kum/trojansim/internal/resonance"
)

// SweepRun names one configuration in a sweep.
type SweepRun struct {
	Label   string
	Stepper string
	Config  Config
}

// SweepResult pairs a sweep entry with its outcome. Err carries stepper
// construction failures as well as run errors. Elapsed is the wall
// time of the run, for throughput comparisons.
type SweepResult struct {
	Run     SweepRun
	Report  *Report
	Elapsed time.Duration
	Err     error
}

// Sweep executes independent runs concurrently, one goroutine per entry,
// each on its own clone of the base system. Individual step loops stay
// single-threaded.
type Sweep struct {
	base    *celestial.System
	g       float64
	epsilon float64
}

func NewSweep(base *celestial.System, g, epsilon float64) *Sweep {
	return &Sweep{base: base, g: g, epsilon: epsilon}
}

// Run executes every entry and reports results in input order. Errors
// stay per-entry so one diverging configuration does not void the rest
// of the grid.
func (s *Sweep) Run(ctx context.Context, runs []SweepRun) []SweepResult {
	results := make([]SweepResult, len(runs))

	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = s.runOne(ctx, runs[idx])
		}(i)
	}
	wg.Wait()

	return results
}

func (s *Sweep) runOne(ctx context.Context, run SweepRun) SweepResult {
	res := SweepResult{Run: run}

	sys := s.base.Clone()
	grav := orbit.NewGravity(s.g, s.epsilon)

	stepper, err := orbit.NewStepper(run.Stepper, grav)
	if err != nil {
		res.Err = err
		return res
	}

	mon, err := resonance.NewMonitor(sys, run.Config.Margin)
	if err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	res.Report, res.Err = New(sys, stepper, grav, mon).Run(ctx, run.Config)
	res.Elapsed = time.Since(start)
	return res
}
