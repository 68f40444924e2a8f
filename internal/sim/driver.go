package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/trojansim/internal/celestial"
	"github.com/san-kum/trojansim/internal/orbit"
	"github.com/san-kum/trojansim/internal/resonance"
)

// Seconds per day and per Julian year. Horizons, sampling intervals and
// reported ages are quoted in these units.
const (
	Day  = 86400.0
	Year = 365.25 * Day
)

// Config parameterizes a single run. Times are in seconds.
type Config struct {
	// Dt is the integration step.
	Dt float64
	// Horizon bounds the total simulated time.
	Horizon float64
	// Margin is the allowed percent deviation from a 1:1 resonance. The
	// monitor consumes it at construction; it lives here so a Config
	// describes the whole run.
	Margin float64
	// SampleInterval is the simulated time between recorded samples.
	// Zero disables sampling.
	SampleInterval float64
	// ProgressInterval is the simulated time between progress log lines.
	// Zero disables them.
	ProgressInterval float64
}

func DefaultConfig() Config {
	return Config{
		Dt:               Day,
		Horizon:          1e6 * Year,
		Margin:           10,
		SampleInterval:   Year,
		ProgressInterval: 1000 * Year,
	}
}

// Sample is one row of the periodic history a run records: both orbital
// periods of the monitored pair and the current rate deviation.
type Sample struct {
	Years           float64
	TrojanPeriod    float64 // days
	CompanionPeriod float64 // days
	Deviation       float64 // percent
}

// Report is the outcome of a run.
type Report struct {
	Outcome resonance.Status
	Steps   int
	Elapsed float64

	// Verdict context, populated when the monitor left Stable mid-run.
	BreakStep      int
	BreakElapsed   float64
	BreakDeviation float64

	// DegeneratePairs counts force evaluations skipped because two
	// bodies sat closer than the epsilon guard; FirstDegenerateStep is
	// the step of the first skip.
	DegeneratePairs     int
	FirstDegenerateStep int

	EnergyDrift float64
	Metrics     map[string]float64
	Samples     []Sample

	// Trojan and Companion name the monitored pair; empty when the
	// system designates none.
	Trojan    string
	Companion string
	// ExtraTrojans names trojan-flagged bodies beyond the monitored one.
	ExtraTrojans []string
}

func (r *Report) ElapsedYears() float64 { return r.Elapsed / Year }

// Driver owns the step loop: it advances the system, guards against
// divergence, feeds the resonance monitor and collects the report.
//
// A Driver runs once. The system is mutated in place; build a new driver
// on a fresh system for another run.
type Driver struct {
	sys     *celestial.System
	stepper orbit.Stepper
	grav    *orbit.Gravity
	mon     *resonance.Monitor
	metrics []Metric
	log     *zap.Logger
}

func New(sys *celestial.System, stepper orbit.Stepper, grav *orbit.Gravity, mon *resonance.Monitor) *Driver {
	return &Driver{
		sys:     sys,
		stepper: stepper,
		grav:    grav,
		mon:     mon,
		metrics: make([]Metric, 0),
		log:     zap.NewNop(),
	}
}

func (d *Driver) AddMetric(m Metric) { d.metrics = append(d.metrics, m) }

func (d *Driver) SetLogger(log *zap.Logger) {
	if log != nil {
		d.log = log
	}
}

// Run advances the system until the monitor leaves Stable, the horizon
// is reached, or ctx is canceled. The report is returned alongside the
// error on cancellation and instability so callers keep the partial
// history.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := d.validate(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Horizon / cfg.Dt)
	report := &Report{Metrics: make(map[string]float64)}

	if trojan, companion, ok := d.sys.TrojanPair(); ok {
		report.Trojan = bodyName(d.sys.Bodies, trojan)
		report.Companion = bodyName(d.sys.Bodies, companion)
	}
	for _, i := range d.sys.ExtraTrojans() {
		report.ExtraTrojans = append(report.ExtraTrojans, bodyName(d.sys.Bodies, i))
	}
	if len(report.ExtraTrojans) > 0 {
		d.log.Warn("extra trojan bodies are not monitored",
			zap.Strings("bodies", report.ExtraTrojans))
	}

	for _, m := range d.metrics {
		m.Reset()
	}
	d.grav.ResetSkipped()

	d.log.Info("run starting",
		zap.String("stepper", d.stepper.Name()),
		zap.Int("bodies", len(d.sys.Bodies)),
		zap.Float64("dt_s", cfg.Dt),
		zap.Float64("horizon_years", cfg.Horizon/Year),
		zap.Bool("monitored", d.mon.Monitored()))

	t := 0.0
	initialEnergy := d.sys.TotalEnergy(d.grav.G)
	for _, m := range d.metrics {
		m.Observe(d.sys, t)
	}

	nextSample := cfg.SampleInterval
	nextProgress := cfg.ProgressInterval

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			d.finish(report, t)
			return report, ctx.Err()
		default:
		}

		d.stepper.Step(d.sys, cfg.Dt)
		t += cfg.Dt

		if name, ok := firstNonFinite(d.sys.Bodies); ok {
			d.finish(report, t)
			return report, &InstabilityError{Step: i + 1, Time: t, Body: name}
		}
		report.Steps++

		if sk := d.grav.SkippedPairs(); sk > report.DegeneratePairs {
			if report.DegeneratePairs == 0 {
				report.FirstDegenerateStep = i + 1
				d.log.Warn("degenerate pair, force skipped",
					zap.Int("step", i+1),
					zap.Float64("epsilon_m", d.grav.Epsilon))
			}
			report.DegeneratePairs = sk
		}

		status := d.mon.Update(cfg.Dt)

		for _, m := range d.metrics {
			m.Observe(d.sys, t)
		}

		if cfg.SampleInterval > 0 && d.mon.Monitored() && t >= nextSample {
			report.Samples = append(report.Samples, d.sample(t))
			for t >= nextSample {
				nextSample += cfg.SampleInterval
			}
		}
		if cfg.ProgressInterval > 0 && t >= nextProgress {
			dev, _ := d.mon.Deviation()
			d.log.Info("progress",
				zap.Float64("years", t/Year),
				zap.Float64("deviation_pct", dev))
			for t >= nextProgress {
				nextProgress += cfg.ProgressInterval
			}
		}

		if d.mon.Monitored() && status != resonance.Stable {
			break
		}
	}

	d.finish(report, t)
	if initialEnergy != 0 {
		final := d.sys.TotalEnergy(d.grav.G)
		report.EnergyDrift = math.Abs(final-initialEnergy) / math.Abs(initialEnergy)
	}

	d.log.Info("run finished",
		zap.String("outcome", report.Outcome.String()),
		zap.Int("steps", report.Steps),
		zap.Float64("years", report.ElapsedYears()))

	return report, nil
}

func (d *Driver) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return &ConfigError{Field: "dt", Reason: "must be positive"}
	}
	if cfg.Horizon <= 0 {
		return &ConfigError{Field: "horizon", Reason: "must be positive"}
	}
	if cfg.Margin < 0 {
		return &ConfigError{Field: "margin", Reason: "must not be negative"}
	}
	if cfg.SampleInterval < 0 {
		return &ConfigError{Field: "sample interval", Reason: "must not be negative"}
	}
	if cfg.ProgressInterval < 0 {
		return &ConfigError{Field: "progress interval", Reason: "must not be negative"}
	}
	if len(d.sys.Bodies) < 2 {
		return &ConfigError{Field: "system", Reason: "needs at least two bodies"}
	}
	return nil
}

func (d *Driver) finish(report *Report, t float64) {
	report.Elapsed = t
	report.Outcome = d.mon.Status()
	if v := d.mon.Verdict(); v.Step > 0 {
		report.BreakStep = v.Step
		report.BreakElapsed = v.Elapsed
		report.BreakDeviation = v.Deviation
	}
	for _, m := range d.metrics {
		report.Metrics[m.Name()] = m.Value()
	}
}

func (d *Driver) sample(t float64) Sample {
	s := Sample{Years: t / Year}
	trojan, companion, ok := d.sys.TrojanPair()
	if !ok {
		return s
	}

	primary := d.sys.PrimaryBody()
	if p, ok := orbit.OrbitalPeriod(d.sys.Bodies[trojan], primary, d.grav.G); ok {
		s.TrojanPeriod = p / Day
	}
	if p, ok := orbit.OrbitalPeriod(d.sys.Bodies[companion], primary, d.grav.G); ok {
		s.CompanionPeriod = p / Day
	}
	if dev, ok := d.mon.Deviation(); ok {
		s.Deviation = dev
	}
	return s
}

func firstNonFinite(bodies []celestial.Body) (string, bool) {
	for i := range bodies {
		if !bodies[i].Position.IsFinite() || !bodies[i].Velocity.IsFinite() {
			return bodyName(bodies, i), true
		}
	}
	return "", false
}

func bodyName(bodies []celestial.Body, i int) string {
	if bodies[i].Name != "" {
		return bodies[i].Name
	}
	return fmt.Sprintf("#%d", i)
}
