package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/trojansim/internal/celestial"
	"github.com/san-kum/trojansim/internal/config"
	"github.com/san-kum/trojansim/internal/orbit"
	"github.com/san-kum/trojansim/internal/resonance"
	"github.com/san-kum/trojansim/internal/sim"
	"github.com/san-kum/trojansim/internal/storage"
	"github.com/san-kum/trojansim/internal/sysfile"
	"github.com/san-kum/trojansim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metersPerAU = 1.495978707e11

var (
	dataDir      string
	debug        bool
	dt           float64
	margin       float64
	horizonYears float64
	integrator   string
	epsilon      float64
	configFile   string
	preset       string
)

// main registers the commands and executes the root command; it exits
// the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "trojansim",
		Short: "n-body simulator with 1:1 resonance stability detection",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trojansim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose diagnostics")

	runCmd := &cobra.Command{
		Use:   "run [system-file]",
		Short: "run a system until the resonance breaks or the horizon",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	checkCmd := &cobra.Command{
		Use:   "check [system-file]",
		Short: "parse a system file and show what would be simulated",
		Args:  cobra.ExactArgs(1),
		RunE:  checkSystem,
	}

	liveCmd := &cobra.Command{
		Use:   "live [system-file]",
		Short: "watch a system orbit in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot a run's period and deviation history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "export a run's sample history as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "compare integrator throughput on a preset system",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchIntegrators,
	}

	rootCmd.AddCommand(runCmd, checkCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (seconds)")
	cmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "allowed deviation from 1:1 (percent)")
	cmd.Flags().Float64Var(&horizonYears, "horizon-years", config.DefaultHorizonYears, "simulated horizon (years)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integration scheme: "+strings.Join(orbit.StepperNames(), ", "))
	cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "degenerate-pair separation guard (meters)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in system")
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// resolveRun assembles the system and run parameters shared by run and
// live. Precedence: flags > --config file > preset > defaults.
func resolveRun(cmd *cobra.Command, args []string) (*celestial.System, string, *config.Config, error) {
	var (
		sys  *celestial.System
		name string
	)
	cfg := config.DefaultConfig()

	switch {
	case preset != "" && len(args) > 0:
		return nil, "", nil, errors.New("give a system file or --preset, not both")
	case preset != "":
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.PresetNames(), ", "))
		}
		sys = p.System()
		name = preset
		*cfg = *p.Config
	case len(args) == 1:
		parsed, err := sysfile.ParseFile(args[0])
		if err != nil {
			return nil, "", nil, err
		}
		sys = parsed
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	default:
		return nil, "", nil, fmt.Errorf("need a system file or --preset (available: %s)", strings.Join(config.PresetNames(), ", "))
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("margin") {
		cfg.Margin = margin
	}
	if cmd.Flags().Changed("horizon-years") {
		cfg.HorizonYears = horizonYears
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("epsilon") {
		cfg.Epsilon = epsilon
	}

	return sys, name, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	sys, name, cfg, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	grav := orbit.NewGravity(orbit.G, cfg.Epsilon)
	stepper, err := orbit.NewStepper(cfg.Integrator, grav)
	if err != nil {
		return err
	}
	mon, err := resonance.NewMonitor(sys, cfg.Margin)
	if err != nil {
		return err
	}

	driver := sim.New(sys, stepper, grav, mon)
	driver.SetLogger(log)
	driver.AddMetric(sim.NewEnergyDrift(orbit.G))
	driver.AddMetric(sim.NewMomentumDrift())

	runCfg := cfg.RunConfig()

	fmt.Printf("running %s...\n", name)
	start := time.Now()

	report, runErr := driver.Run(context.Background(), runCfg)
	if report == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	printReport(report, runCfg)

	var ie *sim.InstabilityError
	if errors.As(runErr, &ie) {
		fmt.Printf("\nnumerical instability: body %s diverged at step %d\n", ie.Body, ie.Step)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg.Integrator, runCfg, report)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)

	return runErr
}

func printReport(report *sim.Report, cfg sim.Config) {
	fmt.Printf("outcome: %s\n", report.Outcome)
	fmt.Printf("simulated: %.1f years (%d steps)\n", report.ElapsedYears(), report.Steps)
	if report.Trojan != "" {
		fmt.Printf("pair: %s (trojan) / %s (companion)\n", report.Trojan, report.Companion)
	}

	switch report.Outcome {
	case resonance.Broken:
		fmt.Printf("resonance broke at step %d, %.1f years in: deviation %.2f%% exceeded margin %.1f%%\n",
			report.BreakStep, report.BreakElapsed/sim.Year, report.BreakDeviation, cfg.Margin)
	case resonance.Undetermined:
		if report.BreakStep > 0 {
			fmt.Printf("companion angular rate vanished near step %d (%.1f years)\n",
				report.BreakStep, report.BreakElapsed/sim.Year)
		}
	}

	if len(report.ExtraTrojans) > 0 {
		fmt.Printf("note: extra trojan flags not monitored: %s\n", strings.Join(report.ExtraTrojans, ", "))
	}
	if report.DegeneratePairs > 0 {
		fmt.Printf("note: %d degenerate pair evaluations skipped, first at step %d\n",
			report.DegeneratePairs, report.FirstDegenerateStep)
	}

	fmt.Printf("samples: %d\n", len(report.Samples))
	fmt.Println("\nmetrics:")
	for name, val := range report.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}
}

func checkSystem(cmd *cobra.Command, args []string) error {
	sys, err := sysfile.ParseFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d bodies\n\n", args[0], len(sys.Bodies))

	primary := sys.PrimaryPoint()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tNAME\tKIND\tTROJAN\tMASS (KG)\tR (AU)\tSPEED (M/S)")
	for i, b := range sys.Bodies {
		trojanMark := ""
		if b.Trojan {
			trojanMark = "yes"
		}
		r := b.Position.Sub(primary).Magnitude() / metersPerAU
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3e\t%.3f\t%.1f\n",
			i, displayName(b, i), b.Kind, trojanMark, b.Mass, r, b.Velocity.Magnitude())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if trojan, companion, ok := sys.TrojanPair(); ok {
		fmt.Printf("\nmonitored pair: %s (trojan) / %s (companion)\n",
			displayName(sys.Bodies[trojan], trojan), displayName(sys.Bodies[companion], companion))
		if period, ok := orbit.OrbitalPeriod(sys.Bodies[companion], sys.PrimaryBody(), orbit.G); ok {
			fmt.Printf("companion period: %.1f days\n", period/sim.Day)
		}
	} else {
		fmt.Println("\nno trojan pair designated; a run will report UNDETERMINED at its horizon")
	}

	if extras := sys.ExtraTrojans(); len(extras) > 0 {
		names := make([]string, len(extras))
		for i, idx := range extras {
			names[i] = displayName(sys.Bodies[idx], idx)
		}
		fmt.Printf("note: extra trojan flags not monitored: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func displayName(b celestial.Body, index int) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("#%d", index)
}

func runLive(cmd *cobra.Command, args []string) error {
	sys, name, cfg, err := resolveRun(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(sys, cfg.Integrator, orbit.G, cfg.Epsilon, cfg.RunConfig(), name)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tOUTCOME\tYEARS\tSTEPS\tINTEG\tMARGIN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%d\t%s\t%.1f%%\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.ElapsedYears,
			run.Steps,
			run.Integrator,
			run.Margin,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("outcome: %s\n", meta.Outcome)
	fmt.Printf("samples: %d (one per simulated year)\n\n", len(samples))

	trojanName, companionName := meta.Trojan, meta.Companion
	if trojanName == "" {
		trojanName = "trojan"
	}
	if companionName == "" {
		companionName = "companion"
	}

	series := []struct {
		caption string
		pick    func(sim.Sample) float64
	}{
		{trojanName + " period (days)", func(s sim.Sample) float64 { return s.TrojanPeriod }},
		{companionName + " period (days)", func(s sim.Sample) float64 { return s.CompanionPeriod }},
		{"deviation from 1:1 (%)", func(s sim.Sample) float64 { return s.Deviation }},
	}

	for _, sp := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sp.pick(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sp.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"years", "trojan_period_days", "companion_period_days", "deviation_pct"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Years, 'g', -1, 64),
			strconv.FormatFloat(s.TrojanPeriod, 'g', -1, 64),
			strconv.FormatFloat(s.CompanionPeriod, 'g', -1, 64),
			strconv.FormatFloat(s.Deviation, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tINTEG\tHORIZON (YR)\tMARGIN\tDESCRIPTION")

	for _, name := range config.PresetNames() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%g\t%.1f%%\t%s\n",
			name, len(p.Bodies), p.Config.Integrator, p.Config.HorizonYears, p.Config.Margin, p.Description)
	}

	return w.Flush()
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	name := "sun-jupiter-l4"
	if len(args) == 1 {
		name = args[0]
	}
	p := config.GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.PresetNames(), ", "))
	}

	dts := []float64{sim.Day / 4, sim.Day, 4 * sim.Day}
	horizon := 200 * sim.Year

	var runs []sim.SweepRun
	for _, stepper := range orbit.StepperNames() {
		for _, dt := range dts {
			runs = append(runs, sim.SweepRun{
				Label:   fmt.Sprintf("%s/%.2gd", stepper, dt/sim.Day),
				Stepper: stepper,
				Config: sim.Config{
					Dt:      dt,
					Horizon: horizon,
					Margin:  p.Config.Margin,
				},
			})
		}
	}

	fmt.Printf("benchmarking %s over %.0f years\n\n", name, horizon/sim.Year)

	sweep := sim.NewSweep(p.System(), orbit.G, p.Config.Epsilon)
	results := sweep.Run(context.Background(), runs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDT (D)\tSTEPS\tOUTCOME\tTIME\tSTEPS/SEC\tENERGY DRIFT")

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s\t%.2f\terror: %v\n", res.Run.Stepper, res.Run.Config.Dt/sim.Day, res.Err)
			continue
		}
		perSec := float64(res.Report.Steps) / res.Elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%s\t%v\t%.0f\t%.2e\n",
			res.Run.Stepper,
			res.Run.Config.Dt/sim.Day,
			res.Report.Steps,
			res.Report.Outcome,
			res.Elapsed.Round(time.Millisecond),
			perSec,
			res.Report.EnergyDrift,
		)
	}

	return w.Flush()
}
