package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/swingsim/internal/analysis"
	"github.com/san-kum/swingsim/internal/automation"
	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/export"
	"github.com/san-kum/swingsim/internal/integrators"
	"github.com/san-kum/swingsim/internal/metrics"
	"github.com/san-kum/swingsim/internal/optim"
	"github.com/san-kum/swingsim/internal/sim"
	"github.com/san-kum/swingsim/internal/storage"
	"github.com/san-kum/swingsim/internal/viz"
)

var (
	dataDir    string
	length     float64
	mass       float64
	dragCoeff  float64
	angleDeg   float64
	velocity   float64
	windForce  float64
	dt         float64
	duration   float64
	restMode   string
	integrator string
	configFile string
	preset     string

	svgFrame    int
	forcesFrame int
	outFile     string

	dragMin, dragMax float64
	windMin, windMax float64
	dragSteps        int
	windSteps        int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swingsim",
		Short: "damped swing simulator",
		RunE:  runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".swingsim", "data directory")
	addParamFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angle, velocity and energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data and forces to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the angle",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot (angle vs velocity)",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write the seat trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "swing.svg", "output file")
	svgCmd.Flags().IntVar(&svgFrame, "frame", -1, "frame to draw the arm at (-1 = last)")

	forcesCmd := &cobra.Command{
		Use:   "forces [run_id]",
		Short: "print the force vectors at a frame",
		Args:  cobra.ExactArgs(1),
		RunE:  printForces,
	}
	forcesCmd.Flags().IntVar(&forcesFrame, "frame", 0, "frame index")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "stopping time over a drag/wind grid",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&dragMin, "drag-min", 0.1, "smallest drag coefficient")
	sweepCmd.Flags().Float64Var(&dragMax, "drag-max", 1e4, "largest drag coefficient")
	sweepCmd.Flags().IntVar(&dragSteps, "drag-steps", 5, "drag grid points")
	sweepCmd.Flags().Float64Var(&windMin, "wind-min", 1, "smallest wind multiplier")
	sweepCmd.Flags().Float64Var(&windMax, "wind-max", 100, "largest wind multiplier")
	sweepCmd.Flags().IntVar(&windSteps, "wind-steps", 3, "wind grid points")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a batch of configurations from a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators on the same parameters",
		Args:  cobra.NoArgs,
		RunE:  compareIntegrators,
	}
	addParamFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLENGTH\tMASS\tANGLE\tDRAG\tWIND\tDURATION")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2fm\t%.1fkg\t%.1f°\t%g\t%g\t%.0fs\n", name, c.Length, c.Mass, c.AngleDegrees, c.DragCoeff, c.WindForce, c.Duration)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, playCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, phaseCmd, svgCmd, forcesCmd, sweepCmd, scenarioCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&length, "length", d.Length, "arm length (m)")
	cmd.Flags().Float64Var(&mass, "mass", d.Mass, "seat mass (kg)")
	cmd.Flags().Float64Var(&dragCoeff, "drag", d.DragCoeff, "drag coefficient")
	cmd.Flags().Float64Var(&angleDeg, "angle", d.AngleDegrees, "initial angle (degrees)")
	cmd.Flags().Float64Var(&velocity, "velocity", d.InitialVelocity, "initial angular velocity (rad/s)")
	cmd.Flags().Float64Var(&windForce, "wind", d.WindForce, "wind multiplier")
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", d.Duration, "duration")
	cmd.Flags().StringVar(&restMode, "rest-mode", d.RestMode, "rest detection: accumulating or consecutive")
	cmd.Flags().StringVar(&integrator, "integrator", d.Integrator, "integrator: "+strings.Join(integrators.Names(), ", "))
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("length") {
		cfg.Length = length
	}
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("drag") {
		cfg.DragCoeff = dragCoeff
	}
	if flags.Changed("angle") {
		cfg.AngleDegrees = angleDeg
	}
	if flags.Changed("velocity") {
		cfg.InitialVelocity = velocity
	}
	if flags.Changed("wind") {
		cfg.WindForce = windForce
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("rest-mode") {
		cfg.RestMode = restMode
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	return viz.RunInteractive(cfg.Form(), opts...)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	p := cfg.Parameters()
	opts = append(opts, sim.WithMetrics(metrics.Standard(p.Swing())...))

	fmt.Printf("running swing simulation (L=%.2fm m=%.1fkg drag=%g wind=%g angle=%.1f°)...\n",
		p.Length, p.Mass, p.DragCoeff, p.WindForce, cfg.AngleDegrees)
	start := time.Now()

	ts, err := sim.Simulate(p, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(ts, storage.RunInfo{RestMode: cfg.RestMode, Integrator: cfg.Integrator})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", ts.Len())
	fmt.Printf("cycles: %d\n", ts.Cycles)
	if ts.Stopped {
		fmt.Printf("swing came to a complete stop at t = %.2f seconds\n", ts.StoppingTime)
	} else {
		fmt.Printf("no rest detected within %.2f seconds (stopping time %.0f)\n", ts.EndTime(), ts.StoppingTime)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(ts.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, ts.Metrics[name])
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
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tSAMPLES\tSTOP\tREST\tINTEG")

	for _, run := range runs {
		stop := "-"
		if run.Stopped {
			stop = fmt.Sprintf("%.2fs", run.StoppingTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			stop,
			run.RestMode,
			run.Integrator,
		)
	}

	return w.Flush()
}

func loadSeries(runID string) (*sim.TimeSeries, error) {
	ts, err := storage.New(dataDir).LoadSeries(runID)
	if err != nil {
		return nil, err
	}
	if ts.Len() == 0 {
		return nil, fmt.Errorf("run %s has no samples", runID)
	}
	return ts, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	ts, err := loadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d\n\n", ts.Len())

	plots := []struct {
		data    []float64
		caption string
	}{
		{ts.Angles, "angle (rad)"},
		{ts.Velocities, "angular velocity (rad/s)"},
		{ts.Energies, "energy (J)"},
	}
	for _, pl := range plots {
		graph := asciigraph.Plot(pl.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(pl.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	ts, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	return viz.Play(ts)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	ts, err := loadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n\n", runID)

	ps := analysis.PowerSpectrum(ts.Angles)
	if len(ps) > 4 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (angle)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if period, ok := analysis.DominantPeriod(ts); ok {
		fmt.Printf("dominant frequency: %.3f hz\n", 1/period)
		fmt.Printf("period (fft): %.3f s\n", period)
	} else {
		fmt.Println("no dominant frequency")
	}
	if period, ok := analysis.ZeroCrossingPeriod(ts); ok {
		fmt.Printf("period (zero crossings): %.3f s\n", period)
	}
	fmt.Printf("small-angle period: %.3f s\n", 2*math.Pi*math.Sqrt(ts.Params.Length/9.81))
	fmt.Printf("cycles: %d\n", ts.Cycles)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]
	ts, err := loadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", runID)
	fmt.Printf("x-axis: angle (rad), y-axis: velocity (rad/s)\n\n")
	fmt.Print(analysis.PhasePortraitToASCII(analysis.PhasePoints(ts), 70, 20))
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	ts, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	f := svgFrame
	if f < 0 {
		f = ts.Len() - 1
	}

	svg, err := export.SeriesToSVG(ts, f, 800, 600)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func printForces(cmd *cobra.Command, args []string) error {
	ts, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	fr, err := ts.Frame(forcesFrame)
	if err != nil {
		return err
	}
	forces, err := ts.Forces(forcesFrame)
	if err != nil {
		return err
	}

	fmt.Printf("frame %d at t=%.2fs (angle %.3f rad, velocity %.3f rad/s)\n\n", fr.Index, fr.Time, fr.Angle, fr.Velocity)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORCE\tX (N)\tY (N)\t|F| (N)")
	for _, row := range []struct {
		name string
		x, y float64
		norm float64
	}{
		{"weight", forces.Weight.X, forces.Weight.Y, forces.Weight.Norm()},
		{"tension", forces.Tension.X, forces.Tension.Y, forces.Tension.Norm()},
		{"air resistance", forces.Aero.X, forces.Aero.Y, forces.Aero.Norm()},
	} {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\n", row.name, row.x, row.y, row.norm)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// fail on a bad rest mode or integrator before starting any worker
	if _, err := cfg.Options(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	grid := optim.Grid{
		DragCoeffs: optim.Linspace(dragMin, dragMax, dragSteps),
		WindForces: optim.Linspace(windMin, windMax, windSteps),
	}
	fmt.Printf("sweeping %d runs (duration %.0fs)...\n\n", grid.Size(), cfg.Duration)

	points, err := optim.Sweep(ctx, cfg.Parameters(), grid, cfg.Options)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DRAG\tWIND\tSTOP\tCYCLES\tFINAL ENERGY")
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%g\t%g\terror: %v\t\t\n", p.DragCoeff, p.WindForce, p.Err)
			continue
		}
		at := "-"
		if p.Stopped {
			at = fmt.Sprintf("%.2fs", p.StoppingTime)
		}
		fmt.Fprintf(w, "%g\t%g\t%s\t%d\t%.3f\n", p.DragCoeff, p.WindForce, at, p.Cycles, p.FinalEnergy)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := optim.Earliest(points); ok {
		fmt.Printf("\nearliest rest: drag=%g wind=%g at t = %.2f s\n", best.DragCoeff, best.WindForce, best.StoppingTime)
	} else {
		fmt.Println("\nno configuration came to rest")
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d runs\n", sc.Name, len(sc.Runs))
	results, err := automation.RunScenario(ctx, sc, st)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("  %-20s failed: %v\n", r.Name, r.Err)
		case r.Series.Stopped:
			fmt.Printf("  %-20s %s  stopped at %.2fs\n", r.Name, r.RunID, r.Series.StoppingTime)
		default:
			fmt.Printf("  %-20s %s  no rest in %.0fs\n", r.Name, r.RunID, r.Series.EndTime())
		}
	}
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	mode, ok := sim.ParseRestMode(cfg.RestMode)
	if !ok {
		return fmt.Errorf("unknown rest mode %q", cfg.RestMode)
	}
	p := cfg.Parameters()

	fmt.Printf("comparing integrators (dt=%.4f, duration=%.1fs)\n\n", p.Dt, p.Duration)
	fmt.Printf("%-14s  %-8s  %-12s  %-12s  %-10s\n", "integrator", "steps", "final_energy", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 64))

	for _, name := range integrators.Names() {
		integ, err := integrators.ByName(name)
		if err != nil {
			return err
		}

		drift := metrics.NewEnergyDrift(p.Swing())
		start := time.Now()
		ts, err := sim.Simulate(p, sim.WithIntegrator(integ), sim.WithRestMode(mode), sim.WithMetrics(drift))
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}
		if ts.Len() == 0 {
			continue
		}

		fmt.Printf("%-14s  %8d  %12.4f  %12.2e  %10.2f\n", name, ts.Len(), ts.Energies[ts.Len()-1], drift.Value(), float64(elapsed.Microseconds())/1000)
	}
	return nil
}
