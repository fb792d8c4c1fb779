package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/heatgrid/internal/config"
	"github.com/san-kum/heatgrid/internal/diffusion"
	"github.com/san-kum/heatgrid/internal/metrics"
	"github.com/san-kum/heatgrid/internal/sim"
	"github.com/san-kum/heatgrid/internal/storage"
	"github.com/san-kum/heatgrid/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir       string
	configFile    string
	steps         int
	snapshotEvery int
	workers       int
	checkField    bool
	dumpField     bool
	limit         float64
	// live view
	frameRate     int
	stepsPerFrame int
	theme         string
	// show / plot
	heatmap      bool
	snapshotStep int
	row          int
	col          int
)

// main registers the heatgrid commands and exits with status 1 when a
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "heatgrid",
		Short:        "2D heat diffusion simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatgrid", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&dumpField, "dump", false, "print the final field")
	runCmd.Flags().Float64Var(&limit, "limit", 1e6, "magnitude bound for the stability metric")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live heatmap",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&workers, "workers", 0, "row-parallel workers (0 or 1 is serial)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 50, "iterations per frame")
	liveCmd.Flags().StringVar(&theme, "theme", "inferno", "color theme")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run several presets concurrently and compare metrics",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	compareCmd.Flags().IntVar(&steps, "steps", 0, "iterations (0 uses each preset's value)")
	compareCmd.Flags().IntVar(&workers, "workers", 0, "row-parallel workers per run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the final field of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&heatmap, "heatmap", false, "render as heatmap")
	showCmd.Flags().IntVar(&snapshotStep, "step", -1, "show the snapshot at this step instead")
	showCmd.Flags().StringVar(&theme, "theme", "inferno", "color theme")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mass and peak history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&row, "row", -1, "also plot this row of the final field")
	plotCmd.Flags().IntVar(&col, "col", -1, "also plot this column of the final field")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "heatgrid.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "iterations")
	cmd.Flags().IntVar(&snapshotEvery, "snapshot-every", config.DefaultSnapshotEvery, "snapshot interval (0 keeps first and last)")
	cmd.Flags().IntVar(&workers, "workers", 0, "row-parallel workers (0 or 1 is serial)")
	cmd.Flags().BoolVar(&checkField, "check", false, "stop at the first non-finite value")
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		p, err := config.GetPreset(args[0])
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("snapshot-every") {
		cfg.SnapshotEvery = snapshotEvery
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("check") {
		cfg.CheckField = checkField
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunner(g *diffusion.Grid) *sim.Runner {
	r := sim.New(g)
	r.AddMetric(metrics.NewTotalMass())
	r.AddMetric(metrics.NewPeak())
	r.AddMetric(metrics.NewTrough())
	r.AddMetric(metrics.NewMassDrift())
	r.AddMetric(metrics.NewEnergy())
	r.AddMetric(metrics.NewEnergyDecay())
	r.AddMetric(metrics.NewStability(limit))
	return r
}

func runConfig(cfg *config.Config) sim.Config {
	return sim.Config{Steps: cfg.Steps, SnapshotEvery: cfg.SnapshotEvery, CheckField: cfg.CheckField}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	g, err := cfg.Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%dx%d, %d steps)...\n", cfg.Name, g.Rows(), g.Cols(), cfg.Steps)
	start := time.Now()

	result, runErr := newRunner(g).Run(ctx, runConfig(cfg))
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Name:          cfg.Name,
		Steps:         cfg.Steps,
		SnapshotEvery: cfg.SnapshotEvery,
		Workers:       g.Workers(),
	}
	for _, e := range diffusion.Edges {
		meta.Modes[e] = g.Mode(e).String()
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	status := viz.StatusRunning.Render("completed")
	if runErr != nil {
		status = viz.StatusPaused.Render("interrupted")
	} else if len(result.Errors) > 0 {
		status = viz.StatusError.Render("stopped")
	}
	fmt.Printf("%s in %v\n", status, elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d/%d\n", result.StepsTaken, cfg.Steps)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)

	if dumpField {
		fmt.Println()
		if _, err := diffusion.Write(os.Stdout, result.Final()); err != nil {
			return err
		}
	}
	return runErr
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println("  " + viz.Metric(name, fmt.Sprintf("%.6f", m[name])))
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)

	m, err := viz.NewLiveModel(cfg.Name, cfg.Build, stepsPerFrame, frameRate)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	jobs := make([]sim.Job, 0, len(args))
	for _, name := range args {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		if steps > 0 {
			cfg.Steps = steps
		}
		cfg.Workers = workers
		g, err := cfg.Build()
		if err != nil {
			return err
		}
		jobs = append(jobs, sim.Job{Name: name, Runner: newRunner(g), Config: runConfig(cfg)})
	}

	fmt.Printf("running %d presets concurrently...\n\n", len(jobs))
	start := time.Now()
	results := sim.RunBatch(context.Background(), jobs)
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tMASS\tPEAK\tTROUGH\tDRIFT\tDISSIPATED\tSTATUS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t%v\n", r.Name, r.Err)
			continue
		}
		status := "ok"
		if len(r.Result.Errors) > 0 {
			status = r.Result.Errors[0].Error()
		}
		m := r.Result.Metrics
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.2e\t%.1f%%\t%s\n",
			r.Name,
			r.Result.StepsTaken,
			m["total_mass"],
			m["peak"],
			m["trough"],
			m["mass_drift"],
			100*m["energy_decay"],
			status,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tSTEPS\tMODES (L/R/T/B)")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d/%d\t%s/%s/%s/%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows, run.Cols,
			run.StepsTaken, run.Steps,
			run.Modes[0], run.Modes[1], run.Modes[2], run.Modes[3],
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	m, err := st.LoadField(runID)
	if snapshotStep >= 0 {
		available, serr := st.Snapshots(runID)
		if serr != nil {
			return serr
		}
		if !slices.Contains(available, snapshotStep) {
			return fmt.Errorf("no snapshot at step %d (available: %v)", snapshotStep, available)
		}
		m, err = st.LoadSnapshot(runID, snapshotStep)
	}
	if err != nil {
		return err
	}

	if heatmap {
		t := viz.GetTheme(theme)
		fmt.Print(viz.Heatmap(m, t))
		fmt.Println(viz.Legend(m, t))
		return nil
	}
	_, err = diffusion.Write(os.Stdout, m)
	return err
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(tr.Steps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d\n", meta.Rows, meta.Cols)
	fmt.Printf("samples: %d\n\n", len(tr.Steps))

	fmt.Println(viz.Profile(tr.Mass, "total mass", 10, 70))
	fmt.Println()
	fmt.Println(viz.Profile(tr.Peak, "peak", 10, 70))
	fmt.Println()

	if row < 0 && col < 0 {
		return nil
	}
	field, err := st.LoadField(runID)
	if err != nil {
		return err
	}
	r, c := field.Dims()
	if row >= 0 {
		if row >= r {
			return fmt.Errorf("row %d outside %dx%d field", row, r, c)
		}
		fmt.Println(asciigraph.Plot(viz.Row(field, row), asciigraph.Height(10), asciigraph.Caption(fmt.Sprintf("row %d", row))))
		fmt.Println()
	}
	if col >= 0 {
		if col >= c {
			return fmt.Errorf("column %d outside %dx%d field", col, r, c)
		}
		fmt.Println(viz.Profile(viz.Col(field, col), fmt.Sprintf("column %d", col), 10, 0))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).ReadHistoryCSV(args[0])
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tGRID\tSTEPS\tMODES (L/R/T/B)")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		b := cfg.Boundary
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%s/%s/%s/%s\n",
			name, cfg.Rows, cfg.Cols, cfg.Steps,
			b.Left.Mode, b.Right.Mode, b.Top.Mode, b.Bottom.Mode,
		)
	}
	return w.Flush()
}
