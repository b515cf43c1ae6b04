package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/ensemble"
	"github.com/san-kum/spinsim/internal/metrics"
	"github.com/san-kum/spinsim/internal/storage"
	"github.com/san-kum/spinsim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	systems     int
	shards      int
	dt          float64
	duration    float64
	sampleEvery int
	configFile  string
	preset      string
	frameRate   int
	benchSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spinsim",
		Short: "sharded ensemble simulation of a ball in a spinning container",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an ensemble and record diagnostics",
		RunE:  runEnsemble,
	}
	addEnsembleFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record diagnostics every N ticks")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run an ensemble with a live terminal monitor",
		RunE:  watchEnsemble,
	}
	addEnsembleFlags(watchCmd)
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "monitor tick rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's diagnostic series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping across shard counts",
		RunE:  benchShards,
	}
	addEnsembleFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSteps, "steps", 300, "steps per configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				cfg := config.GetPreset(name)
				fmt.Printf("%-10s %d systems / %d shards, %.0fs\n",
					name, cfg.Systems, cfg.Shards, cfg.Duration)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, listCmd, plotCmd, exportCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEnsembleFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&systems, "systems", config.DefaultSystems, "number of simulated systems")
	cmd.Flags().IntVar(&shards, "shards", config.DefaultShards, "number of worker shards")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers defaults, preset, config file and explicit flags,
// in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
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

	if cmd.Flags().Changed("systems") {
		cfg.Systems = systems
	}
	if cmd.Flags().Changed("shards") {
		cfg.Shards = shards
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ens, err := ensemble.New(cfg.Systems, cfg.Shards)
	if err != nil {
		return err
	}
	defer ens.Close()

	baseline := ens.Reset()
	drift := metrics.NewEnergyDrift(baseline)
	rate := metrics.NewStepRate()

	series := &storage.Series{}
	var snapshot []float32

	fmt.Printf("running %d systems across %d shards...\n", cfg.Systems, cfg.Shards)
	start := time.Now()

	ticks := cfg.Ticks()
	for tick := 1; tick <= ticks; tick++ {
		total := ens.Step(cfg.Dt)
		drift.Observe(total)
		rate.Observe()

		if tick%cfg.SampleEvery == 0 {
			snapshot = ens.Snapshot(snapshot)
			series.Times = append(series.Times, float64(tick)*cfg.Dt)
			series.Energy = append(series.Energy, total)
			series.Drift = append(series.Drift, drift.Last())
			series.Spread = append(series.Spread, analysis.Spread(snapshot))
		}
	}

	elapsed := time.Since(start)

	results := map[string]float64{
		"energy_drift":        drift.Value(),
		"divergence_exponent": analysis.DivergenceExponent(series.Spread, cfg.Dt*float64(cfg.SampleEvery)),
		"step_rate":           rate.Value(),
	}

	runID, err := st.Save(cfg, ticks, results, series)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(results) {
		fmt.Printf("  %s: %.6g\n", name, results[name])
	}

	if len(series.Spread) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series.Spread,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("ensemble spread"),
		))
	}

	return nil
}

func watchEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ens, err := ensemble.New(cfg.Systems, cfg.Shards)
	if err != nil {
		return err
	}
	defer ens.Close()

	return tui.Run(ens, cfg.Dt, frameRate)
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
	fmt.Fprintln(w, "ID\tTIME\tSYSTEMS\tSHARDS\tDURATION\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2fs\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Systems,
			run.Shards,
			run.Duration,
			run.Metrics["energy_drift"],
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

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("systems: %d across %d shards\n", meta.Systems, meta.Shards)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, plot := range []struct {
		caption string
		data    []float64
	}{
		{"aggregate energy", series.Energy},
		{"relative energy drift", series.Drift},
		{"ensemble spread", series.Spread},
	} {
		fmt.Println(asciigraph.Plot(plot.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(plot.caption),
		))
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

func benchShards(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHARDS\tSYSTEMS\tSTEPS\tELAPSED\tSTEPS/SEC")

	for _, n := range []int{1, 2, 4, 8, 16} {
		if n > cfg.Systems {
			break
		}

		ens, err := ensemble.New(cfg.Systems, n)
		if err != nil {
			return err
		}
		ens.Reset()

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			ens.Step(cfg.Dt)
		}
		elapsed := time.Since(start)
		ens.Close()

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			n, cfg.Systems, benchSteps,
			elapsed.Round(time.Millisecond),
			float64(benchSteps)/elapsed.Seconds(),
		)
	}

	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
