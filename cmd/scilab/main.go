package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/scilab/internal/analysis"
	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/config"
	"github.com/san-kum/scilab/internal/gui"
	"github.com/san-kum/scilab/internal/model"
	"github.com/san-kum/scilab/internal/record"
	"github.com/san-kum/scilab/internal/scene"
	"github.com/san-kum/scilab/internal/sim"
	"github.com/san-kum/scilab/internal/store"
	"github.com/san-kum/scilab/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	configFile string
	preset     string
	setParams  []string
	seriesName string
	frameRate  int
	dispense   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scilab",
		Short: "interactive science simulations",
		Run: func(cmd *cobra.Command, args []string) {
			gui.RunInteractive(dataDir)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".scilab", "data directory")

	guiCmd := &cobra.Command{
		Use:   "gui [simulation]",
		Short: "open one simulation in the 3d viewport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := model.New(args[0]); err != nil {
				return err
			}
			gui.Run(args[0], dataDir)
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [simulation]",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "simulated step size")
	liveCmd.Flags().StringArrayVar(&setParams, "set", nil, "parameter override (name=value)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run [simulation]",
		Short: "run a simulation headless and save the series",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "simulated step size")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringArrayVar(&setParams, "set", nil, "parameter override (name=value)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().BoolVar(&dispense, "dispense", true, "open the burette (titration)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&seriesName, "series", "", "plot only one series")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesName, "series", "", "series to analyze (default: first)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to csv on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run series to json on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [simulation]",
		Short: "list available presets for a simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for simulation: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	cameraCmd := &cobra.Command{
		Use:   "camera",
		Short: "manage saved camera positions",
	}
	cameraShowCmd := &cobra.Command{
		Use:   "show [simulation]",
		Short: "print the saved camera position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(dataDir)
			rec, ok, err := st.LoadCamera(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("no saved camera for %s\n", args[0])
				return nil
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
	cameraClearCmd := &cobra.Command{
		Use:   "clear [simulation]",
		Short: "remove the saved camera position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ClearCamera(args[0])
		},
	}
	cameraCmd.AddCommand(cameraShowCmd, cameraClearCmd)

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd, cameraCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges preset, config file, and --set overrides for one
// simulation, in that precedence order.
func buildConfig(cmd *cobra.Command, simName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Simulation = simName

	if preset != "" {
		p := config.GetPreset(simName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(simName))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Simulation = simName
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	for _, kv := range setParams {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad --set value %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad --set value %q: %v", kv, err)
		}
		if cfg.Params == nil {
			cfg.Params = map[string]float64{}
		}
		cfg.Params[parts[0]] = v
	}
	return cfg, nil
}

func buildModel(cmd *cobra.Command, simName string) (sim.Model, *config.Config, error) {
	cfg, err := buildConfig(cmd, simName)
	if err != nil {
		return nil, nil, err
	}
	m, err := model.New(simName)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyTo(m); err != nil {
		return nil, nil, err
	}
	return m, cfg, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	simName := args[0]
	m, cfg, err := buildModel(cmd, simName)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rec := record.New(m.Series()...)
	clock := sim.NewClock(m, rec)
	clock.SetStep(cfg.Dt)
	if t, ok := m.(*model.Titration); ok && dispense {
		t.SetDispensing(true)
	}
	clock.Start()

	fmt.Printf("running %s simulation...\n", simName)
	start := time.Now()
	for clock.Elapsed() < cfg.Duration && clock.Running() {
		if _, err := clock.Advance(1.0); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	runID, err := st.SaveRun(simName, cfg.Dt, clock.Elapsed(), m.Params(), rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("simulated: %.2fs\n", clock.Elapsed())
	if clock.Terminal() {
		fmt.Println("ended at the model's terminal state")
	}
	fmt.Println("\nfinal values:")
	for _, name := range rec.Names() {
		if last, ok := rec.Last(name); ok {
			fmt.Printf("  %s: %.6f\n", name, last.Value)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	simName := args[0]
	m, cfg, err := buildModel(cmd, simName)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fps") || cfg.FrameRate == 0 {
		cfg.FrameRate = frameRate
	}

	driver := viz.NewCanvasDriver(simName)
	minD, maxD := m.ViewBounds()
	mgr := scene.NewManager(m, driver, camera.State{
		Azimuth:  0.6,
		Polar:    1.1,
		Distance: minD + (maxD-minD)*0.35,
	})
	mgr.Clock().SetStep(cfg.Dt)

	p := tea.NewProgram(viz.NewLive(mgr, driver, simName, cfg.FrameRate), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	mgr.Teardown()
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIMULATION\tTIME\tDURATION\tDT\tSERIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Simulation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			strings.Join(run.Series, ","),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("simulation: %s\n\n", meta.Simulation)

	names := meta.Series
	if seriesName != "" {
		names = []string{seriesName}
	}
	for _, name := range names {
		samples := series[name]
		if len(samples) < 2 {
			fmt.Printf("%s: not enough samples\n", name)
			continue
		}
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = s.Value
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	name := seriesName
	if name == "" {
		if len(meta.Series) == 0 {
			return fmt.Errorf("run has no series")
		}
		name = meta.Series[0]
	}
	samples, ok := series[name]
	if !ok || len(samples) < 4 {
		return fmt.Errorf("series %q has too little data", name)
	}

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Value
	}

	ps := analysis.PowerSpectrum(data)
	if len(ps) == 0 {
		return fmt.Errorf("no spectrum")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s\n\n", name)

	plotData := ps
	if len(plotData) > len(ps)/4 && len(ps)/4 > 8 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
	)
	fmt.Println(graph)
	fmt.Println()

	padded := analysis.PaddedLength(len(data))
	freq := analysis.DominantFrequency(ps, meta.Dt, padded)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(meta.Series) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, meta.Series...)
	if err := w.Write(header); err != nil {
		return err
	}
	ref := series[meta.Series[0]]
	for i := range ref {
		row := []string{strconv.FormatFloat(ref[i].Time, 'f', 6, 64)}
		for _, name := range meta.Series {
			v := 0.0
			if s := series[name]; i < len(s) {
				v = s[i].Value
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	out := struct {
		Meta   *store.RunMetadata         `json:"meta"`
		Series map[string][]record.Sample `json:"series"`
	}{meta, series}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
