package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/hashicorp/go-hclog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samcarey/aetherweave/internal/app"
	"github.com/samcarey/aetherweave/internal/config"
	"github.com/samcarey/aetherweave/internal/logging"
	"github.com/samcarey/aetherweave/internal/orbit"
	"github.com/samcarey/aetherweave/internal/render"
	"github.com/samcarey/aetherweave/internal/sim"
	"github.com/samcarey/aetherweave/internal/storage"
	"github.com/samcarey/aetherweave/internal/view"
)

var (
	dataDir    string
	configFile string
	roster     string
	logLevel   string

	duration float64
	fps      int
	speed    float64
	speeds   []float64

	plotBody string
	outFile  string
	theme    string

	// snapshot
	at         float64
	width      int
	height     int
	bodyRadius float64
	margin     float64
	selectName string
	noOrbits   bool
)

// main registers the commands and flags and executes the root command.
// Without a subcommand the interactive orrery starts when stdout is a
// terminal; otherwise the roster is printed.
func main() {
	rootCmd := &cobra.Command{
		Use:          "aetherweave",
		Short:        "terminal orrery",
		SilenceUsage: true,
		RunE:         runRoot,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".aetherweave", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&roster, "roster", config.DefaultRoster, "body roster preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(render.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "real-time duration in seconds (default from config)")
	runCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	runCmd.Flags().Float64Var(&speed, "speed", 0, "simulated seconds per real second (default from config)")
	runCmd.Flags().Float64SliceVar(&speeds, "speeds", nil, "compare several speeds instead of storing a run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance from the origin per body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "", "only plot this body")

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	snapshotCmd.Flags().Float64Var(&at, "at", 0, "real seconds to advance before rendering")
	snapshotCmd.Flags().IntVar(&width, "width", 800, "image width in pixels")
	snapshotCmd.Flags().IntVar(&height, "height", 600, "image height in pixels")
	snapshotCmd.Flags().Float64Var(&bodyRadius, "body-radius", 10, "body radius in pixels")
	snapshotCmd.Flags().Float64Var(&margin, "margin", 10, "margin in pixels")
	snapshotCmd.Flags().StringVar(&selectName, "select", "", "highlight this body")
	snapshotCmd.Flags().BoolVar(&noOrbits, "no-orbits", false, "omit orbit rings")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "show the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return printBodies(os.Stdout, cfg)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list roster presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, snapshotCmd, bodiesCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, then applies flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("roster") {
		cfg.Roster = roster
		cfg.Bodies = nil
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Lookup("speed") != nil && flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return printBodies(os.Stdout, cfg)
	}

	log, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	sys, err := cfg.System()
	if err != nil {
		return err
	}

	kv, err := storage.OpenKV(cfg.SessionBackend, cfg.SessionPath)
	if err != nil {
		log.Warn("session storage unavailable", "backend", cfg.SessionBackend, "path", cfg.SessionPath, "error", err)
	} else {
		defer kv.Close()
	}

	log.Info("starting", "roster", cfg.RosterName(), "bodies", sys.Len(), "speed", cfg.Speed)
	return app.Run(app.New(sys, cfg, log, kv))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	sys, err := cfg.System()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simCfg := sim.Config{FrameDt: cfg.FrameDt(), Duration: cfg.Duration, Speed: cfg.Speed}

	if len(speeds) > 0 {
		return compareSpeeds(ctx, log, sys, simCfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s roster...\n", cfg.RosterName())
	start := time.Now()

	s := sim.NewWithDefaultMetrics()
	s.AddObserver(newProgress(log, simCfg.Steps()))
	result, err := s.Run(ctx, sys, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	log.Debug("run finished", "frames", len(result.States), "elapsed", elapsed)

	runID, err := st.Save(cfg.RosterName(), simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.States))
	fmt.Printf("simulated: %.2f days\n", result.Times[len(result.Times)-1]/86400)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func compareSpeeds(ctx context.Context, log hclog.Logger, sys *orbit.System, cfg sim.Config) error {
	log.Info("comparing speeds", "speeds", speeds)
	results, err := sim.NewSweep(sim.NewWithDefaultMetrics, speeds).Run(ctx, sys, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tSIMULATED\tRADIAL DRIFT\tMAX DIST")
	for i, r := range results {
		fmt.Fprintf(w, "%.0e\t%.2f days\t%.4f\t%.3f AU\n",
			speeds[i],
			r.Times[len(r.Times)-1]/86400,
			r.Metrics["radial_drift"],
			r.Metrics["max_distance_au"],
		)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

// progress logs how far a headless run has got, once per tenth of its
// frames.
type progress struct {
	log   hclog.Logger
	total int
	every int
	step  int
}

func newProgress(log hclog.Logger, total int) *progress {
	return &progress{log: log, total: total, every: max(total/10, 1)}
}

func (p *progress) OnStep(sys *orbit.System, t float64) {
	if p.step > 0 && p.step%p.every == 0 {
		p.log.Info("progress", "frame", p.step, "of", p.total, "days", t/86400)
	}
	p.step++
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
	fmt.Fprintln(w, "ID\tROSTER\tTIME\tDURATION\tSPEED\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.0e\t%d\n",
			run.ID,
			run.Roster,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Speed,
			len(run.Bodies),
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

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("roster: %s\n", meta.Roster)
	fmt.Printf("samples: %d over %.2f days\n\n", len(states), times[len(times)-1]/86400)

	plotted := 0
	for i, name := range meta.Bodies {
		if plotBody != "" && name != plotBody {
			continue
		}

		data := make([]float64, len(states))
		for j, s := range states {
			if 2*i+1 < len(s) {
				x, y := s.Body(i)
				data[j] = math.Hypot(x, y) / orbit.AU
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s distance (AU)", name)),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("body %q not in run %s", plotBody, runID)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	out, closeOut, err := openOut()
	if err != nil {
		return err
	}
	defer closeOut()

	return storage.New(dataDir).ExportJSON(out, args[0])
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	sys, err := cfg.System()
	if err != nil {
		return err
	}

	if at > 0 {
		err := sim.New().RunWithCallback(context.Background(), sys,
			sim.Config{FrameDt: cfg.FrameDt(), Duration: at, Speed: cfg.Speed},
			func(*orbit.System, float64) bool { return true })
		if err != nil {
			return err
		}
	}

	vp := view.Rect{Size: r2.Vec{X: float64(width), Y: float64(height)}}
	if err := vp.Validate(); err != nil {
		log.Warn("snapshot viewport", "error", err)
	}
	v := view.Fit(sys.Positions(), vp, bodyRadius, margin)

	var sel view.Selection
	if selectName != "" && !sel.SelectByName(sys, selectName) {
		log.Warn("unknown body", "name", selectName)
	}

	cmds := render.BuildFrame(sys, v, vp.Center(), sel, render.Options{BodyRadius: bodyRadius, ShowOrbits: !noOrbits})
	log.Debug("snapshot", "commands", len(cmds), "scale", v.Scale)

	out, closeOut, err := openOut()
	if err != nil {
		return err
	}
	defer closeOut()

	_, err = io.WriteString(out, render.SVG(cmds, width, height, colorful.Color{}))
	return err
}

func openOut() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func printBodies(w io.Writer, cfg *config.Config) error {
	sys, err := cfg.System()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMASS\tORBIT\tSPEED\tCOLOR")
	sys.Each(func(_ orbit.Handle, b *orbit.Body) bool {
		fmt.Fprintf(tw, "%s\t%.1f x Earth\t%.3f AU\t%.1f km/s\t%s\n",
			b.Name,
			b.EarthMasses(),
			b.OrbitRadius()/orbit.AU,
			b.SpeedKmPerSec(),
			b.Color.Hex(),
		)
		return true
	})
	return tw.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	out := make(map[string][]string)
	for _, name := range config.ListRosters() {
		for _, s := range config.GetRoster(name) {
			out[name] = append(out[name], s.Name)
		}
	}
	return enc.Encode(out)
}
