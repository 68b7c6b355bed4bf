package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/san-kum/kinoplan/internal/config"
	"github.com/san-kum/kinoplan/internal/export"
	"github.com/san-kum/kinoplan/internal/follow"
	"github.com/san-kum/kinoplan/internal/metrics"
	"github.com/san-kum/kinoplan/internal/optim"
	"github.com/san-kum/kinoplan/internal/rrt"
	"github.com/san-kum/kinoplan/internal/sim"
	"github.com/san-kum/kinoplan/internal/smooth"
	"github.com/san-kum/kinoplan/internal/store"
	"github.com/san-kum/kinoplan/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	budget     int
	stepDt     float64
	controlDt  float64
	kp         float64
	ki         float64
	kd         float64
	index      string
	raw        bool
	resetSeg   bool
	frameRate  int
	svgWidth   int
	kpValues   string
	kdValues   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinoplan",
		Short: "kinodynamic planning and trajectory-following lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinoplan", "data directory")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "plan a path through the scenario",
		RunE:  runPlan,
	}
	addScenarioFlags(planCmd)
	planCmd.Flags().BoolVar(&raw, "raw", false, "skip the smoothing pass")

	followCmd := &cobra.Command{
		Use:   "follow",
		Short: "plan, smooth and drive the simulated agent along the path",
		RunE:  runFollow,
	}
	addScenarioFlags(followCmd)
	followCmd.Flags().Float64Var(&controlDt, "control-dt", config.DefaultControlDt, "control timestep")
	followCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	followCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	followCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	followCmd.Flags().BoolVar(&resetSeg, "reset-segments", false, "reset pid memory at segment transitions")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "follow the path with live terminal visualization",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().Float64Var(&controlDt, "control-dt", config.DefaultControlDt, "control timestep")
	liveCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	liveCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	liveCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	liveCmd.Flags().BoolVar(&resetSeg, "reset-segments", false, "reset pid memory at segment transitions")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's path deviation",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [out]",
		Short: "export a run's control trace to CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [out]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(dataDir).ExportJSON(args[0], args[1])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [out]",
		Short: "render a run over its scenario as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	addScenarioFlags(exportSVGCmd)
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search pid gains over the scenario",
		RunE:  runTune,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&controlDt, "control-dt", config.DefaultControlDt, "control timestep")
	tuneCmd.Flags().StringVar(&kpValues, "kp-values", "0.2,0.45,0.8,1.2", "comma-separated kp candidates")
	tuneCmd.Flags().StringVar(&kdValues, "kd-values", "0,0.25,0.5,1.0", "comma-separated kd candidates")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(planCmd, followCmd, liveCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, tuneCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named scenario preset")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&budget, "budget", 0, "planner iteration budget (0 = scenario value)")
	cmd.Flags().Float64Var(&stepDt, "step-dt", 0, "planner simulation timestep (0 = scenario value)")
	cmd.Flags().StringVar(&index, "index", "", "nearest-neighbor index: linear or rtree")
}

// loadScenario resolves preset/config/flag layering into one validated
// scenario. Flags override scenario-file values only when actually set on
// the command line.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
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
			return nil, err
		}
		cfg = loaded
	}
	if budget > 0 {
		cfg.Budget = budget
	}
	if stepDt > 0 {
		cfg.StepDt = stepDt
	}
	if index != "" {
		cfg.Index = index
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

// plan runs the planner and, unless raw, the shortcut pass.
func plan(cfg *config.Config) ([]orb.Point, *rrt.Result, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	planner, err := rrt.New(cfg.Workspace(), cfg.ObstacleList(), cfg.GoalRegion(), rrt.Options{
		Budget: cfg.Budget,
		StepDt: cfg.StepDt,
		Margin: cfg.Margin,
		Index:  cfg.Index,
	}, rng)
	if err != nil {
		return nil, nil, err
	}

	res, err := planner.Plan(context.Background(), cfg.StartPoint())
	if err != nil {
		return nil, nil, err
	}

	path := res.Path
	if !raw {
		path = smooth.Shortcut(path, cfg.Workspace(), cfg.ObstacleList(), smooth.Options{
			Attempts: cfg.Smoothing.Attempts,
			Margin:   cfg.Margin,
			Samples:  cfg.Smoothing.Samples,
		}, rng)
	}
	return path, res, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	path, res, err := plan(cfg)
	if errors.Is(err, rrt.ErrNoPath) {
		fmt.Printf("no path found within %d iterations\n", cfg.Budget)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("path found: %d waypoints (%d raw, %d tree nodes, %d iterations)\n",
		len(path), len(res.Path), res.Tree.Len(), res.Iterations)
	for i, p := range path {
		fmt.Printf("  %2d: (%.4f, %.4f)\n", i, p[0], p[1])
	}

	canvas := viz.NewCanvas(80, 24, cfg.Workspace())
	canvas.DrawScene(cfg.ObstacleList(), cfg.GoalRegion(), path)
	fmt.Println(canvas.String())

	return saveRun(cfg, path, nil, nil)
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	applyControllerFlags(cmd, cfg)

	path, _, err := plan(cfg)
	if errors.Is(err, rrt.ErrNoPath) {
		fmt.Printf("no path found within %d iterations\n", cfg.Budget)
		return nil
	}
	if err != nil {
		return err
	}

	follower, actuator, mets, err := buildFollower(cfg)
	if err != nil {
		return err
	}
	var trace []follow.Sample
	follower.AddObserver(observerFunc(func(s follow.Sample) { trace = append(trace, s) }))

	if err := follower.Follow(context.Background(), path); err != nil {
		return err
	}

	final := actuator.Position()
	fmt.Printf("followed %d segments in %.2fs simulated time, final position (%.4f, %.4f)\n",
		len(path)-1, follower.Time(), final[0], final[1])
	for _, m := range mets {
		fmt.Printf("  %s: %.4f\n", m.Name(), m.Value())
	}
	fmt.Println()
	fmt.Println(viz.DeviationPlot(trace, 60, 8))

	return saveRun(cfg, path, trace, mets)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	applyControllerFlags(cmd, cfg)

	path, _, err := plan(cfg)
	if errors.Is(err, rrt.ErrNoPath) {
		fmt.Printf("no path found within %d iterations\n", cfg.Budget)
		return nil
	}
	if err != nil {
		return err
	}

	follower, actuator, _, err := buildFollower(cfg)
	if err != nil {
		return err
	}

	model, err := viz.NewModel(follower, actuator, path, cfg.ObstacleList(), cfg.GoalRegion(), cfg.Workspace(), cfg.Controller.Dt, frameRate)
	if err != nil {
		return err
	}
	follower.AttachFrame(model)
	return viz.RunLive(model)
}

// applyControllerFlags layers command-line gains over the scenario, keeping
// scenario values for any flag left at its default.
func applyControllerFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("kp") {
		cfg.Controller.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.Controller.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.Controller.Kd = kd
	}
	if cmd.Flags().Changed("control-dt") {
		cfg.Controller.Dt = controlDt
	}
	if resetSeg {
		cfg.Controller.ResetBetweenSegments = true
	}
}

func buildFollower(cfg *config.Config) (*follow.Follower, *sim.PointMass, []metrics.Metric, error) {
	actuator, err := sim.NewPointMass(cfg.StartPoint(), cfg.Controller.Dt)
	if err != nil {
		return nil, nil, nil, err
	}

	ctl := cfg.Controller
	follower := follow.New(actuator,
		follow.NewPID(ctl.Kp, ctl.Ki, ctl.Kd),
		follow.NewPID(ctl.Kp, ctl.Ki, ctl.Kd),
		follow.Options{
			Dt:                   ctl.Dt,
			Arrival:              ctl.Arrival,
			Cruise:               ctl.Cruise,
			Floor:                ctl.Floor,
			Slowdown:             ctl.Slowdown,
			ResetBetweenSegments: ctl.ResetBetweenSegments,
		})

	mets := []metrics.Metric{
		metrics.NewControlEffort(),
		metrics.NewMaxDeviation(),
		metrics.NewPathLength(),
	}
	for _, m := range mets {
		follower.AddObserver(m)
	}
	return follower, actuator, mets, nil
}

type observerFunc func(follow.Sample)

func (f observerFunc) OnTick(s follow.Sample) { f(s) }

func saveRun(cfg *config.Config, path []orb.Point, trace []follow.Sample, mets []metrics.Metric) error {
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	name := preset
	if name == "" {
		name = "scenario"
	}
	metricValues := make(map[string]float64, len(mets))
	for _, m := range mets {
		metricValues[m.Name()] = m.Value()
	}

	runID, err := st.Save(store.RunMetadata{
		Preset:    name,
		Seed:      cfg.Seed,
		Budget:    cfg.Budget,
		StepDt:    cfg.StepDt,
		ControlDt: cfg.Controller.Dt,
		Kp:        cfg.Controller.Kp,
		Ki:        cfg.Controller.Ki,
		Kd:        cfg.Controller.Kd,
		Metrics:   metricValues,
	}, path, trace)
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWAYPOINTS\tSEED\tBUDGET\tKP\tKD")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.2f\n", r.ID, r.Waypoints, r.Seed, r.Budget, r.Kp, r.Kd)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	trace, err := store.New(dataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.DeviationPlot(trace, 70, 12))
	return nil
}

// exportSVG draws a saved run over the scenario geometry resolved from the
// usual preset/config flags.
func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	path, err := st.LoadPath(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	tracePts := make([]orb.Point, len(trace))
	for i, s := range trace {
		tracePts[i] = s.Pos
	}

	doc := export.SceneSVG(export.Scene{
		Workspace: cfg.Workspace(),
		Obstacles: cfg.ObstacleList(),
		Goal:      cfg.GoalRegion(),
		Path:      path,
		Trace:     tracePts,
	}, svgWidth)
	if doc == "" {
		return fmt.Errorf("nothing to render for run %s", args[0])
	}
	return os.WriteFile(args[1], []byte(doc), 0644)
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("control-dt") {
		cfg.Controller.Dt = controlDt
	}

	path, _, err := plan(cfg)
	if errors.Is(err, rrt.ErrNoPath) {
		fmt.Printf("no path found within %d iterations\n", cfg.Budget)
		return nil
	}
	if err != nil {
		return err
	}

	kps, err := parseFloats(kpValues)
	if err != nil {
		return fmt.Errorf("kp-values: %w", err)
	}
	kds, err := parseFloats(kdValues)
	if err != nil {
		return fmt.Errorf("kd-values: %w", err)
	}

	search, err := optim.NewGridSearch([]string{"kp", "kd"}, [][]float64{kps, kds})
	if err != nil {
		return err
	}

	best, cost, err := search.Search(context.Background(), func(ctx context.Context, params map[string]float64) (float64, error) {
		trial := *cfg
		trial.Controller.Kp = params["kp"]
		trial.Controller.Kd = params["kd"]
		return settleTime(ctx, &trial, path)
	})
	if err != nil {
		return err
	}

	fmt.Printf("best gains over %d combinations: kp=%.3f kd=%.3f (settle time %.2fs)\n",
		len(kps)*len(kds), best["kp"], best["kd"], cost)
	return nil
}

// settleTime drives one gain combination along the path and reports the
// simulated time to completion. Combinations that do not settle within the
// tick cap are reported as failures so the sweep skips them.
func settleTime(ctx context.Context, cfg *config.Config, path []orb.Point) (float64, error) {
	follower, _, _, err := buildFollower(cfg)
	if err != nil {
		return 0, err
	}
	if err := follower.Begin(path); err != nil {
		return 0, err
	}

	const tickCap = 500000
	for i := 0; i < tickCap && !follower.Done(); i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		follower.Tick()
	}
	if !follower.Done() {
		return 0, fmt.Errorf("did not settle within %d ticks", tickCap)
	}
	return follower.Time(), nil
}

func parseFloats(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	trace, err := store.New(dataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "segment", "x", "y", "ux", "uy", "deviation"}); err != nil {
		return err
	}
	for _, s := range trace {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.Itoa(s.Segment),
			strconv.FormatFloat(s.Pos[0], 'f', 6, 64),
			strconv.FormatFloat(s.Pos[1], 'f', 6, 64),
			strconv.FormatFloat(s.Control[0], 'f', 6, 64),
			strconv.FormatFloat(s.Control[1], 'f', 6, 64),
			strconv.FormatFloat(s.Deviation, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
