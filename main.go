package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/camera"
	"github.com/pthm-cable/tank/config"
	"github.com/pthm-cable/tank/denizen"
	"github.com/pthm-cable/tank/game"
	"github.com/pthm-cable/tank/inspector"
	"github.com/pthm-cable/tank/renderer"
	"github.com/pthm-cable/tank/termview"
	"github.com/pthm-cable/tank/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("term", false, "Run in the terminal")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Frames per update call in headless mode")
	frameMS := flag.Int("frame-ms", 50, "Terminal frame interval in milliseconds")
	assets := flag.String("assets", ".", "Directory image URIs are resolved against")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
		if err := cfg.Finalize(); err != nil {
			slog.Error("invalid stats window", "error", err)
			os.Exit(1)
		}
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// The terminal view owns stdout, so logs go to the output directory or nowhere
	var logOut io.Writer = os.Stdout
	if *term {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0755); err == nil {
				if f, err := os.Create(filepath.Join(*outputDir, "run.log")); err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case *headless:
		err = runHeadless(ctx, opts, *maxFrames)
	case *term:
		err = runTerminal(ctx, opts, time.Duration(*frameMS)*time.Millisecond)
	default:
		runWindow(cfg, opts, *assets, *maxFrames)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(ctx context.Context, opts game.Options, maxFrames int) error {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_frames", maxFrames,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		select {
		case <-ctx.Done():
			g.LogSummary("interrupted")
			return nil
		default:
		}

		g.UpdateHeadless()

		if maxFrames > 0 && g.Frame() >= uint64(maxFrames) {
			g.LogSummary("max frames reached")
			return nil
		}
	}
}

func runTerminal(ctx context.Context, opts game.Options, frame time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	err = termview.New(screen).Run(ctx, g, frame)
	g.LogSummary("terminal session ended")
	if err == context.Canceled {
		return nil
	}
	return err
}

func runWindow(cfg *config.Config, opts game.Options, assets string, maxFrames int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	water := renderer.NewWaterBackground(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	sprites := renderer.NewDenizenRenderer(assets)
	defer sprites.Unload()
	hud := ui.NewHUD(10, 10)
	cam := camera.New(g.Tank().Bounds())
	ins := inspector.NewInspector(int32(cfg.Screen.Width))

	for !rl.WindowShouldClose() {
		sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

		// Window resize propagation; a tank sized by config keeps its bounds
		if rl.IsWindowResized() {
			water.Resize(sw, sh)
			ins.Resize(sw)
			if cfg.Tank.Width == 0 && cfg.Tank.Height == 0 {
				g.Tank().Resize(denizen.Bounds{MaxX: float64(sw), MaxY: float64(sh)})
			}
			cam.SetTank(g.Tank().Bounds())
		}

		vp := renderer.Viewport{Bounds: cam.Visible(), ScreenW: float32(sw), ScreenH: float32(sh)}
		ui.HandleKeys(g)
		renderer.HandleCamera(cam, vp)
		vp.Bounds = cam.Visible()
		if !ins.HandleInput(g, vp) {
			renderer.HandleClick(g, vp, hud.Bounds(), ins.Bounds())
		}

		g.Update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		water.Draw(float32(g.SimTime().Seconds()))
		sprites.Draw(g.Tank().Snapshot(), vp)
		ins.DrawSelectionHighlight(g, vp)
		hud.Draw(g, cfg.Screen.Title)
		ins.Draw(g)
		hud.DrawControls(sh)
		rl.EndDrawing()

		g.RecordFrame()

		if maxFrames > 0 && g.Frame() >= uint64(maxFrames) {
			break
		}
	}
	g.LogSummary("window closed")
}
