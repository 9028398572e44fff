package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"gravfield/internal/config"
	"gravfield/internal/device"
	"gravfield/internal/device/cpu"
	"gravfield/internal/device/opencl"
	"gravfield/internal/particles"
	"gravfield/internal/sim"
)

func main() {
	flag.Parse()
	if err := setupLogging(*logLevelFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(); err != nil {
		slog.Error("gravfield stopped", "err", err)
		os.Exit(1)
	}
}

// setupLogging installs a text slog handler on stderr at the named level.
func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return nil
}

func run() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			return fmt.Errorf("starting cpu profile: %w", err)
		}
		defer stop()
		slog.Info("cpu profile enabled", "path", *cpuProfileFlag)
	}

	dev, err := openDevice(settings)
	if err != nil {
		return err
	}
	defer dev.Close()
	slog.Info("device selected", "device", dev.Name())

	simCtx := sim.NewContext(*widthFlag, *heightFlag, settings.MaxPlanets)
	simCtx.Flags = sim.Flags{DrawField: settings.Draw.Field, DrawPoints: settings.Draw.Points}
	settings.Uniforms.Apply(&simCtx.Uniforms)

	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	u := simCtx.Uniforms
	spawner := particles.NewSpawner(seed, u.Scale, u.Tvmin, u.Tvmax)
	pair, err := sim.InitBuffers(dev, settings.Particles, spawner.Spawn)
	if err != nil {
		return err
	}

	queue := &sim.Queue{}
	g, err := newGame(sim.NewScheduler(simCtx, queue, dev, pair), queue, settings.Particles, dev.Name())
	if err != nil {
		return err
	}

	if *watchFlag {
		w, err := config.NewWatcher(*configFlag, settings, configReloadDebounce, func(s config.Settings) {
			queue.Push(sim.Tune(s.Uniforms.Apply))
		})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w.Start(ctx)
		defer w.Close()
	}

	ebiten.SetWindowSize(*widthFlag, *heightFlag)
	ebiten.SetWindowTitle("gravfield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetScreenClearedEveryFrame(false)
	return ebiten.RunGame(g)
}

// loadSettings layers the config file over the defaults and explicitly set
// flags over both.
func loadSettings() (config.Settings, error) {
	s := config.Defaults()
	s.Backend = *backendFlag
	s.Particles = *particlesFlag
	s.MaxPlanets = *maxPlanetsFlag
	s.Workers = *workersFlag
	s.Seed = *seedFlag

	if err := config.CheckWatch(*watchFlag, *configFlag); err != nil {
		return s, err
	}
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag, s)
		if err != nil {
			return s, fmt.Errorf("loading %s: %w", *configFlag, err)
		}
		s = loaded
		slog.Info("config loaded", "path", *configFlag)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			s.Backend = *backendFlag
		case "particles":
			s.Particles = *particlesFlag
		case "max-planets":
			s.MaxPlanets = *maxPlanetsFlag
		case "workers":
			s.Workers = *workersFlag
		case "seed":
			s.Seed = *seedFlag
		}
	})
	return s, s.Validate()
}

func openDevice(s config.Settings) (device.Device, error) {
	switch s.Backend {
	case "opencl":
		d, err := opencl.New()
		if err != nil {
			return nil, fmt.Errorf("opencl backend: %w", err)
		}
		return d, nil
	default:
		return cpu.New(s.Workers), nil
	}
}
