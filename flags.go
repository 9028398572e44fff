package main

import "flag"

// Command-line flags. Values given explicitly win over the config file.
var (
	// backendFlag selects where the update program runs.
	backendFlag = flag.String("backend", defaultBackend, "update program backend: cpu or opencl (needs -tags opencl)")

	// particlesFlag sets the particle count for the whole run.
	particlesFlag = flag.Int("particles", defaultParticles, "number of particles")

	// maxPlanetsFlag bounds the planet registry.
	maxPlanetsFlag = flag.Int("max-planets", defaultMaxPlanets, "maximum number of planets (at most 10)")

	// workersFlag sizes the cpu backend; 0 uses GOMAXPROCS.
	workersFlag = flag.Int("workers", 0, "goroutines used by the cpu backend (0 = GOMAXPROCS)")

	seedFlag = flag.Uint64("seed", 0, "seed for the initial particle spread (0 = time based)")

	// configFlag names an optional TOML file with startup parameters.
	configFlag = flag.String("config", "", "path to a TOML config file")

	// watchFlag reloads the tunable parameters when the config file changes.
	watchFlag = flag.Bool("watch", false, "reload parameters when the config file changes")

	widthFlag  = flag.Int("width", defaultWidth, "initial window width")
	heightFlag = flag.Int("height", defaultHeight, "initial window height")

	// debugFlag enables the FPS and parameter overlay.
	debugFlag = flag.Bool("debug", false, "show FPS, timing and parameter overlay")

	logLevelFlag = flag.String("log-level", "info", "log level: debug, info, warn or error")

	// cpuProfileFlag writes a CPU profile for the whole run.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this path")
)
