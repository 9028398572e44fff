package main

import "time"

// Window, particle system and input configuration defaults. Flags and the
// optional TOML file override them.
const (
	defaultWidth          = 1280
	defaultHeight         = 720
	defaultParticles      = 100000
	defaultMaxPlanets     = 10
	defaultBackend        = "cpu"
	pointSize             = 1.5
	pointAlpha            = 0.6
	keyRepeatDelay        = 30
	keyRepeatInterval     = 3
	configReloadDebounce  = 100 * time.Millisecond
	overlayRefreshSeconds = 0.5
)
