// Package config loads startup settings from TOML and watches the file for
// parameter changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"gravfield/internal/planets"
	"gravfield/internal/uniforms"
)

// Tunables are the parameters a running simulation accepts from the file.
type Tunables struct {
	Tvmin float32 `toml:"tvmin"`
	Tvmax float32 `toml:"tvmax"`
	Alpha float32 `toml:"alpha"`
	Beta  float32 `toml:"beta"`
	Vmin  float32 `toml:"vmin"`
	Vmax  float32 `toml:"vmax"`
}

// Draw holds the initial pass toggles.
type Draw struct {
	Field  bool `toml:"field"`
	Points bool `toml:"points"`
}

// Settings is the full file schema.
type Settings struct {
	Backend    string   `toml:"backend"`
	Particles  int      `toml:"particles"`
	MaxPlanets int      `toml:"max_planets"`
	Workers    int      `toml:"workers"`
	Seed       uint64   `toml:"seed"`
	Draw       Draw     `toml:"draw"`
	Uniforms   Tunables `toml:"uniforms"`
}

// Defaults mirrors the built in parameter set.
func Defaults() Settings {
	u := uniforms.Defaults()
	return Settings{
		Backend:    "cpu",
		Particles:  100000,
		MaxPlanets: planets.MaxPlanets,
		Draw:       Draw{Field: true, Points: true},
		Uniforms: Tunables{
			Tvmin: u.Tvmin,
			Tvmax: u.Tvmax,
			Alpha: u.Alpha,
			Beta:  u.Beta,
			Vmin:  u.Vmin,
			Vmax:  u.Vmax,
		},
	}
}

// Load reads path over base. Keys missing from the file keep base values;
// unknown keys are an error.
func Load(path string, base Settings) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	return Parse(raw, base)
}

// Parse decodes a TOML document over base and validates the result.
func Parse(raw []byte, base Settings) (Settings, error) {
	s := base
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return base, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return base, fmt.Errorf("decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// Validate rejects settings the program cannot start with.
func (s Settings) Validate() error {
	switch s.Backend {
	case "cpu", "opencl":
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", s.Particles)
	}
	if s.MaxPlanets < 0 || s.MaxPlanets > planets.MaxPlanets {
		return fmt.Errorf("max_planets must be in [0, %d], got %d", planets.MaxPlanets, s.MaxPlanets)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// Apply stores the tunables in u, clamped to their bounds.
func (t Tunables) Apply(u *uniforms.Set) {
	u.SetLifetime(t.Tvmin, t.Tvmax)
	u.SetAngles(t.Alpha, t.Beta)
	u.SetSpeed(t.Vmin, t.Vmax)
}
