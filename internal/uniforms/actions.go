package uniforms

// Action is a keyboard driven parameter change.
type Action int

const (
	VmaxUp Action = iota
	VmaxDown
	VminUp
	VminDown
	BetaUp
	BetaDown
	AlphaUp
	AlphaDown
	TvminUp
	TvminDown
	TvmaxUp
	TvmaxDown
)

var actionNames = [...]string{
	VmaxUp:    "vmax+",
	VmaxDown:  "vmax-",
	VminUp:    "vmin+",
	VminDown:  "vmin-",
	BetaUp:    "beta+",
	BetaDown:  "beta-",
	AlphaUp:   "alpha+",
	AlphaDown: "alpha-",
	TvminUp:   "tvmin+",
	TvminDown: "tvmin-",
	TvmaxUp:   "tvmax+",
	TvmaxDown: "tvmax-",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Apply performs a. Values past their bounds are clamped or wrapped.
func (s *Set) Apply(a Action) {
	switch a {
	case VmaxUp:
		s.SetSpeed(s.Vmin, s.Vmax+speedStep)
	case VmaxDown:
		s.SetSpeed(s.Vmin, s.Vmax-speedStep)
	case VminUp:
		s.SetSpeed(min(s.Vmin+speedStep, s.Vmax), s.Vmax)
	case VminDown:
		s.SetSpeed(s.Vmin-speedStep, s.Vmax)
	case BetaUp:
		s.SetAngles(s.Alpha, s.Beta+angleStep)
	case BetaDown:
		s.SetAngles(s.Alpha, s.Beta-angleStep)
	case AlphaUp:
		s.Alpha += angleStep
	case AlphaDown:
		s.Alpha -= angleStep
	case TvminUp:
		s.SetLifetime(s.Tvmin+lifeStep, s.Tvmax)
	case TvminDown:
		s.SetLifetime(s.Tvmin-lifeStep, s.Tvmax)
	case TvmaxUp:
		s.SetLifetime(s.Tvmin, s.Tvmax+lifeStep)
	case TvmaxDown:
		s.SetLifetime(s.Tvmin, s.Tvmax-lifeStep)
	}
}
