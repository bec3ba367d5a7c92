package postfx

// Tonemapping selects the tone-mapping curve applied during compositing.
type Tonemapping uint8

const (
	// TonemappingNone leaves values untouched.
	TonemappingNone Tonemapping = iota
	// TonemappingNormal applies a simple Reinhard-style curve.
	TonemappingNormal
	// TonemappingACES applies the ACES filmic approximation.
	TonemappingACES
)

// String returns a human-readable name for debugging.
func (t Tonemapping) String() string {
	switch t {
	case TonemappingNone:
		return "None"
	case TonemappingNormal:
		return "Normal"
	case TonemappingACES:
		return "ACES"
	default:
		return "Unknown"
	}
}

// Bloom configures the bloom contribution of the composite pass.
//
// Enabled is an explicit toggle: a zero or non-zero Intensity never
// activates or deactivates bloom on its own.
type Bloom struct {
	// Enabled turns the bloom contribution on.
	Enabled bool
	// Threshold is the luminance above which pixels start to bloom.
	Threshold float32
	// Intensity scales the bloom contribution. Zero is valid while enabled.
	Intensity float32
	// Scatter controls how far bloom energy spreads.
	Scatter float32
	// Tint multiplies the bloom contribution per channel.
	Tint Color
	// Clamp is the upper bound on bloom energy, preventing fireflies
	// from blowing out the result.
	Clamp float32
}

// DefaultBloom returns the standard bloom parameters. Bloom starts
// disabled with zero intensity; the remaining values match the usual
// HDR defaults (half-float max for the clamp).
func DefaultBloom() Bloom {
	return Bloom{
		Threshold: 0.9,
		Intensity: 0.0,
		Scatter:   0.7,
		Tint:      White,
		Clamp:     65472.0,
	}
}

// ChannelMixing configures the channel-mix contribution. Red, Blue and
// Green are per-output-channel weight vectors; see [ChannelMixing.Matrix]
// for how they combine. A degenerate (singular) combination is legal and
// never rejected.
type ChannelMixing struct {
	// Enabled turns channel mixing on.
	Enabled bool
	// Red weights the red output channel.
	Red Color
	// Blue weights the blue output channel.
	Blue Color
	// Green weights the green output channel.
	Green Color
}

// DefaultChannelMixing returns pass-through weights with mixing disabled.
func DefaultChannelMixing() ChannelMixing {
	return ChannelMixing{
		Red:   Red,
		Blue:  Blue,
		Green: Green,
	}
}

// Effects is the host-owned configuration for the composite
// post-processing pass. The render side never reads it directly; a
// snapshot is taken at the extraction boundary each frame, so host
// mutations after extraction do not affect the frame in flight.
type Effects struct {
	Bloom         Bloom
	ChannelMixing ChannelMixing
	Tonemapping   Tonemapping
}

// DefaultEffects returns the default configuration: every contribution
// disabled, tonemapping off.
func DefaultEffects() Effects {
	return Effects{
		Bloom:         DefaultBloom(),
		ChannelMixing: DefaultChannelMixing(),
		Tonemapping:   TonemappingNone,
	}
}

// Clone returns an independent copy of the configuration. Effects holds
// no reference types, so a value copy is a full snapshot; the method
// exists to mark the extraction boundary in calling code.
func (e Effects) Clone() Effects {
	return e
}
