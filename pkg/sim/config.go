package sim

// Config is the immutable force parameter set for one layout instance.
// It is constructed once, threaded to the engine, and never mutated by it.
// Values outside sane ranges are the caller's responsibility; the engine
// performs no validation.
type Config struct {
	// LinkDistance is the target length of ring edges.
	LinkDistance float64 `toml:"link_distance"`
	// LinkStrength scales the spring correction toward LinkDistance.
	LinkStrength float64 `toml:"link_strength"`

	// ChargeStrength is the magnitude of pairwise repulsion.
	ChargeStrength float64 `toml:"charge_strength"`
	// ChargeDistanceMax limits how far repulsion reaches. Node pairs
	// separated by more than this distance do not interact.
	ChargeDistanceMax float64 `toml:"charge_distance_max"`

	// CollideRadius is the per-node radius; pairs closer than twice this
	// value are pushed apart.
	CollideRadius float64 `toml:"collide_radius"`
	// CollideStrength is the fraction of overlap corrected per pass.
	// Values below 1 under-correct on purpose to avoid oscillation.
	CollideStrength float64 `toml:"collide_strength"`
	// CollideIterations is the number of separation passes per tick.
	CollideIterations int `toml:"collide_iterations"`

	// CenterStrength scales the weak pull toward the surface midpoint.
	CenterStrength float64 `toml:"center_strength"`

	// AlphaDecay is the per-tick rate at which alpha approaches its
	// target. AlphaMin is the floor below which the engine is Idle.
	// AlphaActive is the target held while a drag is in progress.
	// SettleAlpha separates Running from Settled.
	AlphaDecay  float64 `toml:"alpha_decay"`
	AlphaMin    float64 `toml:"alpha_min"`
	AlphaActive float64 `toml:"alpha_active"`
	SettleAlpha float64 `toml:"settle_alpha"`

	// VelocityDamping multiplies each free node's velocity after force
	// accumulation, before integration.
	VelocityDamping float64 `toml:"velocity_damping"`
}

// DefaultConfig returns the force parameters used when a ring file does
// not override them.
func DefaultConfig() Config {
	return Config{
		LinkDistance:      60,
		LinkStrength:      1.0,
		ChargeStrength:    180,
		ChargeDistanceMax: 400,
		CollideRadius:     14,
		CollideStrength:   0.7,
		CollideIterations: 2,
		CenterStrength:    0.03,
		AlphaDecay:        0.0228, // reaches AlphaMin in roughly 300 ticks
		AlphaMin:          0.001,
		AlphaActive:       0.3,
		SettleAlpha:       0.05,
		VelocityDamping:   0.6,
	}
}
