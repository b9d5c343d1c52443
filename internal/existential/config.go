package existential

// Config tunes the effect engine. Zero values are not usable; start from
// DefaultConfig.
type Config struct {
	// Weights for rolling 1..len(CountWeights) effects.
	CountWeights []int  `yaml:"count_weights"`
	Rerandomize  bool   `yaml:"rerandomize"`
	Force        string `yaml:"force_effect"` // Effect name; empty rolls normally

	ActivationDelayMin float64 `yaml:"activation_delay_min"` // Real seconds
	ActivationDelayMax float64 `yaml:"activation_delay_max"`

	GravityIncreaseTarget float64 `yaml:"gravity_increase_target"`
	GravityDecreaseTarget float64 `yaml:"gravity_decrease_target"`
	GravityLerpSpeed      float64 `yaml:"gravity_lerp_speed"`

	PlayerShrinkTarget   float64 `yaml:"player_shrink_target"`
	PlayerGrowTarget     float64 `yaml:"player_grow_target"`
	PlayerScaleLerpSpeed float64 `yaml:"player_scale_lerp_speed"`

	ShakeAmount float64 `yaml:"shake_amount"`
	ShakeSpeed  float64 `yaml:"shake_speed"` // Jitters per second

	AvoidRadius float64 `yaml:"avoid_radius"`
	AvoidSpeed  float64 `yaml:"avoid_speed"`

	AnomalyGrowTarget float64 `yaml:"anomaly_grow_target"`
	AnomalyGrowSpeed  float64 `yaml:"anomaly_grow_speed"`

	TimeAccelTarget float64 `yaml:"time_accel_target"`
	TimeSlowTarget  float64 `yaml:"time_slow_target"`
	TimeLerpSpeed   float64 `yaml:"time_lerp_speed"`
	FixedDeltaBase  float64 `yaml:"fixed_delta_base"`

	PostFXLerpSpeed  float64 `yaml:"postfx_lerp_speed"`
	VignetteTarget   float64 `yaml:"vignette_target"`
	ChromaticTarget  float64 `yaml:"chromatic_target"`
	DesaturateTarget float64 `yaml:"desaturate_target"`
	DesaturateRate   float64 `yaml:"desaturate_rate"`

	MusicKeys []string `yaml:"music_keys"`

	EchoLag float64 `yaml:"echo_lag"`

	HeartbeatBeats     int     `yaml:"heartbeat_beats"`
	HeartbeatBeatTime  float64 `yaml:"heartbeat_beat_time"`
	HeartbeatIntensity float64 `yaml:"heartbeat_intensity"`
	HeartbeatGap       float64 `yaml:"heartbeat_gap"`
	HeartbeatRestMin   float64 `yaml:"heartbeat_rest_min"`
	HeartbeatRestMax   float64 `yaml:"heartbeat_rest_max"`

	BlinkIntervalMin float64 `yaml:"blink_interval_min"`
	BlinkIntervalMax float64 `yaml:"blink_interval_max"`
	BlinkDuration    float64 `yaml:"blink_duration"`
}

// Minimum tween durations.
const (
	minTweenDuration       = 0.1
	minPlayerScaleDuration = 0.5
	playerWaitTimeout      = 2.0
	minGhostDelta          = 0.001
	avoidDeadZone          = 0.01
)

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		CountWeights: []int{70, 20, 7, 2, 1},
		Rerandomize:  true,

		ActivationDelayMin: 1,
		ActivationDelayMax: 15,

		GravityIncreaseTarget: -30,
		GravityDecreaseTarget: -2,
		GravityLerpSpeed:      0.5,

		PlayerShrinkTarget:   0.4,
		PlayerGrowTarget:     2.5,
		PlayerScaleLerpSpeed: 0.3,

		ShakeAmount: 0.04,
		ShakeSpeed:  20,

		AvoidRadius: 4,
		AvoidSpeed:  2,

		AnomalyGrowTarget: 2,
		AnomalyGrowSpeed:  0.2,

		TimeAccelTarget: 2.5,
		TimeSlowTarget:  0.3,
		TimeLerpSpeed:   0.3,
		FixedDeltaBase:  0.02,

		PostFXLerpSpeed:  0.5,
		VignetteTarget:   0.7,
		ChromaticTarget:  1,
		DesaturateTarget: -100,
		DesaturateRate:   5,

		MusicKeys: []string{"music_variant_a", "music_variant_b", "music_variant_c"},

		EchoLag: 0.5,

		HeartbeatBeats:     2,
		HeartbeatBeatTime:  0.12,
		HeartbeatIntensity: 0.08,
		HeartbeatGap:       0.1,
		HeartbeatRestMin:   1.2,
		HeartbeatRestMax:   2.5,

		BlinkIntervalMin: 5,
		BlinkIntervalMax: 10,
		BlinkDuration:    0.6,
	}
}
