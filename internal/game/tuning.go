package game

// PlayerTuning is the per-player configuration set before simulation starts.
type PlayerTuning struct {
	MoveSpeed       float64 `toml:"move_speed" json:"move_speed"`
	MoveAccel       float64 `toml:"move_accel" json:"move_accel"`
	StrafeSpeed     float64 `toml:"strafe_speed" json:"strafe_speed"`
	DashSpeed       float64 `toml:"dash_speed" json:"dash_speed"`
	JumpSpeed       float64 `toml:"jump_speed" json:"jump_speed"`
	DashDuration    float64 `toml:"dash_duration" json:"dash_duration"`
	DashCooldown    float64 `toml:"dash_cooldown" json:"dash_cooldown"`
	TurnSpeed       float64 `toml:"turn_speed" json:"turn_speed"` // degrees per second
	StrafeThreshold float64 `toml:"strafe_threshold" json:"strafe_threshold"`
	TurnThreshold   float64 `toml:"turn_threshold" json:"turn_threshold"`

	TackleDuration    float64 `toml:"tackle_duration" json:"tackle_duration"`
	TacklePower       float64 `toml:"tackle_power" json:"tackle_power"`
	TackleLaunchPower float64 `toml:"tackle_launch_power" json:"tackle_launch_power"`
	TackleSpin        float64 `toml:"tackle_spin" json:"tackle_spin"`

	HoldDistance float64 `toml:"hold_distance" json:"hold_distance"`

	Butterfingers     bool `toml:"butterfingers" json:"butterfingers"`
	DashWhileCarrying bool `toml:"dash_while_carrying" json:"dash_while_carrying"`
	DashStopByPlayer  bool `toml:"dash_stop_by_player" json:"dash_stop_by_player"`

	Bindings Bindings `toml:"bindings" json:"bindings"`
}

// Bindings names the input axes and buttons a player reads.
type Bindings struct {
	XAxis string `toml:"x_axis" json:"x_axis"`
	YAxis string `toml:"y_axis" json:"y_axis"`
	Dash  string `toml:"dash" json:"dash"`
	Hop   string `toml:"hop" json:"hop"`
	Shoot string `toml:"shoot" json:"shoot"`
	Lob   string `toml:"lob" json:"lob"`
}

// DefaultBindings maps every action to the fire button, like a one-button pad.
func DefaultBindings() Bindings {
	return Bindings{
		XAxis: "Horizontal",
		YAxis: "Vertical",
		Dash:  "Fire",
		Hop:   "Jump",
		Shoot: "Fire",
		Lob:   "Fire2",
	}
}

// DefaultPlayerTuning returns arena-scale defaults.
func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{
		MoveSpeed:       6,
		MoveAccel:       8,
		StrafeSpeed:     3,
		DashSpeed:       14,
		JumpSpeed:       DefaultJumpSpeed,
		DashDuration:    0.7,
		DashCooldown:    2,
		TurnSpeed:       720,
		StrafeThreshold: 0.6,
		TurnThreshold:   0.3,

		TackleDuration:    1,
		TacklePower:       7,
		TackleLaunchPower: 8,
		TackleSpin:        150,

		HoldDistance: 1,

		DashStopByPlayer: true,
		Bindings:         DefaultBindings(),
	}
}

// Sanitize clamps negative values to zero and fills empty bindings.
func (t PlayerTuning) Sanitize() PlayerTuning {
	for _, f := range []*float64{
		&t.MoveSpeed, &t.MoveAccel, &t.StrafeSpeed, &t.DashSpeed, &t.JumpSpeed,
		&t.DashDuration, &t.DashCooldown, &t.TurnSpeed, &t.StrafeThreshold,
		&t.TurnThreshold, &t.TackleDuration, &t.TacklePower,
		&t.TackleLaunchPower, &t.TackleSpin, &t.HoldDistance,
	} {
		*f = nonNegative(*f)
	}
	def := DefaultBindings()
	fill := func(s *string, d string) {
		if *s == "" {
			*s = d
		}
	}
	fill(&t.Bindings.XAxis, def.XAxis)
	fill(&t.Bindings.YAxis, def.YAxis)
	fill(&t.Bindings.Dash, def.Dash)
	fill(&t.Bindings.Hop, def.Hop)
	fill(&t.Bindings.Shoot, def.Shoot)
	fill(&t.Bindings.Lob, def.Lob)
	return t
}

// BallTuning configures a ball.
type BallTuning struct {
	CarryRadius       float64 `toml:"carry_radius" json:"carry_radius"`
	ShootPower        float64 `toml:"shoot_power" json:"shoot_power"`
	LobPower          float64 `toml:"lob_power" json:"lob_power"`
	Stuns             bool    `toml:"stuns" json:"stuns"`
	Ultimate          bool    `toml:"ultimate" json:"ultimate"`
	Stealable         bool    `toml:"stealable" json:"stealable"`
	TackleDuration    float64 `toml:"tackle_duration" json:"tackle_duration"`
	TacklePower       float64 `toml:"tackle_power" json:"tackle_power"`
	TackleLaunchPower float64 `toml:"tackle_launch_power" json:"tackle_launch_power"`
	FlightTime        float64 `toml:"flight_time" json:"flight_time"`
	// ReleaseOnShoot clears the shooter's possession through RemoveBall when
	// the ball is shot. With it off, the shooter keeps CarriedBall set.
	ReleaseOnShoot bool `toml:"release_on_shoot" json:"release_on_shoot"`
}

func DefaultBallTuning() BallTuning {
	return BallTuning{
		CarryRadius:       0.5,
		ShootPower:        18,
		LobPower:          12,
		Stealable:         true,
		TackleDuration:    1,
		TacklePower:       5,
		TackleLaunchPower: 4,
		FlightTime:        0.4,
		ReleaseOnShoot:    true,
	}
}

func (t BallTuning) Sanitize() BallTuning {
	for _, f := range []*float64{
		&t.CarryRadius, &t.ShootPower, &t.LobPower, &t.TackleDuration,
		&t.TacklePower, &t.TackleLaunchPower, &t.FlightTime,
	} {
		*f = nonNegative(*f)
	}
	return t
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
