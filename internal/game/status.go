package game

import "math"

// Status effect tuning
const (
	DizzyTorque   = 30.0   // yaw torque applied while dizzy
	DizzySpinRate = 0.3262 // revolutions per second of the input spin
)

// effectTimer is one timed status effect with start accounting.
type effectTimer struct {
	Remaining float64
	start     float64
	tracking  bool
}

// apply extends the timer to max(current, d). Reports whether the
// effect started from zero.
func (t *effectTimer) apply(d, now float64) bool {
	if d < 0 || math.IsNaN(d) {
		d = 0
	}
	started := t.Remaining == 0 && d > 0
	if started && !t.tracking {
		t.start = now
		t.tracking = true
	}
	t.Remaining = math.Max(t.Remaining, d)
	return started
}

// stop zeroes the timer and returns the time spent in the effect, if any
// start was recorded.
func (t *effectTimer) stop(now float64) (float64, bool) {
	t.Remaining = 0
	if !t.tracking {
		return 0, false
	}
	t.tracking = false
	return math.Max(0, now-t.start), true
}

// tick decrements the timer. When it runs out naturally the accumulated
// time is returned like stop would.
func (t *effectTimer) tick(dt, now float64) (float64, bool) {
	if t.Remaining == 0 {
		return 0, false
	}
	t.Remaining = math.Max(0, t.Remaining-dt)
	if t.Remaining > 0 {
		return 0, false
	}
	return t.stop(now)
}

// StatusEffects holds the freeze, dizzy and bounce timers of one object.
type StatusEffects struct {
	freeze effectTimer
	dizzy  effectTimer
	bounce effectTimer

	// DefaultFreeze locks all motion while frozen. Players turn it off and
	// treat freeze as a stun floor instead.
	DefaultFreeze bool
	// DefaultDizzy applies the spin torque while dizzy.
	DefaultDizzy bool

	effect EffectKind
}

func newStatusEffects() StatusEffects {
	return StatusEffects{DefaultFreeze: true, DefaultDizzy: true}
}

func (s *StatusEffects) FreezeTime() float64 { return s.freeze.Remaining }
func (s *StatusEffects) DizzyTime() float64  { return s.dizzy.Remaining }
func (s *StatusEffects) BounceTime() float64 { return s.bounce.Remaining }

// Effect is the cosmetic currently requested for the object.
func (s *StatusEffects) Effect() EffectKind { return s.effect }

func (s *StatusEffects) idle() bool {
	return s.freeze.Remaining == 0 && s.dizzy.Remaining == 0 && s.bounce.Remaining == 0
}

// DizzySpinAngle is the rotation in degrees applied to movement input at
// simulation time t.
func DizzySpinAngle(t float64) float64 {
	return math.Mod(t*360*DizzySpinRate, 360)
}

// ApplyFreeze freezes the object for at least d seconds.
func (o *Object) ApplyFreeze(ctx *Context, d float64) {
	o.Status.freeze.apply(d, ctx.Time)
	o.setEffect(ctx, EffectFreeze)
}

// Unfreeze ends the freeze and accounts the time spent frozen.
func (o *Object) Unfreeze(ctx *Context) {
	if elapsed, ok := o.Status.freeze.stop(ctx.Time); ok {
		o.reportEffectTime(ctx, EffectFreeze, elapsed)
	}
	if o.Player != nil {
		o.Player.StunnedTimer = 0
	}
	o.clearEffect(ctx)
}

// ApplyDizzy makes the object dizzy for at least d seconds.
func (o *Object) ApplyDizzy(ctx *Context, d float64) {
	o.Status.dizzy.apply(d, ctx.Time)
	o.setEffect(ctx, EffectDizzy)
}

func (o *Object) StopDizzy(ctx *Context) {
	if elapsed, ok := o.Status.dizzy.stop(ctx.Time); ok {
		o.reportEffectTime(ctx, EffectDizzy, elapsed)
	}
	o.clearEffect(ctx)
}

// StartBounce makes the object hop on every landing for at least d seconds.
func (o *Object) StartBounce(ctx *Context, d float64) {
	o.Status.bounce.apply(d, ctx.Time)
	o.setEffect(ctx, EffectBouncy)
}

func (o *Object) StopBounce(ctx *Context) {
	if elapsed, ok := o.Status.bounce.stop(ctx.Time); ok {
		o.reportEffectTime(ctx, EffectBouncy, elapsed)
	}
	o.clearEffect(ctx)
}

// Jump launches the object upward once per landing.
func (o *Object) Jump() {
	if o.preJump || o.Body == nil {
		return
	}
	v := o.Body.Velocity()
	o.Body.SetVelocity(v.WithY(math.Max(v.Y, o.JumpSpeed)))
	o.preJump = true
}

func (o *Object) setEffect(ctx *Context, kind EffectKind) {
	o.Status.effect = kind
	ctx.fx().SetEffect(o.ID, kind)
}

// clearEffect drops the cosmetic once no effect is running.
func (o *Object) clearEffect(ctx *Context) {
	if o.Status.effect == EffectNone || !o.Status.idle() {
		return
	}
	o.Status.effect = EffectNone
	ctx.fx().SetEffect(o.ID, EffectNone)
}

func (o *Object) reportEffectTime(ctx *Context, kind EffectKind, seconds float64) {
	if ctx.Rules == nil || !o.StatTracked() {
		return
	}
	switch kind {
	case EffectFreeze:
		ctx.Rules.AddTimeFrozen(o.Team, seconds)
	case EffectDizzy:
		ctx.Rules.AddTimeDizzy(o.Team, seconds)
	case EffectBouncy:
		ctx.Rules.AddTimeBouncy(o.Team, seconds)
	}
}

// tickStatus advances the effect timers and applies their physical effects.
func (o *Object) tickStatus(ctx *Context) {
	s := &o.Status
	if elapsed, ok := s.freeze.tick(ctx.DT, ctx.Time); ok {
		o.reportEffectTime(ctx, EffectFreeze, elapsed)
	}
	if elapsed, ok := s.dizzy.tick(ctx.DT, ctx.Time); ok {
		o.reportEffectTime(ctx, EffectDizzy, elapsed)
	}
	if elapsed, ok := s.bounce.tick(ctx.DT, ctx.Time); ok {
		o.reportEffectTime(ctx, EffectBouncy, elapsed)
	}

	if o.Body != nil {
		if s.DefaultFreeze {
			if s.freeze.Remaining > 0 {
				o.Body.SetConstraints(ConstraintFreezeAll)
				o.Body.SetVelocity(Zero3)
			} else {
				o.Body.SetConstraints(o.startingConstraints)
			}
		}
		if s.DefaultDizzy && s.dizzy.Remaining > 0 {
			o.Body.AddTorque(V3(0, DizzyTorque, 0), ForceAcceleration)
		}
	}

	if !o.Grounded {
		o.preJump = false
	} else if s.bounce.Remaining > 0 {
		o.Jump()
	}

	o.clearEffect(ctx)
}
