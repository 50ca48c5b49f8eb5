package game

import "math"

// Probe distances
const (
	GroundProbeDistance = 0.5
	CastRadius          = 0.4
	wallProbeDistance   = 0.5
)

// PlayerState is the player variant: tuning, timers and possession.
type PlayerState struct {
	Tuning PlayerTuning
	Input  Input

	DashTimer         float64
	DashCooldownTimer float64
	StunnedTimer      float64

	CarriedBall ObjectID
	Score       int

	OnGround       bool
	TrailEnabled   bool
	RotationLocked bool
}

func newPlayerState(t PlayerTuning) *PlayerState {
	return &PlayerState{
		Tuning:         t,
		Input:          noInput{},
		CarriedBall:    NoObject,
		RotationLocked: true,
	}
}

// Stunned reports whether the player has lost control.
func (p *PlayerState) Stunned() bool { return p.StunnedTimer > 0 }

// Dashing reports whether a dash is running.
func (p *PlayerState) Dashing() bool { return p.DashTimer > 0 }

// Carrying reports whether the player holds a ball.
func (p *PlayerState) Carrying() bool { return p.CarriedBall != NoObject }

func (p *PlayerState) input() Input {
	if p.Input == nil {
		return noInput{}
	}
	return p.Input
}

// ScorePoints adds points to the player and asks the rules to recount.
func (o *Object) ScorePoints(ctx *Context, points int) {
	if o.Player == nil {
		return
	}
	o.Player.Score += points
	if ctx.Rules != nil {
		ctx.Rules.UpdateScore()
	}
}

// RemoveBall drops possession of b. It is the only path that clears
// CarriedBall.
func (o *Object) RemoveBall(ctx *Context, b *Object) {
	if o.Player == nil || b == nil || o.Player.CarriedBall != b.ID {
		return
	}
	o.Player.CarriedBall = NoObject
	if b.Ball != nil && b.Ball.CarriedBy == o.ID {
		b.Ball.CarriedBy = NoObject
	}
	ctx.fx().PlayParticles(o.ID)
}

// carried resolves the held ball, dropping stale references.
func (o *Object) carried(ctx *Context) *Object {
	p := o.Player
	if p.CarriedBall == NoObject {
		return nil
	}
	b := ctx.Arena.Get(p.CarriedBall)
	if b == nil || b.Ball == nil {
		p.CarriedBall = NoObject
		return nil
	}
	return b
}

// tickPlayer runs the movement control loop for one tick.
func (o *Object) tickPlayer(ctx *Context) {
	p, t, body := o.Player, &o.Player.Tuning, o.Body
	if body == nil {
		return
	}
	dt := ctx.DT
	in := p.input()
	probe := ctx.probe()

	p.DashTimer = math.Max(0, p.DashTimer-dt)
	p.DashCooldownTimer = math.Max(0, p.DashCooldownTimer-dt)
	p.StunnedTimer = math.Max(o.Status.FreezeTime(), math.Max(0, p.StunnedTimer-dt))

	stunned := p.Stunned()
	if !stunned {
		body.SetConstraints(ConstraintFreezeRotation)
		p.RotationLocked = true
	}

	pos := o.Pose.Position
	_, p.OnGround = probe.Raycast(pos, Down, GroundProbeDistance)

	ball := o.carried(ctx)

	if p.DashCooldownTimer == 0 && in.ButtonDown(t.Bindings.Dash) && (t.DashWhileCarrying || ball == nil) {
		p.DashTimer = t.DashDuration
		p.DashCooldownTimer = t.DashCooldown
	}

	fwd := o.Forward()
	switch {
	case stunned:
		p.TrailEnabled = true

	case p.Dashing():
		if ball != nil {
			d := ball.Ball.Tuning.CarryRadius + t.HoldDistance + 0.5
			if _, hit := probe.SphereCast(pos, CastRadius, fwd, d); hit {
				p.DashTimer = 0
			}
		}
		if p.Dashing() {
			body.AddForce(fwd.Scale(t.DashSpeed*t.MoveAccel), ForceAcceleration)
			if v := body.Velocity(); v.Len() > t.DashSpeed {
				body.SetVelocity(v.Normalize().Scale(t.DashSpeed))
			}
		}
		p.TrailEnabled = true

	case ball != nil && ball.Ball.Tuning.Ultimate:
		// ultimate balls pin the carrier in place

	case !o.hasDirectionalInput() && o.Status.DizzyTime() == 0:
		if p.OnGround && in.ButtonDown(t.Bindings.Hop) {
			body.AddForce(Up.Scale(t.JumpSpeed), ForceVelocityChange)
		} else {
			o.brake(dt)
		}

	default:
		p.TrailEnabled = false
		o.steer(ctx, ball != nil)
		if p.OnGround && in.ButtonDown(t.Bindings.Hop) {
			body.AddForce(Up.Scale(t.JumpSpeed), ForceVelocityChange)
		}
	}

	if ball != nil {
		o.carryBall(ctx, ball)
	}
}

func (o *Object) hasDirectionalInput() bool {
	in, b := o.Player.input(), o.Player.Tuning.Bindings
	return in.Axis(b.XAxis) != 0 || in.Axis(b.YAxis) != 0
}

// brake slows horizontal motion and snaps it to zero once it is slow enough
// to stop within one tick.
func (o *Object) brake(dt float64) {
	t, body := &o.Player.Tuning, o.Body
	v := body.Velocity()
	h := v.Horizontal()
	stop := (t.MoveSpeed + t.StrafeSpeed) * t.MoveAccel
	if h.Len() > stop*dt {
		body.AddForce(h.Normalize().Scale(-stop), ForceAcceleration)
		return
	}
	body.SetVelocity(V3(0, v.Y, 0))
}

// steer turns toward the input heading and applies strafe and run forces.
func (o *Object) steer(ctx *Context, carrying bool) {
	p, t, body := o.Player, &o.Player.Tuning, o.Body
	in := p.input()

	stick := Vec2{in.Axis(t.Bindings.XAxis), in.Axis(t.Bindings.YAxis)}
	if l := stick.Len(); l > 1 {
		stick = Vec2{stick.X / l, stick.Y / l}
	}
	if o.Status.DizzyTime() > 0 {
		stick = stick.Rotate(DizzySpinAngle(ctx.Time))
	}
	mag := stick.Len()

	if mag != 0 {
		rate := 1.0
		if t.TurnThreshold > 0 {
			rate = math.Min(1, mag/t.TurnThreshold)
		}
		o.Pose.Rotation.Y = rotateTowards(o.Pose.Rotation.Y, headingYaw(stick), rate*t.TurnSpeed*ctx.DT)
	}

	var moving Vec3
	if mag > t.TurnThreshold {
		strafe := 1.0
		if t.StrafeThreshold > 0 {
			strafe = math.Min(1, mag/t.StrafeThreshold)
		}
		moving = moving.Add(V3(stick.X, 0, stick.Y).Scale(strafe * t.StrafeSpeed))
	}
	fwd := o.Forward()
	if mag > t.StrafeThreshold {
		moving = moving.Add(fwd.Scale(mag * t.MoveSpeed))
	}

	reach := wallProbeDistance
	if carrying {
		if b := o.carried(ctx); b != nil {
			reach += b.Ball.Tuning.CarryRadius + t.HoldDistance
		}
	}
	if hit, ok := ctx.probe().SphereCast(o.Pose.Position, CastRadius, fwd, reach); ok {
		tangent := hit.Normal.Cross(Up)
		speed := moving.Len()
		if tangent.Dot(moving) > 0.5 {
			moving = tangent.Scale(speed)
		} else if tangent.Neg().Dot(moving) > 0.5 {
			moving = tangent.Neg().Scale(speed)
		}
	}

	body.AddForce(moving.Scale(t.MoveAccel), ForceAcceleration)

	v := body.Velocity()
	if h := v.Horizontal(); h.Len() > t.MoveSpeed+t.StrafeSpeed {
		h = h.ClampLen(t.MoveSpeed + t.StrafeSpeed)
		body.SetVelocity(V3(h.X, v.Y, h.Z))
	}
}

// carryBall keeps the held ball in front of the player and resolves at
// most one shot.
func (o *Object) carryBall(ctx *Context, ball *Object) {
	p, t, body := o.Player, &o.Player.Tuning, o.Body
	bt := &ball.Ball.Tuning
	in := p.input()
	probe := ctx.probe()
	fwd := o.Forward()

	butter := false
	reach := t.HoldDistance + bt.CarryRadius + 0.1
	if hit, ok := probe.SphereCast(o.Pose.Position, CastRadius, fwd, reach); ok {
		ctx.emit(PlayerHitFieldObject(o.ID, hit.Object))
		body.SetVelocity(Zero3)
		p.DashTimer = 0
		push := fwd.Dot(hit.Normal) * (hit.Distance - reach) * 0.5
		o.Pose.Position = o.Pose.Position.Add(hit.Normal.Scale(push))
		butter = t.Butterfingers
	}

	bp := o.Pose.Position.Add(fwd.Scale(t.HoldDistance))
	if hit, ok := probe.Raycast(bp, Down, t.HoldDistance*2+bt.CarryRadius*2); ok {
		bp = hit.Point.Add(V3(0, bt.CarryRadius, 0))
	}
	ball.Pose.Position = bp
	if ball.Body != nil {
		ball.Body.SetVelocity(body.PointVelocity(bp))
	}

	switch {
	case butter:
		ball.Shoot(ctx, fwd.Add(Up.Scale(0.5)).Normalize().Scale(bt.ShootPower*0.5))
	case in.ButtonDown(t.Bindings.Shoot):
		ball.Shoot(ctx, fwd.Scale(bt.ShootPower).Add(body.Velocity()))
		if t.Bindings.Shoot == t.Bindings.Dash {
			p.DashCooldownTimer = t.DashCooldown
		}
	case in.ButtonDown(t.Bindings.Lob):
		ball.Shoot(ctx, fwd.Add(Up.Scale(1.5)).Normalize().Scale(bt.LobPower).Add(body.Velocity()))
		if t.Bindings.Lob == t.Bindings.Dash {
			p.DashCooldownTimer = t.DashCooldown
		}
	}
}
