package game

import "math"

// BallState is the ball variant.
type BallState struct {
	Tuning      BallTuning
	CarriedBy   ObjectID
	LastShooter ObjectID
	FlightTimer float64
}

func newBallState(t BallTuning) *BallState {
	return &BallState{Tuning: t, CarriedBy: NoObject, LastShooter: NoObject}
}

// InFlight reports whether the ball was shot recently enough to refuse grabs.
func (b *BallState) InFlight() bool { return b.FlightTimer > 0 }

// Grab hands the ball to player. A ball is carried by at most one player:
// taking it from another carrier first releases it through that carrier's
// RemoveBall, and only when the ball is stealable.
func (o *Object) Grab(ctx *Context, player *Object) bool {
	b := o.Ball
	if b == nil || !player.Alive() || player.Player == nil {
		return false
	}
	if b.CarriedBy == player.ID {
		return true
	}
	if b.InFlight() {
		return false
	}
	if b.CarriedBy != NoObject {
		if carrier := ctx.Arena.Get(b.CarriedBy); carrier != nil && carrier.Player != nil {
			if !b.Tuning.Stealable {
				return false
			}
			carrier.RemoveBall(ctx, o)
		}
	}
	b.CarriedBy = player.ID
	b.LastShooter = NoObject
	return true
}

// Shoot launches the ball with velocity v. Shooting a ball nobody carries
// is a no-op.
func (o *Object) Shoot(ctx *Context, v Vec3) {
	b := o.Ball
	if b == nil || b.CarriedBy == NoObject {
		return
	}
	shooter := ctx.Arena.Get(b.CarriedBy)
	if o.Body != nil {
		o.Body.SetVelocity(v)
	}
	b.FlightTimer = b.Tuning.FlightTime
	b.LastShooter = b.CarriedBy
	ctx.emit(PlayerShootBall(b.CarriedBy, o.ID))
	if b.Tuning.ReleaseOnShoot && shooter != nil {
		shooter.RemoveBall(ctx, o)
	}
}

// Release drops the ball from its carrier without shooting it.
func (o *Object) Release(ctx *Context) {
	if o.Ball == nil || o.Ball.CarriedBy == NoObject {
		return
	}
	if carrier := ctx.Arena.Get(o.Ball.CarriedBy); carrier != nil {
		carrier.RemoveBall(ctx, o)
		return
	}
	o.Ball.CarriedBy = NoObject
}

// TackleVector is the launch applied to a player hit by this ball.
func (o *Object) TackleVector() Vec3 {
	t := o.Ball.Tuning
	dir := Zero3
	if o.Body != nil {
		dir = o.Body.Velocity().Horizontal().Normalize()
	}
	return dir.Scale(t.TacklePower).Add(Up.Scale(t.TackleLaunchPower))
}

// stunsOnHit reports whether touching this ball knocks over player.
func (b *BallState) stunsOnHit(player ObjectID) bool {
	return b.Tuning.Stuns && b.InFlight() && b.LastShooter != player
}

func (o *Object) tickBall(ctx *Context) {
	o.Ball.FlightTimer = math.Max(0, o.Ball.FlightTimer-ctx.DT)
}
