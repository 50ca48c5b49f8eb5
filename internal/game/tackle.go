package game

// handleBallCollision lets a player pick up a loose ball, or be knocked
// over by a stunning ball that was shot at them.
func handleBallCollision(ctx *Context, self, other *Object) {
	p, b := self.Player, other.Ball
	if b == nil {
		return
	}
	ctx.emit(PlayerTouchBall(self.ID, other.ID))

	holdingOther := p.CarriedBall != NoObject && p.CarriedBall != other.ID
	if !holdingOther && other.Grab(ctx, self) {
		p.CarriedBall = other.ID
		if b.Tuning.Ultimate && self.Body != nil {
			self.Body.SetVelocity(Zero3)
		}
		if !p.Tuning.DashWhileCarrying {
			p.DashTimer = 0
		}
		ctx.fx().PlayParticles(self.ID)
		return
	}
	if b.stunsOnHit(self.ID) {
		ctx.emit(PlayerHitInTheFaceByBall(self.ID, other.ID))
		self.tackle(ctx, other.TackleVector(), b.Tuning.TackleDuration)
	}
}

// handlePlayerCollision resolves a dash into another player: steal the
// victim's ball when it lets go, then knock the victim over. A carrier that
// dashes with its own ball drops it for the stolen one.
func handlePlayerCollision(ctx *Context, self, other *Object) {
	p := self.Player
	if other.Player == nil {
		return
	}
	ctx.emit(PlayerHitPlayer(self.ID, other.ID))

	if p.Dashing() {
		if ball := other.carried(ctx); ball != nil && ball.Ball.Tuning.Stealable && !ball.Ball.InFlight() {
			// one ball per carrier: drop ours before taking theirs
			if own := self.carried(ctx); own != nil {
				self.RemoveBall(ctx, own)
			}
			if ball.Grab(ctx, self) {
				p.CarriedBall = ball.ID
				ctx.emit(PlayerStealBall(self.ID, other.ID, ball.ID))
			}
		}
		ctx.fx().PlayParticles(self.ID)
		t := p.Tuning
		launch := self.Forward().Scale(t.TacklePower).Add(Up.Scale(t.TackleLaunchPower))
		other.tackleWithSpin(ctx, launch, t.TackleDuration, t.TackleSpin)
		ctx.emit(PlayerTacklePlayer(self.ID, other.ID))
	}

	if p.Tuning.DashStopByPlayer {
		p.DashTimer = 0
	}
}

// tackle knocks the player over using its own spin tuning.
func (o *Object) tackle(ctx *Context, launch Vec3, duration float64) {
	if o.Player == nil {
		return
	}
	o.tackleWithSpin(ctx, launch, duration, o.Player.Tuning.TackleSpin)
}

func (o *Object) tackleWithSpin(ctx *Context, launch Vec3, duration, spin float64) {
	p := o.Player
	if p == nil || o.Body == nil {
		return
	}
	o.Body.SetConstraints(ConstraintNone)
	p.RotationLocked = false
	o.Body.SetVelocity(launch)
	o.Body.SetAngularVelocity(randomAxis(ctx).Scale(spin))
	p.StunnedTimer = nonNegative(duration)
	ctx.fx().PlayParticles(o.ID)
	ctx.fx().PlayTackleSound(o.ID)
}

// randomAxis is a random unit vector in the positive octant.
func randomAxis(ctx *Context) Vec3 {
	if ctx == nil || ctx.Rand == nil {
		return Up
	}
	v := V3(ctx.Rand.Float64(), ctx.Rand.Float64(), ctx.Rand.Float64()).Normalize()
	if v == Zero3 {
		return Up
	}
	return v
}
