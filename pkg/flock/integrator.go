package flock

// Integrate applies the agent's acceleration to its velocity (clamped to
// MaxSpeed), moves it by velocity*dt and refreshes the heading.
// The heading only follows the velocity when the agent actually moves: a zero
// velocity has no direction, and a dt of 0 leaves position and heading alone.
func Integrate(a *Agent, dt float64) {
	a.Velocity = a.Velocity.Add(a.Acceleration).ClampLen(a.Params.MaxSpeed)
	if dt == 0 {
		return
	}
	a.Position = a.Position.Add(a.Velocity.Mul(dt))
	if !a.Velocity.IsZero() {
		a.Heading = a.Velocity.Angle()
	}
}
