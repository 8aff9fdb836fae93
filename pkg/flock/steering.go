package flock

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// Steer returns the correction force that moves velocity toward desired,
// limited to maxForce. It is the classic "seek" primitive.
func Steer(desired, velocity geometry.Vector2D, maxForce float64) geometry.Vector2D {
	return desired.Sub(velocity).ClampLen(maxForce)
}

// Alignment steers self toward the mean heading of its neighbors at full speed.
func Alignment(self State, neighbors []State) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}

	var sum geometry.Vector2D
	for _, n := range neighbors {
		sum = sum.Add(n.Velocity)
	}
	mean := sum.Mul(1 / float64(len(neighbors)))

	desired := mean.Normalize().Mul(self.Params.MaxSpeed)
	return Steer(desired, self.Velocity, self.Params.MaxForce)
}

// Cohesion steers self toward the centroid of its neighbors at full speed.
func Cohesion(self State, neighbors []State) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}

	var sum geometry.Vector2D
	for _, n := range neighbors {
		sum = sum.Add(n.Position)
	}
	center := sum.Mul(1 / float64(len(neighbors)))

	desired := center.Sub(self.Position).Normalize().Mul(self.Params.MaxSpeed)
	return Steer(desired, self.Velocity, self.Params.MaxForce)
}

// Separation steers self away from the neighbors inside its separation radius.
// The radius filter is applied here, on top of the neighborhood query, so an
// agent can have neighbors and still nobody to avoid.
// Neighbors sitting exactly on self have no direction to flee from and are skipped.
func Separation(self State, neighbors []State) geometry.Vector2D {
	radiusSq := self.Params.SeparationRadius * self.Params.SeparationRadius

	var away geometry.Vector2D
	count := 0
	for _, n := range neighbors {
		diff := self.Position.Sub(n.Position)
		distSq := diff.LenSqr()
		if distSq > radiusSq || distSq < geometry.Epsilon*geometry.Epsilon {
			continue
		}
		away = away.Add(diff.Normalize())
		count++
	}
	if count == 0 {
		return geometry.Zero
	}

	away = away.Mul(1 / float64(count))
	desired := away.Normalize().Mul(self.Params.MaxSpeed)
	return Steer(desired, self.Velocity, self.Params.MaxForce)
}

// Acceleration combines the three rules with the weights of self.Params.
// Each rule is already limited to MaxForce; the weighted sum is
// not clamped again, overlapping rules are allowed to add up.
func Acceleration(self State, neighbors []State) geometry.Vector2D {
	p := self.Params
	return Alignment(self, neighbors).Mul(p.AlignmentAmount).
		Add(Cohesion(self, neighbors).Mul(p.CohesionAmount)).
		Add(Separation(self, neighbors).Mul(p.SeparationAmount))
}
