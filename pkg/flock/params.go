package flock

// Params holds the tunable values of one flock or species.
// Agents keep a pointer to it so a whole species can share a single instance.
// Treat a Params as immutable once agents reference it: to change the tuning,
// build a new value and swap it in between ticks with Simulator.Retune.
type Params struct {
	MaxSpeed float64 `json:"maxSpeed"` // clamp for |velocity|
	MaxForce float64 `json:"maxForce"` // clamp for every single steering term

	NeighborhoodRadius float64 `json:"neighborhoodRadius"` // alignment and cohesion
	SeparationRadius   float64 `json:"separationRadius"`   // personal space, usually <= NeighborhoodRadius

	AlignmentAmount  float64 `json:"alignmentAmount"`
	CohesionAmount   float64 `json:"cohesionAmount"`
	SeparationAmount float64 `json:"separationAmount"`
}

// DefaultParams returns the classic fish school tuning.
func DefaultParams() Params {
	return Params{
		MaxSpeed:           1,
		MaxForce:           0.1,
		NeighborhoodRadius: 3,
		SeparationRadius:   1,
		AlignmentAmount:    1,
		CohesionAmount:     1,
		SeparationAmount:   1,
	}
}
