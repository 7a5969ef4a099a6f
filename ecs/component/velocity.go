package component

import "github.com/jakecoffman/cp"

// Velocity moves an object every tick, in pixels per second.
type Velocity struct {
	V       cp.Vector
	Gravity float64
	Spin    float64 // degrees per second
}

var VelocityComponent = NewComponent[Velocity]()
