package component

import "github.com/jakecoffman/cp"

type Transform struct {
	Pos   cp.Vector
	Scale cp.Vector
	Angle float64 // degrees
}

var TransformComponent = NewComponent[Transform]()
