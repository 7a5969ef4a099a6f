package component

import "github.com/jakecoffman/cp"

// Area makes an object collidable and clickable. A zero W/H takes the size
// of the object's sprite, rect or circle.
type Area struct {
	W      float64
	H      float64
	Offset cp.Vector
	Scale  float64
}

var AreaComponent = NewComponent[Area]()
