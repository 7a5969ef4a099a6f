package component

// Anchor is the normalized pivot: (-1,-1) top-left, (0,0) center,
// (1,1) bottom-right. Objects without one are anchored top-left.
type Anchor struct {
	X float64
	Y float64
}

var AnchorComponent = NewComponent[Anchor]()
