package component

type Rect struct {
	W       float64
	H       float64
	Radius  float64
	Outline float64
}

var RectComponent = NewComponent[Rect]()

type Circle struct {
	Radius float64
}

var CircleComponent = NewComponent[Circle]()
