package component

import "image/color"

// Tint carries color and opacity. Opacity is separate from Color.A so tweens
// can fade an object without touching its hue.
type Tint struct {
	Color   color.RGBA
	Opacity float64
}

var TintComponent = NewComponent[Tint]()
