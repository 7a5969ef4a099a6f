package component

import "github.com/itzKiwiSky/KAPLAYware-sub000/asset"

// Animation plays one of the sprite's named frame ranges.
type Animation struct {
	Defs       map[string]asset.Anim
	Current    string
	Elapsed    float64
	Playing    bool
}

var AnimationComponent = NewComponent[Animation]()
