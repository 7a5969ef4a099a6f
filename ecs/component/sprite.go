package component

import "github.com/itzKiwiSky/KAPLAYware-sub000/asset"

// Sprite references an image in the asset registry. The key is already
// resolved to the owning microgame's namespace.
type Sprite struct {
	Key   asset.Key
	Frame int
	FlipX bool
	FlipY bool
	// Width/Height override the natural frame size when non-zero.
	Width  float64
	Height float64
}

var SpriteComponent = NewComponent[Sprite]()
