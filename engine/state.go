package engine

import "image/color"

// State is the global mutable host state the ware and microgames share.
type State struct {
	Camera        *Camera
	Background    color.RGBA
	CursorVisible bool
	CanPlaySounds bool
}
