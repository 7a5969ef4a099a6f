package engine

import (
	"image/color"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
)

// Canvas is what draw handlers paint on. The ebiten backend implements it;
// tests record calls. Zero Scale means 1. Fixed skips the camera transform.
type Canvas interface {
	DrawRect(o RectOpt)
	DrawCircle(o CircleOpt)
	DrawSprite(o SpriteOpt)
	DrawText(o TextOpt)
	DrawLine(o LineOpt)
}

type RectOpt struct {
	Pos     cp.Vector
	W, H    float64
	Anchor  cp.Vector
	Scale   cp.Vector
	Angle   float64
	Radius  float64
	Outline float64
	Color   color.RGBA
	Fixed   bool
}

type CircleOpt struct {
	Pos     cp.Vector
	Radius  float64
	Outline float64
	Color   color.RGBA
	Fixed   bool
}

type SpriteOpt struct {
	Key          asset.Key
	Frame        int
	Pos          cp.Vector
	Anchor       cp.Vector
	Scale        cp.Vector
	Angle        float64
	FlipX, FlipY bool
	Width        float64
	Height       float64
	Color        color.RGBA // multiplied in; zero means untinted
	Shader       asset.Key
	Uniforms     map[string]any
	Fixed        bool
}

type TextOpt struct {
	Text   string
	Pos    cp.Vector
	Size   float64
	Width  float64
	Anchor cp.Vector
	Scale  cp.Vector
	Angle  float64
	Color  color.RGBA
	Fixed  bool
}

type LineOpt struct {
	From, To cp.Vector
	Width    float64
	Color    color.RGBA
	Fixed    bool
}

// Anchors are normalized: (-1,-1) top-left, (0,0) center, (1,1) bottom-right.
var (
	AnchorTopLeft = cp.Vector{X: -1, Y: -1}
	AnchorTop     = cp.Vector{X: 0, Y: -1}
	AnchorCenter  = cp.Vector{}
	AnchorBottom  = cp.Vector{X: 0, Y: 1}
	AnchorBotLeft = cp.Vector{X: -1, Y: 1}
)

// TopLeft returns the top-left corner of a w*h box anchored at pos.
func TopLeft(pos, anchor cp.Vector, w, h float64) cp.Vector {
	return cp.Vector{
		X: pos.X - (anchor.X+1)/2*w,
		Y: pos.Y - (anchor.Y+1)/2*h,
	}
}
