package scene

import (
	"image/color"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

var areaColor = color.RGBA{R: 0x00, G: 0xff, B: 0x80, A: 0xff}

// DrawAreas outlines every object's collision area, with a cross at its
// position.
func (s *Scene) DrawAreas(c engine.Canvas) {
	for _, o := range s.Objects() {
		bb, ok := o.Area()
		if !ok || o.hidden {
			continue
		}
		fixed := o.IsFixed()
		c.DrawRect(engine.RectOpt{
			Pos:     cp.Vector{X: bb.L, Y: bb.B},
			W:       bb.R - bb.L,
			H:       bb.T - bb.B,
			Anchor:  engine.AnchorTopLeft,
			Outline: 1,
			Color:   areaColor,
			Fixed:   fixed,
		})
		p := o.Pos()
		c.DrawLine(engine.LineOpt{From: p.Add(cp.Vector{X: -4}), To: p.Add(cp.Vector{X: 4}), Width: 1, Color: areaColor, Fixed: fixed})
		c.DrawLine(engine.LineOpt{From: p.Add(cp.Vector{Y: -4}), To: p.Add(cp.Vector{Y: 4}), Width: 1, Color: areaColor, Fixed: fixed})
	}
}
