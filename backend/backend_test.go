package backend

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

func TestKeyNames(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want []engine.Key
	}{
		{ebiten.KeyArrowLeft, []engine.Key{engine.KeyLeft}},
		{ebiten.KeyA, []engine.Key{engine.KeyLeft, "a"}},
		{ebiten.KeyQ, []engine.Key{"q"}},
		{ebiten.KeyDigit3, []engine.Key{"3"}},
		{ebiten.KeySpace, []engine.Key{engine.KeySpace}},
		{ebiten.KeyF1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got := keyNames(tt.key)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestView(t *testing.T) {
	center := cp.Vector{X: common.BaseWidth / 2, Y: common.BaseHeight / 2}
	tests := []struct {
		name  string
		setup func(c *engine.Camera)
		in    cp.Vector
		want  cp.Vector
	}{
		{name: "identity", setup: func(*engine.Camera) {}, in: cp.Vector{X: 100, Y: 50}, want: cp.Vector{X: 100, Y: 50}},
		{name: "pan", setup: func(c *engine.Camera) { c.Pos = c.Pos.Add(cp.Vector{X: 30}) }, in: center, want: center.Sub(cp.Vector{X: 30})},
		{name: "zoom keeps center", setup: func(c *engine.Camera) { c.Scale = 2 }, in: center, want: center},
		{name: "zoom", setup: func(c *engine.Camera) { c.Scale = 2 }, in: center.Add(cp.Vector{X: 10}), want: center.Add(cp.Vector{X: 20})},
		{name: "rotate", setup: func(c *engine.Camera) { c.Angle = 90 }, in: center.Add(cp.Vector{X: 10}), want: center.Add(cp.Vector{Y: 10})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := engine.NewCamera(common.BaseWidth, common.BaseHeight)
			tt.setup(cam)
			g := view(cam)
			x, y := g.Apply(tt.in.X, tt.in.Y)
			if math.Abs(x-tt.want.X) > 1e-9 || math.Abs(y-tt.want.Y) > 1e-9 {
				t.Fatalf("expected %v, got (%v, %v)", tt.want, x, y)
			}
		})
	}
}
