// Package games holds the bundled Go microgames. Each registers itself with
// the default registry in init and draws its own sprites at load time.
package games

import (
	_ "embed"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
)

const author = "kaplayware"

// outlineShader rings opaque pixels with OutlineColor while Outline is 1.
//
//go:embed shaders/outline.kage
var outlineShader []byte

func ellipse(dst draw.Image, cx, cy, rx, ry float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	const steps = 40
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		x := cx + rx*float32(math.Cos(a))
		y := cy + ry*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// bean draws the mascot: a body with two eyes. squash flattens it for a
// second animation frame.
func bean(w, h int, body color.RGBA, squash float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fw, fh := float32(w), float32(h)
	ry := fh/2 - 2 - squash
	ellipse(img, fw/2, fh-ry-2, fw/2-2, ry, body)
	for _, ex := range []float32{0.38, 0.62} {
		ellipse(img, fw*ex, fh*0.4+squash, fw*0.07, fh*0.12, common.Black)
	}
	return img
}

// fly is a dot with two wings; up picks the wing position.
func fly(size int, up bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float32(size)
	wy := s * 0.3
	if !up {
		wy = s * 0.45
	}
	wing := color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	ellipse(img, s*0.3, wy, s*0.18, s*0.1, wing)
	ellipse(img, s*0.7, wy, s*0.18, s*0.1, wing)
	ellipse(img, s/2, s*0.6, s*0.2, s*0.25, common.RGB(30, 30, 30))
	return img
}

func hand(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float32(size)
	skin := common.RGB(255, 214, 170)
	ellipse(img, s/2, s*0.6, s*0.35, s*0.3, skin)
	for i := 0; i < 4; i++ {
		x := s*0.26 + float32(i)*s*0.16
		ellipse(img, x, s*0.28, s*0.07, s*0.2, skin)
	}
	return img
}

// strip lays frames left to right; all frames must share a size.
func strip(frames ...*image.RGBA) *image.RGBA {
	b := frames[0].Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx()*len(frames), b.Dy()))
	for i, f := range frames {
		draw.Draw(img, b.Add(image.Pt(i*b.Dx(), 0)), f, image.Point{}, draw.Src)
	}
	return img
}
