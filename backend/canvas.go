// Package backend plugs the headless engine into ebiten: a Canvas that paints
// onto an *ebiten.Image, audio voices on an ebiten audio context, and input
// sampling with inpututil.
package backend

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	fontSource    *text.GoTextFaceSource
)

func init() {
	whiteImage.Fill(color.White)

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("backend: load font: " + err.Error())
	}
	fontSource = src
}

// Canvas implements engine.Canvas for one frame.
type Canvas struct {
	screen *ebiten.Image
	cam    *engine.Camera
	cache  *Cache
}

func NewCanvas(screen *ebiten.Image, cam *engine.Camera, cache *Cache) *Canvas {
	return &Canvas{screen: screen, cam: cam, cache: cache}
}

// view is the camera transform: world space to screen space.
func view(cam *engine.Camera) ebiten.GeoM {
	var g ebiten.GeoM
	if cam == nil {
		return g
	}
	center := cp.Vector{X: common.BaseWidth / 2, Y: common.BaseHeight / 2}
	shake := cam.Offset().Sub(center.Sub(cam.Pos))
	scale := cam.Scale
	if scale == 0 {
		scale = 1
	}
	g.Translate(-cam.Pos.X, -cam.Pos.Y)
	g.Rotate(cam.Angle * math.Pi / 180)
	g.Scale(scale, scale)
	g.Translate(center.X+shake.X, center.Y+shake.Y)
	return g
}

func (c *Canvas) geo(fixed bool) ebiten.GeoM {
	if fixed {
		return ebiten.GeoM{}
	}
	return view(c.cam)
}

func (c *Canvas) point(p cp.Vector, fixed bool) (float32, float32) {
	g := c.geo(fixed)
	x, y := g.Apply(p.X, p.Y)
	return float32(x), float32(y)
}

func (c *Canvas) zoom(fixed bool) float64 {
	if fixed || c.cam == nil || c.cam.Scale == 0 {
		return 1
	}
	return c.cam.Scale
}

func scaleOf(v cp.Vector) cp.Vector {
	if v.X == 0 && v.Y == 0 {
		return cp.Vector{X: 1, Y: 1}
	}
	return v
}

// local builds the model transform for a w*h box: anchor, scale and rotation
// around pos, then the camera.
func (c *Canvas) local(pos, anchor, scale cp.Vector, angle, w, h float64, fixed bool) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-(anchor.X+1)/2*w, -(anchor.Y+1)/2*h)
	s := scaleOf(scale)
	g.Scale(s.X, s.Y)
	g.Rotate(angle * math.Pi / 180)
	g.Translate(pos.X, pos.Y)
	g.Concat(c.geo(fixed))
	return g
}

func (c *Canvas) DrawRect(o engine.RectOpt) {
	if o.Outline > 0 && o.Angle == 0 {
		tl := engine.TopLeft(o.Pos, o.Anchor, o.W*scaleOf(o.Scale).X, o.H*scaleOf(o.Scale).Y)
		x, y := c.point(tl, o.Fixed)
		k := c.zoom(o.Fixed)
		vector.StrokeRect(c.screen, x, y, float32(o.W*scaleOf(o.Scale).X*k), float32(o.H*scaleOf(o.Scale).Y*k),
			float32(o.Outline*k), o.Color, true)
		return
	}
	if o.Radius > 0 && o.Angle == 0 {
		c.roundRect(o)
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(o.W, o.H)
	op.GeoM.Concat(c.local(o.Pos, o.Anchor, o.Scale, o.Angle, o.W, o.H, o.Fixed))
	op.ColorScale.ScaleWithColor(o.Color)
	c.screen.DrawImage(whiteSubImage, op)
}

// roundRect paints an axis-aligned rounded box from two bars and four discs.
func (c *Canvas) roundRect(o engine.RectOpt) {
	s := scaleOf(o.Scale)
	w, h := o.W*s.X, o.H*s.Y
	r := math.Min(o.Radius, math.Min(w, h)/2)
	tl := engine.TopLeft(o.Pos, o.Anchor, w, h)
	k := c.zoom(o.Fixed)

	x, y := c.point(tl, o.Fixed)
	fw, fh, fr := float32(w*k), float32(h*k), float32(r*k)
	vector.DrawFilledRect(c.screen, x+fr, y, fw-2*fr, fh, o.Color, true)
	vector.DrawFilledRect(c.screen, x, y+fr, fw, fh-2*fr, o.Color, true)
	for _, p := range [][2]float32{{x + fr, y + fr}, {x + fw - fr, y + fr}, {x + fr, y + fh - fr}, {x + fw - fr, y + fh - fr}} {
		vector.DrawFilledCircle(c.screen, p[0], p[1], fr, o.Color, true)
	}
}

func (c *Canvas) DrawCircle(o engine.CircleOpt) {
	x, y := c.point(o.Pos, o.Fixed)
	r := float32(o.Radius * c.zoom(o.Fixed))
	if o.Outline > 0 {
		vector.StrokeCircle(c.screen, x, y, r, float32(o.Outline*c.zoom(o.Fixed)), o.Color, true)
		return
	}
	vector.DrawFilledCircle(c.screen, x, y, r, o.Color, true)
}

func (c *Canvas) DrawLine(o engine.LineOpt) {
	x0, y0 := c.point(o.From, o.Fixed)
	x1, y1 := c.point(o.To, o.Fixed)
	w := o.Width
	if w <= 0 {
		w = 1
	}
	vector.StrokeLine(c.screen, x0, y0, x1, y1, float32(w*c.zoom(o.Fixed)), o.Color, true)
}

func (c *Canvas) DrawSprite(o engine.SpriteOpt) {
	img, ok := c.cache.Frame(o.Key, o.Frame)
	if !ok {
		return
	}
	b := img.Bounds()
	fw, fh := float64(b.Dx()), float64(b.Dy())
	w, h := fw, fh
	if o.Width > 0 {
		w = o.Width
	}
	if o.Height > 0 {
		h = o.Height
	}

	var g ebiten.GeoM
	if o.FlipX {
		g.Scale(-1, 1)
		g.Translate(fw, 0)
	}
	if o.FlipY {
		g.Scale(1, -1)
		g.Translate(0, fh)
	}
	g.Scale(w/fw, h/fh)
	g.Concat(c.local(o.Pos, o.Anchor, o.Scale, o.Angle, w, h, o.Fixed))

	if o.Shader.Name != "" {
		if sh, ok := c.cache.Shader(o.Shader); ok {
			op := &ebiten.DrawRectShaderOptions{GeoM: g, Uniforms: o.Uniforms}
			op.Images[0] = img
			if o.Color.A != 0 {
				op.ColorScale.ScaleWithColor(o.Color)
			}
			c.screen.DrawRectShader(b.Dx(), b.Dy(), sh, op)
			return
		}
	}

	op := &ebiten.DrawImageOptions{GeoM: g, Filter: ebiten.FilterLinear}
	if o.Color.A != 0 {
		op.ColorScale.ScaleWithColor(o.Color)
	}
	c.screen.DrawImage(img, op)
}

func face(size float64) *text.GoTextFace {
	if size <= 0 {
		size = 16
	}
	return &text.GoTextFace{Source: fontSource, Size: size}
}

// MeasureText returns the size of s at size, before scaling.
func MeasureText(s string, size float64) (float64, float64) {
	f := face(size)
	return text.Measure(s, f, f.Size*1.2)
}

func (c *Canvas) DrawText(o engine.TextOpt) {
	size := o.Size
	w, h := MeasureText(o.Text, size)
	if o.Width > 0 && w > o.Width {
		size *= o.Width / w
		w, h = MeasureText(o.Text, size)
	}
	f := face(size)

	op := &text.DrawOptions{}
	op.LineSpacing = f.Size * 1.2
	op.GeoM = c.local(o.Pos, o.Anchor, o.Scale, o.Angle, w, h, o.Fixed)
	op.ColorScale.ScaleWithColor(o.Color)
	text.Draw(c.screen, o.Text, f, op)
}

// Flash paints the camera flash over the whole frame.
func (c *Canvas) Flash() {
	if c.cam == nil {
		return
	}
	if col, ok := c.cam.FlashColor(); ok {
		b := c.screen.Bounds()
		vector.DrawFilledRect(c.screen, 0, 0, float32(b.Dx()), float32(b.Dy()), col, false)
	}
}
