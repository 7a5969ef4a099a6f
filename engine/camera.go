package engine

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

// Camera is the shared view transform. Shake decays on its own; a paused
// camera holds its current shake.
type Camera struct {
	Pos   cp.Vector
	Scale float64
	Angle float64

	center    cp.Vector
	shake     float64
	offset    cp.Vector
	flash     color.RGBA
	flashDur  float64
	flashLeft float64
	paused    bool
	rng       *rand.Rand
}

func NewCamera(width, height float64) *Camera {
	c := &Camera{center: cp.Vector{X: width / 2, Y: height / 2}, rng: rand.New(rand.NewSource(1))}
	c.Reset()
	return c
}

// Reset restores the camera to the screen center with no shake or flash.
func (c *Camera) Reset() {
	c.Pos = c.center
	c.Scale = 1
	c.Angle = 0
	c.shake = 0
	c.offset = cp.Vector{}
	c.flashLeft = 0
}

func (c *Camera) Shake(intensity float64) {
	c.shake += intensity
}

func (c *Camera) ShakeAmount() float64 {
	return c.shake
}

func (c *Camera) Flash(col color.RGBA, duration float64) {
	c.flash = col
	c.flashDur = duration
	c.flashLeft = duration
}

// FlashColor returns the flash overlay for this frame, alpha already faded.
func (c *Camera) FlashColor() (color.RGBA, bool) {
	if c.flashLeft <= 0 || c.flashDur <= 0 {
		return color.RGBA{}, false
	}
	col := c.flash
	col.A = uint8(float64(col.A) * c.flashLeft / c.flashDur)
	return col, true
}

func (c *Camera) Paused() bool {
	return c.paused
}

func (c *Camera) SetPaused(p bool) {
	c.paused = p
}

func (c *Camera) Update(dt float64) {
	if c.paused {
		return
	}
	c.shake = c.shake + (0-c.shake)*math.Min(1, 5*dt)
	if c.shake < 0.01 {
		c.shake = 0
	}
	c.offset = cp.Vector{
		X: (c.rng.Float64()*2 - 1) * c.shake,
		Y: (c.rng.Float64()*2 - 1) * c.shake,
	}
	if c.flashLeft > 0 {
		c.flashLeft = math.Max(0, c.flashLeft-dt)
	}
}

// Offset is the translation to apply to world-space drawing.
func (c *Camera) Offset() cp.Vector {
	return c.center.Sub(c.Pos).Add(c.offset)
}

// ToWorld converts a screen point into world space.
func (c *Camera) ToWorld(p cp.Vector) cp.Vector {
	return p.Sub(c.Offset())
}
