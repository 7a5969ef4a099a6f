package common

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// RGB builds an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// LerpColor blends two colors channel by channel.
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = Clamp(t, 0, 1)
	mix := func(x, y uint8) uint8 {
		return uint8(Lerp(float64(x), float64(y), t) + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// WithAlpha returns c with its alpha replaced by a in [0,1].
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	c.A = uint8(Clamp(a, 0, 1)*255 + 0.5)
	return c
}

// Named colors used across the engine and the bundled microgames.
var (
	White  = colornames.White
	Black  = colornames.Black
	Yellow = colornames.Gold
	Orange = colornames.Darkorange
	Red    = colornames.Red
	Green  = colornames.Limegreen
	Blue   = colornames.Dodgerblue
	Pink   = colornames.Hotpink
	Gray   = colornames.Gray
)
