// Package microgame defines what a microgame author supplies and what the ware
// hands back: the descriptor, the registry it lives in, the load-time context
// and the per-round capability context.
package microgame

import (
	"image/color"
)

type InputKind int

const (
	InputKeys InputKind = iota
	InputMouse
	InputMouseHidden
)

func (k InputKind) String() string {
	switch k {
	case InputKeys:
		return "keys"
	case InputMouse:
		return "mouse"
	case InputMouseHidden:
		return "mouse (hidden)"
	default:
		return "unknown"
	}
}

// ParseInputKind accepts the names String returns.
func ParseInputKind(s string) (InputKind, bool) {
	switch s {
	case "", "keys":
		return InputKeys, true
	case "mouse":
		return InputMouse, true
	case "mouse (hidden)", "mouseHidden":
		return InputMouseHidden, true
	default:
		return InputKeys, false
	}
}

// Prompt is either TextPrompt or DynamicPrompt.
type Prompt interface {
	isPrompt()
}

type TextPrompt string

// PromptText is what a DynamicPrompt fills in.
type PromptText struct {
	Text  string
	Color color.RGBA
}

type DynamicPrompt func(ctx Context, p *PromptText)

func (TextPrompt) isPrompt()    {}
func (DynamicPrompt) isPrompt() {}

// Color is either StaticColor or ComputedColor.
type Color interface {
	isColor()
}

type StaticColor color.RGBA

type ComputedColor func(ctx Context) color.RGBA

func (StaticColor) isColor()   {}
func (ComputedColor) isColor() {}

// Duration is Seconds, ComputedDuration or Untimed.
type Duration interface {
	isDuration()
}

type Seconds float64

type ComputedDuration func(ctx Context) float64

type untimed struct{}

// Untimed rounds run until the game calls Finish.
var Untimed Duration = untimed{}

func (Seconds) isDuration()          {}
func (ComputedDuration) isDuration() {}
func (untimed) isDuration()          {}

// Info is shared by both variants.
type Info struct {
	Name      string
	Author    string
	Pack      string
	Prompt    Prompt
	RGB       Color
	URLPrefix string
	Load      func(l LoadContext) error
	Start     func(ctx Context)
}

// ID is "author:name", unique across the registry.
func (i *Info) ID() string {
	return i.Author + ":" + i.Name
}

// Microgame is Normal or Boss.
type Microgame interface {
	Meta() *Info
	IsBoss() bool
}

type Normal struct {
	Info
	Input    InputKind
	Duration Duration
}

func (m *Normal) Meta() *Info {
	return &m.Info
}

func (m *Normal) IsBoss() bool {
	return false
}

// Boss rounds take keys and mouse together and never time out.
type Boss struct {
	Info
	HideMouse bool
}

func (m *Boss) Meta() *Info {
	return &m.Info
}

func (m *Boss) IsBoss() bool {
	return true
}

const DefaultDuration = 4.0

// ID returns m's registry id.
func ID(m Microgame) string {
	if m == nil {
		return ""
	}
	return m.Meta().ID()
}

// HidesMouse reports whether the cursor should be hidden while m runs.
func HidesMouse(m Microgame) bool {
	switch g := m.(type) {
	case *Normal:
		return g.Input == InputMouseHidden
	case *Boss:
		return g.HideMouse
	}
	return false
}

// InputOf is the input icon shown in the prep stage. Boss games report keys.
func InputOf(m Microgame) InputKind {
	if g, ok := m.(*Normal); ok {
		return g.Input
	}
	return InputKeys
}

// ResolveDuration evaluates the round length. ok is false for untimed rounds
// and for every boss.
func ResolveDuration(m Microgame, ctx Context) (float64, bool) {
	g, ok := m.(*Normal)
	if !ok {
		return 0, false
	}
	switch d := g.Duration.(type) {
	case Seconds:
		return float64(d), d > 0
	case ComputedDuration:
		if s := d(ctx); s > 0 {
			return s, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func ResolveColor(m Microgame, ctx Context) color.RGBA {
	switch c := m.Meta().RGB.(type) {
	case StaticColor:
		return color.RGBA(c)
	case ComputedColor:
		return c(ctx)
	default:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
}

func ResolvePrompt(m Microgame, ctx Context) PromptText {
	p := PromptText{Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
	switch pr := m.Meta().Prompt.(type) {
	case TextPrompt:
		p.Text = string(pr)
	case DynamicPrompt:
		pr(ctx, &p)
	}
	return p
}
