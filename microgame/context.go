package microgame

import (
	"image/color"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/conductor"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

// WinState is undecided until the game calls Win or Lose.
type WinState int

const (
	Undecided WinState = iota
	Won
	Lost
)

func (w WinState) String() string {
	switch w {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "undecided"
	}
}

// Primitives are the engine operations a microgame may use. Every handle they
// return is owned by the round and canceled when it ends.
type Primitives interface {
	Add(comps ...scene.Comp) *scene.Object
	Get(tag string) []*scene.Object
	DestroyAll(tag string)

	// Asset names resolve in the game's namespace unless prefixed with "@".
	Sprite(name string) scene.Comp
	SpriteSize(name string, w, h float64) scene.Comp
	SpriteKey(name string) asset.Key
	GetSprite(name string) (*asset.Sprite, bool)
	GetSound(name string) (asset.Sound, bool)
	Shader(name string, uniforms map[string]any) scene.Comp
	DrawSprite(c engine.Canvas, name string, opt engine.SpriteOpt)
	Play(name string, opt engine.PlayOpt) *engine.Sound

	Wait(sec float64, fn func()) *engine.Timer
	Loop(sec float64, fn func(), count int) *engine.Timer
	Tween(from, to, duration float64, set func(float64), ease engine.Easing) *engine.Tween
	TweenVec(from, to cp.Vector, duration float64, set func(cp.Vector), ease engine.Easing) *engine.Tween
	Conductor(bpm float64) *conductor.Conductor

	OnUpdate(fn func()) *engine.EventHandle
	OnUpdateTagged(tag string, fn func(o *scene.Object)) *engine.EventHandle
	OnDraw(fn func(c engine.Canvas)) *engine.EventHandle
	OnCollide(tagA, tagB string, fn func(a, b *scene.Object)) *engine.EventHandle
	OnClick(fn func()) *engine.EventHandle
	OnClickTagged(tag string, fn func(o *scene.Object)) *engine.EventHandle

	OnKeyPress(k engine.Key, fn func()) *engine.EventHandle
	OnKeyPressAny(fn func(k engine.Key)) *engine.EventHandle
	OnKeyDown(k engine.Key, fn func()) *engine.EventHandle
	OnKeyRelease(k engine.Key, fn func()) *engine.EventHandle
	OnMousePress(fn func(b engine.MouseButton)) *engine.EventHandle
	OnMouseRelease(fn func(b engine.MouseButton)) *engine.EventHandle
	OnMouseMove(fn func(pos, delta cp.Vector)) *engine.EventHandle

	IsKeyDown(k engine.Key) bool
	IsKeyPressed(k engine.Key) bool
	IsMouseDown(b engine.MouseButton) bool
	MousePos() cp.Vector
	WorldMousePos() cp.Vector
	IsHovering(o *scene.Object) bool

	Rand(lo, hi float64) float64
	RandInt(lo, hi int) int
	Chance(p float64) bool

	DT() float64
	Time() float64
	Width() float64
	Height() float64
	Center() cp.Vector
}

// Round is the state the ware engine exposes for the current round.
type Round interface {
	Win()
	Lose()
	// Finish panics with a *ContractError unless Win or Lose came first.
	Finish()
	OnTimeout(fn func()) *engine.EventHandle
	Difficulty() int
	Speed() float64
	Lives() int
	TimeLeft() float64
	Duration() float64
	WinState() WinState
	SetRGB(c color.RGBA)
}

// API is the round state plus shared-camera controls.
type API interface {
	Round
	CamPos() cp.Vector
	SetCamPos(p cp.Vector)
	CamScale() float64
	SetCamScale(s float64)
	CamAngle() float64
	SetCamAngle(deg float64)
	ShakeCam(intensity float64)
	FlashCam(c color.RGBA, seconds float64)
	AddConfetti(pos cp.Vector)
}

// Context is what Start receives.
type Context interface {
	Primitives
	API
}
