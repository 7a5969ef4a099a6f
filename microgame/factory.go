package microgame

import (
	"image/color"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/conductor"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/pool"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

var ConfettiSound = asset.SharedKey("confetti")

// Factory builds round contexts on top of a resource pool.
type Factory struct {
	app *pool.App
	rng *rand.Rand
	log zerolog.Logger
}

func NewFactory(app *pool.App, rng *rand.Rand, log zerolog.Logger) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Factory{app: app, rng: rng, log: log}
}

// New binds m to round r.
func (f *Factory) New(m Microgame, r Round) Context {
	return &gameContext{
		Round: r,
		app:   f.app,
		host:  f.app.Host(),
		ns:    ID(m),
		rng:   f.rng,
	}
}

type gameContext struct {
	Round
	app  *pool.App
	host *engine.Host
	ns   string
	rng  *rand.Rand
}

func (g *gameContext) Add(comps ...scene.Comp) *scene.Object {
	return g.app.Scene.Add(comps...)
}

func (g *gameContext) Get(tag string) []*scene.Object {
	return g.app.Scene.Get(tag)
}

func (g *gameContext) DestroyAll(tag string) {
	for _, o := range g.app.Scene.Get(tag) {
		o.Destroy()
	}
}

func (g *gameContext) SpriteKey(name string) asset.Key {
	return asset.Resolve(g.ns, name)
}

func (g *gameContext) Sprite(name string) scene.Comp {
	return scene.Sprite(g.SpriteKey(name))
}

func (g *gameContext) SpriteSize(name string, w, h float64) scene.Comp {
	return scene.SpriteSize(g.SpriteKey(name), w, h)
}

func (g *gameContext) GetSprite(name string) (*asset.Sprite, bool) {
	return g.host.Assets.Sprite(g.SpriteKey(name))
}

func (g *gameContext) GetSound(name string) (asset.Sound, bool) {
	return g.host.Assets.Sound(g.SpriteKey(name))
}

func (g *gameContext) Shader(name string, uniforms map[string]any) scene.Comp {
	return scene.Shader(g.SpriteKey(name), uniforms)
}

func (g *gameContext) DrawSprite(c engine.Canvas, name string, opt engine.SpriteOpt) {
	opt.Key = g.SpriteKey(name)
	c.DrawSprite(opt)
}

func (g *gameContext) Play(name string, opt engine.PlayOpt) *engine.Sound {
	return g.app.Sounds.Play(g.SpriteKey(name), opt)
}

func (g *gameContext) Wait(sec float64, fn func()) *engine.Timer {
	return pool.Add(g.app.Timers, g.host.Loop.Wait(sec, fn))
}

func (g *gameContext) Loop(sec float64, fn func(), count int) *engine.Timer {
	return pool.Add(g.app.Timers, g.host.Loop.Every(sec, fn, count))
}

func (g *gameContext) Tween(from, to, duration float64, set func(float64), ease engine.Easing) *engine.Tween {
	return pool.Add(g.app.Timers, g.host.Loop.Tween(from, to, duration, set, ease))
}

func (g *gameContext) TweenVec(from, to cp.Vector, duration float64, set func(cp.Vector), ease engine.Easing) *engine.Tween {
	return pool.Add(g.app.Timers, g.host.Loop.TweenVec(from, to, duration, set, ease))
}

func (g *gameContext) Conductor(bpm float64) *conductor.Conductor {
	return pool.Add(g.app.Conductors, conductor.New(g.host.Loop, bpm, false))
}

func (g *gameContext) OnUpdate(fn func()) *engine.EventHandle {
	return pool.Add(g.app.Events, g.host.Loop.OnUpdate(fn))
}

func (g *gameContext) OnUpdateTagged(tag string, fn func(o *scene.Object)) *engine.EventHandle {
	return g.OnUpdate(func() {
		for _, o := range g.app.Scene.Get(tag) {
			if o.Exists() {
				fn(o)
			}
		}
	})
}

func (g *gameContext) OnDraw(fn func(c engine.Canvas)) *engine.EventHandle {
	return pool.Add(g.app.Events, g.host.Loop.OnDraw(fn))
}

type pairKey struct {
	a, b *scene.Object
}

// OnCollide fires once when a pair starts touching and again only after it
// has separated.
func (g *gameContext) OnCollide(tagA, tagB string, fn func(a, b *scene.Object)) *engine.EventHandle {
	touching := make(map[pairKey]bool)
	return g.OnUpdate(func() {
		seen := make(map[pairKey]bool, len(touching))
		for _, a := range g.app.Scene.Get(tagA) {
			for _, b := range g.app.Scene.Get(tagB) {
				if !a.Exists() || !b.Exists() || !a.Overlaps(b) {
					continue
				}
				k := pairKey{a: a, b: b}
				seen[k] = true
				if !touching[k] {
					fn(a, b)
				}
			}
		}
		touching = seen
	})
}

func (g *gameContext) OnClick(fn func()) *engine.EventHandle {
	return g.OnMousePress(func(b engine.MouseButton) {
		if b == engine.MouseLeft {
			fn()
		}
	})
}

// OnClickTagged fires for every tagged object under the cursor.
func (g *gameContext) OnClickTagged(tag string, fn func(o *scene.Object)) *engine.EventHandle {
	return g.OnMousePress(func(b engine.MouseButton) {
		if b != engine.MouseLeft {
			return
		}
		for _, o := range g.app.Scene.Get(tag) {
			if g.IsHovering(o) {
				fn(o)
			}
		}
	})
}

func (g *gameContext) OnKeyPress(k engine.Key, fn func()) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnKeyPress(k, fn))
}

func (g *gameContext) OnKeyPressAny(fn func(k engine.Key)) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnKeyPressAny(fn))
}

func (g *gameContext) OnKeyDown(k engine.Key, fn func()) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnKeyDown(k, fn))
}

func (g *gameContext) OnKeyRelease(k engine.Key, fn func()) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnKeyRelease(k, fn))
}

func (g *gameContext) OnMousePress(fn func(b engine.MouseButton)) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnMousePress(fn))
}

func (g *gameContext) OnMouseRelease(fn func(b engine.MouseButton)) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnMouseRelease(fn))
}

func (g *gameContext) OnMouseMove(fn func(pos, delta cp.Vector)) *engine.EventHandle {
	return pool.Add(g.app.Inputs, g.host.Input.OnMouseMove(fn))
}

func (g *gameContext) IsKeyDown(k engine.Key) bool {
	return g.host.Input.IsKeyDown(k)
}

func (g *gameContext) IsKeyPressed(k engine.Key) bool {
	return g.host.Input.IsKeyPressed(k)
}

func (g *gameContext) IsMouseDown(b engine.MouseButton) bool {
	return g.host.Input.IsMouseDown(b)
}

func (g *gameContext) MousePos() cp.Vector {
	return g.host.Input.MousePos()
}

func (g *gameContext) WorldMousePos() cp.Vector {
	return g.app.Camera.ToWorld(g.host.Input.MousePos())
}

func (g *gameContext) IsHovering(o *scene.Object) bool {
	if o.IsFixed() {
		return o.HasPoint(g.MousePos())
	}
	return o.HasPoint(g.WorldMousePos())
}

func (g *gameContext) Rand(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// RandInt returns an int in [lo, hi).
func (g *gameContext) RandInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo)
}

func (g *gameContext) Chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *gameContext) DT() float64 {
	return g.host.Loop.DT()
}

func (g *gameContext) Time() float64 {
	return g.host.Loop.Time()
}

func (g *gameContext) Width() float64 {
	return common.BaseWidth
}

func (g *gameContext) Height() float64 {
	return common.BaseHeight
}

func (g *gameContext) Center() cp.Vector {
	return cp.Vector{X: common.BaseWidth / 2, Y: common.BaseHeight / 2}
}

func (g *gameContext) CamPos() cp.Vector {
	return g.app.Camera.Pos
}

func (g *gameContext) SetCamPos(p cp.Vector) {
	g.app.Camera.Pos = p
}

func (g *gameContext) CamScale() float64 {
	return g.app.Camera.Scale
}

func (g *gameContext) SetCamScale(s float64) {
	g.app.Camera.Scale = s
}

func (g *gameContext) CamAngle() float64 {
	return g.app.Camera.Angle
}

func (g *gameContext) SetCamAngle(deg float64) {
	g.app.Camera.Angle = deg
}

func (g *gameContext) ShakeCam(intensity float64) {
	g.app.Camera.Shake(intensity)
}

func (g *gameContext) FlashCam(c color.RGBA, seconds float64) {
	g.app.Camera.Flash(c, seconds)
}

var confettiColors = []color.RGBA{common.Yellow, common.Pink, common.Blue, common.Green, common.Orange}

// AddConfetti bursts colored paper from pos.
func (g *gameContext) AddConfetti(pos cp.Vector) {
	g.app.Sounds.Play(ConfettiSound, engine.PlayOpt{})
	for i := 0; i < 40; i++ {
		vel := cp.ForAngle(g.Rand(-3.0, -0.14)).Mult(g.Rand(200, 600))
		g.app.Scene.Add(
			scene.PosV(pos),
			scene.Rect(g.Rand(4, 10), g.Rand(8, 16)),
			scene.Anchor(engine.AnchorCenter),
			scene.Color(confettiColors[g.rng.Intn(len(confettiColors))]),
			scene.Move(vel),
			scene.Gravity(900),
			scene.Spin(g.Rand(-720, 720)),
			scene.Lifespan(g.Rand(1, 2), 0.5),
			scene.Z(1000),
			scene.Tag("confetti"),
		)
	}
}
