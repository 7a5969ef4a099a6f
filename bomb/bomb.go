// Package bomb is the beat-synced countdown shown when a round is about to
// run out of time.
package bomb

import (
	"image/color"
	"strconv"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/conductor"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/pool"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

type Phase int

const (
	Idle Phase = iota
	Lit
	Exploded
	Extinguished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Lit:
		return "lit"
	case Exploded:
		return "exploded"
	case Extinguished:
		return "extinguished"
	default:
		return "unknown"
	}
}

var (
	TickSound      = asset.SharedKey("tick")
	ExplosionSound = asset.SharedKey("explosion")
)

const z = 900

// Bomb lives in the round's pool; resetting the pool removes it.
type Bomb struct {
	app       *pool.App
	phase     Phase
	beatsLeft int
	pending   bool
	cond      *conductor.Conductor
	body      *scene.Object
	fuse      *scene.Object
	label     *scene.Object
	onExplode []func()
}

// New places an unlit bomb showing beats ticks.
func New(app *pool.App, beats int) *Bomb {
	if beats < 1 {
		beats = 1
	}
	b := &Bomb{app: app, beatsLeft: beats}
	pos := cp.Vector{X: 60, Y: common.BaseHeight - 60}
	b.body = app.Scene.Add(scene.PosV(pos), scene.Circle(28), scene.Color(common.RGB(30, 30, 40)), scene.Fixed(), scene.Z(z))
	b.fuse = app.Scene.Add(scene.PosV(pos.Add(cp.Vector{X: 16, Y: -40})), scene.Rect(6, 18), scene.Anchor(engine.AnchorCenter),
		scene.Rotate(30), scene.Fixed(), scene.Z(z))
	b.label = app.Scene.Add(scene.PosV(pos), scene.Text(strconv.Itoa(beats), 28), scene.Anchor(engine.AnchorCenter),
		scene.Fixed(), scene.Z(z+1))
	b.recolor()
	return b
}

func (b *Bomb) Phase() Phase {
	return b.phase
}

func (b *Bomb) BeatsLeft() int {
	return b.beatsLeft
}

func (b *Bomb) HasExploded() bool {
	return b.phase == Exploded
}

func (b *Bomb) OnExplode(fn func()) {
	if fn != nil {
		b.onExplode = append(b.onExplode, fn)
	}
}

// Lit starts ticking at bpm. Only an idle bomb can be lit.
func (b *Bomb) Lit(bpm float64) {
	if b.phase != Idle {
		return
	}
	b.phase = Lit
	b.cond = pool.Add(b.app.Conductors, conductor.New(b.app.Host().Loop, bpm, false))
	b.cond.OnBeat(func(int) { b.Tick() })
}

// Tick counts one beat down. The last tick only arms the explosion; Update
// realizes it on the next frame.
func (b *Bomb) Tick() {
	if b.phase != Lit || b.pending {
		return
	}
	b.beatsLeft--
	b.label.SetText(strconv.Itoa(b.beatsLeft))
	b.recolor()
	if b.beatsLeft > 0 {
		b.app.Sounds.Play(TickSound, engine.PlayOpt{})
		b.label.SetScale(cp.Vector{X: 1.4, Y: 1.4})
		pool.Add(b.app.Timers, b.app.Host().Loop.TweenVec(cp.Vector{X: 1.4, Y: 1.4}, cp.Vector{X: 1, Y: 1}, 0.15,
			b.label.SetScale, engine.OutQuad))
		return
	}
	b.pending = true
}

// Update realizes an armed explosion. Call it at the start of a frame.
func (b *Bomb) Update() {
	if b.pending && b.phase == Lit {
		b.Explode()
	}
}

func (b *Bomb) Explode() {
	if b.phase != Lit {
		return
	}
	b.phase = Exploded
	b.pending = false
	b.cond.Cancel()

	pos := b.body.Pos()
	b.destroy()
	b.app.Sounds.Play(ExplosionSound, engine.PlayOpt{})
	b.app.Camera.Shake(16)
	for i, col := range []color.RGBA{common.Yellow, common.Orange, common.Red} {
		r := float64(60 - i*16)
		b.app.Scene.Add(scene.PosV(pos), scene.Circle(r), scene.Color(col), scene.Fixed(), scene.Z(z+i),
			scene.Lifespan(0.4, 0.3))
	}
	for _, fn := range b.onExplode {
		fn()
	}
}

// Extinguish is the win exit. It is a no-op once the bomb has exploded or was
// already put out.
func (b *Bomb) Extinguish() {
	if b.phase == Exploded || b.phase == Extinguished {
		return
	}
	b.phase = Extinguished
	b.pending = false
	if b.cond != nil {
		b.cond.Cancel()
	}
	fade := func(a float64) {
		b.body.SetOpacity(a)
		b.fuse.SetOpacity(a)
		b.label.SetOpacity(a)
	}
	tw := b.app.Host().Loop.Tween(1, 0, 0.25, fade, engine.Linear).OnEnd(b.destroy)
	pool.Add(b.app.Timers, tw)
}

func (b *Bomb) destroy() {
	b.body.Destroy()
	b.fuse.Destroy()
	b.label.Destroy()
}

func (b *Bomb) recolor() {
	col := common.Yellow
	switch {
	case b.beatsLeft <= 1:
		col = common.Red
	case b.beatsLeft == 2:
		col = common.Orange
	}
	b.label.SetColor(col)
	b.fuse.SetColor(col)
}
