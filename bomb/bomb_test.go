package bomb

import (
	"testing"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/pool"
)

type secs float64

func (s secs) Duration() float64 { return float64(s) }

func newBomb(t *testing.T) (*engine.Host, *pool.App, *Bomb) {
	t.Helper()
	h := engine.NewHost(nil, engine.WithAudioUnlocked())
	h.Assets.AddSound(TickSound, secs(30))
	app := pool.New(h)
	return h, app, New(app, 3)
}

func run(h *engine.Host, b *Bomb, frames int) {
	for i := 0; i < frames; i++ {
		b.Update()
		h.Step(1.0/60, engine.FrameInput{})
	}
}

func TestCountdown(t *testing.T) {
	h, app, b := newBomb(t)
	explosions := 0
	b.OnExplode(func() { explosions++ })

	b.Lit(60)
	b.Lit(60)
	if app.Conductors.Len() != 1 {
		t.Fatalf("lighting twice must not start a second clock")
	}

	run(h, b, 62)
	if b.BeatsLeft() != 2 || b.Phase() != Lit {
		t.Fatalf("expected 2 beats left, got %d (%v)", b.BeatsLeft(), b.Phase())
	}

	run(h, b, 120)
	if !b.HasExploded() || explosions != 1 {
		t.Fatalf("expected explosion, phase=%v explosions=%d", b.Phase(), explosions)
	}
	if app.Sounds.Len() != 2 {
		t.Fatalf("expected two tick sounds, got %d", app.Sounds.Len())
	}
	if app.Conductors.Len() != 0 {
		t.Fatalf("explosion should stop the conductor")
	}

	b.Extinguish()
	b.Explode()
	if b.Phase() != Exploded || explosions != 1 {
		t.Fatalf("exploded bomb must ignore further calls")
	}
}

func TestExtinguishWinsSameFrame(t *testing.T) {
	_, _, b := newBomb(t)
	b.Lit(60)
	b.Tick()
	b.Tick()
	b.Tick()
	if b.BeatsLeft() != 0 || b.HasExploded() {
		t.Fatalf("last tick should only arm the explosion")
	}

	b.Extinguish()
	b.Update()
	if b.Phase() != Extinguished {
		t.Fatalf("expected extinguished, got %v", b.Phase())
	}
}

func TestExtinguishedBombStopsTicking(t *testing.T) {
	h, app, b := newBomb(t)
	b.Lit(120)
	run(h, b, 31)
	b.Extinguish()
	b.Extinguish()
	left := b.BeatsLeft()

	run(h, b, 240)
	if b.BeatsLeft() != left || b.HasExploded() {
		t.Fatalf("extinguished bomb kept ticking")
	}
	if app.Scene.Len() != 0 {
		t.Fatalf("bomb should fade out and remove itself, %d objects left", app.Scene.Len())
	}
}

func TestPausedBombHolds(t *testing.T) {
	h, app, b := newBomb(t)
	b.Lit(60)
	app.SetPaused(true)
	run(h, b, 600)
	if b.BeatsLeft() != 3 {
		t.Fatalf("paused pool should freeze the bomb")
	}
}
