package games

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
	"github.com/itzKiwiSky/KAPLAYware-sub000/transition"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

const frame = 1.0 / 60

func play(t *testing.T, m microgame.Microgame, opts ...ware.Option) (*engine.Host, *ware.Engine) {
	t.Helper()
	reg := microgame.NewRegistry()
	reg.Register(m)
	h := engine.NewHost(nil, engine.WithAudioUnlocked())
	if err := microgame.Load(m, microgame.LoadEnv{Assets: h.Assets}); err != nil {
		t.Fatalf("load: %v", err)
	}
	opts = append([]ware.Option{ware.WithRand(rand.New(rand.NewSource(5)))}, opts...)
	e, err := ware.New(h, reg, ware.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	e.Start()
	for i := 0; e.Runner().Active(); i++ {
		if i > 600 {
			t.Fatalf("transition never ended")
		}
		h.Step(frame, engine.FrameInput{})
	}
	return h, e
}

func runFor(h *engine.Host, seconds float64) {
	for i := 0; i < int(seconds*60); i++ {
		h.Step(frame, engine.FrameInput{})
	}
}

func center(t *testing.T, o *scene.Object) cp.Vector {
	t.Helper()
	bb, ok := o.Area()
	if !ok {
		t.Fatalf("object has no area")
	}
	return cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}

func click(h *engine.Host, at cp.Vector) {
	h.Step(frame, engine.FrameInput{
		Mouse:        at,
		MousePressed: []engine.MouseButton{engine.MouseLeft},
		MouseDown:    []engine.MouseButton{engine.MouseLeft},
	})
}

func TestBundledGamesRegistered(t *testing.T) {
	want := map[string]bool{
		"kaplayware:clickbean": false,
		"kaplayware:dodge":     false,
		"kaplayware:swat":      false,
		"kaplayware:bossbean":  true,
	}
	for id, boss := range want {
		m, ok := microgame.Default().Find(id)
		if !ok {
			t.Fatalf("%s not registered", id)
		}
		if m.IsBoss() != boss {
			t.Fatalf("%s: expected boss %v", id, boss)
		}
	}
}

func TestLoadDrawsSprites(t *testing.T) {
	h := engine.NewHost(nil)
	for _, m := range []microgame.Microgame{ClickBean(), Swat(), BossBean()} {
		if err := microgame.Load(m, microgame.LoadEnv{Assets: h.Assets}); err != nil {
			t.Fatalf("load %s: %v", microgame.ID(m), err)
		}
	}

	tests := []struct {
		key    asset.Key
		frames int
		w      float64
	}{
		{asset.Resolve("kaplayware:clickbean", "bean"), 2, 64},
		{asset.Resolve("kaplayware:swat", "fly"), 2, 32},
		{asset.Resolve("kaplayware:swat", "hand"), 1, 64},
		{asset.Resolve("kaplayware:bossbean", "boss"), 1, 200},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			spr, ok := h.Assets.Sprite(tt.key)
			if !ok {
				t.Fatalf("sprite missing")
			}
			if w, _ := spr.FrameSize(); spr.FrameCount() != tt.frames || w != tt.w {
				t.Fatalf("expected %d frames %vpx wide, got %d %v", tt.frames, tt.w, spr.FrameCount(), w)
			}
		})
	}
	if _, ok := h.Assets.Sprite(asset.Resolve("kaplayware:swat", "bean")); ok {
		t.Fatalf("expected sprites to stay in their own namespace")
	}
	if sh, ok := h.Assets.Shader(asset.Resolve("kaplayware:clickbean", "outline")); !ok || len(sh.Source) == 0 {
		t.Fatalf("expected the outline shader")
	}
}

type sprites []engine.SpriteOpt

func (s *sprites) DrawRect(engine.RectOpt)     {}
func (s *sprites) DrawCircle(engine.CircleOpt) {}
func (s *sprites) DrawText(engine.TextOpt)     {}
func (s *sprites) DrawLine(engine.LineOpt)     {}
func (s *sprites) DrawSprite(o engine.SpriteOpt) {
	*s = append(*s, o)
}

func TestClickBeanOutlinesOnHover(t *testing.T) {
	h, e := play(t, ClickBean())
	bean := e.App().Scene.Get("bean")[0]

	outline := func() any {
		var got sprites
		e.Draw(&got)
		for _, o := range got {
			if o.Key == asset.Resolve("kaplayware:clickbean", "bean") {
				if o.Shader.Name != "outline" {
					t.Fatalf("expected the outline shader on the bean, got %v", o.Shader)
				}
				return o.Uniforms["Outline"]
			}
		}
		t.Fatalf("bean not drawn")
		return nil
	}

	h.Step(frame, engine.FrameInput{Mouse: cp.Vector{X: -100, Y: -100}})
	if got := outline(); got != float32(0) {
		t.Fatalf("expected no outline, got %v", got)
	}
	h.Step(frame, engine.FrameInput{Mouse: center(t, bean)})
	if got := outline(); got != float32(1) {
		t.Fatalf("expected an outline while hovered, got %v", got)
	}
}

func TestClickBeanWinsOnClick(t *testing.T) {
	h, e := play(t, ClickBean())
	if !h.State.CursorVisible {
		t.Fatalf("expected a visible cursor for a mouse game")
	}
	if d := e.Duration(); d != 4.5 {
		t.Fatalf("expected 4.5s at difficulty 1, got %v", d)
	}

	beans := e.App().Scene.Get("bean")
	if len(beans) != 1 {
		t.Fatalf("expected one bean, got %d", len(beans))
	}
	click(h, center(t, beans[0]))
	if e.WinState() != microgame.Won {
		t.Fatalf("expected a win, got %v", e.WinState())
	}
	if len(e.App().Scene.Get("confetti")) == 0 {
		t.Fatalf("expected confetti")
	}

	runFor(h, 1)
	if got := e.Stages(); len(got) == 0 || got[0] != transition.Win {
		t.Fatalf("expected the win stage next, got %v", got)
	}
}

func TestClickBeanTimesOut(t *testing.T) {
	h, e := play(t, ClickBean())
	runFor(h, 5)
	if e.WinState() != microgame.Lost || e.Lives() != 3 {
		t.Fatalf("expected a loss on timeout, got %v with %d lives", e.WinState(), e.Lives())
	}
}

func untilDecided(h *engine.Host, e *ware.Engine, seconds float64, in func(i int) engine.FrameInput) {
	for i := 0; i < int(seconds*60) && e.WinState() == microgame.Undecided; i++ {
		h.Step(frame, in(i))
	}
}

func TestDodgeMovesAndDecidesOnTimeout(t *testing.T) {
	h, e := play(t, Dodge())
	player := e.App().Scene.Get("player")[0]
	x := player.Pos().X

	for i := 0; i < 15; i++ {
		h.Step(frame, engine.FrameInput{Down: []engine.Key{engine.KeyRight}})
	}
	if player.Pos().X <= x {
		t.Fatalf("expected the player to move right from %v, got %v", x, player.Pos().X)
	}
	runFor(h, 0.6)
	if e.WinState() == microgame.Undecided && len(e.App().Scene.Get("rock")) == 0 {
		t.Fatalf("expected rocks to fall")
	}

	untilDecided(h, e, 6, func(int) engine.FrameInput { return engine.FrameInput{} })
	switch e.WinState() {
	case microgame.Won:
		if e.Lives() != 4 {
			t.Fatalf("won but lost a life")
		}
	case microgame.Lost:
		if e.Lives() != 3 {
			t.Fatalf("expected one life lost, got %d", e.Lives())
		}
	default:
		t.Fatalf("expected the round to be decided")
	}
}

func TestSwatNeedsEveryFly(t *testing.T) {
	h, e := play(t, Swat())
	if p := e.Prompt(); p.Text != "SWAT 2!" {
		t.Fatalf("expected the dynamic prompt, got %q", p.Text)
	}
	if h.State.CursorVisible {
		t.Fatalf("expected the cursor hidden")
	}
	if n := len(e.App().Scene.Get("fly")); n != 2 {
		t.Fatalf("expected 2 flies, got %d", n)
	}

	for i := 0; i < 4; i++ {
		flies := e.App().Scene.Get("fly")
		if len(flies) == 0 {
			break
		}
		if e.WinState() != microgame.Undecided {
			t.Fatalf("decided with %d flies left", len(flies))
		}
		click(h, center(t, flies[0]))
		h.Step(frame, engine.FrameInput{})
	}
	if e.WinState() != microgame.Won {
		t.Fatalf("expected a win once every fly is down, got %v", e.WinState())
	}
}

func TestBossBeanFallsToPeas(t *testing.T) {
	h, e := play(t, BossBean(), ware.WithForcedMicrogame("kaplayware:bossbean"))
	if !e.Current().IsBoss() {
		t.Fatalf("expected a boss round")
	}
	if e.Duration() != 0 || e.TimeLeft() != 0 {
		t.Fatalf("expected an untimed boss round")
	}

	untilDecided(h, e, 10, func(i int) engine.FrameInput {
		if i%6 == 0 {
			return engine.FrameInput{Pressed: []engine.Key{engine.KeySpace}}
		}
		return engine.FrameInput{}
	})
	if e.WinState() != microgame.Won {
		t.Fatalf("expected the boss to go down, got %v", e.WinState())
	}

	runFor(h, 1.5)
	if got := e.Stages(); len(got) == 0 || got[0] != transition.BossWin {
		t.Fatalf("expected bossWin next, got %v", got)
	}
}
