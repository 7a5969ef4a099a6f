package script

import (
	"errors"
	"math/rand"
	"testing"
	"testing/fstest"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/prefabs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

const frame = 1.0 / 60

func compile(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Compile("test.tengo", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return p
}

func build(t *testing.T, src string, duration float64) microgame.Microgame {
	t.Helper()
	m, err := Build(prefabs.MicrogameSpec{Name: "test", Author: "tests", Input: "mouse", Duration: duration},
		compile(t, src), zerolog.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func play(t *testing.T, m microgame.Microgame) (*engine.Host, *ware.Engine) {
	t.Helper()
	reg := microgame.NewRegistry()
	reg.Register(m)
	h := engine.NewHost(nil, engine.WithAudioUnlocked())
	if err := microgame.Load(m, microgame.LoadEnv{Assets: h.Assets}); err != nil {
		t.Fatalf("load: %v", err)
	}
	e, err := ware.New(h, reg, ware.DefaultConfig(), ware.WithRand(rand.New(rand.NewSource(3))))
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

func click(h *engine.Host, at cp.Vector) {
	h.Step(frame, engine.FrameInput{
		Mouse:        at,
		MousePressed: []engine.MouseButton{engine.MouseLeft},
		MouseDown:    []engine.MouseButton{engine.MouseLeft},
	})
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{name: "no game", src: `x := 1`},
		{name: "game not a map", src: `game := 1`, err: ErrNoGame},
		{name: "no start", src: `game := {update: func(e, s) {}}`, err: ErrNoStart},
		{name: "syntax", src: `game := {start: func(e, s) {`},
		{name: "arity", src: `game := {start: func(e) {}}`},
		{name: "top level fails", src: `game := {start: func(e, s) {}}; y := undefined_fn()`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("bad.tengo", []byte(tt.src))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestCompileFindsPhases(t *testing.T) {
	p := compile(t, `game := {
	start: func(e, s) {},
	key: func(e, s, k) {},
	timeout: func(e, s) {},
}`)
	tests := []struct {
		phase string
		want  bool
	}{
		{PhaseStart, true},
		{PhaseKey, true},
		{PhaseTimeout, true},
		{PhaseUpdate, false},
		{PhaseClick, false},
	}
	for _, tt := range tests {
		if got := p.Has(tt.phase); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.phase, tt.want, got)
		}
	}
}

func TestEmbeddedScriptsLoad(t *testing.T) {
	games, errs := LoadDir(prefabs.FS(), zerolog.Nop())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ids := map[string]bool{}
	for _, m := range games {
		ids[microgame.ID(m)] = true
	}
	for _, id := range []string{"kaplayware:catch", "kaplayware:pop"} {
		if !ids[id] {
			t.Fatalf("%s missing from %v", id, ids)
		}
	}
}

func TestLoadDirSkipsBrokenGames(t *testing.T) {
	fsys := fstest.MapFS{
		"microgames/good.yaml":     {Data: []byte("name: good\nauthor: tests\nscript: good.tengo\n")},
		"microgames/broken.yaml":   {Data: []byte("name: broken\nauthor: tests\nscript: broken.tengo\n")},
		"microgames/nameless.yaml": {Data: []byte("author: tests\nscript: good.tengo\n")},
		"microgames/input.yaml":    {Data: []byte("name: input\nauthor: tests\ninput: feet\nscript: good.tengo\n")},
		"scripts/good.tengo":       {Data: []byte(`game := {start: func(e, s) {}}`)},
		"scripts/broken.tengo":     {Data: []byte(`game := {start: func(e, s) {`)},
	}
	games, errs := LoadDir(fsys, zerolog.Nop())
	if len(games) != 1 || microgame.ID(games[0]) != "tests:good" {
		t.Fatalf("expected only the good game, got %d", len(games))
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
}

func TestBuildBoss(t *testing.T) {
	m, err := Build(prefabs.MicrogameSpec{Name: "big", Author: "tests", Boss: true, HideMouse: true},
		compile(t, `game := {start: func(e, s) {}}`), zerolog.Nop())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !m.IsBoss() || !microgame.HidesMouse(m) {
		t.Fatalf("expected a boss that hides the mouse")
	}
}

func TestScriptedClickWins(t *testing.T) {
	m := build(t, `game := {
	start: func(e, s) {
		s.target = e.add({x: e.width() / 2, y: e.height() / 2, w: 80, h: 80, color: "red", tag: "target"})
	},
	click: func(e, s, at) {
		if e.hovering(s.target) {
			e.destroy(s.target)
			e.win()
			e.finish()
		}
	},
}`, 4)
	h, e := play(t, m)

	click(h, cp.Vector{X: 10, Y: 10})
	if e.WinState() != microgame.Undecided {
		t.Fatalf("expected a miss to change nothing")
	}
	targets := e.App().Scene.Get("target")
	if len(targets) != 1 {
		t.Fatalf("expected the target, got %d objects", len(targets))
	}
	click(h, targets[0].Pos())
	if e.WinState() != microgame.Won {
		t.Fatalf("expected a win, got %v", e.WinState())
	}
	if len(e.App().Scene.Get("target")) != 0 {
		t.Fatalf("expected the target destroyed")
	}
}

func TestScriptStateSurvivesPhases(t *testing.T) {
	m := build(t, `game := {
	start: func(e, s) { s.frames = 0 },
	update: func(e, s) { s.frames = s.frames + 1 },
	key: func(e, s, k) {
		if k == "space" && s.frames >= 10 {
			e.win()
			e.finish()
		}
	},
}`, 4)
	h, e := play(t, m)

	h.Step(frame, engine.FrameInput{Pressed: []engine.Key{engine.KeySpace}})
	if e.WinState() != microgame.Undecided {
		t.Fatalf("expected no win before ten frames")
	}
	runFor(h, 0.2)
	h.Step(frame, engine.FrameInput{Pressed: []engine.Key{engine.KeySpace}})
	if e.WinState() != microgame.Won {
		t.Fatalf("expected a win, got %v", e.WinState())
	}
}

func TestScriptTimeoutDecides(t *testing.T) {
	m := build(t, `game := {
	start: func(e, s) {},
	timeout: func(e, s) { e.win() },
}`, 1)
	h, e := play(t, m)
	runFor(h, 1.2)
	if e.WinState() != microgame.Won || e.Lives() != 4 {
		t.Fatalf("expected the timeout phase to win, got %v with %d lives", e.WinState(), e.Lives())
	}
}

func TestScriptErrorLosesRound(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown capability", src: `game := {start: func(e, s) {}, update: func(e, s) { e.os_exit() }}`},
		{name: "finish first", src: `game := {start: func(e, s) { e.finish() }}`},
		{name: "bad argument", src: `game := {start: func(e, s) { e.add(3) }}`},
		{name: "runaway loop", src: `game := {start: func(e, s) { for { } }}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, e := play(t, build(t, tt.src, 4))
			runFor(h, 0.1)
			if e.WinState() != microgame.Lost || e.Lives() != 3 {
				t.Fatalf("expected a lost round, got %v with %d lives", e.WinState(), e.Lives())
			}
		})
	}
}

func TestPopNeedsEveryBalloon(t *testing.T) {
	games, errs := LoadDir(prefabs.FS(), zerolog.Nop())
	if len(errs) != 0 {
		t.Fatalf("load: %v", errs)
	}
	var pop microgame.Microgame
	for _, m := range games {
		if microgame.ID(m) == "kaplayware:pop" {
			pop = m
		}
	}
	h, e := play(t, pop)

	balloons := e.App().Scene.Get("balloon")
	if len(balloons) != 3 {
		t.Fatalf("expected 3 balloons at difficulty 1, got %d", len(balloons))
	}
	for i := 0; i < 6 && e.WinState() == microgame.Undecided; i++ {
		left := e.App().Scene.Get("balloon")
		if len(left) == 0 {
			break
		}
		click(h, left[0].Pos())
	}
	if e.WinState() != microgame.Won {
		t.Fatalf("expected a win, got %v", e.WinState())
	}
}
