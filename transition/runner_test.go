package transition

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
)

const frame = 1.0 / 60

type secs float64

func (s secs) Duration() float64 { return float64(s) }

type fakeSession struct {
	score, lives int
	speed        float64
}

func (f *fakeSession) Score() int                   { return f.score }
func (f *fakeSession) Lives() int                   { return f.lives }
func (f *fakeSession) MaxLives() int                { return 4 }
func (f *fakeSession) Speed() float64               { return f.speed }
func (f *fakeSession) Input() microgame.InputKind   { return microgame.InputMouse }
func (f *fakeSession) Prompt() microgame.PromptText { return microgame.PromptText{Text: "CLICK!"} }

type recorder struct {
	events []string
}

func (rec *recorder) hooks() Hooks {
	return Hooks{
		OnStageStart:    func(n Name) { rec.events = append(rec.events, "start:"+string(n)) },
		OnStageEnd:      func(n Name) { rec.events = append(rec.events, "end:"+string(n)) },
		OnTransitionEnd: func() { rec.events = append(rec.events, "transitionEnd") },
		OnGameOver:      func() { rec.events = append(rec.events, "gameOver") },
	}
}

func newRunner(sess *fakeSession) (*engine.Host, *Runner) {
	h := engine.NewHost(nil, engine.WithAudioUnlocked())
	return h, NewRunner(h, sess, DefaultConfig(), zerolog.Nop())
}

func runFor(h *engine.Host, seconds float64) {
	for i := 0; i < int(seconds*60); i++ {
		h.Step(frame, engine.FrameInput{})
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStagesRunInOrder(t *testing.T) {
	h, r := newRunner(&fakeSession{score: 2, lives: 4, speed: 1})
	rec := &recorder{}
	r.Run([]Name{Win, Speed, Prep}, rec.hooks())

	if cur, ok := r.Current(); !ok || cur != Win {
		t.Fatalf("expected win to be running, got %q", cur)
	}
	runFor(h, 10)

	want := []string{"start:win", "end:win", "start:speed", "end:speed", "start:prep", "end:prep", "transitionEnd"}
	if !equal(rec.events, want) {
		t.Fatalf("expected %v, got %v", want, rec.events)
	}
	if r.Active() || r.Screen().Visible() {
		t.Fatalf("runner should be idle with the screen hidden")
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	h, r := newRunner(&fakeSession{score: 7, lives: 0, speed: 1})
	rec := &recorder{}
	r.Run([]Name{Lose, GameOver}, rec.hooks())
	runFor(h, 10)

	want := []string{"start:lose", "end:lose", "start:gameOver", "end:gameOver", "gameOver"}
	if !equal(rec.events, want) {
		t.Fatalf("expected %v, got %v", want, rec.events)
	}
	if !r.Screen().Visible() {
		t.Fatalf("game over screen should stay up")
	}
	if r.Screen().AliveHearts() != 0 {
		t.Fatalf("expected every heart dead")
	}
}

func TestJingleGatesStage(t *testing.T) {
	h, r := newRunner(&fakeSession{lives: 4, speed: 2})
	h.Assets.AddSound(JingleKey(Win), secs(1))
	rec := &recorder{}
	r.Run([]Name{Win}, rec.hooks())

	runFor(h, 0.45)
	if len(rec.events) != 1 {
		t.Fatalf("stage ended early: %v", rec.events)
	}
	runFor(h, 0.1)
	if len(rec.events) != 3 {
		t.Fatalf("expected the jingle at double speed to end the stage, got %v", rec.events)
	}
}

func TestPrepShowsPromptOnBeats(t *testing.T) {
	h, r := newRunner(&fakeSession{score: 1, lives: 4, speed: 1})
	r.Run([]Name{Prep}, Hooks{})
	beat := 60.0 / 140

	runFor(h, beat*0.5)
	if r.Screen().InputText() != "" || r.Screen().PromptText() != "" {
		t.Fatalf("nothing should show before beat 1")
	}
	runFor(h, beat)
	if r.Screen().InputText() != "MOUSE" || r.Screen().PromptText() != "" {
		t.Fatalf("beat 1 should show only the input icon")
	}
	runFor(h, beat)
	if r.Screen().PromptText() != "CLICK!" {
		t.Fatalf("beat 2 should show the prompt")
	}
}

func TestLoseKillsHeart(t *testing.T) {
	h, r := newRunner(&fakeSession{lives: 2, speed: 1})
	r.Run([]Name{Lose}, Hooks{})
	if r.Screen().AliveHearts() != 3 {
		t.Fatalf("the lost heart should still beat at the start, got %d", r.Screen().AliveHearts())
	}
	runFor(h, 1.2)
	if r.Screen().AliveHearts() != 2 {
		t.Fatalf("expected 2 hearts after the stage, got %d", r.Screen().AliveHearts())
	}
}

func TestPauseHoldsStage(t *testing.T) {
	h, r := newRunner(&fakeSession{lives: 4, speed: 1})
	rec := &recorder{}
	r.Run([]Name{Win}, rec.hooks())
	r.SetPaused(true)
	runFor(h, 10)
	if len(rec.events) != 1 {
		t.Fatalf("paused runner advanced: %v", rec.events)
	}
	r.SetPaused(false)
	runFor(h, 2)
	if len(rec.events) != 3 {
		t.Fatalf("resumed runner did not finish: %v", rec.events)
	}
}

func TestRunIsReentrant(t *testing.T) {
	h, r := newRunner(&fakeSession{lives: 4, speed: 1})
	objects := r.Screen().scene.Len()
	first := &recorder{}
	r.Run([]Name{Win, Prep}, first.hooks())
	runFor(h, 0.5)

	second := &recorder{}
	r.Run([]Name{Speed, Prep}, second.hooks())
	runFor(h, 10)

	if len(first.events) != 1 {
		t.Fatalf("abandoned run kept firing: %v", first.events)
	}
	if second.events[len(second.events)-1] != "transitionEnd" {
		t.Fatalf("second run did not finish: %v", second.events)
	}
	if r.Screen().scene.Len() != objects {
		t.Fatalf("screen objects should be reused, had %d now %d", objects, r.Screen().scene.Len())
	}
}

func TestStageStartCanReadSetup(t *testing.T) {
	h, r := newRunner(&fakeSession{lives: 4, speed: 1})
	sess := r.session.(*fakeSession)
	r.Run([]Name{Speed, Prep}, Hooks{
		OnStageStart: func(n Name) {
			if n == Speed {
				sess.speed = 1.5
			}
		},
	})
	runFor(h, 0.1)
	if sess.speed != 1.5 {
		t.Fatalf("hook did not run before the stage")
	}
	runFor(h, 1.0)
	if cur, _ := r.Current(); cur != Speed {
		t.Fatalf("speed stage at 1.5x should last %vs, got stage %q", 2.2/1.5, cur)
	}
	runFor(h, 0.5)
	if cur, _ := r.Current(); cur != Prep {
		t.Fatalf("expected prep, got %q", cur)
	}
}
