package conductor

import (
	"testing"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

func run(h *engine.Host, seconds float64) {
	for i := 0; i < int(seconds*60+0.5); i++ {
		h.Step(1.0/60, engine.FrameInput{})
	}
}

func TestBeats(t *testing.T) {
	tests := []struct {
		name    string
		bpm     float64
		seconds float64
		want    int
	}{
		{name: "60 bpm", bpm: 60, seconds: 3.01, want: 3},
		{name: "140 bpm", bpm: 140, seconds: 2, want: 4},
		{name: "zero bpm", bpm: 0, seconds: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := engine.NewHost(nil)
			c := New(h.Loop, tt.bpm, false)
			var got []int
			c.OnBeat(func(b int) { got = append(got, b) })
			run(h, tt.seconds)
			if len(got) != tt.want {
				t.Fatalf("expected %d beats, got %v", tt.want, got)
			}
			for i, b := range got {
				if b != i+1 {
					t.Fatalf("beats must be consecutive, got %v", got)
				}
			}
		})
	}
}

func TestLargeFrameFiresEveryBeatOnce(t *testing.T) {
	h := engine.NewHost(nil)
	c := New(h.Loop, 120, false)
	n := 0
	c.OnBeat(func(int) { n++ })
	h.Step(1.6, engine.FrameInput{})
	if n != 3 || c.Beat() != 3 {
		t.Fatalf("expected 3 beats from one long frame, got %d", n)
	}
	h.Step(0.1, engine.FrameInput{})
	if n != 3 {
		t.Fatalf("beat fired twice")
	}
}

func TestPauseAndCancel(t *testing.T) {
	h := engine.NewHost(nil)
	c := New(h.Loop, 60, true)
	n := 0
	c.OnBeat(func(int) { n++ })

	run(h, 2)
	if n != 0 {
		t.Fatalf("paused conductor beat")
	}
	c.SetPaused(false)
	run(h, 1.01)
	if n != 1 {
		t.Fatalf("expected 1 beat, got %d", n)
	}
	c.Cancel()
	c.Cancel()
	run(h, 3)
	if n != 1 || !c.Canceled() {
		t.Fatalf("canceled conductor beat")
	}
	if u, _ := h.Loop.Len(); u != 0 {
		t.Fatalf("cancel should drop the driver")
	}
}

func TestBPMChange(t *testing.T) {
	h := engine.NewHost(nil)
	c := New(h.Loop, 60, false)
	n := 0
	c.OnBeat(func(int) { n++ })
	run(h, 0.5)
	c.SetBPM(120)
	run(h, 0.26)
	if n != 1 {
		t.Fatalf("expected the half-finished beat to complete at the new tempo, got %d", n)
	}
}
