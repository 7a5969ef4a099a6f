package scene

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

type recordingCanvas struct {
	ops []string
}

func (c *recordingCanvas) DrawRect(o engine.RectOpt)     { c.ops = append(c.ops, "rect") }
func (c *recordingCanvas) DrawCircle(o engine.CircleOpt) { c.ops = append(c.ops, "circle") }
func (c *recordingCanvas) DrawSprite(o engine.SpriteOpt) { c.ops = append(c.ops, "sprite") }
func (c *recordingCanvas) DrawText(o engine.TextOpt)     { c.ops = append(c.ops, "text:"+o.Text) }
func (c *recordingCanvas) DrawLine(o engine.LineOpt)     { c.ops = append(c.ops, "line") }

func TestTags(t *testing.T) {
	s := New(nil)
	a := s.Add(Rect(10, 10), Tag("fly"))
	s.Add(Rect(10, 10))
	c := s.Add(Circle(4), Tag("fly", "boss"))

	flies := s.Get("fly")
	if len(flies) != 2 || flies[0] != a || flies[1] != c {
		t.Fatalf("expected tagged objects in creation order")
	}

	c.Untag("fly")
	if len(s.Get("fly")) != 1 || !c.Is("boss") {
		t.Fatalf("untag should only drop one tag")
	}
}

func TestArea(t *testing.T) {
	tests := []struct {
		name  string
		comps []Comp
		in    cp.Vector
		out   cp.Vector
	}{
		{
			name:  "top-left rect",
			comps: []Comp{Pos(100, 100), Rect(20, 10), Area()},
			in:    cp.Vector{X: 119, Y: 109},
			out:   cp.Vector{X: 99, Y: 105},
		},
		{
			name:  "centered scaled rect",
			comps: []Comp{Pos(100, 100), Rect(20, 10), Anchor(engine.AnchorCenter), Scale(2), Area()},
			in:    cp.Vector{X: 81, Y: 91},
			out:   cp.Vector{X: 79, Y: 100},
		},
		{
			name:  "circle",
			comps: []Comp{Pos(50, 50), Circle(10), Area()},
			in:    cp.Vector{X: 42, Y: 50},
			out:   cp.Vector{X: 61, Y: 50},
		},
		{
			name:  "explicit size",
			comps: []Comp{Pos(0, 0), Text("hi", 16), AreaSize(4, 4)},
			in:    cp.Vector{X: 3, Y: 3},
			out:   cp.Vector{X: 5, Y: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			o := s.Add(tt.comps...)
			if !o.HasPoint(tt.in) {
				t.Fatalf("expected %v inside", tt.in)
			}
			if o.HasPoint(tt.out) {
				t.Fatalf("expected %v outside", tt.out)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	s := New(nil)
	a := s.Add(Pos(0, 0), Rect(10, 10), Area())
	b := s.Add(Pos(5, 5), Rect(10, 10), Area())
	c := s.Add(Pos(50, 50), Rect(10, 10), Area())
	noArea := s.Add(Pos(0, 0), Rect(10, 10))

	if !a.Overlaps(b) || a.Overlaps(c) || a.Overlaps(noArea) || a.Overlaps(a) {
		t.Fatalf("unexpected overlap results")
	}
	b.Destroy()
	if a.Overlaps(b) {
		t.Fatalf("destroyed object should not overlap")
	}
}

func TestLifespan(t *testing.T) {
	s := New(nil)
	destroyed := 0
	o := s.Add(Rect(1, 1), Lifespan(0.5, 0.25))
	o.OnDestroy(func() { destroyed++ })

	for i := 0; i < 20; i++ {
		s.Update(1.0 / 60)
	}
	if o.Opacity() >= 1 || !o.Exists() {
		t.Fatalf("expected object fading, opacity=%v", o.Opacity())
	}
	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
	}
	if o.Exists() || destroyed != 1 || s.Len() != 0 {
		t.Fatalf("expected object gone, destroyed=%d len=%d", destroyed, s.Len())
	}
	o.Destroy()
	if destroyed != 1 {
		t.Fatalf("destroy callbacks ran twice")
	}
}

func TestPausedSceneHoldsSystems(t *testing.T) {
	s := New(nil)
	o := s.Add(Pos(0, 0), Move(cp.Vector{X: 60}))
	s.SetPaused(true)
	s.Update(1.0 / 60)
	if o.Pos().X != 0 {
		t.Fatalf("paused scene moved object")
	}
	s.SetPaused(false)
	s.Update(1.0 / 60)
	if math.Abs(o.Pos().X-1) > 1e-9 {
		t.Fatalf("expected 1px step, got %v", o.Pos().X)
	}
}

func TestDrawOrder(t *testing.T) {
	s := New(nil)
	s.Add(Text("back", 10), Z(-1))
	s.Add(Text("front", 10), Z(5))
	s.Add(Text("mid", 10))
	hidden := s.Add(Text("hidden", 10))
	hidden.SetHidden(true)

	c := &recordingCanvas{}
	s.Draw(c)

	want := []string{"text:back", "text:mid", "text:front"}
	if len(c.ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, c.ops)
	}
	for i := range want {
		if c.ops[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, c.ops)
		}
	}
}

func TestClear(t *testing.T) {
	s := New(nil)
	destroyed := 0
	for i := 0; i < 3; i++ {
		s.Add(Rect(1, 1)).OnDestroy(func() { destroyed++ })
	}
	s.Clear()
	if s.Len() != 0 || destroyed != 3 {
		t.Fatalf("expected empty scene, len=%d destroyed=%d", s.Len(), destroyed)
	}
}

func TestMoveTo(t *testing.T) {
	s := New(nil)
	o := s.Add(Pos(0, 0))
	for i := 0; i < 30; i++ {
		o.MoveTo(cp.Vector{X: 10}, 600)
	}
	if o.Pos().X != 10 {
		t.Fatalf("expected to land on target, got %v", o.Pos())
	}
}

func TestDrawAreas(t *testing.T) {
	s := New(nil)
	s.Add(Rect(10, 10), Area())
	s.Add(Rect(10, 10))
	hidden := s.Add(Circle(4), Area())
	hidden.SetHidden(true)

	c := &recordingCanvas{}
	s.DrawAreas(c)
	want := []string{"rect", "line", "line"}
	if len(c.ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, c.ops)
	}
	for i := range want {
		if c.ops[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, c.ops)
		}
	}
}
