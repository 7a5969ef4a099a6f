package asset

import (
	"errors"
	"image"
	"testing"
)

type fixedSound float64

func (f fixedSound) Duration() float64 { return float64(f) }

func TestResolve(t *testing.T) {
	cases := []struct {
		name string
		ns   string
		in   string
		want Key
	}{
		{"scoped", "kiwi:swat", "hand", Key{Namespace: "kiwi:swat", Name: "hand"}},
		{"friend", "kiwi:swat", "@bean", Key{Namespace: Shared, Name: "bean"}},
		{"empty_name", "kiwi:swat", "", Key{Namespace: "kiwi:swat", Name: ""}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Resolve(c.ns, c.in); got != c.want {
				t.Fatalf("Resolve(%q, %q) = %v, want %v", c.ns, c.in, got, c.want)
			}
		})
	}
}

func TestSameNameDifferentNamespaces(t *testing.T) {
	r := NewRegistry()
	a := Resolve("amy:pop", "hand")
	b := Resolve("bo:swat", "hand")
	r.AddSprite(&Sprite{Key: a, Image: image.NewRGBA(image.Rect(0, 0, 10, 10))})
	r.AddSprite(&Sprite{Key: b, Image: image.NewRGBA(image.Rect(0, 0, 20, 20))})

	sa, ok := r.Sprite(a)
	if !ok {
		t.Fatalf("expected sprite %v", a)
	}
	sb, ok := r.Sprite(b)
	if !ok {
		t.Fatalf("expected sprite %v", b)
	}
	if sa == sb {
		t.Fatalf("namespaced sprites should not collide")
	}
	if keys := r.Namespace("amy:pop"); len(keys) != 1 || keys[0] != a {
		t.Fatalf("unexpected namespace listing %v", keys)
	}
}

func TestSoundDuration(t *testing.T) {
	r := NewRegistry()
	r.AddSound(SharedKey("tick"), fixedSound(0.25))

	d, err := r.SoundDuration(SharedKey("tick"))
	if err != nil || d != 0.25 {
		t.Fatalf("expected 0.25, got %v err=%v", d, err)
	}
	if _, err := r.SoundDuration(SharedKey("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFrameRect(t *testing.T) {
	s := &Sprite{Image: image.NewRGBA(image.Rect(0, 0, 40, 20)), SliceX: 4, SliceY: 2}
	if n := s.FrameCount(); n != 8 {
		t.Fatalf("expected 8 frames, got %d", n)
	}
	if r := s.FrameRect(5); r != image.Rect(10, 10, 20, 20) {
		t.Fatalf("unexpected frame rect %v", r)
	}
}
