package asset

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("asset: not found")

// Sprite is a decoded image plus optional animation layout. Frames are laid
// out left to right, SliceX per row and SliceY rows.
type Sprite struct {
	Key    Key
	Image  image.Image
	SliceX int
	SliceY int
	Anims  map[string]Anim
}

// Anim is a named frame range.
type Anim struct {
	From int
	To   int
	FPS  float64
	Loop bool
}

// FrameCount returns the number of frames in the sheet.
func (s *Sprite) FrameCount() int {
	if s == nil {
		return 0
	}
	x, y := s.SliceX, s.SliceY
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	return x * y
}

// FrameSize returns the size of one frame in pixels.
func (s *Sprite) FrameSize() (float64, float64) {
	if s == nil || s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	x, y := s.SliceX, s.SliceY
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	return float64(b.Dx()) / float64(x), float64(b.Dy()) / float64(y)
}

// FrameRect returns the source rectangle for frame i.
func (s *Sprite) FrameRect(i int) image.Rectangle {
	if s == nil || s.Image == nil {
		return image.Rectangle{}
	}
	b := s.Image.Bounds()
	cols := s.SliceX
	if cols < 1 {
		cols = 1
	}
	n := s.FrameCount()
	if i < 0 || i >= n {
		i = 0
	}
	w, h := s.FrameSize()
	x := b.Min.X + (i%cols)*int(w)
	y := b.Min.Y + (i/cols)*int(h)
	return image.Rect(x, y, x+int(w), y+int(h))
}

// Sound is anything the audio backend can play that knows its length.
type Sound interface {
	Duration() float64
}

// Shader is Kage source compiled lazily by the backend.
type Shader struct {
	Key    Key
	Source []byte
}

// Registry stores every loaded asset. It is safe for concurrent use so the
// hot-reload watcher can replace entries from its goroutine.
type Registry struct {
	mu      sync.RWMutex
	sprites map[Key]*Sprite
	sounds  map[Key]Sound
	shaders map[Key]*Shader
}

func NewRegistry() *Registry {
	return &Registry{
		sprites: make(map[Key]*Sprite),
		sounds:  make(map[Key]Sound),
		shaders: make(map[Key]*Shader),
	}
}

// AddSprite stores a sprite, replacing any previous entry under the key.
func (r *Registry) AddSprite(s *Sprite) {
	if r == nil || s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sprites[s.Key] = s
}

func (r *Registry) AddSound(k Key, s Sound) {
	if r == nil || s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounds[k] = s
}

func (r *Registry) AddShader(s *Shader) {
	if r == nil || s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shaders[s.Key] = s
}

func (r *Registry) Sprite(k Key) (*Sprite, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sprites[k]
	return s, ok
}

func (r *Registry) Sound(k Key) (Sound, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sounds[k]
	return s, ok
}

func (r *Registry) Shader(k Key) (*Shader, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shaders[k]
	return s, ok
}

// SoundDuration returns the length of a sound or an error wrapping ErrNotFound.
func (r *Registry) SoundDuration(k Key) (float64, error) {
	s, ok := r.Sound(k)
	if !ok {
		return 0, fmt.Errorf("asset: sound %s: %w", k, ErrNotFound)
	}
	return s.Duration(), nil
}

// Namespace lists the keys registered under one namespace, sorted by name.
func (r *Registry) Namespace(ns string) []Key {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[Key]struct{})
	for k := range r.sprites {
		if k.Namespace == ns {
			seen[k] = struct{}{}
		}
	}
	for k := range r.sounds {
		if k.Namespace == ns {
			seen[k] = struct{}{}
		}
	}
	for k := range r.shaders {
		if k.Namespace == ns {
			seen[k] = struct{}{}
		}
	}
	out := make([]Key, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
