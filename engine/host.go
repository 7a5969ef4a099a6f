package engine

import (
	"image/color"

	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
)

// Host bundles the primitives every layer of the ware shares.
type Host struct {
	State  *State
	Loop   *Loop
	Input  *Input
	Mixer  *Mixer
	Assets *asset.Registry
	Log    zerolog.Logger
}

type HostOption func(*Host)

func WithLogger(log zerolog.Logger) HostOption {
	return func(h *Host) { h.Log = log }
}

func WithAssets(r *asset.Registry) HostOption {
	return func(h *Host) { h.Assets = r }
}

// WithAudioUnlocked starts with sounds allowed, as headless runs have no
// gesture to wait for.
func WithAudioUnlocked() HostOption {
	return func(h *Host) { h.State.CanPlaySounds = true }
}

func NewHost(backend AudioBackend, opts ...HostOption) *Host {
	h := &Host{
		State: &State{
			Camera:        NewCamera(common.BaseWidth, common.BaseHeight),
			Background:    color.RGBA{A: 255},
			CursorVisible: true,
		},
		Loop:   NewLoop(),
		Input:  NewInput(),
		Assets: asset.NewRegistry(),
		Log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.Mixer = NewMixer(backend, h.Assets, h.Log)
	h.Input.OnGesture(func() { h.State.CanPlaySounds = true })
	return h
}

// Step advances one frame: input listeners, then update handlers, then sound
// and camera bookkeeping.
func (h *Host) Step(dt float64, in FrameInput) {
	h.Input.Dispatch(in)
	h.Loop.tick(dt)
	h.Mixer.update(dt)
	h.State.Camera.Update(dt)
}

func (h *Host) Draw(c Canvas) {
	h.Loop.draw(c)
}

// OnAudioUnlock fires once, on the first user gesture.
func (h *Host) OnAudioUnlock(fn func()) {
	h.Input.OnGesture(fn)
}
