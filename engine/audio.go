package engine

import (
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
)

// PlayOpt configures a sound. Zero Volume and Speed mean 1.
type PlayOpt struct {
	Volume float64
	Speed  float64
	Loop   bool
	Paused bool
}

func (o PlayOpt) volume() float64 {
	if o.Volume <= 0 {
		return 1
	}
	return o.Volume
}

func (o PlayOpt) speed() float64 {
	if o.Speed <= 0 {
		return 1
	}
	return o.Speed
}

// Voice is a backend playback instance.
type Voice interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	Close()
}

// AudioBackend turns registered sounds into voices. Speed is applied by the
// backend, so a sound played at speed 2 lasts half as long.
type AudioBackend interface {
	NewVoice(s asset.Sound, opt PlayOpt) (Voice, error)
}

// Sound is a playing sound. Its end is tracked on the host clock so paused
// time does not count toward it.
type Sound struct {
	handle
	Key      asset.Key
	voice    Voice
	duration float64
	elapsed  float64
	loop     bool
	onEnd    []func()
	done     bool
}

func (s *Sound) SetPaused(p bool) {
	if s.canceled || s.paused == p {
		return
	}
	s.paused = p
	if s.voice == nil {
		return
	}
	if p {
		s.voice.Pause()
	} else {
		s.voice.Play()
	}
}

func (s *Sound) SetVolume(v float64) {
	if s.voice != nil {
		s.voice.SetVolume(v)
	}
}

// Duration is the playback length in seconds, already divided by speed.
func (s *Sound) Duration() float64 {
	return s.duration
}

func (s *Sound) Elapsed() float64 {
	return s.elapsed
}

func (s *Sound) Done() bool {
	return s.done
}

// OnEnd fires when a non-looping sound reaches its end.
func (s *Sound) OnEnd(fn func()) *Sound {
	if fn != nil {
		s.onEnd = append(s.onEnd, fn)
	}
	return s
}

func (s *Sound) update(dt float64) {
	if !s.active() || s.done {
		return
	}
	s.elapsed += dt
	if s.loop || s.elapsed < s.duration {
		return
	}
	s.done = true
	s.Cancel()
	for _, fn := range s.onEnd {
		fn()
	}
}

// Mixer owns every live sound.
type Mixer struct {
	backend AudioBackend
	assets  *asset.Registry
	sounds  []*Sound
	log     zerolog.Logger
}

func NewMixer(backend AudioBackend, assets *asset.Registry, log zerolog.Logger) *Mixer {
	return &Mixer{backend: backend, assets: assets, log: log}
}

// Play starts a registered sound. A missing sound or a failing backend yields
// a silent zero-length sound so callers never branch on errors mid-frame.
func (m *Mixer) Play(k asset.Key, opt PlayOpt) *Sound {
	s := &Sound{Key: k, loop: opt.Loop}
	s.paused = opt.Paused
	s.onCancel = func() {
		if s.voice != nil {
			s.voice.Pause()
			s.voice.Close()
		}
	}
	m.sounds = append(m.sounds, s)

	src, ok := m.assets.Sound(k)
	if !ok {
		m.log.Warn().Str("sound", k.String()).Msg("sound not loaded")
		return s
	}
	s.duration = src.Duration() / opt.speed()
	if m.backend == nil {
		return s
	}

	v, err := m.backend.NewVoice(src, opt)
	if err != nil {
		m.log.Error().Err(err).Str("sound", k.String()).Msg("create voice")
		return s
	}
	s.voice = v
	v.SetVolume(opt.volume())
	if !opt.Paused {
		v.Play()
	}
	return s
}

// Len reports the number of live sounds.
func (m *Mixer) Len() int {
	n := 0
	for _, s := range m.sounds {
		if !s.canceled {
			n++
		}
	}
	return n
}

// StopAll cancels every live sound.
func (m *Mixer) StopAll() {
	for _, s := range m.sounds {
		s.Cancel()
	}
	m.sounds = nil
}

func (m *Mixer) update(dt float64) {
	n := len(m.sounds)
	for i := 0; i < n; i++ {
		m.sounds[i].update(dt)
	}

	live := m.sounds[:0]
	for _, s := range m.sounds {
		if !s.canceled {
			live = append(live, s)
		}
	}
	clear(m.sounds[len(live):])
	m.sounds = live
}
