package backend

import (
	"bytes"
	"errors"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/sound"
)

var ErrNotPCM = errors.New("backend: sound has no pcm data")

// pcmSource is what sound.Clip offers: 16-bit stereo at sound.SampleRate,
// resampled for the given speed.
type pcmSource interface {
	PCM(speed float64) []byte
}

type pcmKey struct {
	src   pcmSource
	speed float64
}

// Audio plays sounds on an ebiten audio context. Resampled PCM is cached per
// sound and speed since jingles replay at the same speeds all session.
type Audio struct {
	ctx *audio.Context

	mu  sync.Mutex
	pcm map[pcmKey][]byte
}

// NewAudio creates the process-wide ebiten audio context.
func NewAudio() *Audio {
	return &Audio{
		ctx: audio.NewContext(int(sound.SampleRate)),
		pcm: make(map[pcmKey][]byte),
	}
}

func (a *Audio) data(src pcmSource, speed float64) []byte {
	k := pcmKey{src: src, speed: math.Round(speed*1000) / 1000}
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.pcm[k]; ok {
		return b
	}
	b := src.PCM(k.speed)
	a.pcm[k] = b
	return b
}

func (a *Audio) NewVoice(s asset.Sound, opt engine.PlayOpt) (engine.Voice, error) {
	src, ok := s.(pcmSource)
	if !ok {
		return nil, ErrNotPCM
	}
	speed := opt.Speed
	if speed <= 0 {
		speed = 1
	}
	b := a.data(src, speed)

	var (
		p   *audio.Player
		err error
	)
	if opt.Loop {
		p, err = a.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(b), int64(len(b))))
	} else {
		p = a.ctx.NewPlayerFromBytes(b)
	}
	if err != nil {
		return nil, err
	}
	return voice{p}, nil
}

type voice struct {
	*audio.Player
}

func (v voice) Close() {
	_ = v.Player.Close()
}
