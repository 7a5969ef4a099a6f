// Package conductor is a beat clock driven by the host frame loop.
package conductor

import (
	"math"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

// Conductor fires OnBeat handlers once per whole beat crossed. Beats are
// accumulated from elapsed time over the current interval, so changing BPM
// mid-song never skips or repeats a beat.
type Conductor struct {
	bpm      float64
	beats    float64
	beat     int
	paused   bool
	canceled bool
	onBeat   []func(beat int)
	updater  *engine.EventHandle
	loop     *engine.Loop
}

// New starts a conductor on loop.
func New(loop *engine.Loop, bpm float64, startPaused bool) *Conductor {
	c := &Conductor{bpm: bpm, paused: startPaused, loop: loop}
	c.updater = loop.OnUpdate(c.update)
	return c
}

func (c *Conductor) BPM() float64 {
	return c.bpm
}

func (c *Conductor) SetBPM(bpm float64) {
	c.bpm = bpm
}

// BeatInterval is 60/bpm seconds; zero or negative BPM never beats.
func (c *Conductor) BeatInterval() float64 {
	if c.bpm <= 0 {
		return math.Inf(1)
	}
	return 60 / c.bpm
}

// Beat is the number of beats fired so far.
func (c *Conductor) Beat() int {
	return c.beat
}

func (c *Conductor) OnBeat(fn func(beat int)) {
	if fn != nil {
		c.onBeat = append(c.onBeat, fn)
	}
}

func (c *Conductor) update() {
	if c.paused || c.canceled {
		return
	}
	c.beats += c.loop.DT() / c.BeatInterval()
	for !c.canceled && float64(c.beat+1) <= c.beats {
		c.beat++
		for _, fn := range c.onBeat {
			fn(c.beat)
		}
	}
}

func (c *Conductor) Paused() bool {
	return c.paused
}

func (c *Conductor) SetPaused(p bool) {
	if c.canceled {
		return
	}
	c.paused = p
}

// Cancel stops the per-frame driver. Calling it again is a no-op.
func (c *Conductor) Cancel() {
	if c.canceled {
		return
	}
	c.canceled = true
	c.updater.Cancel()
}

func (c *Conductor) Canceled() bool {
	return c.canceled
}
