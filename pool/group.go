package pool

import (
	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

// Group is a list of cancelable handles paused and canceled as one.
type Group struct {
	items  []engine.Handle
	paused bool
}

// Add tracks h and returns it unchanged. A handle added to a paused group
// starts paused.
func Add[H engine.Handle](g *Group, h H) H {
	g.add(h)
	return h
}

func (g *Group) add(h engine.Handle) {
	g.prune()
	if h.Canceled() {
		return
	}
	if g.paused {
		h.SetPaused(true)
	}
	g.items = append(g.items, h)
}

func (g *Group) prune() {
	live := g.items[:0]
	for _, h := range g.items {
		if !h.Canceled() {
			live = append(live, h)
		}
	}
	clear(g.items[len(live):])
	g.items = live
}

func (g *Group) Paused() bool {
	return g.paused
}

func (g *Group) SetPaused(p bool) {
	g.paused = p
	g.prune()
	for _, h := range g.items {
		h.SetPaused(p)
	}
}

// Cancel cancels every handle and empties the group.
func (g *Group) Cancel() {
	items := g.items
	g.items = nil
	for _, h := range items {
		h.Cancel()
	}
}

// Len counts handles that are still live.
func (g *Group) Len() int {
	g.prune()
	return len(g.items)
}

// SoundGroup also holds back sounds started before audio is unlocked.
type SoundGroup struct {
	Group
	mixer  *engine.Mixer
	state  *engine.State
	queued []*engine.Sound
}

func NewSoundGroup(mixer *engine.Mixer, state *engine.State) *SoundGroup {
	return &SoundGroup{mixer: mixer, state: state}
}

// Play starts a sound in this group. While audio is locked it is created
// paused and queued until ReleaseQueued.
func (g *SoundGroup) Play(k asset.Key, opt engine.PlayOpt) *engine.Sound {
	locked := !g.state.CanPlaySounds
	opt.Paused = opt.Paused || locked || g.paused
	s := g.mixer.Play(k, opt)
	if locked {
		g.queued = append(g.queued, s)
	}
	g.add(s)
	return s
}

// ReleaseQueued unpauses every held sound, unless the group itself is paused;
// in that case they resume with the group.
func (g *SoundGroup) ReleaseQueued() {
	queued := g.queued
	g.queued = nil
	if g.paused {
		return
	}
	for _, s := range queued {
		s.SetPaused(false)
	}
}

// Queued counts sounds still waiting for audio unlock.
func (g *SoundGroup) Queued() int {
	n := 0
	for _, s := range g.queued {
		if !s.Canceled() {
			n++
		}
	}
	return n
}

func (g *SoundGroup) SetPaused(p bool) {
	g.paused = p
	g.prune()
	for _, h := range g.items {
		if !p && !g.state.CanPlaySounds && g.isQueued(h) {
			continue
		}
		h.SetPaused(p)
	}
}

func (g *SoundGroup) isQueued(h engine.Handle) bool {
	for _, s := range g.queued {
		if engine.Handle(s) == h {
			return true
		}
	}
	return false
}

func (g *SoundGroup) Cancel() {
	g.queued = nil
	g.Group.Cancel()
}
