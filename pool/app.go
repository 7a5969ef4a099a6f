// Package pool is the per-round resource pool: everything a microgame (or the
// transition around it) registers lands in one of its groups so a round can
// be frozen or torn down in a single call.
package pool

import (
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

// App owns the microgame scene, the shared camera and the round's groups.
type App struct {
	Scene      *scene.Scene
	Camera     *engine.Camera
	Timers     *Group
	Inputs     *Group
	Events     *Group
	Sounds     *SoundGroup
	Conductors *Group

	host   *engine.Host
	paused bool
}

// Counts is a snapshot of live handles per group.
type Counts struct {
	Timers     int
	Sounds     int
	Inputs     int
	Events     int
	Conductors int
}

// Empty reports whether every group has been fully released.
func (c Counts) Empty() bool {
	return c == Counts{}
}

func New(host *engine.Host) *App {
	a := &App{
		Scene:      scene.New(host.Assets),
		Camera:     host.State.Camera,
		Timers:     &Group{},
		Inputs:     &Group{},
		Events:     &Group{},
		Sounds:     NewSoundGroup(host.Mixer, host.State),
		Conductors: &Group{},
		host:       host,
	}
	host.Loop.OnUpdate(func() { a.Scene.Update(host.Loop.DT()) })
	host.OnAudioUnlock(a.Sounds.ReleaseQueued)
	return a
}

func (a *App) Host() *engine.Host {
	return a.host
}

func (a *App) Paused() bool {
	return a.paused
}

// SetPaused freezes or resumes every group, the scene and the camera together.
func (a *App) SetPaused(p bool) {
	a.paused = p
	a.Timers.SetPaused(p)
	a.Inputs.SetPaused(p)
	a.Events.SetPaused(p)
	a.Sounds.SetPaused(p)
	a.Conductors.SetPaused(p)
	a.Scene.SetPaused(p)
	a.Camera.SetPaused(p)
}

// CancelAll cancels every tracked handle. Afterwards Counts is empty.
func (a *App) CancelAll() {
	a.Timers.Cancel()
	a.Inputs.Cancel()
	a.Events.Cancel()
	a.Sounds.Cancel()
	a.Conductors.Cancel()
}

// Reset cancels everything and clears the scene and camera for the next
// microgame. The pause state is kept.
func (a *App) Reset() {
	a.CancelAll()
	a.Scene.Clear()
	a.Camera.Reset()
}

func (a *App) Counts() Counts {
	return Counts{
		Timers:     a.Timers.Len(),
		Sounds:     a.Sounds.Len(),
		Inputs:     a.Inputs.Len(),
		Events:     a.Events.Len(),
		Conductors: a.Conductors.Len(),
	}
}

// Draw paints the microgame scene followed by its draw handlers.
func (a *App) Draw(c engine.Canvas) {
	a.Scene.Draw(c)
	a.host.Draw(c)
}
