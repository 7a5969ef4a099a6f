// Package scene is the object layer over the ECS world. Microgames and the
// transition screen build everything they draw out of scene objects.
package scene

import (
	"sort"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs/system"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

const ticksPerSecond = 60.0

type Scene struct {
	world   *ecs.World
	sched   *ecs.Scheduler
	assets  *asset.Registry
	objects map[ecs.Entity]*Object
	seq     uint64
	dt      float64
	paused  bool
}

func New(assets *asset.Registry) *Scene {
	if assets == nil {
		assets = asset.NewRegistry()
	}
	return &Scene{
		world: ecs.NewWorld(),
		sched: ecs.NewScheduler(
			system.NewVelocitySystem(),
			system.NewAnimationSystem(),
			system.NewTTLSystem(),
		),
		assets:  assets,
		objects: make(map[ecs.Entity]*Object),
		dt:      1 / ticksPerSecond,
	}
}

func (s *Scene) World() *ecs.World {
	return s.world
}

func (s *Scene) Assets() *asset.Registry {
	return s.assets
}

// Add creates an object from components. Every object has a transform.
func (s *Scene) Add(comps ...Comp) *Object {
	e := ecs.CreateEntity(s.world)
	s.seq++
	o := &Object{s: s, e: e, order: s.seq}
	s.objects[e] = o
	o.transform()
	for _, c := range comps {
		if c != nil {
			c(o)
		}
	}
	return o
}

// Objects returns the live objects in creation order.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		if o.Exists() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// Get returns the live objects carrying tag, in creation order.
func (s *Scene) Get(tag string) []*Object {
	all := s.Objects()
	out := all[:0]
	for _, o := range all {
		if o.Is(tag) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Scene) Len() int {
	return len(s.Objects())
}

// Clear destroys every object.
func (s *Scene) Clear() {
	for _, o := range s.Objects() {
		o.Destroy()
	}
	ecs.Clear(s.world)
	clear(s.objects)
}

func (s *Scene) Paused() bool {
	return s.paused
}

func (s *Scene) SetPaused(p bool) {
	s.paused = p
}

func (s *Scene) DT() float64 {
	return s.dt
}

// Update runs the object systems once. A paused scene is frozen.
func (s *Scene) Update(dt float64) {
	if s.paused {
		return
	}
	s.dt = dt
	s.sched.Update(s.world, dt)
	s.prune()
}

func (s *Scene) prune() {
	for e, o := range s.objects {
		if ecs.IsAlive(s.world, e) {
			continue
		}
		delete(s.objects, e)
		o.fireDestroy()
	}
}

// Draw paints visible objects sorted by z, then creation order.
func (s *Scene) Draw(c engine.Canvas) {
	objs := s.Objects()
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Z() < objs[j].Z() })
	for _, o := range objs {
		if !o.hidden {
			o.draw(c)
		}
	}
}
