package system

import (
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs/component"
)

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
		}
		if ttl.Fade > 0 && ttl.Frames < ttl.Fade {
			if tint, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok {
				tint.Opacity = float64(ttl.Frames) / float64(ttl.Fade)
			}
		}
		if ttl.Frames > 0 {
			return
		}

		ecs.DestroyEntity(w, e)
	})
}
