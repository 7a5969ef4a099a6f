package system

import (
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs/component"
)

const defaultAnimFPS = 10

// frameSlack absorbs float drift when dt is summed up to a frame step.
const frameSlack = 1e-9

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.AnimationComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		if !anim.Playing {
			return
		}

		def, ok := anim.Defs[anim.Current]
		if !ok || def.To < def.From {
			return
		}
		if sprite.Frame < def.From || sprite.Frame > def.To {
			sprite.Frame = def.From
		}

		fps := def.FPS
		if fps <= 0 {
			fps = defaultAnimFPS
		}
		step := 1 / fps

		anim.Elapsed += dt
		for anim.Playing && anim.Elapsed+frameSlack >= step {
			anim.Elapsed -= step
			sprite.Frame++
			if sprite.Frame <= def.To {
				continue
			}
			if def.Loop {
				sprite.Frame = def.From
			} else {
				sprite.Frame = def.To
				anim.Playing = false
			}
		}
	})
}
