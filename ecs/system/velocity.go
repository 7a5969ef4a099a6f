package system

import (
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs/component"
	"github.com/jakecoffman/cp"
)

// VelocitySystem integrates velocity and gravity over the frame delta.
type VelocitySystem struct{}

func NewVelocitySystem() *VelocitySystem {
	return &VelocitySystem{}
}

func (s *VelocitySystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, vel *component.Velocity, tr *component.Transform) {
		vel.V = vel.V.Add(cp.Vector{X: 0, Y: vel.Gravity * dt})
		tr.Pos = tr.Pos.Add(vel.V.Mult(dt))
		tr.Angle += vel.Spin * dt
	})
}
