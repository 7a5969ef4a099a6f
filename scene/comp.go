package scene

import (
	"image/color"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs/component"
)

// Comp attaches one component to a freshly created object.
type Comp func(o *Object)

func Pos(x, y float64) Comp {
	return PosV(cp.Vector{X: x, Y: y})
}

func PosV(p cp.Vector) Comp {
	return func(o *Object) { o.transform().Pos = p }
}

func Scale(s float64) Comp {
	return ScaleXY(s, s)
}

func ScaleXY(x, y float64) Comp {
	return func(o *Object) { o.transform().Scale = cp.Vector{X: x, Y: y} }
}

// Rotate sets the angle in degrees.
func Rotate(deg float64) Comp {
	return func(o *Object) { o.transform().Angle = deg }
}

// Sprite expects a key already resolved to its namespace.
func Sprite(k asset.Key) Comp {
	return func(o *Object) {
		spr := &component.Sprite{Key: k}
		add(o, component.SpriteComponent.Kind(), spr)
		if def, ok := o.s.assets.Sprite(k); ok && len(def.Anims) > 0 {
			add(o, component.AnimationComponent.Kind(), &component.Animation{Defs: def.Anims})
		}
	}
}

// SpriteSize stretches the sprite to w*h.
func SpriteSize(k asset.Key, w, h float64) Comp {
	return func(o *Object) {
		Sprite(k)(o)
		if spr, ok := ecs.Get(o.s.world, o.e, component.SpriteComponent.Kind()); ok {
			spr.Width, spr.Height = w, h
		}
	}
}

func Rect(w, h float64) Comp {
	return func(o *Object) {
		add(o, component.RectComponent.Kind(), &component.Rect{W: w, H: h})
	}
}

func RoundRect(w, h, radius float64) Comp {
	return func(o *Object) {
		add(o, component.RectComponent.Kind(), &component.Rect{W: w, H: h, Radius: radius})
	}
}

func Circle(r float64) Comp {
	return func(o *Object) {
		add(o, component.CircleComponent.Kind(), &component.Circle{Radius: r})
	}
}

func Text(s string, size float64) Comp {
	return func(o *Object) {
		add(o, component.TextComponent.Kind(), &component.Text{Value: s, Size: size})
	}
}

func Color(c color.RGBA) Comp {
	return func(o *Object) { o.tint().Color = c }
}

func Opacity(a float64) Comp {
	return func(o *Object) { o.tint().Opacity = a }
}

func Anchor(a cp.Vector) Comp {
	return func(o *Object) {
		add(o, component.AnchorComponent.Kind(), &component.Anchor{X: a.X, Y: a.Y})
	}
}

// Area makes the object collidable, sized from its shape.
func Area() Comp {
	return AreaSize(0, 0)
}

func AreaSize(w, h float64) Comp {
	return func(o *Object) {
		add(o, component.AreaComponent.Kind(), &component.Area{W: w, H: h, Scale: 1})
	}
}

func Z(z int) Comp {
	return func(o *Object) {
		add(o, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: z})
	}
}

func Tag(tags ...string) Comp {
	return func(o *Object) {
		for _, t := range tags {
			o.Tag(t)
		}
	}
}

// Lifespan destroys the object after sec seconds, fading over the last fade
// seconds.
func Lifespan(sec, fade float64) Comp {
	return func(o *Object) {
		add(o, component.TTLComponent.Kind(), &component.TTL{
			Frames: int(sec * ticksPerSecond),
			Fade:   int(fade * ticksPerSecond),
		})
		o.tint()
	}
}

func Shader(k asset.Key, uniforms map[string]any) Comp {
	return func(o *Object) {
		add(o, component.ShaderComponent.Kind(), &component.Shader{Key: k, Uniforms: uniforms})
	}
}

// Move gives the object a constant velocity in pixels per second.
func Move(v cp.Vector) Comp {
	return func(o *Object) { o.velocity().V = v }
}

func Gravity(g float64) Comp {
	return func(o *Object) { o.velocity().Gravity = g }
}

func Spin(degPerSec float64) Comp {
	return func(o *Object) { o.velocity().Spin = degPerSec }
}

// Fixed draws the object in screen space, ignoring the camera.
func Fixed() Comp {
	return func(o *Object) {
		add(o, component.FixedComponent.Kind(), &component.Fixed{})
	}
}
