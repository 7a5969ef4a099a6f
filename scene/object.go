package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ecs/component"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

// Object is a handle to one entity in a scene. Methods on a destroyed object
// are no-ops returning zero values.
type Object struct {
	s         *Scene
	e         ecs.Entity
	order     uint64
	hidden    bool
	destroyed bool
	onDestroy []func()
}

func (o *Object) Entity() ecs.Entity {
	return o.e
}

func (o *Object) Exists() bool {
	return !o.destroyed && ecs.IsAlive(o.s.world, o.e)
}

func (o *Object) Destroy() {
	if o.destroyed {
		return
	}
	ecs.DestroyEntity(o.s.world, o.e)
	delete(o.s.objects, o.e)
	o.fireDestroy()
}

func (o *Object) fireDestroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	for _, fn := range o.onDestroy {
		fn()
	}
}

func (o *Object) OnDestroy(fn func()) {
	if fn != nil {
		o.onDestroy = append(o.onDestroy, fn)
	}
}

func add[T any](o *Object, kind component.ComponentKind[T], v *T) {
	if err := ecs.Add(o.s.world, o.e, kind, v); err != nil && ecs.IsAlive(o.s.world, o.e) {
		panic(fmt.Errorf("scene: add component: %w", err))
	}
}

func (o *Object) transform() *component.Transform {
	if t, ok := ecs.Get(o.s.world, o.e, component.TransformComponent.Kind()); ok {
		return t
	}
	t := &component.Transform{Scale: cp.Vector{X: 1, Y: 1}}
	add(o, component.TransformComponent.Kind(), t)
	return t
}

func (o *Object) tint() *component.Tint {
	if t, ok := ecs.Get(o.s.world, o.e, component.TintComponent.Kind()); ok {
		return t
	}
	t := &component.Tint{Color: common.White, Opacity: 1}
	add(o, component.TintComponent.Kind(), t)
	return t
}

func (o *Object) velocity() *component.Velocity {
	if v, ok := ecs.Get(o.s.world, o.e, component.VelocityComponent.Kind()); ok {
		return v
	}
	v := &component.Velocity{}
	add(o, component.VelocityComponent.Kind(), v)
	return v
}

func (o *Object) Pos() cp.Vector {
	if !o.Exists() {
		return cp.Vector{}
	}
	return o.transform().Pos
}

func (o *Object) SetPos(p cp.Vector) {
	if o.Exists() {
		o.transform().Pos = p
	}
}

// Translate moves the object by d immediately.
func (o *Object) Translate(d cp.Vector) {
	if o.Exists() {
		t := o.transform()
		t.Pos = t.Pos.Add(d)
	}
}

// Move moves the object by v pixels per second for the current frame.
func (o *Object) Move(v cp.Vector) {
	o.Translate(v.Mult(o.s.dt))
}

// MoveTo moves toward dest at speed pixels per second without overshooting.
func (o *Object) MoveTo(dest cp.Vector, speed float64) {
	p := o.Pos()
	diff := dest.Sub(p)
	step := speed * o.s.dt
	if diff.Length() <= step {
		o.SetPos(dest)
		return
	}
	o.Translate(diff.Normalize().Mult(step))
}

func (o *Object) Scale() cp.Vector {
	if !o.Exists() {
		return cp.Vector{}
	}
	return o.transform().Scale
}

func (o *Object) SetScale(s cp.Vector) {
	if o.Exists() {
		o.transform().Scale = s
	}
}

func (o *Object) Angle() float64 {
	if !o.Exists() {
		return 0
	}
	return o.transform().Angle
}

func (o *Object) SetAngle(deg float64) {
	if o.Exists() {
		o.transform().Angle = deg
	}
}

func (o *Object) SetVelocity(v cp.Vector) {
	if o.Exists() {
		o.velocity().V = v
	}
}

func (o *Object) Velocity() cp.Vector {
	if v, ok := ecs.Get(o.s.world, o.e, component.VelocityComponent.Kind()); ok {
		return v.V
	}
	return cp.Vector{}
}

func (o *Object) Color() color.RGBA {
	if t, ok := ecs.Get(o.s.world, o.e, component.TintComponent.Kind()); ok {
		return t.Color
	}
	return common.White
}

func (o *Object) SetColor(c color.RGBA) {
	if o.Exists() {
		o.tint().Color = c
	}
}

func (o *Object) Opacity() float64 {
	if t, ok := ecs.Get(o.s.world, o.e, component.TintComponent.Kind()); ok {
		return t.Opacity
	}
	return 1
}

func (o *Object) SetOpacity(a float64) {
	if o.Exists() {
		o.tint().Opacity = common.Clamp(a, 0, 1)
	}
}

func (o *Object) Text() string {
	if t, ok := ecs.Get(o.s.world, o.e, component.TextComponent.Kind()); ok {
		return t.Value
	}
	return ""
}

func (o *Object) SetText(s string) {
	if t, ok := ecs.Get(o.s.world, o.e, component.TextComponent.Kind()); ok {
		t.Value = s
	}
}

func (o *Object) Z() int {
	if l, ok := ecs.Get(o.s.world, o.e, component.RenderLayerComponent.Kind()); ok {
		return l.Index
	}
	return 0
}

func (o *Object) SetZ(z int) {
	if !o.Exists() {
		return
	}
	if l, ok := ecs.Get(o.s.world, o.e, component.RenderLayerComponent.Kind()); ok {
		l.Index = z
		return
	}
	Z(z)(o)
}

func (o *Object) Hidden() bool {
	return o.hidden
}

func (o *Object) SetHidden(h bool) {
	o.hidden = h
}

func (o *Object) Is(tag string) bool {
	tags, ok := ecs.Get(o.s.world, o.e, component.TagsComponent.Kind())
	return ok && tags.Has(tag)
}

func (o *Object) Tag(tag string) {
	if !o.Exists() {
		return
	}
	tags, ok := ecs.Get(o.s.world, o.e, component.TagsComponent.Kind())
	if !ok {
		tags = &component.Tags{}
		add(o, component.TagsComponent.Kind(), tags)
	}
	tags.Add(tag)
}

func (o *Object) Untag(tag string) {
	if tags, ok := ecs.Get(o.s.world, o.e, component.TagsComponent.Kind()); ok {
		tags.Remove(tag)
	}
}

// SetSprite swaps the sprite key, keeping size overrides.
func (o *Object) SetSprite(k asset.Key) {
	spr, ok := ecs.Get(o.s.world, o.e, component.SpriteComponent.Kind())
	if !ok {
		return
	}
	spr.Key = k
	spr.Frame = 0
	if def, ok := o.s.assets.Sprite(k); ok {
		if anim, ok := ecs.Get(o.s.world, o.e, component.AnimationComponent.Kind()); ok {
			anim.Defs = def.Anims
			anim.Playing = false
		}
	}
}

func (o *Object) Frame() int {
	if spr, ok := ecs.Get(o.s.world, o.e, component.SpriteComponent.Kind()); ok {
		return spr.Frame
	}
	return 0
}

func (o *Object) SetFrame(i int) {
	if spr, ok := ecs.Get(o.s.world, o.e, component.SpriteComponent.Kind()); ok {
		spr.Frame = i
	}
}

func (o *Object) SetFlipX(f bool) {
	if spr, ok := ecs.Get(o.s.world, o.e, component.SpriteComponent.Kind()); ok {
		spr.FlipX = f
	}
}

// PlayAnim starts one of the sprite's named animations.
func (o *Object) PlayAnim(name string) {
	anim, ok := ecs.Get(o.s.world, o.e, component.AnimationComponent.Kind())
	if !ok {
		return
	}
	if _, ok := anim.Defs[name]; !ok {
		return
	}
	anim.Current = name
	anim.Elapsed = 0
	anim.Playing = true
	if spr, ok := ecs.Get(o.s.world, o.e, component.SpriteComponent.Kind()); ok {
		spr.Frame = anim.Defs[name].From
	}
}

func (o *Object) StopAnim() {
	if anim, ok := ecs.Get(o.s.world, o.e, component.AnimationComponent.Kind()); ok {
		anim.Playing = false
	}
}

func (o *Object) CurAnim() string {
	if anim, ok := ecs.Get(o.s.world, o.e, component.AnimationComponent.Kind()); ok && anim.Playing {
		return anim.Current
	}
	return ""
}

func (o *Object) anchor() cp.Vector {
	if a, ok := ecs.Get(o.s.world, o.e, component.AnchorComponent.Kind()); ok {
		return cp.Vector{X: a.X, Y: a.Y}
	}
	return engine.AnchorTopLeft
}

// Size is the unscaled size of the object's shape.
func (o *Object) Size() (float64, float64) {
	w := o.s.world
	if r, ok := ecs.Get(w, o.e, component.RectComponent.Kind()); ok {
		return r.W, r.H
	}
	if c, ok := ecs.Get(w, o.e, component.CircleComponent.Kind()); ok {
		return c.Radius * 2, c.Radius * 2
	}
	if spr, ok := ecs.Get(w, o.e, component.SpriteComponent.Kind()); ok {
		if spr.Width > 0 && spr.Height > 0 {
			return spr.Width, spr.Height
		}
		if def, ok := o.s.assets.Sprite(spr.Key); ok {
			return def.FrameSize()
		}
		return 0, 0
	}
	if t, ok := ecs.Get(w, o.e, component.TextComponent.Kind()); ok {
		return float64(len([]rune(t.Value))) * t.Size * 0.6, t.Size
	}
	return 0, 0
}

// Area returns the world-space bounding box used for collisions and clicks.
// Rotation is ignored. ok is false for objects without an area component.
func (o *Object) Area() (cp.BB, bool) {
	if !o.Exists() {
		return cp.BB{}, false
	}
	area, ok := ecs.Get(o.s.world, o.e, component.AreaComponent.Kind())
	if !ok {
		return cp.BB{}, false
	}

	w, h := area.W, area.H
	if w == 0 || h == 0 {
		w, h = o.Size()
	}
	t := o.transform()
	k := area.Scale
	if k == 0 {
		k = 1
	}
	w *= math.Abs(t.Scale.X) * k
	h *= math.Abs(t.Scale.Y) * k

	anchor := o.anchor()
	if ecs.Has(o.s.world, o.e, component.CircleComponent.Kind()) {
		anchor = engine.AnchorCenter
	}
	tl := engine.TopLeft(t.Pos.Add(area.Offset), anchor, w, h)
	return cp.BB{L: tl.X, B: tl.Y, R: tl.X + w, T: tl.Y + h}, true
}

// Overlaps reports whether both objects have areas that intersect.
func (o *Object) Overlaps(other *Object) bool {
	if other == nil || other == o {
		return false
	}
	a, ok := o.Area()
	if !ok {
		return false
	}
	b, ok := other.Area()
	if !ok {
		return false
	}
	return a.Intersects(b)
}

// HasPoint reports whether p lies in the object's area.
func (o *Object) HasPoint(p cp.Vector) bool {
	bb, ok := o.Area()
	return ok && bb.ContainsVect(p)
}

// IsFixed reports whether the object draws in screen space.
func (o *Object) IsFixed() bool {
	return ecs.Has(o.s.world, o.e, component.FixedComponent.Kind())
}

func (o *Object) drawColor() color.RGBA {
	c := o.Color()
	return common.WithAlpha(c, float64(c.A)/255*o.Opacity())
}

func (o *Object) draw(c engine.Canvas) {
	w := o.s.world
	t := o.transform()
	anchor := o.anchor()
	fixed := o.IsFixed()
	col := o.drawColor()

	if r, ok := ecs.Get(w, o.e, component.RectComponent.Kind()); ok {
		c.DrawRect(engine.RectOpt{
			Pos: t.Pos, W: r.W, H: r.H, Anchor: anchor, Scale: t.Scale, Angle: t.Angle,
			Radius: r.Radius, Outline: r.Outline, Color: col, Fixed: fixed,
		})
	}
	if ci, ok := ecs.Get(w, o.e, component.CircleComponent.Kind()); ok {
		c.DrawCircle(engine.CircleOpt{Pos: t.Pos, Radius: ci.Radius * t.Scale.X, Color: col, Fixed: fixed})
	}
	if spr, ok := ecs.Get(w, o.e, component.SpriteComponent.Kind()); ok {
		opt := engine.SpriteOpt{
			Key: spr.Key, Frame: spr.Frame, Pos: t.Pos, Anchor: anchor, Scale: t.Scale, Angle: t.Angle,
			FlipX: spr.FlipX, FlipY: spr.FlipY, Width: spr.Width, Height: spr.Height, Fixed: fixed,
		}
		if ecs.Has(w, o.e, component.TintComponent.Kind()) {
			opt.Color = col
		}
		if sh, ok := ecs.Get(w, o.e, component.ShaderComponent.Kind()); ok {
			opt.Shader = sh.Key
			opt.Uniforms = sh.Uniforms
		}
		c.DrawSprite(opt)
	}
	if tx, ok := ecs.Get(w, o.e, component.TextComponent.Kind()); ok {
		c.DrawText(engine.TextOpt{
			Text: tx.Value, Pos: t.Pos, Size: tx.Size, Width: tx.Width, Anchor: anchor,
			Scale: t.Scale, Angle: t.Angle, Color: col, Fixed: fixed,
		})
	}
}
