package script

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

var anchors = map[string]cp.Vector{
	"center":  engine.AnchorCenter,
	"topleft": engine.AnchorTopLeft,
	"top":     engine.AnchorTop,
	"bottom":  engine.AnchorBottom,
	"botleft": engine.AnchorBotLeft,
}

// buildEngine exposes the round's capabilities and nothing else.
func buildEngine(r *round) *tengo.ImmutableMap {
	ctx := r.ctx
	values := map[string]tengo.Object{}
	def := func(name string, fn tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: fn}
	}
	num := func(name string, get func() float64) {
		def(name, func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.Float{Value: get()}, nil
		})
	}

	def("win", func(args ...tengo.Object) (tengo.Object, error) {
		ctx.Win()
		return tengo.UndefinedValue, nil
	})
	def("lose", func(args ...tengo.Object) (tengo.Object, error) {
		ctx.Lose()
		return tengo.UndefinedValue, nil
	})
	def("finish", func(args ...tengo.Object) (tengo.Object, error) {
		return tengo.UndefinedValue, r.finish()
	})
	def("state", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: ctx.WinState().String()}, nil
	})
	def("difficulty", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(ctx.Difficulty())}, nil
	})
	def("lives", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(ctx.Lives())}, nil
	})
	num("speed", ctx.Speed)
	num("time_left", ctx.TimeLeft)
	num("duration", ctx.Duration)
	num("dt", ctx.DT)
	num("time", ctx.Time)
	num("width", ctx.Width)
	num("height", ctx.Height)

	def("rand", func(args ...tengo.Object) (tengo.Object, error) {
		lo, hi, err := floatPair(args, "rand")
		if err != nil {
			return nil, err
		}
		return &tengo.Float{Value: ctx.Rand(lo, hi)}, nil
	})
	def("rand_int", func(args ...tengo.Object) (tengo.Object, error) {
		lo, hi, err := floatPair(args, "rand_int")
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(ctx.RandInt(int(lo), int(hi)))}, nil
	})
	def("chance", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := toFloat(args[0], "p")
		if err != nil {
			return nil, err
		}
		return boolObject(ctx.Chance(p)), nil
	})

	def("add", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		comps, err := r.components(args[0])
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: r.track(ctx.Add(comps...))}, nil
	})
	def("get", func(args ...tengo.Object) (tengo.Object, error) {
		tag, err := oneString(args, "tag")
		if err != nil {
			return nil, err
		}
		out := &tengo.Array{}
		for _, o := range ctx.Get(tag) {
			out.Value = append(out.Value, &tengo.Int{Value: r.track(o)})
		}
		return out, nil
	})
	def("exists", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, _ := tengo.ToInt64(args[0])
		_, ok := r.object(id)
		return boolObject(ok), nil
	})
	obj := func(name string, n int, fn func(o *scene.Object, args []tengo.Object) (tengo.Object, error)) {
		def(name, func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != n {
				return nil, tengo.ErrWrongNumArguments
			}
			id, ok := tengo.ToInt64(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "id", Expected: "int", Found: args[0].TypeName()}
			}
			o, ok := r.object(id)
			if !ok {
				return tengo.UndefinedValue, nil
			}
			out, err := fn(o, args[1:])
			if out == nil && err == nil {
				out = tengo.UndefinedValue
			}
			return out, err
		})
	}
	obj("pos", 1, func(o *scene.Object, _ []tengo.Object) (tengo.Object, error) {
		return vec(o.Pos()), nil
	})
	obj("set_pos", 3, func(o *scene.Object, args []tengo.Object) (tengo.Object, error) {
		p, err := toVec(args)
		if err != nil {
			return nil, err
		}
		o.SetPos(p)
		return nil, nil
	})
	obj("move", 3, func(o *scene.Object, args []tengo.Object) (tengo.Object, error) {
		d, err := toVec(args)
		if err != nil {
			return nil, err
		}
		o.Translate(d)
		return nil, nil
	})
	obj("set_text", 2, func(o *scene.Object, args []tengo.Object) (tengo.Object, error) {
		s, _ := tengo.ToString(args[0])
		o.SetText(s)
		return nil, nil
	})
	obj("set_color", 2, func(o *scene.Object, args []tengo.Object) (tengo.Object, error) {
		c, err := toColor(args[0])
		if err != nil {
			return nil, err
		}
		o.SetColor(c)
		return nil, nil
	})
	obj("play_anim", 2, func(o *scene.Object, args []tengo.Object) (tengo.Object, error) {
		s, _ := tengo.ToString(args[0])
		o.PlayAnim(s)
		return nil, nil
	})
	obj("destroy", 1, func(o *scene.Object, _ []tengo.Object) (tengo.Object, error) {
		o.Destroy()
		return nil, nil
	})
	obj("hovering", 1, func(o *scene.Object, _ []tengo.Object) (tengo.Object, error) {
		return boolObject(ctx.IsHovering(o)), nil
	})
	obj("overlaps", 2, func(o *scene.Object, args []tengo.Object) (tengo.Object, error) {
		id, _ := tengo.ToInt64(args[0])
		other, ok := r.object(id)
		return boolObject(ok && o.Overlaps(other)), nil
	})

	def("key_down", func(args ...tengo.Object) (tengo.Object, error) {
		k, err := oneString(args, "key")
		if err != nil {
			return nil, err
		}
		return boolObject(ctx.IsKeyDown(engine.Key(k))), nil
	})
	def("key_pressed", func(args ...tengo.Object) (tengo.Object, error) {
		k, err := oneString(args, "key")
		if err != nil {
			return nil, err
		}
		return boolObject(ctx.IsKeyPressed(engine.Key(k))), nil
	})
	def("mouse", func(args ...tengo.Object) (tengo.Object, error) {
		return vec(ctx.MousePos()), nil
	})

	def("play", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := oneString(args, "name")
		if err != nil {
			return nil, err
		}
		ctx.Play(name, engine.PlayOpt{})
		return tengo.UndefinedValue, nil
	})
	def("shake", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, err := toFloat(args[0], "intensity")
		if err != nil {
			return nil, err
		}
		ctx.ShakeCam(v)
		return tengo.UndefinedValue, nil
	})
	def("confetti", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := toVec(args)
		if err != nil {
			return nil, err
		}
		ctx.AddConfetti(p)
		return tengo.UndefinedValue, nil
	})
	def("set_rgb", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		c, err := toColor(args[0])
		if err != nil {
			return nil, err
		}
		ctx.SetRGB(c)
		return tengo.UndefinedValue, nil
	})
	def("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			s, _ := tengo.ToString(a)
			parts = append(parts, s)
		}
		r.log.Info().Msg(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// components turns an options map into scene components.
func (r *round) components(o tengo.Object) ([]scene.Comp, error) {
	opts, ok := fields(o)
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "opts", Expected: "map", Found: o.TypeName()}
	}
	float := func(key string) (float64, bool) {
		v, ok := opts[key]
		if !ok {
			return 0, false
		}
		return tengo.ToFloat64(v)
	}
	str := func(key string) (string, bool) {
		v, ok := opts[key]
		if !ok {
			return "", false
		}
		return tengo.ToString(v)
	}

	x, _ := float("x")
	y, _ := float("y")
	comps := []scene.Comp{scene.Pos(x, y)}

	w, hasW := float("w")
	h, hasH := float("h")
	if name, ok := str("sprite"); ok {
		if hasW && hasH {
			comps = append(comps, r.ctx.SpriteSize(name, w, h))
		} else {
			comps = append(comps, r.ctx.Sprite(name))
		}
	} else if text, ok := str("text"); ok {
		size, ok := float("size")
		if !ok {
			size = 32
		}
		comps = append(comps, scene.Text(text, size))
	} else if radius, ok := float("radius"); ok {
		comps = append(comps, scene.Circle(radius))
	} else if hasW && hasH {
		comps = append(comps, scene.Rect(w, h))
	}

	if c, ok := opts["color"]; ok {
		col, err := toColor(c)
		if err != nil {
			return nil, err
		}
		comps = append(comps, scene.Color(col))
	}

	anchor := engine.AnchorCenter
	if name, ok := str("anchor"); ok {
		a, ok := anchors[name]
		if !ok {
			return nil, fmt.Errorf("unknown anchor %q", name)
		}
		anchor = a
	}
	comps = append(comps, scene.Anchor(anchor))

	if area, ok := opts["area"]; !ok || !area.IsFalsy() {
		comps = append(comps, scene.Area())
	}
	if z, ok := float("z"); ok {
		comps = append(comps, scene.Z(int(z)))
	}
	switch tag := opts["tag"].(type) {
	case *tengo.String:
		comps = append(comps, scene.Tag(tag.Value))
	case *tengo.Array:
		for _, t := range tag.Value {
			if s, ok := tengo.ToString(t); ok {
				comps = append(comps, scene.Tag(s))
			}
		}
	}
	if v, ok := opts["vel"]; ok {
		if arr, ok := v.(*tengo.Array); ok {
			p, err := toVec(arr.Value)
			if err != nil {
				return nil, err
			}
			comps = append(comps, scene.Move(p))
		}
	}
	return comps, nil
}

func fields(o tengo.Object) (map[string]tengo.Object, bool) {
	switch m := o.(type) {
	case *tengo.Map:
		return m.Value, true
	case *tengo.ImmutableMap:
		return m.Value, true
	}
	return nil, false
}

func toFloat(o tengo.Object, name string) (float64, error) {
	v, ok := tengo.ToFloat64(o)
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "float", Found: o.TypeName()}
	}
	return v, nil
}

func floatPair(args []tengo.Object, name string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, tengo.ErrWrongNumArguments
	}
	a, err := toFloat(args[0], name)
	if err != nil {
		return 0, 0, err
	}
	b, err := toFloat(args[1], name)
	return a, b, err
}

func toVec(args []tengo.Object) (cp.Vector, error) {
	if len(args) != 2 {
		return cp.Vector{}, tengo.ErrWrongNumArguments
	}
	x, y, err := floatPair(args, "vec")
	return cp.Vector{X: x, Y: y}, err
}

func oneString(args []tengo.Object, name string) (string, error) {
	if len(args) != 1 {
		return "", tengo.ErrWrongNumArguments
	}
	s, ok := args[0].(*tengo.String)
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: name, Expected: "string", Found: args[0].TypeName()}
	}
	return s.Value, nil
}

// toColor accepts [r, g, b], [r, g, b, a] or an SVG color name.
func toColor(o tengo.Object) (color.RGBA, error) {
	switch v := o.(type) {
	case *tengo.String:
		c, ok := colornames.Map[strings.ToLower(v.Value)]
		if !ok {
			return color.RGBA{}, fmt.Errorf("unknown color %q", v.Value)
		}
		return c, nil
	case *tengo.Array:
		if len(v.Value) != 3 && len(v.Value) != 4 {
			break
		}
		ch := [4]uint8{3: 255}
		for i, e := range v.Value {
			n, ok := tengo.ToInt(e)
			if !ok || n < 0 || n > 255 {
				return color.RGBA{}, fmt.Errorf("bad color channel %s", e.String())
			}
			ch[i] = uint8(n)
		}
		return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
	}
	return color.RGBA{}, tengo.ErrInvalidArgumentType{Name: "color", Expected: "array or string", Found: o.TypeName()}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
