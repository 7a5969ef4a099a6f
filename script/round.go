package script

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

// round is one play of a Program.
type round struct {
	prog     *Program
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	ctx      microgame.Context
	log      zerolog.Logger

	objects  map[int64]*scene.Object
	ids      map[*scene.Object]int64
	nextID   int64
	broken   bool
	finished bool
}

// Start returns a microgame Start func running p.
func (p *Program) Start(log zerolog.Logger) func(ctx microgame.Context) {
	return func(ctx microgame.Context) {
		r := &round{
			prog:     p,
			compiled: p.compiled.Clone(),
			state:    &tengo.Map{Value: map[string]tengo.Object{}},
			ctx:      ctx,
			log:      log.With().Str("script", p.Name).Logger(),
			objects:  make(map[int64]*scene.Object),
			ids:      make(map[*scene.Object]int64),
		}
		r.engine = buildEngine(r)
		r.start()
	}
}

func (r *round) start() {
	ctx := r.ctx
	r.run(PhaseStart, nil)

	if r.prog.Has(PhaseUpdate) {
		ctx.OnUpdate(func() { r.run(PhaseUpdate, nil) })
	}
	if r.prog.Has(PhaseKey) {
		ctx.OnKeyPressAny(func(k engine.Key) { r.run(PhaseKey, &tengo.String{Value: string(k)}) })
	}
	if r.prog.Has(PhaseClick) {
		ctx.OnClick(func() { r.run(PhaseClick, vec(ctx.MousePos())) })
	}
	if r.prog.Has(PhaseTimeout) {
		ctx.OnTimeout(func() {
			r.run(PhaseTimeout, nil)
			r.settle()
		})
	}
}

func (r *round) run(phase string, arg tengo.Object) {
	if r.broken || !r.prog.Has(phase) {
		return
	}
	if arg == nil {
		arg = tengo.UndefinedValue
	}
	if err := r.set(phase, arg); err != nil {
		r.fail(phase, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), phaseBudget)
	defer cancel()
	if err := r.compiled.RunContext(ctx); err != nil {
		r.fail(phase, err)
	}
}

func (r *round) set(phase string, arg tengo.Object) error {
	if err := r.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := r.compiled.Set("__engine", r.engine); err != nil {
		return err
	}
	if err := r.compiled.Set("__state", r.state); err != nil {
		return err
	}
	if err := r.compiled.Set("__argc", r.prog.arity[phase]); err != nil {
		return err
	}
	return r.compiled.Set("__arg", arg)
}

// fail stops dispatching and ends the round as a loss on the next frame.
func (r *round) fail(phase string, err error) {
	r.broken = true
	r.log.Warn().Err(err).Str("phase", phase).Msg("script error, round lost")
	r.ctx.Wait(0, r.settle)
}

// settle makes sure the round ends once nothing else will end it.
func (r *round) settle() {
	if r.finished {
		return
	}
	if r.ctx.WinState() == microgame.Undecided {
		r.ctx.Lose()
	}
	r.finished = true
	r.ctx.Finish()
}

func (r *round) finish() error {
	if r.ctx.WinState() == microgame.Undecided {
		return fmt.Errorf("finish called before win or lose: %w", microgame.ErrFinishWithoutOutcome)
	}
	if !r.finished {
		r.finished = true
		r.ctx.Finish()
	}
	return nil
}

func (r *round) track(o *scene.Object) int64 {
	if id, ok := r.ids[o]; ok {
		return id
	}
	r.nextID++
	r.objects[r.nextID] = o
	r.ids[o] = r.nextID
	return r.nextID
}

func (r *round) object(id int64) (*scene.Object, bool) {
	o, ok := r.objects[id]
	if !ok || !o.Exists() {
		return nil, false
	}
	return o, true
}

func vec(v cp.Vector) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}
