package games

import (
	"image/color"
	"strconv"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

func init() {
	microgame.Register(Swat())
}

func flyCount(ctx microgame.Context) int {
	return 1 + ctx.Difficulty()
}

// Swat: click every fly with the hand before the time runs out.
func Swat() *microgame.Normal {
	return &microgame.Normal{
		Info: microgame.Info{
			Name:   "swat",
			Author: author,
			Prompt: microgame.DynamicPrompt(func(ctx microgame.Context, p *microgame.PromptText) {
				p.Text = "SWAT " + strconv.Itoa(flyCount(ctx)) + "!"
				if ctx.Difficulty() == 3 {
					p.Color = common.Red
				}
			}),
			RGB: microgame.ComputedColor(func(ctx microgame.Context) color.RGBA {
				return common.LerpColor(common.RGB(200, 240, 200), common.RGB(240, 200, 160), float64(ctx.Difficulty()-1)/2)
			}),
			Load: func(l microgame.LoadContext) error {
				if err := l.LoadSpriteImage("fly", strip(fly(32, true), fly(32, false)), microgame.SpriteOpt{
					SliceX: 2,
					Anims:  map[string]asset.Anim{"buzz": {From: 0, To: 1, FPS: 16, Loop: true}},
				}); err != nil {
					return err
				}
				return l.LoadSpriteImage("hand", hand(64), microgame.SpriteOpt{})
			},
			Start: startSwat,
		},
		Input:    microgame.InputMouseHidden,
		Duration: microgame.Seconds(5),
	}
}

func startSwat(ctx microgame.Context) {
	targets := make(map[*scene.Object]cp.Vector)
	pick := func() cp.Vector {
		return cp.Vector{X: ctx.Rand(60, ctx.Width()-60), Y: ctx.Rand(60, ctx.Height()-60)}
	}
	left := flyCount(ctx)
	for i := 0; i < left; i++ {
		f := ctx.Add(ctx.SpriteSize("fly", 48, 48), scene.PosV(pick()), scene.Anchor(engine.AnchorCenter), scene.Area(),
			scene.Tag("fly"))
		f.PlayAnim("buzz")
		targets[f] = pick()
	}
	h := ctx.Add(ctx.Sprite("hand"), scene.PosV(ctx.MousePos()), scene.Anchor(engine.AnchorCenter), scene.Fixed(),
		scene.Z(100))

	speed := (120 + 60*float64(ctx.Difficulty())) * ctx.Speed()
	ctx.OnUpdateTagged("fly", func(f *scene.Object) {
		f.MoveTo(targets[f], speed)
		if f.Pos().Distance(targets[f]) < 4 {
			targets[f] = pick()
		}
	})
	ctx.OnMouseMove(func(pos, _ cp.Vector) {
		h.SetPos(pos)
	})
	ctx.OnMousePress(func(engine.MouseButton) {
		ctx.TweenVec(cp.Vector{X: 0.8, Y: 0.8}, cp.Vector{X: 1, Y: 1}, 0.15, h.SetScale, engine.OutQuad)
	})

	ctx.OnClickTagged("fly", func(f *scene.Object) {
		if ctx.WinState() != microgame.Undecided || !f.Exists() {
			return
		}
		delete(targets, f)
		ctx.Add(scene.PosV(f.Pos()), scene.Circle(10), scene.Color(common.Black), scene.Lifespan(0.4, 0.3))
		f.Destroy()
		left--
		if left == 0 {
			ctx.Win()
			ctx.AddConfetti(h.Pos())
			ctx.Wait(0.5, ctx.Finish)
		}
	})
}
