package games

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

func init() {
	microgame.Register(ClickBean())
}

// ClickBean: a bean bounces around the screen; click it once.
func ClickBean() *microgame.Normal {
	return &microgame.Normal{
		Info: microgame.Info{
			Name:   "clickbean",
			Author: author,
			Prompt: microgame.TextPrompt("CLICK!"),
			RGB:    microgame.StaticColor(common.RGB(255, 230, 160)),
			Load: func(l microgame.LoadContext) error {
				sheet := strip(bean(64, 64, common.Green, 0), bean(64, 64, common.Green, 6))
				err := l.LoadSpriteImage("bean", sheet, microgame.SpriteOpt{
					SliceX: 2,
					Anims:  map[string]asset.Anim{"idle": {From: 0, To: 1, FPS: 4, Loop: true}},
				})
				if err != nil {
					return err
				}
				return l.LoadShader("outline", outlineShader)
			},
			Start: startClickBean,
		},
		Input: microgame.InputMouse,
		Duration: microgame.ComputedDuration(func(ctx microgame.Context) float64 {
			return 5 - 0.5*float64(ctx.Difficulty())
		}),
	}
}

func startClickBean(ctx microgame.Context) {
	outline := map[string]any{"OutlineColor": []float32{1, 1, 1, 1}, "Outline": float32(0)}
	b := ctx.Add(
		ctx.Sprite("bean"),
		ctx.Shader("outline", outline),
		scene.PosV(ctx.Center()),
		scene.Anchor(engine.AnchorCenter),
		scene.Area(),
		scene.Tag("bean"),
	)
	b.PlayAnim("idle")

	speed := (150 + 100*float64(ctx.Difficulty())) * ctx.Speed()
	vel := cp.ForAngle(ctx.Rand(0, 2*math.Pi)).Mult(speed)

	ctx.OnUpdate(func() {
		p := b.Pos().Add(vel.Mult(ctx.DT()))
		if p.X < 32 || p.X > ctx.Width()-32 {
			vel.X = -vel.X
		}
		if p.Y < 32 || p.Y > ctx.Height()-32 {
			vel.Y = -vel.Y
		}
		b.SetPos(cp.Vector{X: common.Clamp(p.X, 32, ctx.Width()-32), Y: common.Clamp(p.Y, 32, ctx.Height()-32)})
		b.SetFlipX(vel.X < 0)

		outline["Outline"] = float32(0)
		if ctx.IsHovering(b) {
			outline["Outline"] = float32(1)
		}
	})

	ctx.OnClickTagged("bean", func(o *scene.Object) {
		if ctx.WinState() != microgame.Undecided {
			return
		}
		ctx.Win()
		vel = cp.Vector{}
		o.StopAnim()
		ctx.AddConfetti(o.Pos())
		ctx.Tween(1.4, 1, 0.3, func(k float64) { o.SetScale(cp.Vector{X: k, Y: k}) }, engine.OutBack)
		ctx.Wait(0.6, ctx.Finish)
	})
}
