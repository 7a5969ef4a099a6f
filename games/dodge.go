package games

import (
	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

func init() {
	microgame.Register(Dodge())
}

// Dodge: rocks fall, move left and right until the time runs out.
func Dodge() *microgame.Normal {
	return &microgame.Normal{
		Info: microgame.Info{
			Name:   "dodge",
			Author: author,
			Prompt: microgame.TextPrompt("DODGE!"),
			RGB:    microgame.StaticColor(common.RGB(120, 170, 255)),
			Start:  startDodge,
		},
		Input:    microgame.InputKeys,
		Duration: microgame.Seconds(5),
	}
}

func startDodge(ctx microgame.Context) {
	const y = 540
	player := ctx.Add(
		scene.Pos(ctx.Center().X, y),
		scene.RoundRect(60, 24, 6),
		scene.Color(common.Blue),
		scene.Anchor(engine.AnchorCenter),
		scene.Area(),
		scene.Tag("player"),
	)
	ctx.Add(scene.Pos(0, y+12), scene.Rect(ctx.Width(), ctx.Height()-y), scene.Color(common.RGB(60, 60, 80)), scene.Z(-1))

	move := 420 * ctx.Speed()
	step := func(dir float64) func() {
		return func() {
			if ctx.WinState() != microgame.Undecided {
				return
			}
			p := player.Pos()
			p.X = common.Clamp(p.X+dir*move*ctx.DT(), 30, ctx.Width()-30)
			player.SetPos(p)
		}
	}
	ctx.OnKeyDown(engine.KeyLeft, step(-1))
	ctx.OnKeyDown(engine.KeyRight, step(1))

	fall := (220 + 60*float64(ctx.Difficulty())) * ctx.Speed()
	every := 0.55 / ctx.Speed() / (1 + 0.25*float64(ctx.Difficulty()-1))
	ctx.Loop(every, func() {
		ctx.Add(
			scene.Pos(ctx.Rand(20, ctx.Width()-20), -20),
			scene.Circle(ctx.Rand(12, 22)),
			scene.Color(common.Gray),
			scene.Move(cp.Vector{Y: fall}),
			scene.Spin(ctx.Rand(-90, 90)),
			scene.Area(),
			scene.Lifespan(4, 0),
			scene.Tag("rock"),
		)
	}, 0)

	ctx.OnCollide("player", "rock", func(p, rock *scene.Object) {
		if ctx.WinState() != microgame.Undecided {
			return
		}
		ctx.Lose()
		ctx.ShakeCam(12)
		p.SetColor(common.Red)
		rock.Destroy()
		ctx.Wait(0.5, ctx.Finish)
	})

	ctx.OnTimeout(func() {
		if ctx.WinState() == microgame.Undecided {
			ctx.Win()
			ctx.AddConfetti(player.Pos())
		}
		ctx.Finish()
	})
}
