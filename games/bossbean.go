package games

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

func init() {
	microgame.Register(BossBean())
}

// BossBean is the boss round: shoot the giant bean with space or clicks
// while dodging what it throws on the beat. Three hits and the round is lost.
func BossBean() *microgame.Boss {
	return &microgame.Boss{
		Info: microgame.Info{
			Name:   "bossbean",
			Author: author,
			Pack:   "boss",
			Prompt: microgame.TextPrompt("DEFEAT!"),
			RGB:    microgame.StaticColor(common.RGB(70, 40, 90)),
			Load: func(l microgame.LoadContext) error {
				return l.LoadSpriteImage("boss", bean(200, 160, common.Pink, 0), microgame.SpriteOpt{})
			},
			Start: startBossBean,
		},
	}
}

const (
	bossBPM    = 140
	playerHits = 3
)

func startBossBean(ctx microgame.Context) {
	hp := 8 + 2*ctx.Difficulty()
	maxHP := hp
	hits := 0
	center := ctx.Center()

	boss := ctx.Add(ctx.Sprite("boss"), scene.Pos(center.X, 140), scene.Anchor(engine.AnchorCenter), scene.Area(),
		scene.Tag("boss"))
	player := ctx.Add(scene.Pos(center.X, 540), scene.Rect(40, 40), scene.Color(common.Yellow),
		scene.Anchor(engine.AnchorCenter), scene.Area(), scene.Tag("player"))

	ctx.OnUpdate(func() {
		if !boss.Exists() {
			return
		}
		boss.SetPos(cp.Vector{X: center.X + math.Sin(ctx.Time()*1.5)*80, Y: 140})
	})

	move := 380 * ctx.Speed()
	for _, k := range []struct {
		key engine.Key
		dir float64
	}{{engine.KeyLeft, -1}, {engine.KeyRight, 1}} {
		dir := k.dir
		ctx.OnKeyDown(k.key, func() {
			p := player.Pos()
			p.X = common.Clamp(p.X+dir*move*ctx.DT(), 20, ctx.Width()-20)
			player.SetPos(p)
		})
	}

	shoot := func() {
		if ctx.WinState() != microgame.Undecided {
			return
		}
		ctx.Add(scene.PosV(player.Pos().Sub(cp.Vector{Y: 30})), scene.Circle(8), scene.Color(common.Green),
			scene.Move(cp.Vector{Y: -700}), scene.Area(), scene.Lifespan(1.5, 0), scene.Tag("pea"))
	}
	ctx.OnKeyPress(engine.KeySpace, shoot)
	ctx.OnClick(shoot)

	ctx.OnDraw(func(c engine.Canvas) {
		c.DrawRect(engine.RectOpt{Pos: cp.Vector{X: 200, Y: 20}, W: 400, H: 16, Color: common.Gray, Fixed: true})
		c.DrawRect(engine.RectOpt{Pos: cp.Vector{X: 200, Y: 20}, W: 400 * float64(hp) / float64(maxHP), H: 16,
			Color: common.Red, Fixed: true})
		for i := 0; i < playerHits-hits; i++ {
			c.DrawCircle(engine.CircleOpt{Pos: cp.Vector{X: 30 + float64(i)*30, Y: 28}, Radius: 10, Color: common.Red,
				Fixed: true})
		}
	})

	ctx.OnCollide("pea", "boss", func(pea, b *scene.Object) {
		pea.Destroy()
		if ctx.WinState() != microgame.Undecided {
			return
		}
		hp--
		b.SetColor(common.Red)
		ctx.Wait(0.1, func() { b.SetColor(common.White) })
		if hp > 0 {
			return
		}
		ctx.Win()
		ctx.AddConfetti(b.Pos())
		ctx.ShakeCam(20)
		b.Destroy()
		ctx.Wait(1, ctx.Finish)
	})

	cond := ctx.Conductor(bossBPM * ctx.Speed())
	cond.OnBeat(func(beat int) {
		if beat < 2 || beat%2 != 0 || !boss.Exists() || ctx.WinState() != microgame.Undecided {
			return
		}
		dir := player.Pos().Sub(boss.Pos()).Normalize()
		ctx.Add(scene.PosV(boss.Pos()), scene.Circle(14), scene.Color(common.Orange),
			scene.Move(dir.Mult(260*ctx.Speed())), scene.Area(), scene.Lifespan(4, 0), scene.Tag("shot"))
	})

	ctx.OnCollide("player", "shot", func(p, shot *scene.Object) {
		shot.Destroy()
		if ctx.WinState() != microgame.Undecided {
			return
		}
		hits++
		ctx.ShakeCam(8)
		ctx.FlashCam(common.Red, 0.2)
		if hits >= playerHits {
			ctx.Lose()
			p.SetColor(common.Gray)
			ctx.Wait(0.6, ctx.Finish)
		}
	})
}
