package transition

import (
	"image/color"
	"math"
	"strconv"

	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/conductor"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/pool"
	"github.com/itzKiwiSky/KAPLAYware-sub000/scene"
)

func (r *Runner) runStage(n Name, id int) {
	switch n {
	case Prep:
		r.prep(id)
	case Win:
		r.outcome(id, Win, bgWin, false)
	case Lose:
		r.outcome(id, Lose, bgLose, true)
	case BossWin:
		r.outcome(id, BossWin, bgBoss, false)
	case BossLose:
		r.outcome(id, BossLose, bgBoss, true)
	case Speed:
		r.speed(id)
	case BossPrep:
		r.bossPrep(id)
	case GameOver:
		r.gameOver(id)
	default:
		r.log.Warn().Str("stage", string(n)).Msg("unknown stage skipped")
		r.wait(0, func() { r.end(id) })
	}
}

// prep ends on its own conductor rather than the jingle: beat 1 shows the
// input icon, beat 2 the prompt, the last beat zooms into the game.
func (r *Runner) prep(id int) {
	s := r.screen
	s.reset(bgPrep, r.session)
	speed := r.session.Speed()
	r.sounds.Play(JingleKey(Prep), engine.PlayOpt{Speed: speed})

	prev := r.session.Score() - 1
	if prev < 0 {
		prev = 0
	}
	s.calendar.SetText(itoa(prev))
	s.calendar.SetScale(cp.Vector{X: 1, Y: 1})

	beat := 60 / (r.cfg.BPM * speed)
	r.tween(0, math.Pi*2, beat*float64(r.cfg.PrepBeats), func(t float64) {
		s.bean.SetPos(cp.Vector{X: center.X, Y: 420 - math.Abs(math.Sin(t*2))*30})
	}, engine.Linear)

	cond := pool.Add(r.conductors, conductor.New(r.host.Loop, r.cfg.BPM*speed, false))
	cond.OnBeat(func(b int) {
		if id != r.stageID {
			return
		}
		switch {
		case b >= r.cfg.PrepBeats:
			cond.Cancel()
			r.tween(2.5, 4, beat/2, func(k float64) { s.box.SetScale(cp.Vector{X: k, Y: k}) }, engine.InQuad).
				OnEnd(func() { r.end(id) })
		case b == 1:
			s.calendar.SetText(itoa(r.session.Score()))
			r.pop(s.calendar, 1.3)
			s.input.SetText(inputLabel(r.session.Input()))
			r.pop(s.input, 1.5)
		case b == 2:
			p := r.session.Prompt()
			s.prompt.SetText(p.Text)
			s.prompt.SetColor(p.Color)
			r.pop(s.prompt, 1.4)
			s.box.SetOpacity(1)
			r.tween(1, 2.5, beat, func(k float64) { s.box.SetScale(cp.Vector{X: k, Y: k}) }, engine.OutQuad)
		}
	})
}

// outcome covers win, lose and their boss variants. A loss kills the heart
// the ware already took away.
func (r *Runner) outcome(id int, n Name, bg color.RGBA, lost bool) {
	s := r.screen
	s.reset(bg, r.session)
	d := r.jingle(n)
	boss := n == BossWin || n == BossLose

	if !lost {
		s.beanEyes.SetText("^ ^")
		s.banner.SetText(pick(boss, "BOSS DOWN!", "NICE!"))
		r.pop(s.banner, 1.6)
		r.tween(0, math.Pi, d, func(t float64) {
			s.bean.SetPos(cp.Vector{X: center.X, Y: 420 - math.Sin(t)*80})
		}, engine.OutQuad)
		r.wait(d, func() { r.end(id) })
		return
	}

	s.beanEyes.SetText("x x")
	s.banner.SetText(pick(boss, "THE BOSS WINS", "OOPS!"))
	r.pop(s.banner, 1.6)
	if lives := r.session.Lives(); lives >= 0 && lives < len(s.hearts) {
		heart := s.hearts[lives]
		base := heart.Pos()
		heart.SetColor(common.Red)
		r.tween(0, 1, d/2, func(t float64) {
			heart.SetPos(base.Add(cp.Vector{X: math.Sin(t*40) * 8 * (1 - t)}))
		}, engine.Linear).OnEnd(func() {
			heart.SetPos(base)
			heart.SetColor(deadHeart)
			r.pop(heart, 0.6)
		})
	}
	r.wait(d, func() { r.end(id) })
}

// speed cycles the overlay color while the jingle plays. The ware bumps the
// speed from OnStageStart, so the jingle already plays faster.
func (r *Runner) speed(id int) {
	s := r.screen
	s.reset(bgSpeed, r.session)
	d := r.jingle(Speed)
	s.banner.SetText("SPEED UP!")
	s.overlay.SetOpacity(0.35)
	start := r.host.Loop.Time()
	r.onUpdate(func() {
		t := r.host.Loop.Time() - start
		s.overlay.SetColor(common.LerpColor(common.Pink, common.Blue, common.Wave(0, 1, t, 0.3)))
		s.banner.SetAngle(math.Sin(t*10) * 8)
	})
	r.wait(d, func() { r.end(id) })
}

func (r *Runner) bossPrep(id int) {
	s := r.screen
	s.reset(bgBoss, r.session)
	d := r.jingle(BossPrep)
	s.beanEyes.SetText("> <")
	s.banner.SetText("BOSS STAGE!")
	s.banner.SetColor(common.Red)
	r.pop(s.banner, 2)
	r.wait(d, func() {
		s.banner.SetColor(common.White)
		r.end(id)
	})
}

func (r *Runner) gameOver(id int) {
	s := r.screen
	s.reset(bgGameOver, r.session)
	s.syncHearts(0)
	d := r.jingle(GameOver)
	s.beanEyes.SetText("- -")
	s.banner.SetText("GAME OVER")
	start := r.host.Loop.Time()
	r.onUpdate(func() {
		t := r.host.Loop.Time() - start
		s.banner.SetAngle(math.Sin(t*20) * 5)
		s.banner.SetPos(center.Add(cp.Vector{X: math.Sin(t*33) * 4, Y: math.Cos(t*27) * 4}))
	})
	r.wait(d, func() {
		s.banner.SetPos(center)
		r.end(id)
	})
}

// pop scales o from k back to 1.
func (r *Runner) pop(o *scene.Object, k float64) {
	o.SetScale(cp.Vector{X: k, Y: k})
	r.tween(k, 1, 0.2, func(v float64) { o.SetScale(cp.Vector{X: v, Y: v}) }, engine.OutBack)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
