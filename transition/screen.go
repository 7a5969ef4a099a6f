package transition

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

var (
	bgPrep     = common.RGB(107, 201, 108)
	bgWin      = common.RGB(120, 220, 120)
	bgLose     = common.RGB(220, 90, 90)
	bgSpeed    = common.RGB(80, 120, 230)
	bgBoss     = common.RGB(60, 20, 40)
	bgGameOver = common.RGB(20, 20, 20)
	deadHeart  = common.RGB(70, 70, 70)
)

// Screen holds the transition's objects. They are built once and mutated in
// place every round.
type Screen struct {
	scene   *scene.Scene
	visible bool

	bg       *scene.Object
	overlay  *scene.Object
	hearts   []*scene.Object
	calendar *scene.Object
	bean     *scene.Object
	beanEyes *scene.Object
	banner   *scene.Object
	prompt   *scene.Object
	input    *scene.Object
	box      *scene.Object
}

var center = cp.Vector{X: common.BaseWidth / 2, Y: common.BaseHeight / 2}

func newScreen(assets *asset.Registry, lives int) *Screen {
	s := &Screen{scene: scene.New(assets)}
	sc := s.scene
	s.bg = sc.Add(scene.Pos(0, 0), scene.Rect(common.BaseWidth, common.BaseHeight), scene.Color(bgPrep), scene.Fixed(), scene.Z(0))
	s.box = sc.Add(scene.PosV(center), scene.RoundRect(300, 200, 12), scene.Anchor(engine.AnchorCenter),
		scene.Color(common.Black), scene.Opacity(0), scene.Fixed(), scene.Z(1))
	s.calendar = sc.Add(scene.Pos(center.X, 90), scene.Text("0", 56), scene.Anchor(engine.AnchorCenter), scene.Fixed(), scene.Z(2))

	for i := 0; i < lives; i++ {
		x := center.X - float64(lives-1)*35 + float64(i)*70
		s.hearts = append(s.hearts, sc.Add(scene.Pos(x, 190), scene.Circle(22), scene.Color(common.Red), scene.Fixed(),
			scene.Z(2), scene.Tag("heart")))
	}

	s.bean = sc.Add(scene.Pos(center.X, 420), scene.Circle(60), scene.Color(common.Green), scene.Fixed(), scene.Z(3))
	s.beanEyes = sc.Add(scene.Pos(center.X, 405), scene.Text("o o", 32), scene.Anchor(engine.AnchorCenter),
		scene.Color(common.Black), scene.Fixed(), scene.Z(4))
	s.banner = sc.Add(scene.PosV(center), scene.Text("", 64), scene.Anchor(engine.AnchorCenter), scene.Fixed(), scene.Z(6))
	s.prompt = sc.Add(scene.Pos(center.X, 290), scene.Text("", 52), scene.Anchor(engine.AnchorCenter), scene.Fixed(), scene.Z(6))
	s.input = sc.Add(scene.Pos(center.X, 540), scene.Text("", 28), scene.Anchor(engine.AnchorCenter), scene.Fixed(), scene.Z(6))
	s.overlay = sc.Add(scene.Pos(0, 0), scene.Rect(common.BaseWidth, common.BaseHeight), scene.Opacity(0), scene.Fixed(), scene.Z(5))
	return s
}

func (s *Screen) Visible() bool {
	return s.visible
}

func (s *Screen) SetVisible(v bool) {
	s.visible = v
}

// reset clears per-stage decorations before a stage builds its own.
func (s *Screen) reset(bg color.RGBA, sess Session) {
	s.bg.SetColor(bg)
	s.overlay.SetOpacity(0)
	s.banner.SetText("")
	s.banner.SetAngle(0)
	s.banner.SetScale(cp.Vector{X: 1, Y: 1})
	s.prompt.SetText("")
	s.input.SetText("")
	s.box.SetOpacity(0)
	s.box.SetScale(cp.Vector{X: 1, Y: 1})
	s.bean.SetPos(cp.Vector{X: center.X, Y: 420})
	s.bean.SetAngle(0)
	s.beanEyes.SetText("o o")
	s.calendar.SetText(strconv.Itoa(sess.Score()))
	s.syncHearts(sess.Lives())
}

// syncHearts marks every heart past lives as dead.
func (s *Screen) syncHearts(lives int) {
	for i, h := range s.hearts {
		if i < lives {
			h.SetColor(common.Red)
			h.SetScale(cp.Vector{X: 1, Y: 1})
		} else {
			h.SetColor(deadHeart)
		}
	}
}

// AliveHearts counts hearts drawn as alive.
func (s *Screen) AliveHearts() int {
	n := 0
	for _, h := range s.hearts {
		if h.Color() != deadHeart {
			n++
		}
	}
	return n
}

func (s *Screen) PromptText() string {
	return s.prompt.Text()
}

func (s *Screen) InputText() string {
	return s.input.Text()
}

func (s *Screen) Banner() string {
	return s.banner.Text()
}

func inputLabel(k microgame.InputKind) string {
	switch k {
	case microgame.InputMouse, microgame.InputMouseHidden:
		return "MOUSE"
	default:
		return "KEYS"
	}
}
