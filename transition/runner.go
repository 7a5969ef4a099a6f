// Package transition runs the interstitial between rounds: an ordered list of
// stages, each gated by its jingle, drawn on a screen that persists across
// rounds.
package transition

import (
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/pool"
)

type Name string

const (
	Prep     Name = "prep"
	Win      Name = "win"
	Lose     Name = "lose"
	Speed    Name = "speed"
	BossPrep Name = "bossPrep"
	BossWin  Name = "bossWin"
	BossLose Name = "bossLose"
	GameOver Name = "gameOver"
)

// Names lists every stage.
var Names = []Name{Prep, Win, Lose, Speed, BossPrep, BossWin, BossLose, GameOver}

// Terminal stages end the session instead of handing back to gameplay.
func (n Name) Terminal() bool {
	return n == GameOver
}

// JingleKey is the shared sound that gates a stage.
func JingleKey(n Name) asset.Key {
	return asset.SharedKey(string(n) + "Jingle")
}

// Session is the read-only view of the ware the screen renders.
type Session interface {
	Score() int
	Lives() int
	MaxLives() int
	Speed() float64
	Prompt() microgame.PromptText
	Input() microgame.InputKind
}

type Hooks struct {
	OnStageStart    func(n Name)
	OnStageEnd      func(n Name)
	OnTransitionEnd func()
	// OnGameOver replaces OnTransitionEnd when the last stage is terminal.
	OnGameOver func()
}

type Config struct {
	BPM       float64
	PrepBeats int
	// Fallback stage lengths in seconds at speed 1, used when a jingle is
	// not loaded.
	Fallback map[Name]float64
}

func DefaultConfig() Config {
	return Config{
		BPM:       140,
		PrepBeats: 3,
		Fallback: map[Name]float64{
			Win:      1.6,
			Lose:     1.6,
			Speed:    2.2,
			BossPrep: 2.4,
			BossWin:  2.4,
			BossLose: 2.4,
			GameOver: 3.5,
		},
	}
}

// Runner is created once and reused for every transition.
type Runner struct {
	host    *engine.Host
	session Session
	cfg     Config
	log     zerolog.Logger
	screen  *Screen

	timers     *pool.Group
	sounds     *pool.SoundGroup
	conductors *pool.Group

	stages  []Name
	idx     int
	hooks   Hooks
	active  bool
	paused  bool
	stageID int
}

func NewRunner(host *engine.Host, session Session, cfg Config, log zerolog.Logger) *Runner {
	if cfg.BPM <= 0 {
		cfg.BPM = DefaultConfig().BPM
	}
	if cfg.PrepBeats <= 0 {
		cfg.PrepBeats = DefaultConfig().PrepBeats
	}
	if cfg.Fallback == nil {
		cfg.Fallback = DefaultConfig().Fallback
	}
	r := &Runner{
		host:       host,
		session:    session,
		cfg:        cfg,
		log:        log,
		screen:     newScreen(host.Assets, session.MaxLives()),
		timers:     &pool.Group{},
		sounds:     pool.NewSoundGroup(host.Mixer, host.State),
		conductors: &pool.Group{},
	}
	host.Loop.OnUpdate(func() { r.screen.scene.Update(host.Loop.DT()) })
	host.OnAudioUnlock(r.sounds.ReleaseQueued)
	return r
}

func (r *Runner) Screen() *Screen {
	return r.screen
}

// Run starts a new sequence, abandoning any sequence still in flight.
func (r *Runner) Run(stages []Name, hooks Hooks) {
	r.cancel()
	r.stages = append(r.stages[:0], stages...)
	r.idx = 0
	r.hooks = hooks
	if len(r.stages) == 0 {
		r.active = false
		if hooks.OnTransitionEnd != nil {
			hooks.OnTransitionEnd()
		}
		return
	}
	r.active = true
	r.screen.SetVisible(true)
	r.startStage()
}

func (r *Runner) Active() bool {
	return r.active
}

// Current is the running stage.
func (r *Runner) Current() (Name, bool) {
	if !r.active || r.idx >= len(r.stages) {
		return "", false
	}
	return r.stages[r.idx], true
}

func (r *Runner) Paused() bool {
	return r.paused
}

func (r *Runner) SetPaused(p bool) {
	r.paused = p
	r.timers.SetPaused(p)
	r.sounds.SetPaused(p)
	r.conductors.SetPaused(p)
	r.screen.scene.SetPaused(p)
}

// Stop abandons the running sequence without firing hooks and hides the
// screen.
func (r *Runner) Stop() {
	r.cancel()
	r.active = false
	r.screen.SetVisible(false)
}

func (r *Runner) Draw(c engine.Canvas) {
	if r.screen.visible {
		r.screen.scene.Draw(c)
	}
}

func (r *Runner) cancel() {
	r.stageID++
	r.timers.Cancel()
	r.sounds.Cancel()
	r.conductors.Cancel()
}

func (r *Runner) startStage() {
	n := r.stages[r.idx]
	r.stageID++
	r.log.Debug().Str("stage", string(n)).Msg("stage start")
	if r.hooks.OnStageStart != nil {
		r.hooks.OnStageStart(n)
	}
	if !r.active || r.stages[r.idx] != n {
		return
	}
	r.runStage(n, r.stageID)
}

// end finishes the stage started with id; stale ids from canceled stages are
// ignored.
func (r *Runner) end(id int) {
	if !r.active || id != r.stageID {
		return
	}
	n := r.stages[r.idx]
	r.log.Debug().Str("stage", string(n)).Msg("stage end")
	if r.hooks.OnStageEnd != nil {
		r.hooks.OnStageEnd(n)
	}
	if !r.active || id != r.stageID {
		return
	}

	r.idx++
	if r.idx < len(r.stages) {
		r.startStage()
		return
	}

	r.active = false
	r.timers.Cancel()
	r.conductors.Cancel()
	if n.Terminal() {
		if r.hooks.OnGameOver != nil {
			r.hooks.OnGameOver()
		}
		return
	}
	r.screen.SetVisible(false)
	if r.hooks.OnTransitionEnd != nil {
		r.hooks.OnTransitionEnd()
	}
}

// jingle plays the stage's sound at the session speed and returns how long
// the stage should last.
func (r *Runner) jingle(n Name) float64 {
	speed := r.session.Speed()
	s := r.sounds.Play(JingleKey(n), engine.PlayOpt{Speed: speed})
	if d := s.Duration(); d > 0 {
		return d
	}
	return r.cfg.Fallback[n] / speed
}

func (r *Runner) wait(sec float64, fn func()) *engine.Timer {
	return pool.Add(r.timers, r.host.Loop.Wait(sec, fn))
}

func (r *Runner) tween(from, to, dur float64, set func(float64), ease engine.Easing) *engine.Tween {
	return pool.Add(r.timers, r.host.Loop.Tween(from, to, dur, set, ease))
}

func (r *Runner) onUpdate(fn func()) *engine.EventHandle {
	return pool.Add(r.timers, r.host.Loop.OnUpdate(fn))
}
