// Package ware is the round orchestrator: it draws microgames out of the
// hat, builds a context for each one, runs the countdown and the bomb, and
// strings rounds together with transitions until the lives run out.
package ware

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/bomb"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/pool"
	"github.com/itzKiwiSky/KAPLAYware-sub000/transition"
)

var (
	ErrNoMicrogames     = errors.New("ware: no microgames registered")
	ErrUnknownMicrogame = errors.New("ware: unknown microgame")
)

type Option func(*Engine)

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.baseLog = log }
}

// WithForcedMicrogame makes every round play id.
func WithForcedMicrogame(id string) Option {
	return func(e *Engine) { e.forcedID = id }
}

func WithDifficulty(d int) Option {
	return func(e *Engine) { e.SetDifficultyOverride(d) }
}

// WithSpeed sets the speed each session starts at.
func WithSpeed(s float64) Option {
	return func(e *Engine) { e.startSpeed = s }
}

// RoundInfo describes a round as it is set up.
type RoundInfo struct {
	Microgame  string
	Score      int
	Difficulty int
	Speed      float64
	Boss       bool
	Duration   float64
}

// Engine implements microgame.Round for the running game and
// transition.Session for the screen between games.
type Engine struct {
	cfg     Config
	host    *engine.Host
	app     *pool.App
	reg     *microgame.Registry
	factory *microgame.Factory
	runner  *transition.Runner
	hat     *Hat
	rng     *rand.Rand
	baseLog zerolog.Logger
	log     zerolog.Logger
	own     *pool.Group

	session    uuid.UUID
	forcedID   string
	forced     microgame.Microgame
	startSpeed float64
	override   int

	score    int
	lives    int
	speed    float64
	speedUps int
	untilUp  int
	history  []string
	prevBoss bool
	gameOver bool
	paused   bool
	resumeTo bool
	repeat   bool
	stages   []transition.Name

	current  microgame.Microgame
	ctx      microgame.Context
	prompt   microgame.PromptText
	winState microgame.WinState
	duration float64
	timeLeft float64
	timed    bool
	running  bool
	timedOut bool
	ending   bool
	bomb     *bomb.Bomb
	timeouts []timeoutHandler

	onRound    []func(RoundInfo)
	onOutcome  []func(id string, won bool)
	onGameOver []func(Snapshot)
}

type timeoutHandler struct {
	h  *engine.EventHandle
	fn func()
}

// New builds an engine over the games in reg. Nothing runs until Start.
func New(host *engine.Host, reg *microgame.Registry, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        cfg,
		host:       host,
		reg:        reg,
		baseLog:    host.Log,
		own:        &pool.Group{},
		startSpeed: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	e.log = e.baseLog

	games := reg.All()
	if len(games) == 0 {
		return nil, ErrNoMicrogames
	}
	if e.forcedID != "" {
		m, ok := reg.Find(e.forcedID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMicrogame, e.forcedID)
		}
		e.forced = m
	}

	e.app = pool.New(host)
	e.app.SetPaused(true)
	e.factory = microgame.NewFactory(e.app, e.rng, e.baseLog)
	e.hat = NewHat(games, e.rng)
	e.runner = transition.NewRunner(host, e, cfg.Transition(), e.baseLog)
	return e, nil
}

func (e *Engine) App() *pool.App {
	return e.app
}

func (e *Engine) Runner() *transition.Runner {
	return e.runner
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) OnRound(fn func(RoundInfo)) {
	e.onRound = append(e.onRound, fn)
}

func (e *Engine) OnOutcome(fn func(id string, won bool)) {
	e.onOutcome = append(e.onOutcome, fn)
}

func (e *Engine) OnGameOver(fn func(Snapshot)) {
	e.onGameOver = append(e.onGameOver, fn)
}

// Start begins a new session, dropping whatever was running.
func (e *Engine) Start() {
	e.teardown()
	e.session = uuid.New()
	e.log = e.baseLog.With().Str("session", e.session.String()).Logger()
	e.score = 0
	e.lives = e.cfg.Lives
	e.speed = min(e.startSpeed, e.cfg.SpeedCap)
	e.speedUps = 0
	e.untilUp = e.speedUpCadence()
	e.history = nil
	e.prevBoss = false
	e.gameOver = false
	e.repeat = false
	e.winState = microgame.Undecided
	e.current = nil
	e.app.Reset()
	e.log.Info().Int("lives", e.lives).Float64("speed", e.speed).Msg("session start")
	e.NextGame()
}

// NextGame counts the round and runs the transition into the next one.
func (e *Engine) NextGame() {
	e.score++
	e.app.SetPaused(true)
	e.host.State.CursorVisible = false
	e.running = false

	gameOver := e.lives <= 0
	boss := !gameOver && e.shouldBoss()
	speedUp := !gameOver && e.shouldSpeedUp(boss)
	e.stages = ComputeStages(e.winState, e.prevBoss, speedUp, boss, gameOver)
	e.log.Debug().Int("score", e.score).Int("lives", e.lives).Interface("stages", e.stages).Msg("next game")

	e.runner.Run(e.stages, transition.Hooks{
		OnStageStart: func(n transition.Name) {
			switch n {
			case transition.Speed:
				e.speedUp()
			case transition.Prep:
				e.setupRound(boss)
			}
		},
		OnTransitionEnd: e.resume,
		OnGameOver:      e.endSession,
	})
}

func (e *Engine) shouldBoss() bool {
	if e.forced != nil {
		return e.forced.IsBoss()
	}
	return e.score%e.cfg.BossEvery == 0 && e.hat.HasBoss()
}

func (e *Engine) shouldSpeedUp(boss bool) bool {
	if e.score <= 1 || boss || e.speed >= e.cfg.SpeedCap {
		return false
	}
	e.untilUp--
	if e.untilUp > 0 {
		return false
	}
	e.untilUp = e.speedUpCadence()
	return true
}

func (e *Engine) speedUpCadence() int {
	lo, hi := e.cfg.SpeedUpEveryMin, e.cfg.SpeedUpEveryMax
	return lo + e.rng.Intn(hi-lo+1)
}

func (e *Engine) speedUp() {
	step := e.cfg.SpeedUpMin + e.rng.Float64()*(e.cfg.SpeedUpMax-e.cfg.SpeedUpMin)
	e.speed = min(e.cfg.SpeedCap, e.speed*(1+step))
	e.speedUps++
	e.log.Info().Float64("speed", e.speed).Msg("speed up")
}

func (e *Engine) pick(boss bool) microgame.Microgame {
	if e.repeat && e.current != nil {
		e.repeat = false
		return e.current
	}
	if e.forced != nil {
		return e.forced
	}
	return e.hat.Draw(boss, e.history)
}

// setupRound runs at the start of prep, while the transition still covers
// the screen, so the game is built paused and revealed when prep ends.
func (e *Engine) setupRound(boss bool) {
	e.app.Reset()
	e.bomb = nil
	e.timeouts = nil
	e.timedOut = false
	e.ending = false

	m := e.pick(boss)
	id := microgame.ID(m)
	e.current = m
	e.history = append(e.history, id)
	e.winState = microgame.Undecided
	e.ctx = e.factory.New(m, e)

	pool.Add(e.app.Events, e.host.Loop.OnUpdate(e.update))

	e.duration, e.timed = microgame.ResolveDuration(m, e.ctx)
	if e.timed {
		e.duration /= e.speed
	}
	e.timeLeft = e.duration
	e.host.State.Background = microgame.ResolveColor(m, e.ctx)

	m.Meta().Start(e.ctx)
	e.prompt = microgame.ResolvePrompt(m, e.ctx)

	info := RoundInfo{
		Microgame:  id,
		Score:      e.score,
		Difficulty: e.Difficulty(),
		Speed:      e.speed,
		Boss:       m.IsBoss(),
		Duration:   e.duration,
	}
	e.log.Info().Str("microgame", id).Int("score", e.score).Int("difficulty", info.Difficulty).
		Float64("speed", e.speed).Float64("duration", e.duration).Msg("round setup")
	for _, fn := range e.onRound {
		fn(info)
	}
}

func (e *Engine) resume() {
	if e.paused {
		e.resumeTo = true
	} else {
		e.app.SetPaused(false)
	}
	e.host.State.CursorVisible = !microgame.HidesMouse(e.current)
	e.running = e.winState == microgame.Undecided
}

// update is the first handler of every round.
func (e *Engine) update() {
	if e.bomb != nil {
		e.bomb.Update()
		if e.bomb.HasExploded() {
			e.timeout()
			return
		}
	}
	if !e.running || !e.timed {
		return
	}

	e.timeLeft = max(0, e.timeLeft-e.host.Loop.DT())
	fuse := float64(e.cfg.BombBeats) * 60 / (e.cfg.BPM * e.speed)
	if e.bomb == nil && e.timeLeft <= fuse && e.winState == microgame.Undecided {
		e.bomb = bomb.New(e.app, e.cfg.BombBeats)
		e.bomb.Lit(e.cfg.BPM * e.speed)
	}
	if e.timeLeft <= 0 {
		e.timeout()
	}
}

// timeout runs the game's timeout handlers once. Without any, the round is
// lost unless already decided, then finished.
func (e *Engine) timeout() {
	if e.timedOut || e.ending {
		return
	}
	e.timedOut = true
	e.running = false
	e.timeLeft = 0
	e.log.Debug().Str("microgame", microgame.ID(e.current)).Msg("timeout")

	var live []func()
	for _, t := range e.timeouts {
		if !t.h.Canceled() && !t.h.Paused() {
			live = append(live, t.fn)
		}
	}
	if len(live) == 0 {
		if e.winState == microgame.Undecided {
			e.Lose()
		}
		e.Finish()
		return
	}
	for _, fn := range live {
		fn()
	}
}

func (e *Engine) Win() {
	if e.winState != microgame.Undecided || e.ending {
		return
	}
	e.winState = microgame.Won
	e.running = false
	if e.bomb != nil {
		e.bomb.Extinguish()
	}
}

func (e *Engine) Lose() {
	if e.winState != microgame.Undecided || e.ending {
		return
	}
	e.winState = microgame.Lost
	e.running = false
	e.lives--
}

// Finish freezes the round, lets it linger for the grace period, then
// releases everything it registered and moves on.
func (e *Engine) Finish() {
	if e.winState == microgame.Undecided {
		panic(&microgame.ContractError{ID: microgame.ID(e.current), Err: microgame.ErrFinishWithoutOutcome})
	}
	if e.ending {
		return
	}
	e.ending = true
	e.running = false
	e.app.SetPaused(true)

	id := microgame.ID(e.current)
	won := e.winState == microgame.Won
	e.log.Info().Str("microgame", id).Bool("won", won).Int("lives", e.lives).Msg("round finished")
	for _, fn := range e.onOutcome {
		fn(id, won)
	}

	pool.Add(e.own, e.host.Loop.Wait(e.cfg.FinishGrace, func() {
		e.app.CancelAll()
		e.prevBoss = e.current != nil && e.current.IsBoss()
		e.NextGame()
	}))
}

func (e *Engine) OnTimeout(fn func()) *engine.EventHandle {
	h := pool.Add(e.app.Events, &engine.EventHandle{})
	e.timeouts = append(e.timeouts, timeoutHandler{h: h, fn: fn})
	return h
}

func (e *Engine) endSession() {
	e.gameOver = true
	e.running = false
	e.log.Info().Int("score", e.score).Int("speedUps", e.speedUps).Msg("game over")
	snap := e.Snapshot()
	for _, fn := range e.onGameOver {
		fn(snap)
	}
}

// SetPaused is the global pause. It freezes the round, the transition and
// the engine's own timers; resuming restores whatever was running.
func (e *Engine) SetPaused(p bool) {
	if p == e.paused {
		return
	}
	e.paused = p
	e.own.SetPaused(p)
	e.runner.SetPaused(p)
	if p {
		e.resumeTo = !e.app.Paused()
		e.app.SetPaused(true)
		return
	}
	if e.resumeTo {
		e.app.SetPaused(false)
	}
	e.resumeTo = false
}

func (e *Engine) Paused() bool {
	return e.paused
}

// RestartRound replays the current microgame from its prep stage.
func (e *Engine) RestartRound() {
	if e.current == nil || e.gameOver {
		return
	}
	e.log.Info().Str("microgame", microgame.ID(e.current)).Msg("restart round")
	refund := e.refundable()
	e.teardown()
	if refund {
		e.lives++
	}
	e.winState = microgame.Undecided
	e.history = e.history[:len(e.history)-1]
	e.repeat = true
	e.score--
	e.NextGame()
}

// SkipRound abandons the current round without an outcome.
func (e *Engine) SkipRound() {
	if e.gameOver || e.score == 0 {
		return
	}
	e.log.Info().Str("microgame", microgame.ID(e.current)).Msg("skip round")
	refund := e.refundable()
	e.teardown()
	if refund {
		e.lives++
	}
	e.winState = microgame.Undecided
	e.NextGame()
}

// refundable reports whether the round lost a life it has not yet paid for
// with a finish. Once finished, the loss stands.
func (e *Engine) refundable() bool {
	return e.winState == microgame.Lost && !e.ending
}

func (e *Engine) teardown() {
	e.own.Cancel()
	e.runner.Stop()
	e.app.CancelAll()
	e.app.SetPaused(true)
	if e.paused {
		e.resumeTo = false
	}
	e.running = false
	e.ending = false
	e.timedOut = false
	e.bomb = nil
}

// SetDifficultyOverride pins the difficulty to 1-3; 0 clears it.
func (e *Engine) SetDifficultyOverride(d int) {
	if d < 0 || d > 3 {
		d = 0
	}
	e.override = d
}

// Reload rebuilds the hat from the registry. The running round keeps its
// game; the next draw sees the new set.
func (e *Engine) Reload() error {
	games := e.reg.All()
	if len(games) == 0 {
		return ErrNoMicrogames
	}
	if e.forcedID != "" {
		m, ok := e.reg.Find(e.forcedID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMicrogame, e.forcedID)
		}
		e.forced = m
	}
	e.hat = NewHat(games, e.rng)
	e.log.Info().Int("microgames", len(games)).Msg("reloaded microgames")
	return nil
}

// Draw paints the round and, over it, the transition screen.
func (e *Engine) Draw(c engine.Canvas) {
	e.app.Draw(c)
	e.runner.Draw(c)
}

func (e *Engine) Background() color.RGBA {
	return e.host.State.Background
}

func (e *Engine) Difficulty() int {
	if e.override > 0 {
		return e.override
	}
	return Difficulty(e.score)
}

func (e *Engine) Speed() float64 {
	return e.speed
}

func (e *Engine) Lives() int {
	return e.lives
}

func (e *Engine) MaxLives() int {
	return e.cfg.Lives
}

func (e *Engine) Score() int {
	return e.score
}

func (e *Engine) TimeLeft() float64 {
	return e.timeLeft
}

func (e *Engine) Duration() float64 {
	return e.duration
}

func (e *Engine) WinState() microgame.WinState {
	return e.winState
}

func (e *Engine) SetRGB(c color.RGBA) {
	e.host.State.Background = c
}

func (e *Engine) Prompt() microgame.PromptText {
	return e.prompt
}

func (e *Engine) Input() microgame.InputKind {
	return microgame.InputOf(e.current)
}

func (e *Engine) Current() microgame.Microgame {
	return e.current
}

func (e *Engine) Bomb() *bomb.Bomb {
	return e.bomb
}

func (e *Engine) GameOver() bool {
	return e.gameOver
}

// Stages is the most recent transition sequence.
func (e *Engine) Stages() []transition.Name {
	return e.stages
}

func (e *Engine) History() []string {
	return e.history
}
