package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/backend"
	"github.com/itzKiwiSky/KAPLAYware-sub000/common"
	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	_ "github.com/itzKiwiSky/KAPLAYware-sub000/games"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/prefabs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/script"
	"github.com/itzKiwiSky/KAPLAYware-sub000/sound"
	"github.com/itzKiwiSky/KAPLAYware-sub000/telemetry"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

const (
	baseWidth  = common.BaseWidth
	baseHeight = common.BaseHeight
)

// Options are the command-line settings. Non-zero values win over the
// DEV_* environment toggles.
type Options struct {
	Debug      bool
	Microgame  string
	Difficulty int
	Speed      float64
	Metrics    string
}

type Game struct {
	opts Options
	log  zerolog.Logger

	assets  *asset.Registry
	reg     *microgame.Registry
	audio   *backend.Audio
	cache   *backend.Cache
	sampler *backend.Sampler

	host   *engine.Host
	engine *ware.Engine

	pauseUI *ebitenui.UI
	quit    bool
	over    bool
	cursor  bool
	areas   bool

	watcher   *prefabs.Watcher
	metrics   *telemetry.Metrics
	telemetry *telemetry.Server
	clipboard bool
}

func NewGame(opts Options, log zerolog.Logger) (*Game, error) {
	g := &Game{
		opts:    opts,
		log:     log,
		assets:  asset.NewRegistry(),
		reg:     microgame.Default(),
		audio:   backend.NewAudio(),
		sampler: backend.NewSampler(),
		cursor:  true,
	}
	g.cache = backend.NewCache(g.assets, log)

	if err := sound.Register(g.assets, log); err != nil {
		return nil, err
	}
	g.loadScripts()
	for _, err := range microgame.LoadAll(g.reg, g.loadEnv(), log) {
		log.Warn().Err(err).Msg("microgame skipped")
	}

	if opts.Metrics != "" {
		g.metrics = telemetry.NewMetrics()
		g.telemetry = telemetry.NewServer(opts.Metrics, g.metrics, log)
		go func() {
			if err := g.telemetry.ListenAndServe(); err != nil {
				log.Error().Err(err).Msg("telemetry stopped")
			}
		}()
	}
	if opts.Debug {
		g.startDebug()
	}

	if err := g.newSession(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) loadEnv() microgame.LoadEnv {
	return microgame.LoadEnv{FS: prefabs.FS(), Assets: g.assets, DecodeSound: sound.Decode}
}

// loadScripts registers every scripted microgame found in the prefabs,
// replacing older versions of the same game.
func (g *Game) loadScripts() []microgame.Microgame {
	games, errs := script.LoadDir(prefabs.FS(), g.log)
	for _, err := range errs {
		g.log.Warn().Err(err).Msg("scripted microgame skipped")
	}
	var loaded []microgame.Microgame
	for _, m := range games {
		if err := g.reg.Replace(m); err != nil {
			g.log.Warn().Err(err).Str("microgame", microgame.ID(m)).Msg("scripted microgame rejected")
			continue
		}
		loaded = append(loaded, m)
	}
	return loaded
}

func (g *Game) config() ware.Config {
	data, err := prefabs.Load("ware.yaml")
	if err != nil {
		g.log.Warn().Err(err).Msg("no ware.yaml, using defaults")
		return ware.DefaultConfig()
	}
	cfg, err := ware.ParseConfig(data)
	if err != nil {
		g.log.Warn().Err(err).Msg("bad ware.yaml, using defaults")
		return ware.DefaultConfig()
	}
	return cfg
}

func (g *Game) overrides() []ware.Option {
	dev, err := ware.DevOverridesFromEnv()
	if err != nil {
		g.log.Warn().Err(err).Msg("ignoring dev overrides")
	}
	if g.opts.Microgame != "" {
		dev.Microgame = g.opts.Microgame
	}
	if g.opts.Difficulty > 0 {
		dev.Difficulty = g.opts.Difficulty
	}
	if g.opts.Speed > 0 {
		dev.Speed = g.opts.Speed
	}
	return append(dev.Options(), ware.WithLogger(g.log))
}

// newSession starts a fresh host and engine over the shared assets and
// registry. Sounds still playing on the old host are stopped with it.
func (g *Game) newSession() error {
	host := engine.NewHost(g.audio, engine.WithLogger(g.log), engine.WithAssets(g.assets))
	e, err := ware.New(host, g.reg, g.config(), g.overrides()...)
	if err != nil {
		return err
	}
	if g.engine != nil {
		g.engine.SetPaused(true)
		g.host.Mixer.StopAll()
	}
	if g.metrics != nil {
		g.metrics.Attach(e)
	}
	e.OnGameOver(func(s ware.Snapshot) {
		g.over = true
		g.log.Info().Int("score", s.Score).Msg("press enter to play again")
	})
	g.host, g.engine = host, e
	g.over = false
	e.Start()
	return nil
}

// restart plays a new session on the current engine.
func (g *Game) restart() {
	g.over = false
	g.engine.SetPaused(false)
	g.host.Mixer.StopAll()
	g.engine.Start()
}

func replayPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	defer g.publish()
	if g.telemetry != nil {
		g.telemetry.Apply(g.engine)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.engine.SetPaused(!g.engine.Paused())
	}
	if g.engine.Paused() {
		g.setCursor(true)
		g.pauseUI.Update()
		return nil
	}

	if g.opts.Debug {
		g.debugKeys()
		g.applyChanges()
	}

	if g.over && replayPressed() {
		g.restart()
	}
	g.host.Step(1/float64(ebiten.TPS()), g.sampler.Sample())
	g.setCursor(g.host.State.CursorVisible || g.over)

	return nil
}

func (g *Game) publish() {
	if g.telemetry != nil {
		g.telemetry.Publish(g.engine.Snapshot())
	}
}

func (g *Game) setCursor(visible bool) {
	if visible == g.cursor {
		return
	}
	g.cursor = visible
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.engine.Background())

	c := backend.NewCanvas(screen, g.host.State.Camera, g.cache)
	g.engine.Draw(c)
	if g.areas {
		g.engine.App().Scene.DrawAreas(c)
	}
	c.Flash()

	if g.opts.Debug {
		s := g.engine.Snapshot()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.0f  %s  score %d  lives %d  diff %d  speed %.2f  %s %.1fs",
			ebiten.ActualFPS(), s.Microgame, s.Score, s.Lives, s.Difficulty, s.Speed, s.WinState, s.TimeLeft))
	}
	if g.over {
		ebitenutil.DebugPrintAt(screen, "press enter to play again", baseWidth/2-75, baseHeight-40)
	}
	if g.engine.Paused() {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.telemetry.Shutdown(ctx); err != nil {
			g.log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}
}
