package main

import (
	"encoding/json"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/prefabs"
)

func (g *Game) startDebug() {
	w, err := prefabs.NewWatcher(prefabs.Dir)
	if err != nil {
		g.log.Warn().Err(err).Str("dir", prefabs.Dir).Msg("hot reload off")
	} else {
		g.watcher = w
	}

	if err := clipboard.Init(); err != nil {
		g.log.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboard = true
	}
}

// debugKeys: F1-F3 pin the difficulty, F4 clears it, F5 restarts the round,
// F6 skips it, F7 copies the session snapshot, F8 toggles area outlines.
func (g *Game) debugKeys() {
	for i, k := range []ebiten.Key{ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3} {
		if inpututil.IsKeyJustPressed(k) {
			g.engine.SetDifficultyOverride(i + 1)
			g.log.Info().Int("difficulty", i+1).Msg("difficulty pinned")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		g.engine.SetDifficultyOverride(0)
		g.log.Info().Msg("difficulty unpinned")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.engine.RestartRound()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.engine.SkipRound()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		g.copySnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		g.areas = !g.areas
	}
}

func (g *Game) copySnapshot() {
	if !g.clipboard {
		return
	}
	data, err := json.MarshalIndent(g.engine.Snapshot(), "", "  ")
	if err != nil {
		g.log.Warn().Err(err).Msg("encode snapshot")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.log.Info().Msg("snapshot copied")
}

// applyChanges drains the prefab watcher. Config edits start a new session;
// microgame and script edits reload every scripted game in place.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	var config, games bool
	for drained := false; !drained; {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Debug().Str("path", c.Path).Msg("prefab changed")
			switch c.Kind {
			case prefabs.ChangeConfig:
				config = true
			case prefabs.ChangeMicrogame, prefabs.ChangeScript:
				games = true
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn().Err(err).Msg("prefab watcher")
		default:
			drained = true
		}
	}

	if games {
		env := g.loadEnv()
		for _, m := range g.loadScripts() {
			if err := microgame.Load(m, env); err != nil {
				g.log.Warn().Err(err).Str("microgame", microgame.ID(m)).Msg("reload failed, removing")
				g.reg.Remove(microgame.ID(m))
			}
		}
		if err := g.engine.Reload(); err != nil {
			g.log.Warn().Err(err).Msg("reload")
		}
	}
	if config {
		if err := g.newSession(); err != nil {
			g.log.Warn().Err(err).Msg("config reload failed, keeping session")
		} else {
			g.log.Info().Msg("config reloaded, new session")
		}
	}
}
