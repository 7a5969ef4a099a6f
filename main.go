package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug keys, overlay and prefab hot reload")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	forced := flag.String("microgame", "", "play only this microgame (author:name)")
	difficulty := flag.Int("difficulty", 0, "pin difficulty to 1-3")
	speed := flag.Float64("speed", 0, "starting speed multiplier")
	metrics := flag.String("metrics", "", "serve telemetry on this address, e.g. :9090")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("kaplayware")

	game, err := NewGame(Options{
		Debug:      *debug,
		Microgame:  *forced,
		Difficulty: *difficulty,
		Speed:      *speed,
		Metrics:    *metrics,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("start")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}
