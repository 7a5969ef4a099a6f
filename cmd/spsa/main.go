// Command spsa previews a microgame's sprite sheets, playing every sheet's
// frames in a row so authors can check slicing and frame rate.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/backend"
	_ "github.com/itzKiwiSky/KAPLAYware-sub000/games"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/prefabs"
	"github.com/itzKiwiSky/KAPLAYware-sub000/script"
	"github.com/itzKiwiSky/KAPLAYware-sub000/sound"
)

const (
	screenWidth  = 512
	screenHeight = 512
	cell         = 128
)

type demoGame struct {
	cache       *backend.Cache
	sprites     []*asset.Sprite
	current     int
	tick        int
	ticksPerFrm int
}

func (g *demoGame) Update() error {
	g.tick++
	if g.tick >= g.ticksPerFrm {
		g.tick = 0
		g.current++
	}
	return nil
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x28, 0xff})
	cols := screenWidth / cell
	for i, spr := range g.sprites {
		n := spr.FrameCount()
		frame := g.current % n
		img, ok := g.cache.Frame(spr.Key, frame)
		if !ok {
			continue
		}
		fw, fh := spr.FrameSize()
		scale := min(1, float64(cell-16)/max(fw, fh))
		x := float64(i%cols*cell) + (cell-fw*scale)/2
		y := float64(i/cols*cell) + (cell-fh*scale)/2

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x, y)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %d/%d", spr.Key.Name, frame+1, n), i%cols*cell+2, i/cols*cell+2)
	}
}

func (g *demoGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// loadSprites loads id's assets and returns its sprites in name order.
func loadSprites(id string, assets *asset.Registry) ([]*asset.Sprite, error) {
	reg := microgame.Default()
	scripted, errs := script.LoadDir(prefabs.FS(), log.Logger)
	for _, err := range errs {
		log.Warn().Err(err).Msg("scripted microgame skipped")
	}
	for _, m := range scripted {
		if err := reg.Replace(m); err != nil {
			return nil, err
		}
	}

	m, ok := reg.Find(id)
	if !ok {
		return nil, fmt.Errorf("unknown microgame %q", id)
	}
	env := microgame.LoadEnv{FS: prefabs.FS(), Assets: assets, DecodeSound: sound.Decode}
	if err := microgame.Load(m, env); err != nil {
		return nil, err
	}

	var sprites []*asset.Sprite
	for _, k := range assets.Namespace(id) {
		if spr, ok := assets.Sprite(k); ok {
			sprites = append(sprites, spr)
		}
	}
	if len(sprites) == 0 {
		return nil, fmt.Errorf("%s has no sprites", id)
	}
	return sprites, nil
}

func main() {
	id := flag.String("microgame", "kaplayware:swat", "microgame to preview (author:name)")
	fps := flag.Int("fps", 8, "frames per second")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	assets := asset.NewRegistry()
	sprites, err := loadSprites(*id, assets)
	if err != nil {
		log.Fatal().Err(err).Msg("load sprites")
	}

	ticks := 1
	if *fps > 0 {
		ticks = max(1, 60 / *fps)
	}
	g := &demoGame{cache: backend.NewCache(assets, log.Logger), sprites: sprites, ticksPerFrm: ticks}
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("spsa: " + *id)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Send()
	}
}
