package backend

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
)

type cachedImage struct {
	src image.Image
	img *ebiten.Image
}

type cachedShader struct {
	src    []byte
	shader *ebiten.Shader
	err    error
}

// Cache turns registry assets into GPU images and compiled shaders. Entries
// are rebuilt when the registry swaps the underlying asset.
type Cache struct {
	assets *asset.Registry
	log    zerolog.Logger

	mu      sync.Mutex
	images  map[asset.Key]cachedImage
	shaders map[asset.Key]cachedShader
}

func NewCache(assets *asset.Registry, log zerolog.Logger) *Cache {
	return &Cache{
		assets:  assets,
		log:     log,
		images:  make(map[asset.Key]cachedImage),
		shaders: make(map[asset.Key]cachedShader),
	}
}

// Frame returns frame i of the sprite at k.
func (c *Cache) Frame(k asset.Key, i int) (*ebiten.Image, bool) {
	spr, ok := c.assets.Sprite(k)
	if !ok || spr.Image == nil {
		return nil, false
	}

	c.mu.Lock()
	entry, ok := c.images[k]
	if !ok || entry.src != spr.Image {
		entry = cachedImage{src: spr.Image, img: ebiten.NewImageFromImage(spr.Image)}
		c.images[k] = entry
	}
	c.mu.Unlock()

	if spr.FrameCount() == 1 {
		return entry.img, true
	}
	sub, ok := entry.img.SubImage(spr.FrameRect(i)).(*ebiten.Image)
	return sub, ok
}

// Shader compiles the Kage source at k once. A shader that fails to compile
// is logged once and then skipped.
func (c *Cache) Shader(k asset.Key) (*ebiten.Shader, bool) {
	def, ok := c.assets.Shader(k)
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.shaders[k]
	if !ok || string(entry.src) != string(def.Source) {
		entry = cachedShader{src: def.Source}
		entry.shader, entry.err = ebiten.NewShader(def.Source)
		if entry.err != nil {
			c.log.Warn().Err(entry.err).Str("shader", k.String()).Msg("shader compile failed")
		}
		c.shaders[k] = entry
	}
	return entry.shader, entry.err == nil
}
