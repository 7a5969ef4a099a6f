package microgame

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"path"

	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
)

// SpriteOpt lays out a sprite sheet.
type SpriteOpt struct {
	SliceX int
	SliceY int
	Anims  map[string]asset.Anim
}

// AtlasEntry is one sprite cut out of an atlas image.
type AtlasEntry struct {
	X, Y, W, H int
	SpriteOpt
}

// LoadContext is the restricted API a game's Load func gets. Names resolve in
// the game's namespace; paths are relative to its URLPrefix.
type LoadContext interface {
	LoadSprite(name, file string, opt SpriteOpt) error
	LoadSpriteImage(name string, img image.Image, opt SpriteOpt) error
	LoadSpriteAtlas(file string, entries map[string]AtlasEntry) error
	LoadSound(name, file string) error
	LoadSoundClip(name string, s asset.Sound) error
	LoadShader(name string, source []byte) error
	LoadShaderFile(name, file string) error
}

// SoundDecoder turns an audio file into a playable sound. ext includes the
// leading dot.
type SoundDecoder func(r io.Reader, ext string) (asset.Sound, error)

// LoadEnv is what loading needs from the outside world.
type LoadEnv struct {
	FS          fs.FS
	Assets      *asset.Registry
	DecodeSound SoundDecoder
}

var ErrNoDecoder = errors.New("microgame: no sound decoder")

type loadContext struct {
	env    LoadEnv
	ns     string
	prefix string
}

// Load runs m's Load func against a namespaced LoadContext.
func Load(m Microgame, env LoadEnv) error {
	info := m.Meta()
	if info.Load == nil {
		return nil
	}
	if env.Assets == nil {
		env.Assets = asset.NewRegistry()
	}
	l := &loadContext{env: env, ns: info.ID(), prefix: info.URLPrefix}
	if err := info.Load(l); err != nil {
		return fmt.Errorf("microgame: load %s: %w", info.ID(), err)
	}
	return nil
}

// LoadAll loads every registered game. A game that fails to load is logged,
// removed from r and reported in the returned slice.
func LoadAll(r *Registry, env LoadEnv, log zerolog.Logger) []error {
	var errs []error
	for _, m := range r.All() {
		if err := Load(m, env); err != nil {
			log.Error().Err(err).Str("microgame", ID(m)).Msg("load failed, skipping")
			r.Remove(ID(m))
			errs = append(errs, err)
		}
	}
	return errs
}

func (l *loadContext) key(name string) asset.Key {
	return asset.Resolve(l.ns, name)
}

func (l *loadContext) open(file string) (fs.File, error) {
	if l.env.FS == nil {
		return nil, fmt.Errorf("open %s: %w", file, fs.ErrNotExist)
	}
	return l.env.FS.Open(path.Join(l.prefix, file))
}

func (l *loadContext) LoadSprite(name, file string, opt SpriteOpt) error {
	f, err := l.open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}
	return l.LoadSpriteImage(name, img, opt)
}

func (l *loadContext) LoadSpriteImage(name string, img image.Image, opt SpriteOpt) error {
	if img == nil {
		return fmt.Errorf("sprite %s: nil image", name)
	}
	l.env.Assets.AddSprite(&asset.Sprite{
		Key:    l.key(name),
		Image:  img,
		SliceX: opt.SliceX,
		SliceY: opt.SliceY,
		Anims:  opt.Anims,
	})
	return nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func (l *loadContext) LoadSpriteAtlas(file string, entries map[string]AtlasEntry) error {
	f, err := l.open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}
	sub, ok := img.(subImager)
	if !ok {
		return fmt.Errorf("atlas %s: image type %T cannot be cut", file, img)
	}
	for name, e := range entries {
		r := image.Rect(e.X, e.Y, e.X+e.W, e.Y+e.H)
		if err := l.LoadSpriteImage(name, sub.SubImage(r), e.SpriteOpt); err != nil {
			return err
		}
	}
	return nil
}

func (l *loadContext) LoadSound(name, file string) error {
	if l.env.DecodeSound == nil {
		return ErrNoDecoder
	}
	f, err := l.open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := l.env.DecodeSound(f, path.Ext(file))
	if err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}
	return l.LoadSoundClip(name, s)
}

func (l *loadContext) LoadSoundClip(name string, s asset.Sound) error {
	if s == nil {
		return fmt.Errorf("sound %s: nil clip", name)
	}
	l.env.Assets.AddSound(l.key(name), s)
	return nil
}

func (l *loadContext) LoadShader(name string, source []byte) error {
	l.env.Assets.AddShader(&asset.Shader{Key: l.key(name), Source: source})
	return nil
}

func (l *loadContext) LoadShaderFile(name, file string) error {
	f, err := l.open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	return l.LoadShader(name, src)
}
