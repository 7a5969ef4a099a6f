package script

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/prefabs"
)

// Build turns a descriptor and its compiled script into a microgame.
func Build(spec prefabs.MicrogameSpec, prog *Program, log zerolog.Logger) (microgame.Microgame, error) {
	info := microgame.Info{
		Name:      spec.Name,
		Author:    spec.Author,
		Pack:      spec.Pack,
		Prompt:    microgame.TextPrompt(spec.Prompt),
		URLPrefix: spec.URLPrefix,
		Start:     prog.Start(log),
	}
	if spec.Color != nil {
		info.RGB = microgame.StaticColor(spec.Color.RGBA)
	}
	if len(spec.Sprites) > 0 || len(spec.Sounds) > 0 {
		info.Load = func(l microgame.LoadContext) error {
			for _, s := range spec.Sprites {
				if err := l.LoadSprite(s.Name, s.File, microgame.SpriteOpt{SliceX: s.SliceX, SliceY: s.SliceY}); err != nil {
					return err
				}
			}
			for _, s := range spec.Sounds {
				if err := l.LoadSound(s.Name, s.File); err != nil {
					return err
				}
			}
			return nil
		}
	}

	if spec.Boss {
		return &microgame.Boss{Info: info, HideMouse: spec.HideMouse}, nil
	}
	input, ok := microgame.ParseInputKind(spec.Input)
	if !ok {
		return nil, fmt.Errorf("script: %s: unknown input %q", spec.Name, spec.Input)
	}
	g := &microgame.Normal{Info: info, Input: input}
	if spec.Duration > 0 {
		g.Duration = microgame.Seconds(spec.Duration)
	}
	return g, nil
}

// LoadDir builds every scripted microgame described under fsys. Failures are
// logged and returned; the rest still load.
func LoadDir(fsys fs.FS, log zerolog.Logger) ([]microgame.Microgame, []error) {
	specs, specErrs := prefabs.LoadMicrogameSpecs(fsys)
	var errs []error
	for name, err := range specErrs {
		log.Warn().Err(err).Str("file", name).Msg("bad microgame descriptor")
		errs = append(errs, err)
	}

	var games []microgame.Microgame
	for _, spec := range specs {
		m, err := load(fsys, spec, log)
		if err != nil {
			log.Warn().Err(err).Str("microgame", spec.Author+":"+spec.Name).Msg("scripted microgame skipped")
			errs = append(errs, err)
			continue
		}
		games = append(games, m)
	}
	return games, errs
}

func load(fsys fs.FS, spec prefabs.MicrogameSpec, log zerolog.Logger) (microgame.Microgame, error) {
	file := path.Join("scripts", strings.TrimPrefix(spec.Script, "scripts/"))
	src, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", file, err)
	}
	prog, err := Compile(file, src)
	if err != nil {
		return nil, err
	}
	return Build(spec, prog, log)
}
