package prefabs

import (
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// MicrogameSpec describes a scripted microgame.
type MicrogameSpec struct {
	Name      string       `yaml:"name"`
	Author    string       `yaml:"author"`
	Pack      string       `yaml:"pack"`
	Prompt    string       `yaml:"prompt"`
	Color     *YAMLColor   `yaml:"color"`
	Input     string       `yaml:"input"`
	Duration  float64      `yaml:"duration"`
	Boss      bool         `yaml:"boss"`
	HideMouse bool         `yaml:"hideMouse"`
	Script    string       `yaml:"script"`
	URLPrefix string       `yaml:"urlPrefix"`
	Sprites   []SpriteSpec `yaml:"sprites"`
	Sounds    []SoundSpec  `yaml:"sounds"`
}

type SpriteSpec struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	SliceX int    `yaml:"sliceX"`
	SliceY int    `yaml:"sliceY"`
}

type SoundSpec struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

func (s *MicrogameSpec) validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("missing 'name'")
	case strings.TrimSpace(s.Author) == "":
		return fmt.Errorf("missing 'author'")
	case strings.TrimSpace(s.Script) == "":
		return fmt.Errorf("missing 'script'")
	case s.Duration < 0:
		return fmt.Errorf("negative 'duration'")
	}
	return nil
}

// LoadMicrogameSpecs decodes every microgames/*.yaml in fsys. Broken specs are
// reported per file and do not stop the others from loading.
func LoadMicrogameSpecs(fsys fs.FS) ([]MicrogameSpec, map[string]error) {
	names, err := fs.Glob(fsys, "microgames/*.yaml")
	if err != nil {
		return nil, map[string]error{"microgames": err}
	}

	var specs []MicrogameSpec
	errs := map[string]error{}
	for _, name := range names {
		spec, err := DecodeMicrogameSpec(fsys, name)
		if err != nil {
			errs[name] = err
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

func DecodeMicrogameSpec(fsys fs.FS, name string) (MicrogameSpec, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return MicrogameSpec{}, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	var spec MicrogameSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return MicrogameSpec{}, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	if err := spec.validate(); err != nil {
		return MicrogameSpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	if spec.URLPrefix == "" {
		spec.URLPrefix = path.Join("microgames", spec.Name)
	}
	return spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.RGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.RGBA = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color format: %s", value.Value)
		}
		rgba[i] = v
	}

	c.RGBA = color.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
