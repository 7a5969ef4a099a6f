package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

//go:embed ware.yaml microgames/*.yaml scripts/*.tengo
var embedded embed.FS

// Dir is the on-disk prefab directory. Files found there win over the
// embedded copies so content can be edited without rebuilding.
var Dir = "prefabs"

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return embedded.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	return Load(cleanScriptPath(name))
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPrefabPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// FS layers Dir over the embedded prefabs. Directory listings merge both.
func FS() fs.FS {
	return overlay{disk: os.DirFS(Dir), base: embedded}
}

type overlay struct {
	disk fs.FS
	base fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	if f, err := o.disk.Open(name); err == nil {
		return f, nil
	}
	return o.base.Open(name)
}

func (o overlay) ReadFile(name string) ([]byte, error) {
	if data, err := fs.ReadFile(o.disk, name); err == nil {
		return data, nil
	}
	return fs.ReadFile(o.base, name)
}

func (o overlay) ReadDir(name string) ([]fs.DirEntry, error) {
	disk, derr := fs.ReadDir(o.disk, name)
	base, berr := fs.ReadDir(o.base, name)
	if derr != nil && berr != nil {
		if errors.Is(derr, fs.ErrNotExist) {
			return nil, berr
		}
		return nil, derr
	}
	all := lo.UniqBy(append(disk, base...), func(e fs.DirEntry) string { return e.Name() })
	slices.SortFunc(all, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return all, nil
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := cleanPrefabPath(p)
	s = strings.TrimPrefix(s, "scripts/")
	return path.Join("scripts", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
