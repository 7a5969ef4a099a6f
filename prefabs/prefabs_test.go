package prefabs

import (
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func withDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
	return dir
}

func write(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := withDir(t)

	embedded, err := Load("ware.yaml")
	if err != nil {
		t.Fatalf("embedded load: %v", err)
	}
	if _, ok := ModTime("ware.yaml"); ok {
		t.Fatalf("expected no disk copy yet")
	}

	write(t, filepath.Join(dir, "ware.yaml"), "lives: 2\n")
	got, err := Load("prefabs/ware.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) == string(embedded) || string(got) != "lives: 2\n" {
		t.Fatalf("expected the disk copy, got %q", got)
	}
	if _, ok := ModTime("ware.yaml"); !ok {
		t.Fatalf("expected a disk mod time")
	}
}

func TestOverlayMergesListings(t *testing.T) {
	dir := withDir(t)
	write(t, filepath.Join(dir, "microgames", "extra.yaml"), "name: extra\nauthor: me\nscript: extra.tengo\n")
	write(t, filepath.Join(dir, "microgames", "pop.yaml"), "name: pop\nauthor: me\nscript: pop.tengo\n")

	names, err := fs.Glob(FS(), "microgames/*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	want := []string{"microgames/catch.yaml", "microgames/extra.yaml", "microgames/pop.yaml"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	spec, err := DecodeMicrogameSpec(FS(), "microgames/pop.yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.Author != "me" {
		t.Fatalf("expected the disk pop to win, got author %q", spec.Author)
	}
}

func TestLoadScript(t *testing.T) {
	withDir(t)
	for _, name := range []string{"catch.tengo", "scripts/catch.tengo", "prefabs/scripts/catch.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestEmbeddedMicrogameSpecs(t *testing.T) {
	withDir(t)
	specs, errs := LoadMicrogameSpecs(FS())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	for _, s := range specs {
		if s.URLPrefix != "microgames/"+s.Name {
			t.Fatalf("%s: expected a default url prefix, got %q", s.Name, s.URLPrefix)
		}
		if s.Color == nil {
			t.Fatalf("%s: expected a color", s.Name)
		}
	}
}

func TestDecodeMicrogameSpecRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "no name", yaml: "author: a\nscript: x.tengo\n"},
		{name: "no author", yaml: "name: a\nscript: x.tengo\n"},
		{name: "no script", yaml: "name: a\nauthor: b\n"},
		{name: "negative duration", yaml: "name: a\nauthor: b\nscript: x.tengo\nduration: -1\n"},
		{name: "bad color", yaml: "name: a\nauthor: b\nscript: x.tengo\ncolor: '#12'\n"},
		{name: "not yaml", yaml: "name: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := withDir(t)
			write(t, filepath.Join(dir, "microgames", "bad.yaml"), tt.yaml)
			if _, err := DecodeMicrogameSpec(FS(), "microgames/bad.yaml"); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{in: "'#ff8000'", want: color.RGBA{R: 255, G: 128, A: 255}, ok: true},
		{in: "'#ff800080'", want: color.RGBA{R: 255, G: 128, A: 128}, ok: true},
		{in: "Gold", want: color.RGBA{R: 255, G: 215, A: 255}, ok: true},
		{in: "'#zzzzzz'"},
		{in: "nope"},
		{in: "[1, 2, 3]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if (err == nil) != tt.ok {
				t.Fatalf("expected ok=%v, got err %v", tt.ok, err)
			}
			if tt.ok && c.RGBA != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, c.RGBA)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{path: "prefabs/ware.yaml", kind: ChangeConfig, ok: true},
		{path: "prefabs/microgames/pop.yaml", kind: ChangeMicrogame, ok: true},
		{path: "prefabs/microgames/pop.yml", kind: ChangeMicrogame, ok: true},
		{path: "prefabs/scripts/pop.tengo", kind: ChangeScript, ok: true},
		{path: "prefabs/other.yaml"},
		{path: "prefabs/scripts/pop.lua"},
	}
	for _, tt := range tests {
		kind, ok := classify(filepath.FromSlash(tt.path))
		if ok != tt.ok || kind != tt.kind {
			t.Fatalf("%s: expected %v/%v, got %v/%v", tt.path, tt.kind, tt.ok, kind, ok)
		}
	}
}

func TestWatcherReportsScriptEdits(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "scripts", "pop.tengo"), "game := {}\n")

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	write(t, filepath.Join(dir, "scripts", "pop.tengo"), "game := {start: func(e, s) {}}\n")

	select {
	case c := <-w.Events:
		if c.Kind != ChangeScript || filepath.Base(c.Path) != "pop.tengo" {
			t.Fatalf("unexpected change %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported")
	}
}
