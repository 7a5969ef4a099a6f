package telemetry

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

type controls struct {
	skips, restarts int
	paused          bool
}

func (c *controls) SkipRound()       { c.skips++ }
func (c *controls) RestartRound()    { c.restarts++ }
func (c *controls) SetPaused(p bool) { c.paused = p }

func newServer() (*Server, *httptest.Server) {
	s := NewServer(":0", NewMetrics(), zerolog.Nop())
	return s, httptest.NewServer(s.Routes())
}

func TestStateServesPublishedSnapshot(t *testing.T) {
	s, ts := newServer()
	defer ts.Close()

	s.Publish(ware.Snapshot{Score: 7, Lives: 2, Microgame: "kaplayware:dodge"})
	resp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got ware.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Score != 7 || got.Lives != 2 || got.Microgame != "kaplayware:dodge" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestDebugCommands(t *testing.T) {
	tests := []struct {
		path   string
		status int
	}{
		{"/debug/skip", http.StatusAccepted},
		{"/debug/restart", http.StatusAccepted},
		{"/debug/pause", http.StatusAccepted},
		{"/debug/launch", http.StatusNotFound},
	}
	s, ts := newServer()
	defer ts.Close()

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", nil)
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}

	var c controls
	s.Apply(&c)
	if c.skips != 1 || c.restarts != 1 || !c.paused {
		t.Fatalf("commands not applied: %+v", c)
	}
	s.Apply(&c)
	if c.skips != 1 {
		t.Fatalf("expected the queue drained")
	}
}

func TestQueueFull(t *testing.T) {
	s, ts := newServer()
	defer ts.Close()
	for i := 0; i < cap(s.cmds); i++ {
		if err := s.Enqueue(CmdSkip); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	resp, err := http.Post(ts.URL+"/debug/resume", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestMetricsFollowTheSession(t *testing.T) {
	reg := microgame.NewRegistry()
	reg.Register(&microgame.Normal{
		Info: microgame.Info{Name: "quick", Author: "test", Start: func(ctx microgame.Context) {
			ctx.Wait(0.5, func() {
				ctx.Win()
				ctx.Finish()
			})
		}},
		Input: microgame.InputKeys,
	})
	h := engine.NewHost(nil, engine.WithAudioUnlocked())
	e, err := ware.New(h, reg, ware.DefaultConfig(), ware.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	m := NewMetrics()
	m.Attach(e)
	e.Start()
	for i := 0; i < 60*8; i++ {
		h.Step(1.0/60, engine.FrameInput{})
	}

	s := NewServer(":0", m, zerolog.Nop())
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`kaplayware_rounds_total{difficulty="1",microgame="test:quick"}`,
		`kaplayware_outcomes_total{microgame="test:quick",result="won"}`,
		"kaplayware_lives 4",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics missing %q:\n%s", want, body)
		}
	}
}
