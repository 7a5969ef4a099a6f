package main

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

func games() []microgame.Microgame {
	start := func(microgame.Context) {}
	return []microgame.Microgame{
		&microgame.Normal{Info: microgame.Info{Name: "a", Author: "sim", Start: start}, Input: microgame.InputKeys},
		&microgame.Normal{Info: microgame.Info{Name: "b", Author: "sim", Start: start}, Input: microgame.InputMouse},
		&microgame.Normal{Info: microgame.Info{Name: "c", Author: "sim", Start: start}, Input: microgame.InputKeys},
		&microgame.Boss{Info: microgame.Info{Name: "boss", Author: "sim", Start: start}},
	}
}

func TestPolicyByName(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name string
		want []bool
	}{
		{"win", []bool{true, true, true}},
		{"lose", []bool{false, false, false}},
		{"alternate", []bool{true, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := policyByName(tt.name, 0.5, rng)
			if err != nil {
				t.Fatalf("policy: %v", err)
			}
			for i, want := range tt.want {
				if got := p(i+1, "sim:a"); got != want {
					t.Fatalf("round %d: expected %v", i+1, want)
				}
			}
		})
	}
	if _, err := policyByName("cheat", 0.5, rng); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestSimulateWinningRun(t *testing.T) {
	p, _ := policyByName("win", 0, nil)
	rep, err := Simulate(games(), ware.DefaultConfig(), 12, 4, p)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(rep.Rounds) != 12 || rep.GameOver || rep.Lives != 4 {
		t.Fatalf("unexpected report: %d rounds, game over %v, lives %d", len(rep.Rounds), rep.GameOver, rep.Lives)
	}
	for i, rd := range rep.Rounds {
		if rd.Score != i+1 || !rd.Won {
			t.Fatalf("round %d: %+v", i+1, rd)
		}
		if rd.Boss != (rd.Score == 10) {
			t.Fatalf("round %d: unexpected boss flag", rd.Score)
		}
		if i > 0 && rd.Speed < rep.Rounds[i-1].Speed {
			t.Fatalf("speed went down at round %d", rd.Score)
		}
	}
	if got := rep.Rounds[0].Stages; len(got) != 1 || got[0] != "prep" {
		t.Fatalf("expected the first round to only prep, got %v", got)
	}
}

func TestSimulateLosingRunEndsTheSession(t *testing.T) {
	p, _ := policyByName("lose", 0, nil)
	rep, err := Simulate(games(), ware.DefaultConfig(), 20, 4, p)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !rep.GameOver || len(rep.Rounds) != 4 || rep.Lives != 0 {
		t.Fatalf("expected game over after 4 rounds, got %d rounds, lives %d", len(rep.Rounds), rep.Lives)
	}

	var buf bytes.Buffer
	if err := rep.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "game over true") || strings.Count(buf.String(), "lost") != 4 {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}
