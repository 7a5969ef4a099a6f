package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/transition"
	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

const (
	frame = 1.0 / 60
	// decideAfter is how long a stand-in game plays before deciding.
	decideAfter = 0.3
)

// Policy decides whether the player wins round n.
type Policy func(n int, id string) bool

var ErrUnknownPolicy = errors.New("hatsim: unknown policy")

func policyByName(name string, winRate float64, rng *rand.Rand) (Policy, error) {
	switch name {
	case "win":
		return func(int, string) bool { return true }, nil
	case "lose":
		return func(int, string) bool { return false }, nil
	case "alternate":
		return func(n int, _ string) bool { return n%2 == 1 }, nil
	case "random":
		return func(int, string) bool { return rng.Float64() < winRate }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

type Round struct {
	Score      int      `json:"score"`
	Microgame  string   `json:"microgame"`
	Boss       bool     `json:"boss"`
	Difficulty int      `json:"difficulty"`
	Speed      float64  `json:"speed"`
	Duration   float64  `json:"duration"`
	Stages     []string `json:"stages"`
	Won        bool     `json:"won"`
}

type Report struct {
	Session  string  `json:"session"`
	Rounds   []Round `json:"rounds"`
	GameOver bool    `json:"gameOver"`
	Lives    int     `json:"lives"`
	SpeedUps int     `json:"speedUps"`
}

// standIn copies m's descriptor with a Start that decides through policy.
func standIn(m microgame.Microgame, policy Policy, round func() int) microgame.Microgame {
	info := *m.Meta()
	info.Load = nil
	id := info.ID()
	info.Start = func(ctx microgame.Context) {
		ctx.Wait(decideAfter, func() {
			if policy(round(), id) {
				ctx.Win()
			} else {
				ctx.Lose()
			}
			ctx.Finish()
		})
	}
	switch g := m.(type) {
	case *microgame.Boss:
		return &microgame.Boss{Info: info, HideMouse: g.HideMouse}
	case *microgame.Normal:
		return &microgame.Normal{Info: info, Input: g.Input, Duration: g.Duration}
	}
	return nil
}

// Simulate plays up to rounds rounds headless, or until the session ends.
func Simulate(games []microgame.Microgame, cfg ware.Config, rounds int, seed int64, policy Policy) (Report, error) {
	var rep Report
	reg := microgame.NewRegistry()
	current := func() int { return len(rep.Rounds) }
	for _, m := range games {
		if s := standIn(m, policy, current); s != nil {
			reg.Register(s)
		}
	}

	h := engine.NewHost(nil, engine.WithAudioUnlocked())
	e, err := ware.New(h, reg, cfg, ware.WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		return Report{}, err
	}
	e.OnRound(func(r ware.RoundInfo) {
		rep.Rounds = append(rep.Rounds, Round{
			Score:      r.Score,
			Microgame:  r.Microgame,
			Boss:       r.Boss,
			Difficulty: r.Difficulty,
			Speed:      r.Speed,
			Duration:   r.Duration,
			Stages:     lo.Map(e.Stages(), func(n transition.Name, _ int) string { return string(n) }),
		})
	})
	e.OnOutcome(func(_ string, won bool) {
		if n := len(rep.Rounds); n > 0 {
			rep.Rounds[n-1].Won = won
		}
	})
	e.Start()
	rep.Session = e.Snapshot().Session

	// Generous cap: no round outlasts a minute of frames.
	limit := (rounds + 1) * 60 * 60
	for i := 0; i < limit && !e.GameOver(); i++ {
		if len(rep.Rounds) > rounds {
			rep.Rounds = rep.Rounds[:rounds]
			break
		}
		h.Step(frame, engine.FrameInput{})
	}
	rep.GameOver = e.GameOver()
	rep.Lives = e.Lives()
	rep.SpeedUps = e.Snapshot().SpeedUps
	return rep, nil
}

func (r Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUND\tMICROGAME\tBOSS\tDIFF\tSPEED\tTIME\tSTAGES\tRESULT")
	for _, rd := range r.Rounds {
		result := "lost"
		if rd.Won {
			result = "won"
		}
		fmt.Fprintf(tw, "%d\t%s\t%v\t%d\t%.3f\t%.2f\t%s\t%s\n",
			rd.Score, rd.Microgame, rd.Boss, rd.Difficulty, rd.Speed, rd.Duration, strings.Join(rd.Stages, ","), result)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "session %s: %d rounds, %d lives left, %d speed-ups, game over %v\n",
		r.Session, len(r.Rounds), r.Lives, r.SpeedUps, r.GameOver)
	return err
}
