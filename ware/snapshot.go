package ware

import (
	"github.com/google/uuid"

	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
)

// Snapshot is a copy of the session state, safe to hand to other goroutines.
type Snapshot struct {
	Session    string   `json:"session"`
	Score      int      `json:"score"`
	Lives      int      `json:"lives"`
	MaxLives   int      `json:"maxLives"`
	Speed      float64  `json:"speed"`
	SpeedUps   int      `json:"speedUps"`
	Difficulty int      `json:"difficulty"`
	Microgame  string   `json:"microgame,omitempty"`
	Boss       bool     `json:"boss"`
	WinState   string   `json:"winState"`
	TimeLeft   float64  `json:"timeLeft"`
	Duration   float64  `json:"duration"`
	Stage      string   `json:"stage,omitempty"`
	History    []string `json:"history"`
	Paused     bool     `json:"paused"`
	GameOver   bool     `json:"gameOver"`
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Score:      e.score,
		Lives:      e.lives,
		MaxLives:   e.cfg.Lives,
		Speed:      e.speed,
		SpeedUps:   e.speedUps,
		Difficulty: e.Difficulty(),
		Microgame:  microgame.ID(e.current),
		WinState:   e.winState.String(),
		TimeLeft:   e.timeLeft,
		Duration:   e.duration,
		History:    append([]string(nil), e.history...),
		Paused:     e.paused,
		GameOver:   e.gameOver,
	}
	if e.session != uuid.Nil {
		s.Session = e.session.String()
	}
	if e.current != nil {
		s.Boss = e.current.IsBoss()
	}
	if n, ok := e.runner.Current(); ok {
		s.Stage = string(n)
	}
	return s
}
