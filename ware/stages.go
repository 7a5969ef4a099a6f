package ware

import (
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/transition"
)

// ComputeStages builds the transition for the coming round. It opens with the
// previous round's outcome when there was one and always ends in prep or
// gameOver.
func ComputeStages(win microgame.WinState, wasBoss, speedUp, boss, gameOver bool) []transition.Name {
	var stages []transition.Name
	switch win {
	case microgame.Won:
		stages = append(stages, pickStage(wasBoss, transition.BossWin, transition.Win))
	case microgame.Lost:
		stages = append(stages, pickStage(wasBoss, transition.BossLose, transition.Lose))
	}
	if gameOver {
		return append(stages, transition.GameOver)
	}
	if speedUp {
		stages = append(stages, transition.Speed)
	}
	if boss {
		stages = append(stages, transition.BossPrep)
	}
	return append(stages, transition.Prep)
}

func pickStage(cond bool, a, b transition.Name) transition.Name {
	if cond {
		return a
	}
	return b
}

// Difficulty cycles 1, 2, 3 every ten rounds.
func Difficulty(score int) int {
	return max(1, (score/10+1)%4)
}
