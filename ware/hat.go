package ware

import (
	"math/rand"
	"slices"

	"github.com/samber/lo"

	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
)

// Hat draws microgames without putting the same one back too soon. Regular
// and boss games are drawn from separate pools that refill when empty.
type Hat struct {
	rng     *rand.Rand
	regular []microgame.Microgame
	boss    []microgame.Microgame
	pools   map[bool][]string
	byID    map[string]microgame.Microgame
}

func NewHat(games []microgame.Microgame, rng *rand.Rand) *Hat {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	h := &Hat{
		rng:   rng,
		pools: make(map[bool][]string),
		byID:  make(map[string]microgame.Microgame),
	}
	for _, m := range games {
		h.byID[microgame.ID(m)] = m
		if m.IsBoss() {
			h.boss = append(h.boss, m)
		} else {
			h.regular = append(h.regular, m)
		}
	}
	return h
}

func (h *Hat) HasBoss() bool {
	return len(h.boss) > 0
}

func (h *Hat) Len() int {
	return len(h.byID)
}

func (h *Hat) candidates(boss bool) []string {
	games := h.regular
	if boss && len(h.boss) > 0 {
		games = h.boss
	} else if len(h.regular) == 0 {
		games = h.boss
	}
	return lo.Map(games, func(m microgame.Microgame, _ int) string { return microgame.ID(m) })
}

// Draw picks the next game. The last two entries of history are excluded
// while anything else is eligible; when nothing is, the pool is refilled and
// then the exclusion is relaxed step by step.
func (h *Hat) Draw(boss bool, history []string) microgame.Microgame {
	all := h.candidates(boss)
	if len(all) == 0 {
		return nil
	}
	key := boss && len(h.boss) > 0
	pool := h.pools[key]
	if len(pool) == 0 {
		pool = slices.Clone(all)
	}

	recent := lastN(history, 2)
	eligible := lo.Filter(pool, func(id string, _ int) bool { return !lo.Contains(recent, id) })
	if len(eligible) == 0 {
		pool = slices.Clone(all)
		eligible = lo.Filter(pool, func(id string, _ int) bool { return !lo.Contains(recent, id) })
	}
	if len(eligible) == 0 {
		last := lastN(history, 1)
		eligible = lo.Filter(pool, func(id string, _ int) bool { return !lo.Contains(last, id) })
	}
	if len(eligible) == 0 {
		eligible = pool
	}

	id := eligible[h.rng.Intn(len(eligible))]
	h.pools[key] = lo.Without(pool, id)
	return h.byID[id]
}

func lastN(history []string, n int) []string {
	if len(history) < n {
		return history
	}
	return history[len(history)-n:]
}
