// Package script runs third-party microgames written in tengo. A script
// declares a `game` map of phase functions; each phase receives an engine map
// holding only the current round's capabilities, a state map that survives
// between phases, and the phase argument.
package script

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const (
	PhaseStart   = "start"
	PhaseUpdate  = "update"
	PhaseTimeout = "timeout"
	PhaseKey     = "key"
	PhaseClick   = "click"
)

var phases = []string{PhaseStart, PhaseUpdate, PhaseTimeout, PhaseKey, PhaseClick}

const lifecycleDispatch = `
__h := is_map(game) ? game[__phase] : undefined
if is_callable(__h) {
	if __argc == 3 {
		__h(__engine, __state, __arg)
	} else {
		__h(__engine, __state)
	}
}
`

// Modules scripts may import. There is no os.
var Modules = []string{"math", "text", "times", "rand", "fmt", "json", "enum"}

const (
	maxAllocs   = 200_000
	phaseBudget = 50 * time.Millisecond
)

var (
	ErrNoGame  = errors.New("script: 'game' must be a map")
	ErrNoStart = errors.New("script: game.start is required")
)

// Program is a compiled script. Rounds run clones of it.
type Program struct {
	Name     string
	compiled *tengo.Compiled
	arity    map[string]int
}

func Compile(name string, src []byte) (*Program, error) {
	s := tengo.NewScript(append(slices.Clone(src), []byte("\n"+lifecycleDispatch)...))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__arg", nil)
	_ = s.Add("__argc", 0)
	s.SetImports(stdlib.GetModuleMap(Modules...))
	s.SetMaxAllocs(maxAllocs)

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	// A noop run evaluates the top level so `game` can be inspected.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("script: run %s: %w", name, err)
	}
	game, ok := compiled.Get("game").Object().(*tengo.Map)
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrNoGame, name)
	}
	arity := make(map[string]int)
	for _, p := range phases {
		fn, ok := game.Value[p].(*tengo.CompiledFunction)
		if !ok {
			continue
		}
		if fn.NumParameters < 2 || fn.NumParameters > 3 {
			return nil, fmt.Errorf("script: %s: game.%s must take (engine, state) or (engine, state, arg)", name, p)
		}
		arity[p] = fn.NumParameters
	}
	if _, ok := arity[PhaseStart]; !ok {
		return nil, fmt.Errorf("%w (%s)", ErrNoStart, name)
	}

	return &Program{
		Name:     name,
		compiled: compiled,
		arity:    arity,
	}, nil
}

// Has reports whether the script handles phase.
func (p *Program) Has(phase string) bool {
	_, ok := p.arity[phase]
	return ok
}
