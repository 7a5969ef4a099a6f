package microgame

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry holds every known microgame keyed by id.
type Registry struct {
	mu    sync.RWMutex
	games map[string]Microgame
}

func NewRegistry() *Registry {
	return &Registry{games: make(map[string]Microgame)}
}

var defaultRegistry = NewRegistry()

// Default is the registry bundled games add themselves to from init.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a game to the default registry.
func Register(m Microgame) {
	defaultRegistry.Register(m)
}

// Register fills optional fields and adds m. Duplicate ids and descriptors
// without a name or Start func panic.
func (r *Registry) Register(m Microgame) {
	if err := Validate(m); err != nil {
		panic(&ContractError{ID: ID(m), Err: err})
	}
	fillDefaults(m)

	r.mu.Lock()
	defer r.mu.Unlock()
	id := ID(m)
	if _, exists := r.games[id]; exists {
		panic(&ContractError{ID: id, Err: ErrDuplicateID})
	}
	r.games[id] = m
}

// Replace adds or swaps m. Hot reload uses it.
func (r *Registry) Replace(m Microgame) error {
	if err := Validate(m); err != nil {
		return err
	}
	fillDefaults(m)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[ID(m)] = m
	return nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

func (r *Registry) Find(id string) (Microgame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.games[id]
	return m, ok
}

// All returns every game sorted by id.
func (r *Registry) All() []Microgame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := lo.Keys(r.games)
	slices.Sort(ids)
	return lo.Map(ids, func(id string, _ int) Microgame { return r.games[id] })
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Validate checks the fields that have no sane default.
func Validate(m Microgame) error {
	if m == nil {
		return fmt.Errorf("%w: nil", ErrInvalid)
	}
	info := m.Meta()
	if info.Name == "" || info.Author == "" {
		return fmt.Errorf("%w: name and author are required", ErrInvalid)
	}
	if info.Start == nil {
		return fmt.Errorf("%w: %s has no start", ErrInvalid, info.ID())
	}
	return nil
}

func fillDefaults(m Microgame) {
	info := m.Meta()
	if info.RGB == nil {
		info.RGB = StaticColor{R: 255, G: 255, B: 255, A: 255}
	}
	if info.Prompt == nil {
		info.Prompt = TextPrompt("")
	}
	if info.Pack == "" {
		info.Pack = "chill"
	}
	if g, ok := m.(*Normal); ok && g.Duration == nil {
		g.Duration = Seconds(DefaultDuration)
	}
}
