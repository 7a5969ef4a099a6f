package ecs

// System advances a world by one frame of dt seconds.
type System interface {
	Update(w *World, dt float64)
}

// Scheduler runs systems in registration order. A disabled system keeps its
// slot but is skipped.
type Scheduler struct {
	systems []System
	off     map[System]bool
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{off: make(map[System]bool)}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) SetEnabled(system System, on bool) {
	if on {
		delete(s.off, system)
		return
	}
	s.off[system] = true
}

func (s *Scheduler) Update(w *World, dt float64) {
	if s == nil || w == nil || dt < 0 {
		return
	}
	for _, system := range s.systems {
		if !s.off[system] {
			system.Update(w, dt)
		}
	}
}
