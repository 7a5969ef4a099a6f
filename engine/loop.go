package engine

type updateEntry struct {
	h  *handle
	fn func()
}

type drawEntry struct {
	h  *handle
	fn func(Canvas)
}

// Loop runs update handlers in registration order once per frame, then draw
// handlers once per rendered frame. Handlers registered during a frame start
// on the next one.
type Loop struct {
	time    float64
	dt      float64
	frame   uint64
	updates []updateEntry
	draws   []drawEntry
}

func NewLoop() *Loop {
	return &Loop{}
}

func (l *Loop) Time() float64 {
	return l.time
}

func (l *Loop) DT() float64 {
	return l.dt
}

func (l *Loop) Frame() uint64 {
	return l.frame
}

func (l *Loop) OnUpdate(fn func()) *EventHandle {
	ev := &EventHandle{}
	l.addUpdate(&ev.handle, fn)
	return ev
}

func (l *Loop) OnDraw(fn func(Canvas)) *EventHandle {
	ev := &EventHandle{}
	if fn != nil {
		l.draws = append(l.draws, drawEntry{h: &ev.handle, fn: fn})
	}
	return ev
}

func (l *Loop) addUpdate(h *handle, fn func()) {
	if fn == nil {
		return
	}
	l.updates = append(l.updates, updateEntry{h: h, fn: fn})
}

// Len reports the number of live update and draw handlers.
func (l *Loop) Len() (updates, draws int) {
	for _, e := range l.updates {
		if !e.h.canceled {
			updates++
		}
	}
	for _, e := range l.draws {
		if !e.h.canceled {
			draws++
		}
	}
	return updates, draws
}

func (l *Loop) tick(dt float64) {
	l.dt = dt
	l.time += dt
	l.frame++

	n := len(l.updates)
	for i := 0; i < n; i++ {
		if e := l.updates[i]; e.h.active() {
			e.fn()
		}
	}

	live := l.updates[:0]
	for _, e := range l.updates {
		if !e.h.canceled {
			live = append(live, e)
		}
	}
	clear(l.updates[len(live):])
	l.updates = live
}

func (l *Loop) draw(c Canvas) {
	n := len(l.draws)
	for i := 0; i < n; i++ {
		if e := l.draws[i]; e.h.active() {
			e.fn(c)
		}
	}

	live := l.draws[:0]
	for _, e := range l.draws {
		if !e.h.canceled {
			live = append(live, e)
		}
	}
	clear(l.draws[len(live):])
	l.draws = live
}
