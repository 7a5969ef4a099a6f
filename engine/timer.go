package engine

// Timer fires an action after a delay, optionally repeating.
type Timer struct {
	handle
	loop     *Loop
	interval float64
	elapsed  float64
	repeat   int // 0 = forever, otherwise total number of firings
	fired    int
	action   func()
	onEnd    []func()
	done     bool
}

// Wait fires fn once after sec seconds.
func (l *Loop) Wait(sec float64, fn func()) *Timer {
	return l.newTimer(sec, fn, 1)
}

// Every fires fn every sec seconds, count times (0 = until canceled).
func (l *Loop) Every(sec float64, fn func(), count int) *Timer {
	if count < 0 {
		count = 0
	}
	return l.newTimer(sec, fn, count)
}

func (l *Loop) newTimer(sec float64, fn func(), repeat int) *Timer {
	if sec < 0 {
		sec = 0
	}
	t := &Timer{loop: l, interval: sec, repeat: repeat, action: fn}
	l.addUpdate(&t.handle, t.update)
	return t
}

func (t *Timer) update() {
	t.elapsed += t.loop.dt
	for !t.done && t.elapsed >= t.interval {
		t.elapsed -= t.interval
		t.fired++
		if t.action != nil {
			t.action()
		}
		if t.canceled {
			return
		}
		if t.repeat > 0 && t.fired >= t.repeat {
			t.end()
			return
		}
		if t.interval <= 0 {
			return
		}
	}
}

func (t *Timer) end() {
	t.done = true
	t.Cancel()
	for _, fn := range t.onEnd {
		fn()
	}
}

// OnEnd runs fn when the timer completes on its own; canceling skips it.
func (t *Timer) OnEnd(fn func()) *Timer {
	if fn != nil {
		t.onEnd = append(t.onEnd, fn)
	}
	return t
}

func (t *Timer) Done() bool {
	return t.done
}

// Elapsed is the time accumulated toward the next firing.
func (t *Timer) Elapsed() float64 {
	return t.elapsed
}
