package engine

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Easing maps normalized time to normalized progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func InQuad(t float64) float64 { return t * t }

func OutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func OutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

func OutElastic(t float64) float64 {
	const c4 = (2 * math.Pi) / 3
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

// Tween interpolates a value over time, calling set every frame.
type Tween struct {
	handle
	loop     *Loop
	from, to float64
	duration float64
	elapsed  float64
	set      func(float64)
	ease     Easing
	onEnd    []func()
	done     bool
}

func (l *Loop) Tween(from, to, duration float64, set func(float64), ease Easing) *Tween {
	if ease == nil {
		ease = Linear
	}
	tw := &Tween{loop: l, from: from, to: to, duration: duration, set: set, ease: ease}
	l.addUpdate(&tw.handle, tw.update)
	return tw
}

// TweenVec interpolates a vector.
func (l *Loop) TweenVec(from, to cp.Vector, duration float64, set func(cp.Vector), ease Easing) *Tween {
	return l.Tween(0, 1, duration, func(t float64) {
		if set != nil {
			set(from.Lerp(to, t))
		}
	}, ease)
}

func (tw *Tween) update() {
	tw.elapsed += tw.loop.dt
	if tw.duration <= 0 || tw.elapsed >= tw.duration {
		tw.Finish()
		return
	}
	tw.apply(tw.ease(tw.elapsed / tw.duration))
}

func (tw *Tween) apply(p float64) {
	if tw.set != nil {
		tw.set(tw.from + (tw.to-tw.from)*p)
	}
}

// Finish jumps to the end value and fires OnEnd.
func (tw *Tween) Finish() {
	if tw.done || tw.canceled {
		return
	}
	tw.done = true
	tw.apply(1)
	tw.Cancel()
	for _, fn := range tw.onEnd {
		fn()
	}
}

func (tw *Tween) OnEnd(fn func()) *Tween {
	if fn != nil {
		tw.onEnd = append(tw.onEnd, fn)
	}
	return tw
}

func (tw *Tween) Done() bool {
	return tw.done
}
