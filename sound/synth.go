package sound

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

type oscillator struct {
	freq  float64
	phase float64
	left  int
	wave  Wave
	rng   *rand.Rand
}

// Osc streams a single tone for d. Noise ignores freq.
func Osc(wave Wave, freq float64, d time.Duration, rng *rand.Rand) beep.Streamer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &oscillator{freq: freq, left: SampleRate.N(d), wave: wave, rng: rng}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.left <= 0 {
		return 0, false
	}
	n := min(len(samples), o.left)
	for i := 0; i < n; i++ {
		var v float64
		switch o.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * o.phase)
		case Square:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case Saw:
			v = 2 * (o.phase - 0.5)
		case Noise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i] = [2]float64{v, v}
		o.phase += o.freq / float64(SampleRate)
		o.phase -= math.Floor(o.phase)
	}
	o.left -= n
	return n, true
}

func (o *oscillator) Err() error { return nil }

type envelope struct {
	s                    beep.Streamer
	pos, attack, release int
	total                int
}

// Envelope ramps s in over attack and out over the last release of d.
func Envelope(s beep.Streamer, d, attack, release time.Duration) beep.Streamer {
	return &envelope{s: s, attack: SampleRate.N(attack), release: SampleRate.N(release), total: SampleRate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; left < e.release {
			vol = math.Max(0, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// Gain scales s linearly; 0 is silence.
func Gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}

// Note is one step of a melody. Freq 0 is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

// Melody plays notes back to back at bpm with a short pluck envelope.
func Melody(wave Wave, bpm float64, notes ...Note) beep.Streamer {
	beat := time.Duration(float64(time.Minute) / bpm)
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		d := time.Duration(n.Beats * float64(beat))
		if n.Freq <= 0 {
			parts = append(parts, beep.Silence(SampleRate.N(d)))
			continue
		}
		parts = append(parts, Envelope(Osc(wave, n.Freq, d, nil), d, 5*time.Millisecond, d/3))
	}
	return beep.Seq(parts...)
}

// Hz of a note n semitones away from A4.
func Hz(n int) float64 {
	return 440 * math.Pow(2, float64(n)/12)
}
