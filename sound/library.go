package sound

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
	"github.com/itzKiwiSky/KAPLAYware-sub000/bomb"
	"github.com/itzKiwiSky/KAPLAYware-sub000/microgame"
	"github.com/itzKiwiSky/KAPLAYware-sub000/transition"
)

// BPM is the tempo the jingles are written in.
const BPM = 140

func n(semis int, beats float64) Note {
	return Note{Freq: Hz(semis), Beats: beats}
}

func rest(beats float64) Note {
	return Note{Beats: beats}
}

var jingles = map[transition.Name]func() beep.Streamer{
	transition.Prep: func() beep.Streamer {
		return Melody(Square, BPM, n(3, 1), n(3, 1), n(3, 1), n(15, 0.5))
	},
	transition.Win: func() beep.Streamer {
		return Melody(Square, BPM, n(3, 0.5), n(7, 0.5), n(10, 0.5), n(15, 2.25))
	},
	transition.Lose: func() beep.Streamer {
		return Melody(Saw, BPM, n(-2, 0.5), n(-3, 0.5), n(-4, 0.5), n(-5, 2.25))
	},
	transition.Speed: func() beep.Streamer {
		return Melody(Square, BPM, n(3, 0.5), n(5, 0.5), n(7, 0.5), n(8, 0.5), n(10, 0.5), n(12, 0.5),
			n(14, 0.5), n(15, 0.5), n(15, 1.25))
	},
	transition.BossPrep: func() beep.Streamer {
		return Melody(Saw, BPM, n(-9, 1), n(-9, 1), n(-8, 1), n(-9, 1), n(-21, 1.5))
	},
	transition.BossWin: func() beep.Streamer {
		return Melody(Square, BPM, n(3, 0.5), n(7, 0.5), n(10, 0.5), n(15, 0.5), rest(0.5), n(10, 0.5), n(15, 2.5))
	},
	transition.BossLose: func() beep.Streamer {
		return Melody(Saw, BPM, n(-2, 1), n(-5, 1), n(-9, 1), n(-14, 2.5))
	},
	transition.GameOver: func() beep.Streamer {
		return Melody(Sine, BPM, n(-2, 1), n(-5, 1), n(-9, 1), rest(0.5), n(-10, 1), n(-14, 3.5))
	},
}

// Jingle synthesizes the stinger that gates stage name.
func Jingle(name transition.Name) (*Clip, error) {
	gen, ok := jingles[name]
	if !ok {
		return nil, fmt.Errorf("sound: no jingle for %q", name)
	}
	return NewClip(gen(), Format)
}

func tick() beep.Streamer {
	d := 60 * time.Millisecond
	return Gain(Envelope(Osc(Square, Hz(15), d, nil), d, time.Millisecond, d/2), 0.6)
}

func explosion(rng *rand.Rand) beep.Streamer {
	d := 700 * time.Millisecond
	boom := Envelope(Osc(Sine, 55, d, nil), d, 2*time.Millisecond, d*2/3)
	crack := Envelope(Osc(Noise, 0, d, rng), d, time.Millisecond, d*5/6)
	return beep.Mix(Gain(boom, 0.8), Gain(crack, 0.5))
}

func confetti(rng *rand.Rand) beep.Streamer {
	d := 300 * time.Millisecond
	pop := Envelope(Osc(Noise, 0, 40*time.Millisecond, rng), 40*time.Millisecond, time.Millisecond, 30*time.Millisecond)
	chime := Envelope(Osc(Sine, Hz(19), d, nil), d, 5*time.Millisecond, d/2)
	return beep.Seq(Gain(pop, 0.5), Gain(chime, 0.4))
}

// Register synthesizes every shared sound into r.
func Register(r *asset.Registry, log zerolog.Logger) error {
	for _, name := range transition.Names {
		c, err := Jingle(name)
		if err != nil {
			return err
		}
		r.AddSound(transition.JingleKey(name), c)
	}

	rng := rand.New(rand.NewSource(42))
	fx := map[asset.Key]beep.Streamer{
		bomb.TickSound:          tick(),
		bomb.ExplosionSound:     explosion(rng),
		microgame.ConfettiSound: confetti(rng),
	}
	for k, s := range fx {
		c, err := NewClip(s, Format)
		if err != nil {
			return fmt.Errorf("sound: synth %s: %w", k, err)
		}
		r.AddSound(k, c)
	}
	log.Debug().Int("sounds", len(transition.Names)+len(fx)).Msg("synthesized shared sounds")
	return nil
}
