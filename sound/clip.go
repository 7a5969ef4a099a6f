// Package sound turns beep streams into in-memory clips: synthesized stingers
// for the shared sounds and decoded wav/ogg files for microgames.
package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/itzKiwiSky/KAPLAYware-sub000/asset"
)

const SampleRate beep.SampleRate = 44100

var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

var ErrUnsupported = errors.New("sound: unsupported format")

// Clip is stereo audio buffered at SampleRate. It implements asset.Sound.
type Clip struct {
	buf *beep.Buffer
}

// NewClip drains s, resampling from format's rate when it differs.
func NewClip(s beep.Streamer, format beep.Format) (*Clip, error) {
	if format.SampleRate != SampleRate && format.SampleRate > 0 {
		s = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	buf := beep.NewBuffer(Format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("sound: read stream: %w", err)
	}
	return &Clip{buf: buf}, nil
}

func (c *Clip) Duration() float64 {
	return SampleRate.D(c.buf.Len()).Seconds()
}

func (c *Clip) Len() int {
	return c.buf.Len()
}

// Streamer starts a fresh reader over the clip.
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// PCM renders the clip played at speed as signed 16-bit little-endian
// stereo.
func (c *Clip) PCM(speed float64) []byte {
	var s beep.Streamer = c.Streamer()
	if speed > 0 && speed != 1 {
		s = beep.ResampleRatio(4, speed, s)
	}

	var out bytes.Buffer
	out.Grow(int(float64(c.buf.Len())/math.Max(speed, 0.01)) * 4)
	chunk := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(chunk)
		for _, smp := range chunk[:n] {
			for _, v := range smp {
				i := int16(math.Max(-1, math.Min(1, v)) * math.MaxInt16)
				out.WriteByte(byte(i))
				out.WriteByte(byte(i >> 8))
			}
		}
		if !ok {
			break
		}
	}
	return out.Bytes()
}

// Decode reads a wav or ogg file by extension. It has the shape of
// microgame.SoundDecoder.
func Decode(r io.Reader, ext string) (asset.Sound, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav":
		s, format, err = wav.Decode(r)
	case "ogg":
		s, format, err = vorbis.Decode(io.NopCloser(r))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("sound: decode %s: %w", ext, err)
	}
	defer s.Close()
	c, err := NewClip(s, format)
	if err != nil {
		return nil, err
	}
	return c, nil
}
