package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"golang.org/x/exp/rand"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// waveforms map a phase in [0, 1) to a sample in [-1, 1]
var waveforms = [...]func(phase float64, rng *rand.Rand) float64{
	WaveSine: func(p float64, _ *rand.Rand) float64 { return math.Sin(2 * math.Pi * p) },
	WaveSquare: func(p float64, _ *rand.Rand) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	},
	WaveSaw:   func(p float64, _ *rand.Rand) float64 { return 2*p - 1 },
	WaveNoise: func(_ float64, rng *rand.Rand) float64 { return rng.Float64()*2 - 1 },
}

// NewOscillator creates a fixed pitch tone
func NewOscillator(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	return NewSweep(freq, freq, d, wave, rate, rng)
}

// NewSweep glides linearly from freq to endFreq over d
// rng feeds WaveNoise and may be nil for tonal waves
func NewSweep(freq, endFreq float64, d time.Duration, wave WaveType, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	if wave == WaveNoise && rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	sample := waveforms[wave]
	total := rate.N(d)
	step := 1 / float64(rate)
	pos, phase := 0, 0.0

	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		for i := range buf {
			if pos >= total {
				return i, i > 0
			}
			v := sample(phase, rng)
			buf[i] = [2]float64{v, v}

			f := freq + (endFreq-freq)*float64(pos)/float64(total)
			_, phase = math.Modf(phase + f*step)
			pos++
		}
		return len(buf), true
	})
}

// NewEnvelope gates s to d, ramping up over attack and down over release
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total, att, rel := rate.N(d), rate.N(attack), rate.N(release)
	gain := func(pos int) float64 {
		switch {
		case att > 0 && pos < att:
			return float64(pos) / float64(att)
		case rel > 0 && pos >= total-rel:
			return max(float64(total-pos)/float64(rel), 0)
		}
		return 1
	}

	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		if left := total - pos; len(buf) > left {
			buf = buf[:left]
		}
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			g := gain(pos)
			buf[i][0] *= g
			buf[i][1] *= g
			pos++
		}
		return n, ok || n > 0
	})
}

// newVolume scales a stream linearly; math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
