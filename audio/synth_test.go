package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"golang.org/x/exp/rand"
)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

// TestOscillatorRange verifies every wave stays in [-1, 1] and ends on time
func TestOscillatorRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	d := 50 * time.Millisecond

	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(440, d, wave, rate, rand.New(rand.NewSource(3)))
		samples := drain(osc)
		if len(samples) != rate.N(d) {
			t.Errorf("wave %d: got %d samples, want %d", wave, len(samples), rate.N(d))
		}
		for i, s := range samples {
			if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
				t.Fatalf("wave %d sample %d out of range: %v", wave, i, s)
			}
		}
		if osc.Err() != nil {
			t.Errorf("wave %d: unexpected error %v", wave, osc.Err())
		}
	}
}

// TestSweepRaisesPitch counts zero crossings in each half of a rising sweep
func TestSweepRaisesPitch(t *testing.T) {
	rate := beep.SampleRate(48000)
	samples := drain(NewSweep(200, 2000, 100*time.Millisecond, WaveSine, rate, nil))

	crossings := func(part [][2]float64) int {
		n := 0
		for i := 1; i < len(part); i++ {
			if (part[i-1][0] < 0) != (part[i][0] < 0) {
				n++
			}
		}
		return n
	}
	half := len(samples) / 2
	first, second := crossings(samples[:half]), crossings(samples[half:])
	if second <= first {
		t.Errorf("expected more crossings late in a rising sweep, got %d then %d", first, second)
	}
}

// TestEnvelopeShape checks silence at the edges and full level in the sustain
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 100 * time.Millisecond
	osc := NewOscillator(0, d, WaveSquare, rate, nil) // phase stays 0, constant 1.0
	samples := drain(NewEnvelope(osc, d, 10*time.Millisecond, 20*time.Millisecond, rate))

	if len(samples) != 100 {
		t.Fatalf("got %d samples, want 100", len(samples))
	}
	if samples[0][0] != 0 {
		t.Errorf("attack should start silent, got %f", samples[0][0])
	}
	if samples[50][0] != 1 {
		t.Errorf("sustain should be full level, got %f", samples[50][0])
	}
	last := samples[len(samples)-1][0]
	if last <= 0 || last > 0.1 {
		t.Errorf("release should end near silence, got %f", last)
	}
}

// TestNewVolumeZeroIsSilent guards the log2(0) case
func TestNewVolumeZeroIsSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	samples := drain(newVolume(NewOscillator(0, 10*time.Millisecond, WaveSquare, rate, nil), 0))
	for i, s := range samples {
		if s[0] != 0 || math.IsNaN(s[0]) {
			t.Fatalf("sample %d not silent: %v", i, s)
		}
	}
}
