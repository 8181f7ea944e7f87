package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/parameter"
)

// Tone is one voice of a clip part
type Tone struct {
	Freq    float64
	EndFreq float64 // 0 keeps Freq for the whole part
	Wave    WaveType
	Gain    float64
}

// Part is a set of tones mixed together for Duration
type Part struct {
	Tones    []Tone
	Duration time.Duration
}

// Clip is a sequence of parts played back to back
type Clip struct {
	Name  string
	Parts []Part
}

// Duration is the total playback length of the clip
func (c Clip) Duration() time.Duration {
	var d time.Duration
	for _, p := range c.Parts {
		d += p.Duration
	}
	return d
}

// Streamer synthesizes the clip at rate
func (c Clip) Streamer(rate beep.SampleRate, rng *rand.Rand) (beep.Streamer, error) {
	if len(c.Parts) == 0 {
		return nil, fmt.Errorf("clip %q: no parts", c.Name)
	}

	parts := make([]beep.Streamer, 0, len(c.Parts))
	for i, p := range c.Parts {
		if len(p.Tones) == 0 || p.Duration <= 0 {
			return nil, fmt.Errorf("clip %q part %d: empty", c.Name, i)
		}
		voices := make([]beep.Streamer, 0, len(p.Tones))
		for _, t := range p.Tones {
			v, err := t.streamer(p.Duration, rate, rng)
			if err != nil {
				return nil, fmt.Errorf("clip %q part %d: %w", c.Name, i, err)
			}
			voices = append(voices, v)
		}
		shaped := NewEnvelope(beep.Mix(voices...), p.Duration, parameter.ClipAttack, parameter.ClipRelease, rate)
		parts = append(parts, shaped)
	}
	return beep.Seq(parts...), nil
}

func (t Tone) streamer(d time.Duration, rate beep.SampleRate, rng *rand.Rand) (beep.Streamer, error) {
	gain := t.Gain
	if gain == 0 {
		gain = 1
	}

	// Steady sines come straight from the beep generator
	if t.Wave == WaveSine && (t.EndFreq == 0 || t.EndFreq == t.Freq) {
		tone, err := generators.SineTone(rate, t.Freq)
		if err != nil {
			return nil, err
		}
		return newVolume(beep.Take(rate.N(d), tone), gain), nil
	}

	end := t.EndFreq
	if end == 0 {
		end = t.Freq
	}
	return newVolume(NewSweep(t.Freq, end, d, t.Wave, rate, rng), gain), nil
}

// Bank maps a sound category to its interchangeable clips
type Bank map[string][]Clip

// Validate fails when any of the categories has no clips
func (b Bank) Validate(categories ...string) error {
	for _, c := range categories {
		if len(b[c]) == 0 {
			return fmt.Errorf("sound category %q has no clips", c)
		}
	}
	return nil
}

// DefaultBank is the synthesized clip set for bounce, break and launch
func DefaultBank() Bank {
	d := parameter.ClipDuration
	return Bank{
		parameter.SoundBounce: {
			{Name: "bounce-a5", Parts: []Part{{Tones: []Tone{{Freq: 880}}, Duration: d / 2}}},
			{Name: "bounce-b5", Parts: []Part{{Tones: []Tone{{Freq: 987.77}}, Duration: d / 2}}},
			{Name: "bounce-e5", Parts: []Part{{Tones: []Tone{{Freq: 659.25}}, Duration: d / 2}}},
		},
		parameter.SoundBreak: {
			{Name: "break-crunch", Parts: []Part{{
				Tones:    []Tone{{Wave: WaveNoise, Gain: 0.6}, {Freq: 220, EndFreq: 110, Wave: WaveSquare, Gain: 0.4}},
				Duration: d,
			}}},
			{Name: "break-shatter", Parts: []Part{{
				Tones:    []Tone{{Wave: WaveNoise, Gain: 0.5}, {Freq: 440, EndFreq: 180, Wave: WaveSaw, Gain: 0.5}},
				Duration: d,
			}}},
		},
		parameter.SoundLaunch: {
			{Name: "launch-rise", Parts: []Part{
				{Tones: []Tone{{Freq: 523.25, Wave: WaveSquare, Gain: 0.5}}, Duration: d / 2},
				{Tones: []Tone{{Freq: 783.99, Wave: WaveSquare, Gain: 0.5}}, Duration: d},
			}},
			{Name: "launch-zip", Parts: []Part{
				{Tones: []Tone{{Freq: 300, EndFreq: 1200, Wave: WaveSaw, Gain: 0.5}}, Duration: d},
			}},
		},
	}
}
