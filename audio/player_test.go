package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// TestDefaultBankClips synthesizes every default clip and checks its length
func TestDefaultBankClips(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	p := NewPlayer(DefaultBank(), 1)

	for category, clips := range DefaultBank() {
		for _, c := range clips {
			s, err := c.Streamer(rate, p.rng)
			if err != nil {
				t.Fatalf("%s/%s: %v", category, c.Name, err)
			}
			samples := drain(s)
			want := 0
			for _, part := range c.Parts {
				want += rate.N(part.Duration)
			}
			if len(samples) != want {
				t.Errorf("%s/%s: got %d samples, want %d", category, c.Name, len(samples), want)
			}
			if c.Duration() <= 0 || c.Duration() > 2*parameter.ClipDuration {
				t.Errorf("%s/%s: unexpected duration %v", category, c.Name, c.Duration())
			}
		}
	}
}

func TestEmptyClipRejected(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	if _, err := (Clip{Name: "empty"}).Streamer(rate, nil); err == nil {
		t.Error("expected error for clip without parts")
	}
	bad := Clip{Name: "silent", Parts: []Part{{Duration: time.Millisecond}}}
	if _, err := bad.Streamer(rate, nil); err == nil {
		t.Error("expected error for part without tones")
	}
}

func TestPlayerValidate(t *testing.T) {
	if err := NewPlayer(DefaultBank(), 1).Validate(); err != nil {
		t.Fatalf("default bank should be complete: %v", err)
	}

	bank := DefaultBank()
	delete(bank, parameter.SoundBreak)
	err := NewPlayer(bank, 1).Validate()
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPlayUnknownCategory(t *testing.T) {
	p := NewPlayer(DefaultBank(), 1)
	if err := p.Play("whistle", 1); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if p.Active() != 0 {
		t.Errorf("nothing should be mixed, got %d", p.Active())
	}
}

// TestPlayMixesClip plays without an output device and pulls the mixer by hand
func TestPlayMixesClip(t *testing.T) {
	p := NewPlayer(DefaultBank(), 1)
	if err := p.Play(parameter.SoundBounce, 1); err != nil {
		t.Fatalf("play: %v", err)
	}
	if p.Active() != 1 {
		t.Fatalf("expected one active clip, got %d", p.Active())
	}

	buf := make([][2]float64, p.rate.N(parameter.ClipDuration))
	p.mixer.Stream(buf)
	var peak float64
	for _, s := range buf {
		peak = max(peak, s[0], -s[0])
	}
	if peak == 0 {
		t.Error("expected audible samples from the mixer")
	}

	p.mixer.Stream(buf)
	if p.Active() != 0 {
		t.Errorf("finished clip should leave the mixer, got %d", p.Active())
	}
}

func TestPlayCapsActiveClips(t *testing.T) {
	p := NewPlayer(DefaultBank(), 1)
	for range parameter.MaxActiveClips + 5 {
		if err := p.Play(parameter.SoundBreak, 1); err != nil {
			t.Fatalf("play: %v", err)
		}
	}
	if p.Active() != parameter.MaxActiveClips {
		t.Errorf("expected %d active clips, got %d", parameter.MaxActiveClips, p.Active())
	}
}

// TestPickUniform checks every clip of a category is chosen about equally often
func TestPickUniform(t *testing.T) {
	p := NewPlayer(DefaultBank(), 99)
	clips := p.bank[parameter.SoundBounce]
	counts := make(map[string]int)

	const draws = 3000
	for range draws {
		c, err := p.pick(parameter.SoundBounce)
		if err != nil {
			t.Fatal(err)
		}
		counts[c.Name]++
	}

	if len(counts) != len(clips) {
		t.Fatalf("expected all %d clips picked, got %v", len(clips), counts)
	}
	expected := draws / len(clips)
	for name, n := range counts {
		if n < expected*3/4 || n > expected*5/4 {
			t.Errorf("clip %s picked %d times, expected about %d", name, n, expected)
		}
	}
}

func TestServiceDisabledDoesNotContribute(t *testing.T) {
	cfg := configWithAudio(false)
	svc := NewService()
	if err := svc.Init(&cfg, quietLogger()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	published := 0
	svc.Contribute(func(any) { published++ })
	if published != 0 {
		t.Errorf("disabled audio should not publish, got %d", published)
	}
	if svc.Player() == nil {
		t.Error("player should exist after init")
	}
}
