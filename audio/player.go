// Package audio synthesizes and mixes the session's sound effects with beep.
package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"golang.org/x/exp/rand"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// Player implements engine.SoundPlayer over a beep mixer
// Clips are picked uniformly at random within a category and synthesized on demand
type Player struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	bank   Bank
	rng    *rand.Rand
	mixer  *beep.Mixer
	master float64

	// speakerOwned is set once the mixer is attached to the output device
	speakerOwned bool
}

// NewPlayer creates a player over bank; seed drives clip selection and noise
func NewPlayer(bank Bank, seed uint64) *Player {
	return &Player{
		rate:   beep.SampleRate(parameter.AudioSampleRate),
		bank:   bank,
		rng:    rand.New(rand.NewSource(seed)),
		mixer:  &beep.Mixer{},
		master: 1,
	}
}

// Start opens the output device and attaches the mixer
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.speakerOwned {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.speakerOwned = true
	return nil
}

// Close releases the output device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.speakerOwned {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.speakerOwned = false
}

// SetMasterVolume scales every clip, clamped to [0, 1]
func (p *Player) SetMasterVolume(v float64) {
	p.mu.Lock()
	p.master = min(max(v, 0), 1)
	p.mu.Unlock()
}

// Validate fails when a session category has no clips
func (p *Player) Validate() error {
	if err := p.bank.Validate(parameter.SoundCategories...); err != nil {
		return core.Wrap(core.CodeConfiguration, "audio bank", err)
	}
	return nil
}

// Play implements engine.SoundPlayer
func (p *Player) Play(category string, volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	clip, err := p.pick(category)
	if err != nil {
		return err
	}
	if p.active() >= parameter.MaxActiveClips {
		return nil
	}

	s, err := clip.Streamer(p.rate, p.rng)
	if err != nil {
		return err
	}
	p.add(newVolume(s, volume*p.master))
	return nil
}

// Active returns the number of clips currently in the mixer
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active()
}

// pick selects a clip of category uniformly at random
// Caller holds mu
func (p *Player) pick(category string) (Clip, error) {
	clips := p.bank[category]
	if len(clips) == 0 {
		return Clip{}, fmt.Errorf("unknown sound category %q", category)
	}
	return clips[p.rng.Intn(len(clips))], nil
}

func (p *Player) active() int {
	if p.speakerOwned {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}

func (p *Player) add(s beep.Streamer) {
	if p.speakerOwned {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.mixer.Add(s)
}
