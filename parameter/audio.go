package parameter

import "time"

// Audio
const (
	// AudioSampleRate is the beep speaker sample rate
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// ClipDuration is the length of synthesized effect clips
	ClipDuration = 80 * time.Millisecond

	// ClipAttack and ClipRelease shape every clip part to avoid clicks
	ClipAttack  = 4 * time.Millisecond
	ClipRelease = 40 * time.Millisecond

	// MaxActiveClips caps concurrently mixed clips; extra requests are dropped
	MaxActiveClips = 16

	DefaultVolume = 0.6
)

// Sound categories
const (
	SoundBounce = "bounce"
	SoundBreak  = "break"
	SoundLaunch = "launch"
)

// SoundCategories lists every category the session plays
var SoundCategories = []string{SoundBounce, SoundBreak, SoundLaunch}
