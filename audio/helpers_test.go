package audio

import (
	"io"
	"log/slog"

	"github.com/lixenwraith/breakout/config"
)

func configWithAudio(enabled bool) config.Config {
	cfg := config.Default()
	cfg.AudioEnabled = enabled
	cfg.Seed = 5
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
