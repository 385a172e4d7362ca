package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// NewEnv layers defaults, the optional TOML file and then the environment.
func NewEnv(file string) (IService, error) {
	settings := Defaults()

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config file %s: %w", file, err)
		}
		if _, err := toml.DecodeFile(file, &settings); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", file, err)
		}
	}

	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	settings = normalize(settings)
	if err := validate(settings); err != nil {
		return nil, err
	}

	return &staticService{settings: settings}, nil
}

func normalize(s Settings) Settings {
	d := Defaults()
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	s.AnswerMatch = strings.ToLower(strings.TrimSpace(s.AnswerMatch))
	if s.Backend == "" {
		s.Backend = d.Backend
	}
	if s.AnswerMatch == "" {
		s.AnswerMatch = d.AnswerMatch
	}
	if s.FrameCount <= 0 {
		s.FrameCount = d.FrameCount
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = d.MaxTokens
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = d.RequestTimeout
	}
	if s.RequestsPerSecond < 0 {
		s.RequestsPerSecond = 0
	}
	if s.MaxUploadMB <= 0 {
		s.MaxUploadMB = d.MaxUploadMB
	}
	if s.ModeMaxShutdownTime <= 0 {
		s.ModeMaxShutdownTime = d.ModeMaxShutdownTime
	}
	return s
}

func validate(s Settings) error {
	switch s.Backend {
	case NevaBackend, OpenAIBackend, FakeBackend:
	default:
		return fmt.Errorf("unknown classifier backend %q", s.Backend)
	}

	switch s.AnswerMatch {
	case SubstringMatch, LeadingMatch:
	default:
		return fmt.Errorf("unknown answer matcher %q", s.AnswerMatch)
	}

	if s.Temperature < 0 || s.TopP < 0 || s.TopP > 1 {
		return fmt.Errorf("invalid sampling parameters: temperature=%v top_p=%v", s.Temperature, s.TopP)
	}

	return nil
}
