package backend

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

const (
	// MaxPromptLength bounds each of the positive and negative prompts.
	MaxPromptLength = 1000
	// MaxSeed is the largest seed a backend accepts.
	MaxSeed = math.MaxInt32
	// RandomSeed asks for a fresh seed on every run.
	RandomSeed = -1
)

// Params are the tunables forwarded to the engine.
type Params struct {
	Prompt         string
	NegativePrompt string
	Steps          int
	GuidanceScale  float64
	ControlScale   float64
	Seed           int64
}

// DefaultParams mirrors the scribble pipeline defaults.
func DefaultParams() Params {
	return Params{
		Steps:         25,
		GuidanceScale: 5,
		ControlScale:  1.0,
		Seed:          0,
	}
}

// ValidatePrompt rejects prompts a backend cannot transmit.
// An empty prompt is allowed.
func ValidatePrompt(prompt string) error {
	if strings.ContainsRune(prompt, '\x00') {
		return fmt.Errorf("%w: prompt contains null bytes", ErrInvalidPrompt)
	}
	if len(prompt) > MaxPromptLength {
		return fmt.Errorf("%w: prompt length %d exceeds maximum %d",
			ErrInvalidPrompt, len(prompt), MaxPromptLength)
	}
	return nil
}

// ValidateParams checks prompt text and numeric ranges.
func ValidateParams(p Params) error {
	if err := ValidatePrompt(p.Prompt); err != nil {
		return err
	}
	if err := ValidatePrompt(p.NegativePrompt); err != nil {
		return fmt.Errorf("negative prompt: %w", err)
	}
	if p.Steps < 1 || p.Steps > 150 {
		return fmt.Errorf("%w: steps %d out of range [1, 150]", ErrInvalidParams, p.Steps)
	}
	if p.GuidanceScale <= 0 || p.GuidanceScale > 30 {
		return fmt.Errorf("%w: guidance %.2f out of range (0, 30]", ErrInvalidParams, p.GuidanceScale)
	}
	if p.ControlScale < 0 || p.ControlScale > 2 {
		return fmt.Errorf("%w: control scale %.2f out of range [0, 2]", ErrInvalidParams, p.ControlScale)
	}
	if p.Seed < RandomSeed || p.Seed > MaxSeed {
		return fmt.Errorf("%w: seed %d out of range", ErrInvalidParams, p.Seed)
	}
	return nil
}

// ResolveSeed replaces RandomSeed with a random value in [0, MaxSeed].
func ResolveSeed(seed int64) int64 {
	if seed == RandomSeed {
		return rand.Int64N(MaxSeed + 1)
	}
	return seed
}
