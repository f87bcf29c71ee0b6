// Package backend turns a sketch and a style into a rendered image.
//
// A Pipeline prepares the sketch, expands the style template and hands the
// result to an Engine. Engines are the pluggable image generators.
package backend

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// Request is what an engine receives after preprocessing.
type Request struct {
	Params
	// StyleName is informational; the style is already applied to Prompt.
	StyleName string
}

// Engine renders an image from a prepared sketch.
type Engine interface {
	Name() string
	Render(ctx context.Context, sketch image.Image, req Request) (image.Image, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, sketch image.Image, req Request) (image.Image, error)

// Name implements Engine.
func (f EngineFunc) Name() string { return "func" }

// Render implements Engine.
func (f EngineFunc) Render(ctx context.Context, sketch image.Image, req Request) (image.Image, error) {
	return f(ctx, sketch, req)
}

// Engine names accepted by NewEngine.
const (
	EngineSolid  = "solid"
	EngineOpenAI = "openai"
)

// Engines lists the engine names in display order.
func Engines() []string { return []string{EngineSolid, EngineOpenAI} }

// NewEngine constructs the engine called name.
func NewEngine(name string, openaiCfg OpenAIConfig) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EngineSolid, "":
		return NewSolid(), nil
	case EngineOpenAI:
		return NewOpenAI(openaiCfg)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownEngine, name, strings.Join(Engines(), ", "))
	}
}
