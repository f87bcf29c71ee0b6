package backend

import "errors"

var (
	ErrGenerationFailed = errors.New("backend: image generation failed")
	ErrInvalidPrompt    = errors.New("backend: invalid prompt")
	ErrInvalidParams    = errors.New("backend: invalid generation parameters")
	ErrEmptyResponse    = errors.New("backend: empty response")
	ErrNotImage         = errors.New("backend: response is not an image")
	ErrUnknownEngine    = errors.New("backend: unknown engine")
	ErrMissingAPIKey    = errors.New("backend: API key is required")
)
