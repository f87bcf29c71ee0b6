package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI image edit engine.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns the settings used when none are configured.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL: "https://api.openai.com/v1",
		Model:   openai.CreateImageModelDallE2,
		Size:    openai.CreateImageSize1024x1024,
		Timeout: 2 * time.Minute,
	}
}

// OpenAI sends the sketch to the image edit endpoint with the styled prompt.
// Steps, guidance and seed are not supported by the endpoint and are ignored.
type OpenAI struct {
	client *openai.Client
	http   *http.Client
	model  string
	size   string
}

// NewOpenAI builds the engine. An API key is required.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}
	def := DefaultOpenAIConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Size == "" {
		cfg.Size = def.Size
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = httpClient
	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		http:   httpClient,
		model:  cfg.Model,
		size:   cfg.Size,
	}, nil
}

// Name implements Engine.
func (o *OpenAI) Name() string { return EngineOpenAI }

// Model returns the configured model name.
func (o *OpenAI) Model() string { return o.model }

// Render implements Engine.
func (o *OpenAI) Render(ctx context.Context, sketch image.Image, req Request) (image.Image, error) {
	f, cleanup, err := writeTempPNG(sketch)
	if err != nil {
		return nil, fmt.Errorf("prepare sketch: %w", err)
	}
	defer cleanup()

	edit := openai.ImageEditRequest{
		Image:  f,
		Prompt: editPrompt(req),
		Model:  o.model,
		N:      1,
		Size:   o.size,
	}
	if strings.HasPrefix(o.model, "dall-e") {
		edit.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}
	resp, err := o.client.CreateEditImage(ctx, edit)
	if err != nil {
		return nil, fmt.Errorf("openai image edit: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: openai returned no images", ErrEmptyResponse)
	}
	item := resp.Data[0]
	switch {
	case item.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai image payload: %w", err)
		}
		return DecodeImage(data)
	case item.URL != "":
		return o.download(ctx, item.URL)
	default:
		return nil, fmt.Errorf("%w: openai returned neither data nor URL", ErrEmptyResponse)
	}
}

// editPrompt folds the negative prompt into the text, since the edit
// endpoint has no separate field for it.
func editPrompt(req Request) string {
	prompt := strings.TrimSpace(req.Prompt)
	neg := strings.TrimSpace(req.NegativePrompt)
	if neg == "" {
		return prompt
	}
	return prompt + ". Avoid: " + neg
}

func (o *OpenAI) download(ctx context.Context, url string) (image.Image, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.http.Do(r)
	if err != nil {
		return nil, fmt.Errorf("download result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download result: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download result: %w", err)
	}
	return DecodeImage(data)
}

func writeTempPNG(img image.Image) (*os.File, func(), error) {
	f, err := os.CreateTemp("", "copainter-sketch-*.png")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}
	if err := png.Encode(f, img); err != nil {
		cleanup()
		return nil, nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, err
	}
	return f, cleanup, nil
}

var _ Engine = (*OpenAI)(nil)
