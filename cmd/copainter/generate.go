package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/copainter/internal/backend"
	"github.com/example/copainter/internal/canvas"
	"github.com/example/copainter/internal/clipboard"
	"github.com/example/copainter/internal/job"
	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/studio"
)

// generateCmd renders a sketch file through a style without a window.
type generateCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	output        string
	style         string
	prompt        string
	negative      string
	fromClipboard bool
	toClipboard   bool
}

var readClipboardFn = clipboard.ReadImage

func (g *generateCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGenerateCmd(args []string, r *root) (*generateCmd, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	g := &generateCmd{root: r.subcommand("generate"), fs: fs}
	fs.Usage = usageFunc(g)
	cfg := r.config
	fs.StringVar(&g.file, "file", "", "sketch image (PNG, JPEG or WebP)")
	fs.StringVar(&g.output, "output", "", "output PNG path, - for stdout (defaults to <file>-<style>.png)")
	fs.StringVar(&g.style, "style", cfg.Generate.Style, "style to apply")
	fs.StringVar(&g.prompt, "prompt", cfg.Generate.Prompt, "text inserted into the style template")
	fs.StringVar(&g.negative, "negative", cfg.Generate.NegativePrompt, "text appended to the style's negative prompt")
	fs.BoolVar(&g.fromClipboard, "from-clipboard", false, "read the sketch from the clipboard")
	fs.BoolVar(&g.fromClipboard, "from-clip", false, "read the sketch from the clipboard (alias)")
	fs.BoolVar(&g.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&g.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: g}
	}
	if g.fromClipboard && g.file != "" {
		return nil, errors.New("-file and -from-clipboard are mutually exclusive")
	}
	if !g.fromClipboard && g.file == "" {
		return nil, errors.New("input file is required")
	}
	if g.output == "" {
		if g.fromClipboard {
			if !g.toClipboard {
				return nil, errors.New("output file is required when reading from the clipboard")
			}
		} else {
			g.output = defaultOutputPath(g.file, g.style)
		}
	}
	return g, nil
}

// defaultOutputPath turns sketch.png and "Pixel art" into sketch-pixel-art.png.
func defaultOutputPath(file, style string) string {
	base := file[:len(file)-len(filepath.Ext(file))]
	slug := make([]rune, 0, len(style))
	dash := false
	for _, r := range style {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug = append(slug, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+'a'-'A')
			dash = false
		default:
			if !dash && len(slug) > 0 {
				slug = append(slug, '-')
				dash = true
			}
		}
	}
	for len(slug) > 0 && slug[len(slug)-1] == '-' {
		slug = slug[:len(slug)-1]
	}
	if len(slug) == 0 {
		return base + "-out.png"
	}
	return base + "-" + string(slug) + ".png"
}

func (g *generateCmd) Run() error {
	src, err := g.loadSource()
	if err != nil {
		return err
	}
	sess, err := g.newSession()
	if err != nil {
		return err
	}

	cv := canvas.New(src.Bounds().Size())
	cv.Load(src)

	mailbox := job.NewMailbox(job.DefaultMailboxSize)
	orch := g.newOrchestrator(sess.pipeline, mailbox)
	st := studio.New(sess.catalog, orch, cv,
		studio.WithLogger(g.logger.Named("studio")),
		studio.WithNotifier(g.notifier),
		studio.WithPromptSink(sess.pipeline),
		studio.WithClipboard(clipboard.WriteImage),
	)
	orch.SetListener(st)
	if g.style != "" {
		st.SelectStyle(g.style)
	}
	if err := st.SetPrompt(g.prompt, g.negative); err != nil {
		return err
	}

	h, err := st.Generate()
	if err != nil {
		return err
	}
	g.logger.Info("generation started",
		zap.String("job", h.ID),
		zap.String("style", g.style),
		zap.String("engine", sess.pipeline.Engine().Name()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := orch.Wait(ctx, mailbox, h); err != nil {
		return fmt.Errorf("waiting for generation: %w", err)
	}
	if err := h.Err(); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	g.logger.Info("generation finished", zap.String("job", h.ID), zap.Duration("elapsed", h.Duration()))

	if g.output != "" {
		if err := g.writeResult(st.Result()); err != nil {
			return err
		}
	}
	if g.toClipboard {
		if err := st.CopyResult(); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied result to clipboard")
	}
	return nil
}

func (g *generateCmd) loadSource() (image.Image, error) {
	if g.fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	data, err := os.ReadFile(g.file)
	if err != nil {
		return nil, err
	}
	img, err := backend.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.file, err)
	}
	return img, nil
}

func (g *generateCmd) writeResult(img image.Image) error {
	if img == nil {
		return job.ErrNoImage
	}
	if g.output == "-" {
		return png.Encode(g.out(), img)
	}
	out, err := os.Create(g.output)
	if err != nil {
		return err
	}
	defer func(out io.Closer) {
		if err := out.Close(); err != nil {
			g.logger.Warn("close output", zap.String("path", g.output), logging.Error(err))
		}
	}(out)
	if err := png.Encode(out, img); err != nil {
		return err
	}
	saved := g.output
	if abs, err := filepath.Abs(g.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	return nil
}
