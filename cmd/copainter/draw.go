package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/copainter/internal/appstate"
	"github.com/example/copainter/internal/canvas"
	"github.com/example/copainter/internal/clipboard"
	"github.com/example/copainter/internal/studio"
)

// drawCmd opens the interactive drawing window.
type drawCmd struct {
	*root
	fs       *flag.FlagSet
	width    int
	height   int
	style    string
	prompt   string
	negative string
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r.subcommand("draw"), fs: fs}
	fs.Usage = usageFunc(d)
	cfg := r.config
	fs.IntVar(&d.width, "width", cfg.Canvas.Width, "canvas width in pixels")
	fs.IntVar(&d.height, "height", cfg.Canvas.Height, "canvas height in pixels")
	fs.StringVar(&d.style, "style", cfg.Generate.Style, "initially selected style")
	fs.StringVar(&d.prompt, "prompt", cfg.Generate.Prompt, "text inserted into the style template")
	fs.StringVar(&d.negative, "negative", cfg.Generate.NegativePrompt, "text appended to the style's negative prompt")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	if d.width < 1 || d.height < 1 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", d.width, d.height)
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	sess, err := d.newSession()
	if err != nil {
		return err
	}
	cv := canvas.New(image.Pt(d.width, d.height),
		canvas.WithPencilWidth(d.config.Canvas.PencilWidth),
		canvas.WithEraserWidth(d.config.Canvas.EraserWidth),
	)
	app := appstate.New(cv,
		appstate.WithTheme(d.activeTheme),
		appstate.WithLogger(d.logger.Named("ui")),
		appstate.WithTitle(fmt.Sprintf("Copainter (%s)", sess.pipeline.Engine().Name())),
		appstate.WithOnClose(func() { _ = d.logger.Sync() }),
	)
	orch := d.newOrchestrator(sess.pipeline, app.Poster())
	st := studio.New(sess.catalog, orch, cv,
		studio.WithLogger(d.logger.Named("studio")),
		studio.WithNotifier(d.notifier),
		studio.WithPromptSink(sess.pipeline),
		studio.WithClipboard(clipboard.WriteImage),
	)
	orch.SetListener(st)
	if d.style != "" {
		st.SelectStyle(d.style)
	}
	if err := st.SetPrompt(d.prompt, d.negative); err != nil {
		return err
	}
	app.Bind(orch, st)
	app.Run()
	return nil
}
