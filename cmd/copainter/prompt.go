package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/example/copainter/internal/backend"
)

// promptCmd prints the prompts a style produces for the given text.
type promptCmd struct {
	*root
	fs       *flag.FlagSet
	prompt   string
	negative string
	style    string
}

func parsePromptCmd(args []string, r *root) (*promptCmd, error) {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	cmd := &promptCmd{root: r.subcommand("prompt"), fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.prompt, "prompt", r.config.Generate.Prompt, "text inserted into the style template")
	fs.StringVar(&cmd.negative, "negative", r.config.Generate.NegativePrompt, "text appended to the style's negative prompt")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, &UsageError{of: cmd}
	}
	cmd.style = strings.Join(fs.Args(), " ")
	if err := backend.ValidatePrompt(cmd.prompt); err != nil {
		return nil, err
	}
	if err := backend.ValidatePrompt(cmd.negative); err != nil {
		return nil, fmt.Errorf("negative prompt: %w", err)
	}
	return cmd, nil
}

func (c *promptCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *promptCmd) Run() error {
	catalog, err := c.loadCatalog()
	if err != nil {
		return err
	}
	if !catalog.Has(c.style) {
		if s, ok := catalog.Suggest(c.style); ok {
			return fmt.Errorf("unknown style %q (did you mean %q?)", c.style, s)
		}
		return fmt.Errorf("unknown style %q", c.style)
	}
	positive, negative := catalog.Apply(c.style, c.prompt, c.negative)
	if err := backend.ValidatePrompt(positive); err != nil {
		return fmt.Errorf("with style %q: %w", c.style, err)
	}
	if err := backend.ValidatePrompt(negative); err != nil {
		return fmt.Errorf("negative prompt with style %q: %w", c.style, err)
	}
	fmt.Fprintf(c.out(), "prompt: %s\nnegative: %s\n", positive, negative)
	return nil
}
