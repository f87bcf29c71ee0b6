package main

import (
	"flag"
	"fmt"

	"github.com/fatih/color"
)

type stylesCmd struct {
	*root
	fs      *flag.FlagSet
	verbose bool
}

func parseStylesCmd(args []string, r *root) (*stylesCmd, error) {
	fs := flag.NewFlagSet("styles", flag.ContinueOnError)
	cmd := &stylesCmd{root: r.subcommand("styles"), fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.verbose, "v", false, "also print each style's templates")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *stylesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *stylesCmd) Run() error {
	catalog, err := c.loadCatalog()
	if err != nil {
		return err
	}
	out := c.out()
	name := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)
	for _, e := range catalog.Entries() {
		marker := " "
		if catalog.IsDefault(e.Name) {
			marker = "*"
		}
		fmt.Fprintf(out, "%s ", marker)
		name.Fprintln(out, e.Name)
		if c.verbose {
			dim.Fprintf(out, "    prompt:   %s\n", e.Prompt)
			dim.Fprintf(out, "    negative: %s\n", e.NegativePrompt)
		}
	}
	return nil
}
