package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// targetsCmd shows and checks the target allocation table.
type targetsCmd struct {
	format string
}

func (*targetsCmd) Name() string     { return "targets" }
func (*targetsCmd) Synopsis() string { return "show and check the target allocation" }
func (*targetsCmd) Usage() string {
	return `rebal [-config <file>] targets [-format markdown|raw|yaml]

  Show the target allocation table and check that it sums to 100%.
  With -format yaml, print the table in the config file format, a starting
  point for a custom table.
`
}

func (c *targetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "markdown", "Output format (markdown, raw, yaml)")
}

func (c *targetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(os.Stderr, *verbose)
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Str("config", *configFile).Int("classes", cfg.Targets.Len()).Msg("targets loaded")

	if err := c.run(os.Stdout, cfg.Targets); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// run writes t to w and returns the validation error, if any.
func (c *targetsCmd) run(w io.Writer, t *rebalance.Targets) error {
	switch c.format {
	case "yaml":
		if err := rebalance.EncodeTargets(w, t); err != nil {
			return err
		}
	case "raw":
		if _, err := io.WriteString(w, renderer.TargetsMarkdown(t)); err != nil {
			return err
		}
	case "markdown":
		fprintMarkdown(w, renderer.TargetsMarkdown(t))
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}
	return rebalance.Validate(t)
}
