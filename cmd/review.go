package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance/agent"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// reviewCmd asks Gemini to review a plan.
type reviewCmd struct {
	planFlags
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "ask Gemini to review a plan" }
func (*reviewCmd) Usage() string {
	return `rebal review [-s <snapshot>] [-w <amount>] [-account auto|taxable|non-taxable] [-rounding fractional|whole] [<question>...]

  Compute the plan, then send it to Gemini for a tax-lot and sanity review.
  The remaining arguments are an optional question about the plan.
  Needs GEMINI_API_KEY, which can be set in a .env file.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) { c.planFlags.setFlags(f) }

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(os.Stderr, *verbose)
	if err := c.init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY is not set")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	plan, err := c.compute(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.PlanMarkdown(plan, cfg.Targets)
	printMarkdown(md)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	reviewer := agent.NewReviewer()
	log.Debug().Str("model", reviewer.ModelName).Msg("requesting review")
	answer, err := reviewer.Review(ctx, client, md, strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: review failed: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
