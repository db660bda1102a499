package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// planFlags are the flags shared by the commands computing a plan.
type planFlags struct {
	snapshot string
	withdraw string
	account  string
	rounding string
	// processed
	amount         decimal.Decimal
	taxable        *bool
	parsedRounding *rebalance.Rounding
}

func (p *planFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&p.snapshot, "s", "snapshot.json", "Account snapshot: a JSON file, an http(s) URL, or - for the standard input")
	f.StringVar(&p.withdraw, "w", "0", "Cash to withdraw from the account")
	f.StringVar(&p.account, "account", "auto", "Account type (auto, taxable, non-taxable). auto reads it from the snapshot.")
	f.StringVar(&p.rounding, "rounding", "", "Share rounding (fractional, whole). Defaults to the config file value.")
}

func (p *planFlags) init() error {
	if p.withdraw == "" {
		p.withdraw = "0"
	}
	amount, err := decimal.NewFromString(p.withdraw)
	if err != nil {
		return fmt.Errorf("parsing withdrawal %q: %w", p.withdraw, err)
	}
	p.amount = amount

	switch p.account {
	case "", "auto":
		p.taxable = nil
	case "taxable":
		p.taxable = new(bool)
		*p.taxable = true
	case "non-taxable":
		p.taxable = new(bool)
	default:
		return fmt.Errorf("unknown account type %q", p.account)
	}

	if p.rounding != "" {
		r, err := rebalance.ParseRounding(p.rounding)
		if err != nil {
			return err
		}
		p.parsedRounding = &r
	}
	return nil
}

// compute fetches the snapshot and computes the plan. Diagnostics are logged.
func (p *planFlags) compute(ctx context.Context, cfg *rebalance.Config, log zerolog.Logger) (*rebalance.Plan, error) {
	header, err := parseHeader(os.Getenv(snapshotHeaderEnv))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", snapshotHeaderEnv, err)
	}

	log.Debug().Str("snapshot", p.snapshot).Msg("fetching account snapshot")
	snap, err := rebalance.NewSource(p.snapshot, header, cfg.Selectors, cfg.Currency).FetchAccountSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	if p.taxable != nil {
		snap.Taxable = *p.taxable
	}
	log.Debug().
		Stringer("accountValue", snap.AccountValue).
		Str("accountType", snap.AccountType).
		Bool("taxable", snap.Taxable).
		Int("holdings", len(snap.Holdings)).
		Msg("snapshot loaded")

	opts := rebalance.Options{Rounding: cfg.Rounding}
	if p.parsedRounding != nil {
		opts.Rounding = *p.parsedRounding
	}

	plan, err := rebalance.Rebalance(cfg.Targets, snap, rebalance.M(p.amount, cfg.Currency), opts)
	if err != nil {
		return nil, err
	}
	for _, d := range plan.Diagnostics {
		log.Warn().Stringer("kind", d.Kind).Str("category", d.Category).Str("symbol", d.Symbol).Msg(d.Message)
	}
	return plan, nil
}

// planCmd holds the flags for the 'plan' subcommand.
type planCmd struct {
	planFlags
	format string
	notify bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "compute the trades to rebalance the account" }
func (*planCmd) Usage() string {
	return `rebal plan [-s <snapshot>] [-w <amount>] [-account auto|taxable|non-taxable] [-rounding fractional|whole] [-format markdown|raw|html|json] [-notify]

  Compute the buy and sell instructions that move the account toward the
  target allocation, after withdrawing the given amount.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	c.planFlags.setFlags(f)
	f.StringVar(&c.format, "format", "markdown", "Output format (markdown, raw, html, json)")
	f.BoolVar(&c.notify, "notify", false, "Send a desktop notification once the plan is computed")
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger(os.Stderr, *verbose)
	if err := c.init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := c.run(ctx, os.Stdout, cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var inputErr *rebalance.InputError
		if errors.As(err, &inputErr) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *planCmd) init() error {
	switch c.format {
	case "markdown", "raw", "html", "json":
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}
	return c.planFlags.init()
}

// run computes the plan and writes it to w.
func (c *planCmd) run(ctx context.Context, w io.Writer, cfg *rebalance.Config, log zerolog.Logger) error {
	plan, err := c.compute(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := c.render(w, plan, cfg.Targets); err != nil {
		return err
	}
	if c.notify {
		if err := notify("rebal", notification(plan)); err != nil {
			log.Warn().Err(err).Msg("desktop notification failed")
		}
	}
	return nil
}

func (c *planCmd) render(w io.Writer, plan *rebalance.Plan, t *rebalance.Targets) error {
	switch c.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "html":
		html, err := renderer.HTML(renderer.PlanMarkdown(plan, t))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case "raw":
		_, err := io.WriteString(w, renderer.PlanMarkdown(plan, t))
		return err
	default:
		fprintMarkdown(w, renderer.PlanMarkdown(plan, t))
		return nil
	}
}

// notification summarizes plan in one line.
func notification(plan *rebalance.Plan) string {
	var trades int
	for _, ci := range plan.Instructions {
		for _, a := range ci.Actions {
			if !a.Amount.IsZero() {
				trades++
			}
		}
	}
	msg := fmt.Sprintf("%d trades for %s", trades, plan.DesiredAccountValue)
	if n := len(plan.Diagnostics); n > 0 {
		msg += fmt.Sprintf(", %d notes", n)
	}
	return msg
}
