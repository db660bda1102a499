package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rebalance/docs"
	"github.com/google/subcommands"
)

// topicCmd prints pages of the rebal manual.
type topicCmd struct {
	raw bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the rebal manual" }
func (*topicCmd) Usage() string {
	return `rebal topic [-raw] [<topic>...]

  Print the manual pages about computing a plan, writing the target table,
  describing the account snapshot, and taxable accounts.
  Without a topic, print the list of topics. "*" prints the whole manual.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.run(os.Stdout, f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// run writes the requested topics, or the topic list, to w.
func (c *topicCmd) run(w io.Writer, topics []string) error {
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return err
	}
	if c.raw {
		_, err = io.WriteString(w, doc)
		return err
	}
	fprintMarkdown(w, doc)
	return nil
}
