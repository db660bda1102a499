// Package cmd implements the rebal command line.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&planCmd{}, "")
	c.Register(&targetsCmd{}, "")
	c.Register(&reviewCmd{}, "")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the targets file (YAML or JSON). Defaults to the built-in table.")
var verbose = flag.Bool("v", false, "Verbose logging")

// snapshotHeaderEnv holds an optional "Name: value" header sent when fetching the snapshot.
const snapshotHeaderEnv = "REBAL_SNAPSHOT_HEADER"

// newLogger returns the logger of the subcommands, writing to w.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the configuration from the -config file.
func loadConfig() (*rebalance.Config, error) {
	return rebalance.LoadConfig(*configFile)
}

// parseHeader parses a "Name: value" header. An empty string is no header.
func parseHeader(s string) (http.Header, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	name, value, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid header %q, want \"Name: value\"", s)
	}
	h := make(http.Header)
	h.Set(name, strings.TrimSpace(value))
	return h, nil
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) { fprintMarkdown(os.Stdout, md) }

// fprintMarkdown renders md with glamour, or writes it as is if it cannot.
func fprintMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}
