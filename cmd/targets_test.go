package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/rebalance"
)

func TestTargetsCmd(t *testing.T) {
	t.Run("yaml round trips", func(t *testing.T) {
		var out bytes.Buffer
		c := &targetsCmd{format: "yaml"}
		if err := c.run(&out, rebalance.DefaultTargets()); err != nil {
			t.Fatalf("run() = %v", err)
		}
		cfg, err := rebalance.DecodeConfig(&out)
		if err != nil {
			t.Fatalf("DecodeConfig() = %v", err)
		}
		if got, want := cfg.Targets.Len(), rebalance.DefaultTargets().Len(); got != want {
			t.Errorf("decoded %d classes, want %d", got, want)
		}
	})

	t.Run("invalid table is reported", func(t *testing.T) {
		var out bytes.Buffer
		c := &targetsCmd{format: "raw"}
		err := c.run(&out, rebalance.NewTargets(rebalance.AssetClass{Category: "A", Allocation: 0.3, Primary: "AAA"}))
		var configErr *rebalance.ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("run() = %v, want a ConfigError", err)
		}
		if !strings.Contains(out.String(), "| A | 30.00% | AAA | - |") {
			t.Errorf("output = %s, want the table", out.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		c := &targetsCmd{format: "csv"}
		if err := c.run(&bytes.Buffer{}, rebalance.DefaultTargets()); err == nil {
			t.Error("run() = nil, want an error")
		}
	})
}
