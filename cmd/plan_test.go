package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/rebalance"
	"github.com/rs/zerolog"
)

const snapshotJSON = `{
  "accountValue": "$10,000.00",
  "accountType": "Individual - Taxable Account",
  "holdings": [
    {"symbol": "VTI", "price": 100, "marketValue": 7000},
    {"symbol": "BND", "price": 50, "marketValue": 3000},
    {"symbol": "Cash & Sweep", "price": 1, "marketValue": 0}
  ]
}`

func halfHalf() *rebalance.Config {
	cfg := rebalance.DefaultConfig()
	cfg.Targets = rebalance.NewTargets(
		rebalance.AssetClass{Category: "STOCKS", Allocation: 0.5, Primary: "VTI"},
		rebalance.AssetClass{Category: "BONDS", Allocation: 0.5, Primary: "BND"},
	)
	return cfg
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(snapshotJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newPlanCmd(t *testing.T, snapshot, withdraw, account, format string) *planCmd {
	t.Helper()
	c := &planCmd{
		planFlags: planFlags{snapshot: snapshot, withdraw: withdraw, account: account},
		format:    format,
	}
	if err := c.init(); err != nil {
		t.Fatalf("init() = %v", err)
	}
	return c
}

func TestPlanCmd_Raw(t *testing.T) {
	path := writeSnapshot(t)

	tests := []struct {
		name     string
		withdraw string
		account  string
		want     []string
		notWant  []string
	}{
		{
			name:    "taxable without withdrawal suppresses the sell",
			account: "auto",
			want:    []string{"| BND | 🟢 BUY | 40.00 | $2,000.00 |", "(taxable)", "## Notes"},
			notWant: []string{"🔴 SELL"},
		},
		{
			name:    "non-taxable sells",
			account: "non-taxable",
			want:    []string{"| VTI | 🔴 SELL | 20.00 | $2,000.00 |", "| BND | 🟢 BUY | 40.00 | $2,000.00 |", "(tax-advantaged)"},
		},
		{
			name:     "withdrawal sells in a taxable account",
			withdraw: "2000",
			account:  "taxable",
			want:     []string{"| VTI | 🔴 SELL | 30.00 | $3,000.00 |", "| BND | 🟢 BUY | 20.00 | $1,000.00 |", "Withdrawal: **$2,000.00**"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newPlanCmd(t, path, tc.withdraw, tc.account, "raw")
			var out bytes.Buffer
			if err := c.run(context.Background(), &out, halfHalf(), zerolog.Nop()); err != nil {
				t.Fatalf("run() = %v", err)
			}
			got := out.String()
			for _, want := range tc.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, nw := range tc.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("output contains %q:\n%s", nw, got)
				}
			}
		})
	}
}

func TestPlanCmd_JSON(t *testing.T) {
	c := newPlanCmd(t, writeSnapshot(t), "0", "non-taxable", "json")
	var out bytes.Buffer
	if err := c.run(context.Background(), &out, halfHalf(), zerolog.Nop()); err != nil {
		t.Fatalf("run() = %v", err)
	}

	var got struct {
		Taxable      bool `json:"taxable"`
		Instructions []struct {
			Category string `json:"category"`
		} `json:"instructions"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, out.String())
	}
	if got.Taxable {
		t.Error("taxable = true, want false")
	}
	if len(got.Instructions) != 2 || got.Instructions[0].Category != "STOCKS" {
		t.Errorf("instructions = %+v, want STOCKS then BONDS", got.Instructions)
	}
}

func TestPlanCmd_Errors(t *testing.T) {
	path := writeSnapshot(t)

	t.Run("withdrawal larger than the account", func(t *testing.T) {
		c := newPlanCmd(t, path, "20000", "auto", "raw")
		err := c.run(context.Background(), &bytes.Buffer{}, halfHalf(), zerolog.Nop())
		var inputErr *rebalance.InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("run() = %v, want an InputError", err)
		}
	})

	t.Run("invalid targets", func(t *testing.T) {
		cfg := halfHalf()
		cfg.Targets = rebalance.NewTargets(rebalance.AssetClass{Category: "STOCKS", Allocation: 0.9, Primary: "VTI"})
		c := newPlanCmd(t, path, "0", "auto", "raw")
		err := c.run(context.Background(), &bytes.Buffer{}, cfg, zerolog.Nop())
		var configErr *rebalance.ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("run() = %v, want a ConfigError", err)
		}
	})

	t.Run("missing snapshot", func(t *testing.T) {
		c := newPlanCmd(t, filepath.Join(t.TempDir(), "nope.json"), "0", "auto", "raw")
		if err := c.run(context.Background(), &bytes.Buffer{}, halfHalf(), zerolog.Nop()); err == nil {
			t.Error("run() = nil, want an error")
		}
	})
}

func TestPlanCmd_Init(t *testing.T) {
	tests := []struct {
		name    string
		cmd     planCmd
		wantErr bool
	}{
		{"defaults", planCmd{planFlags: planFlags{account: "auto"}, format: "markdown"}, false},
		{"whole shares", planCmd{planFlags: planFlags{rounding: "whole"}, format: "json"}, false},
		{"bad format", planCmd{format: "pdf"}, true},
		{"bad amount", planCmd{planFlags: planFlags{withdraw: "a lot"}, format: "raw"}, true},
		{"bad account", planCmd{planFlags: planFlags{account: "roth"}, format: "raw"}, true},
		{"bad rounding", planCmd{planFlags: planFlags{rounding: "up"}, format: "raw"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.init()
			if (err != nil) != tc.wantErr {
				t.Errorf("init() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		value   string
		wantErr bool
	}{
		{in: ""},
		{in: "Cookie: session=abc; other=1", name: "Cookie", value: "session=abc; other=1"},
		{in: "authorization:Bearer x", name: "Authorization", value: "Bearer x"},
		{in: "no colon", wantErr: true},
		{in: ": value", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			h, err := parseHeader(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseHeader(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if tc.name == "" {
				if len(h) != 0 {
					t.Errorf("parseHeader(%q) = %v, want no header", tc.in, h)
				}
				return
			}
			if got := h.Get(tc.name); got != tc.value {
				t.Errorf("parseHeader(%q).Get(%q) = %q, want %q", tc.in, tc.name, got, tc.value)
			}
		})
	}
}

func TestNotification(t *testing.T) {
	cfg := halfHalf()
	snap := &rebalance.Snapshot{
		AccountValue: rebalance.M(100, "USD"),
		Holdings: []rebalance.Holding{
			{Symbol: "VTI", Price: rebalance.M(10, "USD"), MarketValue: rebalance.M(50, "USD")},
			{Symbol: "BND", Price: rebalance.M(10, "USD"), MarketValue: rebalance.M(50, "USD")},
		},
	}
	plan, err := rebalance.Rebalance(cfg.Targets, snap, rebalance.M(0, "USD"), rebalance.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := notification(plan), "0 trades for $100.00"; got != want {
		t.Errorf("notification() = %q, want %q", got, want)
	}
}
