package rebalance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// SnapshotSource provides the state of the brokerage account.
type SnapshotSource interface {
	FetchAccountSnapshot(ctx context.Context) (*Snapshot, error)
}

// Selectors locate the snapshot fields in a JSON document. Each field is a
// list of JSONPath expressions tried in order, the first match wins.
// Symbol, Price and MarketValue are evaluated on each holding row.
type Selectors struct {
	AccountValue []string `yaml:"accountValue,omitempty"`
	AccountType  []string `yaml:"accountType,omitempty"`
	Taxable      []string `yaml:"taxable,omitempty"`
	Holdings     []string `yaml:"holdings,omitempty"`
	Symbol       []string `yaml:"symbol,omitempty"`
	Price        []string `yaml:"price,omitempty"`
	MarketValue  []string `yaml:"marketValue,omitempty"`
	// Exclude lists symbol prefixes of rows to ignore, like cash sweep rows.
	Exclude []string `yaml:"exclude,omitempty"`
}

// DefaultSelectors matches the native snapshot format:
//
//	{"accountValue": 1000, "accountType": "Taxable Account",
//	 "holdings": [{"symbol": "VTI", "price": 10, "marketValue": 400}]}
func DefaultSelectors() Selectors {
	return Selectors{
		AccountValue: []string{"$.accountValue", "$.account.totalValue"},
		AccountType:  []string{"$.accountType", "$.account.label"},
		Taxable:      []string{"$.taxable", "$.account.taxable"},
		Holdings:     []string{"$.holdings", "$.positions"},
		Symbol:       []string{"$.symbol", "$.ticker"},
		Price:        []string{"$.price"},
		MarketValue:  []string{"$.marketValue", "$.value"},
		Exclude:      []string{"Cash"},
	}
}

// withDefaults fills the empty fields of s with the default selectors.
func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	or := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return slices.Clone(v)
	}
	return Selectors{
		AccountValue: or(s.AccountValue, d.AccountValue),
		AccountType:  or(s.AccountType, d.AccountType),
		Taxable:      or(s.Taxable, d.Taxable),
		Holdings:     or(s.Holdings, d.Holdings),
		Symbol:       or(s.Symbol, d.Symbol),
		Price:        or(s.Price, d.Price),
		MarketValue:  or(s.MarketValue, d.MarketValue),
		Exclude:      or(s.Exclude, d.Exclude),
	}
}

// NewSource returns the source for location: an http(s) URL, a file path,
// or "-" for the standard input.
func NewSource(location string, header http.Header, sel Selectors, currency string) SnapshotSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Header: header, Selectors: sel, Currency: currency}
	}
	return &JSONSource{Path: location, Selectors: sel, Currency: currency}
}

// JSONSource reads the snapshot from a JSON file.
type JSONSource struct {
	Path      string // "-" reads the standard input
	Selectors Selectors
	Currency  string
}

func (s *JSONSource) FetchAccountSnapshot(_ context.Context) (*Snapshot, error) {
	if s.Path == "-" {
		return ReadSnapshot(os.Stdin, s.Selectors, s.Currency)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	snap, err := ReadSnapshot(f, s.Selectors, s.Currency)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", s.Path, err)
	}
	return snap, nil
}

// HTTPSource fetches the snapshot document with an HTTP GET.
type HTTPSource struct {
	URL       string
	Header    http.Header // e.g. a session cookie
	Client    *http.Client
	Selectors Selectors
	Currency  string
}

func (s *HTTPSource) FetchAccountSnapshot(ctx context.Context) (*Snapshot, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	body, err := httpGet(ctx, client, s.URL, s.Header)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return ReadSnapshot(body, s.Selectors, s.Currency)
}

// StaticSource serves a snapshot held in memory.
type StaticSource struct {
	Snapshot Snapshot
}

func (s StaticSource) FetchAccountSnapshot(_ context.Context) (*Snapshot, error) {
	snap := s.Snapshot
	snap.Holdings = slices.Clone(s.Snapshot.Holdings)
	return &snap, nil
}

// ReadSnapshot decodes a JSON document and extracts the snapshot using sel.
// Amounts are in currency.
func ReadSnapshot(r io.Reader, sel Selectors, currency string) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid snapshot document: %w", err)
	}
	return extractSnapshot(doc, sel.withDefaults(), currency)
}

func extractSnapshot(doc any, sel Selectors, currency string) (*Snapshot, error) {
	v, err := selectScalar(doc, sel.AccountValue)
	if err != nil {
		return nil, fmt.Errorf("account value: %w", err)
	}
	value, err := parseCash(v)
	if err != nil {
		return nil, fmt.Errorf("account value: %w", err)
	}
	snap := &Snapshot{AccountValue: M(value, currency)}

	taxableSet := false
	if v, err := selectScalar(doc, sel.Taxable); err == nil {
		if b, ok := v.(bool); ok {
			snap.Taxable, taxableSet = b, true
		}
	}
	if v, err := selectScalar(doc, sel.AccountType); err == nil {
		if text, ok := v.(string); ok {
			snap.AccountType = strings.TrimSpace(text)
			if !taxableSet {
				snap.Taxable = IsTaxableAccountType(text)
			}
		}
	}

	v, err = selectAny(doc, sel.Holdings)
	if err != nil {
		return nil, fmt.Errorf("holdings: %w", err)
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("holdings: expected a list, got %T", v)
	}
	for i, row := range rows {
		h, skip, err := extractHolding(row, sel, currency)
		if err != nil {
			return nil, fmt.Errorf("holding #%d: %w", i+1, err)
		}
		if skip {
			continue
		}
		snap.Holdings = append(snap.Holdings, h)
	}
	return snap, nil
}

// extractHolding reads a holding row. Excluded rows are skipped before their
// amounts are read, they often have none.
func extractHolding(row any, sel Selectors, currency string) (h Holding, skip bool, err error) {
	v, err := selectScalar(row, sel.Symbol)
	if err != nil {
		return h, false, fmt.Errorf("symbol: %w", err)
	}
	symbol, ok := v.(string)
	if !ok || strings.TrimSpace(symbol) == "" {
		return h, false, fmt.Errorf("symbol: expected a string, got %v", v)
	}
	h.Symbol = strings.TrimSpace(symbol)
	if excluded(h.Symbol, sel.Exclude) {
		return h, true, nil
	}

	if v, err = selectScalar(row, sel.Price); err != nil {
		return h, false, fmt.Errorf("%s price: %w", h.Symbol, err)
	}
	price, err := parseCash(v)
	if err != nil {
		return h, false, fmt.Errorf("%s price: %w", h.Symbol, err)
	}
	if v, err = selectScalar(row, sel.MarketValue); err != nil {
		return h, false, fmt.Errorf("%s market value: %w", h.Symbol, err)
	}
	mv, err := parseCash(v)
	if err != nil {
		return h, false, fmt.Errorf("%s market value: %w", h.Symbol, err)
	}
	h.Price, h.MarketValue = M(price, currency), M(mv, currency)
	return h, false, nil
}

func excluded(symbol string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(symbol, p) {
			return true
		}
	}
	return false
}

// IsTaxableAccountType reports whether an account description designates a
// taxable account, e.g. "Individual - Taxable Account".
func IsTaxableAccountType(text string) bool {
	text = strings.ToLower(text)
	if strings.Contains(text, "non-taxable") || strings.Contains(text, "nontaxable") {
		return false
	}
	return strings.Contains(text, "taxable account")
}

var errNoMatch = errors.New("no match")

// selectAny returns the first non nil match of paths in doc.
func selectAny(doc any, paths []string) (any, error) {
	for _, p := range paths {
		v, err := jsonpath.Get(p, doc)
		if err != nil || v == nil {
			continue
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w for %s", errNoMatch, strings.Join(paths, " | "))
}

// selectScalar is like selectAny but unwraps single element results.
func selectScalar(doc any, paths []string) (any, error) {
	v, err := selectAny(doc, paths)
	if err != nil {
		return nil, err
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// keep the first one if any
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, fmt.Errorf("%w for %s", errNoMatch, strings.Join(paths, " | "))
		}
		v = list[0]
	}
	return v, nil
}

// parseCash reads a number, or a display string such as "$1,234.56" or
// "(12.00)" for negative values. A cell without digits, like "--", is zero:
// a zero price is reported as missing by the engine.
func parseCash(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		negative := strings.HasPrefix(strings.TrimSpace(x), "(") && strings.HasSuffix(strings.TrimSpace(x), ")")
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) || r == '.' || r == '-' {
				return r
			}
			return -1
		}, x)
		if !strings.ContainsFunc(cleaned, unicode.IsDigit) {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount %q", x)
		}
		if negative {
			d = d.Neg()
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("invalid amount %v (%T)", v, v)
}
