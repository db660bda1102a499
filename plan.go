package rebalance

// Options tunes the computation of a Plan.
type Options struct {
	Rounding Rounding
}

// Plan is the complete result of a rebalancing run.
type Plan struct {
	AccountValue        Money              `json:"accountValue"`
	Withdrawal          Money              `json:"withdrawal"`
	DesiredAccountValue Money              `json:"desiredAccountValue"`
	Taxable             bool               `json:"taxable"`
	Rounding            Rounding           `json:"-"`
	Instructions        []ClassInstruction `json:"instructions"`
	Diagnostics         []Diagnostic       `json:"diagnostics"`
}

// Withdrawing reports whether the plan raises cash.
func (p *Plan) Withdrawing() bool { return p.Withdrawal.IsPositive() }

// Instruction returns the instruction for category.
func (p *Plan) Instruction(category string) (ClassInstruction, bool) {
	for _, ci := range p.Instructions {
		if ci.Category == category {
			return ci, true
		}
	}
	return ClassInstruction{}, false
}

// Rebalance validates the targets and the inputs, then computes the
// instructions to move the snapshot toward the targets after withdrawing
// withdrawal. It either returns a complete plan or an error, never both.
func Rebalance(t *Targets, s *Snapshot, withdrawal Money, opts Options) (*Plan, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	if withdrawal.IsNegative() {
		return nil, &InputError{Field: "withdrawal", Reason: "must not be negative"}
	}
	if !s.AccountValue.IsPositive() {
		return nil, &InputError{Field: "account value", Reason: "must be positive"}
	}
	if c := withdrawal.Currency(); c != "" && s.Currency() != "" && c != s.Currency() {
		return nil, &InputError{Field: "withdrawal", Reason: "currency " + c + " differs from the account currency " + s.Currency()}
	}
	if withdrawal.GreaterThan(s.AccountValue) {
		return nil, &InputError{Field: "withdrawal", Reason: "exceeds the account value " + s.AccountValue.String()}
	}

	withdrawal = M(0, s.Currency()).Add(withdrawal)
	desired := s.AccountValue.Sub(withdrawal)
	totals := Aggregate(s.Holdings, t)
	instructions, diagnostics := Generate(t, totals, Request{
		AccountValue:        s.AccountValue,
		DesiredAccountValue: desired,
		Holdings:            s.Holdings,
		Withdrawing:         withdrawal.IsPositive(),
		Taxable:             s.Taxable,
		Rounding:            opts.Rounding,
	})

	return &Plan{
		AccountValue:        s.AccountValue,
		Withdrawal:          withdrawal,
		DesiredAccountValue: desired,
		Taxable:             s.Taxable,
		Rounding:            opts.Rounding,
		Instructions:        instructions,
		Diagnostics:         diagnostics,
	}, nil
}
