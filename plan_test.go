package rebalance

import (
	"errors"
	"testing"
)

func TestRebalance(t *testing.T) {
	snap := &Snapshot{
		AccountValue: USD(1000),
		Holdings:     []Holding{holding("X", 10, 400), holding("Y", 20, 600)},
		Taxable:      true,
	}

	plan, err := Rebalance(halfHalf(), snap, USD(200), Options{})
	if err != nil {
		t.Fatalf("Rebalance() unexpected error: %v", err)
	}
	if !plan.DesiredAccountValue.Equal(USD(800)) {
		t.Errorf("DesiredAccountValue = %v, want $800.00", plan.DesiredAccountValue)
	}
	if !plan.Withdrawing() {
		t.Error("Withdrawing() = false, want true")
	}

	// withdrawing allows taxable sells: B goes from 600 to 400.
	b, ok := plan.Instruction("B")
	if !ok {
		t.Fatal("Instruction(B) not found")
	}
	if len(b.Actions) != 1 || b.Actions[0].Kind != Sell || !b.Actions[0].Amount.Equal(USD(200)) {
		t.Errorf("B actions = %v, want a $200.00 sell", b.Actions)
	}
	// current allocation is measured before the withdrawal.
	if !b.CurrentAllocation.Equal(60) || !b.ResultingAllocation.Equal(50) {
		t.Errorf("B allocations = %v -> %v, want 60%% -> 50%%", b.CurrentAllocation, b.ResultingAllocation)
	}
}

func TestRebalance_Errors(t *testing.T) {
	valid := &Snapshot{AccountValue: USD(1000), Holdings: []Holding{holding("X", 10, 1000)}}
	unbalanced := NewTargets(AssetClass{Category: "A", Allocation: 0.7, Primary: "X"})

	testCases := []struct {
		name     string
		targets  *Targets
		snapshot *Snapshot
		withdraw Money
		wantErr  any
	}{
		{name: "invalid targets", targets: unbalanced, snapshot: valid, withdraw: USD(0), wantErr: new(*ConfigError)},
		{name: "negative withdrawal", targets: halfHalf(), snapshot: valid, withdraw: USD(-1), wantErr: new(*InputError)},
		{name: "withdrawal above account", targets: halfHalf(), snapshot: valid, withdraw: USD(1000.01), wantErr: new(*InputError)},
		{name: "withdrawal in another currency", targets: halfHalf(), snapshot: valid, withdraw: M(10, "EUR"), wantErr: new(*InputError)},
		{name: "empty account", targets: halfHalf(), snapshot: &Snapshot{AccountValue: USD(0)}, withdraw: USD(0), wantErr: new(*InputError)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := Rebalance(tc.targets, tc.snapshot, tc.withdraw, Options{})
			if err == nil {
				t.Fatal("Rebalance() expected an error, got nil")
			}
			if plan != nil {
				t.Errorf("Rebalance() returned a partial plan %v", plan)
			}
			if !errors.As(err, tc.wantErr) {
				t.Errorf("Rebalance() error = %T %v, want %T", err, err, tc.wantErr)
			}
		})
	}
}

func TestRebalance_WithdrawEverything(t *testing.T) {
	snap := &Snapshot{AccountValue: USD(1000), Holdings: []Holding{holding("X", 10, 500), holding("Y", 20, 500)}}

	plan, err := Rebalance(halfHalf(), snap, USD(1000), Options{})
	if err != nil {
		t.Fatalf("Rebalance() unexpected error: %v", err)
	}
	for _, ci := range plan.Instructions {
		if !ci.ResultingValue.IsZero() || ci.ResultingAllocation != 0 {
			t.Errorf("%s resulting = %v (%v), want everything sold", ci.Category, ci.ResultingValue, ci.ResultingAllocation)
		}
	}
}
