// Package rebalance computes the trades needed to move a brokerage account
// toward a target asset-class allocation.
//
// The core functionalities include:
//   - Target Allocation Table: asset classes with a desired fraction of the
//     account, a primary symbol, and legacy holdover symbols (see Targets).
//   - Validation: the desired fractions must sum to 1 (see Validate).
//   - Aggregation: current value per asset class (see Aggregate).
//   - Instruction generation: BUY or SELL actions per class, computed against
//     the account value left after an optional cash withdrawal, with sells
//     suppressed in taxable accounts unless cash is withdrawn (see Generate).
//   - Summary: resulting value and allocation per class (see Summarize).
//
// Rebalance chains all of them. The computation is pure: account data comes
// from a SnapshotSource, and advisories are returned as Diagnostics instead
// of being printed.
//
// Amounts are exact decimals (see Money and Quantity), so that the resulting
// value of a class is exactly its current value plus buys minus sells.
package rebalance
