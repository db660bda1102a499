// Package agent asks Gemini for a second opinion on a rebalancing plan.
package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Reviewer is a single shot conversation with a financial reviewer.
type Reviewer struct {
	Name      string
	ModelName string
	Config    *genai.GenerateContentConfig
}

// NewReviewer creates the reviewer with its system instruction.
func NewReviewer() *Reviewer {
	return &Reviewer{
		Name:      "Reviewer",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You review rebalancing plans of a personal brokerage account.

			The plan is a markdown table of BUY and SELL instructions per asset class,
			with the current, desired and resulting allocation of each class.
			Sells in a taxable account realize capital gains: point out which sells
			deserve a tax-lot review, and whether holdover positions could be sold
			at a loss first.

			Check that the resulting allocations are close to the desired ones and
			explain any remaining gap (missing prices, suppressed sells, shortfalls).
			Be brief, answer in markdown, and never invent prices or positions.
		`}}},
		},
	}
}

// Prompt builds the user message sent along the plan.
func Prompt(plan, question string) string {
	var b strings.Builder
	b.WriteString("Here is my rebalancing plan:\n\n")
	b.WriteString(plan)
	b.WriteString("\n\n")
	if q := strings.TrimSpace(question); q != "" {
		b.WriteString(q)
	} else {
		b.WriteString("Review this plan before I place the orders.")
	}
	return b.String()
}

// Review sends the plan to the model and returns its markdown answer.
func (r *Reviewer) Review(ctx context.Context, client *genai.Client, plan, question string) (string, error) {
	resp, err := client.Models.GenerateContent(ctx, r.ModelName, genai.Text(Prompt(plan, question)), r.Config)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from %s", r.Name)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
