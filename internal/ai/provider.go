// Package ai implements the external model boundaries: the visual
// comparison gateway and the trivia lookup, with one provider per backend.
package ai

// Usage tracks token usage and calculates cost.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalCost    float64 // in USD
}

// usageTracker accumulates token counts against per-1M-token prices.
type usageTracker struct {
	usage       Usage
	inputPrice  float64
	outputPrice float64
}

func (t *usageTracker) track(inputTokens, outputTokens int64) {
	t.usage.InputTokens += int(inputTokens)
	t.usage.OutputTokens += int(outputTokens)
	t.usage.TotalCost += float64(inputTokens) / 1_000_000 * t.inputPrice
	t.usage.TotalCost += float64(outputTokens) / 1_000_000 * t.outputPrice
}

// GetUsage returns the accumulated usage.
func (t *usageTracker) GetUsage() *Usage {
	return &t.usage
}

// ResetUsage clears the accumulated usage.
func (t *usageTracker) ResetUsage() {
	t.usage = Usage{}
}
