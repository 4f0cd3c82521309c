// Package cost estimates USD spend for model invocations from token
// counts and per-model pricing.
package cost

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64
	Output float64
}

// Calculator computes estimated costs for model usage.
type Calculator struct {
	rates map[string]ModelRate
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates map[string]ModelRate) *Calculator {
	return &Calculator{rates: rates}
}

// Estimate computes the cost of one invocation. The second return is
// false when the model has no configured rate; the cost is then zero
// and the caller decides how loudly to complain.
func (c *Calculator) Estimate(model string, inputTokens, outputTokens int) (float64, bool) {
	rate, ok := c.rates[model]
	if !ok {
		return 0, false
	}
	inCost := (float64(inputTokens) / 1e6) * rate.Input
	outCost := (float64(outputTokens) / 1e6) * rate.Output
	return inCost + outCost, true
}

// DefaultRates returns the default pricing table.
func DefaultRates() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
	}
}
