package llm

import "sync"

// TokenUsage counts tokens consumed by one or more model calls.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// Add accumulates other into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.Prompt += other.Prompt
	u.Completion += other.Completion
	u.Total += other.Total
}

// EstimateTokens approximates the token count of text when the provider does
// not report usage. Four characters per token is the usual rough figure.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	estimate := len(text) / 4
	if estimate == 0 {
		estimate = 1
	}
	return estimate
}

type usageTracker struct {
	mu    sync.Mutex
	total TokenUsage
}

func (t *usageTracker) record(usage TokenUsage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total.Add(usage)
}

func (t *usageTracker) snapshot() TokenUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}
