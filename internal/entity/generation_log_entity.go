package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerationLog is one audit record for a session: lifecycle steps,
// model calls with token usage, and failures.
type GenerationLog struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	Level        string
	Action       string
	Message      string
	Context      map[string]interface{}
	ModelUsed    string
	TokensInput  int
	TokensOutput int
	CostUsd      float64
	DurationMs   int
	CreatedAt    time.Time
}

// TokenUsage aggregates token counts and estimated cost across the model
// calls of a session.
type TokenUsage struct {
	TotalTokensInput  int     `json:"total_tokens_input"`
	TotalTokensOutput int     `json:"total_tokens_output"`
	TotalCostUsd      float64 `json:"total_cost_usd"`
}

// inputCostPerToken and outputCostPerToken are rough per-token USD rates
// keyed by model name substring.
var inputCostPerToken = []struct {
	match string
	rate  float64
}{
	{"gpt-4", 0.00003},
	{"gpt-3.5", 0.000001},
	{"o1", 0.000015},
}

var outputCostPerToken = []struct {
	match string
	rate  float64
}{
	{"gpt-4", 0.00006},
	{"gpt-3.5", 0.000002},
	{"o1", 0.00006},
}

const (
	defaultInputRate  = 0.00001
	defaultOutputRate = 0.00003
)

// EstimateCost computes the estimated USD cost of a model call from its
// token counts.
func EstimateCost(modelName string, tokensInput, tokensOutput int) float64 {
	inputRate := defaultInputRate
	for _, entry := range inputCostPerToken {
		if containsFold(modelName, entry.match) {
			inputRate = entry.rate
			break
		}
	}
	outputRate := defaultOutputRate
	for _, entry := range outputCostPerToken {
		if containsFold(modelName, entry.match) {
			outputRate = entry.rate
			break
		}
	}
	return float64(tokensInput)*inputRate + float64(tokensOutput)*outputRate
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
