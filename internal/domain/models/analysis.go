package models

// Decision is the binary recommendation for a trade.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSkip Decision = "SKIP"
)

// Analysis is the engine output for a single trade. It is freshly built on
// every evaluation and never mutated afterwards; callers may discard and
// re-derive it at will.
type Analysis struct {
	Decision         Decision `json:"decision"`
	Confidence       int      `json:"confidence"` // clamped to [0,100]
	Rationale        []string `json:"rationale"`
	MatchedCommittee string   `json:"matchedCommittee,omitempty"`
}

// AnalyzedTrade pairs a trade with its analysis for downstream consumers.
type AnalyzedTrade struct {
	Trade    Trade    `json:"trade"`
	Analysis Analysis `json:"analysis"`
}
