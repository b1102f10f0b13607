package models

// Requests for the trades HTTP endpoints. Defined in domain for consistency and reuse.

type TradesRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

// EvaluateRequest evaluates a single trade against the current preferences.
// ContextOverride, when present, is shallow-merged over the default
// committee-keyword table for this call only.
type EvaluateRequest struct {
	Trade           Trade               `json:"trade" validate:"required"`
	ContextOverride map[string][]string `json:"contextOverride,omitempty"`
}
