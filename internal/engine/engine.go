package engine

import (
	"fmt"
	"strings"
	"time"

	"CapTrades/internal/domain/models"
	"CapTrades/pkg/util"
)

// Rule weights. The running total starts at baseConfidence and each rule
// that fires adds its weight and appends exactly one rationale line.
const (
	baseConfidence   = 50
	committeeBonus   = 25
	preferredBonus   = 15
	purchaseBonus    = 15
	salePenalty      = 10
	largeTradeBonus  = 10
	smallTradePenalty = 5
	budgetPenalty    = 20
	recencyBonus     = 5
	lowRiskPenalty   = 10
	highRiskBonus    = 5

	largeTradeFloor  = 100000.0
	smallTradeCeil   = 10000.0
	recencyWindow    = 7 * 24 * time.Hour
	defaultThreshold = 60
)

// Engine scores disclosed trades against a committee-keyword context. It is
// stateless apart from the injected base context and safe for concurrent use.
type Engine struct {
	base Context
}

// New creates an Engine around an explicit base context. Use
// DefaultContext() unless the deployment overrides the keyword table.
func New(base Context) *Engine {
	return &Engine{base: base}
}

// Evaluate maps one trade, an optional per-call context override, and the
// viewer preferences to an Analysis. The evaluation instant is an explicit
// parameter so the function is deterministic for fixed inputs; callers at
// the boundary pass time.Now().
//
// The decision compares the running total BEFORE clamping against the
// threshold; only the reported confidence is clamped to [0,100]. A running
// total of 130 therefore still counts as 130 for the BUY cutoff.
func (e *Engine) Evaluate(t models.Trade, override *Context, prefs *models.Preferences, now time.Time) models.Analysis {
	ctx := e.base.Merge(override)

	confidence := baseConfidence
	rationale := []string{}
	matched := ""

	// Committee alignment: first committee whose keyword set matches the
	// company name or ticker wins; no aggregation across committees.
	company := strings.ToLower(t.Company)
	ticker := strings.ToLower(t.Ticker)
	for _, committee := range t.Committees {
		if !keywordMatch(ctx.Keywords(committee), company, ticker) {
			continue
		}
		matched = committee
		confidence += committeeBonus
		rationale = append(rationale, fmt.Sprintf("Committee alignment: %s member trading in relevant sector", committee))
		if prefs != nil && contains(prefs.PreferredCommittees, committee) {
			confidence += preferredBonus
			rationale = append(rationale, fmt.Sprintf("Preferred committee: %s", committee))
		}
		break
	}

	// Trade direction. Partial sales and exchanges stay neutral.
	switch t.Type {
	case models.TradePurchase:
		confidence += purchaseBonus
		rationale = append(rationale, "Purchase signal: Member buying stock")
	case models.TradeSale, models.TradeSaleFull:
		confidence -= salePenalty
		rationale = append(rationale, "Sale signal: Member selling stock")
	}

	// Trade magnitude, only when both bounds were disclosed. The budget
	// check lives inside the same guard: no bounds, no budget penalty.
	if t.HasAmountBounds() {
		avg := t.AvgAmount()
		if avg > largeTradeFloor {
			confidence += largeTradeBonus
			rationale = append(rationale, "Large trade size indicates confidence")
		} else if avg < smallTradeCeil {
			confidence -= smallTradePenalty
			rationale = append(rationale, "Small trade size may indicate uncertainty")
		}
		if prefs != nil && prefs.Budget > 0 && avg > prefs.Budget {
			confidence -= budgetPenalty
			rationale = append(rationale, fmt.Sprintf("Trade amount ($%s) exceeds budget ($%s)",
				util.FormatThousands(avg), util.FormatThousands(prefs.Budget)))
		}
	}

	// Recency. An unparseable timestamp skips the rule rather than failing.
	if ts, ok := util.ParseTime(t.Timestamp); ok {
		if now.Sub(ts) < recencyWindow {
			confidence += recencyBonus
			rationale = append(rationale, "Recent trade activity")
		}
	}

	if prefs != nil {
		switch prefs.RiskTolerance {
		case models.RiskLow:
			confidence -= lowRiskPenalty
			rationale = append(rationale, "Conservative risk tolerance applied")
		case models.RiskHigh:
			confidence += highRiskBonus
			rationale = append(rationale, "Aggressive risk tolerance applied")
		}
	}

	threshold := defaultThreshold
	if prefs != nil && prefs.ConfidenceThreshold > 0 {
		threshold = prefs.ConfidenceThreshold
	}

	decision := models.DecisionBuy
	if confidence < threshold {
		decision = models.DecisionSkip
		rationale = append(rationale, fmt.Sprintf("Confidence (%d%%) below threshold (%d%%)", confidence, threshold))
	}

	return models.Analysis{
		Decision:         decision,
		Confidence:       clamp(confidence, 0, 100),
		Rationale:        rationale,
		MatchedCommittee: matched,
	}
}

func keywordMatch(keywords []string, company, ticker string) bool {
	for _, kw := range keywords {
		if strings.Contains(company, kw) || strings.Contains(ticker, kw) {
			return true
		}
	}
	return false
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
