package models

// TradeType enumerates disclosed transaction kinds.
type TradeType string

const (
	TradePurchase    TradeType = "purchase"
	TradeSale        TradeType = "sale"
	TradeSaleFull    TradeType = "sale_full"
	TradeSalePartial TradeType = "sale_partial"
	TradeExchange    TradeType = "exchange"
)

// Valid reports whether t is one of the known transaction kinds.
func (t TradeType) Valid() bool {
	switch t {
	case TradePurchase, TradeSale, TradeSaleFull, TradeSalePartial, TradeExchange:
		return true
	}
	return false
}

// Chamber is the legislative chamber of the trading member.
type Chamber string

const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// Trade is one disclosed legislator transaction, normalized upstream.
// Ticker and Type are mandatory; everything optional is zero-valued when
// absent and the dependent scoring rules are skipped.
type Trade struct {
	ID          string    `json:"id"`
	Timestamp   string    `json:"timestamp"` // RFC3339 or unix seconds
	Member      string    `json:"member"`
	Chamber     Chamber   `json:"chamber,omitempty"`
	Ticker      string    `json:"ticker"`
	Company     string    `json:"company,omitempty"`
	Type        TradeType `json:"type"`
	AmountMin   float64   `json:"amountMin,omitempty"`
	AmountMax   float64   `json:"amountMax,omitempty"`
	AmountText  string    `json:"amountText,omitempty"`
	Committees  []string  `json:"committees,omitempty"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// HasAmountBounds reports whether both magnitude bounds were disclosed.
func (t *Trade) HasAmountBounds() bool {
	return t.AmountMin > 0 && t.AmountMax > 0
}

// AvgAmount is the midpoint of the disclosed range. Only meaningful when
// HasAmountBounds is true.
func (t *Trade) AvgAmount() float64 {
	return (t.AmountMin + t.AmountMax) / 2
}
