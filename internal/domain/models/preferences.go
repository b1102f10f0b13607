package models

// RiskTolerance is the viewer's appetite for acting on weak signals.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Preferences is the per-viewer configuration consulted by the scoring
// engine. A zero Budget means "no constraint"; a zero ConfidenceThreshold
// falls back to the engine default.
type Preferences struct {
	Budget              float64       `json:"budget"`
	ConfidenceThreshold int           `json:"confidenceThreshold"`
	MaxPositions        int           `json:"maxPositions"` // reserved, not consulted by scoring
	PreferredCommittees []string      `json:"preferredCommittees"`
	RiskTolerance       RiskTolerance `json:"riskTolerance"`
	NotificationEnabled bool          `json:"notificationEnabled"`
}

// DefaultPreferences returns the preferences a new viewer starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Budget:              10000,
		ConfidenceThreshold: 60,
		MaxPositions:        5,
		PreferredCommittees: []string{"Energy and Commerce", "Financial Services"},
		RiskTolerance:       RiskMedium,
		NotificationEnabled: true,
	}
}

// PreferencesUpdate carries one optional slot per editable field. Nil slots
// leave the current value untouched.
type PreferencesUpdate struct {
	Budget              *float64       `json:"budget,omitempty"`
	ConfidenceThreshold *int           `json:"confidenceThreshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxPositions        *int           `json:"maxPositions,omitempty" validate:"omitempty,gte=0"`
	PreferredCommittees *[]string      `json:"preferredCommittees,omitempty"`
	RiskTolerance       *RiskTolerance `json:"riskTolerance,omitempty" validate:"omitempty,oneof=low medium high"`
	NotificationEnabled *bool          `json:"notificationEnabled,omitempty"`
}

// Apply returns a copy of p with the update's non-nil slots applied.
func (u *PreferencesUpdate) Apply(p Preferences) Preferences {
	if u.Budget != nil {
		p.Budget = *u.Budget
	}
	if u.ConfidenceThreshold != nil {
		p.ConfidenceThreshold = *u.ConfidenceThreshold
	}
	if u.MaxPositions != nil {
		p.MaxPositions = *u.MaxPositions
	}
	if u.PreferredCommittees != nil {
		p.PreferredCommittees = append([]string(nil), (*u.PreferredCommittees)...)
	}
	if u.RiskTolerance != nil {
		p.RiskTolerance = *u.RiskTolerance
	}
	if u.NotificationEnabled != nil {
		p.NotificationEnabled = *u.NotificationEnabled
	}
	return p
}
