package engine

// Context maps oversight committees to the lowercase keywords that signal
// topical overlap with a traded instrument. CompanyDeals carries known
// company-to-committee associations for future use; nothing consults it yet.
type Context struct {
	CommitteeKeywords map[string][]string `json:"committeeKeywords" yaml:"committee_keywords"`
	CompanyDeals      map[string][]string `json:"companyDeals" yaml:"company_deals"`
}

// DefaultContext returns the committee keyword table the engine ships with.
// Callers get a fresh value each time, so per-call overrides can never leak
// into the shared default.
func DefaultContext() Context {
	return Context{
		CommitteeKeywords: map[string][]string{
			"Energy and Commerce":                        {"energy", "oil", "gas", "utilities", "telecom", "pharma", "biotech", "health"},
			"Financial Services":                         {"bank", "fintech", "insurance", "asset", "broker", "exchange", "payment"},
			"Armed Services":                             {"defense", "aerospace", "military", "weapons", "contractor"},
			"Agriculture":                                {"agri", "farm", "crop", "fertilizer", "food"},
			"Transportation and Infrastructure":          {"airline", "rail", "shipping", "logistics", "infrastructure", "autonomous"},
			"Judiciary":                                  {"legal", "antitrust", "litigation", "privacy"},
			"Homeland Security":                          {"cyber", "surveillance", "security", "border"},
			"Science, Space, and Technology":             {"semiconductor", "chip", "ai", "software", "space", "satellite", "cloud", "nvidia", "intel", "quantum"},
			"Health, Education, Labor, and Pensions":     {"health", "biotech", "education", "workforce"},
		},
		CompanyDeals: map[string][]string{},
	}
}

// Merge applies override on top of c with top-level shallow semantics: a
// non-nil sub-map in override fully replaces the corresponding sub-map in c.
// Neither input is mutated.
func (c Context) Merge(override *Context) Context {
	if override == nil {
		return c
	}
	out := c
	if override.CommitteeKeywords != nil {
		out.CommitteeKeywords = override.CommitteeKeywords
	}
	if override.CompanyDeals != nil {
		out.CompanyDeals = override.CompanyDeals
	}
	return out
}

// Keywords returns the keyword set for a committee. An unknown committee is
// not an error, it simply has no keywords and can never match.
func (c Context) Keywords(committee string) []string {
	return c.CommitteeKeywords[committee]
}
