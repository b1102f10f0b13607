package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultContextIsFresh(t *testing.T) {
	a := DefaultContext()
	a.CommitteeKeywords["Judiciary"] = []string{"mutated"}

	b := DefaultContext()
	assert.Equal(t, []string{"legal", "antitrust", "litigation", "privacy"}, b.CommitteeKeywords["Judiciary"])
}

func TestMergeNilOverride(t *testing.T) {
	base := DefaultContext()
	merged := base.Merge(nil)
	assert.Equal(t, base, merged)
}

func TestMergeReplacesSubMapWholesale(t *testing.T) {
	base := DefaultContext()
	override := &Context{
		CommitteeKeywords: map[string][]string{"Judiciary": {"widget"}},
	}

	merged := base.Merge(override)

	// A non-nil sub-map in the override replaces the base sub-map entirely:
	// every committee not named in the override is gone.
	assert.Equal(t, []string{"widget"}, merged.CommitteeKeywords["Judiciary"])
	assert.Empty(t, merged.CommitteeKeywords["Armed Services"])

	// CompanyDeals was nil in the override, so the base value survives.
	assert.Equal(t, base.CompanyDeals, merged.CompanyDeals)

	// The base itself is untouched.
	assert.NotEmpty(t, base.CommitteeKeywords["Armed Services"])
}

func TestKeywordsUnknownCommittee(t *testing.T) {
	c := DefaultContext()
	assert.Nil(t, c.Keywords("Select Committee on Nothing"))
}
