package domains

import (
	"testing"

	"marketscout/internal/core"
)

func TestClassifyKnownCategories(t *testing.T) {
	cases := []struct {
		host     string
		wantType core.DomainType
	}{
		{"reuters.com", core.DomainNews},
		{"www.bloomberg.com", core.DomainNews},
		{"forbes.com", core.DomainBusiness},
		{"techcrunch.com", core.DomainTechnology},
		{"mit.edu", core.DomainAcademic},
		{"energy.gov", core.DomainGovernment},
		{"steelassociation.com", core.DomainIndustry},
		{"example.com", core.DomainGeneral},
	}

	for _, tc := range cases {
		profile := Classify(tc.host)
		if profile.Type != tc.wantType {
			t.Errorf("Classify(%q).Type = %s, want %s", tc.host, profile.Type, tc.wantType)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// "ft.com" is a news keyword; even though "finance" would match business,
	// news is checked first.
	profile := Classify("ft.com")
	if profile.Type != core.DomainNews {
		t.Errorf("expected ft.com to classify as news, got %s", profile.Type)
	}
}

func TestCredibilityTiers(t *testing.T) {
	cases := []struct {
		host string
		want float64
	}{
		{"reuters.com", 1.0},
		{"www.wsj.com", 1.0},
		{"forbes.com", 0.8},
		{"stanford.edu", 0.9},
		{"treasury.gov", 0.9},
		{"example.org", 0.7},
		{"randomblog.net", 0.6},
	}

	for _, tc := range cases {
		profile := Classify(tc.host)
		if profile.Credibility != tc.want {
			t.Errorf("Classify(%q).Credibility = %v, want %v", tc.host, profile.Credibility, tc.want)
		}
	}
}

func TestClassifyAlwaysInRange(t *testing.T) {
	hosts := []string{"", "weird..host", "UPPERCASE.COM", "a", "x.io"}
	for _, host := range hosts {
		profile := Classify(host)
		if profile.Credibility < 0.6 || profile.Credibility > 1.0 {
			t.Errorf("Classify(%q) credibility %v out of [0.6,1.0]", host, profile.Credibility)
		}
		if profile.Type == "" {
			t.Errorf("Classify(%q) returned empty type", host)
		}
	}
}
