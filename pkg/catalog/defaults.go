package catalog

import (
	common "github.com/segmatura/segmatura-core/pkg"
)

//DefaultScoringTables returns the authoritative response and evidence lookups.
//The missing-evidence multiplier of 0.7 sits between the "partial" and "none"
//evidence multipliers: an unevidenced claim is partially trusted
func DefaultScoringTables() ScoringTables {
	return ScoringTables{
		ResponseScores: map[common.Response]float64{
			common.Yes:     1.0,
			common.Partial: 0.5,
			common.No:      0.0,
		},
		EvidenceMultipliers: map[common.Response]float64{
			common.Yes:     1.0,
			common.Partial: 0.8,
			common.No:      0.0,
		},
		MissingEvidenceMultiplier: 0.7,
	}
}

//DefaultMaturityLevels partitions [0,1] into five contiguous bands
func DefaultMaturityLevels() []MaturityLevel {
	return []MaturityLevel{
		{Level: 1, Name: "Inicial", MinScore: 0.0, MaxScore: 0.2, Color: "#e53935"},
		{Level: 2, Name: "Repetível", MinScore: 0.2, MaxScore: 0.4, Color: "#fb8c00"},
		{Level: 3, Name: "Definido", MinScore: 0.4, MaxScore: 0.6, Color: "#fdd835"},
		{Level: 4, Name: "Gerenciado", MinScore: 0.6, MaxScore: 0.8, Color: "#7cb342"},
		{Level: 5, Name: "Otimizado", MinScore: 0.8, MaxScore: 1.0, Color: "#43a047"},
	}
}

//DefaultClassifierRules groups raw framework citations into the framework
//categories used by the cross-cutting aggregation. First match wins per
//citation, so the more specific patterns come first
func DefaultClassifierRules() []ClassifierRule {
	return []ClassifierRule{
		{Pattern: "42001", Category: "AI Governance"},
		{Pattern: "ai rmf", Category: "AI Governance"},
		{Pattern: "ai act", Category: "AI Governance"},
		{Pattern: "atlas", Category: "AI Governance"},
		{Pattern: "27001", Category: "ISO"},
		{Pattern: "27002", Category: "ISO"},
		{Pattern: "iso", Category: "ISO"},
		{Pattern: "csf", Category: "NIST"},
		{Pattern: "nist", Category: "NIST"},
		{Pattern: "lgpd", Category: "Privacy"},
		{Pattern: "gdpr", Category: "Privacy"},
		{Pattern: "privacidade", Category: "Privacy"},
		{Pattern: "cis", Category: "Industry Practices"},
		{Pattern: "soc", Category: "Industry Practices"},
		{Pattern: "pci", Category: "Industry Practices"},
		{Pattern: "owasp", Category: "Industry Practices"},
		{Pattern: "stride", Category: "Industry Practices"},
	}
}

//DefaultNameRules normalise noisy citations to the authoritative framework
//set surfaced by coverage reporting. Non-primary targets are recognised so
//that a deliberate exclusion is distinguishable from an unknown citation,
//but they never appear as coverage dimensions
func DefaultNameRules() []NameRule {
	return []NameRule{
		{Pattern: "42001", Target: "ISO/IEC 42001", Primary: true},
		{Pattern: "27001", Target: "ISO/IEC 27001", Primary: true},
		{Pattern: "27002", Target: "ISO/IEC 27001", Primary: true},
		{Pattern: "ai rmf", Target: "NIST AI RMF", Primary: true},
		{Pattern: "nist csf", Target: "NIST CSF", Primary: true},
		{Pattern: "csf", Target: "NIST CSF", Primary: true},
		{Pattern: "ai act", Target: "EU AI Act", Primary: false},
		{Pattern: "atlas", Target: "MITRE ATLAS", Primary: false},
		{Pattern: "mitre", Target: "MITRE ATLAS", Primary: false},
		{Pattern: "stride", Target: "STRIDE", Primary: false},
		{Pattern: "cis", Target: "CIS Controls", Primary: false},
		{Pattern: "soc 2", Target: "SOC2", Primary: false},
		{Pattern: "soc2", Target: "SOC2", Primary: false},
		{Pattern: "gdpr", Target: "GDPR", Primary: false},
		{Pattern: "lgpd", Target: "LGPD", Primary: false},
		{Pattern: "owasp", Target: "OWASP", Primary: false},
	}
}
