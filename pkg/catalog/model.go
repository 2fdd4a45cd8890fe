package catalog

import (
	common "github.com/segmatura/segmatura-core/pkg"
)

//Criticality ranks how severe an unaddressed subcategory is
type Criticality string

const (
	Low      Criticality = "Low"
	Medium   Criticality = "Medium"
	High     Criticality = "High"
	Critical Criticality = "Critical"
)

//Severe indicates whether gaps in this criticality band are surfaced by the gap detector
func (c Criticality) Severe() bool {
	return c == High || c == Critical
}

//rank orders criticalities for gap sorting, worst first
func (c Criticality) rank() int {
	switch c {
	case Critical:
		return 0
	case High:
		return 1
	case Medium:
		return 2
	}
	return 3
}

//MoreCriticalThan reports whether c sorts before other in gap ordering
func (c Criticality) MoreCriticalThan(other Criticality) bool {
	return c.rank() < other.rank()
}

//OwnershipType identifies which organisational role owns a question or subcategory
type OwnershipType string

const (
	Executive   OwnershipType = "Executive"
	GRC         OwnershipType = "GRC"
	Engineering OwnershipType = "Engineering"
)

//Domain is a top-level security domain in the assessment taxonomy
type Domain struct {
	ID   string `yaml:"ID"`
	Name string `yaml:"Name"`
	//NistFunction tags the domain with a regulatory function (e.g. Identify, Protect, Detect, Respond)
	NistFunction string `yaml:"NistFunction,omitempty"`
}

//Subcategory groups questions within a domain. Weight is its relative
//importance within the domain's weighted average
type Subcategory struct {
	ID            string        `yaml:"ID"`
	DomainID      string        `yaml:"DomainID"`
	Name          string        `yaml:"Name"`
	Criticality   Criticality   `yaml:"Criticality"`
	Weight        float64       `yaml:"Weight"`
	OwnershipType OwnershipType `yaml:"OwnershipType,omitempty"`
	//FrameworkRefs are free-text regulatory citations that apply to every question in the subcategory
	FrameworkRefs []string `yaml:"FrameworkRefs,omitempty"`
}

//Question belongs to exactly one subcategory and, transitively, one domain
type Question struct {
	ID            string        `yaml:"ID"`
	SubcatID      string        `yaml:"SubcatID"`
	DomainID      string        `yaml:"DomainID"`
	Text          string        `yaml:"Text,omitempty"`
	OwnershipType OwnershipType `yaml:"OwnershipType,omitempty"`
	//Frameworks are free-text framework citations, e.g. "ISO/IEC 27001 Annex A.5"
	Frameworks []string `yaml:"Frameworks,omitempty"`
}

//FrameworkTags returns the union of the question's own framework citations and
//the subcategory's framework references, deduplicated. Subcategory-level
//regulatory references must not be lost when classifying questions
func (q Question) FrameworkTags(subcat *Subcategory) []string {
	if subcat == nil {
		return common.UniqueStrings(q.Frameworks)
	}
	return common.UniqueStrings(q.Frameworks, subcat.FrameworkRefs)
}

//MaturityLevel is a named, colored score band. Bands partition [0,1] into
//contiguous non-overlapping intervals
type MaturityLevel struct {
	Level    int     `yaml:"Level"`
	Name     string  `yaml:"Name"`
	MinScore float64 `yaml:"MinScore"`
	MaxScore float64 `yaml:"MaxScore"`
	Color    string  `yaml:"Color,omitempty"`
}

//ScoringTables hold the authoritative response-to-score and
//evidence-to-multiplier lookups, plus the degraded multiplier substituted at
//question-scoring time when evidence is missing or marked not-applicable
type ScoringTables struct {
	ResponseScores      map[common.Response]float64 `yaml:"ResponseScores"`
	EvidenceMultipliers map[common.Response]float64 `yaml:"EvidenceMultipliers"`
	//MissingEvidenceMultiplier reflects partial trust: worse than "partial" evidence, better than "none"
	MissingEvidenceMultiplier float64 `yaml:"MissingEvidenceMultiplier"`
}

//ClassifierRule maps a raw framework citation to a framework category by
//case- and diacritic-insensitive substring match. Rules are evaluated in
//order and the first match wins for a given citation
type ClassifierRule struct {
	Pattern  string `yaml:"Pattern"`
	Category string `yaml:"Category"`
}

//NameRule normalises a raw framework citation to an authoritative framework
//name. Citations matching no rule, or a rule that is not Primary, are dropped
//from coverage reporting
type NameRule struct {
	Pattern string `yaml:"Pattern"`
	Target  string `yaml:"Target"`
	//Primary marks targets that are surfaced as coverage dimensions. Frameworks
	//like MITRE ATLAS, STRIDE, CIS, SOC2, GDPR and the EU AI Act are recognised
	//but deliberately never reported as primary
	Primary bool `yaml:"Primary"`
}
