package catalog

import (
	"fmt"
	"sort"
	"strings"

	common "github.com/segmatura/segmatura-core/pkg"
)

//Catalog is the immutable reference dataset the scoring core computes over:
//taxonomy, maturity bands, lookup tables and framework rules. Supplied once
//per session; the scoring core never mutates it
type Catalog struct {
	Domains         []Domain
	Subcategories   []Subcategory
	Questions       []Question
	MaturityLevels  []MaturityLevel
	Tables          ScoringTables
	ClassifierRules []ClassifierRule
	NameRules       []NameRule

	domainIndex   map[string]*Domain
	subcatIndex   map[string]*Subcategory
	questionIndex map[string]*Question
	subcatsByDom  map[string][]*Subcategory
	questionsBySC map[string][]*Question
}

//NewCatalog builds the lookup indexes over the supplied reference data.
//Missing tables, bands or rules fall back to the built-in defaults
func NewCatalog(domains []Domain, subcategories []Subcategory, questions []Question,
	levels []MaturityLevel, tables *ScoringTables, classifierRules []ClassifierRule,
	nameRules []NameRule) *Catalog {

	cat := &Catalog{
		Domains:        domains,
		Subcategories:  subcategories,
		Questions:      questions,
		MaturityLevels: levels,
	}

	if len(cat.MaturityLevels) == 0 {
		cat.MaturityLevels = DefaultMaturityLevels()
	}
	if tables == nil {
		cat.Tables = DefaultScoringTables()
	} else {
		cat.Tables = *tables
	}
	if len(classifierRules) == 0 {
		cat.ClassifierRules = DefaultClassifierRules()
	} else {
		cat.ClassifierRules = classifierRules
	}
	if len(nameRules) == 0 {
		cat.NameRules = DefaultNameRules()
	} else {
		cat.NameRules = nameRules
	}

	sort.SliceStable(cat.MaturityLevels, func(i, j int) bool {
		return cat.MaturityLevels[i].Level < cat.MaturityLevels[j].Level
	})

	cat.domainIndex = make(map[string]*Domain)
	for i := range cat.Domains {
		cat.domainIndex[cat.Domains[i].ID] = &cat.Domains[i]
	}

	cat.subcatIndex = make(map[string]*Subcategory)
	cat.subcatsByDom = make(map[string][]*Subcategory)
	for i := range cat.Subcategories {
		sc := &cat.Subcategories[i]
		cat.subcatIndex[sc.ID] = sc
		cat.subcatsByDom[sc.DomainID] = append(cat.subcatsByDom[sc.DomainID], sc)
	}

	cat.questionIndex = make(map[string]*Question)
	cat.questionsBySC = make(map[string][]*Question)
	for i := range cat.Questions {
		q := &cat.Questions[i]
		cat.questionIndex[q.ID] = q
		cat.questionsBySC[q.SubcatID] = append(cat.questionsBySC[q.SubcatID], q)
	}

	return cat
}

//GetDomain looks up a domain by ID
func (cat *Catalog) GetDomain(id string) (*Domain, bool) {
	d, present := cat.domainIndex[id]
	return d, present
}

//GetSubcategory looks up a subcategory by ID
func (cat *Catalog) GetSubcategory(id string) (*Subcategory, bool) {
	sc, present := cat.subcatIndex[id]
	return sc, present
}

//GetQuestion looks up a question by ID
func (cat *Catalog) GetQuestion(id string) (*Question, bool) {
	q, present := cat.questionIndex[id]
	return q, present
}

//SubcategoriesOf returns the subcategories of a domain in catalog order
func (cat *Catalog) SubcategoriesOf(domainID string) []*Subcategory {
	return cat.subcatsByDom[domainID]
}

//QuestionsOf returns the questions of a subcategory in catalog order
func (cat *Catalog) QuestionsOf(subcatID string) []*Question {
	return cat.questionsBySC[subcatID]
}

//MaturityLevelFor returns the band containing the score, or the lowest band
//as a fallback so display code always has something to render
func (cat *Catalog) MaturityLevelFor(score float64) MaturityLevel {
	for _, level := range cat.MaturityLevels {
		if score >= level.MinScore && score <= level.MaxScore {
			return level
		}
	}
	if len(cat.MaturityLevels) > 0 {
		return cat.MaturityLevels[0]
	}
	return MaturityLevel{}
}

//ResponseScore looks up the authoritative score for a response value
func (cat *Catalog) ResponseScore(r common.Response) (float64, bool) {
	score, present := cat.Tables.ResponseScores[r]
	return score, present
}

//EvidenceMultiplier looks up the evidence-quality multiplier for a response value
func (cat *Catalog) EvidenceMultiplier(r common.Response) (float64, bool) {
	m, present := cat.Tables.EvidenceMultipliers[r]
	return m, present
}

//ClassifyCitation maps one raw framework citation to a framework category.
//The first rule whose pattern is a folded substring of the citation wins;
//citations matching no rule belong to no category
func (cat *Catalog) ClassifyCitation(citation string) (string, bool) {
	folded := common.Fold(citation)
	for _, rule := range cat.ClassifierRules {
		if containsFold(folded, rule.Pattern) {
			return rule.Category, true
		}
	}
	return "", false
}

//NormaliseFrameworkName maps a raw framework citation to an authoritative
//framework name. The boolean result is false when the citation matched no
//rule or matched a non-primary target, in which case it must be dropped
func (cat *Catalog) NormaliseFrameworkName(citation string) (string, bool) {
	folded := common.Fold(citation)
	for _, rule := range cat.NameRules {
		if containsFold(folded, rule.Pattern) {
			if !rule.Primary {
				return rule.Target, false
			}
			return rule.Target, true
		}
	}
	return "", false
}

func containsFold(foldedValue, pattern string) bool {
	p := common.Fold(pattern)
	if p == "" {
		return false
	}
	return strings.Contains(foldedValue, p)
}

//Validate reports catalog-integrity problems (dangling references, empty
//band table) for the caller to act on before invoking the scoring core. The
//scoring functions themselves skip bad references rather than failing
func (cat *Catalog) Validate() (problems []error) {
	if len(cat.MaturityLevels) == 0 {
		problems = append(problems, fmt.Errorf("catalog has no maturity levels"))
	}
	for _, sc := range cat.Subcategories {
		if _, present := cat.domainIndex[sc.DomainID]; !present {
			problems = append(problems, fmt.Errorf("subcategory %s references unknown domain %s", sc.ID, sc.DomainID))
		}
		if sc.Weight < 0 {
			problems = append(problems, fmt.Errorf("subcategory %s has negative weight %f", sc.ID, sc.Weight))
		}
	}
	for _, q := range cat.Questions {
		if _, present := cat.subcatIndex[q.SubcatID]; !present {
			problems = append(problems, fmt.Errorf("question %s references unknown subcategory %s", q.ID, q.SubcatID))
		}
		if _, present := cat.domainIndex[q.DomainID]; !present {
			problems = append(problems, fmt.Errorf("question %s references unknown domain %s", q.ID, q.DomainID))
		}
	}
	return
}
