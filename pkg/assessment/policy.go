package assessment

import (
	"regexp"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//QuestionFilter implements an active-question-set strategy
type QuestionFilter interface {
	//ShouldExcludeQuestion determines whether the question is dropped from the
	//active set based on its id
	ShouldExcludeQuestion(questionID string) bool
	ShouldExcludeSubcategory(subcatID string) bool
	//ShouldIncludeFrameworks determines whether a question citing the supplied
	//framework tags stays in scope under the enabled-frameworks restriction
	ShouldIncludeFrameworks(tags []string) bool
}

//AssessmentPolicy describes which catalog questions are in scope for an
//assessment. An empty policy keeps the whole catalog active
type AssessmentPolicy struct {
	//EnabledFrameworks restricts the active set to questions citing at least one
	//of these frameworks. Empty means no framework restriction
	EnabledFrameworks []string `yaml:"EnabledFrameworks,omitempty"`
	//DisabledQuestions lists question ids dropped from the active set
	DisabledQuestions []string `yaml:"DisabledQuestions,omitempty"`
	//DisabledSubcategories drops every question of the listed subcategories
	DisabledSubcategories []string `yaml:"DisabledSubcategories,omitempty"`
	//QuestionExclusionRegExs specify regular expressions that drop questions whose ids match
	QuestionExclusionRegExs []string `yaml:"QuestionExclusionRegExs,omitempty"`
}

//defaultQuestionFilter contains the mechanisms for scoping the question set
type defaultQuestionFilter struct {
	*AssessmentPolicy
	disabledQuestions       map[string]struct{}
	disabledSubcategories   map[string]struct{}
	enabledFrameworksFolded []string
	exclusionRegExsCompiled []*regexp.Regexp
}

//CompilePolicy returns a QuestionFilter with the regular expressions already compiled
func CompilePolicy(policy *AssessmentPolicy) (QuestionFilter, error) {
	qf := defaultQuestionFilter{
		AssessmentPolicy: policy,
	}
	if err := qf.compile(); err != nil {
		return nil, err
	}
	return &qf, nil
}

//MakeEmptyPolicy creates a filter that keeps the whole catalog active
func MakeEmptyPolicy() QuestionFilter {
	qf, _ := CompilePolicy(&AssessmentPolicy{})
	return qf
}

func (qf *defaultQuestionFilter) compile() error {
	qf.disabledQuestions = make(map[string]struct{})
	for _, id := range qf.DisabledQuestions {
		qf.disabledQuestions[id] = struct{}{}
	}

	qf.disabledSubcategories = make(map[string]struct{})
	for _, id := range qf.DisabledSubcategories {
		qf.disabledSubcategories[id] = struct{}{}
	}

	qf.enabledFrameworksFolded = make([]string, 0)
	for _, fw := range qf.EnabledFrameworks {
		if folded := common.Fold(fw); folded != "" {
			qf.enabledFrameworksFolded = append(qf.enabledFrameworksFolded, folded)
		}
	}

	qf.exclusionRegExsCompiled = make([]*regexp.Regexp, 0)
	for _, s := range qf.QuestionExclusionRegExs {
		if re, err := regexp.Compile(s); err == nil {
			qf.exclusionRegExsCompiled = append(qf.exclusionRegExsCompiled, re)
		} else {
			return err
		}
	}
	return nil
}

func (qf *defaultQuestionFilter) ShouldExcludeQuestion(questionID string) bool {
	if _, present := qf.disabledQuestions[questionID]; present {
		return true
	}
	for _, rx := range qf.exclusionRegExsCompiled {
		if rx.MatchString(questionID) {
			return true
		}
	}
	return false
}

func (qf *defaultQuestionFilter) ShouldExcludeSubcategory(subcatID string) bool {
	_, present := qf.disabledSubcategories[subcatID]
	return present
}

func (qf *defaultQuestionFilter) ShouldIncludeFrameworks(tags []string) bool {
	if len(qf.enabledFrameworksFolded) == 0 {
		return true
	}
	for _, tag := range tags {
		folded := common.Fold(tag)
		for _, enabled := range qf.enabledFrameworksFolded {
			if folded == enabled {
				return true
			}
		}
	}
	return false
}

//ActiveQuestions materialises the active question set of a catalog under a
//filter, in catalog order, deduplicated by question id (first occurrence wins)
func ActiveQuestions(cat *catalog.Catalog, filter QuestionFilter) []catalog.Question {
	if filter == nil {
		filter = MakeEmptyPolicy()
	}

	active := []catalog.Question{}
	seen := make(map[string]struct{})

	for _, q := range cat.Questions {
		if _, duplicate := seen[q.ID]; duplicate {
			continue
		}
		seen[q.ID] = struct{}{}

		if filter.ShouldExcludeQuestion(q.ID) || filter.ShouldExcludeSubcategory(q.SubcatID) {
			continue
		}

		subcat, _ := cat.GetSubcategory(q.SubcatID)
		if !filter.ShouldIncludeFrameworks(q.FrameworkTags(subcat)) {
			continue
		}

		active = append(active, q)
	}

	return active
}
