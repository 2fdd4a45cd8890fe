package scoring

import (
	"sort"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//FrameworkCoverage maps the active questions onto the primary authoritative
//frameworks via the catalog's name-normalisation rules and reports per-
//framework coverage and mean effective score. Citations normalising to a
//non-primary target are recognised but dropped. A question citing the same
//framework under several spellings counts once per framework
func FrameworkCoverage(answers common.AnswerSnapshot, active []catalog.Question,
	cat *catalog.Catalog) []FrameworkCoverageMetrics {

	type bucket struct {
		total    int
		answered int
		scoreSum float64
		scored   int
	}
	buckets := make(map[string]*bucket)

	for _, q := range active {
		subcat, _ := cat.GetSubcategory(q.SubcatID)

		frameworks := make(map[string]struct{})
		for _, tag := range q.FrameworkTags(subcat) {
			target, primary := cat.NormaliseFrameworkName(tag)
			if !primary {
				continue
			}
			frameworks[target] = struct{}{}
		}
		if len(frameworks) == 0 {
			continue
		}

		qs, answer := scoreFor(q.ID, answers, cat)
		answered := answer != nil && answer.Response.Answered() && answer.Response.Applicable()

		for framework := range frameworks {
			b, present := buckets[framework]
			if !present {
				b = &bucket{}
				buckets[framework] = b
			}
			b.total++
			if answered {
				b.answered++
				if qs.EffectiveScore != nil {
					b.scoreSum += *qs.EffectiveScore
					b.scored++
				}
			}
		}
	}

	out := make([]FrameworkCoverageMetrics, 0, len(buckets))
	for framework, b := range buckets {
		m := FrameworkCoverageMetrics{
			Framework:         framework,
			TotalQuestions:    b.total,
			AnsweredQuestions: b.answered,
			Coverage:          clampRatio(b.answered, b.total),
		}
		if b.scored > 0 {
			m.AverageScore = b.scoreSum / float64(b.scored)
		}
		out = append(out, m)
	}

	//largest framework footprint first, names break ties
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalQuestions != out[j].TotalQuestions {
			return out[i].TotalQuestions > out[j].TotalQuestions
		}
		return out[i].Framework < out[j].Framework
	})

	return out
}
