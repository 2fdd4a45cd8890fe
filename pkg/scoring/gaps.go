package scoring

import (
	"sort"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//DefaultGapThreshold is the effective score below which an applicable
//question in a severe subcategory is reported as a critical gap
const DefaultGapThreshold = 0.5

//DetectCriticalGaps scans the active questions in High- and Critical-
//criticality subcategories and returns those that are applicable and either
//unanswered or scoring below the threshold. Duplicate question IDs in the
//active list are deduplicated, first occurrence wins - active-question
//construction may concatenate default and custom lists that collide.
//The result is ordered Critical before High, then ascending effective score
//with unanswered questions sorting as 0 (worst first)
func DetectCriticalGaps(answers common.AnswerSnapshot, threshold float64,
	active []catalog.Question, cat *catalog.Catalog) []Gap {

	if threshold <= 0 {
		threshold = DefaultGapThreshold
	}

	gaps := []Gap{}
	seen := make(map[string]struct{})

	for _, q := range active {
		if _, duplicate := seen[q.ID]; duplicate {
			continue
		}
		seen[q.ID] = struct{}{}

		subcat, present := cat.GetSubcategory(q.SubcatID)
		if !present || !subcat.Criticality.Severe() {
			continue
		}

		qs, answer := scoreFor(q.ID, answers, cat)
		if !qs.IsApplicable {
			continue
		}
		if qs.EffectiveScore != nil && *qs.EffectiveScore >= threshold {
			continue
		}

		gap := Gap{
			QuestionID:     q.ID,
			SubcatID:       q.SubcatID,
			DomainID:       q.DomainID,
			Question:       q.Text,
			Criticality:    subcat.Criticality,
			EffectiveScore: qs.EffectiveScore,
		}
		if answer != nil {
			gap.Response = answer.Response
		}
		gaps = append(gaps, gap)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Criticality != gaps[j].Criticality {
			return gaps[i].Criticality.MoreCriticalThan(gaps[j].Criticality)
		}
		return gaps[i].sortScore() < gaps[j].sortScore()
	})

	return gaps
}
