package scoring

import (
	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//AggregateSubcategory rolls up the active questions of one subcategory.
//A completely unanswered subcategory scores 0, not "no data" - unanswered
//work visibly penalises aggregate scores. Questions answered "NA" count as
//answered but are excluded from the applicable denominator
func AggregateSubcategory(subcatID string, answers common.AnswerSnapshot,
	active []catalog.Question, cat *catalog.Catalog) SubcategoryMetrics {

	metrics := SubcategoryMetrics{SubcatID: subcatID}

	subcat, present := cat.GetSubcategory(subcatID)
	if !present {
		//stale reference, degenerate but non-crashing output
		metrics.MaturityLevel = cat.MaturityLevelFor(0)
		return metrics
	}

	metrics.DomainID = subcat.DomainID
	metrics.Name = subcat.Name
	metrics.Criticality = subcat.Criticality
	metrics.Weight = subcat.Weight

	var scoreSum float64
	for _, q := range active {
		if q.SubcatID != subcatID {
			continue
		}
		metrics.TotalQuestions++

		qs, answer := scoreFor(q.ID, answers, cat)
		if answer != nil && answer.Response.Answered() {
			metrics.AnsweredQuestions++
		}
		if !qs.IsApplicable {
			continue
		}
		metrics.ApplicableQuestions++

		if qs.EffectiveScore != nil {
			scoreSum += *qs.EffectiveScore
		}

		//unanswered counts as a zero-scoring gap
		if subcat.Criticality.Severe() && (qs.EffectiveScore == nil || *qs.EffectiveScore < DefaultGapThreshold) {
			metrics.CriticalGaps++
		}
	}

	if metrics.AnsweredQuestions > 0 && metrics.ApplicableQuestions > 0 {
		metrics.Score = scoreSum / float64(metrics.ApplicableQuestions)
	}
	metrics.Coverage = clampRatio(metrics.AnsweredQuestions, metrics.ApplicableQuestions)
	metrics.MaturityLevel = cat.MaturityLevelFor(metrics.Score)

	return metrics
}

//AggregateDomain computes the weighted mean of a domain's subcategory scores.
//Only subcategories with at least one answered and applicable question enter
//the weighted numerator and denominator: an entirely-unstarted subcategory
//still counts towards coverage but must not drag the domain score to 0.
//This is deliberately asymmetric with the subcategory-level zero rule
func AggregateDomain(domainID string, answers common.AnswerSnapshot,
	active []catalog.Question, cat *catalog.Catalog) DomainMetrics {

	metrics := DomainMetrics{DomainID: domainID}

	if domain, present := cat.GetDomain(domainID); present {
		metrics.Name = domain.Name
	}

	var weightedSum, weightSum float64
	for _, subcat := range cat.SubcategoriesOf(domainID) {
		if !hasActiveQuestion(subcat.ID, active) {
			continue
		}
		sm := AggregateSubcategory(subcat.ID, answers, active, cat)

		metrics.Subcategories = append(metrics.Subcategories, sm)
		metrics.TotalQuestions += sm.TotalQuestions
		metrics.AnsweredQuestions += sm.AnsweredQuestions
		metrics.ApplicableQuestions += sm.ApplicableQuestions
		metrics.CriticalGaps += sm.CriticalGaps

		if sm.ApplicableQuestions > 0 && sm.AnsweredQuestions > 0 {
			weightedSum += sm.Score * sm.Weight
			weightSum += sm.Weight
		}
	}

	if weightSum > 0 {
		metrics.Score = weightedSum / weightSum
	}
	metrics.Coverage = clampRatio(metrics.AnsweredQuestions, metrics.ApplicableQuestions)
	metrics.MaturityLevel = cat.MaturityLevelFor(metrics.Score)

	return metrics
}

func hasActiveQuestion(subcatID string, active []catalog.Question) bool {
	for _, q := range active {
		if q.SubcatID == subcatID {
			return true
		}
	}
	return false
}

//clampRatio divides, returning 0 on an empty denominator and clamping to [0,1]
//so a not-applicable answer cannot push coverage beyond complete
func clampRatio(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	ratio := float64(numerator) / float64(denominator)
	if ratio > 1 {
		return 1
	}
	return ratio
}
