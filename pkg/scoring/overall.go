package scoring

import (
	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//ComputeOverall combines domain metrics into one organisation-wide snapshot
//and fans out to the cross-cutting aggregators. Each domain enters the
//top-level weighted mean at the average of its subcategories' weights - the
//catalog deliberately carries no independent domain weight. Only domains with
//answered, applicable questions contribute to the weighted mean. The coverage
//denominator is the count of active questions supplied, not the sum of
//per-domain applicable counts; the two differ when questions reference
//domains missing from the catalog
func ComputeOverall(answers common.AnswerSnapshot, active []catalog.Question,
	cat *catalog.Catalog) OverallMetrics {

	metrics := OverallMetrics{TotalQuestions: len(active)}

	var weightedSum, weightSum float64
	for _, domainID := range activeDomainIDs(active) {
		if _, present := cat.GetDomain(domainID); !present {
			//stale reference, skip the domain but keep its questions in the
			//overall coverage denominator
			continue
		}
		dm := AggregateDomain(domainID, answers, active, cat)
		metrics.Domains = append(metrics.Domains, dm)
		metrics.CriticalGaps += dm.CriticalGaps

		if dm.AnsweredQuestions > 0 && dm.ApplicableQuestions > 0 {
			weight := meanSubcategoryWeight(dm.Subcategories)
			weightedSum += dm.Score * weight
			weightSum += weight
		}
	}

	if weightSum > 0 {
		metrics.Score = weightedSum / weightSum
	}

	//answered/applicable counted over the active set directly so dangling
	//domain references still show up in coverage
	var evidenceSum float64
	var evidenceCount int
	for _, q := range active {
		answer, present := answers[q.ID]
		if !present || !answer.Response.Answered() {
			metrics.ApplicableQuestions++
			continue
		}
		metrics.AnsweredQuestions++
		if !answer.Response.Applicable() {
			continue
		}
		metrics.ApplicableQuestions++

		//evidence readiness deliberately uses the strict table lookup,
		//counting missing evidence as "Não" rather than the partial-trust
		//multiplier applied at question-scoring time
		multiplier, known := cat.EvidenceMultiplier(answer.EvidenceOK)
		if !known {
			multiplier, _ = cat.EvidenceMultiplier(common.No)
		}
		evidenceSum += multiplier
		evidenceCount++
	}

	if evidenceCount > 0 {
		metrics.EvidenceReadiness = evidenceSum / float64(evidenceCount)
	}

	if metrics.TotalQuestions > 0 {
		metrics.Coverage = clampRatio(metrics.AnsweredQuestions, metrics.TotalQuestions)
	}

	metrics.MaturityLevel = cat.MaturityLevelFor(metrics.Score)
	metrics.NistFunctions = AggregateNistFunctions(answers, active, cat)
	metrics.Ownership = AggregateOwnership(answers, active, cat)
	metrics.FrameworkCategories = AggregateFrameworkCategories(answers, active, cat)

	return metrics
}

//meanSubcategoryWeight averages the weights of the subcategories rolled up
//into a domain, serving as the domain's own weight in the top-level mean
func meanSubcategoryWeight(subcategories []SubcategoryMetrics) float64 {
	if len(subcategories) == 0 {
		return 0
	}
	var sum float64
	for _, sm := range subcategories {
		sum += sm.Weight
	}
	return sum / float64(len(subcategories))
}
