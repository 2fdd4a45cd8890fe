package scoring

import (
	"sort"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//AggregateNistFunctions regroups domain-level scores by the domains'
//regulatory-function tag. The bucket score is the simple mean of the domain
//scores of tagged domains that have at least one answered question - raw
//question scores are not re-averaged here
func AggregateNistFunctions(answers common.AnswerSnapshot, active []catalog.Question,
	cat *catalog.Catalog) []NistFunctionMetrics {

	type bucket struct {
		scoreSum    float64
		scoredCount int
		total       int
		answered    int
		applicable  int
	}
	buckets := make(map[string]*bucket)

	for _, domainID := range activeDomainIDs(active) {
		domain, present := cat.GetDomain(domainID)
		if !present || domain.NistFunction == "" {
			continue
		}
		dm := AggregateDomain(domainID, answers, active, cat)

		b, present := buckets[domain.NistFunction]
		if !present {
			b = &bucket{}
			buckets[domain.NistFunction] = b
		}
		b.total += dm.TotalQuestions
		b.answered += dm.AnsweredQuestions
		b.applicable += dm.ApplicableQuestions
		if dm.AnsweredQuestions > 0 {
			b.scoreSum += dm.Score
			b.scoredCount++
		}
	}

	out := make([]NistFunctionMetrics, 0, len(buckets))
	for function, b := range buckets {
		m := NistFunctionMetrics{Function: function}
		if b.scoredCount > 0 {
			m.Score = b.scoreSum / float64(b.scoredCount)
		}
		m.Coverage = clampRatio(b.answered, b.applicable)
		m.TotalQuestions = b.total
		m.AnsweredQuestions = b.answered
		m.MaturityLevel = cat.MaturityLevelFor(m.Score)
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Function < out[j].Function })
	return out
}

//AggregateOwnership regroups the active questions by owning role, falling
//back to the subcategory's owner when the question carries none. The bucket
//score is the unweighted mean of effective scores over answered, applicable
//questions
func AggregateOwnership(answers common.AnswerSnapshot, active []catalog.Question,
	cat *catalog.Catalog) []OwnershipMetrics {

	buckets := make(map[catalog.OwnershipType]*questionBucket)

	for _, q := range active {
		owner := q.OwnershipType
		if owner == "" {
			if subcat, present := cat.GetSubcategory(q.SubcatID); present {
				owner = subcat.OwnershipType
			}
		}
		if owner == "" {
			continue
		}
		b, present := buckets[owner]
		if !present {
			b = &questionBucket{}
			buckets[owner] = b
		}
		b.add(q.ID, answers, cat)
	}

	out := make([]OwnershipMetrics, 0, len(buckets))
	for owner, b := range buckets {
		out = append(out, OwnershipMetrics{OwnershipType: owner, GroupMetrics: b.metrics(cat)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OwnershipType < out[j].OwnershipType })
	return out
}

//AggregateFrameworkCategories regroups the active questions by classified
//framework category. A question citing frameworks in several categories
//belongs to each of them; citations matching no classifier rule contribute
//to no category
func AggregateFrameworkCategories(answers common.AnswerSnapshot, active []catalog.Question,
	cat *catalog.Catalog) []FrameworkCategoryMetrics {

	buckets := make(map[string]*questionBucket)

	for _, q := range active {
		subcat, _ := cat.GetSubcategory(q.SubcatID)

		categories := make(map[string]struct{})
		for _, tag := range q.FrameworkTags(subcat) {
			if category, matched := cat.ClassifyCitation(tag); matched {
				categories[category] = struct{}{}
			}
		}

		for category := range categories {
			b, present := buckets[category]
			if !present {
				b = &questionBucket{}
				buckets[category] = b
			}
			b.add(q.ID, answers, cat)
		}
	}

	out := make([]FrameworkCategoryMetrics, 0, len(buckets))
	for category, b := range buckets {
		out = append(out, FrameworkCategoryMetrics{Category: category, GroupMetrics: b.metrics(cat)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

//questionBucket accumulates question-level effective scores for one bucket
type questionBucket struct {
	scoreSum    float64
	scoredCount int
	total       int
	answered    int
	applicable  int
}

func (b *questionBucket) add(questionID string, answers common.AnswerSnapshot, cat *catalog.Catalog) {
	b.total++
	qs, answer := scoreFor(questionID, answers, cat)
	if answer != nil && answer.Response.Answered() {
		b.answered++
	}
	if !qs.IsApplicable {
		return
	}
	b.applicable++
	if qs.EffectiveScore != nil {
		b.scoreSum += *qs.EffectiveScore
		b.scoredCount++
	}
}

func (b *questionBucket) metrics(cat *catalog.Catalog) GroupMetrics {
	m := GroupMetrics{
		TotalQuestions:    b.total,
		AnsweredQuestions: b.answered,
	}
	if b.scoredCount > 0 {
		m.Score = b.scoreSum / float64(b.scoredCount)
	}
	m.Coverage = clampRatio(b.answered, b.applicable)
	m.MaturityLevel = cat.MaturityLevelFor(m.Score)
	return m
}

//activeDomainIDs returns the distinct domain IDs of the active question set
//in order of first occurrence
func activeDomainIDs(active []catalog.Question) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, q := range active {
		if _, present := seen[q.DomainID]; present {
			continue
		}
		seen[q.DomainID] = struct{}{}
		out = append(out, q.DomainID)
	}
	return out
}
