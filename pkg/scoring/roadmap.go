package scoring

import (
	"sort"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//DefaultRoadmapSize caps the remediation roadmap when the caller passes no limit
const DefaultRoadmapSize = 10

//GenerateRoadmap condenses the detected critical gaps into at most maxItems
//prioritised remediation actions, one per affected subcategory. Each item
//deep-links to the worst-scoring gap of its subcategory. Items are capped
//after the criticality/worst-score ordering, then re-sorted so immediate
//actions lead the roadmap
func GenerateRoadmap(answers common.AnswerSnapshot, maxItems int,
	active []catalog.Question, cat *catalog.Catalog) []RoadmapItem {

	if maxItems <= 0 {
		maxItems = DefaultRoadmapSize
	}

	gaps := DetectCriticalGaps(answers, DefaultGapThreshold, active, cat)

	//gaps arrive sorted worst-first within criticality, so the first gap seen
	//for a subcategory is its worst
	items := []RoadmapItem{}
	index := make(map[string]int)

	for _, gap := range gaps {
		i, present := index[gap.SubcatID]
		if !present {
			item := RoadmapItem{
				SubcatID:    gap.SubcatID,
				Criticality: gap.Criticality,
				WorstScore:  gap.sortScore(),
				QuestionID:  gap.QuestionID,
			}
			if subcat, found := cat.GetSubcategory(gap.SubcatID); found {
				item.Name = subcat.Name
			}
			index[gap.SubcatID] = len(items)
			items = append(items, item)
			i = index[gap.SubcatID]
		}
		items[i].GapCount++
		if items[i].Criticality != catalog.Critical && gap.Criticality == catalog.Critical {
			items[i].Criticality = catalog.Critical
		}
		if gap.sortScore() < items[i].WorstScore {
			items[i].WorstScore = gap.sortScore()
			items[i].QuestionID = gap.QuestionID
		}
		if items[i].Effort != MediumEffort && gap.EffectiveScore == nil {
			//unanswered gaps need discovery before remediation
			items[i].Effort = MediumEffort
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Criticality != items[j].Criticality {
			return items[i].Criticality.MoreCriticalThan(items[j].Criticality)
		}
		return items[i].WorstScore < items[j].WorstScore
	})

	if len(items) > maxItems {
		items = items[:maxItems]
	}

	for i := range items {
		items[i].Priority = priorityFor(items[i])
		if items[i].Effort == "" {
			items[i].Effort = effortFor(items[i])
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.tier() < items[j].Priority.tier()
	})

	return items
}

func priorityFor(item RoadmapItem) Priority {
	critical := item.Criticality == catalog.Critical
	severe := item.WorstScore < 0.25
	switch {
	case critical && severe:
		return Immediate
	case critical || severe:
		return Short
	}
	return MediumTerm
}

func effortFor(item RoadmapItem) Effort {
	if item.WorstScore < 0.25 {
		return HighEffort
	}
	return LowEffort
}
