package scoring

import (
	"testing"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCriticalGaps_OrderingAndContent(t *testing.T) {
	cat := testCatalog()

	gaps := DetectCriticalGaps(gappySnapshot(), DefaultGapThreshold, cat.Questions, cat)

	//Q1 (Critical, 0.0), Q2 (Critical, unanswered), Q4 (High, 0.35);
	//Q5 scores 1.0 and Q3 sits in a Medium subcategory
	require.Len(t, gaps, 3)

	assert.Equal(t, "Q1", gaps[0].QuestionID)
	assert.Equal(t, catalog.Critical, gaps[0].Criticality)
	require.NotNil(t, gaps[0].EffectiveScore)
	assert.Equal(t, 0.0, *gaps[0].EffectiveScore)
	assert.Equal(t, common.No, gaps[0].Response)

	assert.Equal(t, "Q2", gaps[1].QuestionID)
	assert.Nil(t, gaps[1].EffectiveScore)

	assert.Equal(t, "Q4", gaps[2].QuestionID)
	assert.Equal(t, catalog.High, gaps[2].Criticality)
	require.NotNil(t, gaps[2].EffectiveScore)
	assert.InDelta(t, 0.35, *gaps[2].EffectiveScore, 1e-9)
}

func TestDetectCriticalGaps_NotApplicableSkipped(t *testing.T) {
	cat := testCatalog()
	answers := common.AnswerSnapshot{
		"Q1": answer("Q1", common.NotApplicable, ""),
		"Q2": answer("Q2", common.Yes, common.Yes),
		"Q4": answer("Q4", common.Yes, common.Yes),
		"Q5": answer("Q5", common.Yes, common.Yes),
	}

	gaps := DetectCriticalGaps(answers, DefaultGapThreshold, cat.Questions, cat)
	assert.Empty(t, gaps)
}

func TestDetectCriticalGaps_DuplicateActiveEntries(t *testing.T) {
	cat := testCatalog()
	active := append([]catalog.Question{}, cat.Questions...)
	active = append(active, cat.Questions[0]) //Q1 listed twice

	gaps := DetectCriticalGaps(gappySnapshot(), DefaultGapThreshold, active, cat)

	ids := map[string]int{}
	for _, g := range gaps {
		ids[g.QuestionID]++
	}
	assert.Equal(t, 1, ids["Q1"])
}

func TestDetectCriticalGaps_ThresholdBoundary(t *testing.T) {
	cat := testCatalog()
	answers := common.AnswerSnapshot{
		//Q1 scores exactly 0.5, Q2 scores 1.0, the rest stay unanswered
		"Q1": answer("Q1", common.Partial, common.Yes),
		"Q2": answer("Q2", common.Yes, common.Yes),
		"Q4": answer("Q4", common.Yes, common.Yes),
	}

	gaps := DetectCriticalGaps(answers, 0.5, []catalog.Question{
		cat.Questions[0], cat.Questions[1], cat.Questions[3],
	}, cat)
	assert.Empty(t, gaps) //a score at the threshold is not a gap

	gaps = DetectCriticalGaps(answers, 0.6, []catalog.Question{
		cat.Questions[0], cat.Questions[1], cat.Questions[3],
	}, cat)
	require.Len(t, gaps, 1)
	assert.Equal(t, "Q1", gaps[0].QuestionID)
}

func TestDetectCriticalGaps_ThresholdDefaulted(t *testing.T) {
	cat := testCatalog()

	withDefault := DetectCriticalGaps(gappySnapshot(), DefaultGapThreshold, cat.Questions, cat)
	withZero := DetectCriticalGaps(gappySnapshot(), 0, cat.Questions, cat)

	assert.Equal(t, withDefault, withZero)
}
