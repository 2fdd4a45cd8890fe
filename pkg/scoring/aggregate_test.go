package scoring

import (
	"testing"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSubcategory_NotApplicableExcludedFromDenominator(t *testing.T) {
	cat := testCatalog()

	sm := AggregateSubcategory("S1", partialSnapshot(), cat.Questions, cat)

	assert.Equal(t, 2, sm.TotalQuestions)
	assert.Equal(t, 2, sm.AnsweredQuestions) //NA counts as answered
	assert.Equal(t, 1, sm.ApplicableQuestions)
	//Q1 scores 1.0 * 0.8; Q2 (NA) does not dilute the mean
	assert.InDelta(t, 0.8, sm.Score, 1e-9)
	assert.Equal(t, 1.0, sm.Coverage)
}

func TestAggregateSubcategory_UnansweredScoresZero(t *testing.T) {
	cat := testCatalog()

	sm := AggregateSubcategory("S2", common.AnswerSnapshot{}, cat.Questions, cat)

	assert.Equal(t, 1, sm.TotalQuestions)
	assert.Equal(t, 0, sm.AnsweredQuestions)
	assert.Equal(t, 0.0, sm.Score)
	assert.Equal(t, 0.0, sm.Coverage)
	assert.Equal(t, "Inicial", sm.MaturityLevel.Name)
}

func TestAggregateSubcategory_UnansweredDilutesPartialProgress(t *testing.T) {
	cat := testCatalog()
	answers := common.AnswerSnapshot{
		"Q4": answer("Q4", common.Yes, common.Yes),
		//Q5 left unanswered
	}

	sm := AggregateSubcategory("S3", answers, cat.Questions, cat)

	assert.Equal(t, 2, sm.ApplicableQuestions)
	assert.Equal(t, 1, sm.AnsweredQuestions)
	//the unanswered question contributes 0 to the numerator
	assert.InDelta(t, 0.5, sm.Score, 1e-9)
	assert.InDelta(t, 0.5, sm.Coverage, 1e-9)
}

func TestAggregateSubcategory_StaleReference(t *testing.T) {
	cat := testCatalog()

	sm := AggregateSubcategory("ghost", common.AnswerSnapshot{}, cat.Questions, cat)

	assert.Equal(t, "ghost", sm.SubcatID)
	assert.Equal(t, 0, sm.TotalQuestions)
	assert.Equal(t, "Inicial", sm.MaturityLevel.Name)
}

func TestAggregateDomain_UnansweredSubcategoryExcludedFromWeightedMean(t *testing.T) {
	cat := testCatalog()

	//S1 (weight 1) scores 0.8; S2 (weight 5) is entirely unanswered and must
	//not drag the domain score down despite its larger weight
	dm := AggregateDomain("D1", partialSnapshot(), cat.Questions, cat)

	require.Len(t, dm.Subcategories, 2)
	assert.InDelta(t, 0.8, dm.Score, 1e-9)
	assert.Equal(t, 3, dm.TotalQuestions)
	assert.Equal(t, 2, dm.AnsweredQuestions)
}

func TestAggregateDomain_WeightsApplied(t *testing.T) {
	cat := testCatalog()
	answers := common.AnswerSnapshot{
		"Q1": answer("Q1", common.Yes, common.Yes),     //S1, weight 1, score contribution 1.0
		"Q2": answer("Q2", common.NotApplicable, ""),   //S1 NA
		"Q3": answer("Q3", common.No, common.Yes),      //S2, weight 5, score 0
	}

	dm := AggregateDomain("D1", answers, cat.Questions, cat)

	//(1.0*1 + 0.0*5) / (1+5)
	assert.InDelta(t, 1.0/6.0, dm.Score, 1e-9)
}

func TestAggregateDomain_CriticalGapRollup(t *testing.T) {
	cat := testCatalog()

	dm := AggregateDomain("D1", gappySnapshot(), cat.Questions, cat)

	//Q1 answered Não and Q2 unanswered, both in the Critical subcategory
	assert.Equal(t, 2, dm.CriticalGaps)
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(1, 0))
	assert.Equal(t, 0.5, clampRatio(1, 2))
	//answered can exceed applicable when NA answers are present
	assert.Equal(t, 1.0, clampRatio(3, 2))
}
