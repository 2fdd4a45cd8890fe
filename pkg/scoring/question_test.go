package scoring

import (
	"testing"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreQuestion_FullWithFullEvidence(t *testing.T) {
	cat := testCatalog()
	a := answer("Q1", common.Yes, common.Yes)

	qs := ScoreQuestion(&a, cat)
	require.NotNil(t, qs.EffectiveScore)
	assert.Equal(t, 1.0, *qs.EffectiveScore)
	assert.True(t, qs.IsApplicable)
}

func TestScoreQuestion_PartialWithMissingEvidence(t *testing.T) {
	cat := testCatalog()
	a := answer("Q1", common.Partial, common.Unanswered)

	qs := ScoreQuestion(&a, cat)
	require.NotNil(t, qs.EffectiveScore)
	//0.5 response score degraded by the 0.7 missing-evidence multiplier
	assert.InDelta(t, 0.35, *qs.EffectiveScore, 1e-9)
	require.NotNil(t, qs.EvidenceMultiplier)
	assert.Equal(t, 0.7, *qs.EvidenceMultiplier)
}

func TestScoreQuestion_EvidenceNotApplicableDegrades(t *testing.T) {
	cat := testCatalog()
	a := answer("Q1", common.Yes, common.NotApplicable)

	qs := ScoreQuestion(&a, cat)
	require.NotNil(t, qs.EffectiveScore)
	assert.InDelta(t, 0.7, *qs.EffectiveScore, 1e-9)
}

func TestScoreQuestion_NotApplicable(t *testing.T) {
	cat := testCatalog()
	a := answer("Q1", common.NotApplicable, common.Unanswered)

	qs := ScoreQuestion(&a, cat)
	assert.False(t, qs.IsApplicable)
	assert.Nil(t, qs.EffectiveScore)
}

func TestScoreQuestion_Unanswered(t *testing.T) {
	cat := testCatalog()

	qs := ScoreQuestion(nil, cat)
	assert.True(t, qs.IsApplicable)
	assert.Nil(t, qs.EffectiveScore)
	assert.Nil(t, qs.ResponseScore)

	blank := answer("Q1", common.Unanswered, common.Unanswered)
	qs = ScoreQuestion(&blank, cat)
	assert.True(t, qs.IsApplicable)
	assert.Nil(t, qs.EffectiveScore)
}

func TestScoreQuestion_UnknownResponseTreatedAsUnanswered(t *testing.T) {
	cat := testCatalog()
	a := answer("Q1", common.Response("Talvez"), common.Yes)

	qs := ScoreQuestion(&a, cat)
	assert.True(t, qs.IsApplicable)
	assert.Nil(t, qs.EffectiveScore)
}

func TestScoreQuestion_NoWithFullEvidence(t *testing.T) {
	cat := testCatalog()
	a := answer("Q1", common.No, common.Yes)

	qs := ScoreQuestion(&a, cat)
	require.NotNil(t, qs.EffectiveScore)
	assert.Equal(t, 0.0, *qs.EffectiveScore)
}
