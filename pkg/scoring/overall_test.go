package scoring

import (
	"testing"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOverall(t *testing.T) {
	cat := testCatalog()

	overall := ComputeOverall(gappySnapshot(), cat.Questions, cat)

	assert.Equal(t, 5, overall.TotalQuestions)
	assert.Equal(t, 3, overall.AnsweredQuestions)
	assert.Equal(t, 5, overall.ApplicableQuestions)
	assert.InDelta(t, 0.6, overall.Coverage, 1e-9)
	assert.Equal(t, 3, overall.CriticalGaps)

	//D1 scores 0 at mean subcategory weight 3; D2 scores 0.675 at weight 2
	assert.InDelta(t, (0.675*2)/5, overall.Score, 1e-9)
	assert.Equal(t, "Repetível", overall.MaturityLevel.Name)

	//strict evidence policy: Q1 and Q5 have full evidence, Q4 has none
	assert.InDelta(t, 2.0/3.0, overall.EvidenceReadiness, 1e-9)

	require.Len(t, overall.Domains, 2)
	require.NotEmpty(t, overall.NistFunctions)
	require.NotEmpty(t, overall.Ownership)
	require.NotEmpty(t, overall.FrameworkCategories)
}

func TestComputeOverall_Idempotent(t *testing.T) {
	cat := testCatalog()
	answers := gappySnapshot()

	first := ComputeOverall(answers, cat.Questions, cat)
	second := ComputeOverall(answers, cat.Questions, cat)

	assert.Equal(t, first, second)
}

func TestComputeOverall_ScoresWithinBounds(t *testing.T) {
	cat := testCatalog()

	snapshots := []common.AnswerSnapshot{
		{},
		partialSnapshot(),
		gappySnapshot(),
		{
			"Q1": answer("Q1", common.Yes, common.Yes),
			"Q2": answer("Q2", common.Yes, common.Yes),
			"Q3": answer("Q3", common.Yes, common.Yes),
			"Q4": answer("Q4", common.Yes, common.Yes),
			"Q5": answer("Q5", common.Yes, common.Yes),
		},
	}

	for _, answers := range snapshots {
		overall := ComputeOverall(answers, cat.Questions, cat)
		assert.GreaterOrEqual(t, overall.Score, 0.0)
		assert.LessOrEqual(t, overall.Score, 1.0)
		assert.GreaterOrEqual(t, overall.Coverage, 0.0)
		assert.LessOrEqual(t, overall.Coverage, 1.0)
		for _, dm := range overall.Domains {
			assert.GreaterOrEqual(t, dm.Score, 0.0)
			assert.LessOrEqual(t, dm.Score, 1.0)
		}
	}
}

func TestComputeOverall_EmptyActiveSet(t *testing.T) {
	cat := testCatalog()

	overall := ComputeOverall(gappySnapshot(), []catalog.Question{}, cat)

	assert.Equal(t, 0, overall.TotalQuestions)
	assert.Equal(t, 0.0, overall.Score)
	assert.Equal(t, 0.0, overall.Coverage)
	assert.Empty(t, overall.Domains)
}

func TestComputeOverall_DanglingDomainKeptInCoverage(t *testing.T) {
	cat := testCatalog()
	active := append([]catalog.Question{}, cat.Questions...)
	active = append(active, catalog.Question{ID: "QX", SubcatID: "SX", DomainID: "DX"})

	overall := ComputeOverall(gappySnapshot(), active, cat)

	assert.Equal(t, 6, overall.TotalQuestions)
	assert.Len(t, overall.Domains, 2) //the dangling domain is skipped
	assert.InDelta(t, 3.0/6.0, overall.Coverage, 1e-9)
}

func TestAggregateNistFunctions(t *testing.T) {
	cat := testCatalog()

	metrics := AggregateNistFunctions(gappySnapshot(), cat.Questions, cat)

	require.Len(t, metrics, 2)
	//sorted by function name
	assert.Equal(t, "Govern", metrics[0].Function)
	assert.Equal(t, "Protect", metrics[1].Function)

	assert.Equal(t, 0.0, metrics[0].Score)
	assert.InDelta(t, 0.675, metrics[1].Score, 1e-9)
	assert.Equal(t, 2, metrics[1].AnsweredQuestions)
}

func TestAggregateOwnership_FallsBackToSubcategoryOwner(t *testing.T) {
	cat := testCatalog()

	metrics := AggregateOwnership(gappySnapshot(), cat.Questions, cat)

	byOwner := map[catalog.OwnershipType]OwnershipMetrics{}
	for _, m := range metrics {
		byOwner[m.OwnershipType] = m
	}

	//Q1, Q2 inherit GRC from S1; Q3 inherits Engineering from S2; Q4 inherits
	//Executive from S3; Q5 carries its own Engineering tag
	require.Contains(t, byOwner, catalog.GRC)
	require.Contains(t, byOwner, catalog.Engineering)
	require.Contains(t, byOwner, catalog.Executive)

	assert.Equal(t, 2, byOwner[catalog.GRC].TotalQuestions)
	assert.Equal(t, 2, byOwner[catalog.Engineering].TotalQuestions)
	assert.Equal(t, 1, byOwner[catalog.Executive].TotalQuestions)

	assert.Equal(t, 1.0, byOwner[catalog.Engineering].Score) //only Q5 scored
	assert.InDelta(t, 0.35, byOwner[catalog.Executive].Score, 1e-9)
}

func TestAggregateFrameworkCategories_MultiMembership(t *testing.T) {
	cat := testCatalog()

	metrics := AggregateFrameworkCategories(gappySnapshot(), cat.Questions, cat)

	byCategory := map[string]FrameworkCategoryMetrics{}
	for _, m := range metrics {
		byCategory[m.Category] = m
	}

	//Q1 cites both an ISO citation and MITRE ATLAS, so it belongs to ISO and
	//AI Governance simultaneously
	require.Contains(t, byCategory, "ISO")
	require.Contains(t, byCategory, "AI Governance")
	require.Contains(t, byCategory, "Privacy")
	require.Contains(t, byCategory, "NIST")

	assert.Equal(t, 2, byCategory["ISO"].TotalQuestions)           //Q1, Q2
	assert.Equal(t, 3, byCategory["AI Governance"].TotalQuestions) //Q1 (atlas), Q3 (ai rmf), Q4 (42001)
	assert.Equal(t, 1, byCategory["Privacy"].TotalQuestions)       //Q2 (gdpr)
	assert.Equal(t, 2, byCategory["NIST"].TotalQuestions)          //Q4, Q5 (subcategory csf)
}
