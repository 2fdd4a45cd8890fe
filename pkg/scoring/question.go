package scoring

import (
	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//ScoreQuestion computes the effective score of one question from its answer
//(nil when unanswered). The effective score is the response score discounted
//multiplicatively by the evidence-quality multiplier; when evidence is
//missing or marked not-applicable the catalog's degraded multiplier is
//substituted instead of the table lookup. Unknown response values are
//treated as unanswered rather than failing
func ScoreQuestion(answer *common.Answer, cat *catalog.Catalog) QuestionScore {

	unanswered := QuestionScore{IsApplicable: true}

	if answer == nil || !answer.Response.Answered() {
		return unanswered
	}

	if !answer.Response.Applicable() {
		return QuestionScore{IsApplicable: false}
	}

	responseScore, known := cat.ResponseScore(answer.Response)
	if !known {
		return unanswered
	}

	evidenceMultiplier, known := cat.EvidenceMultiplier(answer.EvidenceOK)
	if !known || !answer.EvidenceOK.Applicable() {
		evidenceMultiplier = cat.Tables.MissingEvidenceMultiplier
	}

	effective := responseScore * evidenceMultiplier

	return QuestionScore{
		ResponseScore:      &responseScore,
		EvidenceMultiplier: &evidenceMultiplier,
		EffectiveScore:     &effective,
		IsApplicable:       true,
	}
}

//scoreFor looks up the answer for a question in the snapshot and scores it
func scoreFor(questionID string, answers common.AnswerSnapshot, cat *catalog.Catalog) (QuestionScore, *common.Answer) {
	if answer, present := answers[questionID]; present {
		return ScoreQuestion(&answer, cat), &answer
	}
	return ScoreQuestion(nil, cat), nil
}
