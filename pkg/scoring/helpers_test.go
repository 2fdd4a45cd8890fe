package scoring

import (
	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//testCatalog builds the small reference taxonomy shared by the scoring tests:
//two domains, three subcategories of mixed criticality and weight, five questions
func testCatalog() *catalog.Catalog {
	domains := []catalog.Domain{
		{ID: "D1", Name: "Governança", NistFunction: "Govern"},
		{ID: "D2", Name: "Proteção de Dados", NistFunction: "Protect"},
	}
	subcategories := []catalog.Subcategory{
		{ID: "S1", DomainID: "D1", Name: "Políticas", Criticality: catalog.Critical, Weight: 1,
			OwnershipType: catalog.GRC, FrameworkRefs: []string{"ISO/IEC 27001 Annex A.5"}},
		{ID: "S2", DomainID: "D1", Name: "Treinamento", Criticality: catalog.Medium, Weight: 5,
			OwnershipType: catalog.Engineering},
		{ID: "S3", DomainID: "D2", Name: "Criptografia", Criticality: catalog.High, Weight: 2,
			OwnershipType: catalog.Executive, FrameworkRefs: []string{"NIST CSF"}},
	}
	questions := []catalog.Question{
		{ID: "Q1", SubcatID: "S1", DomainID: "D1", Text: "Existe política de segurança aprovada?",
			Frameworks: []string{"ISO 27002", "MITRE ATLAS"}},
		{ID: "Q2", SubcatID: "S1", DomainID: "D1", Text: "A política é revisada anualmente?",
			Frameworks: []string{"GDPR"}},
		{ID: "Q3", SubcatID: "S2", DomainID: "D1", Text: "Há treinamento de conscientização?",
			Frameworks: []string{"NIST AI RMF"}},
		{ID: "Q4", SubcatID: "S3", DomainID: "D2", Text: "Dados em repouso são cifrados?",
			Frameworks: []string{"ISO/IEC 42001"}},
		{ID: "Q5", SubcatID: "S3", DomainID: "D2", Text: "Chaves são rotacionadas?",
			OwnershipType: catalog.Engineering},
	}
	return catalog.NewCatalog(domains, subcategories, questions, nil, nil, nil, nil)
}

func answer(questionID string, response, evidence common.Response) common.Answer {
	return common.Answer{
		QuestionID: questionID,
		Response:   response,
		EvidenceOK: evidence,
	}
}

//partialSnapshot answers one S1 question positively with partial evidence,
//marks the other not applicable and leaves the rest unanswered
func partialSnapshot() common.AnswerSnapshot {
	return common.AnswerSnapshot{
		"Q1": answer("Q1", common.Yes, common.Partial),
		"Q2": answer("Q2", common.NotApplicable, common.Unanswered),
	}
}

//gappySnapshot contains two severe shortfalls and one healthy answer
func gappySnapshot() common.AnswerSnapshot {
	return common.AnswerSnapshot{
		"Q1": answer("Q1", common.No, common.Yes),
		"Q4": answer("Q4", common.Partial, common.Unanswered),
		"Q5": answer("Q5", common.Yes, common.Yes),
	}
}
