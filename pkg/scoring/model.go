package scoring

import (
	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
)

//QuestionScore is the effective score of one question. Never persisted;
//recomputed on every aggregation pass
type QuestionScore struct {
	//ResponseScore is nil when the question is unanswered or not applicable
	ResponseScore      *float64 `json:"ResponseScore,omitempty"`
	EvidenceMultiplier *float64 `json:"EvidenceMultiplier,omitempty"`
	//EffectiveScore is ResponseScore discounted by EvidenceMultiplier, in [0,1]
	EffectiveScore *float64 `json:"EffectiveScore,omitempty"`
	//IsApplicable is false only for questions answered "NA"; unanswered
	//questions stay applicable and count as full gaps
	IsApplicable bool `json:"IsApplicable"`
}

//SubcategoryMetrics is the rollup of one subcategory's questions
type SubcategoryMetrics struct {
	SubcatID            string                `json:"SubcatID"`
	DomainID            string                `json:"DomainID"`
	Name                string                `json:"Name,omitempty"`
	Criticality         catalog.Criticality   `json:"Criticality,omitempty"`
	Weight              float64               `json:"Weight"`
	Score               float64               `json:"Score"`
	Coverage            float64               `json:"Coverage"`
	TotalQuestions      int                   `json:"TotalQuestions"`
	AnsweredQuestions   int                   `json:"AnsweredQuestions"`
	ApplicableQuestions int                   `json:"ApplicableQuestions"`
	CriticalGaps        int                   `json:"CriticalGaps"`
	MaturityLevel       catalog.MaturityLevel `json:"MaturityLevel"`
}

//DomainMetrics is the weighted rollup of a domain's subcategories
type DomainMetrics struct {
	DomainID            string                `json:"DomainID"`
	Name                string                `json:"Name,omitempty"`
	Score               float64               `json:"Score"`
	Coverage            float64               `json:"Coverage"`
	TotalQuestions      int                   `json:"TotalQuestions"`
	AnsweredQuestions   int                   `json:"AnsweredQuestions"`
	ApplicableQuestions int                   `json:"ApplicableQuestions"`
	CriticalGaps        int                   `json:"CriticalGaps"`
	MaturityLevel       catalog.MaturityLevel `json:"MaturityLevel"`
	Subcategories       []SubcategoryMetrics  `json:"Subcategories,omitempty"`
}

//GroupMetrics is the shared shape of the cross-cutting bucket rollups
type GroupMetrics struct {
	Score             float64               `json:"Score"`
	Coverage          float64               `json:"Coverage"`
	TotalQuestions    int                   `json:"TotalQuestions"`
	AnsweredQuestions int                   `json:"AnsweredQuestions"`
	MaturityLevel     catalog.MaturityLevel `json:"MaturityLevel"`
}

//NistFunctionMetrics regroups domain scores by the domains' regulatory-function tag
type NistFunctionMetrics struct {
	Function string `json:"Function"`
	GroupMetrics
}

//OwnershipMetrics regroups question scores by owning organisational role
type OwnershipMetrics struct {
	OwnershipType catalog.OwnershipType `json:"OwnershipType"`
	GroupMetrics
}

//FrameworkCategoryMetrics regroups question scores by classified framework category
type FrameworkCategoryMetrics struct {
	Category string `json:"Category"`
	GroupMetrics
}

//OverallMetrics is the organisation-wide snapshot the overall aggregator
//produces, fanning out to every cross-cutting aggregator
type OverallMetrics struct {
	Score               float64               `json:"Score"`
	Coverage            float64               `json:"Coverage"`
	TotalQuestions      int                   `json:"TotalQuestions"` //count of active questions supplied
	AnsweredQuestions   int                   `json:"AnsweredQuestions"`
	ApplicableQuestions int                   `json:"ApplicableQuestions"`
	CriticalGaps        int                   `json:"CriticalGaps"`
	//EvidenceReadiness is the mean evidence multiplier across answered,
	//applicable questions. Missing evidence counts as a "Não" lookup here,
	//a stricter policy than the degraded multiplier used per-question
	EvidenceReadiness   float64                    `json:"EvidenceReadiness"`
	MaturityLevel       catalog.MaturityLevel      `json:"MaturityLevel"`
	Domains             []DomainMetrics            `json:"Domains,omitempty"`
	NistFunctions       []NistFunctionMetrics      `json:"NistFunctions,omitempty"`
	Ownership           []OwnershipMetrics         `json:"Ownership,omitempty"`
	FrameworkCategories []FrameworkCategoryMetrics `json:"FrameworkCategories,omitempty"`
}

//Gap is an applicable question scoring below the severity threshold inside a
//High- or Critical-criticality subcategory
type Gap struct {
	QuestionID  string              `json:"QuestionID"`
	SubcatID    string              `json:"SubcatID"`
	DomainID    string              `json:"DomainID"`
	Question    string              `json:"Question,omitempty"`
	Criticality catalog.Criticality `json:"Criticality"`
	//EffectiveScore is nil for unanswered questions, which sort as score 0
	EffectiveScore *float64        `json:"EffectiveScore,omitempty"`
	Response       common.Response `json:"Response,omitempty"`
}

//sortScore treats unanswered gaps as worst
func (g Gap) sortScore() float64 {
	if g.EffectiveScore == nil {
		return 0
	}
	return *g.EffectiveScore
}

//FrameworkCoverageMetrics reports score and coverage for one authoritative framework
type FrameworkCoverageMetrics struct {
	Framework         string  `json:"Framework"`
	TotalQuestions    int     `json:"TotalQuestions"`
	AnsweredQuestions int     `json:"AnsweredQuestions"`
	AverageScore      float64 `json:"AverageScore"`
	Coverage          float64 `json:"Coverage"`
}

//Priority is the remediation time box of a roadmap item
type Priority string

const (
	Immediate  Priority = "immediate"
	Short      Priority = "short"
	MediumTerm Priority = "medium"
)

//tier orders priorities for the final roadmap sort
func (p Priority) tier() int {
	switch p {
	case Immediate:
		return 0
	case Short:
		return 1
	}
	return 2
}

//Effort is a coarse remediation-effort heuristic
type Effort string

const (
	LowEffort    Effort = "low"
	MediumEffort Effort = "medium"
	HighEffort   Effort = "high"
)

//RoadmapItem is one prioritised remediation action. Items are deduplicated
//per subcategory - never per question - to avoid redundant actions
type RoadmapItem struct {
	SubcatID    string              `json:"SubcatID"`
	Name        string              `json:"Name,omitempty"`
	Criticality catalog.Criticality `json:"Criticality"`
	WorstScore  float64             `json:"WorstScore"`
	//QuestionID deep-links to the worst-scoring gap in the subcategory
	QuestionID string   `json:"QuestionID"`
	GapCount   int      `json:"GapCount"`
	Priority   Priority `json:"Priority"`
	Effort     Effort   `json:"Effort"`
}
