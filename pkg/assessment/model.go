package assessment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmatura/segmatura-core/pkg/scoring"
)

//Assessment is one organisation's maturity self-assessment: the policy that
//defines its active question set plus the ids of past evaluation runs
type Assessment struct {
	ID            string           `yaml:"ID" json:"ID"` //unique
	Name          string           `yaml:"Name" json:"Name"`
	Organisation  string           `yaml:"Organisation,omitempty" json:"Organisation,omitempty"`
	EvaluationIDs []string         `yaml:"EvaluationIDs" json:"EvaluationIDs"`
	Policy        AssessmentPolicy `yaml:"Policy" json:"Policy"`
}

//AssessmentDescription used to create new/update assessments
type AssessmentDescription struct {
	Name         string           `yaml:"Name"`
	Organisation string           `yaml:"Organisation,omitempty"`
	Policy       AssessmentPolicy `yaml:"Policy"`
}

//EvaluationSummary is the persisted result of one evaluation run over a
//consistent answer snapshot
type EvaluationSummary struct {
	ID         string                             `yaml:"ID" json:"ID"`
	TimeStamp  time.Time                          `yaml:"TimeStamp" json:"TimeStamp"`
	Overall    scoring.OverallMetrics             `yaml:"Overall" json:"Overall"`
	Gaps       []scoring.Gap                      `yaml:"Gaps,omitempty" json:"Gaps,omitempty"`
	Frameworks []scoring.FrameworkCoverageMetrics `yaml:"Frameworks,omitempty" json:"Frameworks,omitempty"`
	Roadmap    []scoring.RoadmapItem              `yaml:"Roadmap,omitempty" json:"Roadmap,omitempty"`
}

//MetricsConsumer receives the summary of a completed evaluation run. Used to
//fan evaluation results out to exporters and notification services
type MetricsConsumer interface {
	ReceiveMetrics(summary *EvaluationSummary)
}

//AssessmentSummary is the listing view of an assessment with its score trend
type AssessmentSummary struct {
	ID               string            `yaml:"ID" json:"ID"`
	Name             string            `yaml:"Name" json:"Name"`
	Organisation     string            `yaml:"Organisation,omitempty" json:"Organisation,omitempty"`
	EvaluationIDs    []string          `yaml:"EvaluationIDs" json:"EvaluationIDs"`
	LastEvaluationID string            `yaml:"LastEvaluationID" json:"LastEvaluationID"`
	LastEvaluation   EvaluationSummary `yaml:"LastEvaluation" json:"LastEvaluation"`
	//ScoreTrend records the overall score of each evaluation keyed by its timestamp
	ScoreTrend       map[string]float64 `yaml:"ScoreTrend,omitempty" json:"ScoreTrend,omitempty"`
	CreationDate     time.Time          `yaml:"CreationDate" json:"CreationDate"`
	LastModification time.Time          `yaml:"LastModification" json:"LastModification"`
	LastEvaluated    time.Time          `yaml:"LastEvaluated" json:"LastEvaluated"`
}

func (as AssessmentSummary) ToAssessment() Assessment {
	return Assessment{
		ID:            as.ID,
		Name:          as.Name,
		Organisation:  as.Organisation,
		EvaluationIDs: as.EvaluationIDs,
	}
}

func (as *AssessmentSummary) MarshalJSON() ([]byte, error) {
	type Alias AssessmentSummary
	return json.Marshal(&struct {
		*Alias
		CreationDate     string
		LastModification string
		LastEvaluated    string
	}{
		Alias:            (*Alias)(as),
		CreationDate:     as.CreationDate.Format(time.RFC3339),
		LastModification: as.LastModification.Format(time.RFC3339),
		LastEvaluated:    as.LastEvaluated.Format(time.RFC3339),
	})
}

func (as AssessmentSummary) CSVHeaders() []string {
	return []string{
		`Assessment Name`,
		`Maturity Level`,
		`Score (out of 100)`,
		`Coverage (%)`,
		`Critical Gaps Count`,
		`Evidence Readiness (%)`,
		`Organisation`,
		`ID`,
	}
}

func (as *AssessmentSummary) CSVValues() []string {
	overall := as.LastEvaluation.Overall
	return []string{
		as.Name,
		overall.MaturityLevel.Name,
		asPercentage(overall.Score),
		asPercentage(overall.Coverage),
		fmt.Sprintf("%d", overall.CriticalGaps),
		asPercentage(overall.EvidenceReadiness),
		as.Organisation,
		as.ID,
	}
}

func asPercentage(score float64) string {
	return fmt.Sprintf("%d", int64(score*100))
}
