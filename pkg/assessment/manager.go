package assessment

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
	"github.com/segmatura/segmatura-core/pkg/scoring"
	"github.com/segmatura/segmatura-core/pkg/util"
	"gopkg.in/yaml.v3"
)

var (
	defaultAssessmentFile = "assessment.yaml"
	assessmentSummaryFile = "assessment-summary.yaml"
	defaultAnswersFile    = "answers.yaml"
	defaultEvaluationFile = "evaluation.yaml"
)

type AssessmentManager interface {
	ListAssessmentSummaries() []*AssessmentSummary
	GetAssessmentSummary(assessmentID string) (*AssessmentSummary, error)
	GetAssessment(assessmentID string) (Assessment, error)
	CreateAssessment(description AssessmentDescription) (*Assessment, error)
	UpdateAssessment(assessmentID string, description AssessmentDescription) (*Assessment, error)
	//PutAnswer stores one answer keyed by its question id, last write wins
	PutAnswer(assessmentID string, answer common.Answer) error
	GetAnswer(assessmentID, questionID string) (*common.Answer, error)
	//GetAnswerSnapshot returns a consistent copy of the answer store for one
	//computation pass
	GetAnswerSnapshot(assessmentID string) (common.AnswerSnapshot, error)
	SavePolicy(assessmentID string, policy AssessmentPolicy) error
	GetPolicy(assessmentID string) (AssessmentPolicy, error)
	GetEvaluation(assessmentID, evaluationID string) (*EvaluationSummary, error)
	RunEvaluation(ctx context.Context, assessmentID string, cat *catalog.Catalog,
		evaluationIDCallback func(string), consumers ...MetricsConsumer) (*EvaluationSummary, error)
	GetBaseDir() string
	Close() error
}

func MakeSimpleAssessmentManager(segmaturaBaseDir string) AssessmentManager {
	if segmaturaBaseDir == "" {
		segmaturaBaseDir = common.SEGMATURA_BASE_DIR
	}
	return simpleAssessmentManager{
		baseDir:             segmaturaBaseDir,
		assessmentsLocation: path.Join(segmaturaBaseDir, "assessments"),
	}
}

type simpleAssessmentManager struct {
	baseDir, assessmentsLocation string
}

func (am simpleAssessmentManager) GetBaseDir() string {
	return am.baseDir
}

func (am simpleAssessmentManager) Close() error {
	return nil
}

func (am simpleAssessmentManager) CreateAssessment(description AssessmentDescription) (*Assessment, error) {
	assessment := Assessment{
		ID:           util.NewRandomUUID().String(),
		Name:         description.Name,
		Organisation: description.Organisation,
		Policy:       description.Policy,
	}

	if err := am.saveAssessment(assessment); err != nil {
		return nil, err
	}

	summary := &AssessmentSummary{
		ID:           assessment.ID,
		Name:         assessment.Name,
		Organisation: assessment.Organisation,
		CreationDate: time.Now(),
	}
	if err := am.saveAssessmentSummary(summary); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (am simpleAssessmentManager) UpdateAssessment(assessmentID string, description AssessmentDescription) (*Assessment, error) {
	assessment, err := am.GetAssessment(assessmentID)
	if err != nil {
		//assessment not found, create one with a new ID
		return am.CreateAssessment(description)
	}
	assessment.Name = description.Name
	assessment.Organisation = description.Organisation
	assessment.Policy = description.Policy
	if err := am.saveAssessment(assessment); err != nil {
		return nil, err
	}

	if summary, err := am.GetAssessmentSummary(assessmentID); err == nil {
		summary.Name = assessment.Name
		summary.Organisation = assessment.Organisation
		summary.LastModification = time.Now()
		am.saveAssessmentSummary(summary)
	}
	return &assessment, nil
}

func (am simpleAssessmentManager) GetAssessment(assessmentID string) (assessment Assessment, err error) {
	data, err := os.ReadFile(path.Join(am.assessmentsLocation, assessmentID, defaultAssessmentFile))
	if err != nil {
		return
	}
	err = yaml.Unmarshal(data, &assessment)
	return
}

func (am simpleAssessmentManager) GetAssessmentSummary(assessmentID string) (*AssessmentSummary, error) {
	var summary AssessmentSummary
	data, err := os.ReadFile(path.Join(am.assessmentsLocation, assessmentID, assessmentSummaryFile))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (am simpleAssessmentManager) ListAssessmentSummaries() (summaries []*AssessmentSummary) {
	if dirs, err := os.ReadDir(am.assessmentsLocation); err == nil {
		for _, dir := range dirs {
			if dir.IsDir() {
				if summary, err := am.GetAssessmentSummary(dir.Name()); err == nil && summary.ID != "" {
					summaries = append(summaries, summary)
				}
			}
		}
	}
	return
}

func (am simpleAssessmentManager) PutAnswer(assessmentID string, answer common.Answer) error {
	if answer.QuestionID == "" {
		return fmt.Errorf("answer has no question id")
	}
	if _, err := am.GetAssessment(assessmentID); err != nil {
		return err
	}
	snapshot, err := am.GetAnswerSnapshot(assessmentID)
	if err != nil {
		return err
	}
	if answer.UpdatedAt.IsZero() {
		answer.UpdatedAt = time.Now()
	}
	snapshot[answer.QuestionID] = answer
	return am.saveAnswers(assessmentID, snapshot)
}

func (am simpleAssessmentManager) GetAnswer(assessmentID, questionID string) (*common.Answer, error) {
	snapshot, err := am.GetAnswerSnapshot(assessmentID)
	if err != nil {
		return nil, err
	}
	if answer, present := snapshot[questionID]; present {
		return &answer, nil
	}
	return nil, fmt.Errorf("no answer for question %s in assessment %s", questionID, assessmentID)
}

func (am simpleAssessmentManager) GetAnswerSnapshot(assessmentID string) (common.AnswerSnapshot, error) {
	snapshot := common.AnswerSnapshot{}
	data, err := os.ReadFile(path.Join(am.assessmentsLocation, assessmentID, defaultAnswersFile))
	if err != nil {
		if os.IsNotExist(err) {
			//no answers captured yet
			return snapshot, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (am simpleAssessmentManager) SavePolicy(assessmentID string, policy AssessmentPolicy) error {
	//reject policies whose exclusion regexes do not compile
	if _, err := CompilePolicy(&policy); err != nil {
		return err
	}
	assessment, err := am.GetAssessment(assessmentID)
	if err != nil {
		return err
	}
	assessment.Policy = policy
	return am.saveAssessment(assessment)
}

func (am simpleAssessmentManager) GetPolicy(assessmentID string) (AssessmentPolicy, error) {
	assessment, err := am.GetAssessment(assessmentID)
	return assessment.Policy, err
}

func (am simpleAssessmentManager) GetEvaluation(assessmentID, evaluationID string) (*EvaluationSummary, error) {
	var summary EvaluationSummary
	data, err := os.ReadFile(path.Join(am.assessmentsLocation, assessmentID, evaluationID, defaultEvaluationFile))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (am simpleAssessmentManager) RunEvaluation(ctx context.Context, assessmentID string,
	cat *catalog.Catalog, evaluationIDCallback func(string),
	consumers ...MetricsConsumer) (*EvaluationSummary, error) {

	assessment, err := am.GetAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	filter, err := CompilePolicy(&assessment.Policy)
	if err != nil {
		return nil, err
	}
	snapshot, err := am.GetAnswerSnapshot(assessmentID)
	if err != nil {
		return nil, err
	}

	evaluationID := util.NewRandomUUID().String()
	if evaluationIDCallback != nil {
		evaluationIDCallback(evaluationID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := evaluate(evaluationID, snapshot, filter, cat)

	if err := am.saveEvaluation(assessmentID, summary); err != nil {
		return summary, err
	}

	assessment.EvaluationIDs = append(assessment.EvaluationIDs, evaluationID)
	if err := am.saveAssessment(assessment); err != nil {
		return summary, err
	}

	if aSum, err := am.GetAssessmentSummary(assessmentID); err == nil {
		recordEvaluation(aSum, summary)
		am.saveAssessmentSummary(aSum)
	}

	for _, consumer := range consumers {
		consumer.ReceiveMetrics(summary)
	}

	return summary, nil
}

func (am simpleAssessmentManager) saveAssessment(assessment Assessment) error {
	location := path.Join(am.assessmentsLocation, assessment.ID)
	if err := os.MkdirAll(location, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(assessment)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(location, defaultAssessmentFile), data, 0644)
}

func (am simpleAssessmentManager) saveAssessmentSummary(summary *AssessmentSummary) error {
	location := path.Join(am.assessmentsLocation, summary.ID)
	if err := os.MkdirAll(location, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(location, assessmentSummaryFile), data, 0644)
}

func (am simpleAssessmentManager) saveAnswers(assessmentID string, snapshot common.AnswerSnapshot) error {
	location := path.Join(am.assessmentsLocation, assessmentID)
	if err := os.MkdirAll(location, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(location, defaultAnswersFile), data, 0644)
}

func (am simpleAssessmentManager) saveEvaluation(assessmentID string, summary *EvaluationSummary) error {
	location := path.Join(am.assessmentsLocation, assessmentID, summary.ID)
	if err := os.MkdirAll(location, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(location, defaultEvaluationFile), data, 0644)
}

//evaluate runs the scoring core over one consistent snapshot
func evaluate(evaluationID string, snapshot common.AnswerSnapshot, filter QuestionFilter,
	cat *catalog.Catalog) *EvaluationSummary {

	active := ActiveQuestions(cat, filter)
	return &EvaluationSummary{
		ID:         evaluationID,
		TimeStamp:  time.Now(),
		Overall:    scoring.ComputeOverall(snapshot, active, cat),
		Gaps:       scoring.DetectCriticalGaps(snapshot, scoring.DefaultGapThreshold, active, cat),
		Frameworks: scoring.FrameworkCoverage(snapshot, active, cat),
		Roadmap:    scoring.GenerateRoadmap(snapshot, scoring.DefaultRoadmapSize, active, cat),
	}
}

//recordEvaluation folds a completed evaluation into the assessment's listing summary
func recordEvaluation(as *AssessmentSummary, eval *EvaluationSummary) {
	as.EvaluationIDs = append(as.EvaluationIDs, eval.ID)
	as.LastEvaluationID = eval.ID
	as.LastEvaluation = *eval
	as.LastEvaluated = eval.TimeStamp
	as.LastModification = eval.TimeStamp
	if as.ScoreTrend == nil {
		as.ScoreTrend = make(map[string]float64)
	}
	as.ScoreTrend[eval.TimeStamp.Format(time.RFC3339)] = eval.Overall.Score
}
