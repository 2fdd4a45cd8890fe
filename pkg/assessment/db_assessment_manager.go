package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	common "github.com/segmatura/segmatura-core/pkg"
	"github.com/segmatura/segmatura-core/pkg/catalog"
	"github.com/segmatura/segmatura-core/pkg/util"
)

func NewDBAssessmentManager(segmaturaBaseDir string) (AssessmentManager, error) {

	if segmaturaBaseDir == "" {
		segmaturaBaseDir = common.SEGMATURA_BASE_DIR
	}

	am := dbAssessmentManager{
		baseDir:             segmaturaBaseDir,
		assessmentsLocation: path.Join(segmaturaBaseDir, "assessments_db"),
		assessmentTable:     "asmt_",
		answerTable:         "answ_",
		evaluationTable:     "eval_",
		initTable:           "init_",
	}

	//attempt to create the assessments location if it doesn't exist
	os.MkdirAll(am.assessmentsLocation, 0755)

	db, err := badger.Open(badger.DefaultOptions(am.assessmentsLocation))
	if err != nil {
		return am, err
	}
	am.db = db

	//import data from the YAML-based store if it exists
	importYAMLData(&am)

	return am, nil
}

type dbAssessmentManager struct {
	baseDir, assessmentsLocation string
	db                           *badger.DB
	assessmentTable, answerTable string
	evaluationTable, initTable   string
}

func importYAMLData(am *dbAssessmentManager) {
	err := am.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(toKey(am.initTable))
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		//create table
		am.db.Update(func(txn *badger.Txn) error {
			return txn.Set(toKey(am.initTable), []byte{})
		})

		//import data
		am_ := MakeSimpleAssessmentManager(am.baseDir)
		for _, summary := range am_.ListAssessmentSummaries() {
			assessment, err := am_.GetAssessment(summary.ID)
			if err != nil {
				continue
			}
			am.saveAssessmentRecord(assessment, summary)

			if snapshot, err := am_.GetAnswerSnapshot(summary.ID); err == nil {
				for _, answer := range snapshot {
					am.PutAnswer(summary.ID, answer)
				}
			}

			for _, evaluationID := range assessment.EvaluationIDs {
				if eval, err := am_.GetEvaluation(summary.ID, evaluationID); err == nil {
					am.saveEvaluation(summary.ID, eval)
				}
			}
		}
	}
}

//assessmentRecord is the stored shape, keeping the policy and the listing
//summary together under one key
type assessmentRecord struct {
	Assessment Assessment        `json:"Assessment"`
	Summary    AssessmentSummary `json:"Summary"`
}

func (am dbAssessmentManager) GetBaseDir() string {
	return am.baseDir
}

func (am dbAssessmentManager) Close() error {
	if am.db != nil {
		return am.db.Close()
	}
	return errors.New("attempting to close uninitialised DB")
}

// CreateAssessment implements AssessmentManager
func (am dbAssessmentManager) CreateAssessment(description AssessmentDescription) (*Assessment, error) {
	assessment := Assessment{
		ID:           util.NewRandomUUID().String(),
		Name:         description.Name,
		Organisation: description.Organisation,
		Policy:       description.Policy,
	}
	summary := &AssessmentSummary{
		ID:           assessment.ID,
		Name:         assessment.Name,
		Organisation: assessment.Organisation,
		CreationDate: time.Now(),
	}
	return &assessment, am.saveAssessmentRecord(assessment, summary)
}

// UpdateAssessment implements AssessmentManager
func (am dbAssessmentManager) UpdateAssessment(assessmentID string, description AssessmentDescription) (*Assessment, error) {
	record, err := am.getAssessmentRecord(assessmentID)
	if err != nil {
		//assessment not found, create one with a new ID
		return am.CreateAssessment(description)
	}
	record.Assessment.Name = description.Name
	record.Assessment.Organisation = description.Organisation
	record.Assessment.Policy = description.Policy
	record.Summary.Name = description.Name
	record.Summary.Organisation = description.Organisation
	record.Summary.LastModification = time.Now()
	return &record.Assessment, am.saveAssessmentRecord(record.Assessment, &record.Summary)
}

// GetAssessment implements AssessmentManager
func (am dbAssessmentManager) GetAssessment(assessmentID string) (Assessment, error) {
	record, err := am.getAssessmentRecord(assessmentID)
	if err != nil {
		return Assessment{}, err
	}
	return record.Assessment, nil
}

// GetAssessmentSummary implements AssessmentManager
func (am dbAssessmentManager) GetAssessmentSummary(assessmentID string) (*AssessmentSummary, error) {
	record, err := am.getAssessmentRecord(assessmentID)
	if err != nil {
		return nil, err
	}
	return &record.Summary, nil
}

// ListAssessmentSummaries implements AssessmentManager
func (am dbAssessmentManager) ListAssessmentSummaries() []*AssessmentSummary {
	summaries := []*AssessmentSummary{}
	am.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(am.assessmentTable)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			it.Item().Value(func(val []byte) error {
				var record assessmentRecord
				if err := json.Unmarshal(val, &record); err == nil {
					summaries = append(summaries, &record.Summary)
				}
				return nil
			})
		}
		return nil
	})

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

// PutAnswer implements AssessmentManager. Each answer is one record keyed by
// its question id, so concurrent capture sessions only contend per question
func (am dbAssessmentManager) PutAnswer(assessmentID string, answer common.Answer) error {
	if answer.QuestionID == "" {
		return fmt.Errorf("answer has no question id")
	}
	if answer.UpdatedAt.IsZero() {
		answer.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	return am.db.Update(func(txn *badger.Txn) error {
		return txn.Set(toTableKey(am.answerTable, assessmentID, answer.QuestionID), data)
	})
}

// GetAnswer implements AssessmentManager
func (am dbAssessmentManager) GetAnswer(assessmentID, questionID string) (*common.Answer, error) {
	var answer common.Answer
	err := am.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(toTableKey(am.answerTable, assessmentID, questionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &answer)
		})
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// GetAnswerSnapshot implements AssessmentManager. The snapshot is collected
// inside one read transaction so an evaluation pass never sees a half-written
// capture session
func (am dbAssessmentManager) GetAnswerSnapshot(assessmentID string) (common.AnswerSnapshot, error) {
	snapshot := common.AnswerSnapshot{}
	err := am.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := toTableKey(am.answerTable, assessmentID, "")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				var answer common.Answer
				if err := json.Unmarshal(val, &answer); err != nil {
					return err
				}
				snapshot[answer.QuestionID] = answer
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// SavePolicy implements AssessmentManager
func (am dbAssessmentManager) SavePolicy(assessmentID string, policy AssessmentPolicy) error {
	if _, err := CompilePolicy(&policy); err != nil {
		return err
	}
	record, err := am.getAssessmentRecord(assessmentID)
	if err != nil {
		return err
	}
	record.Assessment.Policy = policy
	record.Summary.LastModification = time.Now()
	return am.saveAssessmentRecord(record.Assessment, &record.Summary)
}

// GetPolicy implements AssessmentManager
func (am dbAssessmentManager) GetPolicy(assessmentID string) (AssessmentPolicy, error) {
	assessment, err := am.GetAssessment(assessmentID)
	return assessment.Policy, err
}

// GetEvaluation implements AssessmentManager
func (am dbAssessmentManager) GetEvaluation(assessmentID, evaluationID string) (*EvaluationSummary, error) {
	var summary EvaluationSummary
	err := am.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(toTableKey(am.evaluationTable, assessmentID, evaluationID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &summary)
		})
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// RunEvaluation implements AssessmentManager
func (am dbAssessmentManager) RunEvaluation(ctx context.Context, assessmentID string,
	cat *catalog.Catalog, evaluationIDCallback func(string),
	consumers ...MetricsConsumer) (*EvaluationSummary, error) {

	record, err := am.getAssessmentRecord(assessmentID)
	if err != nil {
		return nil, err
	}
	filter, err := CompilePolicy(&record.Assessment.Policy)
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

	record.Assessment.EvaluationIDs = append(record.Assessment.EvaluationIDs, evaluationID)
	recordEvaluation(&record.Summary, summary)
	//the assessment and summary share the record, so EvaluationIDs appears in
	//both; keep them consistent
	record.Summary.EvaluationIDs = record.Assessment.EvaluationIDs
	if err := am.saveAssessmentRecord(record.Assessment, &record.Summary); err != nil {
		return summary, err
	}

	for _, consumer := range consumers {
		consumer.ReceiveMetrics(summary)
	}

	return summary, nil
}

func (am dbAssessmentManager) getAssessmentRecord(assessmentID string) (*assessmentRecord, error) {
	var record assessmentRecord
	err := am.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(toKey(am.assessmentTable, assessmentID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (am dbAssessmentManager) saveAssessmentRecord(assessment Assessment, summary *AssessmentSummary) error {
	record := assessmentRecord{
		Assessment: assessment,
		Summary:    *summary,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return am.db.Update(func(txn *badger.Txn) error {
		return txn.Set(toKey(am.assessmentTable, assessment.ID), data)
	})
}

func (am dbAssessmentManager) saveEvaluation(assessmentID string, summary *EvaluationSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return am.db.Update(func(txn *badger.Txn) error {
		return txn.Set(toTableKey(am.evaluationTable, assessmentID, summary.ID), data)
	})
}

func toTableKey(prefix, assessmentID, recordID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", prefix, assessmentID, recordID))
}

func toKey(keys ...string) []byte {
	return []byte(strings.Join(keys, ""))
}
