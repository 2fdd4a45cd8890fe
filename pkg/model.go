package common

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//Response is the value a user captures against a question or against the
//evidence-quality axis of a question. The canonical values are the Portuguese
//forms used by the assessment catalogs
type Response string

const (
	//Yes full positive response
	Yes Response = "Sim"
	//Partial partially implemented response
	Partial Response = "Parcial"
	//No negative response
	No Response = "Não"
	//NotApplicable excludes the question from every coverage and score denominator
	NotApplicable Response = "NA"
	//Unanswered no response captured yet
	Unanswered Response = ""
)

//Answered indicates whether any response (including Not-Applicable) has been captured
func (r Response) Answered() bool {
	return r != Unanswered
}

//Applicable indicates whether the response keeps the question in scope for scoring.
//An unanswered question is still applicable - it counts as a full gap
func (r Response) Applicable() bool {
	return r != NotApplicable
}

//UnmarshalYAML canonicalises free-text response values on the way in
func (r *Response) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	*r = CanonicalResponse(value)
	return nil
}

//UnmarshalJSON canonicalises free-text response values on the way in
func (r *Response) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*r = CanonicalResponse(value)
	return nil
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

//Fold lowercases the value and strips diacritics so that "NÃO", "não" and "nao"
//compare equal. Used for response parsing and framework citation matching
func Fold(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

//CanonicalResponse maps free-text user input to one of the canonical response
//values. Unknown values map to Unanswered rather than failing - answers are
//best-effort user data
func CanonicalResponse(value string) Response {
	switch Fold(value) {
	case "sim", "s", "yes":
		return Yes
	case "parcial", "p", "partial":
		return Partial
	case "nao", "n", "no":
		return No
	case "na", "n/a", "nao aplicavel", "not applicable":
		return NotApplicable
	}
	return Unanswered
}

//Answer is one user response to one question. Created and updated by the
//assessment UI, read-only to the scoring core, stored keyed by QuestionID
//with last-write-wins semantics
type Answer struct {
	QuestionID string `yaml:"QuestionID" json:"QuestionID"`
	//FrameworkID records which framework the answer was originally filed under (informational)
	FrameworkID string   `yaml:"FrameworkID,omitempty" json:"FrameworkID,omitempty"`
	Response    Response `yaml:"Response,omitempty" json:"Response,omitempty"`
	//EvidenceOK is an independent evidence-quality axis over the same value set
	EvidenceOK    Response  `yaml:"EvidenceOK,omitempty" json:"EvidenceOK,omitempty"`
	Notes         string    `yaml:"Notes,omitempty" json:"Notes,omitempty"`
	EvidenceLinks []string  `yaml:"EvidenceLinks,omitempty" json:"EvidenceLinks,omitempty"`
	UpdatedAt     time.Time `yaml:"UpdatedAt,omitempty" json:"UpdatedAt,omitempty"`
}

//AnswerSnapshot is a read-only view of the answer store keyed by question ID.
//Callers are responsible for supplying a consistent snapshot per computation pass
type AnswerSnapshot map[string]Answer
