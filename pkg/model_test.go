package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCanonicalResponse_FoldsCaseAndDiacritics(t *testing.T) {
	cases := map[string]Response{
		"Sim":            Yes,
		"sim":            Yes,
		"  SIM ":         Yes,
		"yes":            Yes,
		"Parcial":        Partial,
		"PARCIAL":        Partial,
		"partial":        Partial,
		"Não":            No,
		"NÃO":            No,
		"nao":            No,
		"no":             No,
		"NA":             NotApplicable,
		"n/a":            NotApplicable,
		"não aplicável":  NotApplicable,
		"Not Applicable": NotApplicable,
		"":               Unanswered,
		"talvez":         Unanswered,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, CanonicalResponse(input), "input %q", input)
	}
}

func TestResponse_AnsweredAndApplicable(t *testing.T) {
	assert.True(t, Yes.Answered())
	assert.True(t, NotApplicable.Answered())
	assert.False(t, Unanswered.Answered())

	assert.True(t, Yes.Applicable())
	assert.True(t, Unanswered.Applicable())
	assert.False(t, NotApplicable.Applicable())
}

func TestResponse_UnmarshalYAMLCanonicalises(t *testing.T) {
	var answer Answer
	data := `
QuestionID: Q1
Response: nao
EvidenceOK: PARCIAL
`
	require.NoError(t, yaml.Unmarshal([]byte(data), &answer))
	assert.Equal(t, No, answer.Response)
	assert.Equal(t, Partial, answer.EvidenceOK)
}

func TestUniqueStrings(t *testing.T) {
	out := UniqueStrings([]string{"a", "b", "a"}, []string{"c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}
