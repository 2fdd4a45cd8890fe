package catalog

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path.Join(dir, name), []byte(content), 0644))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	writeCatalogFile(t, dir, domainsFile, `
- ID: D1
  Name: Governança
  NistFunction: Govern
`)
	writeCatalogFile(t, dir, subcategoriesFile, `
- ID: S1
  DomainID: D1
  Name: Políticas
  Criticality: Critical
  Weight: 2
  OwnershipType: GRC
  FrameworkRefs:
    - ISO/IEC 27001 Annex A.5
`)
	writeCatalogFile(t, dir, questionsFile, `
- ID: Q1
  SubcatID: S1
  DomainID: D1
  Text: Existe política de segurança aprovada?
  Frameworks:
    - NIST CSF
`)
	writeCatalogFile(t, dir, scoringTablesFile, `
ResponseScores:
  Sim: 1.0
  Parcial: 0.6
  Não: 0.0
EvidenceMultipliers:
  Sim: 1.0
  Parcial: 0.8
  Não: 0.0
MissingEvidenceMultiplier: 0.5
`)

	cat, err := LoadCatalog(dir)
	require.NoError(t, err)

	require.Len(t, cat.Domains, 1)
	require.Len(t, cat.Subcategories, 1)
	require.Len(t, cat.Questions, 1)
	assert.Empty(t, cat.Validate())

	//custom table loaded
	score, present := cat.ResponseScore("Parcial")
	require.True(t, present)
	assert.Equal(t, 0.6, score)
	assert.Equal(t, 0.5, cat.Tables.MissingEvidenceMultiplier)

	//optional files absent fall back to defaults
	assert.Len(t, cat.MaturityLevels, 5)
	assert.NotEmpty(t, cat.NameRules)

	q, present := cat.GetQuestion("Q1")
	require.True(t, present)
	subcat, _ := cat.GetSubcategory("S1")
	assert.ElementsMatch(t, []string{"NIST CSF", "ISO/IEC 27001 Annex A.5"}, q.FrameworkTags(subcat))
}

func TestLoadCatalog_MissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, domainsFile, `[]`)

	_, err := LoadCatalog(dir)
	assert.Error(t, err)
}
