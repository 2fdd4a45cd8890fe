package catalog

import (
	"fmt"
	"os"
	"path"

	common "github.com/segmatura/segmatura-core/pkg"
	"gopkg.in/yaml.v3"
)

var (
	domainsFile        = "domains.yaml"
	subcategoriesFile  = "subcategories.yaml"
	questionsFile      = "questions.yaml"
	maturityLevelsFile = "maturity-levels.yaml"
	scoringTablesFile  = "scoring-tables.yaml"
	frameworkRulesFile = "framework-rules.yaml"

	//DefaultCatalogDir is where synced catalogs are placed
	DefaultCatalogDir = path.Join(common.SEGMATURA_BASE_DIR, "catalog")
)

type frameworkRulesDocument struct {
	ClassifierRules []ClassifierRule `yaml:"ClassifierRules"`
	NameRules       []NameRule       `yaml:"NameRules"`
}

//LoadCatalog reads a reference catalog from a directory of YAML files.
//domains.yaml, subcategories.yaml and questions.yaml are required;
//maturity-levels.yaml, scoring-tables.yaml and framework-rules.yaml are
//optional and fall back to the built-in defaults
func LoadCatalog(dir string) (*Catalog, error) {

	var domains []Domain
	if err := loadYAML(path.Join(dir, domainsFile), &domains); err != nil {
		return nil, fmt.Errorf("loading %s: %w", domainsFile, err)
	}

	var subcategories []Subcategory
	if err := loadYAML(path.Join(dir, subcategoriesFile), &subcategories); err != nil {
		return nil, fmt.Errorf("loading %s: %w", subcategoriesFile, err)
	}

	var questions []Question
	if err := loadYAML(path.Join(dir, questionsFile), &questions); err != nil {
		return nil, fmt.Errorf("loading %s: %w", questionsFile, err)
	}

	var levels []MaturityLevel
	loadOptionalYAML(path.Join(dir, maturityLevelsFile), &levels)

	var tables *ScoringTables
	var tbl ScoringTables
	if loadOptionalYAML(path.Join(dir, scoringTablesFile), &tbl) {
		tables = &tbl
	}

	var rules frameworkRulesDocument
	loadOptionalYAML(path.Join(dir, frameworkRulesFile), &rules)

	return NewCatalog(domains, subcategories, questions, levels, tables,
		rules.ClassifierRules, rules.NameRules), nil
}

func loadYAML(file string, out interface{}) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

//loadOptionalYAML loads the file if it exists, reporting whether it did
func loadOptionalYAML(file string, out interface{}) bool {
	data, err := os.ReadFile(file)
	if err != nil {
		return false
	}
	return yaml.Unmarshal(data, out) == nil
}
