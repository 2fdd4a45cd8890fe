package reports

import (
	"github.com/segmatura/segmatura-core/pkg/scoring"
)

//MetricsTransformer reshapes evaluation metrics before they are rendered by
//an external report exporter
type MetricsTransformer interface {
	Transform(*Config, *scoring.OverallMetrics) *scoring.OverallMetrics
}

type Config struct {
	AssessmentID string
	EvaluationID string
	//BaseDir is the manager's base directory, for exporters that write artefacts
	BaseDir string
}

type ConfigMetrics struct {
	Config  *Config                 `json:"Config,omitempty"`
	Overall *scoring.OverallMetrics `json:"Overall,omitempty"`
}
