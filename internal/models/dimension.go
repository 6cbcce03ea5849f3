// internal/models/dimension.go
package models

import "strings"

// Dimension is one of the four scoring categories of the assessment.
type Dimension string

const (
	DimensionDataQuality     Dimension = "data_quality"
	DimensionProcessMaturity Dimension = "process_maturity"
	DimensionAutomation      Dimension = "automation"
	DimensionGovernance      Dimension = "governance"
)

// Dimensions lists all scoring dimensions in their canonical order.
var Dimensions = []Dimension{
	DimensionDataQuality,
	DimensionProcessMaturity,
	DimensionAutomation,
	DimensionGovernance,
}

// DimensionForQuestion classifies a question id by its prefix (dq_, pm_,
// au_, gov_). Ids with an unknown prefix count toward process maturity.
func DimensionForQuestion(id string) Dimension {
	switch {
	case strings.HasPrefix(id, "dq_"):
		return DimensionDataQuality
	case strings.HasPrefix(id, "pm_"):
		return DimensionProcessMaturity
	case strings.HasPrefix(id, "au_"):
		return DimensionAutomation
	case strings.HasPrefix(id, "gov_"):
		return DimensionGovernance
	default:
		return DimensionProcessMaturity
	}
}
