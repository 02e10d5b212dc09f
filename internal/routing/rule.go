// Package routing turns confidence scores into approve/review/reject
// decisions using named, threshold-based rules.
package routing

import (
	"fmt"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
)

// Rule is a named routing configuration. A component scoring above High is
// approved, between Medium and High it goes to review, and below Medium it is
// rejected or reviewed depending on LowAction.
type Rule struct {
	Name               string              `json:"name"`
	Description        string              `json:"description,omitempty"`
	High               float64             `json:"high_threshold"`
	Medium             float64             `json:"medium_threshold"`
	LowAction          constants.LowAction `json:"low_action"`
	RequireAllApproved bool                `json:"require_all_approved"`
}

func (r Rule) Validate() error {
	v := common.NewValidator()
	v.Field("name", r.Name, common.Required)
	v.Field("high_threshold", r.High, common.UnitInterval)
	v.Field("medium_threshold", r.Medium, common.UnitInterval)
	if err := v.Error(); err != nil {
		return err
	}

	if r.Medium > r.High {
		return common.NewAppError("ROUTING_RULE_INVALID",
			fmt.Sprintf("medium threshold %g exceeds high threshold %g", r.Medium, r.High),
			common.ErrInvalidInput)
	}
	if !r.LowAction.Valid() {
		return common.NewAppError("ROUTING_RULE_INVALID",
			fmt.Sprintf("unknown low action %q", r.LowAction), common.ErrInvalidInput)
	}
	return nil
}

// Level buckets a confidence score against the rule's thresholds.
func (r Rule) Level(confidence float64) constants.ConfidenceLevel {
	switch {
	case confidence > r.High:
		return constants.LevelHigh
	case confidence >= r.Medium:
		return constants.LevelMedium
	default:
		return constants.LevelLow
	}
}

// Route maps a confidence score to a routing status.
func (r Rule) Route(confidence float64) constants.RoutingStatus {
	switch r.Level(confidence) {
	case constants.LevelHigh:
		return constants.Approved
	case constants.LevelMedium:
		return constants.ReviewRequired
	default:
		if r.LowAction == constants.ActionReject {
			return constants.Rejected
		}
		return constants.ReviewRequired
	}
}
