package constants

// RoutingStatus is the routing decision for a component or document.
type RoutingStatus string

const (
	Approved       RoutingStatus = "approved"
	ReviewRequired RoutingStatus = "review_required"
	Rejected       RoutingStatus = "rejected"
)

// ConfidenceLevel buckets a confidence score against a routing rule.
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "high"
	LevelMedium ConfidenceLevel = "medium"
	LevelLow    ConfidenceLevel = "low"
)

// LowAction is what a routing rule does with a low-confidence component.
type LowAction string

const (
	ActionReject LowAction = "reject"
	ActionReview LowAction = "review"
)

// Valid reports whether the action is a member of the closed set.
func (a LowAction) Valid() bool {
	return a == ActionReject || a == ActionReview
}
