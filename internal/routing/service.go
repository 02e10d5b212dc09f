package routing

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
)

// Quality flags attached to decisions for downstream triage.
const (
	FlagVeryLowConfidence      = "VERY_LOW_CONFIDENCE"
	FlagReviewNeeded           = "REVIEW_NEEDED"
	FlagLowAverageConfidence   = "LOW_AVERAGE_CONFIDENCE"
	FlagHighConfidenceVariance = "HIGH_CONFIDENCE_VARIANCE"
)

const veryLowConfidence = 0.3

// confidenceVarianceLimit is the widest spread of component confidences a
// document can carry before it is flagged for uneven extraction quality.
const confidenceVarianceLimit = 0.4

// ComponentDecision routes one component: a header field, a table row, or a
// header block.
type ComponentDecision struct {
	Component  string                    `json:"component"`
	Confidence float64                   `json:"confidence"`
	Level      constants.ConfidenceLevel `json:"level"`
	Status     constants.RoutingStatus   `json:"status"`
	Flags      []string                  `json:"flags,omitempty"`
}

// DocumentDecision is the aggregate routing outcome for a document.
type DocumentDecision struct {
	DecisionID        string                  `json:"decision_id"`
	DocumentID        string                  `json:"document_id"`
	Rule              string                  `json:"rule"`
	Status            constants.RoutingStatus `json:"status"`
	Confidence        float64                 `json:"confidence"`
	Components        []ComponentDecision     `json:"components"`
	Flags             []string                `json:"flags,omitempty"`
	RecommendedAction string                  `json:"recommended_action"`
	Timestamp         time.Time               `json:"timestamp"`
}

// StatsCollector receives every decision the service makes. Implementations
// must be safe for concurrent use.
type StatsCollector interface {
	RecordDecision(status constants.RoutingStatus)
}

// NopStats discards all decisions.
type NopStats struct{}

func (NopStats) RecordDecision(constants.RoutingStatus) {}

// Counter tallies decisions by status.
type Counter struct {
	mu     sync.Mutex
	counts map[constants.RoutingStatus]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[constants.RoutingStatus]int)}
}

func (c *Counter) RecordDecision(status constants.RoutingStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[status]++
}

func (c *Counter) Counts() map[constants.RoutingStatus]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[constants.RoutingStatus]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Service routes extraction results using rules from a Store.
type Service struct {
	store  *Store
	stats  StatsCollector
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store *Store, stats StatsCollector, logger *slog.Logger) *Service {
	if store == nil {
		store = NewStore()
	}
	if stats == nil {
		stats = NopStats{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, stats: stats, logger: logger, now: time.Now}
}

func (s *Service) Store() *Store { return s.store }

// RouteComponent routes a single named component under a rule.
func (s *Service) RouteComponent(ruleName, component string, conf float64) (ComponentDecision, error) {
	rule, err := s.store.Get(ruleName)
	if err != nil {
		return ComponentDecision{}, err
	}
	return routeComponent(rule, component, conf), nil
}

func routeComponent(rule Rule, component string, conf float64) ComponentDecision {
	d := ComponentDecision{
		Component:  component,
		Confidence: conf,
		Level:      rule.Level(conf),
		Status:     rule.Route(conf),
	}
	if conf < veryLowConfidence {
		d.Flags = append(d.Flags, FlagVeryLowConfidence)
	}
	return d
}

// RouteHeaderFields routes each extracted header field under the named rule.
func (s *Service) RouteHeaderFields(ruleName string, fields map[constants.FieldType]float64) ([]ComponentDecision, error) {
	rule, err := s.store.Get(ruleName)
	if err != nil {
		return nil, err
	}
	decisions := make([]ComponentDecision, 0, len(fields))
	for _, ft := range constants.AllFieldTypes() {
		conf, present := fields[ft]
		if !present {
			continue
		}
		decisions = append(decisions, routeComponent(rule, string(ft), conf))
	}
	return decisions, nil
}

// RouteTableRows routes each table row confidence under the named rule.
func (s *Service) RouteTableRows(ruleName string, rowConfidences []float64) ([]ComponentDecision, error) {
	rule, err := s.store.Get(ruleName)
	if err != nil {
		return nil, err
	}
	decisions := make([]ComponentDecision, 0, len(rowConfidences))
	for i, conf := range rowConfidences {
		decisions = append(decisions, routeComponent(rule, rowName(i), conf))
	}
	return decisions, nil
}

func rowName(i int) string {
	return "row_" + strconv.Itoa(i)
}

// RouteDocument aggregates component decisions into a document decision. Any
// rejected component rejects the document; with require_all_approved set, any
// non-approved component forces review; otherwise the document's own overall
// confidence is routed through the same thresholds.
func (s *Service) RouteDocument(
	ruleName, documentID string,
	overallConfidence float64,
	components []ComponentDecision,
) (*DocumentDecision, error) {
	rule, err := s.store.Get(ruleName)
	if err != nil {
		return nil, err
	}

	decision := &DocumentDecision{
		DecisionID: uuid.New().String(),
		DocumentID: documentID,
		Rule:       rule.Name,
		Confidence: overallConfidence,
		Components: components,
		Timestamp:  s.now(),
	}

	anyRejected := false
	allApproved := true
	confs := make([]float64, 0, len(components))
	for _, c := range components {
		confs = append(confs, c.Confidence)
		switch c.Status {
		case constants.Rejected:
			anyRejected = true
			allApproved = false
		case constants.ReviewRequired:
			allApproved = false
		}
	}

	switch {
	case anyRejected:
		decision.Status = constants.Rejected
	case rule.RequireAllApproved && !allApproved:
		decision.Status = constants.ReviewRequired
	default:
		decision.Status = rule.Route(overallConfidence)
	}

	if overallConfidence < veryLowConfidence {
		decision.Flags = append(decision.Flags, FlagVeryLowConfidence)
	}
	if decision.Status == constants.ReviewRequired {
		decision.Flags = append(decision.Flags, FlagReviewNeeded)
	}
	if len(confs) > 0 {
		if confidence.Mean(confs) < rule.Medium {
			decision.Flags = append(decision.Flags, FlagLowAverageConfidence)
		}
		if confidence.Range(confs) > confidenceVarianceLimit {
			decision.Flags = append(decision.Flags, FlagHighConfidenceVariance)
		}
	}
	decision.RecommendedAction = recommendedAction(decision.Status)

	s.stats.RecordDecision(decision.Status)
	s.logger.Info("routing.document_decided",
		"document_id", documentID,
		"rule", rule.Name,
		"status", decision.Status,
		"confidence", overallConfidence,
		"components", len(components),
		"flags", decision.Flags,
	)
	return decision, nil
}

func recommendedAction(status constants.RoutingStatus) string {
	switch status {
	case constants.Approved:
		return "auto_process"
	case constants.Rejected:
		return "rescan_or_manual_entry"
	default:
		return "manual_review"
	}
}
