package routing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
)

// builtinRules are always present and cannot be modified or deleted.
func builtinRules() []Rule {
	return []Rule{
		{
			Name:        "default",
			Description: "balanced thresholds, low confidence goes to review",
			High:        0.85,
			Medium:      0.60,
			LowAction:   constants.ActionReview,
		},
		{
			Name:               "strict",
			Description:        "high bar, low confidence is rejected outright",
			High:               0.90,
			Medium:             0.70,
			LowAction:          constants.ActionReject,
			RequireAllApproved: true,
		},
		{
			Name:        "lenient",
			Description: "permissive thresholds for trusted vendors",
			High:        0.75,
			Medium:      0.50,
			LowAction:   constants.ActionReview,
		},
	}
}

// Store holds routing rules by name. Reads vastly outnumber writes; rules may
// be reconfigured while extractions are in flight, so access is guarded.
type Store struct {
	mu      sync.RWMutex
	rules   map[string]Rule
	builtin map[string]bool
}

func NewStore() *Store {
	s := &Store{
		rules:   make(map[string]Rule),
		builtin: make(map[string]bool),
	}
	for _, r := range builtinRules() {
		s.rules[r.Name] = r
		s.builtin[r.Name] = true
	}
	return s
}

// Get returns the rule by name. Unknown names are an error, never a silent
// fallback to the default rule.
func (s *Store) Get(name string) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[name]
	if !ok {
		return Rule{}, common.NewAppError("ROUTING_RULE_NOT_FOUND",
			fmt.Sprintf("no routing rule named %q", name), common.ErrNotFound)
	}
	return r, nil
}

// List returns all rules sorted by name.
func (s *Store) List() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Add registers a new custom rule. The name must be unused.
func (s *Store) Add(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.Name]; exists {
		return common.NewAppError("ROUTING_RULE_EXISTS",
			fmt.Sprintf("routing rule %q already exists", rule.Name), common.ErrInvalidInput)
	}
	s.rules[rule.Name] = rule
	return nil
}

// Update replaces an existing custom rule. Built-ins are protected.
func (s *Store) Update(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.Name]; !exists {
		return common.NewAppError("ROUTING_RULE_NOT_FOUND",
			fmt.Sprintf("no routing rule named %q", rule.Name), common.ErrNotFound)
	}
	if s.builtin[rule.Name] {
		return common.NewAppError("ROUTING_RULE_PROTECTED",
			fmt.Sprintf("built-in rule %q cannot be modified", rule.Name), common.ErrProtected)
	}
	s.rules[rule.Name] = rule
	return nil
}

// Delete removes a custom rule. Built-ins are protected.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[name]; !exists {
		return common.NewAppError("ROUTING_RULE_NOT_FOUND",
			fmt.Sprintf("no routing rule named %q", name), common.ErrNotFound)
	}
	if s.builtin[name] {
		return common.NewAppError("ROUTING_RULE_PROTECTED",
			fmt.Sprintf("built-in rule %q cannot be deleted", name), common.ErrProtected)
	}
	delete(s.rules, name)
	return nil
}
