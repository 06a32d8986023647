package lint

import (
	"slices"
	"strings"
	"sync"
)

// Registry is a set of rules keyed by ID. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]RuleDef)}
}

// Add registers rule, replacing any rule with the same ID.
func (r *Registry) Add(rule RuleDef) {
	r.mu.Lock()
	r.rules[rule.ID] = rule
	r.mu.Unlock()
}

// All returns the rules ordered by ID.
func (r *Registry) All() []RuleDef {
	r.mu.RLock()
	out := make([]RuleDef, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b RuleDef) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Lookup returns the rule with the given ID.
func (r *Registry) Lookup(id string) (RuleDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Reset removes every rule.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.rules = make(map[string]RuleDef)
	r.mu.Unlock()
}

// Default holds the rules registered by the rule packages. The package
// level functions below operate on it.
var Default = NewRegistry()

// Register adds a rule to the default registry. Rule packages call it from
// init.
func Register(rule RuleDef) { Default.Add(rule) }

// GetAll returns all registered rules ordered by ID.
func GetAll() []RuleDef { return Default.All() }

// GetByID returns a registered rule by its ID.
func GetByID(id string) (RuleDef, bool) { return Default.Lookup(id) }

// GetByGroup returns the registered rules of group ordered by ID.
func GetByGroup(group string) []RuleDef {
	var out []RuleDef
	for _, rule := range Default.All() {
		if rule.Group == group {
			out = append(out, rule)
		}
	}
	return out
}

// Count returns the number of registered rules.
func Count() int { return Default.Len() }

// Clear removes all registered rules. Tests use it to run against a known
// rule set.
func Clear() { Default.Reset() }
