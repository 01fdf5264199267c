package traffic

import (
	"sync"
	"time"
)

// Table holds the traffic rules and auto-scale rules. It is safe for
// concurrent use; reads return copies.
type Table struct {
	mu        sync.RWMutex
	rules     []Rule
	autoScale []AutoScaleRule
}

// NewTable creates an empty rule table.
func NewTable() *Table {
	return &Table{}
}

// AddRule appends a routing rule, clamping weight into [0,100]. Duplicate
// source/target pairs are legal and are stored as separate rules.
func (t *Table) AddRule(source, target string, weight int, condition string, now time.Time) Rule {
	t.mu.Lock()
	defer t.mu.Unlock()

	rule := Rule{
		ID:            len(t.rules) + 1,
		SourcePattern: source,
		Target:        target,
		Weight:        ClampWeight(weight),
		Condition:     condition,
		CreatedAt:     now,
	}
	t.rules = append(t.rules, rule)
	return rule
}

// AddAutoScaleRule appends an auto-scale rule. A non-positive cooldown falls
// back to DefaultCooldown.
func (t *Table) AddAutoScaleRule(metric Metric, threshold float64, action Action, cooldown time.Duration, now time.Time) AutoScaleRule {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	rule := AutoScaleRule{
		ID:        len(t.autoScale) + 1,
		Metric:    metric,
		Threshold: threshold,
		Action:    action,
		Cooldown:  cooldown,
		CreatedAt: now,
	}
	t.autoScale = append(t.autoScale, rule)
	return rule
}

// Rules returns a copy of all routing rules in insertion order.
func (t *Table) Rules() []Rule {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// AutoScaleRules returns a copy of all auto-scale rules in insertion order.
func (t *Table) AutoScaleRules() []AutoScaleRule {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]AutoScaleRule, len(t.autoScale))
	copy(out, t.autoScale)
	return out
}

// RuleCount returns the number of routing rules.
func (t *Table) RuleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.rules)
}

// AutoScaleRuleCount returns the number of auto-scale rules.
func (t *Table) AutoScaleRuleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.autoScale)
}

// Reset removes all rules from both tables.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rules = nil
	t.autoScale = nil
}
