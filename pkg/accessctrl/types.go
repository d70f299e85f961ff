package accessctrl

import "context"

// MaxInheritanceDepth bounds role inheritance chains. The hierarchy is
// expected to be linear (each role builds on the one below), so the bound is
// generous.
const MaxInheritanceDepth = 10

// Rule grants an action on a resource, optionally guarded by required
// context values matched with strict type-and-value equality.
type Rule struct {
	// Resource the rule applies to.
	Resource string `yaml:"resource"`

	// Action granted on the resource, or "*" for every action on it.
	Action string `yaml:"action"`

	// Context lists required context values. When present, every entry must
	// be matched exactly by the caller-supplied context for the rule to grant.
	Context map[string]any `yaml:"context,omitempty"`
}

// Role is a named set of rules with optional inheritance.
// A wildcard role (administrative) is granted everything; its grants subsume
// every inherited role's grants, never the reverse.
type Role struct {
	// Rules directly granted to this role.
	Rules []Rule `yaml:"rules,omitempty"`

	// Inherits lists role names whose rules this role also receives.
	Inherits []string `yaml:"inherits,omitempty"`

	// Wildcard grants every well-formed (resource, action) pair.
	Wildcard bool `yaml:"wildcard,omitempty"`
}

// RuleSource provides the role tables the evaluator compiles at construction.
type RuleSource interface {
	// Load returns all roles keyed by name.
	Load(ctx context.Context) (map[string]Role, error)
}
