package accessctrl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const actionWildcard = "*"

type grantKey struct {
	resource string
	action   string
}

type compiledRole struct {
	wildcard bool
	// grants keeps every rule per (resource, action) pair; several rules may
	// target the same pair with different context requirements.
	grants map[grantKey][]Rule
}

// Evaluator answers permission checks against precomputed rule tables.
// It is immutable after construction and safe for unbounded concurrent use.
type Evaluator struct {
	roles map[string]compiledRole
}

// NewEvaluator loads roles from the source, validates inheritance, and
// flattens every role's direct and inherited rules into lookup maps.
func NewEvaluator(ctx context.Context, source RuleSource) (*Evaluator, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrInvalidRuleSource, err)
	}
	if roles == nil {
		roles = make(map[string]Role)
	}

	if err := validateInheritance(roles); err != nil {
		return nil, err
	}

	compiled := make(map[string]compiledRole, len(roles))
	for name := range roles {
		compiled[name] = compileRole(name, roles)
	}

	return &Evaluator{roles: compiled}, nil
}

// HasPermission reports whether the role may perform the action on the
// resource under the supplied request context. Malformed resource or action
// strings evaluate to false for every role, including wildcard roles, before
// any rule lookup. The check is side-effect-free.
func (e *Evaluator) HasPermission(role, resource, action string, reqCtx map[string]any) bool {
	if !wellFormed(resource) || !wellFormed(action) {
		return false
	}

	r, ok := e.roles[role]
	if !ok {
		return false
	}

	// Exact grant, then resource-wide grant, then the administrative wildcard.
	if rules, ok := r.grants[grantKey{resource, action}]; ok {
		if anyRuleSatisfied(rules, reqCtx) {
			return true
		}
	}
	if rules, ok := r.grants[grantKey{resource, actionWildcard}]; ok {
		if anyRuleSatisfied(rules, reqCtx) {
			return true
		}
	}
	return r.wildcard
}

// VerifyRole returns ErrUnknownRole if the role is not in the rule tables.
func (e *Evaluator) VerifyRole(role string) error {
	if _, ok := e.roles[role]; !ok {
		return ErrUnknownRole
	}
	return nil
}

// Roles returns the number of compiled roles.
func (e *Evaluator) Roles() int {
	return len(e.roles)
}

// wellFormed rejects resource/action strings that could subvert rule lookup:
// empty strings, embedded wildcards, path-traversal sequences, and NUL bytes.
func wellFormed(s string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, actionWildcard) {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	if strings.IndexByte(s, 0) >= 0 {
		return false
	}
	return true
}

func anyRuleSatisfied(rules []Rule, reqCtx map[string]any) bool {
	for i := range rules {
		if contextSatisfied(rules[i].Context, reqCtx) {
			return true
		}
	}
	return false
}

// contextSatisfied checks every declared requirement against the supplied
// context with strict type-and-value equality. Boolean true is satisfied only
// by boolean true, never by "true" or 1.
func contextSatisfied(required map[string]any, supplied map[string]any) bool {
	if len(required) == 0 {
		return true
	}

	for key, want := range required {
		got, ok := supplied[key]
		if !ok {
			return false
		}
		if reflect.TypeOf(got) != reflect.TypeOf(want) {
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// compileRole flattens a role's direct and inherited rules.
func compileRole(name string, roles map[string]Role) compiledRole {
	out := compiledRole{grants: make(map[grantKey][]Rule)}
	collectRules(name, roles, &out, make(map[string]bool), 0)
	return out
}

func collectRules(name string, roles map[string]Role, out *compiledRole, visited map[string]bool, depth int) {
	if depth > MaxInheritanceDepth || visited[name] {
		return
	}
	visited[name] = true

	role, ok := roles[name]
	if !ok {
		return
	}

	if role.Wildcard {
		out.wildcard = true
	}
	for _, rule := range role.Rules {
		key := grantKey{rule.Resource, rule.Action}
		out.grants[key] = append(out.grants[key], rule)
	}
	for _, parent := range role.Inherits {
		collectRules(parent, roles, out, visited, depth+1)
	}
}

// validateInheritance rejects cycles and chains deeper than the allowed bound.
func validateInheritance(roles map[string]Role) error {
	for name := range roles {
		if err := walkInheritance(name, roles, []string{name}, 0); err != nil {
			return err
		}
	}
	return nil
}

func walkInheritance(name string, roles map[string]Role, path []string, depth int) error {
	if depth > MaxInheritanceDepth {
		return errors.Join(ErrCircularInheritance,
			fmt.Errorf("inheritance deeper than %d at role %q", MaxInheritanceDepth, name))
	}

	role, ok := roles[name]
	if !ok {
		return nil
	}

	for _, parent := range role.Inherits {
		for _, seen := range path {
			if seen == parent {
				return errors.Join(ErrCircularInheritance,
					fmt.Errorf("cycle: %s -> %s", name, parent))
			}
		}
		if err := walkInheritance(parent, roles, append(path, parent), depth+1); err != nil {
			return err
		}
	}
	return nil
}
