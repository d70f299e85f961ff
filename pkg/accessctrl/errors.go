package accessctrl

import "errors"

var (
	// ErrUnknownRole indicates the role does not exist in the rule tables.
	ErrUnknownRole = errors.New("accessctrl.unknown_role")

	// ErrCircularInheritance indicates a cycle in role inheritance.
	ErrCircularInheritance = errors.New("accessctrl.circular_inheritance")

	// ErrInvalidRuleSource indicates the rule source produced unusable data.
	ErrInvalidRuleSource = errors.New("accessctrl.invalid_rule_source")
)
