// Package accessctrl evaluates role/resource/action permissions with
// optional contextual predicates, independent of any session state.
//
// Rules are loaded once from a RuleSource, inheritance is resolved and
// flattened, and lookups run against precomputed immutable maps with no
// locks and no I/O, so HasPermission sustains very high call rates.
//
// Lookup precedence for (role, resource, action):
//
//  1. exact (resource, action) grant
//  2. (resource, "*") resource-wide grant
//  3. the role's full wildcard grant (administrative roles)
//
// Malformed resource or action strings (empty, containing a wildcard,
// a path-traversal sequence, or a NUL byte) always evaluate to false before
// any rule lookup, for every role.
//
// Context predicates use strict type-and-value equality: a rule requiring the
// boolean true is satisfied only by the literal boolean true, never by the
// string "true". This closes type-confusion bypasses.
package accessctrl
