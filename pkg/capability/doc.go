// Package capability models session capability tokens as a small tagged
// grammar instead of ad-hoc strings.
//
// A token takes one of three forms:
//
//   - "action": an exact grant for a single action
//   - "action:*": a resource-scoped wildcard covering the named action on
//     any resource
//   - "*": the global wildcard covering every action
//
// Tokens are parsed once into a Set at session creation, so the hot
// Allows check is a couple of map lookups with no string scanning.
//
// Example:
//
//	set, err := capability.NewSet("assets:read", "assets:update", "transfers:*")
//	if err != nil {
//	    // malformed token, fail closed
//	}
//	set.Allows("assets:read") // true
//	set.Allows("transfers")   // true, via "transfers:*"
//	set.Allows("admin")       // false
package capability
