package session

import "time"

// Predicate evaluates one context key from a CapabilityCheck against the
// session. It must be pure: no I/O, no stored state.
type Predicate func(s *Session, value any, now time.Time) bool

// HourRange is the value type for the built-in "hour_range" predicate. It
// covers hours [From, To) in the validation clock's location and supports
// wrap-around ranges such as 22..6.
type HourRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether the instant's hour falls inside the range.
func (r HourRange) Contains(now time.Time) bool {
	h := now.Hour()
	if r.From <= r.To {
		return h >= r.From && h < r.To
	}
	return h >= r.From || h < r.To
}

// defaultPredicates returns the built-in context predicates. "owner" passes
// when the declared owner equals the session's user, "hour_range" passes
// when validation happens inside the declared HourRange.
func defaultPredicates() map[string]Predicate {
	return map[string]Predicate{
		"owner": func(s *Session, value any, _ time.Time) bool {
			owner, ok := value.(string)
			return ok && owner == s.UserID
		},
		"hour_range": func(_ *Session, value any, now time.Time) bool {
			r, ok := value.(HourRange)
			return ok && r.Contains(now)
		},
	}
}
