package capability

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// Global is the wildcard token that grants every action.
	Global = "*"

	// wildcardSuffix marks a resource-scoped wildcard token ("action:*").
	wildcardSuffix = ":*"
)

var (
	// ErrEmptyToken indicates an empty capability token.
	ErrEmptyToken = errors.New("capability.empty_token")

	// ErrMalformedToken indicates a token that fits none of the grammar forms.
	ErrMalformedToken = errors.New("capability.malformed_token")
)

// Kind identifies the grammar form of a parsed token.
type Kind int

const (
	KindExact Kind = iota
	KindResourceWildcard
	KindGlobal
)

// Token is a single parsed capability.
type Token struct {
	Kind Kind
	// Name is the action for KindExact, the wildcard prefix for
	// KindResourceWildcard, and empty for KindGlobal.
	Name string
}

// String returns the canonical string form of the token.
func (t Token) String() string {
	switch t.Kind {
	case KindGlobal:
		return Global
	case KindResourceWildcard:
		return t.Name + wildcardSuffix
	default:
		return t.Name
	}
}

// Parse converts a raw capability string into a Token.
// Whitespace-only and structurally invalid tokens are rejected so a
// malformed grant can never silently widen into a broader one.
func Parse(raw string) (Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Token{}, ErrEmptyToken
	}

	if raw == Global {
		return Token{Kind: KindGlobal}, nil
	}

	if strings.HasSuffix(raw, wildcardSuffix) {
		prefix := strings.TrimSuffix(raw, wildcardSuffix)
		if prefix == "" || strings.Contains(prefix, Global) {
			return Token{}, errors.Join(ErrMalformedToken, fmt.Errorf("invalid wildcard token %q", raw))
		}
		return Token{Kind: KindResourceWildcard, Name: prefix}, nil
	}

	if strings.Contains(raw, Global) {
		return Token{}, errors.Join(ErrMalformedToken, fmt.Errorf("wildcard must be %q or a %q suffix: %q", Global, wildcardSuffix, raw))
	}

	return Token{Kind: KindExact, Name: raw}, nil
}

// Set is an immutable collection of parsed capability tokens.
// The zero value is an empty set that allows nothing.
type Set struct {
	global    bool
	exact     map[string]struct{}
	wildcards map[string]struct{}
}

// NewSet parses the given raw tokens into a Set.
// Any malformed token fails the whole set.
func NewSet(raw ...string) (Set, error) {
	s := Set{
		exact:     make(map[string]struct{}, len(raw)),
		wildcards: make(map[string]struct{}),
	}

	for _, r := range raw {
		tok, err := Parse(r)
		if err != nil {
			return Set{}, err
		}
		switch tok.Kind {
		case KindGlobal:
			s.global = true
		case KindResourceWildcard:
			s.wildcards[tok.Name] = struct{}{}
		default:
			s.exact[tok.Name] = struct{}{}
		}
	}

	return s, nil
}

// MustSet is like NewSet but panics on malformed tokens.
// Intended for tests and static grant tables.
func MustSet(raw ...string) Set {
	s, err := NewSet(raw...)
	if err != nil {
		panic(err)
	}
	return s
}

// Allows reports whether the set grants the given action.
// An action is granted by an exact token, the global wildcard, or the
// action's resource-scoped wildcard ("action:*").
func (s Set) Allows(action string) bool {
	if action == "" {
		return false
	}
	if s.global {
		return true
	}
	if _, ok := s.exact[action]; ok {
		return true
	}
	_, ok := s.wildcards[action]
	return ok
}

// IsEmpty reports whether the set contains no tokens.
func (s Set) IsEmpty() bool {
	return !s.global && len(s.exact) == 0 && len(s.wildcards) == 0
}

// Len returns the number of distinct tokens in the set.
func (s Set) Len() int {
	n := len(s.exact) + len(s.wildcards)
	if s.global {
		n++
	}
	return n
}

// Tokens returns the canonical sorted string forms of all tokens.
func (s Set) Tokens() []string {
	if s.IsEmpty() {
		return nil
	}

	out := make([]string, 0, s.Len())
	if s.global {
		out = append(out, Global)
	}
	for name := range s.exact {
		out = append(out, name)
	}
	for name := range s.wildcards {
		out = append(out, name+wildcardSuffix)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as its sorted token list.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tokens())
}

// UnmarshalJSON decodes a token list, rejecting malformed tokens.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewSet(raw...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
