package accessctrl

import (
	"context"
	"maps"
)

// MemorySource is a RuleSource over a static in-memory role map.
type MemorySource struct {
	roles map[string]Role
}

// NewMemorySource creates a source from the given role tables.
func NewMemorySource(roles map[string]Role) *MemorySource {
	return &MemorySource{roles: roles}
}

// Load returns a copy of the role map so callers cannot mutate the source.
func (s *MemorySource) Load(_ context.Context) (map[string]Role, error) {
	if s.roles == nil {
		return map[string]Role{}, nil
	}

	out := make(map[string]Role, len(s.roles))
	maps.Copy(out, s.roles)
	return out, nil
}
