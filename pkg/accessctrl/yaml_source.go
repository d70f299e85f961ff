package accessctrl

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlDocument is the top-level schema of a YAML rule file:
//
//	roles:
//	  admin:
//	    wildcard: true
//	  user:
//	    inherits: [viewer]
//	    rules:
//	      - resource: assets
//	        action: update
//	        context:
//	          owner: true
//	  viewer:
//	    rules:
//	      - resource: assets
//	        action: read
type yamlDocument struct {
	Roles map[string]Role `yaml:"roles"`
}

// YAMLSource is a RuleSource reading role tables from YAML.
type YAMLSource struct {
	path string
	data []byte
}

// NewYAMLSource creates a source reading from the given file path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// NewYAMLSourceFromBytes creates a source over an in-memory YAML document.
func NewYAMLSourceFromBytes(data []byte) *YAMLSource {
	return &YAMLSource{data: data}
}

// Load parses the YAML document into role tables.
func (s *YAMLSource) Load(_ context.Context) (map[string]Role, error) {
	data := s.data
	if data == nil {
		var err error
		data, err = os.ReadFile(s.path)
		if err != nil {
			return nil, errors.Join(ErrInvalidRuleSource, fmt.Errorf("read %s: %w", s.path, err))
		}
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidRuleSource, err)
	}
	if doc.Roles == nil {
		return map[string]Role{}, nil
	}
	return doc.Roles, nil
}
