package accessctrl_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustkit/pkg/accessctrl"
)

const rulesYAML = `
roles:
  admin:
    wildcard: true
  user:
    inherits: [viewer]
    rules:
      - resource: assets
        action: update
        context:
          owner: true
  viewer:
    rules:
      - resource: assets
        action: read
`

func TestYAMLSourceFromBytes(t *testing.T) {
	t.Parallel()

	source := accessctrl.NewYAMLSourceFromBytes([]byte(rulesYAML))
	eval, err := accessctrl.NewEvaluator(context.Background(), source)
	require.NoError(t, err)

	assert.True(t, eval.HasPermission("admin", "anything", "anything", nil))
	assert.True(t, eval.HasPermission("user", "assets", "read", nil))
	// YAML booleans stay booleans: string context values must not pass.
	assert.True(t, eval.HasPermission("user", "assets", "update", map[string]any{"owner": true}))
	assert.False(t, eval.HasPermission("user", "assets", "update", map[string]any{"owner": "true"}))
}

func TestYAMLSourceFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0o600))

	eval, err := accessctrl.NewEvaluator(context.Background(), accessctrl.NewYAMLSource(path))
	require.NoError(t, err)
	assert.True(t, eval.HasPermission("viewer", "assets", "read", nil))
}

func TestYAMLSourceErrors(t *testing.T) {
	t.Parallel()

	_, err := accessctrl.NewEvaluator(context.Background(), accessctrl.NewYAMLSource("/nonexistent/rules.yaml"))
	assert.ErrorIs(t, err, accessctrl.ErrInvalidRuleSource)

	_, err = accessctrl.NewEvaluator(context.Background(), accessctrl.NewYAMLSourceFromBytes([]byte("roles: [not a map]")))
	assert.ErrorIs(t, err, accessctrl.ErrInvalidRuleSource)

	eval, err := accessctrl.NewEvaluator(context.Background(), accessctrl.NewYAMLSourceFromBytes([]byte("{}")))
	require.NoError(t, err)
	assert.False(t, eval.HasPermission("anyone", "assets", "read", nil))
}
