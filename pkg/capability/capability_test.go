package capability_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustkit/pkg/capability"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    capability.Token
		wantErr error
	}{
		{
			name:  "exact token",
			input: "assets:read",
			want:  capability.Token{Kind: capability.KindExact, Name: "assets:read"},
		},
		{
			name:  "global wildcard",
			input: "*",
			want:  capability.Token{Kind: capability.KindGlobal},
		},
		{
			name:  "resource wildcard",
			input: "assets:*",
			want:  capability.Token{Kind: capability.KindResourceWildcard, Name: "assets"},
		},
		{
			name:  "whitespace trimmed",
			input: "  transfers  ",
			want:  capability.Token{Kind: capability.KindExact, Name: "transfers"},
		},
		{
			name:    "empty token",
			input:   "",
			wantErr: capability.ErrEmptyToken,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: capability.ErrEmptyToken,
		},
		{
			name:    "bare wildcard suffix",
			input:   ":*",
			wantErr: capability.ErrMalformedToken,
		},
		{
			name:    "embedded wildcard",
			input:   "as*sets",
			wantErr: capability.ErrMalformedToken,
		},
		{
			name:    "wildcard inside prefix",
			input:   "as*sets:*",
			wantErr: capability.ErrMalformedToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok, err := capability.Parse(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tok)
		})
	}
}

func TestSetAllows(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		tokens []string
		action string
		want   bool
	}{
		{"exact match", []string{"assets:read", "assets:update"}, "assets:read", true},
		{"exact miss", []string{"assets:read"}, "assets:update", false},
		{"global grants anything", []string{"*"}, "anything", true},
		{"resource wildcard grants action", []string{"assets:*"}, "assets", true},
		{"resource wildcard does not widen", []string{"assets:*"}, "assets:update", false},
		{"empty action denied", []string{"*"}, "", false},
		{"empty set denies", nil, "assets:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set, err := capability.NewSet(tt.tokens...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Allows(tt.action))
		})
	}
}

// Allows must hold exactly when the action, the global wildcard, or the
// action's own resource wildcard is a member of the set.
func TestSetAllowsProperty(t *testing.T) {
	t.Parallel()

	actions := []string{"read", "write", "assets:read", "assets", "transfers"}
	sets := [][]string{
		{},
		{"read"},
		{"*"},
		{"read:*"},
		{"assets:*", "write"},
		{"assets:read", "transfers:*"},
	}

	for _, tokens := range sets {
		set := capability.MustSet(tokens...)
		members := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			members[tok] = true
		}

		for _, a := range actions {
			want := members[a] || members["*"] || members[a+":*"]
			assert.Equal(t, want, set.Allows(a), "set=%v action=%q", tokens, a)
		}
	}
}

func TestNewSetRejectsMalformed(t *testing.T) {
	t.Parallel()

	_, err := capability.NewSet("assets:read", "")
	assert.ErrorIs(t, err, capability.ErrEmptyToken)

	_, err = capability.NewSet("assets:read", "bad*token")
	assert.ErrorIs(t, err, capability.ErrMalformedToken)
}

func TestSetTokensCanonical(t *testing.T) {
	t.Parallel()

	set := capability.MustSet("transfers:*", "assets:read", "*", "assets:read")
	assert.Equal(t, []string{"*", "assets:read", "transfers:*"}, set.Tokens())
	assert.Equal(t, 3, set.Len())
}

func TestSetJSONRoundTrip(t *testing.T) {
	t.Parallel()

	set := capability.MustSet("assets:read", "transfers:*")
	data, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded capability.Set
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, set.Tokens(), decoded.Tokens())
	assert.True(t, decoded.Allows("assets:read"))
	assert.True(t, decoded.Allows("transfers"))
}

func TestSetJSONRejectsMalformed(t *testing.T) {
	t.Parallel()

	var decoded capability.Set
	err := json.Unmarshal([]byte(`["ok","bad*token"]`), &decoded)
	assert.ErrorIs(t, err, capability.ErrMalformedToken)
}
