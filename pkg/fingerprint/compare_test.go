package fingerprint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustkit/pkg/fingerprint"
)

func TestCompareReflexive(t *testing.T) {
	t.Parallel()

	gen := fingerprint.NewGenerator()
	fp, err := gen.Generate(context.Background(), validComponents(), "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, 100, fingerprint.Compare(fp, fp))
}

func TestCompareSymmetric(t *testing.T) {
	t.Parallel()

	gen := fingerprint.NewGenerator()
	ctx := context.Background()

	a, err := gen.Generate(ctx, validComponents(), "203.0.113.7")
	require.NoError(t, err)

	other := validComponents()
	other.Platform = "Win32"
	other.Timezone = "America/New_York"
	other.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	b, err := gen.Generate(ctx, other, "198.51.100.1")
	require.NoError(t, err)

	assert.Equal(t, fingerprint.Compare(a, b), fingerprint.Compare(b, a))
}

func TestCompareWeights(t *testing.T) {
	t.Parallel()

	gen := fingerprint.NewGenerator()
	ctx := context.Background()

	a, err := gen.Generate(ctx, validComponents(), "203.0.113.7")
	require.NoError(t, err)

	// Same hardware, different browser stack: device ID (40), resolution (10),
	// timezone (10), platform (5) and cores (5) still match = 70.
	other := validComponents()
	other.UserAgent = "Mozilla/5.0 (Macintosh) Gecko/20100101 Firefox/128.0"
	other.Language = "de-DE"
	b, err := gen.Generate(ctx, other, "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, 70, fingerprint.Compare(a, b))
	assert.True(t, fingerprint.SameDevice(a, b))

	// Entirely different profile shares nothing.
	assert.Equal(t, 0, fingerprint.Compare(a, fingerprint.Fingerprint{
		DeviceID:            "x",
		BrowserHash:         "y",
		ScreenResolution:    "800x600",
		Timezone:            "UTC",
		UserAgent:           "curl/8.0",
		Platform:            "Linux",
		HardwareConcurrency: 1,
	}))
}
