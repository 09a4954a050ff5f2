package ai

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/logger"
)

// Talks to the real Gemini API; skipped unless TOWNGUIDE_TEST_GEMINI_KEY is set.
func TestGeminiProvider_Live(t *testing.T) {
	key := strings.TrimSpace(os.Getenv("TOWNGUIDE_TEST_GEMINI_KEY"))
	if key == "" {
		t.Skip("TOWNGUIDE_TEST_GEMINI_KEY not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider, err := NewGeminiProvider(ctx, key, os.Getenv("TOWNGUIDE_AI_MODEL"))
	require.NoError(t, err)
	t.Cleanup(provider.Close)

	f := NewFormatter(provider, 20*time.Second, logger.NewTestLogger(t))
	prompt := "Válasz típusa: greeting\nLátogató üzenete: Szia!\nTÉNYEK:\n- Város: Kőszeg, napszak: reggel"
	out := f.Format(ctx, prompt, "FALLBACK")

	assert.NotEqual(t, "FALLBACK", out)
	assert.NotContains(t, out, "```")
	assert.NotContains(t, out, "**")
}
