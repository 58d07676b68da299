package reference

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ref, err := New("EXP", time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^EXP-20250131-[A-Z0-9]{5}$`), ref)
}

func TestRandomSuffix(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		s, err := RandomSuffix(5)
		require.NoError(t, err)
		assert.Len(t, s, 5)
		seen[s] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "suffixes should vary")

	_, err := RandomSuffix(0)
	assert.Error(t, err)
}
