package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDuplicates(t *testing.T) {
	t.Run("all distinct", func(t *testing.T) {
		a := validCandidate()
		b := validCandidate()
		b.Month = 7

		groups := DetectDuplicates([]FactCandidate{a, b})
		assert.Empty(t, groups.Duplicates)
		assert.Len(t, groups.Unique, 2)
	})

	t.Run("first occurrence stays in Unique and heads its group", func(t *testing.T) {
		a := validCandidate()
		b := validCandidate()

		groups := DetectDuplicates([]FactCandidate{a, b})

		require.Len(t, groups.Duplicates, 1)
		assert.Len(t, groups.Duplicates[0], 2)
		require.Len(t, groups.Unique, 1)
		assert.Equal(t, a, groups.Unique[0])
		assert.Equal(t, a, groups.Duplicates[0][0])
	})

	t.Run("triplicates extend the existing group", func(t *testing.T) {
		a := validCandidate()

		groups := DetectDuplicates([]FactCandidate{a, a, a})
		require.Len(t, groups.Duplicates, 1)
		assert.Len(t, groups.Duplicates[0], 3)
		assert.Len(t, groups.Unique, 1)
	})

	t.Run("values collide after 2-decimal formatting", func(t *testing.T) {
		a := validCandidate()
		a.Value = 10
		b := validCandidate()
		b.Value = 10.004

		groups := DetectDuplicates([]FactCandidate{a, b})
		assert.Len(t, groups.Duplicates, 1)
	})

	t.Run("missing codes fall back to sentinels", func(t *testing.T) {
		a := validCandidate()
		a.EntityCode = ""
		a.AccountCode = ""
		b := a

		groups := DetectDuplicates([]FactCandidate{a, b})
		require.Len(t, groups.Duplicates, 1)

		c := validCandidate()
		c.EntityCode = "NO_ENTITY"
		c.AccountCode = "NO_ACCOUNT"
		collided := DetectDuplicates([]FactCandidate{a, c})
		// Sentinel fallback makes an absent code collide with the literal
		// sentinel string.
		assert.Len(t, collided.Duplicates, 1)
	})

	t.Run("scenario differences separate groups", func(t *testing.T) {
		a := validCandidate()
		b := validCandidate()
		b.ScenarioID = "budget"

		groups := DetectDuplicates([]FactCandidate{a, b})
		assert.Empty(t, groups.Duplicates)
	})

	t.Run("empty input", func(t *testing.T) {
		groups := DetectDuplicates(nil)
		assert.NotNil(t, groups.Duplicates)
		assert.Empty(t, groups.Duplicates)
		assert.Empty(t, groups.Unique)
	})
}
