package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	t.Run("clean batch recommends import", func(t *testing.T) {
		batch := ValidateBatch([]FactCandidate{validCandidate()}, testConfig(), nil, nil)
		report := RenderSummary(batch, DetectDuplicates(batch.Valid))

		assert.Contains(t, report, "Total records:    1")
		assert.Contains(t, report, "Valid:            1 (100.0%)")
		assert.Contains(t, report, "All records passed validation")
	})

	t.Run("invalid records surface error categories", func(t *testing.T) {
		bad := validCandidate()
		bad.ScenarioID = "actuals"

		batch := ValidateBatch([]FactCandidate{validCandidate(), bad}, testConfig(), nil, nil)
		report := RenderSummary(batch, DetectDuplicates(batch.Valid))

		assert.Contains(t, report, "Invalid:          1 (50.0%)")
		assert.Contains(t, report, "Error categories:")
		assert.Contains(t, report, "Invalid scenario 'actuals'")
		assert.Contains(t, report, "Review and correct the 1 invalid records")
	})

	t.Run("duplicate groups are listed up to a limit", func(t *testing.T) {
		var candidates []FactCandidate
		for month := 1; month <= 7; month++ {
			c := validCandidate()
			c.Month = month
			candidates = append(candidates, c, c)
		}

		batch := ValidateBatch(candidates, testConfig(), nil, nil)
		report := RenderSummary(batch, DetectDuplicates(batch.Valid))

		assert.Contains(t, report, "Duplicate groups: 7")
		assert.Contains(t, report, "... and 2 more groups")
		assert.Contains(t, report, "Resolve 7 duplicate groups")
	})

	t.Run("warnings produce a recommendation", func(t *testing.T) {
		c := validCandidate()
		c.Value = 0

		batch := ValidateBatch([]FactCandidate{c}, testConfig(), nil, nil)
		report := RenderSummary(batch, DetectDuplicates(batch.Valid))

		assert.Contains(t, report, "Inspect the 1 warnings")
		assert.NotContains(t, report, "All records passed validation")
	})

	t.Run("empty batch renders without dividing by zero", func(t *testing.T) {
		batch := ValidateBatch(nil, testConfig(), nil, nil)
		report := RenderSummary(batch, DetectDuplicates(nil))

		assert.Contains(t, report, "Total records:    0")
		assert.Contains(t, report, "(0.0%)")
	})
}

func TestErrorCategories(t *testing.T) {
	t.Run("groups by text before the first colon", func(t *testing.T) {
		assert.Equal(t, "Invalid scenario 'x'", categorizeError("Invalid scenario 'x': allowed scenarios are real"))
	})

	t.Run("truncates long colon-free messages", func(t *testing.T) {
		msg := strings.Repeat("a", 40)
		assert.Len(t, categorizeError(msg), 30)
	})

	t.Run("short messages pass through", func(t *testing.T) {
		assert.Equal(t, "Value is zero", categorizeError("Value is zero"))
	})

	t.Run("sorted by descending count", func(t *testing.T) {
		batch := BatchResult{
			Invalid: []InvalidCandidate{
				{Errors: []string{"B: one", "B: two", "A: one"}},
			},
		}
		cats := errorCategories(batch)
		assert.Equal(t, []errorCategory{{name: "B", count: 2}, {name: "A", count: 1}}, cats)
	})
}
