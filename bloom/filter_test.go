package bloom_test

import (
	"fmt"
	"testing"

	"github.com/imagineworking4288/pagebound/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Key not yet added should return false
	assert.False(t, f.Test("jane@example.com"))

	// Add key
	f.Add("jane@example.com")

	// Now it should return true
	assert.True(t, f.Test("jane@example.com"))

	// Different key should still return false
	assert.False(t, f.Test("john@example.com"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("jane@example.com"), "first sighting is new")
	assert.True(t, f.TestAndAdd("jane@example.com"), "second sighting is a duplicate")
	assert.False(t, f.TestAndAdd("john@example.com"), "other keys unaffected")
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), f.EstimatedCount())

	// Add some keys
	f.Add("jane@example.com")
	f.Add("john@example.com")
	f.Add("mary@example.com")

	// Estimated count should be approximately 3
	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	key := "jane@example.com"

	f.Add(key)
	countAfterFirst := f.EstimatedCount()

	// Adding the same key multiple times should not change the filter
	f.Add(key)
	f.Add(key)
	f.Add(key)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test(key))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	// Add 10k keys
	for i := range numItems {
		f.Add(fmt.Sprintf("added-%d@example.com", i))
	}

	// Test with 10k keys that were NOT added
	falsePositives := 0
	for i := range testProbes {
		key := fmt.Sprintf("notadded-%d@example.com", i)
		if f.Test(key) {
			falsePositives++
		}
	}

	// False positive rate should be approximately 1%
	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
