package routines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSnapsToLastPage(t *testing.T) {
	w := PageWindow{Offset: 55, PageSize: 10, Total: 50}
	off, redirect := w.Normalize()

	assert.True(t, redirect)
	assert.Equal(t, 40, off)
}

func TestNormalizeSnapFormula(t *testing.T) {
	// Corrected offset is always max(0, total-pageSize).
	w := PageWindow{Offset: 50, PageSize: 10, Total: 45}
	off, redirect := w.Normalize()

	assert.True(t, redirect)
	assert.Equal(t, 35, off)
}

func TestNormalizeInRangeNoRedirect(t *testing.T) {
	w := PageWindow{Offset: 20, PageSize: 10, Total: 45}
	off, redirect := w.Normalize()

	assert.False(t, redirect)
	assert.Equal(t, 20, off)
}

func TestNormalizeNegativeOffsetClamps(t *testing.T) {
	w := PageWindow{Offset: -5, PageSize: 10, Total: 45}
	off, redirect := w.Normalize()

	assert.True(t, redirect)
	assert.Equal(t, 0, off)
}

func TestNormalizeEmptyCatalog(t *testing.T) {
	w := PageWindow{Offset: 30, PageSize: 10, Total: 0}
	off, redirect := w.Normalize()

	assert.False(t, redirect)
	assert.Equal(t, 30, off)
}

func TestNormalizeSmallCatalogSnapsToZero(t *testing.T) {
	w := PageWindow{Offset: 100, PageSize: 25, Total: 5}
	off, redirect := w.Normalize()

	assert.True(t, redirect)
	assert.Equal(t, 0, off)
}

func TestNormalizeCorrectedOffsetAlwaysInRange(t *testing.T) {
	for total := 1; total <= 60; total += 7 {
		for offset := 0; offset <= 120; offset += 11 {
			w := PageWindow{Offset: offset, PageSize: 10, Total: total}
			off, _ := w.Normalize()
			assert.Less(t, off, total, "offset=%d total=%d", offset, total)
			assert.GreaterOrEqual(t, off, 0)
		}
	}
}

func TestPageLinks(t *testing.T) {
	w := PageWindow{Offset: 20, PageSize: 10, Total: 45}

	assert.True(t, w.HasPrev())
	assert.True(t, w.HasNext())
	assert.Equal(t, 10, w.PrevOffset())
	assert.Equal(t, 30, w.NextOffset())

	first := PageWindow{Offset: 0, PageSize: 10, Total: 45}
	assert.False(t, first.HasPrev())
	assert.Equal(t, 0, first.PrevOffset())

	last := PageWindow{Offset: 40, PageSize: 10, Total: 45}
	assert.False(t, last.HasNext())
}
