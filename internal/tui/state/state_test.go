package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, ClampCursor(-1, 3))
	assert.Equal(t, 2, ClampCursor(3, 3))
	assert.Equal(t, 1, ClampCursor(1, 3))
	assert.Equal(t, 0, ClampCursor(5, 0))
}

func TestPageStep(t *testing.T) {
	assert.Equal(t, 10, PageStep(0, false))
	assert.Equal(t, 12, PageStep(20, false))
	assert.Equal(t, 10, PageStep(20, true))
	assert.Equal(t, 3, PageStep(5, true))
}

func TestCenteredWindow(t *testing.T) {
	start, end := CenteredWindow(5, 3, 3)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)

	start, end = CenteredWindow(2, 1, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}

func TestGridMove(t *testing.T) {
	// 7 cards in 3 columns:
	// 0 1 2
	// 3 4 5
	// 6
	assert.Equal(t, 1, GridMove(0, 7, 3, 0, 1))
	assert.Equal(t, 2, GridMove(2, 7, 3, 0, 1), "right edge stays")
	assert.Equal(t, 0, GridMove(0, 7, 3, 0, -1), "left edge stays")
	assert.Equal(t, 4, GridMove(1, 7, 3, 1, 0))
	assert.Equal(t, 6, GridMove(4, 7, 3, 1, 0), "short last row lands on final card")
	assert.Equal(t, 6, GridMove(6, 7, 3, 1, 0), "bottom stays")
	assert.Equal(t, 3, GridMove(6, 7, 3, -1, 0))
	assert.Equal(t, 0, GridMove(0, 7, 3, -1, 0), "top stays")
	assert.Equal(t, 2, GridMove(1, 3, 1, 1, 0), "single column")
	assert.Equal(t, 0, GridMove(0, 0, 3, 1, 0))
}

func TestClampScroll(t *testing.T) {
	assert.Equal(t, 0, ClampScroll(-2, 10, 4))
	assert.Equal(t, 6, ClampScroll(9, 10, 4))
	assert.Equal(t, 0, ClampScroll(3, 2, 4))
	assert.Equal(t, 3, ClampScroll(3, 10, 4))
}
