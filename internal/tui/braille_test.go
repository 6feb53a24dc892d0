package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanvasLine(t *testing.T) {
	c := newCanvas(3, 1)
	c.line(0, 0, 3, 0)
	require.Equal(t, []uint8{0x09, 0x09, 0}, c.cells)
	require.Equal(t, []string{"⠉⠉ "}, c.rows())

	// off-canvas pixels are dropped
	c.set(-1, 0)
	c.set(6, 0)
	c.set(0, 4)
	require.Equal(t, []uint8{0x09, 0x09, 0}, c.cells)
}

func TestCanvasFill(t *testing.T) {
	square := [][2]int{{0, 0}, {7, 0}, {7, 7}, {0, 7}}
	c := newCanvas(4, 2)
	c.fill([][][2]int{square})
	require.Equal(t, []string{"⣿⣿⣿⣿", "⠿⠿⠿⠿"}, c.rows())

	hole := [][2]int{{2, 2}, {5, 2}, {5, 5}, {2, 5}}
	c = newCanvas(4, 2)
	c.fill([][][2]int{square, hole})
	require.Zero(t, c.cells[1]&brailleDots[1][3], "micro-pixel (3,3) lies in the hole")
	require.NotZero(t, c.cells[1]&brailleDots[0][3], "micro-pixel (2,3) lies on the hole edge")
	require.Equal(t, uint8(0xff), c.cells[0])
}
