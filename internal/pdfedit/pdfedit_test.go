package pdfedit

import (
	"strings"
	"testing"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterLinesGroupsByY(t *testing.T) {
	items := []pdf.Text{
		{S: "Hello", X: 10, Y: 700, W: 30, FontSize: 11},
		{S: "World", X: 45, Y: 701, W: 32, FontSize: 11}, // y相差1，同一行
		{S: "Second line", X: 10, Y: 680, W: 60, FontSize: 10},
	}

	lines := clusterLines(items)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0].Text, "Hello")
	assert.Contains(t, lines[0].Text, "World")
	assert.Equal(t, "Second line", lines[1].Text)
}

func TestClusterLinesInsertsSpaceOnGap(t *testing.T) {
	items := []pdf.Text{
		{S: "left", X: 10, Y: 700, W: 20, FontSize: 10},
		{S: "right", X: 40, Y: 700, W: 25, FontSize: 10}, // 间距10 > 阈值
		{S: "glued", X: 65.5, Y: 700, W: 25, FontSize: 10},
	}

	lines := clusterLines(items)
	require.Len(t, lines, 1)
	assert.Equal(t, "left rightglued", lines[0].Text)
}

func TestClusterLinesSortsTopToBottom(t *testing.T) {
	items := []pdf.Text{
		{S: "bottom", X: 10, Y: 100, W: 30, FontSize: 10},
		{S: "top", X: 10, Y: 700, W: 30, FontSize: 10},
		{S: "middle", X: 10, Y: 400, W: 30, FontSize: 10},
	}

	lines := clusterLines(items)
	require.Len(t, lines, 3)
	assert.Equal(t, "top", lines[0].Text)
	assert.Equal(t, "middle", lines[1].Text)
	assert.Equal(t, "bottom", lines[2].Text)
}

func TestClusterLinesBoundingBox(t *testing.T) {
	items := []pdf.Text{
		{S: "b", X: 50, Y: 500, W: 10, FontSize: 12},
		{S: "a", X: 10, Y: 500, W: 10, FontSize: 9},
	}

	lines := clusterLines(items)
	require.Len(t, lines, 1)
	assert.Equal(t, 10.0, lines[0].X)
	assert.Equal(t, 50.0, lines[0].Width) // maxX(60) - minX(10)
	assert.Equal(t, 12.0, lines[0].Height)
}

func TestClusterLinesDropsBlankLines(t *testing.T) {
	items := []pdf.Text{
		{S: "   ", X: 10, Y: 700, W: 10, FontSize: 10},
		{S: "content", X: 10, Y: 650, W: 40, FontSize: 10},
	}
	lines := clusterLines(items)
	require.Len(t, lines, 1)
	assert.Equal(t, "content", lines[0].Text)
}

func TestFitFontSizeBaseSize(t *testing.T) {
	// 行宽充裕时字号为floor(行高)
	line := types.TextLine{Width: 10000, Height: 11.7}
	size, ok := fitFontSize(line, "Short text", true)
	require.True(t, ok)
	assert.Equal(t, 11, size)
}

func TestFitFontSizeMinimumBase(t *testing.T) {
	// 行高低于下限时基准字号取8
	line := types.TextLine{Width: 10000, Height: 5}
	size, ok := fitFontSize(line, "x", true)
	require.True(t, ok)
	assert.Equal(t, 8, size)
}

func TestFitFontSizeShrinksToWidth(t *testing.T) {
	line := types.TextLine{Width: 40, Height: 12}
	size, ok := fitFontSize(line, "a considerably longer replacement line of text", true)
	require.True(t, ok)
	assert.Less(t, size, 12)
	assert.GreaterOrEqual(t, size, 6)
}

func TestFitFontSizeShrinkFloor(t *testing.T) {
	// 极窄的行也不会缩到6以下
	line := types.TextLine{Width: 1, Height: 12}
	size, ok := fitFontSize(line, strings.Repeat("wide text ", 20), true)
	require.True(t, ok)
	assert.Equal(t, 6, size)
}

func TestFitFontSizeSkipsWhenShrinkDisallowed(t *testing.T) {
	line := types.TextLine{Width: 5, Height: 12}
	_, ok := fitFontSize(line, "text that cannot possibly fit in five points", false)
	assert.False(t, ok)
}

func TestWatermarkDescAnchorsAtLineOrigin(t *testing.T) {
	line := types.TextLine{X: 72.5, Y: 640, Width: 200, Height: 12}
	desc := watermarkDesc(line, "Improved bullet", 12)

	assert.Contains(t, desc, "fontname:Helvetica")
	assert.Contains(t, desc, "points:12")
	assert.Contains(t, desc, "pos:bl")
	assert.Contains(t, desc, "off:72.5 640.0")
	assert.Contains(t, desc, "bgcol:#ffffff")
}
