package pdfedit

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/ledongthuc/pdf"
)

// ExtractLines 按页提取带坐标的文本行。坐标系沿用PDF原生的左下角原点，
// 每页的行按y降序排列(即视觉上从上到下)，供后续原位改写定位使用。
func ExtractLines(pdfBytes []byte) ([][]types.TextLine, error) {
	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, fmt.Errorf("读取PDF失败: %w", err)
	}

	pages := make([][]types.TextLine, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, clusterLines(page.Content().Text))
	}
	return pages, nil
}

// lineCluster y坐标聚类的中间状态。
type lineCluster struct {
	y      float64
	height float64
	items  []pdf.Text
}

// clusterLines 把零散的文本项聚成行:
// y坐标相差不超过容差的项归入同一行(首个命中的簇生效)，
// 行内按x排序拼接，相邻项水平间距超过阈值时补一个空格。
func clusterLines(items []pdf.Text) []types.TextLine {
	var clusters []*lineCluster

	for _, item := range items {
		height := item.FontSize
		if height == 0 {
			height = 10
		}

		var target *lineCluster
		for _, c := range clusters {
			if math.Abs(c.y-item.Y) <= constants.LineClusterTolerance {
				target = c
				break
			}
		}
		if target == nil {
			clusters = append(clusters, &lineCluster{y: item.Y, height: height, items: []pdf.Text{item}})
			continue
		}
		target.items = append(target.items, item)
		if item.Y > target.y {
			target.y = item.Y
		}
		if height > target.height {
			target.height = height
		}
	}

	lines := make([]types.TextLine, 0, len(clusters))
	for _, c := range clusters {
		sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].X < c.items[j].X })

		var b strings.Builder
		var minX, maxX, lastEnd float64
		for i, item := range c.items {
			if i > 0 && item.X-lastEnd > constants.WordGapThreshold {
				b.WriteByte(' ')
			}
			b.WriteString(item.S)
			end := item.X + item.W
			if i == 0 {
				minX, maxX = item.X, end
			} else {
				minX = math.Min(minX, item.X)
				maxX = math.Max(maxX, end)
			}
			lastEnd = end
		}

		text := b.String()
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, types.TextLine{
			Text:   text,
			X:      minX,
			Y:      c.y,
			Width:  math.Max(maxX-minX, 1),
			Height: c.height,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Y > lines[j].Y })
	return lines
}
