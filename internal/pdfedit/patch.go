package pdfedit

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// patchFontName 改写统一使用的替代字体，不保留原字体族和字重。
const patchFontName = "Helvetica"

// PatchOptions 原位改写的开关。
type PatchOptions struct {
	// AllowShrinkFont 新文本超出原行宽时是否允许按比例缩小字号。
	// 关闭时放不下的变更直接跳过。
	AllowShrinkFont bool
}

// ApplyChanges 把文本变更逐条画回PDF: 先用白底盖住原行，再在原起点
// 以左对齐重绘新文本。每条变更作为一个页内水印独立应用，失败即中断。
func ApplyChanges(pdfBytes []byte, changes []types.LineDiff, opts PatchOptions) ([]byte, error) {
	current := pdfBytes
	for _, change := range changes {
		size, ok := fitFontSize(change.Line, change.Improved, opts.AllowShrinkFont)
		if !ok {
			continue
		}

		wm, err := api.TextWatermark(change.Improved, watermarkDesc(change.Line, change.Improved, size), true, false, pdftypes.POINTS)
		if err != nil {
			return nil, fmt.Errorf("构造改写水印失败: %w", err)
		}

		var buf bytes.Buffer
		pageSel := []string{strconv.Itoa(change.Page + 1)}
		if err := api.AddWatermarks(bytes.NewReader(current), &buf, pageSel, wm, nil); err != nil {
			return nil, fmt.Errorf("应用第%d页改写失败: %w", change.Page+1, err)
		}
		current = buf.Bytes()
	}
	return current, nil
}

// fitFontSize 计算重绘字号。基准为floor(行高)且不低于MinFontSize；
// 新文本在基准字号下超宽时，允许缩字则按宽度比缩小(下限MinShrunkFontSize)，
// 不允许则返回ok=false表示跳过该变更。
func fitFontSize(line types.TextLine, improved string, allowShrink bool) (int, bool) {
	base := int(math.Floor(line.Height))
	if base < constants.MinFontSize {
		base = constants.MinFontSize
	}

	textWidth := font.TextWidth(improved, patchFontName, base)
	if textWidth <= line.Width {
		return base, true
	}
	if !allowShrink {
		return 0, false
	}

	size := int(math.Floor(float64(base) * line.Width / textWidth))
	if size < constants.MinShrunkFontSize {
		size = constants.MinShrunkFontSize
	}
	return size, true
}

// watermarkDesc 生成pdfcpu水印描述。pos:bl加偏移把文本锚到原行起点，
// bgcol白底加边距充当覆盖矩形: 右侧边距补齐到原行宽，
// 上下边距把覆盖高度撑到行高的CoverHeightRatio倍。
func watermarkDesc(line types.TextLine, improved string, fontSize int) string {
	textWidth := font.TextWidth(improved, patchFontName, fontSize)
	padRight := math.Max(line.Width-textWidth, 0)
	padVertical := math.Max((line.Height*constants.CoverHeightRatio-float64(fontSize))/2, 0)

	return fmt.Sprintf(
		"fontname:%s, points:%d, scalefactor:1 abs, pos:bl, off:%.1f %.1f, fillcol:#000000, bgcol:#ffffff, rot:0, op:1, ma:%.1f %.1f %.1f %.1f",
		patchFontName, fontSize, line.X, line.Y, padVertical, padRight, padVertical, 0.0,
	)
}
