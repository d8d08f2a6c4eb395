package processor

import (
	"context"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/matcher"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/optimizer"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/parser"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/pdfedit"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/scorer"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/tracing"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service 分析流水线门面，聚合解析、匹配、评分与优化。
// 除JD解析的缓存外各阶段都是输入的纯函数，可并发调用。
type Service struct {
	matcher  *matcher.Matcher
	jdParser *parser.JDParser
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewService 创建流水线门面。logger为nil时日志丢弃。
func NewService(m *matcher.Matcher, jdParser *parser.JDParser, logger *zerolog.Logger) *Service {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Service{
		matcher:  m,
		jdParser: jdParser,
		logger:   l,
		tracer:   otel.Tracer("ats/processor"),
	}
}

// Analyze 对简历与JD做完整分析: 解析双方、四档关键词匹配、五维评分、建议生成。
func (s *Service) Analyze(ctx context.Context, resumeText, jobText string) (*types.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "processor.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("resume.preview", tracing.SafeResumeContent(resumeText)),
		attribute.String("job.preview", tracing.TruncateString(jobText, tracing.MaxJobDescLength)),
	)

	if strings.TrimSpace(resumeText) == "" {
		err := NewInvalidInputError("analyze", "简历文本为空")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if strings.TrimSpace(jobText) == "" {
		err := NewInvalidInputError("analyze", "JD文本为空")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	resume, err := parser.ParseResume(resumeText)
	if err != nil {
		err = NewInvalidInputError("analyze", err.Error())
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	// 联系人字段可能含PII，只落掩码后的值
	span.SetAttributes(attribute.String("resume.contact.name",
		tracing.SafeAttributeValue("contact.name", resume.Contact.Name, tracing.DefaultMaxLength)))

	jd, err := s.jdParser.Parse(ctx, jobText)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, err
	}

	resumeKw := s.matcher.ExtractKeywords(resumeText)
	match := s.matcher.MatchKeywordSets(resumeKw, jd.Keywords)

	breakdown, score := scorer.Score(resumeText, resume, jd, match)
	suggestions := scorer.BuildSuggestions(resumeText, resume, jd, match, breakdown)

	s.logger.Debug().
		Int("ats_score", score).
		Int("matched", len(match.Matched)).
		Int("missing", len(match.Missing)).
		Msg("简历分析完成")

	return &types.AnalysisResult{
		ATSScore:        score,
		MatchedKeywords: match.Matched,
		MissingKeywords: match.Missing,
		MatchedSkills:   match.MatchedSkills,
		MissingSkills:   match.MissingSkills,
		Suggestions:     suggestions,
		Breakdown:       breakdown,
		ResumeData:      resume,
		JobData:         jd,
	}, nil
}

// ExtractKeywords 只做JD关键词抽取，五类分组返回。
func (s *Service) ExtractKeywords(ctx context.Context, jobText string) (types.Keywords, error) {
	if strings.TrimSpace(jobText) == "" {
		return types.Keywords{}, NewInvalidInputError("extract_keywords", "JD文本为空")
	}
	jd, err := s.jdParser.Parse(ctx, jobText)
	if err != nil {
		return types.Keywords{}, err
	}
	return jd.Keywords, nil
}

// Optimize 按偏好优化简历并对结果重新评分。
// prior为空时先做一次完整分析。不保证分数严格提升。
func (s *Service) Optimize(ctx context.Context, resumeText, jobText string, prior *types.AnalysisResult, prefs optimizer.Preferences) (*types.OptimizationResult, error) {
	ctx, span := s.tracer.Start(ctx, "processor.Optimize")
	defer span.End()

	if prior == nil {
		var err error
		prior, err = s.Analyze(ctx, resumeText, jobText)
		if err != nil {
			return nil, err
		}
	}

	resume := prior.ResumeData
	if resume == nil {
		var err error
		resume, err = parser.ParseResume(resumeText)
		if err != nil {
			return nil, NewInvalidInputError("optimize", err.Error())
		}
	}

	res := optimizer.Optimize(resumeText, resume, prior, prefs)

	// 优化后的文本重新走一遍分析得到新分数
	after, err := s.Analyze(ctx, res.OptimizedText, jobText)
	if err != nil {
		return nil, err
	}

	return &types.OptimizationResult{
		OptimizedText:    res.OptimizedText,
		OptimizedData:    res.OptimizedData,
		Changes:          res.Changes,
		OriginalScore:    prior.ATSScore,
		OptimizedScore:   after.ATSScore,
		ScoreImprovement: after.ATSScore - prior.ATSScore,
	}, nil
}

// CompareVersions 分别分析原始与优化后的简历并汇总差异。
func (s *Service) CompareVersions(ctx context.Context, originalText, optimizedText, jobText string) (*types.ComparisonResult, error) {
	original, err := s.Analyze(ctx, originalText, jobText)
	if err != nil {
		return nil, err
	}
	optimized, err := s.Analyze(ctx, optimizedText, jobText)
	if err != nil {
		return nil, err
	}

	return &types.ComparisonResult{
		Original:  original,
		Optimized: optimized,
		Improvements: types.Improvements{
			ATSScoreImprovement:     optimized.ATSScore - original.ATSScore,
			KeywordMatchImprovement: len(optimized.MatchedKeywords) - len(original.MatchedKeywords),
			NewKeywordsAdded:        subtract(optimized.MatchedKeywords, original.MatchedKeywords),
			KeywordsLost:            subtract(original.MatchedKeywords, optimized.MatchedKeywords),
		},
	}, nil
}

// ImproveOptions 原位改写选项。
type ImproveOptions struct {
	// MaxWordsAddedPerLine 单行允许新增的词数上限，0取默认值3。
	MaxWordsAddedPerLine int
	AllowShrinkFont      bool
}

// ImproveResult 原位改写输出。
type ImproveResult struct {
	PDFBytes       []byte           `json:"-"`
	Changes        []types.LineDiff `json:"changes"`
	OriginalScore  int              `json:"originalScore"`
	OptimizedScore int              `json:"optimizedScore"`
}

// ImproveInPlace 在不改版式的前提下改写PDF简历:
// 提取带坐标的文本行 -> 分析 -> MutationOnly优化 -> 行级diff -> 白底重绘。
func (s *Service) ImproveInPlace(ctx context.Context, pdfBytes []byte, jobText string, opts ImproveOptions) (*ImproveResult, error) {
	ctx, span := s.tracer.Start(ctx, "processor.ImproveInPlace")
	defer span.End()

	if len(pdfBytes) == 0 {
		err := NewInvalidInputError("improve_in_place", "PDF内容为空")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	maxAdded := opts.MaxWordsAddedPerLine
	if maxAdded <= 0 {
		maxAdded = constants.DefaultMaxWordsAddedPerLine
	}

	pages, err := pdfedit.ExtractLines(pdfBytes)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypePDF)
		return nil, err
	}

	originalLines := flattenLines(pages)
	originalText := strings.Join(originalLines, "\n")

	analysis, err := s.Analyze(ctx, originalText, jobText)
	if err != nil {
		return nil, err
	}

	optRes := optimizer.Optimize(originalText, analysis.ResumeData, analysis, optimizer.Preferences{MutationOnly: true})
	improvedLines := strings.Split(optRes.OptimizedText, "\n")

	diffs := buildLineDiffs(originalLines, improvedLines, maxAdded)
	changes := bindDiffs(pages, diffs)

	newPDF, err := pdfedit.ApplyChanges(pdfBytes, changes, pdfedit.PatchOptions{AllowShrinkFont: opts.AllowShrinkFont})
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypePDF,
			attribute.Int("pdf.pages", len(pages)),
			attribute.Int("pdf.changes", len(changes)))
		return nil, err
	}

	after, err := s.Analyze(ctx, optRes.OptimizedText, jobText)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("changes", len(changes)).
		Int("original_score", analysis.ATSScore).
		Int("optimized_score", after.ATSScore).
		Msg("PDF原位改写完成")

	return &ImproveResult{
		PDFBytes:       newPDF,
		Changes:        changes,
		OriginalScore:  analysis.ATSScore,
		OptimizedScore: after.ATSScore,
	}, nil
}

// lineDiff 全局行号上的一处文本替换。
type lineDiff struct {
	original string
	improved string
	index    int
}

// buildLineDiffs 按行号对齐比较原始/改写后的行。
// 行相同、任一为空、或新增词数超过上限的行都跳过。
func buildLineDiffs(originalLines, improvedLines []string, maxWordsAddedPerLine int) []lineDiff {
	limit := len(originalLines)
	if len(improvedLines) < limit {
		limit = len(improvedLines)
	}

	var diffs []lineDiff
	for i := 0; i < limit; i++ {
		original := originalLines[i]
		improved := improvedLines[i]
		if original == "" || improved == "" || original == improved {
			continue
		}

		added := len(strings.Fields(improved)) - len(strings.Fields(original))
		if added > maxWordsAddedPerLine {
			continue
		}
		diffs = append(diffs, lineDiff{original: original, improved: improved, index: i})
	}
	return diffs
}

// bindDiffs 把全局行号映射回具体页面上的行几何信息。
func bindDiffs(pages [][]types.TextLine, diffs []lineDiff) []types.LineDiff {
	byIndex := make(map[int]lineDiff, len(diffs))
	for _, d := range diffs {
		byIndex[d.index] = d
	}

	var changes []types.LineDiff
	global := 0
	for pageIdx, lines := range pages {
		for _, line := range lines {
			if d, ok := byIndex[global]; ok {
				changes = append(changes, types.LineDiff{
					Page:     pageIdx,
					Line:     line,
					Original: d.original,
					Improved: d.improved,
				})
			}
			global++
		}
	}
	return changes
}

func flattenLines(pages [][]types.TextLine) []string {
	var out []string
	for _, lines := range pages {
		for _, line := range lines {
			out = append(out, line.Text)
		}
	}
	return out
}

// subtract 返回在a中而不在b中的元素，保序。
func subtract(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	out := []string{}
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
