package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/ingest"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/optimizer"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/processor"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// AnalysisHandler 同步分析相关的API处理器。
type AnalysisHandler struct {
	svc    *processor.Service
	logger zerolog.Logger
}

// NewAnalysisHandler 创建分析处理器。
func NewAnalysisHandler(svc *processor.Service, logger *zerolog.Logger) *AnalysisHandler {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &AnalysisHandler{svc: svc, logger: l}
}

type analyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type optimizeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Aggressiveness string `json:"aggressiveness"`
	MutationOnly   bool   `json:"mutationOnly"`
}

type keywordsRequest struct {
	JobDescription string `json:"jobDescription"`
}

type compareRequest struct {
	OriginalText   string `json:"originalText"`
	OptimizedText  string `json:"optimizedText"`
	JobDescription string `json:"jobDescription"`
}

// Analyze 处理简历分析请求
// POST /api/v1/analysis/analyze
func (h *AnalysisHandler) Analyze(ctx context.Context, c *app.RequestContext) {
	var req analyzeRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
		return
	}

	result, err := h.svc.Analyze(ctx, req.ResumeText, req.JobDescription)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, result)
}

// Optimize 处理简历优化请求
// POST /api/v1/analysis/optimize
func (h *AnalysisHandler) Optimize(ctx context.Context, c *app.RequestContext) {
	var req optimizeRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
		return
	}

	prefs := optimizer.Preferences{
		Aggressiveness: optimizer.Aggressiveness(req.Aggressiveness),
		MutationOnly:   req.MutationOnly,
	}
	result, err := h.svc.Optimize(ctx, req.ResumeText, req.JobDescription, nil, prefs)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, result)
}

// Keywords 处理JD关键词抽取请求
// POST /api/v1/analysis/keywords
func (h *AnalysisHandler) Keywords(ctx context.Context, c *app.RequestContext) {
	var req keywordsRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
		return
	}

	kw, err := h.svc.ExtractKeywords(ctx, req.JobDescription)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, kw)
}

// Compare 处理版本对比请求
// POST /api/v1/analysis/compare
func (h *AnalysisHandler) Compare(ctx context.Context, c *app.RequestContext) {
	var req compareRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
		return
	}

	result, err := h.svc.CompareVersions(ctx, req.OriginalText, req.OptimizedText, req.JobDescription)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, result)
}

// AnalyzeFile 接收简历文件(PDF/DOCX/TXT)与JD文本，抽取纯文本后分析
// POST /api/v1/analysis/analyze-file (multipart/form-data)
func (h *AnalysisHandler) AnalyzeFile(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("resume_file")
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少resume_file文件字段"})
		return
	}
	jobDescription := strings.TrimSpace(string(c.FormValue("job_description")))
	if jobDescription == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少job_description字段"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg("打开上传文件失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("读取上传文件失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取上传文件失败"})
		return
	}

	resumeText, err := ingest.ExtractText(data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			h.writeError(ctx, c, processor.NewUnsupportedFormatError("analyze_file", fileHeader.Filename))
			return
		}
		c.JSON(consts.StatusBadRequest, utils.H{"error": "文件内容解析失败"})
		return
	}

	result, err := h.svc.Analyze(ctx, resumeText, jobDescription)
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, result)
}

// writeError 按错误类别映射HTTP状态码，并记录到当前请求的span。
func (h *AnalysisHandler) writeError(ctx context.Context, c *app.RequestContext, err error) {
	status := consts.StatusInternalServerError
	message := "内部错误"
	switch {
	case errors.Is(err, processor.ErrInvalidInput):
		status = consts.StatusBadRequest
		message = err.Error()
	case errors.Is(err, processor.ErrUnsupportedFormat):
		status = consts.StatusUnsupportedMediaType
		message = err.Error()
	default:
		h.logger.Error().Err(err).Msg("分析请求处理失败")
	}
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, status)
	c.JSON(status, utils.H{"error": message})
}
