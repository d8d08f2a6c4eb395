package router

import (
	"context"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册全部API路由。
func RegisterRoutes(h *server.Hertz, analysis *handler.AnalysisHandler, improve *handler.ImproveHandler) {
	api := h.Group("/api/v1")

	// 健康检查
	api.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	// 同步分析
	analysisGroup := api.Group("/analysis")
	analysisGroup.POST("/analyze", analysis.Analyze)
	analysisGroup.POST("/analyze-file", analysis.AnalyzeFile)
	analysisGroup.POST("/optimize", analysis.Optimize)
	analysisGroup.POST("/keywords", analysis.Keywords)
	analysisGroup.POST("/compare", analysis.Compare)

	// 异步PDF原位改写
	resumeGroup := api.Group("/resume")
	resumeGroup.POST("/improve", improve.Submit)
	resumeGroup.GET("/improve/:task_id", improve.Status)
}
