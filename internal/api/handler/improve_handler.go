package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/cache"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/config"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/ingest"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/storage"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImproveHandler 异步PDF原位改写的API处理器。
// 上传走MinIO，任务经RabbitMQ投递，状态回写到缓存。
type ImproveHandler struct {
	cfg     *config.Config
	objects storage.ObjectStorage
	queue   storage.TaskQueue
	cache   cache.Store
	logger  zerolog.Logger
}

// NewImproveHandler 创建改写处理器。
func NewImproveHandler(cfg *config.Config, objects storage.ObjectStorage, queue storage.TaskQueue, store cache.Store, logger *zerolog.Logger) *ImproveHandler {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &ImproveHandler{
		cfg:     cfg,
		objects: objects,
		queue:   queue,
		cache:   store,
		logger:  l,
	}
}

type improveSubmitResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type improveStatusResponse struct {
	types.ImproveTaskStatus
	ResultURL string `json:"result_url,omitempty"`
}

// Submit 接收简历PDF与JD，登记任务后投递到改写队列
// POST /api/v1/resume/improve (multipart/form-data)
func (h *ImproveHandler) Submit(ctx context.Context, c *app.RequestContext) {
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

	maxUploadBytes := int64(h.cfg.Server.MaxUploadSizeMB) * 1024 * 1024
	if maxUploadBytes > 0 && fileHeader.Size > maxUploadBytes {
		c.JSON(consts.StatusRequestEntityTooLarge, utils.H{
			"error": fmt.Sprintf("文件超过大小限制 %dMB", h.cfg.Server.MaxUploadSizeMB),
		})
		return
	}

	// 原位改写只支持PDF，其它格式会破坏版面无从落笔。
	format, err := ingest.DetectFormat(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil || format != ingest.FormatPDF {
		c.JSON(consts.StatusUnsupportedMediaType, utils.H{"error": "原位改写仅支持PDF文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg("打开上传文件失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	taskID := uuid.New().String()
	objectKey := taskID + filepath.Ext(fileHeader.Filename)

	if err := h.objects.UploadOriginal(ctx, objectKey, file, fileHeader.Size, "application/pdf"); err != nil {
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("上传简历原件失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "保存上传文件失败"})
		return
	}

	task := types.ImproveTask{
		TaskID:               taskID,
		ObjectKey:            objectKey,
		Filename:             fileHeader.Filename,
		JobDescription:       jobDescription,
		MaxWordsAddedPerLine: h.formIntValue(c, "max_words_added_per_line", h.cfg.Optimizer.MaxWordsAddedPerLine),
		AllowShrinkFont:      h.formBoolValue(c, "allow_shrink_font", h.cfg.Optimizer.AllowShrinkFont),
	}

	if err := h.setTaskStatus(ctx, types.ImproveTaskStatus{TaskID: taskID, Status: constants.TaskStatusPending}); err != nil {
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("写入任务状态失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "登记任务失败"})
		return
	}

	if err := h.queue.PublishImproveTask(ctx, task); err != nil {
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("投递改写任务失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "投递任务失败"})
		return
	}

	h.logger.Info().Str("task_id", taskID).Str("filename", fileHeader.Filename).Msg("改写任务已受理")
	c.JSON(consts.StatusAccepted, improveSubmitResponse{
		TaskID: taskID,
		Status: constants.TaskStatusPending,
	})
}

// Status 查询改写任务状态，完成后附带结果下载URL
// GET /api/v1/resume/improve/:task_id
func (h *ImproveHandler) Status(ctx context.Context, c *app.RequestContext) {
	taskID := c.Param("task_id")
	if taskID == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "缺少task_id参数"})
		return
	}

	raw, err := h.cache.Get(ctx, fmt.Sprintf(constants.KeyImproveTask, taskID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			c.JSON(consts.StatusNotFound, utils.H{"error": "任务不存在或已过期"})
			return
		}
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("读取任务状态失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取任务状态失败"})
		return
	}

	var status types.ImproveTaskStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("任务状态反序列化失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "任务状态数据损坏"})
		return
	}

	resp := improveStatusResponse{ImproveTaskStatus: status}
	if status.Status == constants.TaskStatusDone && status.ResultKey != "" {
		url, err := h.objects.ResultURL(ctx, status.ResultKey, constants.ResultURLExpiry)
		if err != nil {
			h.logger.Error().Err(err).Str("task_id", taskID).Msg("生成结果下载URL失败")
		} else {
			resp.ResultURL = url
		}
	}
	c.JSON(consts.StatusOK, resp)
}

func (h *ImproveHandler) setTaskStatus(ctx context.Context, status types.ImproveTaskStatus) error {
	body, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return h.cache.Set(ctx, fmt.Sprintf(constants.KeyImproveTask, status.TaskID), string(body), constants.ImproveTaskTTL)
}

func (h *ImproveHandler) formIntValue(c *app.RequestContext, field string, fallback int) int {
	raw := strings.TrimSpace(string(c.FormValue(field)))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func (h *ImproveHandler) formBoolValue(c *app.RequestContext, field string, fallback bool) bool {
	raw := strings.TrimSpace(string(c.FormValue(field)))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
