package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/cache"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/config"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	applogger "github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/logger"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/matcher"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/parser"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/processor"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/storage"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/tracing"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// improver 原位改写入口，便于在测试中替换流水线。
type improver interface {
	ImproveInPlace(ctx context.Context, pdfBytes []byte, jobText string, opts processor.ImproveOptions) (*processor.ImproveResult, error)
}

// worker 消费改写任务: 下载原件、原位改写、上传结果并回写状态。
type worker struct {
	svc     improver
	objects storage.ObjectStorage
	cache   cache.Store
	logger  zerolog.Logger
}

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	applogger.Init(applogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	log := applogger.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化链路追踪失败")
	}
	defer shutdownTracing(context.Background())

	storageManager, err := storage.NewStorage(ctx, cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()

	m := matcher.New()
	jdParser := parser.NewJDParser(m, storageManager.Cache, &log)
	svc := processor.NewService(m, jdParser, &log)

	w := &worker{
		svc:     svc,
		objects: storageManager.MinIO,
		cache:   storageManager.Cache,
		logger:  log,
	}

	// 终止信号触发上下文取消，消费循环随之退出
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("接收到终止信号，停止消费")
		cancel()
	}()

	log.Info().Str("queue", cfg.RabbitMQ.ImproveQueue).Msg("改写worker启动")
	if err := storageManager.RabbitMQ.ConsumeImproveTasks(ctx, w.handle); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("消费改写任务失败")
	}
	log.Info().Msg("改写worker已退出")
}

// handle 处理单个改写任务。返回错误时消息会重回队列一次。
func (w *worker) handle(ctx context.Context, task types.ImproveTask) error {
	w.logger.Info().Str("task_id", task.TaskID).Str("object_key", task.ObjectKey).Msg("开始处理改写任务")

	w.setStatus(ctx, types.ImproveTaskStatus{TaskID: task.TaskID, Status: constants.TaskStatusProcessing})

	pdfBytes, err := w.objects.DownloadOriginal(ctx, task.ObjectKey)
	if err != nil {
		w.fail(ctx, task.TaskID, fmt.Errorf("下载简历原件失败: %w", err))
		return err
	}

	result, err := w.svc.ImproveInPlace(ctx, pdfBytes, task.JobDescription, processor.ImproveOptions{
		MaxWordsAddedPerLine: task.MaxWordsAddedPerLine,
		AllowShrinkFont:      task.AllowShrinkFont,
	})
	if err != nil {
		w.fail(ctx, task.TaskID, fmt.Errorf("原位改写失败: %w", err))
		return err
	}

	resultKey := task.TaskID + "_improved.pdf"
	if err := w.objects.UploadResult(ctx, resultKey, result.PDFBytes, "application/pdf"); err != nil {
		w.fail(ctx, task.TaskID, fmt.Errorf("上传改写结果失败: %w", err))
		return err
	}

	w.setStatus(ctx, types.ImproveTaskStatus{
		TaskID:         task.TaskID,
		Status:         constants.TaskStatusDone,
		ResultKey:      resultKey,
		Changes:        result.Changes,
		OriginalScore:  result.OriginalScore,
		OptimizedScore: result.OptimizedScore,
	})

	// 结果已产出，原件不再需要，清理失败不影响任务结果
	if err := w.objects.DeleteOriginal(ctx, task.ObjectKey); err != nil {
		w.logger.Warn().Err(err).Str("object_key", task.ObjectKey).Msg("清理简历原件失败")
	}

	w.logger.Info().Str("task_id", task.TaskID).
		Int("changes", len(result.Changes)).
		Int("original_score", result.OriginalScore).
		Int("optimized_score", result.OptimizedScore).
		Msg("改写任务完成")
	return nil
}

func (w *worker) fail(ctx context.Context, taskID string, cause error) {
	w.logger.Error().Err(cause).Str("task_id", taskID).Msg("改写任务失败")
	w.setStatus(ctx, types.ImproveTaskStatus{
		TaskID: taskID,
		Status: constants.TaskStatusFailed,
		Error:  cause.Error(),
	})
}

func (w *worker) setStatus(ctx context.Context, status types.ImproveTaskStatus) {
	body, err := json.Marshal(status)
	if err != nil {
		w.logger.Error().Err(err).Str("task_id", status.TaskID).Msg("序列化任务状态失败")
		return
	}
	key := fmt.Sprintf(constants.KeyImproveTask, status.TaskID)
	if err := w.cache.Set(ctx, key, string(body), constants.ImproveTaskTTL); err != nil {
		w.logger.Error().Err(err).Str("task_id", status.TaskID).Msg("回写任务状态失败")
	}
}
