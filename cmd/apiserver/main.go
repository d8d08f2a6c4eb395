package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/api/handler"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/api/router"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/config"
	applogger "github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/logger"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/matcher"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/parser"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/processor"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/storage"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	applogger.Init(applogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzzerolog.From(applogger.Logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}

	storageManager, err := storage.NewStorage(ctx, cfg, &applogger.Logger)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	m := matcher.New()
	jdParser := parser.NewJDParser(m, storageManager.Cache, &applogger.Logger)
	svc := processor.NewService(m, jdParser, &applogger.Logger)

	analysisHandler := handler.NewAnalysisHandler(svc, &applogger.Logger)
	improveHandler := handler.NewImproveHandler(cfg, storageManager.MinIO, storageManager.RabbitMQ, storageManager.Cache, &applogger.Logger)

	serverOpts := []hzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithExitWaitTime(time.Duration(cfg.Server.ExitWaitTimeSeconds) * time.Second),
	}

	var tracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		var tracer hzconfig.Option
		tracer, tracerCfg = hertztracing.NewServerTracer()
		serverOpts = append(serverOpts, tracer)
	}

	h := server.New(serverOpts...)
	if tracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	}

	router.RegisterRoutes(h, analysisHandler, improveHandler)
	glog.Infof("HTTP服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ExitWaitTimeSeconds)*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Errorf("链路追踪关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
