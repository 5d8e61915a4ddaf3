package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/api/handler"
	"resume-insights/internal/api/router"
	"resume-insights/internal/config"
	"resume-insights/internal/constants"
	"resume-insights/internal/logger"
	"resume-insights/internal/processor"
	"resume-insights/internal/storage"
	"resume-insights/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

var (
	version     = "1.0.0"               //nolint:gochecknoglobals
	serviceName = constants.ServiceName //nolint:gochecknoglobals
)

func main() {
	var configPath string
	var writeSample string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file (默认在常见位置查找)")
	pflag.StringVar(&writeSample, "write-sample-config", "", "写出一份示例配置后退出")
	pflag.Parse()

	if writeSample != "" {
		if err := config.CreateSampleConfig(writeSample); err != nil {
			logger.Fatal().Err(err).Msg("生成示例配置失败")
		}
		logger.Info().Str("path", writeSample).Msg("示例配置已生成")
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("配置校验失败")
	}

	logCloser, err := logger.Init(cfg.Logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化日志失败")
	}
	defer logCloser.Close()
	glog.Infof("配置加载成功，服务 %s 版本 %s", serviceName, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing, version)
	if err != nil {
		// 追踪不可用不影响分析功能
		logger.Warn().Err(err).Msg("初始化链路追踪失败，继续运行")
		shutdownTracing = func(context.Context) error { return nil }
	}

	var storageManager *storage.Storage
	if cfg.Redis.Enabled || cfg.MinIO.Enabled || cfg.RabbitMQ.Enabled {
		storageManager, err = storage.NewStorage(ctx, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化存储失败，仅提供同步分析")
		}
	}
	defer storageManager.Close()

	registry, err := processor.NewRegistryFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化文本提取器失败")
	}
	glog.Infof("文本提取器初始化成功，PDF 引擎: %s，支持格式: %v", cfg.Extractor.PDFEngine, registry.Extensions())

	service := processor.NewAnalysisService(registry, serviceOptions(cfg, storageManager)...)
	if service.AsyncEnabled() {
		go startConsumer(ctx, cfg.RabbitMQ, storageManager.RabbitMQ, service)
	} else if cfg.AsyncEnabled() {
		logger.Warn().Msg("异步分析已配置但存储组件不完整，/submit 将返回 503")
	}

	tracer, tracerCfg := hertztracing.NewServerTracer()
	// 上传大小限制由处理器判断，这里为 multipart 开销预留余量
	maxBody := int(cfg.Server.MaxUploadBytes()) + 1<<20
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(maxBody),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	resumeHandler := handler.NewResumeHandler(service, config.GetDuration(cfg.Server.RequestTimeout, 30*time.Second), version)
	router.RegisterRoutes(h, cfg.Server, resumeHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	// 先停止消费者，避免退出过程中继续领取任务
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Warnf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// serviceOptions 按可用的存储组件组装分析服务的选项
func serviceOptions(cfg *config.Config, st *storage.Storage) []processor.ServiceOption {
	opts := []processor.ServiceOption{
		processor.WithDefaultMode(analysis.ParseMode(cfg.Analysis.DefaultMode)),
		processor.WithMaxUploadBytes(cfg.Server.MaxUploadBytes()),
		processor.WithReportTTL(config.GetDuration(cfg.Analysis.ReportTTL, constants.DefaultReportTTL)),
		processor.WithLogger(logger.Component("analysis")),
	}
	if st == nil {
		return opts
	}
	if st.Redis != nil {
		opts = append(opts,
			processor.WithCache(st.Redis, config.GetDuration(cfg.Analysis.CacheTTL, constants.DefaultCacheTTL)),
			processor.WithLocker(st.Redis),
		)
	}
	if st.AsyncReady() {
		opts = append(opts,
			processor.WithStaging(st.MinIO),
			processor.WithPublisher(st.RabbitMQ),
			processor.WithSubmissionStore(st.Redis),
		)
	}
	return opts
}

// startConsumer 启动任务消费者，失败时按 retry_interval 重试，最多 max_retries 次
func startConsumer(ctx context.Context, cfg config.RabbitMQConfig, mq *storage.RabbitMQ, service *processor.AnalysisService) {
	interval := config.GetDuration(cfg.RetryInterval, 5*time.Second)
	for attempt := 0; ; attempt++ {
		done, err := mq.StartConsumer(ctx, cfg.Queue, cfg.PrefetchCount, cfg.ConsumerWorkers, service.TaskHandler())
		if err == nil {
			glog.Infof("分析任务消费者已启动，队列: %s，工作协程: %d", cfg.Queue, cfg.ConsumerWorkers)
			<-done
			return
		}
		if attempt >= cfg.MaxRetries {
			glog.Errorf("启动分析任务消费者失败，已重试 %d 次: %v", attempt, err)
			return
		}
		glog.Warnf("启动分析任务消费者失败，%s 后重试: %v", interval, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
