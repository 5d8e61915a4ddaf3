package processor

import (
	"context"
	"fmt"
	"io"
	"time"

	"resume-insights/internal/config"
	"resume-insights/internal/logger"
	"resume-insights/internal/parser"
	"resume-insights/internal/ratelimit"
)

// restrictedExtractor 只对外声明部分扩展名，用于 Tika 仅处理 PDF 的场景
type restrictedExtractor struct {
	TextExtractor
	exts []string
}

func (r restrictedExtractor) SupportedExtensions() []string {
	return r.exts
}

// Restrict 让提取器只注册给定的扩展名
func Restrict(e TextExtractor, exts ...string) TextExtractor {
	return restrictedExtractor{TextExtractor: e, exts: exts}
}

// NewRegistryFromConfig 按配置组装提取器：
// docx/html/txt/md 始终使用内置实现，PDF 按 extractor.pdf_engine 选择，
// tika.handle_office 打开时 Office 格式改由 Tika 处理
func NewRegistryFromConfig(ctx context.Context, cfg *config.Config) (*ExtractorRegistry, error) {
	registry := NewExtractorRegistry(
		parser.NewDocxExtractor(),
		parser.NewHTMLExtractor(),
		parser.NewPlainTextExtractor(),
	)

	timeout := config.GetDuration(cfg.Extractor.Timeout, 30*time.Second)
	var tika *parser.TikaExtractor
	if cfg.Tika.ServerURL != "" && (cfg.Extractor.PDFEngine == config.PDFEngineTika || cfg.Tika.HandleOffice) {
		tika = newTikaExtractor(cfg.Tika)
	}

	switch cfg.Extractor.PDFEngine {
	case config.PDFEngineTika:
		if tika == nil {
			return nil, fmt.Errorf("pdf_engine 为 tika 但未配置 tika.server_url")
		}
		registry.Register(Restrict(tika, parser.ExtPDF))
	case config.PDFEngineNative:
		registry.Register(parser.NewNativePDFExtractor(logger.Component("pdf-native")))
	case config.PDFEngineEino, "":
		einoExtractor, err := parser.NewEinoPDFExtractor(ctx,
			parser.WithEinoLogger(logger.Component("pdf-eino")),
			parser.WithEinoTimeout(timeout),
		)
		if err != nil {
			return nil, fmt.Errorf("创建Eino PDF提取器失败: %w", err)
		}
		registry.Register(einoExtractor)
	default:
		return nil, fmt.Errorf("未知的 PDF 解析引擎: %q", cfg.Extractor.PDFEngine)
	}

	if cfg.Tika.HandleOffice && tika != nil {
		registry.Register(Restrict(tika, parser.ExtDOCX, parser.ExtDOC, parser.ExtRTF, parser.ExtODT))
	}
	return registry, nil
}

func newTikaExtractor(cfg config.TikaConfig) *parser.TikaExtractor {
	opts := []parser.TikaOption{
		parser.WithTikaLogger(logger.Component("tika")),
		parser.WithFullMetadata(cfg.MetadataMode == "full"),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, parser.WithTimeout(time.Duration(cfg.Timeout)*time.Second))
	}
	if cfg.RequestsPerMinute > 0 {
		limiter := ratelimit.NewTokenBucket(cfg.RequestsPerMinute, cfg.Burst).
			WithRetryPolicy(500*time.Millisecond, cfg.MaxRetries)
		opts = append(opts, parser.WithRateLimiter(limiter))
	}
	return parser.NewTikaExtractor(cfg.ServerURL, opts...)
}

// ExtractFile 供命令行使用：按文件名选择提取器读取 reader
func (r *ExtractorRegistry) ExtractFile(ctx context.Context, reader io.Reader, name string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return r.Extract(ctx, name, data)
}
