package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-insights/internal/ratelimit"

	"github.com/rs/zerolog"
)

// TikaExtractor 基于 Apache Tika Server 的文档解析器，支持 PDF 与各类 Office 文档
type TikaExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client

	extractFullMetadata bool
	extractAnnotations  bool
	logger              zerolog.Logger
	limiter             *ratelimit.TokenBucket
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaExtractor)

// WithFullMetadata 配置 Metadata 是否返回全部字段
func WithFullMetadata(extract bool) TikaOption {
	return func(e *TikaExtractor) {
		e.extractFullMetadata = extract
	}
}

// WithAnnotations 配置是否提取PDF链接注释文本
func WithAnnotations(extract bool) TikaOption {
	return func(e *TikaExtractor) {
		e.extractAnnotations = extract
	}
}

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(l zerolog.Logger) TikaOption {
	return func(e *TikaExtractor) {
		e.logger = l
	}
}

// WithTimeout 配置HTTP客户端超时时间
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		if timeout > 0 {
			e.Client.Timeout = timeout
		}
	}
}

// WithRateLimiter 所有请求先经过限流器，429/503 与网络错误按限流器的策略重试
func WithRateLimiter(tb *ratelimit.TokenBucket) TikaOption {
	return func(e *TikaExtractor) {
		e.limiter = tb
	}
}

// NewTikaExtractor 创建一个新的 Tika 解析器
func NewTikaExtractor(serverURL string, options ...TikaOption) *TikaExtractor {
	extractor := &TikaExtractor{
		ServerURL:          strings.TrimRight(serverURL, "/"),
		Client:             &http.Client{Timeout: 60 * time.Second},
		extractAnnotations: true,
		logger:             componentLogger("tika"),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// SupportedExtensions 实现 TextExtractor 接口
func (e *TikaExtractor) SupportedExtensions() []string {
	return []string{ExtPDF, ExtDOCX, ExtDOC, ExtRTF, ExtODT}
}

// ExtractText 将文档 PUT 到 /tika 并以纯文本形式取回
func (e *TikaExtractor) ExtractText(ctx context.Context, reader io.Reader, uri string) (string, error) {
	startTime := time.Now()
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取文档内容失败: %w", err)
	}

	headers := map[string]string{"Accept": "text/plain"}
	if !e.extractAnnotations {
		headers["X-Tika-PDFExtractAnnotationText"] = "false"
	}
	body, err := e.put(ctx, "/tika", data, uri, headers)
	if err != nil {
		e.logger.Warn().Err(err).Str("uri", uri).Msg("Tika文本提取失败")
		return "", err
	}

	text := string(body)
	e.logger.Debug().
		Str("uri", uri).
		Int("chars", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Tika文本提取完成")
	return text, nil
}

// Metadata 调用 /meta 获取文档元数据。默认只保留关键字段
func (e *TikaExtractor) Metadata(ctx context.Context, data []byte, uri string) (map[string]any, error) {
	body, err := e.put(ctx, "/meta", data, uri, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}

	var metadata map[string]any
	if err := json.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}
	if e.extractFullMetadata {
		return metadata, nil
	}

	important := make(map[string]any)
	for k, v := range metadata {
		if isImportantMetadata(k) {
			important[k] = v
		}
	}
	return important, nil
}

func (e *TikaExtractor) put(ctx context.Context, path string, data []byte, uri string, headers map[string]string) ([]byte, error) {
	if e.limiter == nil {
		return e.doPut(ctx, path, data, uri, headers)
	}
	var body []byte
	err := e.limiter.Do(ctx, func() error {
		var err error
		body, err = e.doPut(ctx, path, data, uri, headers)
		return err
	})
	return body, err
}

func (e *TikaExtractor) doPut(ctx context.Context, path string, data []byte, uri string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeFor(uri))
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("tika服务器繁忙 (状态码 %d): %w", resp.StatusCode, ratelimit.ErrRetryable)
	default:
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取Tika响应失败: %w", err)
	}
	return body, nil
}

// 判断元数据字段是否重要
func isImportantMetadata(key string) bool {
	importantKeys := map[string]bool{
		"pdf:PDFVersion":                true,
		"xmpTPg:NPages":                 true,
		"dcterms:created":               true,
		"dcterms:modified":              true,
		"language":                      true,
		"dc:title":                      true,
		"dc:creator":                    true,
		"Content-Type":                  true,
		"pdf:docinfo:producer":          true,
		"pdf:totalUnmappedUnicodeChars": true,
		"meta:word-count":               true,
	}
	return importantKeys[key]
}
