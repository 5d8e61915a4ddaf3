package processor

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"resume-insights/internal/parser"
)

// ExtractorRegistry 按扩展名选择文本提取器，后注册的覆盖先注册的
type ExtractorRegistry struct {
	mu         sync.RWMutex
	extractors map[string]TextExtractor
}

// NewExtractorRegistry 创建注册表并注册给定的提取器
func NewExtractorRegistry(extractors ...TextExtractor) *ExtractorRegistry {
	r := &ExtractorRegistry{extractors: make(map[string]TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register 为提取器声明的所有扩展名注册
func (r *ExtractorRegistry) Register(e TextExtractor) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.SupportedExtensions() {
		r.extractors[ext] = e
	}
}

// For 返回处理该文件的提取器
func (r *ExtractorRegistry) For(uri string) (TextExtractor, error) {
	ext := parser.Ext(uri)
	r.mu.RLock()
	e, ok := r.extractors[ext]
	r.mu.RUnlock()
	if !ok {
		if ext == "" {
			ext = "(无扩展名)"
		}
		return nil, newError("select_extractor", ErrUnsupportedFormat, ext)
	}
	return e, nil
}

// Supports 是否存在处理该文件的提取器
func (r *ExtractorRegistry) Supports(uri string) bool {
	_, err := r.For(uri)
	return err == nil
}

// Extensions 返回已注册的扩展名，按字母序
func (r *ExtractorRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extract 选择提取器并提取文本。提取器本身的错误统一包装为 ErrExtractionFailed
func (r *ExtractorRegistry) Extract(ctx context.Context, name string, data []byte) (string, error) {
	e, err := r.For(name)
	if err != nil {
		return "", err
	}
	text, err := e.ExtractText(ctx, bytes.NewReader(data), name)
	if err != nil {
		return "", NewExtractionError("", fmt.Sprintf("%s: %v", name, err))
	}
	return text, nil
}
