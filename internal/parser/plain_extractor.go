package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlainTextExtractor 读取 .txt / .md 文本，兼容 UTF-8 与带 BOM 的 UTF-16
type PlainTextExtractor struct{}

// NewPlainTextExtractor 创建纯文本解析器
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// SupportedExtensions 实现 TextExtractor 接口
func (e *PlainTextExtractor) SupportedExtensions() []string {
	return []string{ExtTXT, ExtMarkdown}
}

// ExtractText 实现 TextExtractor 接口
func (e *PlainTextExtractor) ExtractText(_ context.Context, reader io.Reader, uri string) (string, error) {
	decoded := transform.NewReader(reader, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("读取文本文件 %s 失败: %w", uri, err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
