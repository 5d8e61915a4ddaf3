package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// NativePDFExtractor 纯 Go 实现的 PDF 解析器，不依赖外部服务
type NativePDFExtractor struct {
	logger zerolog.Logger
}

// NewNativePDFExtractor 创建基于 ledongthuc/pdf 的解析器
func NewNativePDFExtractor(l ...zerolog.Logger) *NativePDFExtractor {
	e := &NativePDFExtractor{logger: componentLogger("native_pdf")}
	if len(l) > 0 {
		e.logger = l[0]
	}
	return e
}

// SupportedExtensions 实现 TextExtractor 接口
func (e *NativePDFExtractor) SupportedExtensions() []string {
	return []string{ExtPDF}
}

// ExtractText 逐页读取纯文本，页与页之间以换行分隔
func (e *NativePDFExtractor) ExtractText(ctx context.Context, reader io.Reader, uri string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取PDF内容失败: %w", err)
	}

	text, numPages, err := recoverExtract(uri, func() (string, int, error) {
		return e.readPages(ctx, data, uri)
	})
	if err != nil {
		return "", err
	}

	e.logger.Debug().Str("uri", uri).Int("pages", numPages).Int("chars", len(text)).Msg("PDF提取完成")
	return text, nil
}

// recoverExtract ledongthuc/pdf 遇到部分损坏的文件会 panic，这里转为普通错误
func recoverExtract(uri string, fn func() (string, int, error)) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("解析PDF %s 时发生异常: %v", uri, r)
		}
	}()
	return fn()
}

func (e *NativePDFExtractor) readPages(ctx context.Context, data []byte, uri string) (string, int, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to read pdf %s: %w", uri, err)
	}

	var sb strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn().Err(err).Str("uri", uri).Int("page", i).Msg("跳过无法解析的页面")
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), numPages, nil
}
