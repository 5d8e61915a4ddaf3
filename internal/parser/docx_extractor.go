package parser

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DocxExtractor 读取 Word 文档正文
type DocxExtractor struct{}

// NewDocxExtractor 创建 DOCX 解析器
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// SupportedExtensions 实现 TextExtractor 接口
func (e *DocxExtractor) SupportedExtensions() []string {
	return []string{ExtDOCX}
}

// ExtractText 读取 word/document.xml 并转换为按段落换行的纯文本
func (e *DocxExtractor) ExtractText(_ context.Context, reader io.Reader, uri string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取DOCX内容失败: %w", err)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx %s: %w", uri, err)
	}
	defer doc.Close()

	return DocxXMLToText(doc.Editable().GetContent()), nil
}

// DocxXMLToText 把 document.xml 内容转换为纯文本：段落与换行符保留为换行，制表符变为空格
func DocxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, " ")
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
