package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, ul, ol, table, blockquote, pre"

// HTMLExtractor 从 HTML 简历中提取可见文本，块级元素之间保留换行
type HTMLExtractor struct{}

// NewHTMLExtractor 创建 HTML 解析器
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// SupportedExtensions 实现 TextExtractor 接口
func (e *HTMLExtractor) SupportedExtensions() []string {
	return []string{ExtHTML, ExtHTM}
}

// ExtractText 实现 TextExtractor 接口
func (e *HTMLExtractor) ExtractText(_ context.Context, reader io.Reader, uri string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML %s: %w", uri, err)
	}
	return documentText(doc), nil
}

// HTMLToText 去除标签，返回按行整理的文本。不含标签的输入原样整理后返回
func HTMLToText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return documentText(doc)
}

func documentText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).AppendHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return cleanWhitespace(root.Text())
}

// cleanWhitespace 去掉每行首尾空白并丢弃空行
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
