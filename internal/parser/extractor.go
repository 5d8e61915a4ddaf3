package parser

import (
	"path/filepath"
	"strings"

	"resume-insights/internal/logger"

	"github.com/rs/zerolog"
)

// 支持的文档扩展名
const (
	ExtPDF      = ".pdf"
	ExtDOCX     = ".docx"
	ExtDOC      = ".doc"
	ExtRTF      = ".rtf"
	ExtODT      = ".odt"
	ExtHTML     = ".html"
	ExtHTM      = ".htm"
	ExtTXT      = ".txt"
	ExtMarkdown = ".md"
)

var contentTypes = map[string]string{
	ExtPDF:      "application/pdf",
	ExtDOCX:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	ExtDOC:      "application/msword",
	ExtRTF:      "application/rtf",
	ExtODT:      "application/vnd.oasis.opendocument.text",
	ExtHTML:     "text/html",
	ExtHTM:      "text/html",
	ExtTXT:      "text/plain",
	ExtMarkdown: "text/markdown",
}

// Ext 返回小写的文件扩展名（含点号）
func Ext(uri string) string {
	return strings.ToLower(filepath.Ext(uri))
}

// ContentTypeFor 根据文件名推断 MIME 类型，未知扩展名返回 application/octet-stream
func ContentTypeFor(uri string) string {
	if ct, ok := contentTypes[Ext(uri)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func componentLogger(name string) zerolog.Logger {
	return logger.Logger.With().Str("component", name).Logger()
}
