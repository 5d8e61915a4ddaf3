package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-insights/internal/config"
	"resume-insights/internal/parser"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "只提取简历文本",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractMaxLen   int
	extractMetadata bool
)

func init() {
	extractCmd.Flags().IntVar(&extractMaxLen, "maxlen", -1, "输出文本的最大字符数，-1 表示全部")
	extractCmd.Flags().BoolVar(&extractMetadata, "metadata", false, "同时通过 Tika 获取文档元数据")
	rootCmd.AddCommand(extractCmd)
}

// extractResult extract 命令的输出
type extractResult struct {
	File       string         `json:"file"`
	Format     string         `json:"format"`
	Characters int            `json:"characters"`
	Truncated  bool           `json:"truncated,omitempty"`
	ElapsedMS  int64          `json:"elapsed_ms"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Text       string         `json:"text"`
}

func runExtract(_ *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("无法读取文件 %s: %w", path, err)
	}

	registry, cfg, err := newRegistry(context.Background())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Extractor.Timeout, 30*time.Second))
	defer cancel()

	start := time.Now()
	text, err := registry.Extract(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}

	runes := []rune(text)
	out := extractResult{
		File:       path,
		Format:     parser.Ext(path),
		Characters: len(runes),
		ElapsedMS:  time.Since(start).Milliseconds(),
		Text:       text,
	}
	if extractMaxLen >= 0 && len(runes) > extractMaxLen {
		out.Text = string(runes[:extractMaxLen])
		out.Truncated = true
	}

	if extractMetadata {
		if cfg.Tika.ServerURL == "" {
			return fmt.Errorf("--metadata 需要配置 tika.server_url 或 --tika-url")
		}
		tika := parser.NewTikaExtractor(cfg.Tika.ServerURL,
			parser.WithFullMetadata(cfg.Tika.MetadataMode == "full"),
			parser.WithTimeout(time.Duration(cfg.Tika.Timeout)*time.Second),
		)
		out.Metadata, err = tika.Metadata(ctx, data, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("获取元数据失败: %w", err)
		}
	}
	return writeJSON(out)
}
