package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/config"
	"resume-insights/internal/processor"
	"resume-insights/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "基础分析：章节、动词、弱表达、行业关键词与建议",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runAnalysis(args[0], analysis.ParseMode(analyzeMode))
	},
}

var atsCmd = &cobra.Command{
	Use:   "ats <file>",
	Short: "ATS 兼容性评分，可附带职位描述",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runAnalysis(args[0], analysis.ModeATS)
	},
}

var (
	analyzeIndustry string
	analyzeMode     string
	jobDescription  string
	formatHint      string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIndustry, "industry", "", "目标行业，例如 software_development")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "basic", "分析模式: basic 或 ats")

	atsCmd.Flags().StringVar(&analyzeIndustry, "industry", "", "目标行业，例如 software_development")
	atsCmd.Flags().StringVar(&jobDescription, "job-description", "", "职位描述文本，以 @ 开头表示从文件读取")
	atsCmd.Flags().StringVar(&formatHint, "format-hint", "", "覆盖文件格式提示，默认取扩展名")

	rootCmd.AddCommand(analyzeCmd, atsCmd)
}

func runAnalysis(path string, mode analysis.Mode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("无法读取文件 %s: %w", path, err)
	}
	jd, err := readJobDescription(jobDescription)
	if err != nil {
		return err
	}

	registry, cfg, err := newRegistry(context.Background())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Extractor.Timeout, 30*time.Second))
	defer cancel()

	service := processor.NewAnalysisService(registry, processor.WithMaxUploadBytes(int64(len(data))))
	res, err := service.AnalyzeDocument(ctx, processor.Document{
		Name: filepath.Base(path),
		Data: data,
	}, processor.Params{
		Mode:           mode,
		Industry:       analyzeIndustry,
		JobDescription: jd,
		FormatHint:     formatHint,
	})
	if err != nil {
		return err
	}
	return writeJSON(types.NewAnalyzeResponse(res))
}

// readJobDescription "@path" 从文件读取，否则原样返回
func readJobDescription(v string) (string, error) {
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(v, "@"))
	if err != nil {
		return "", fmt.Errorf("读取职位描述失败: %w", err)
	}
	return string(data), nil
}
