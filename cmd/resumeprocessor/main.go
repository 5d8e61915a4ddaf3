// resumeprocessor 是离线使用的命令行工具：提取简历文本、分析简历、计算 ATS 评分
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"resume-insights/internal/config"
	"resume-insights/internal/logger"
	"resume-insights/internal/processor"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumeprocessor",
	Short: "简历文本提取与 ATS 评分工具",
	Long:  "resumeprocessor 在本地提取 PDF/DOCX/HTML/TXT 简历的文本，并给出基础分析或 ATS 兼容性评分，结果以 JSON 输出。",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		// 日志写到 stderr，stdout 只输出结果
		_, err := logger.Init(config.LoggerConfig{Level: level, Format: "pretty", TimeFormat: "15:04:05"})
		return err
	},
	SilenceUsage: true,
}

var (
	configPath string
	pdfEngine  string
	tikaURL    string
	outputFile string
	verbose    bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "配置文件路径，仅读取 extractor 与 tika 部分")
	flags.StringVar(&pdfEngine, "engine", "", "PDF 解析引擎: eino, tika, native (覆盖配置)")
	flags.StringVar(&tikaURL, "tika-url", "", "Tika 服务地址 (覆盖配置)")
	flags.StringVarP(&outputFile, "output", "o", "", "结果写入文件，默认输出到 stdout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置并应用命令行覆盖
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfigFromFileOnly(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if pdfEngine != "" {
		cfg.Extractor.PDFEngine = pdfEngine
	}
	if tikaURL != "" {
		cfg.Tika.ServerURL = tikaURL
	}
	return cfg, nil
}

func newRegistry(ctx context.Context) (*processor.ExtractorRegistry, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	registry, err := processor.NewRegistryFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return registry, cfg, nil
}

// writeJSON 按 --output 输出缩进的 JSON
func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化结果失败: %w", err)
	}
	data = append(data, '\n')
	if outputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("写入结果文件失败: %w", err)
	}
	fmt.Fprintf(os.Stderr, "结果已写入 %s\n", outputFile)
	return nil
}
