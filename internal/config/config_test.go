package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644), "无法写入临时配置文件")
	return configPath
}

// TestLoadConfigKeepsDefaults 验证文件中未出现的字段保留默认值
func TestLoadConfigKeepsDefaults(t *testing.T) {
	configPath := writeConfig(t, `
server:
  address: ":9090"
  allowed_origins: ["https://example.com"]
rabbitmq:
  enabled: true
  prefetch_count: 10
`)

	config, err := LoadConfigFromFileOnly(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", config.Server.Address)
	assert.Equal(t, []string{"https://example.com"}, config.Server.AllowedOrigins)
	assert.Equal(t, 16, config.Server.MaxUploadMB, "未配置时使用默认上传上限")
	assert.Equal(t, int64(16<<20), config.Server.MaxUploadBytes())
	assert.True(t, config.RabbitMQ.Enabled)
	assert.Equal(t, 10, config.RabbitMQ.PrefetchCount)
	assert.Equal(t, "q.resume_analysis", config.RabbitMQ.Queue)
	assert.Equal(t, PDFEngineEino, config.Extractor.PDFEngine)
	assert.False(t, config.AsyncEnabled(), "Redis 与 MinIO 未启用")
	assert.NoError(t, config.Validate())
}

// TestLoadConfigWithIncorrectIndentation 验证缩进错误时 YAML 解析报错
func TestLoadConfigWithIncorrectIndentation(t *testing.T) {
	configPath := writeConfig(t, `
server:
  address: ":9090"
   max_upload_mb: 4
`)
	_, err := LoadConfigFromFileOnly(configPath)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "显式指定的配置文件不存在时应报错")

	_, err = LoadConfigFromFileOnly("")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	configPath := writeConfig(t, "server:\n  address: \":9090\"\n")
	t.Setenv(EnvPrefix+"SERVER_ADDRESS", ":7070")
	t.Setenv(EnvPrefix+"API_KEYS", "alpha, beta,,")
	t.Setenv(EnvPrefix+"REDIS_ENABLED", "true")
	t.Setenv(EnvPrefix+"MAX_UPLOAD_MB", "not-a-number")

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, ":7070", config.Server.Address)
	assert.Equal(t, []string{"alpha", "beta"}, config.Server.APIKeys)
	assert.True(t, config.Redis.Enabled)
	assert.Equal(t, 16, config.Server.MaxUploadMB, "无法解析的值被忽略")

	fileOnly, err := LoadConfigFromFileOnly(configPath)
	require.NoError(t, err)
	assert.Equal(t, ":9090", fileOnly.Server.Address, "仅文件模式不读取环境变量")
}

func TestDotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logger:\n  level: info\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvPrefix+"TIKA_SERVER_URL=http://tika.internal:9998\n"), 0644))
	t.Cleanup(func() { os.Unsetenv(EnvPrefix + "TIKA_SERVER_URL") })

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "http://tika.internal:9998", config.Tika.ServerURL)
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	config.Extractor.PDFEngine = "ocr"
	config.Analysis.DefaultMode = "deep"
	config.Server.MaxUploadMB = 0
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf_engine")
	assert.Contains(t, err.Error(), "default_mode")
	assert.Contains(t, err.Error(), "max_upload_mb")

	tika := DefaultConfig()
	tika.Extractor.PDFEngine = PDFEngineTika
	tika.Tika.ServerURL = ""
	assert.Error(t, tika.Validate())
}

func TestCreateSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, CreateSampleConfig(path))
	assert.Error(t, CreateSampleConfig(path), "已存在的文件不应被覆盖")

	config, err := LoadConfigFromFileOnly(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetDuration("", 5*time.Second))
	assert.Equal(t, 5*time.Second, GetDuration("soon", 5*time.Second))
	assert.Equal(t, 90*time.Minute, GetDuration("1h30m", time.Second))
	assert.Equal(t, time.Duration(0), GetDuration("0", time.Hour))
}

// TestRepositoryConfigFile 仓库根目录的 config.yaml 必须能通过校验
func TestRepositoryConfigFile(t *testing.T) {
	config, err := LoadConfigFromFileOnly(filepath.Join("..", "..", "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.False(t, config.AsyncEnabled())
	assert.Equal(t, PDFEngineEino, config.Extractor.PDFEngine)
	assert.Equal(t, 120, config.Tika.RequestsPerMinute)
	assert.Equal(t, int64(16<<20), config.Server.MaxUploadBytes())
}
