package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"resume-insights/internal/config"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	closer, err := Init(config.LoggerConfig{Level: "debug", Format: "json", File: logFile})
	require.NoError(t, err)

	Info().Str("submission_id", "abc").Msg("分析完成")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"submission_id":"abc"`)
	assert.Contains(t, string(data), "分析完成")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitFallsBackToInfo(t *testing.T) {
	closer, err := Init(config.LoggerConfig{Level: "verbose"})
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestHertzLevel(t *testing.T) {
	assert.Equal(t, hlog.LevelDebug, hertzLevel(zerolog.DebugLevel))
	assert.Equal(t, hlog.LevelWarn, hertzLevel(zerolog.WarnLevel))
	assert.Equal(t, hlog.LevelFatal, hertzLevel(zerolog.PanicLevel))
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	l := Ctx(context.Background())
	require.NotNil(t, l)

	ctx := WithContext(context.Background())
	assert.NotNil(t, Ctx(ctx))
}
