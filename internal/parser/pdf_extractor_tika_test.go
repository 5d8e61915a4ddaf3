package parser

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resume-insights/internal/ratelimit"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 创建一个模拟的Tika服务器，记录收到的请求头
func createMockTikaServer(t *testing.T, seen *http.Header) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if seen != nil {
			*seen = r.Header.Clone()
		}
		_, _ = io.Copy(io.Discard, r.Body)
		switch r.URL.Path {
		case "/tika":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("Jane Doe\nEXPERIENCE\nLed a team of five engineers"))
		case "/meta":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"Content-Type": "application/pdf",
				"pdf:PDFVersion": "1.5",
				"xmpTPg:NPages": 2,
				"meta:author": "Jane Doe",
				"X-TIKA:Parsed-By": "org.apache.tika.parser.DefaultParser"
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewTikaExtractor(t *testing.T) {
	extractor := NewTikaExtractor("http://localhost:9998/")
	assert.Equal(t, "http://localhost:9998", extractor.ServerURL, "末尾斜杠应被去除")
	require.NotNil(t, extractor.Client)
	assert.Equal(t, 60*time.Second, extractor.Client.Timeout, "HTTP客户端默认超时应为60秒")
	assert.False(t, extractor.extractFullMetadata)
	assert.True(t, extractor.extractAnnotations)

	custom := NewTikaExtractor("http://tika:9998",
		WithFullMetadata(true),
		WithAnnotations(false),
		WithTimeout(30*time.Second),
		WithTikaLogger(zerolog.Nop()),
	)
	assert.True(t, custom.extractFullMetadata)
	assert.False(t, custom.extractAnnotations)
	assert.Equal(t, 30*time.Second, custom.Client.Timeout)
	assert.Contains(t, custom.SupportedExtensions(), ExtDOCX)
}

func TestTikaExtractText(t *testing.T) {
	var seen http.Header
	server := createMockTikaServer(t, &seen)
	extractor := NewTikaExtractor(server.URL, WithAnnotations(false), WithTikaLogger(zerolog.Nop()))

	text, err := extractor.ExtractText(context.Background(), bytes.NewReader([]byte("%PDF-1.5 mock")), "resume.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Led a team of five engineers")

	assert.Equal(t, "text/plain", seen.Get("Accept"))
	assert.Equal(t, "application/pdf", seen.Get("Content-Type"))
	assert.Equal(t, "resume.pdf", seen.Get("X-Tika-Resource-Name"))
	assert.Equal(t, "false", seen.Get("X-Tika-PDFExtractAnnotationText"))

	_, err = extractor.ExtractText(context.Background(), strings.NewReader("PK"), "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeFor("resume.docx"), seen.Get("Content-Type"), "Content-Type 随扩展名变化")
}

func TestTikaMetadata(t *testing.T) {
	server := createMockTikaServer(t, nil)
	data := []byte("%PDF-1.5 mock")

	minimal, err := NewTikaExtractor(server.URL).Metadata(context.Background(), data, "resume.pdf")
	require.NoError(t, err)
	assert.Contains(t, minimal, "pdf:PDFVersion")
	assert.Equal(t, float64(2), minimal["xmpTPg:NPages"])
	assert.NotContains(t, minimal, "X-TIKA:Parsed-By", "精简模式不包含次要字段")

	full, err := NewTikaExtractor(server.URL, WithFullMetadata(true)).Metadata(context.Background(), data, "resume.pdf")
	require.NoError(t, err)
	assert.Contains(t, full, "X-TIKA:Parsed-By")
	assert.Contains(t, full, "meta:author")
}

func TestTikaServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := NewTikaExtractor(server.URL, WithTikaLogger(zerolog.Nop())).
		ExtractText(context.Background(), strings.NewReader("x"), "resume.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestTikaRetriesBusyServer(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.Copy(io.Discard, r.Body)
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("Jane Doe"))
	}))
	t.Cleanup(server.Close)

	limiter := ratelimit.NewTokenBucket(6000, 5).WithRetryPolicy(time.Millisecond, 2)
	extractor := NewTikaExtractor(server.URL, WithRateLimiter(limiter), WithTikaLogger(zerolog.Nop()))
	text, err := extractor.ExtractText(context.Background(), strings.NewReader("%PDF"), "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)
	assert.Equal(t, 2, calls)

	// 没有限流器时不重试
	calls = 0
	plain := NewTikaExtractor(server.URL, WithTikaLogger(zerolog.Nop()))
	_, err = plain.ExtractText(context.Background(), strings.NewReader("%PDF"), "cv.pdf")
	assert.ErrorIs(t, err, ratelimit.ErrRetryable)
	assert.Equal(t, 1, calls)
}
