package processor

import (
	"context"
	"io"
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/storage"
)

//
// 文本提取相关接口
//

// TextExtractor 文档文本提取器接口
type TextExtractor interface {
	// ExtractText 从reader读取文档并返回纯文本
	// 参数：
	// - ctx: 上下文
	// - reader: 文档内容的读取器
	// - uri: 资源标识符（通常是上传的文件名，用于判断格式和日志）
	ExtractText(ctx context.Context, reader io.Reader, uri string) (string, error)

	// SupportedExtensions 返回支持的扩展名（小写，带点）
	SupportedExtensions() []string
}

//
// 存储相关接口
//

// ResultCache 分析结果缓存
type ResultCache interface {
	GetAnalysis(ctx context.Context, digest string) (*analysis.Result, bool, error)
	SetAnalysis(ctx context.Context, digest string, res *analysis.Result, ttl time.Duration) error
}

// DocumentStager 异步分析前暂存文档，分析结束后删除
type DocumentStager interface {
	StageDocument(ctx context.Context, submissionID, filename string, data []byte) (string, error)
	FetchDocument(ctx context.Context, objectKey string) ([]byte, error)
	RemoveDocument(ctx context.Context, objectKey string) error
}

// TaskPublisher 发布异步分析任务
type TaskPublisher interface {
	PublishTask(ctx context.Context, msg *storage.AnalysisTaskMessage) error
}

// SubmissionStore 保存异步提交的状态与报告
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, rec *storage.SubmissionRecord, ttl time.Duration) error
	// GetSubmission 记录不存在时返回 storage.ErrNotFound
	GetSubmission(ctx context.Context, submissionID string) (*storage.SubmissionRecord, error)
}

// TaskLocker 防止同一提交被多个消费者同时处理
type TaskLocker interface {
	// AcquireLock 未抢到锁时返回空字符串
	AcquireLock(ctx context.Context, lockKey string, expiration time.Duration) (string, error)
	ReleaseLock(ctx context.Context, lockKey string, lockValue string) (bool, error)
}
