package constants

import "time"

const (
	// ServiceName 服务名，用于日志与链路追踪
	ServiceName = "resume-insights"

	// DefaultCacheTTL 分析结果缓存的默认有效期
	DefaultCacheTTL = time.Hour
	// DefaultReportTTL 异步报告的默认保留时间
	DefaultReportTTL = 24 * time.Hour
	// DefaultLockTTL 处理单个提交时持有锁的最长时间
	DefaultLockTTL = 2 * time.Minute
	// DefaultMaxUploadBytes 上传文件大小上限
	DefaultMaxUploadBytes = 16 << 20

	// StagingPrefix MinIO 中暂存对象的前缀
	StagingPrefix = "staging"
)
