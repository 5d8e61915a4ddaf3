package processor

import (
	"time"

	"resume-insights/internal/analysis"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// ServiceOption AnalysisService 的选项函数
type ServiceOption func(*AnalysisService)

// WithAnalyzer 替换默认的分析器（例如使用自定义词表）
func WithAnalyzer(a *analysis.Analyzer) ServiceOption {
	return func(s *AnalysisService) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithCache 启用分析结果缓存，ttl<=0 时不缓存
func WithCache(cache ResultCache, ttl time.Duration) ServiceOption {
	return func(s *AnalysisService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithStaging 设置异步分析的文档暂存
func WithStaging(stager DocumentStager) ServiceOption {
	return func(s *AnalysisService) {
		s.stager = stager
	}
}

// WithPublisher 设置异步任务发布者
func WithPublisher(publisher TaskPublisher) ServiceOption {
	return func(s *AnalysisService) {
		s.publisher = publisher
	}
}

// WithSubmissionStore 设置提交记录存储
func WithSubmissionStore(store SubmissionStore) ServiceOption {
	return func(s *AnalysisService) {
		s.submissions = store
	}
}

// WithLocker 设置任务锁
func WithLocker(locker TaskLocker) ServiceOption {
	return func(s *AnalysisService) {
		s.locker = locker
	}
}

// WithMaxUploadBytes 设置单个文档大小上限
func WithMaxUploadBytes(n int64) ServiceOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithReportTTL 设置异步报告的保留时间
func WithReportTTL(ttl time.Duration) ServiceOption {
	return func(s *AnalysisService) {
		if ttl > 0 {
			s.reportTTL = ttl
		}
	}
}

// WithDefaultMode 未指定模式时使用的分析模式
func WithDefaultMode(mode analysis.Mode) ServiceOption {
	return func(s *AnalysisService) {
		if mode != "" {
			s.defaultMode = mode
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *AnalysisService) {
		s.logger = l
	}
}

// WithTracer 设置 tracer
func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *AnalysisService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// withClock 测试用
func withClock(now func() time.Time) ServiceOption {
	return func(s *AnalysisService) {
		s.now = now
	}
}
