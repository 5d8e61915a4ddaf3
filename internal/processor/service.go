package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/constants"
	"resume-insights/internal/parser"
	"resume-insights/internal/storage"
	"resume-insights/internal/tracing"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Document 待分析的上传文档
type Document struct {
	Name        string // 原始文件名，决定使用哪个提取器
	Data        []byte
	ContentType string
}

// Params 一次分析的参数
type Params struct {
	Mode           analysis.Mode
	Industry       string
	JobDescription string
	// FormatHint 源文件格式，空时取文件扩展名
	FormatHint string
}

// AnalysisService 简历分析服务：同步分析、异步提交与报告查询
type AnalysisService struct {
	analyzer   *analysis.Analyzer
	extractors *ExtractorRegistry

	cache       ResultCache
	cacheTTL    time.Duration
	stager      DocumentStager
	publisher   TaskPublisher
	submissions SubmissionStore
	locker      TaskLocker

	maxUploadBytes int64
	reportTTL      time.Duration
	defaultMode    analysis.Mode

	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewAnalysisService 创建分析服务。只有同时配置了暂存、发布者和提交存储时才支持异步提交
func NewAnalysisService(extractors *ExtractorRegistry, opts ...ServiceOption) *AnalysisService {
	if extractors == nil {
		extractors = NewExtractorRegistry()
	}
	s := &AnalysisService{
		analyzer:       analysis.New(),
		extractors:     extractors,
		maxUploadBytes: constants.DefaultMaxUploadBytes,
		reportTTL:      constants.DefaultReportTTL,
		defaultMode:    analysis.ModeATS,
		logger:         zerolog.Nop(),
		tracer:         otel.Tracer("resume-insights/processor"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AsyncEnabled 是否支持异步提交
func (s *AnalysisService) AsyncEnabled() bool {
	return s.stager != nil && s.publisher != nil && s.submissions != nil
}

// Extensions 支持的文件扩展名
func (s *AnalysisService) Extensions() []string {
	return s.extractors.Extensions()
}

// MaxUploadBytes 单个文档大小上限
func (s *AnalysisService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *AnalysisService) normalizeParams(p Params, filename string) Params {
	if p.Mode == "" {
		p.Mode = s.defaultMode
	}
	if p.FormatHint == "" && filename != "" {
		p.FormatHint = parser.Ext(filename)
	}
	p.Industry = strings.TrimSpace(p.Industry)
	// 职位描述可能是从网页复制的 HTML
	p.JobDescription = parser.HTMLToText(p.JobDescription)
	return p
}

// checkDocument 大小与格式校验，不做任何提取
func (s *AnalysisService) checkDocument(doc Document) error {
	if int64(len(doc.Data)) > s.maxUploadBytes {
		return newError("check", ErrFileTooLarge, fmt.Sprintf("%d > %d 字节", len(doc.Data), s.maxUploadBytes))
	}
	if _, err := s.extractors.For(doc.Name); err != nil {
		return err
	}
	return nil
}

// cacheDigest 文档内容与分析参数共同决定缓存键
func cacheDigest(data []byte, p Params) string {
	h := md5.New()
	h.Write(data)
	for _, part := range []string{string(p.Mode), p.Industry, p.JobDescription, p.FormatHint} {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// AnalyzeDocument 同步分析上传的文档：校验、查缓存、提取文本、分析、写缓存
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, doc Document, params Params) (*analysis.Result, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.AnalyzeDocument", trace.WithAttributes(
		attribute.String("resume.filename", tracing.SafeFilename(doc.Name)),
		attribute.Int("resume.size", len(doc.Data)),
	))
	defer span.End()

	if err := s.checkDocument(doc); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	params = s.normalizeParams(params, doc.Name)
	span.SetAttributes(attribute.String("analysis.mode", string(params.Mode)))

	digest := cacheDigest(doc.Data, params)
	if res, ok := s.cachedResult(ctx, digest); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return res, nil
	}

	text, err := s.extractors.Extract(ctx, doc.Name, doc.Data)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return nil, err
	}

	res, err := s.analyze(text, params)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	s.storeResult(ctx, digest, res)
	return res, nil
}

// AnalyzeText 分析已提取的纯文本
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string, params Params) (*analysis.Result, error) {
	_, span := s.tracer.Start(ctx, "AnalysisService.AnalyzeText", trace.WithAttributes(
		attribute.Int("resume.length", len(text)),
	))
	defer span.End()

	res, err := s.analyze(text, s.normalizeParams(params, ""))
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	return res, nil
}

func (s *AnalysisService) analyze(text string, p Params) (*analysis.Result, error) {
	var (
		res *analysis.Result
		err error
	)
	if p.Mode == analysis.ModeBasic {
		res, err = s.analyzer.Analyze(text, p.Industry)
	} else {
		res, err = s.analyzer.ScoreForATS(text, analysis.ATSRequest{
			FormatHint:     p.FormatHint,
			JobDescription: p.JobDescription,
			TargetIndustry: p.Industry,
		})
	}
	if errors.Is(err, analysis.ErrEmptyText) {
		return nil, newError("analyze", ErrEmptyText, "")
	}
	if err != nil {
		return nil, fmt.Errorf("分析简历失败: %w", err)
	}
	return res, nil
}

// cachedResult 缓存读取失败只记录日志
func (s *AnalysisService) cachedResult(ctx context.Context, digest string) (*analysis.Result, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	res, ok, err := s.cache.GetAnalysis(ctx, digest)
	if err != nil {
		s.logger.Warn().Err(err).Str("digest", digest).Msg("读取分析缓存失败")
		return nil, false
	}
	if ok {
		s.logger.Debug().Str("digest", digest).Msg("命中分析缓存")
	}
	return res, ok
}

func (s *AnalysisService) storeResult(ctx context.Context, digest string, res *analysis.Result) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.SetAnalysis(ctx, digest, res, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("digest", digest).Msg("写入分析缓存失败")
	}
}

// SubmitDocument 异步提交：暂存文档、写入 pending 记录并发布任务，返回提交ID
func (s *AnalysisService) SubmitDocument(ctx context.Context, doc Document, params Params) (string, error) {
	if !s.AsyncEnabled() {
		return "", ErrAsyncDisabled
	}
	ctx, span := s.tracer.Start(ctx, "AnalysisService.SubmitDocument")
	defer span.End()

	if err := s.checkDocument(doc); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return "", err
	}
	params = s.normalizeParams(params, doc.Name)

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成提交ID失败: %w", err)
	}
	submissionID := id.String()
	span.SetAttributes(attribute.String("submission.id", submissionID))
	log := s.logger.With().Str("submission_id", submissionID).Logger()

	objectKey, err := s.stager.StageDocument(ctx, submissionID, doc.Name, doc.Data)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStore)
		return "", fmt.Errorf("暂存文档失败: %w", err)
	}

	now := s.now()
	rec := &storage.SubmissionRecord{
		SubmissionID:     submissionID,
		Status:           storage.StatusPending,
		OriginalFilename: doc.Name,
		SubmittedAt:      now,
		UpdatedAt:        now,
	}
	if err := s.submissions.SaveSubmission(ctx, rec, s.reportTTL); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		s.discardStaged(ctx, log, objectKey)
		return "", fmt.Errorf("保存提交记录失败: %w", err)
	}

	msg := &storage.AnalysisTaskMessage{
		SubmissionID:     submissionID,
		ObjectKey:        objectKey,
		OriginalFilename: doc.Name,
		ContentType:      doc.ContentType,
		Mode:             string(params.Mode),
		Industry:         params.Industry,
		JobDescription:   params.JobDescription,
		SubmittedAt:      now,
	}
	if err := s.publisher.PublishTask(ctx, msg); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		rec.Status = storage.StatusFailed
		rec.Error = "任务发布失败"
		rec.UpdatedAt = s.now()
		if saveErr := s.submissions.SaveSubmission(ctx, rec, s.reportTTL); saveErr != nil {
			log.Error().Err(saveErr).Msg("标记提交失败时出错")
		}
		s.discardStaged(ctx, log, objectKey)
		return "", fmt.Errorf("发布分析任务失败: %w", err)
	}

	log.Info().Str("object", objectKey).Str("mode", msg.Mode).Msg("异步分析任务已提交")
	return submissionID, nil
}

func (s *AnalysisService) discardStaged(ctx context.Context, log zerolog.Logger, objectKey string) {
	if err := s.stager.RemoveDocument(ctx, objectKey); err != nil {
		log.Warn().Err(err).Str("object", objectKey).Msg("删除暂存文档失败")
	}
}

// HandleTask 消费者处理一条分析任务。分析本身失败只会记录为 failed 状态；
// 返回错误表示基础设施故障（提交记录无法读写），调用方可据此重新投递
func (s *AnalysisService) HandleTask(ctx context.Context, msg *storage.AnalysisTaskMessage) error {
	if msg == nil || msg.SubmissionID == "" {
		return newError("handle_task", ErrInvalidParams, "消息缺少 submission_id")
	}
	if s.stager == nil || s.submissions == nil {
		return ErrAsyncDisabled
	}
	ctx, span := s.tracer.Start(ctx, "AnalysisService.HandleTask", trace.WithAttributes(
		attribute.String("submission.id", msg.SubmissionID),
	))
	defer span.End()
	log := s.logger.With().Str("submission_id", msg.SubmissionID).Logger()

	if s.locker != nil {
		lockKey := storage.SubmissionLockKey(msg.SubmissionID)
		token, err := s.locker.AcquireLock(ctx, lockKey, constants.DefaultLockTTL)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
			return fmt.Errorf("获取提交锁失败: %w: %w", err, storage.ErrRequeue)
		}
		if token == "" {
			log.Info().Msg("提交正在被其他消费者处理，跳过")
			return nil
		}
		defer func() {
			if _, err := s.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey, token); err != nil {
				log.Warn().Err(err).Msg("释放提交锁失败")
			}
		}()
	}

	rec, err := s.submissions.GetSubmission(ctx, msg.SubmissionID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// 记录已过期或从未写入，按消息重建
		rec = &storage.SubmissionRecord{
			SubmissionID:     msg.SubmissionID,
			OriginalFilename: msg.OriginalFilename,
			SubmittedAt:      msg.SubmittedAt,
		}
	case err != nil:
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("读取提交记录失败: %w: %w", err, storage.ErrRequeue)
	}

	if rec.Status.Terminal() {
		log.Info().Str("status", string(rec.Status)).Msg("提交已处理完毕，忽略重复消息")
		s.discardStaged(context.WithoutCancel(ctx), log, msg.ObjectKey)
		return nil
	}

	rec.Status = storage.StatusProcessing
	rec.UpdatedAt = s.now()
	if err := s.submissions.SaveSubmission(ctx, rec, s.reportTTL); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		// 重新投递时还要读取暂存文档，这里不能删除
		return fmt.Errorf("更新提交状态失败: %w: %w", err, storage.ErrRequeue)
	}
	defer s.discardStaged(context.WithoutCancel(ctx), log, msg.ObjectKey)

	res, analyzeErr := s.analyzeStaged(ctx, msg)
	rec.UpdatedAt = s.now()
	if analyzeErr != nil {
		tracing.RecordError(span, analyzeErr, tracing.ErrorTypeExtraction)
		log.Warn().Err(analyzeErr).Msg("异步分析失败")
		rec.Status = storage.StatusFailed
		rec.Error = PublicMessage(analyzeErr)
	} else {
		rec.Status = storage.StatusCompleted
		rec.Result = res
	}

	if err := s.submissions.SaveSubmission(ctx, rec, s.reportTTL); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("保存分析报告失败: %w", err)
	}
	log.Info().Str("status", string(rec.Status)).Msg("异步分析任务处理完成")
	return nil
}

func (s *AnalysisService) analyzeStaged(ctx context.Context, msg *storage.AnalysisTaskMessage) (*analysis.Result, error) {
	data, err := s.stager.FetchDocument(ctx, msg.ObjectKey)
	if err != nil {
		return nil, NewExtractionError(msg.SubmissionID, err.Error())
	}
	doc := Document{Name: msg.OriginalFilename, Data: data, ContentType: msg.ContentType}
	return s.AnalyzeDocument(ctx, doc, Params{
		Mode:           analysis.ParseMode(msg.Mode),
		Industry:       msg.Industry,
		JobDescription: msg.JobDescription,
	})
}

// GetReport 查询异步提交的状态与报告
func (s *AnalysisService) GetReport(ctx context.Context, submissionID string) (*storage.SubmissionRecord, error) {
	if s.submissions == nil {
		return nil, ErrAsyncDisabled
	}
	if strings.TrimSpace(submissionID) == "" {
		return nil, newError("get_report", ErrInvalidParams, "submission_id 为空")
	}
	rec, err := s.submissions.GetSubmission(ctx, submissionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &AnalysisError{SubmissionID: submissionID, Op: "get_report", BaseErr: ErrSubmissionNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("读取提交记录失败: %w", err)
	}
	return rec, nil
}
