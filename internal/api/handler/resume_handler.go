package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/logger"
	"resume-insights/internal/processor"
	"resume-insights/internal/tracing"
	"resume-insights/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
)

// 上传表单中文件字段的名称，依次尝试
var uploadFields = []string{"resume", "file"}

// ResumeHandler 简历分析相关的 HTTP 处理器
type ResumeHandler struct {
	service  *processor.AnalysisService
	validate *validator.Validate
	timeout  time.Duration
	version  string
}

// NewResumeHandler 创建一个新的简历处理器，timeout<=0 表示不额外限制处理时间
func NewResumeHandler(service *processor.AnalysisService, timeout time.Duration, version string) *ResumeHandler {
	return &ResumeHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		timeout:  timeout,
		version:  version,
	}
}

func (h *ResumeHandler) withTimeout(c context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c)
	}
	return context.WithTimeout(c, h.timeout)
}

// Analyze POST /api/v1/resume/analyze，同步分析上传的文档
func (h *ResumeHandler) Analyze(c context.Context, ctx *app.RequestContext) {
	doc, params, err := h.readUpload(ctx)
	if err != nil {
		h.fail(c, ctx, err)
		return
	}

	tc, cancel := h.withTimeout(c)
	defer cancel()
	res, err := h.service.AnalyzeDocument(tc, doc, params)
	if err != nil {
		h.fail(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, types.NewAnalyzeResponse(res))
}

// AnalyzeText POST /api/v1/resume/text，分析调用方已提取的文本
func (h *ResumeHandler) AnalyzeText(c context.Context, ctx *app.RequestContext) {
	var req types.TextAnalyzeRequest
	if err := ctx.BindJSON(&req); err != nil {
		h.fail(c, ctx, &processor.AnalysisError{Op: "bind", BaseErr: processor.ErrInvalidParams, Detail: err.Error()})
		return
	}
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	if err := h.validate.Struct(&req); err != nil {
		h.fail(c, ctx, validationError(err))
		return
	}

	tc, cancel := h.withTimeout(c)
	defer cancel()
	res, err := h.service.AnalyzeText(tc, req.Text, processor.Params{
		Mode:           modeOf(req.Mode),
		Industry:       req.Industry,
		JobDescription: req.JobDescription,
		FormatHint:     req.FormatHint,
	})
	if err != nil {
		h.fail(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, types.NewAnalyzeResponse(res))
}

// Submit POST /api/v1/resume/submit，异步提交，立即返回提交ID
func (h *ResumeHandler) Submit(c context.Context, ctx *app.RequestContext) {
	if !h.service.AsyncEnabled() {
		h.fail(c, ctx, processor.ErrAsyncDisabled)
		return
	}
	doc, params, err := h.readUpload(ctx)
	if err != nil {
		h.fail(c, ctx, err)
		return
	}

	id, err := h.service.SubmitDocument(c, doc, params)
	if err != nil {
		h.fail(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusAccepted, types.SubmitResponse{
		Success:      true,
		SubmissionID: id,
		Status:       "pending",
	})
}

// GetReport GET /api/v1/resume/reports/:id
func (h *ResumeHandler) GetReport(c context.Context, ctx *app.RequestContext) {
	rec, err := h.service.GetReport(c, ctx.Param("id"))
	if err != nil {
		h.fail(c, ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, types.NewReportResponse(rec))
}

// Health GET /health
func (h *ResumeHandler) Health(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, types.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Async:   h.service.AsyncEnabled(),
		Formats: h.service.Extensions(),
	})
}

// readUpload 读取上传文件和表单参数。文件大小在读取前后各检查一次
func (h *ResumeHandler) readUpload(ctx *app.RequestContext) (processor.Document, processor.Params, error) {
	var fileHeader *multipart.FileHeader
	var err error
	for _, field := range uploadFields {
		fileHeader, err = ctx.FormFile(field)
		if err == nil {
			break
		}
	}
	if fileHeader == nil {
		return processor.Document{}, processor.Params{}, &processor.AnalysisError{
			Op: "upload", BaseErr: processor.ErrInvalidParams, Detail: "未上传文件 (字段 resume 或 file)",
		}
	}

	form := types.UploadParams{
		Industry:       strings.TrimSpace(string(ctx.FormValue("industry"))),
		JobDescription: string(ctx.FormValue("job_description")),
		Mode:           strings.ToLower(strings.TrimSpace(string(ctx.FormValue("mode")))),
	}
	if err := h.validate.Struct(&form); err != nil {
		return processor.Document{}, processor.Params{}, validationError(err)
	}

	limit := h.service.MaxUploadBytes()
	if fileHeader.Size > limit {
		return processor.Document{}, processor.Params{}, &processor.AnalysisError{
			Op: "upload", BaseErr: processor.ErrFileTooLarge, Detail: fmt.Sprintf("%d 字节", fileHeader.Size),
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return processor.Document{}, processor.Params{}, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return processor.Document{}, processor.Params{}, fmt.Errorf("读取上传文件失败: %w", err)
	}

	doc := processor.Document{
		Name:        fileHeader.Filename,
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	params := processor.Params{
		Mode:           modeOf(form.Mode),
		Industry:       form.Industry,
		JobDescription: form.JobDescription,
	}
	return doc, params, nil
}

// modeOf 空字符串交给服务使用默认模式
func modeOf(s string) analysis.Mode {
	if s == "" {
		return ""
	}
	return analysis.ParseMode(s)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s(%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return &processor.AnalysisError{Op: "validate", BaseErr: processor.ErrInvalidParams, Detail: strings.Join(fields, ", ")}
	}
	return &processor.AnalysisError{Op: "validate", BaseErr: processor.ErrInvalidParams, Detail: err.Error()}
}

// StatusFor 把服务层错误映射为 HTTP 状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, processor.ErrInvalidParams), errors.Is(err, processor.ErrUnsupportedFormat):
		return consts.StatusBadRequest
	case errors.Is(err, processor.ErrFileTooLarge):
		return consts.StatusRequestEntityTooLarge
	case errors.Is(err, processor.ErrExtractionFailed), errors.Is(err, processor.ErrEmptyText):
		return consts.StatusUnprocessableEntity
	case errors.Is(err, processor.ErrSubmissionNotFound):
		return consts.StatusNotFound
	case errors.Is(err, processor.ErrAsyncDisabled):
		return consts.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return consts.StatusGatewayTimeout
	default:
		return consts.StatusInternalServerError
	}
}

// fail 写错误响应。参数错误附带字段详情，其余只返回对外的错误信息
func (h *ResumeHandler) fail(c context.Context, ctx *app.RequestContext, err error) {
	status := StatusFor(err)
	tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)

	msg := processor.PublicMessage(err)
	var ae *processor.AnalysisError
	if status == consts.StatusBadRequest && errors.As(err, &ae) && ae.Detail != "" {
		msg = msg + ": " + ae.Detail
	}
	if status == consts.StatusGatewayTimeout {
		msg = "分析超时"
	}

	event := logger.Ctx(c).Warn()
	if status >= consts.StatusInternalServerError {
		event = logger.Ctx(c).Error()
	}
	event.Err(err).Int("status", status).Str("path", string(ctx.Path())).Msg("请求处理失败")

	ctx.JSON(status, types.ErrorResponse{Error: msg})
}
