package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrExtractionFailed   = errors.New("提取简历文本失败")
	ErrEmptyText          = errors.New("简历文本为空或无法解析")
	ErrUnsupportedFormat  = errors.New("不支持的文件格式")
	ErrFileTooLarge       = errors.New("文件超过大小限制")
	ErrSubmissionNotFound = errors.New("分析报告不存在或已过期")
	ErrAsyncDisabled      = errors.New("异步分析未启用")
	ErrInvalidParams      = errors.New("请求参数无效")
)

// AnalysisError 包含详细错误信息的自定义错误
type AnalysisError struct {
	SubmissionID string
	Op           string
	BaseErr      error
	Detail       string
}

func (e *AnalysisError) Error() string {
	id := ""
	if e.SubmissionID != "" {
		id = ", ID:" + e.SubmissionID
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s%s): %s", e.BaseErr, e.Op, id, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s%s)", e.BaseErr, e.Op, id)
}

func (e *AnalysisError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func newError(op string, base error, detail string) error {
	return &AnalysisError{Op: op, BaseErr: base, Detail: detail}
}

// NewExtractionError 文本提取失败
func NewExtractionError(submissionID, detail string) error {
	return &AnalysisError{
		SubmissionID: submissionID,
		Op:           "extract",
		BaseErr:      ErrExtractionFailed,
		Detail:       detail,
	}
}

// PublicMessage 返回可以展示给调用方的错误信息，不包含内部细节
func PublicMessage(err error) string {
	for _, known := range []error{
		ErrFileTooLarge,
		ErrUnsupportedFormat,
		ErrEmptyText,
		ErrExtractionFailed,
		ErrSubmissionNotFound,
		ErrAsyncDisabled,
		ErrInvalidParams,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "服务器内部错误"
}
