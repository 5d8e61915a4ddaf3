package storage

import (
	"time"

	"resume-insights/internal/analysis"
)

// SubmissionStatus 异步提交的处理状态
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "pending"
	StatusProcessing SubmissionStatus = "processing"
	StatusCompleted  SubmissionStatus = "completed"
	StatusFailed     SubmissionStatus = "failed"
)

// Terminal 报告已完成或已失败
func (s SubmissionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// AnalysisTaskMessage 异步分析任务消息
type AnalysisTaskMessage struct {
	SubmissionID     string    `json:"submission_id"`
	ObjectKey        string    `json:"object_key"`        // MinIO中的暂存对象
	OriginalFilename string    `json:"original_filename"` // 原始文件名，用于选择解析器
	ContentType      string    `json:"content_type,omitempty"`
	Mode             string    `json:"mode"` // ats 或 basic
	Industry         string    `json:"industry,omitempty"`
	JobDescription   string    `json:"job_description,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// SubmissionRecord 提交记录，保存在 Redis 中并带有过期时间
type SubmissionRecord struct {
	SubmissionID     string           `json:"submission_id"`
	Status           SubmissionStatus `json:"status"`
	OriginalFilename string           `json:"original_filename,omitempty"`
	Error            string           `json:"error,omitempty"`
	SubmittedAt      time.Time        `json:"submitted_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Result           *analysis.Result `json:"result,omitempty"`
}
