package types

import (
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/storage"
)

// TextAnalyzeRequest 提交已提取文本的请求体
type TextAnalyzeRequest struct {
	Text           string `json:"text" validate:"required,max=200000"`
	Industry       string `json:"industry" validate:"omitempty,max=64"`
	JobDescription string `json:"job_description" validate:"omitempty,max=20000"`
	FormatHint     string `json:"format_hint" validate:"omitempty,max=128"`
	Mode           string `json:"mode" validate:"omitempty,oneof=ats basic"`
}

// UploadParams 上传接口的表单参数（文件之外的字段）
type UploadParams struct {
	Industry       string `form:"industry" validate:"omitempty,max=64"`
	JobDescription string `form:"job_description" validate:"omitempty,max=20000"`
	Mode           string `form:"mode" validate:"omitempty,oneof=ats basic"`
}

// MetricsView 前端使用的扁平指标
type MetricsView struct {
	WordCount        int      `json:"wordCount"`
	ActionVerbCount  int      `json:"actionVerbCount"`
	WeakPhraseCount  int      `json:"weakPhraseCount"`
	SectionsFound    []string `json:"sectionsFound"`
	FormattingIssues []string `json:"formattingIssues"`
	ActionVerbs      []string `json:"actionVerbs,omitempty"`
	WeakPhrases      []string `json:"weakPhrases,omitempty"`
}

// KeywordAnalysis 各行业命中的关键词
type KeywordAnalysis struct {
	IndustryKeywords map[string][]string `json:"industryKeywords"`
}

// AnalyzeResponse 分析接口的响应。基础模式不包含 ats_score 与 factorScores
type AnalyzeResponse struct {
	Success             bool                          `json:"success"`
	Mode                string                        `json:"mode"`
	ATSScore            *int                          `json:"ats_score,omitempty"`
	Recommendations     []analysis.Recommendation     `json:"recommendations"`
	Metrics             MetricsView                   `json:"metrics"`
	KeywordAnalysis     KeywordAnalysis               `json:"keywordAnalysis"`
	FactorScores        map[string]float64            `json:"factorScores,omitempty"`
	Contact             *analysis.ContactCheck        `json:"contact,omitempty"`
	Education           *analysis.EducationCheck      `json:"education,omitempty"`
	JobDescriptionMatch *analysis.JobDescriptionMatch `json:"job_description_match,omitempty"`
}

// NewAnalyzeResponse 把分析结果转换为接口响应
func NewAnalyzeResponse(res *analysis.Result) *AnalyzeResponse {
	sections := make([]string, 0, len(res.SectionsFound))
	for _, s := range res.SectionsFound {
		sections = append(sections, string(s))
	}
	formatting := res.FormattingIssues
	if formatting == nil {
		formatting = []string{}
	}
	recs := res.Recommendations
	if recs == nil {
		recs = []analysis.Recommendation{}
	}

	out := &AnalyzeResponse{
		Success:         true,
		Mode:            string(res.Mode),
		ATSScore:        res.Score,
		Recommendations: recs,
		Metrics: MetricsView{
			WordCount:        res.Metrics.WordCount,
			ActionVerbCount:  res.Metrics.ActionVerbs.Count,
			WeakPhraseCount:  res.Metrics.WeakPhrases.Count,
			SectionsFound:    sections,
			FormattingIssues: formatting,
			ActionVerbs:      res.Metrics.ActionVerbs.Verbs,
			WeakPhrases:      res.Metrics.WeakPhrases.Phrases,
		},
		KeywordAnalysis:     KeywordAnalysis{IndustryKeywords: res.IndustryKeywords.Map()},
		Contact:             res.Contact,
		Education:           res.Education,
		JobDescriptionMatch: res.JobMatch,
	}
	if res.FactorScores != nil {
		out.FactorScores = res.FactorScores.Map()
	}
	return out
}

// SubmitResponse 异步提交的响应
type SubmitResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// ReportResponse 异步报告查询的响应
type ReportResponse struct {
	Success      bool             `json:"success"`
	SubmissionID string           `json:"submission_id"`
	Status       string           `json:"status"`
	Error        string           `json:"error,omitempty"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Report       *AnalyzeResponse `json:"report,omitempty"`
}

// NewReportResponse 把提交记录转换为接口响应
func NewReportResponse(rec *storage.SubmissionRecord) *ReportResponse {
	out := &ReportResponse{
		Success:      rec.Status != storage.StatusFailed,
		SubmissionID: rec.SubmissionID,
		Status:       string(rec.Status),
		Error:        rec.Error,
		SubmittedAt:  rec.SubmittedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.Result != nil {
		out.Report = NewAnalyzeResponse(rec.Result)
	}
	return out
}

// ErrorResponse 错误响应，只包含错误信息，不附带部分结果
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version,omitempty"`
	Async   bool     `json:"async"`
	Formats []string `json:"formats,omitempty"`
}
