// Package analysis 是确定性的、基于规则的简历评分引擎：
// 分区识别、词汇特征提取、七因子加权评分与建议生成。
// 词表在初始化后只读，Analyzer 不持有可变状态，可被并发调用。
package analysis

import (
	"errors"
	"strings"
)

// ErrEmptyText 文本为空或无法解析出任何词
var ErrEmptyText = errors.New("简历文本为空或无法解析")

// Mode 分析模式
type Mode string

const (
	ModeBasic Mode = "basic"
	ModeATS   Mode = "ats"
)

// ParseMode 空串与未知值都按 ATS 模式处理
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeBasic {
		return ModeBasic
	}
	return ModeATS
}

// ATSRequest ATS 评分的可选输入
type ATSRequest struct {
	FormatHint     string // 源文件扩展名或 MIME 类型
	JobDescription string
	TargetIndustry string
}

// Result 一次分析的最终结果，返回后不再修改
type Result struct {
	Mode             Mode                 `json:"mode"`
	SectionsFound    []Section            `json:"sections_found"`
	Sections         []SectionEntry       `json:"sections"`
	Metrics          Metrics              `json:"metrics"`
	IndustryKeywords IndustryMatches      `json:"industry_keywords"`
	Recommendations  []Recommendation     `json:"recommendations"`
	FormattingIssues []string             `json:"formatting_issues,omitempty"`
	Contact          *ContactCheck        `json:"contact,omitempty"`
	Education        *EducationCheck      `json:"education,omitempty"`
	FactorScores     *FactorScores        `json:"factor_scores,omitempty"`
	Score            *int                 `json:"ats_score,omitempty"`
	JobMatch         *JobDescriptionMatch `json:"job_description_match,omitempty"`
}

// Option Analyzer 的配置项
type Option func(*Analyzer)

// WithIndustryKeywords 替换行业识别关键词表
func WithIndustryKeywords(table KeywordTable) Option {
	return func(a *Analyzer) {
		if len(table) > 0 {
			a.industryKeywords = table.clone()
		}
	}
}

// WithATSKeywords 替换 ATS 标准关键词表
func WithATSKeywords(table KeywordTable) Option {
	return func(a *Analyzer) {
		if len(table) > 0 {
			a.atsKeywords = table.clone()
		}
	}
}

// Analyzer 简历分析器
type Analyzer struct {
	industryKeywords KeywordTable
	atsKeywords      KeywordTable
}

// New 创建分析器，默认使用内置词表
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		industryKeywords: defaultIndustryKeywords,
		atsKeywords:      defaultATSKeywords,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ParseIndustry 解析行业名，支持 "Software Development"、"software-development" 等写法
func ParseIndustry(s string) (Industry, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for _, ind := range industryOrder {
		if string(ind) == key {
			return ind, true
		}
	}
	return Industry(key), false
}

// baseFacts 两种模式共享的中间事实
type baseFacts struct {
	resume   *tokenText
	sections *SectionMap
	metrics  Metrics
	detected IndustryMatches
	target   Industry
}

func (a *Analyzer) collect(raw, targetIndustry string) (*baseFacts, error) {
	resume := newSourceText(raw)
	if len(resume.tokens) == 0 {
		return nil, ErrEmptyText
	}
	sections := Segment(raw)
	// 未知行业不报错，后续按自动识别降级
	target, _ := ParseIndustry(targetIndustry)
	return &baseFacts{
		resume:   resume,
		sections: sections,
		metrics:  buildMetrics(resume, sections),
		detected: matchIndustryKeywords(resume, a.industryKeywords),
		target:   target,
	}, nil
}

func (b *baseFacts) result(mode Mode) *Result {
	return &Result{
		Mode:             mode,
		SectionsFound:    b.sections.Names(),
		Sections:         b.sections.Entries(),
		Metrics:          b.metrics,
		IndustryKeywords: b.detected,
	}
}

// Analyze 基础分析：分区、指标、行业关键词与建议
func (a *Analyzer) Analyze(raw, targetIndustry string) (*Result, error) {
	b, err := a.collect(raw, targetIndustry)
	if err != nil {
		return nil, err
	}
	res := b.result(ModeBasic)
	res.Recommendations = a.baseRecommendations(recommendationFacts{
		resume:   b.resume,
		sections: b.sections,
		metrics:  b.metrics,
		target:   b.target,
	})
	return res, nil
}

// ScoreForATS 在基础分析之上计算七因子得分、综合分与 ATS 建议
func (a *Analyzer) ScoreForATS(raw string, req ATSRequest) (*Result, error) {
	b, err := a.collect(raw, req.TargetIndustry)
	if err != nil {
		return nil, err
	}
	educationText, _ := b.sections.Get(SectionEducation)
	formatting := DetectFormattingIssues(raw)
	contact := CheckContactInfo(raw)
	education := CheckEducation(educationText)

	scores, composite := a.score(scoreInput{
		resume:         b.resume,
		metrics:        b.metrics,
		formatting:     formatting,
		contact:        contact,
		education:      education,
		formatHint:     req.FormatHint,
		jobDescription: req.JobDescription,
		target:         b.target,
		detected:       b.detected,
	})

	res := b.result(ModeATS)
	res.FormattingIssues = formatting
	res.Contact = &contact
	res.Education = &education
	res.FactorScores = &scores
	res.Score = &composite
	if strings.TrimSpace(req.JobDescription) != "" {
		res.JobMatch = matchJobDescription(b.resume, req.JobDescription)
	}
	res.Recommendations = a.atsRecommendations(recommendationFacts{
		resume:     b.resume,
		sections:   b.sections,
		metrics:    b.metrics,
		target:     b.target,
		scores:     scores,
		formatting: formatting,
		contact:    contact,
		education:  education,
	})
	return res, nil
}

// ATSScore 综合分，基础模式返回 0 与 false
func (r *Result) ATSScore() (int, bool) {
	if r.Score == nil {
		return 0, false
	}
	return *r.Score, true
}
