package analysis

import (
	"math"
	"strings"
)

// FactorScores 七个因子得分，各自独立计算，取值 [0,1]
type FactorScores struct {
	KeywordMatch    float64 `json:"keyword_match"`
	FormatScore     float64 `json:"format_score"`
	WordCount       float64 `json:"word_count"`
	ActionVerbs     float64 `json:"action_verbs"`
	FileFormat      float64 `json:"file_format"`
	ContactInfo     float64 `json:"contact_info"`
	EducationFormat float64 `json:"education_format"`
}

// Get 按因子名取分
func (fs FactorScores) Get(f Factor) float64 {
	switch f {
	case FactorKeywordMatch:
		return fs.KeywordMatch
	case FactorFormatScore:
		return fs.FormatScore
	case FactorWordCount:
		return fs.WordCount
	case FactorActionVerbs:
		return fs.ActionVerbs
	case FactorFileFormat:
		return fs.FileFormat
	case FactorContactInfo:
		return fs.ContactInfo
	case FactorEducationFormat:
		return fs.EducationFormat
	}
	return 0
}

// Map 导出为 因子名 -> 得分
func (fs FactorScores) Map() map[string]float64 {
	out := make(map[string]float64, len(factorOrder))
	for _, f := range factorOrder {
		out[string(f)] = fs.Get(f)
	}
	return out
}

// Composite 加权求和后乘 100，银行家舍入（.5 取偶）并限制在 [0,100]
func (fs FactorScores) Composite() int {
	sum := 0.0
	for _, f := range factorOrder {
		sum += fs.Get(f) * Weight(f)
	}
	score := int(math.RoundToEven(sum * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatScore 1 - 问题数/问题类型总数
func FormatScore(issues []string) float64 {
	return clamp01(1 - float64(len(issues))/float64(len(atsUnfriendlyElements)))
}

// WordCountScore 理想区间 [300,1000] 得满分，过短线性增长，过长线性衰减
func WordCountScore(words int) float64 {
	switch {
	case words < idealWordCountMin:
		return clamp01(float64(words) / idealWordCountMin)
	case words > idealWordCountMax:
		return clamp01(1 - float64(words-idealWordCountMax)/idealWordCountMax)
	default:
		return 1
	}
}

// ActionVerbScore 去重强动词数 / 10，封顶 1
func ActionVerbScore(distinct int) float64 {
	return clamp01(float64(distinct) / actionVerbCap)
}

// FileFormatScore 可接受格式满分，其余任何输入给 0.5
func FileFormatScore(formatHint string) float64 {
	if NormalizeFormatHint(formatHint) == acceptedFileFormat {
		return 1
	}
	return 0.5
}

// NormalizeFormatHint 将 ".PDF"、"resume.pdf"、"application/pdf" 等统一为扩展名
func NormalizeFormatHint(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if i := strings.LastIndexAny(h, "./"); i >= 0 {
		h = h[i+1:]
	}
	return h
}

// ContactScore 完整为 1，否则 0.7 - 0.1 × 缺失项数
func ContactScore(c ContactCheck) float64 {
	if c.Complete {
		return 1
	}
	return clamp01(0.7 - 0.1*float64(len(c.Missing)))
}

// EducationScore 格式规范为 1，否则 0.7 - 0.2 × 问题数
func EducationScore(e EducationCheck) float64 {
	if e.ProperlyFormatted {
		return 1
	}
	return clamp01(0.7 - 0.2*float64(len(e.Issues)))
}

// keywordMatchScore 优先使用职位描述，其次目标行业，最后取自动识别的最佳行业
func (a *Analyzer) keywordMatchScore(resume *tokenText, jobDescription string, target Industry, detected IndustryMatches) float64 {
	if strings.TrimSpace(jobDescription) != "" {
		return jobDescriptionOverlap(resume, jobDescription)
	}
	if list := a.atsKeywords[target]; len(list) > 0 {
		return fractionPresent(resume, list)
	}
	best, ok := detected.Best()
	if !ok {
		return keywordMatchDefault
	}
	list := a.atsKeywords[best]
	if len(list) == 0 {
		return keywordMatchDefault
	}
	return fractionPresent(resume, list)
}

func jobDescriptionOverlap(resume *tokenText, jobDescription string) float64 {
	jdKeywords := ExtractKeywords(jobDescription)
	if len(jdKeywords) == 0 {
		return 0
	}
	resumeKeywords := keywordSet(resume)
	hits := 0
	for _, kw := range jdKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			hits++
		}
	}
	return clamp01(float64(hits) / float64(len(jdKeywords)))
}

func fractionPresent(resume *tokenText, keywords []string) float64 {
	hits := 0
	for _, kw := range keywords {
		if resume.containsPhrase(kw) {
			hits++
		}
	}
	return clamp01(float64(hits) / float64(len(keywords)))
}

func keywordSet(tt *tokenText) map[string]struct{} {
	out := make(map[string]struct{})
	for _, kw := range ExtractKeywords(tt.normalized) {
		out[kw] = struct{}{}
	}
	return out
}

// scoreInput 评分所需的已完成事实
type scoreInput struct {
	resume         *tokenText
	metrics        Metrics
	formatting     []string
	contact        ContactCheck
	education      EducationCheck
	formatHint     string
	jobDescription string
	target         Industry
	detected       IndustryMatches
}

// score 计算七个因子，任何因子都不读取其他因子的结果
func (a *Analyzer) score(in scoreInput) (FactorScores, int) {
	fs := FactorScores{
		KeywordMatch:    a.keywordMatchScore(in.resume, in.jobDescription, in.target, in.detected),
		FormatScore:     FormatScore(in.formatting),
		WordCount:       WordCountScore(in.metrics.WordCount),
		ActionVerbs:     ActionVerbScore(in.metrics.ActionVerbs.Count),
		FileFormat:      FileFormatScore(in.formatHint),
		ContactInfo:     ContactScore(in.contact),
		EducationFormat: EducationScore(in.education),
	}
	return fs, fs.Composite()
}
