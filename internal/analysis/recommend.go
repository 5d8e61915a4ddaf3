package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Priority 推荐优先级，数值即排序名次
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority 解析 High/Medium/Low（不区分大小写）
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("未知的优先级: %q", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Recommendation 一条改进建议
type Recommendation struct {
	Category string   `json:"category"`
	Text     string   `json:"recommendation"`
	Priority Priority `json:"priority"`
}

// 推荐类别
const (
	CategoryOverall            = "Overall"
	CategoryKeywords           = "Keywords"
	CategoryFormatting         = "Formatting"
	CategoryContent            = "Content"
	CategoryLanguage           = "Language"
	CategoryFileFormat         = "File Format"
	CategoryContactInformation = "Contact Information"
	CategoryEducation          = "Education"
	CategoryStructure          = "Structure"
	CategoryIndustryAlignment  = "Industry Alignment"
	CategoryATSOptimization    = "ATS Optimization"
)

const (
	keywordRecThreshold    = 0.6
	wordCountRecThreshold  = 0.7
	actionVerbRecThreshold = 0.5
	minBaseActionVerbs     = 5
	minSectionWords        = 30
	maxKeywordExamples     = 5
	maxWeakPhraseExamples  = 3

	closingTip = "Use a simple, clean layout with standard section headings like 'Experience', 'Education', and 'Skills'."
)

var (
	yearPattern   = regexp.MustCompile(`\d{4}`)
	highFormatIDs = map[string]bool{IssueTables: true, IssueColumns: true, IssueTextBoxes: true}

	// ATS 期望的标准分区
	standardSections = []Section{SectionEducation, SectionExperience, SectionSkills}
	// 这两个分区不提示扩充
	expandExempt = map[Section]bool{SectionContact: true, SectionLanguages: true}
)

// SectionTitle 分区名的展示形式，例如 "experience" -> "Experience"
func SectionTitle(s Section) string {
	// Caser 有内部状态，不能跨 goroutine 共享
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// SortByPriority 仅按优先级稳定排序，同级保持生成顺序
func SortByPriority(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
}

// recommendationFacts 推荐生成开始前已经确定的全部事实
type recommendationFacts struct {
	resume     *tokenText
	sections   *SectionMap
	metrics    Metrics
	target     Industry
	scores     FactorScores
	formatting []string
	contact    ContactCheck
	education  EducationCheck
}

type recommendationList []Recommendation

func (l *recommendationList) add(category, text string, p Priority) {
	*l = append(*l, Recommendation{Category: category, Text: text, Priority: p})
}

func (l recommendationList) sorted() []Recommendation {
	out := make([]Recommendation, len(l))
	copy(out, l)
	SortByPriority(out)
	return out
}

// 缺失分区但已有旁证时不提示补充
func sectionEvidenceFound(f recommendationFacts, s Section) bool {
	switch s {
	case SectionProjects:
		return f.sections.anyContains("github")
	case SectionAchievements:
		return f.sections.anyContains("ranked", "award", "recognition")
	}
	return false
}

func missingKeywords(resume *tokenText, list []string, limit int) []string {
	var out []string
	for _, kw := range list {
		if !resume.containsPhrase(kw) {
			out = append(out, kw)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func weakPhraseExamples(m Metrics) string {
	phrases := m.WeakPhrases.Phrases
	if len(phrases) > maxWeakPhraseExamples {
		phrases = phrases[:maxWeakPhraseExamples]
	}
	return strings.Join(phrases, ", ")
}

// baseRecommendations 基础分析模式的建议
func (a *Analyzer) baseRecommendations(f recommendationFacts) []Recommendation {
	var recs recommendationList

	switch wc := f.metrics.WordCount; {
	case wc < idealWordCountMin:
		recs.add(CategoryOverall, "Your resume is quite short. Consider adding more details about your achievements and experience.", PriorityMedium)
	case wc > idealWordCountMax:
		recs.add(CategoryOverall, "Your resume is relatively long. Consider condensing it to highlight your most relevant accomplishments.", PriorityMedium)
	}

	for _, sm := range f.metrics.Sections {
		category := string(sm.Name)
		switch {
		case !sm.Present:
			if !sectionEvidenceFound(f, sm.Name) {
				recs.add(category, fmt.Sprintf("Add a %s section to your resume.", SectionTitle(sm.Name)), PriorityHigh)
			}
		case sm.WordCount < minSectionWords && !expandExempt[sm.Name] && !f.sections.IsSynthesized(sm.Name):
			recs.add(category, fmt.Sprintf("Expand your %s section with more details.", SectionTitle(sm.Name)), PriorityMedium)
		}

		if sm.Name == SectionExperience && sm.Present {
			text, _ := f.sections.Get(SectionExperience)
			if !yearPattern.MatchString(text) {
				recs.add(category, "Add dates to your work experience entries.", PriorityMedium)
			}
			if len(DetectActionVerbs(Normalize(text))) == 0 {
				recs.add(category, "Use strong action verbs to describe your responsibilities and achievements.", PriorityMedium)
			}
		}
	}

	if f.metrics.ActionVerbs.Count < minBaseActionVerbs {
		recs.add(CategoryLanguage, "Use more action verbs to make your achievements stand out. Examples include: achieved, implemented, developed, etc.", PriorityMedium)
	}
	if f.metrics.WeakPhrases.Count > 0 {
		recs.add(CategoryLanguage, fmt.Sprintf("Replace weak phrases like '%s' with strong action verbs.", weakPhraseExamples(f.metrics)), PriorityMedium)
	}

	if list := a.industryKeywords[f.target]; len(list) > 0 {
		if missing := missingKeywords(f.resume, list, maxKeywordExamples); len(missing) > 0 {
			recs.add(CategoryIndustryAlignment, "Consider adding industry-relevant keywords such as: "+strings.Join(missing, ", "), PriorityLow)
		}
	}

	return recs.sorted()
}

// atsRecommendations ATS 模式的建议，类别顺序固定，最后附加通用提示
func (a *Analyzer) atsRecommendations(f recommendationFacts) []Recommendation {
	var recs recommendationList

	if f.scores.KeywordMatch < keywordRecThreshold {
		if list := a.atsKeywords[f.target]; len(list) > 0 {
			if missing := missingKeywords(f.resume, list, maxKeywordExamples); len(missing) > 0 {
				recs.add(CategoryKeywords, "Add more industry-specific keywords such as: "+strings.Join(missing, ", "), PriorityHigh)
			}
		} else {
			recs.add(CategoryKeywords, "Add more relevant keywords from the job description to increase your match rate.", PriorityHigh)
		}
	}

	for _, issue := range f.formatting {
		p := PriorityMedium
		if highFormatIDs[issue] {
			p = PriorityHigh
		}
		recs.add(CategoryFormatting, fmt.Sprintf("Remove %s from your resume as they can confuse ATS systems.", issue), p)
	}

	if f.scores.WordCount < wordCountRecThreshold {
		switch wc := f.metrics.WordCount; {
		case wc < idealWordCountMin:
			recs.add(CategoryContent, "Your resume is too short. Add more relevant details about your experience and achievements.", PriorityMedium)
		case wc > idealWordCountMax:
			recs.add(CategoryContent, "Your resume is too long. Trim it down to 1-2 pages focusing on the most relevant information.", PriorityMedium)
		}
	}

	if f.scores.ActionVerbs < actionVerbRecThreshold {
		recs.add(CategoryLanguage, "Use more strong action verbs like 'achieved', 'implemented', 'developed' to describe your accomplishments.", PriorityMedium)
	}
	if f.metrics.WeakPhrases.Count > 0 {
		recs.add(CategoryLanguage, fmt.Sprintf("Replace weak phrases like '%s' with strong action verbs.", weakPhraseExamples(f.metrics)), PriorityMedium)
	}

	if f.scores.FileFormat < 1 {
		recs.add(CategoryFileFormat, "Save your resume as a PDF to ensure consistent formatting when parsed by ATS.", PriorityHigh)
	}

	if !f.contact.Complete {
		recs.add(CategoryContactInformation, fmt.Sprintf("Add missing contact information: %s.", strings.Join(f.contact.Missing, ", ")), PriorityHigh)
	}

	if !f.education.ProperlyFormatted {
		for _, issue := range f.education.Issues {
			recs.add(CategoryEducation, fmt.Sprintf("Fix education section: %s.", issue), PriorityMedium)
		}
	}

	for _, s := range standardSections {
		if f.sections.Has(s) {
			continue
		}
		recs.add(CategoryStructure, fmt.Sprintf("Add a %s section - this is a standard section expected by ATS.", SectionTitle(s)), PriorityHigh)
	}

	recs.add(CategoryATSOptimization, closingTip, PriorityMedium)
	return recs.sorted()
}
