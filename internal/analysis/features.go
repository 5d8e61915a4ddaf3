package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var actionVerbSet = func() map[string]struct{} {
	out := make(map[string]struct{}, len(actionVerbs))
	for _, v := range actionVerbs {
		out[v] = struct{}{}
	}
	return out
}()

// verbBase 将词还原为动词原形，仅在命中强动词表时返回。
// 处理过去式与第三人称单数，现在分词不做还原。
func verbBase(tok string) (string, bool) {
	if _, ok := actionVerbSet[tok]; ok {
		return tok, true
	}
	if base, ok := irregularVerbForms[tok]; ok {
		_, known := actionVerbSet[base]
		return base, known
	}
	for _, cand := range inflectionCandidates(tok) {
		if _, ok := actionVerbSet[cand]; ok {
			return cand, true
		}
	}
	return "", false
}

func inflectionCandidates(tok string) []string {
	var out []string
	switch {
	case strings.HasSuffix(tok, "ied") && len(tok) > 4:
		out = append(out, tok[:len(tok)-3]+"y")
	case strings.HasSuffix(tok, "ed") && len(tok) > 3:
		stem := tok[:len(tok)-2]
		out = append(out, stem, tok[:len(tok)-1])
		// planned -> plan
		if n := len(stem); n >= 2 && stem[n-1] == stem[n-2] {
			out = append(out, stem[:n-1])
		}
	case strings.HasSuffix(tok, "ies") && len(tok) > 4:
		out = append(out, tok[:len(tok)-3]+"y")
	case strings.HasSuffix(tok, "es") && len(tok) > 3:
		out = append(out, tok[:len(tok)-1], tok[:len(tok)-2])
	case strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") && len(tok) > 2:
		out = append(out, tok[:len(tok)-1])
	}
	return out
}

func isAlpha(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// DetectActionVerbs 返回文本中出现过的强动词（原形、去重、排序）
func DetectActionVerbs(normalized string) []string {
	return detectActionVerbs(Tokens(normalized))
}

func detectActionVerbs(tokens []string) []string {
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if !isAlpha(tok) {
			continue
		}
		if base, ok := verbBase(tok); ok {
			seen[base] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// DetectWeakPhrases 子串匹配弱表达，每个短语最多计一次
func DetectWeakPhrases(normalized string) []string {
	found := make([]string, 0)
	for _, p := range weakPhrases {
		if strings.Contains(normalized, p) {
			found = append(found, p)
		}
	}
	return found
}

// IndustryMatch 单个行业命中的关键词
type IndustryMatch struct {
	Industry Industry `json:"industry"`
	Keywords []string `json:"keywords"`
}

// IndustryMatches 按行业固定顺序排列，无命中的行业不出现
type IndustryMatches []IndustryMatch

// Get 返回某行业的命中关键词
func (im IndustryMatches) Get(ind Industry) []string {
	for _, m := range im {
		if m.Industry == ind {
			return m.Keywords
		}
	}
	return nil
}

// Map 转换为 行业 -> 关键词 的映射，供外部响应使用
func (im IndustryMatches) Map() map[string][]string {
	out := make(map[string][]string, len(im))
	for _, m := range im {
		out[string(m.Industry)] = m.Keywords
	}
	return out
}

// Best 命中最多的行业，并列时取顺序靠前者
func (im IndustryMatches) Best() (Industry, bool) {
	var best Industry
	bestCount := 0
	for _, m := range im {
		if len(m.Keywords) > bestCount {
			best, bestCount = m.Industry, len(m.Keywords)
		}
	}
	return best, bestCount > 0
}

// MatchIndustryKeywords 按整词序列匹配各行业关键词，text 为原文或规范化文本。
// industries 为空时检查全部行业，未知行业被忽略。
func MatchIndustryKeywords(text string, table KeywordTable, industries ...Industry) IndustryMatches {
	return matchIndustryKeywords(newSourceText(text), table, industries...)
}

func matchIndustryKeywords(tt *tokenText, table KeywordTable, industries ...Industry) IndustryMatches {
	if len(industries) == 0 {
		industries = industryOrder
	}
	out := make(IndustryMatches, 0, len(industries))
	for _, ind := range industries {
		keywords, ok := table[ind]
		if !ok {
			continue
		}
		var found []string
		for _, kw := range keywords {
			if tt.containsPhrase(kw) {
				found = append(found, kw)
			}
		}
		if len(found) > 0 {
			out = append(out, IndustryMatch{Industry: ind, Keywords: found})
		}
	}
	return out
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}\s?)?(\()?\d{3}(\))?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// 缺失联系方式的展示名
const (
	ContactEmail    = "email"
	ContactPhone    = "phone number"
	ContactLinkedIn = "LinkedIn profile"
)

// ContactCheck 联系方式完整性
type ContactCheck struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
}

// CheckContactInfo 检查邮箱、电话和 LinkedIn
func CheckContactInfo(raw string) ContactCheck {
	missing := make([]string, 0, 3)
	if !emailPattern.MatchString(raw) {
		missing = append(missing, ContactEmail)
	}
	if !phonePattern.MatchString(raw) {
		missing = append(missing, ContactPhone)
	}
	if !strings.Contains(strings.ToLower(raw), "linkedin") {
		missing = append(missing, ContactLinkedIn)
	}
	return ContactCheck{Complete: len(missing) == 0, Missing: missing}
}

// 教育分区问题
const (
	EducationMissing       = "education section missing"
	EducationNoDegree      = "degree not clearly stated"
	EducationNoYear        = "graduation year not mentioned"
	EducationNoInstitution = "institution not clearly stated"
)

var (
	degreePattern      = regexp.MustCompile(`\b(bachelor|master|phd|doctor|mba|bs|ba|ms|ma|btech|mtech)\b`)
	graduationPattern  = regexp.MustCompile(`\b20\d{2}\b`)
	institutionPattern = regexp.MustCompile(`\b(university|college|institute|school)\b`)
)

// EducationCheck 教育分区格式检查结果
type EducationCheck struct {
	ProperlyFormatted bool     `json:"properly_formatted"`
	Issues            []string `json:"issues"`
}

// CheckEducation 检查学位、毕业年份与院校。文本为空视为分区缺失。
func CheckEducation(text string) EducationCheck {
	if strings.TrimSpace(text) == "" {
		return EducationCheck{Issues: []string{EducationMissing}}
	}
	lower := strings.ToLower(text)
	issues := make([]string, 0, 3)
	if !degreePattern.MatchString(lower) {
		issues = append(issues, EducationNoDegree)
	}
	if !graduationPattern.MatchString(text) {
		issues = append(issues, EducationNoYear)
	}
	if !institutionPattern.MatchString(lower) {
		issues = append(issues, EducationNoInstitution)
	}
	return EducationCheck{ProperlyFormatted: len(issues) == 0, Issues: issues}
}

var (
	columnGapPattern = regexp.MustCompile(`\t|\s{4,}`)
	textBoxPattern   = regexp.MustCompile(`\n\s*\S{1,20}\s*\n`)
)

const (
	columnLineMinLen = 50
	columnGapMin     = 2
	textBoxMin       = 3
	asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var specialCharacters = func() string {
	var b strings.Builder
	for _, r := range asciiPunctuation {
		if !strings.ContainsRune(allowedPunctuation, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}()

// DetectFormattingIssues 扫描对 ATS 不友好的排版信号，结果去重且顺序固定
func DetectFormattingIssues(raw string) []string {
	triggered := make(map[string]bool, 4)
	lines := strings.Split(raw, "\n")

	for i := 1; i < len(lines)-1; i++ {
		if tableRow(lines[i-1]) && tableRow(lines[i]) && tableRow(lines[i+1]) {
			triggered[IssueTables] = true
			break
		}
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > columnLineMinLen && len(columnGapPattern.FindAllStringIndex(line, -1)) > columnGapMin {
			triggered[IssueColumns] = true
			break
		}
	}
	if strings.ContainsAny(raw, specialCharacters) {
		triggered[IssueSpecialCharacters] = true
	}
	if len(textBoxPattern.FindAllStringIndex(raw, -1)) > textBoxMin {
		triggered[IssueTextBoxes] = true
	}

	issues := make([]string, 0, len(triggered))
	for _, name := range atsUnfriendlyElements {
		if triggered[name] {
			issues = append(issues, name)
		}
	}
	return issues
}

func tableRow(line string) bool {
	return line != "" && strings.Contains(line, "|")
}

// ExtractKeywords 提取关键词集合：去停用词与长度不超过 2 的词，结果排序
func ExtractKeywords(text string) []string {
	seen := make(map[string]struct{})
	for _, tok := range Tokens(Normalize(text)) {
		if _, stop := keywordStopwords[tok]; stop || utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		seen[tok] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
