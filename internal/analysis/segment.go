package analysis

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	headerLineMaxLen  = 50 // 关键词整词命中时，标题行长度上限
	headingLineMaxLen = 30 // 首尾大写的疑似标题行长度上限

	githubPlaceholder = "GitHub project entries found in header"
)

// 未检测到成就分区时，在全文中查找的指示词
var achievementIndicators = []string{"ranked", "award", "star", "achievement", "volunteer", "recognition", "honor"}

// SectionEntry 单个分区的内容
type SectionEntry struct {
	Name        Section `json:"name"`
	Text        string  `json:"text"`
	Synthesized bool    `json:"synthesized,omitempty"` // 由后置启发式生成，而非标题触发
}

// SectionMap 有序的分区映射。未被标题触发的分区不存在；header 总是存在。
type SectionMap struct {
	order       []Section
	text        map[Section]string
	synthesized map[Section]bool
	headings    []string
}

func newSectionMap() *SectionMap {
	m := &SectionMap{
		text:        make(map[Section]string),
		synthesized: make(map[Section]bool),
	}
	m.touch(SectionHeader)
	return m
}

func (m *SectionMap) touch(s Section) {
	if _, ok := m.text[s]; ok {
		return
	}
	m.order = append(m.order, s)
	m.text[s] = ""
}

// 同一分区被多次触发时，内容追加而不是覆盖
func (m *SectionMap) appendText(s Section, content string) {
	m.touch(s)
	if content == "" {
		return
	}
	if m.text[s] == "" {
		m.text[s] = content
		return
	}
	m.text[s] += " " + content
}

func (m *SectionMap) synthesize(s Section, content string) {
	m.touch(s)
	m.text[s] = content
	m.synthesized[s] = true
}

// Get 返回分区文本及其是否存在
func (m *SectionMap) Get(s Section) (string, bool) {
	t, ok := m.text[s]
	return t, ok
}

// Has 分区是否存在
func (m *SectionMap) Has(s Section) bool {
	_, ok := m.text[s]
	return ok
}

// IsSynthesized 分区是否由后置启发式生成
func (m *SectionMap) IsSynthesized(s Section) bool { return m.synthesized[s] }

// Names 按首次出现顺序返回分区名
func (m *SectionMap) Names() []Section {
	out := make([]Section, len(m.order))
	copy(out, m.order)
	return out
}

// Headings 返回被识别为标题而消费掉的原始行
func (m *SectionMap) Headings() []string {
	out := make([]string, len(m.headings))
	copy(out, m.headings)
	return out
}

// Entries 按顺序导出全部分区
func (m *SectionMap) Entries() []SectionEntry {
	out := make([]SectionEntry, 0, len(m.order))
	for _, s := range m.order {
		out = append(out, SectionEntry{Name: s, Text: m.text[s], Synthesized: m.synthesized[s]})
	}
	return out
}

// anyContains 任一分区文本（小写）包含给定词
func (m *SectionMap) anyContains(words ...string) bool {
	for _, s := range m.order {
		lower := strings.ToLower(m.text[s])
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

// headerRule 标题判定规则，按顺序求值，首个命中者生效
type headerRule struct {
	section Section
	match   func(line, lower string) bool
}

var (
	headerRules []headerRule

	workExperiencePattern = regexp.MustCompile(`\bwork\s+experience\b`)
)

func init() {
	for _, cat := range sectionTaxonomy {
		headerRules = append(headerRules, headerRule{section: cat.section, match: keywordHeaderMatcher(cat.keywords)})
		if extra := extraHeaderMatcher(cat.section); extra != nil {
			headerRules = append(headerRules, headerRule{section: cat.section, match: extra})
		}
	}
}

func keywordHeaderMatcher(keywords []string) func(line, lower string) bool {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return func(line, lower string) bool {
		short := utf8.RuneCountInString(line) < headerLineMaxLen
		for i, kw := range keywords {
			if short && patterns[i].MatchString(lower) {
				return true
			}
			if lower == kw || strings.HasPrefix(lower, kw+" ") || strings.HasSuffix(lower, " "+kw) {
				return true
			}
		}
		return false
	}
}

// 部分分区的附加标题写法
func extraHeaderMatcher(s Section) func(line, lower string) bool {
	switch s {
	case SectionExperience:
		return func(_, lower string) bool { return workExperiencePattern.MatchString(lower) }
	case SectionProjects:
		return func(_, lower string) bool { return lower == "projects" || strings.HasPrefix(lower, "project") }
	case SectionAchievements:
		return func(_, lower string) bool { return lower == "achievements" || strings.HasPrefix(lower, "achievement") }
	}
	return nil
}

func matchHeaderRule(line, lower string) (Section, bool) {
	for _, r := range headerRules {
		if r.match(line, lower) {
			return r.section, true
		}
	}
	return "", false
}

// 疑似标题行：全大写，或首尾字符大写的短行
func looksLikeHeading(line string) bool {
	if isAllUpper(line) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(line)
	last, _ := utf8.DecodeLastRuneInString(line)
	return unicode.IsUpper(first) && unicode.IsUpper(last) && utf8.RuneCountInString(line) < headingLineMaxLen
}

func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// 疑似标题行只做简单的子串匹配
func matchHeadingSubstring(lower string) (Section, bool) {
	for _, cat := range sectionTaxonomy {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.section, true
			}
		}
	}
	return "", false
}

// Segment 逐行扫描原始文本，按关键词标题把内容归入分区。
// 每个非空行要么作为标题被消费，要么归入当时的活动分区。
func Segment(raw string) *SectionMap {
	m := newSectionMap()
	lines := strings.Split(raw, "\n")
	current := SectionHeader
	var content []string

	switchTo := func(next Section, heading string) {
		m.appendText(current, strings.Join(content, " "))
		content = nil
		current = next
		m.touch(next)
		m.headings = append(m.headings, heading)
	}

	for i, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if next, ok := matchHeaderRule(line, lower); ok {
			switchTo(next, line)
			continue
		}
		if i > 0 && i < len(lines)-1 && looksLikeHeading(line) {
			if next, ok := matchHeadingSubstring(lower); ok {
				switchTo(next, line)
				continue
			}
		}
		content = append(content, line)
	}
	m.appendText(current, strings.Join(content, " "))

	synthesizeSections(m, raw)
	return m
}

// 后置启发式：先补齐派生分区，推荐生成只读取最终结果
func synthesizeSections(m *SectionMap, raw string) {
	if header, _ := m.Get(SectionHeader); strings.Contains(strings.ToLower(header), "github") && !m.Has(SectionProjects) {
		m.synthesize(SectionProjects, githubPlaceholder)
	}

	if m.Has(SectionAchievements) {
		return
	}
	full := strings.ToLower(raw)
	for _, kw := range achievementIndicators {
		if !strings.Contains(full, kw) {
			continue
		}
		hits := achievementSentencePattern(kw).FindAllString(full, -1)
		if len(hits) == 0 {
			continue
		}
		sentences := make([]string, 0, len(hits))
		for _, h := range hits {
			sentences = append(sentences, strings.Join(strings.Fields(h), " "))
		}
		m.synthesize(SectionAchievements, strings.Join(sentences, " "))
		return
	}
}

var achievementPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(achievementIndicators))
	for _, kw := range achievementIndicators {
		out[kw] = regexp.MustCompile(`[^.]*\b` + regexp.QuoteMeta(kw) + `\b[^.]*\.`)
	}
	return out
}()

func achievementSentencePattern(kw string) *regexp.Regexp { return achievementPatterns[kw] }
