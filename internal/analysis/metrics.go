package analysis

// SectionMetric 分区是否存在及其词数
type SectionMetric struct {
	Name      Section `json:"name"`
	Present   bool    `json:"present"`
	WordCount int     `json:"word_count"`
}

// VerbMetrics 强动词统计，Count 为去重后的数量
type VerbMetrics struct {
	Count int      `json:"count"`
	Verbs []string `json:"verbs"`
}

// PhraseMetrics 弱表达统计
type PhraseMetrics struct {
	Count   int      `json:"count"`
	Phrases []string `json:"phrases"`
}

// Metrics 单次分析的指标汇总，构建后不再修改
type Metrics struct {
	WordCount   int             `json:"word_count"`
	Sections    []SectionMetric `json:"sections"`
	ActionVerbs VerbMetrics     `json:"action_verbs"`
	WeakPhrases PhraseMetrics   `json:"weak_phrases"`
}

// Section 返回某分区的指标
func (m Metrics) Section(s Section) SectionMetric {
	for _, sm := range m.Sections {
		if sm.Name == s {
			return sm
		}
	}
	return SectionMetric{Name: s}
}

// BuildMetrics 组装词数、分区与动词/弱表达统计
func BuildMetrics(normalized string, sections *SectionMap) Metrics {
	return buildMetrics(newTokenText(normalized), sections)
}

func buildMetrics(tt *tokenText, sections *SectionMap) Metrics {
	perSection := make([]SectionMetric, 0, len(sectionTaxonomy))
	for _, s := range ScoredSections() {
		text, ok := sections.Get(s)
		sm := SectionMetric{Name: s, Present: ok}
		if ok {
			sm.WordCount = len(Tokens(Normalize(text)))
		}
		perSection = append(perSection, sm)
	}

	verbs := detectActionVerbs(tt.tokens)
	phrases := DetectWeakPhrases(tt.normalized)
	return Metrics{
		WordCount:   len(tt.tokens),
		Sections:    perSection,
		ActionVerbs: VerbMetrics{Count: len(verbs), Verbs: verbs},
		WeakPhrases: PhraseMetrics{Count: len(phrases), Phrases: phrases},
	}
}
