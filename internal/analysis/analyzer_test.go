package analysis

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findRecommendations(recs []Recommendation, category string) []Recommendation {
	var out []Recommendation
	for _, r := range recs {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func TestAnalyze_EmptyText(t *testing.T) {
	a := New()
	for _, raw := range []string{"", "   \n\t", "... --- !!!"} {
		_, err := a.Analyze(raw, "")
		assert.ErrorIs(t, err, ErrEmptyText, "输入 %q", raw)
		_, err = a.ScoreForATS(raw, ATSRequest{})
		assert.ErrorIs(t, err, ErrEmptyText)
	}
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	a := New()
	raw := wellFormedResume()

	first, err := a.ScoreForATS(raw, ATSRequest{FormatHint: "pdf", JobDescription: "Go and Python backend engineer with Docker"})
	require.NoError(t, err)
	second, err := a.ScoreForATS(raw, ATSRequest{FormatHint: "pdf", JobDescription: "Go and Python backend engineer with Docker"})
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2), "相同输入必须得到字节级一致的输出")
}

func TestScoreForATS_WellFormedResume(t *testing.T) {
	res, err := New().ScoreForATS(wellFormedResume(), ATSRequest{FormatHint: "pdf", TargetIndustry: "software_development"})
	require.NoError(t, err)

	require.NotNil(t, res.FactorScores)
	assert.Equal(t, FactorScores{1, 1, 1, 1, 1, 1, 1}, *res.FactorScores)
	score, ok := res.ATSScore()
	assert.True(t, ok)
	assert.Equal(t, 100, score)
	assert.Empty(t, res.FormattingIssues)
	assert.Equal(t, []Section{SectionHeader, SectionEducation, SectionExperience, SectionSkills}, res.SectionsFound)

	// 只剩通用提示
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, CategoryATSOptimization, res.Recommendations[0].Category)
	assert.Equal(t, PriorityMedium, res.Recommendations[0].Priority)
}

func TestScoreForATS_WeakPhraseScenario(t *testing.T) {
	raw := "Responsible for managing team. Worked on projects.\n" + fillerLine(400)
	res, err := New().ScoreForATS(raw, ATSRequest{FormatHint: "pdf"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Metrics.WordCount, 300)
	assert.LessOrEqual(t, res.Metrics.WordCount, 1000)
	assert.Equal(t, 2, res.Metrics.WeakPhrases.Count)
	assert.Equal(t, 0, res.Metrics.ActionVerbs.Count)
	assert.Equal(t, 1.0, res.FactorScores.WordCount)

	language := findRecommendations(res.Recommendations, CategoryLanguage)
	require.NotEmpty(t, language)
	weak := Recommendation{
		Category: CategoryLanguage,
		Text:     "Replace weak phrases like 'responsible for, worked on' with strong action verbs.",
		Priority: PriorityMedium,
	}
	assert.Contains(t, language, weak)

	closing := findRecommendations(res.Recommendations, CategoryATSOptimization)
	require.Len(t, closing, 1, "通用提示总是存在")
	assert.Equal(t, res.Recommendations[len(res.Recommendations)-1], closing[0])
}

func TestAnalyze_ExperienceWithoutDates(t *testing.T) {
	raw := strings.Join([]string{
		"Casey Park",
		"Experience",
		"Software developer at Acme building internal tools for several teams",
		"Support engineer at Globex helping customers with account problems",
	}, "\n")
	res, err := New().Analyze(raw, "")
	require.NoError(t, err)

	assert.Contains(t, res.Recommendations, Recommendation{
		Category: "experience",
		Text:     "Add dates to your work experience entries.",
		Priority: PriorityMedium,
	})
	assert.Nil(t, res.FactorScores, "基础模式不计算因子得分")
	_, ok := res.ATSScore()
	assert.False(t, ok)
}

func TestScoreForATS_MissingEducation(t *testing.T) {
	raw := strings.Join([]string{
		"Casey Park",
		"Experience",
		"Software developer at Acme building internal tools for several teams since 2019",
		"SKILLS",
		"Go and Rust",
	}, "\n")
	res, err := New().ScoreForATS(raw, ATSRequest{FormatHint: "docx"})
	require.NoError(t, err)

	assert.LessOrEqual(t, res.FactorScores.EducationFormat, 0.7)
	assert.False(t, res.Education.ProperlyFormatted)
	assert.Equal(t, []string{EducationMissing}, res.Education.Issues)
	assert.Contains(t, res.Recommendations, Recommendation{
		Category: CategoryStructure,
		Text:     "Add a Education section - this is a standard section expected by ATS.",
		Priority: PriorityHigh,
	})
	assert.Equal(t, 0.5, res.FactorScores.FileFormat)
}

func TestScoreForATS_TargetIndustryKeywords(t *testing.T) {
	raw := "Alex Morgan\nSKILLS\nPython, React and Docker for internal tooling\n" + fillerLine(350)
	res, err := New().ScoreForATS(raw, ATSRequest{FormatHint: "pdf", TargetIndustry: "software_development"})
	require.NoError(t, err)

	assert.InDelta(t, 3.0/20.0, res.FactorScores.KeywordMatch, 1e-9)
	keywords := findRecommendations(res.Recommendations, CategoryKeywords)
	require.Len(t, keywords, 1)
	assert.Equal(t, PriorityHigh, keywords[0].Priority)
	assert.Equal(t, "Add more industry-specific keywords such as: javascript, java, node.js, api, rest", keywords[0].Text)

	base, err := New().Analyze(raw, "Software Development")
	require.NoError(t, err)
	alignment := findRecommendations(base.Recommendations, CategoryIndustryAlignment)
	require.Len(t, alignment, 1)
	assert.Equal(t, "Consider adding industry-relevant keywords such as: java, javascript, node, aws, cloud", alignment[0].Text)
	assert.Equal(t, PriorityLow, alignment[0].Priority)
}

func TestScoreForATS_JobDescriptionMatch(t *testing.T) {
	raw := "Alex Morgan\nSKILLS\nPython, React and Docker for internal tooling\n" + fillerLine(350)
	res, err := New().ScoreForATS(raw, ATSRequest{JobDescription: "Python and Kubernetes engineer, Docker required"})
	require.NoError(t, err)

	require.NotNil(t, res.JobMatch)
	assert.Equal(t, []string{"docker", "python"}, res.JobMatch.MatchedKeywords)
	assert.Equal(t, []string{"engineer", "kubernetes", "required"}, res.JobMatch.MissingKeywords)
	assert.Equal(t, 40, res.JobMatch.MatchPercentage)
	assert.InDelta(t, 0.4, res.FactorScores.KeywordMatch, 1e-9)

	keywords := findRecommendations(res.Recommendations, CategoryKeywords)
	require.Len(t, keywords, 1)
	assert.Equal(t, "Add more relevant keywords from the job description to increase your match rate.", keywords[0].Text)

	assert.Nil(t, MatchJobDescription(raw, "   "))
}

func TestScoreForATS_BoundsHoldForVariedInput(t *testing.T) {
	inputs := []string{
		"x",
		"x | y\nx | y\nx | y\nC# F# {weird} [text]\nA\nB\nC\nD\nE\nF\nG\nH\nend",
		strings.Repeat(fillerLine(100)+"\n", 30),
		wellFormedResume(),
		"EDUCATION\nEXPERIENCE\nSKILLS",
	}
	a := New()
	for _, raw := range inputs {
		res, err := a.ScoreForATS(raw, ATSRequest{FormatHint: "txt", TargetIndustry: "unknown"})
		require.NoError(t, err)
		for _, f := range Factors() {
			v := res.FactorScores.Get(f)
			assert.GreaterOrEqual(t, v, 0.0, "因子 %s", f)
			assert.LessOrEqual(t, v, 1.0, "因子 %s", f)
		}
		score, _ := res.ATSScore()
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a := New()
	raw := wellFormedResume()
	want, err := a.ScoreForATS(raw, ATSRequest{FormatHint: "pdf"})
	require.NoError(t, err)
	wantJSON, _ := json.Marshal(want)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.ScoreForATS(raw, ATSRequest{FormatHint: "pdf"})
			if err != nil {
				errs <- err.Error()
				return
			}
			gotJSON, _ := json.Marshal(got)
			if string(gotJSON) != string(wantJSON) {
				errs <- "并发结果不一致"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestWithKeywordTables(t *testing.T) {
	custom := KeywordTable{IndustryFinance: {"ledger"}}
	a := New(WithATSKeywords(custom), WithIndustryKeywords(custom))
	res, err := a.ScoreForATS("Kept the ledger balanced every week", ATSRequest{TargetIndustry: "finance"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.FactorScores.KeywordMatch)
	assert.Equal(t, []string{"ledger"}, res.IndustryKeywords.Get(IndustryFinance))

	// 传入的表在构造后被修改不影响分析器
	custom[IndustryFinance][0] = "changed"
	again, err := a.ScoreForATS("Kept the ledger balanced every week", ATSRequest{TargetIndustry: "finance"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.FactorScores.KeywordMatch)
}

func TestResultJSONRoundTrip(t *testing.T) {
	res, err := New().ScoreForATS(wellFormedResume(), ATSRequest{FormatHint: "pdf", JobDescription: "python docker"})
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
	assert.Equal(t, res.Recommendations, back.Recommendations)
	assert.Equal(t, res.FactorScores, back.FactorScores)
}

func TestParseHelpers(t *testing.T) {
	ind, ok := ParseIndustry(" Data-Science ")
	assert.True(t, ok)
	assert.Equal(t, IndustryDataScience, ind)
	_, ok = ParseIndustry("astrology")
	assert.False(t, ok)

	assert.Equal(t, ModeBasic, ParseMode("BASIC"))
	assert.Equal(t, ModeATS, ParseMode(""))
	assert.Equal(t, ModeATS, ParseMode("whatever"))
}
