package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByPriorityIsStable(t *testing.T) {
	recs := []Recommendation{
		{Category: "a", Priority: PriorityMedium},
		{Category: "b", Priority: PriorityLow},
		{Category: "c", Priority: PriorityHigh},
		{Category: "d", Priority: PriorityMedium},
		{Category: "e", Priority: PriorityHigh},
	}
	SortByPriority(recs)

	var order []string
	for _, r := range recs {
		order = append(order, r.Category)
	}
	assert.Equal(t, []string{"c", "e", "a", "d", "b"}, order, "同级建议应保持生成顺序")
}

func TestPriorityJSON(t *testing.T) {
	data, err := json.Marshal(Recommendation{Category: "Keywords", Text: "x", Priority: PriorityHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Keywords","recommendation":"x","priority":"High"}`, string(data))

	var back Recommendation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, PriorityHigh, back.Priority)

	var bad Priority
	assert.Error(t, json.Unmarshal([]byte(`"Urgent"`), &bad))
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "Experience", SectionTitle(SectionExperience))
	assert.Equal(t, "Certifications", SectionTitle(SectionCertifications))
}

func TestATSRecommendationOrder(t *testing.T) {
	a := New()
	sections := Segment("Someone\nSKILLS\nGo")
	resume := newTokenText(Normalize("Someone Go"))
	f := recommendationFacts{
		resume:     resume,
		sections:   sections,
		metrics:    buildMetrics(resume, sections),
		target:     IndustrySoftwareDevelopment,
		scores:     FactorScores{KeywordMatch: 0, WordCount: 0.1, ActionVerbs: 0, FileFormat: 0.5},
		formatting: []string{IssueTables, IssueSpecialCharacters},
		contact:    ContactCheck{Missing: []string{ContactEmail, ContactLinkedIn}},
		education:  CheckEducation(""),
	}

	recs := a.atsRecommendations(f)

	var categories []string
	for _, r := range recs {
		categories = append(categories, r.Category+"/"+r.Priority.String())
	}
	assert.Equal(t, []string{
		"Keywords/High",
		"Formatting/High",
		"File Format/High",
		"Contact Information/High",
		"Structure/High",
		"Structure/High",
		"Formatting/Medium",
		"Content/Medium",
		"Language/Medium",
		"Education/Medium",
		"ATS Optimization/Medium",
	}, categories)

	assert.Equal(t, "Add more industry-specific keywords such as: javascript, python, java, react, node.js", recs[0].Text)
	assert.Equal(t, "Add missing contact information: email, LinkedIn profile.", recs[3].Text)
	assert.Equal(t, "Add a Education section - this is a standard section expected by ATS.", recs[4].Text)
	assert.Equal(t, "Add a Experience section - this is a standard section expected by ATS.", recs[5].Text)
	assert.Equal(t, "Remove special characters from your resume as they can confuse ATS systems.", recs[6].Text)
	assert.Equal(t, "Fix education section: education section missing.", recs[9].Text)
	assert.Equal(t, closingTip, recs[len(recs)-1].Text)
}

func TestBaseRecommendationSuppression(t *testing.T) {
	a := New()
	raw := "Jane Doe, Seattle WA, portfolio and code at github.com/janedoe-dev\nEXPERIENCE\nsold things to people.\nRanked first among forty regional sales teams in spring."
	res, err := a.Analyze(raw, "")
	require.NoError(t, err)

	for _, r := range res.Recommendations {
		assert.NotEqual(t, "Add a Projects section to your resume.", r.Text, "GitHub 派生的项目分区不应再提示补充")
		assert.NotEqual(t, "Expand your Projects section with more details.", r.Text, "派生分区不提示扩充")
		assert.NotEqual(t, "Expand your Achievements section with more details.", r.Text)
		assert.NotEqual(t, "Add a Achievements section to your resume.", r.Text)
	}
	assert.Contains(t, res.Recommendations, Recommendation{Category: "skills", Text: "Add a Skills section to your resume.", Priority: PriorityHigh})
}
