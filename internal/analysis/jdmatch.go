package analysis

import (
	"math"
	"strings"
)

// JobDescriptionMatch 职位描述关键词覆盖情况
type JobDescriptionMatch struct {
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	MatchPercentage int      `json:"match_percentage"`
}

// MatchJobDescription 比较职位描述与简历的关键词集合，描述为空时返回 nil
func MatchJobDescription(resumeText, jobDescription string) *JobDescriptionMatch {
	if strings.TrimSpace(jobDescription) == "" {
		return nil
	}
	return matchJobDescription(newSourceText(resumeText), jobDescription)
}

func matchJobDescription(resume *tokenText, jobDescription string) *JobDescriptionMatch {
	resumeKeywords := keywordSet(resume)
	out := &JobDescriptionMatch{
		MatchedKeywords: make([]string, 0),
		MissingKeywords: make([]string, 0),
	}
	jdKeywords := ExtractKeywords(jobDescription)
	for _, kw := range jdKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			out.MatchedKeywords = append(out.MatchedKeywords, kw)
		} else {
			out.MissingKeywords = append(out.MissingKeywords, kw)
		}
	}
	if len(jdKeywords) > 0 {
		out.MatchPercentage = int(math.Round(100 * float64(len(out.MatchedKeywords)) / float64(len(jdKeywords))))
	}
	return out
}
