package analysis

import "strings"

// 中性填充词：不含分区关键词、强动词、弱表达或行业关键词
var fillerVocabulary = []string{"steady", "reliable", "thorough", "friendly", "punctual", "patient", "curious", "calm"}

// fillerLine 生成 n 个填充词组成的一行（小写开头，不会被识别为标题）
func fillerLine(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fillerVocabulary[i%len(fillerVocabulary)]
	}
	return strings.Join(words, " ")
}

// wellFormedResume 一份各项都达标的简历
func wellFormedResume() string {
	return strings.Join([]string{
		"Jordan Lee",
		"jordan.lee@example.com (555) 123-4567 linkedin.com/in/jordanlee",
		"EDUCATION",
		"Stanford University, Bachelor of Science in Computer Science, 2016 - 2020",
		"WORK EXPERIENCE",
		"Acme Corp backend engineer 2020 - 2024 where the team shipped payment services",
		"Developed, designed and deployed python services, implemented docker and kubernetes rollouts",
		"Led a group of five people, managed releases, optimized sql queries and reduced latency by half",
		"Built rest api gateways, launched aws cloud migrations, improved git based ci/cd with testing",
		"SKILLS",
		"python javascript java react node.js api rest git aws cloud agile ci/cd backend frontend sql devops docker kubernetes testing microservices",
		fillerLine(320),
	}, "\n")
}
