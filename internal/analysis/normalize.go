package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize 小写化、标点替换为空格并压缩空白。
// 结果只用于匹配，不能用于依赖换行位置的逻辑。
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	pendingSpace := false
	for _, r := range raw {
		if !isWordRune(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Tokens 按空白切分规范化文本
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// tokenText 规范化文本及其分词结果，一次分析只构建一次
type tokenText struct {
	normalized string
	tokens     []string
	index      map[string][]int // 词 -> 出现位置
	lower      string           // 保留符号的小写原文，空白已压缩
}

func newTokenText(normalized string) *tokenText {
	tokens := Tokens(normalized)
	index := make(map[string][]int, len(tokens))
	for i, tok := range tokens {
		index[tok] = append(index[tok], i)
	}
	return &tokenText{normalized: normalized, tokens: tokens, index: index, lower: normalized}
}

// newSourceText 从原文构建，同时保留带符号的小写文本
func newSourceText(raw string) *tokenText {
	tt := newTokenText(Normalize(raw))
	tt.lower = strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	return tt
}

// containsPhrase 判断关键词（可能由多个词组成）是否作为连续词序列出现。
// 词首或词尾带符号的关键词（c++、c#、.net）规范化后会丢失符号，改为在原文中按字面匹配
func (t *tokenText) containsPhrase(keyword string) bool {
	if hasEdgeSymbol(keyword) {
		return containsBounded(t.lower, strings.Join(strings.Fields(strings.ToLower(keyword)), " "))
	}
	phrase := Tokens(Normalize(keyword))
	if len(phrase) == 0 {
		return false
	}
	for _, start := range t.index[phrase[0]] {
		if start+len(phrase) > len(t.tokens) {
			break
		}
		matched := true
		for j := 1; j < len(phrase); j++ {
			if t.tokens[start+j] != phrase[j] {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// hasEdgeSymbol 关键词中某个词以非单词字符开头或结尾
func hasEdgeSymbol(keyword string) bool {
	for _, word := range strings.Fields(keyword) {
		first, _ := utf8.DecodeRuneInString(word)
		last, _ := utf8.DecodeLastRuneInString(word)
		if !isWordRune(first) || !isWordRune(last) {
			return true
		}
	}
	return false
}

// containsBounded 字面查找 lit，两侧必须是文本边界或非单词字符
func containsBounded(text, lit string) bool {
	if lit == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], lit)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(lit)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

// ContainsPhrase 按整词序列查找关键词。text 可以是原文或规范化文本，
// 带边缘符号的关键词只能在保留符号的原文中命中
func ContainsPhrase(text, keyword string) bool {
	return newSourceText(text).containsPhrase(keyword)
}
