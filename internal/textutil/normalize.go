package textutil

import (
	"regexp"
	"strings"
)

// 文本归一化工具，流水线里所有组件共用。
// 两种归一化的差别: NormalizeText 保留技术词里常见的 . - / + # 字符
// (如 node.js、c++、c#)，NormalizeKeyword 则把所有非字母数字字符都压成空格，
// 用于关键词之间的等值比较。

var (
	textNoiseRe    = regexp.MustCompile(`[^\w\s.\-/+#]`)
	keywordNoiseRe = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// NormalizeText 小写化、去掉标点噪音、折叠空白。幂等。
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = textNoiseRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeKeyword 用于关键词等值比较的强归一化。幂等。
func NormalizeKeyword(s string) string {
	s = strings.ToLower(s)
	s = keywordNoiseRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CountWords 按空白切分统计词数，空串计0。
func CountWords(s string) int {
	n := 0
	for _, f := range strings.Fields(s) {
		if f != "" {
			n++
		}
	}
	return n
}

// Similarity 基于Levenshtein编辑距离的归一化相似度:
// (maxLen - distance) / maxLen。两个空串相似度为1，对称。
func Similarity(a, b string) float64 {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	dist := levenshtein(a, b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return float64(maxLen-dist) / float64(maxLen)
}

// levenshtein 经典两行DP，按字节比较(输入已归一化为ASCII为主的小写文本)。
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, la+1)
	curr := make([]int, la+1)

	for i := 0; i <= la; i++ {
		prev[i] = i
	}
	for j := 1; j <= lb; j++ {
		curr[0] = j
		for i := 1; i <= la; i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min3(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[la]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
