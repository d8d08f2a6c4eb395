package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/textutil"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"
)

// Matcher 关键词抽取与四档匹配引擎。
// 无内部状态，所有模式表在包加载时编译完成，可被多goroutine并发使用。
type Matcher struct{}

// New 创建匹配引擎。
func New() *Matcher {
	return &Matcher{}
}

// buildSynonymTable 构建时把键与所有同义写法统一归一化，
// 查询侧只需对输入做一次 NormalizeKeyword。
func buildSynonymTable(raw map[string][]string) map[string][]string {
	out := make(map[string][]string, len(raw))
	for k, vals := range raw {
		nk := textutil.NormalizeKeyword(k)
		nv := make([]string, len(vals))
		for i, v := range vals {
			nv[i] = textutil.NormalizeKeyword(v)
		}
		out[nk] = nv
	}
	return out
}

// ExtractKeywords 从任意文本中抽取五类关键词。
// 空文本返回各类别均为空切片的结果，调用方无需判空。
func (m *Matcher) ExtractKeywords(text string) types.Keywords {
	kw := types.Keywords{
		Technical:      []string{},
		Soft:           []string{},
		Tools:          []string{},
		Certifications: []string{},
		Phrases:        []string{},
	}
	if strings.TrimSpace(text) == "" {
		return kw
	}

	normalized := textutil.NormalizeText(text)

	kw.Technical = matchGroups(normalized, technicalPatterns)
	kw.Soft = matchGroups(normalized, softSkillPatterns)
	kw.Tools = matchGroups(normalized, toolPatterns)
	kw.Certifications = matchGroups(normalized, certPatterns)
	kw.Phrases = matchPhrases(normalized)

	prioritize(kw.Technical)
	prioritize(kw.Soft)
	prioritize(kw.Tools)
	prioritize(kw.Certifications)
	prioritize(kw.Phrases)

	return kw
}

// matchGroups 逐组尝试所有写法，组内第一个命中即记入该组的规范名。
func matchGroups(text string, groups []patternGroup) []string {
	found := []string{}
	seen := make(map[string]struct{})
	for i := range groups {
		for _, re := range groups[i].res {
			if re.MatchString(text) {
				if _, dup := seen[groups[i].canonical]; !dup {
					seen[groups[i].canonical] = struct{}{}
					found = append(found, groups[i].canonical)
				}
				break
			}
		}
	}
	return found
}

func matchPhrases(text string) []string {
	found := []string{}
	seen := make(map[string]struct{})
	for i, re := range keyPhraseRes {
		if re.MatchString(text) {
			c := titleCasePhrase(keyPhrases[i])
			if _, dup := seen[c]; !dup {
				seen[c] = struct{}{}
				found = append(found, c)
			}
		}
	}
	return found
}

// prioritize 类别内按优先级降序排序，同优先级保持抽取顺序。
func prioritize(keywords []string) {
	sort.SliceStable(keywords, func(i, j int) bool {
		return priorityOf(keywords[i]) > priorityOf(keywords[j])
	})
}

func priorityOf(keyword string) int {
	if p, ok := skillPriorities[strings.ToLower(keyword)]; ok {
		return p
	}
	return 50
}

// Match 对简历文本和JD文本分别抽取关键词后做四档匹配。
func (m *Matcher) Match(resumeText, jobText string) types.KeywordMatchResult {
	resumeKw := m.ExtractKeywords(resumeText)
	jobKw := m.ExtractKeywords(jobText)
	return m.MatchKeywordSets(resumeKw, jobKw)
}

// MatchKeywordSets 对已抽取的关键词集合做匹配。
// 逐个JD关键词在简历关键词里找最佳匹配，策略从严到宽:
// exact(100) -> synonym(90) -> partial(75) -> fuzzy(相似度>0.8)。
func (m *Matcher) MatchKeywordSets(resumeKw, jobKw types.Keywords) types.KeywordMatchResult {
	allJob := dedup(jobKw.All())
	allResume := dedup(resumeKw.All())

	result := types.KeywordMatchResult{
		Matched:       []string{},
		Missing:       []string{},
		MatchedSkills: []string{},
		MissingSkills: []string{},
		Details:       []types.MatchDetail{},
	}

	for _, jobKeyword := range allJob {
		detail, found := findBestMatch(jobKeyword, allResume)
		if found {
			result.Matched = append(result.Matched, jobKeyword)
			result.MatchedSkills = append(result.MatchedSkills, jobKeyword)
			result.Details = append(result.Details, detail)
		} else {
			result.Missing = append(result.Missing, jobKeyword)
			result.MissingSkills = append(result.MissingSkills, jobKeyword)
		}
	}

	if len(allJob) > 0 {
		result.Confidence = int(math.Round(float64(len(result.Matched)) / float64(len(allJob)) * 100))
	}
	return result
}

// findBestMatch 四档递进匹配，返回首个命中档位的明细。
func findBestMatch(jobKeyword string, resumeKeywords []string) (types.MatchDetail, bool) {
	normJob := textutil.NormalizeKeyword(jobKeyword)

	// 档位1: 归一化后完全相等
	for _, rk := range resumeKeywords {
		if textutil.NormalizeKeyword(rk) == normJob {
			return types.MatchDetail{
				JobKeyword:  jobKeyword,
				ResumeMatch: rk,
				MatchType:   types.MatchExact,
				Confidence:  constants.ConfidenceExact,
			}, true
		}
	}

	// 档位2: 同义词表
	for _, syn := range synonymTable[normJob] {
		for _, rk := range resumeKeywords {
			if textutil.NormalizeKeyword(rk) == syn {
				return types.MatchDetail{
					JobKeyword:  jobKeyword,
					ResumeMatch: rk,
					MatchType:   types.MatchSynonym,
					Confidence:  constants.ConfidenceSynonym,
				}, true
			}
		}
	}

	// 档位3: 任一方向的子串包含
	for _, rk := range resumeKeywords {
		normResume := textutil.NormalizeKeyword(rk)
		if strings.Contains(normResume, normJob) || strings.Contains(normJob, normResume) {
			return types.MatchDetail{
				JobKeyword:  jobKeyword,
				ResumeMatch: rk,
				MatchType:   types.MatchPartial,
				Confidence:  constants.ConfidencePartial,
			}, true
		}
	}

	// 档位4: 编辑距离模糊匹配，容忍笔误
	for _, rk := range resumeKeywords {
		sim := textutil.Similarity(normJob, textutil.NormalizeKeyword(rk))
		if sim > constants.FuzzyThreshold {
			return types.MatchDetail{
				JobKeyword:  jobKeyword,
				ResumeMatch: rk,
				MatchType:   types.MatchFuzzy,
				Confidence:  int(math.Round(sim * 100)),
			}, true
		}
	}

	return types.MatchDetail{}, false
}

// dedup 保序去重。类别之间规范名可能重叠(如 Machine Learning 同时
// 出现在技术类和短语类)，合并后需要去重。
func dedup(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
