package scorer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/textutil"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"
)

// 评分器: 五个[0,1]子分加权求和得到最终ATS分。
// 所有函数都是输入的纯函数，无共享状态。

var quantifiedRe = regexp.MustCompile(`\d+%|\d+\+|\$\d+`)

// weakPhrases 建议生成时检测的弱措辞。
var weakPhrases = []string{"responsible for", "worked on", "helped with", "duties included"}

// Score 计算五个子分和最终分。
func Score(resumeText string, resume *types.ParsedResume, jd *types.ParsedJobDescription, match types.KeywordMatchResult) (types.ScoreBreakdown, int) {
	breakdown := types.ScoreBreakdown{
		KeywordMatch:        float64(match.Confidence) / 100,
		ExperienceRelevance: experienceRelevance(resume, match),
		SkillsAlignment:     skillsAlignment(match),
		Formatting:          formattingScore(resumeText, resume),
		Completeness:        completenessScore(resume),
	}
	return breakdown, FinalScore(breakdown)
}

// FinalScore 加权求和乘100，裁剪到[0,100]后四舍五入。
func FinalScore(b types.ScoreBreakdown) int {
	score := (b.KeywordMatch*constants.WeightKeywordMatch +
		b.ExperienceRelevance*constants.WeightExperienceRelevance +
		b.SkillsAlignment*constants.WeightSkillsAlignment +
		b.Formatting*constants.WeightFormatting +
		b.Completeness*constants.WeightCompleteness) * 100
	score = math.Min(100, math.Max(0, score))
	return int(math.Round(score))
}

// experienceRelevance 取所有经历条目中的最高相关度:
// 该条目标题+bullets里出现的已匹配关键词数 / 已匹配关键词总数。
// 有两段以上经历时加乘1.1，封顶1.0。
func experienceRelevance(resume *types.ParsedResume, match types.KeywordMatchResult) float64 {
	if len(resume.Experience) == 0 || len(match.Matched) == 0 {
		return 0
	}

	best := 0.0
	for _, exp := range resume.Experience {
		expText := strings.ToLower(exp.Title + " " + strings.Join(exp.Bullets, " "))
		count := 0
		for _, kw := range match.Matched {
			if strings.Contains(expText, strings.ToLower(kw)) {
				count++
			}
		}
		relevance := float64(count) / float64(len(match.Matched))
		if relevance > best {
			best = relevance
		}
	}

	if len(resume.Experience) >= 2 {
		best = math.Min(1, best*1.1)
	}
	return best
}

// skillsAlignment 匹配占比。JD没有任何关键词时返回中性的0.5。
func skillsAlignment(match types.KeywordMatchResult) float64 {
	total := len(match.Matched) + len(match.Missing)
	if total == 0 {
		return 0.5
	}
	return float64(len(match.Matched)) / float64(total)
}

// formattingScore 从满分1.0逐项扣减，floor到0。
func formattingScore(resumeText string, resume *types.ParsedResume) float64 {
	score := 1.0

	if len(resume.Experience) == 0 {
		score -= 0.3
	}
	if len(resume.Education) == 0 {
		score -= 0.2
	}
	if len(resume.Skills) == 0 {
		score -= 0.2
	}
	if resume.Contact.Email == "" && resume.Contact.Phone == "" {
		score -= 0.3
	}

	wordCount := textutil.CountWords(resumeText)
	if wordCount < 200 {
		score -= 0.2
	}
	if wordCount > 1500 {
		score -= 0.1
	}

	return math.Max(0, score)
}

// completenessScore 关键字段的加权存在性，封顶1.0。
func completenessScore(resume *types.ParsedResume) float64 {
	score := 0.0
	if resume.Contact.Name != "" {
		score += 0.15
	}
	if resume.Contact.Email != "" {
		score += 0.15
	}
	if resume.Contact.Phone != "" {
		score += 0.1
	}
	if len(resume.Experience) > 0 {
		score += 0.25
	}
	if len(resume.Education) > 0 {
		score += 0.15
	}
	if len(resume.Skills) > 0 {
		score += 0.2
	}
	return math.Min(1, score)
}

// BuildSuggestions 按固定规则生成改进建议，按优先级排序后截断到8条。
func BuildSuggestions(resumeText string, resume *types.ParsedResume, jd *types.ParsedJobDescription, match types.KeywordMatchResult, breakdown types.ScoreBreakdown) []types.Suggestion {
	suggestions := []types.Suggestion{}

	if len(match.Missing) > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "keywords",
			Priority: "high",
			Message:  fmt.Sprintf("Add these key skills to your resume: %s", strings.Join(topN(match.Missing, 5), ", ")),
			Impact:   "Increases keyword match score by up to 20 points",
		})
	}

	if len(match.MissingSkills) > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "skills",
			Priority: "high",
			Message:  fmt.Sprintf("Highlight experience with: %s", strings.Join(topN(match.MissingSkills, 3), ", ")),
			Impact:   "Improves skills alignment score",
		})
	}

	if breakdown.ExperienceRelevance < 0.5 {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "experience",
			Priority: "high",
			Message:  "Emphasize relevant experience by adding job-specific keywords to your bullet points",
			Impact:   "Increases experience relevance score",
		})
	}

	lowerText := strings.ToLower(resumeText)
	for _, phrase := range weakPhrases {
		if strings.Contains(lowerText, phrase) {
			suggestions = append(suggestions, types.Suggestion{
				Type:     "action_verbs",
				Priority: "medium",
				Message:  "Replace weak phrases with strong action verbs (Led, Developed, Implemented, Achieved)",
				Impact:   "Improves readability and ATS parsing",
			})
			break
		}
	}

	if !quantifiedRe.MatchString(resumeText) {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "quantification",
			Priority: "medium",
			Message:  `Add quantifiable achievements (e.g., "Increased efficiency by 30%", "Managed team of 5")`,
			Impact:   "Makes accomplishments more concrete and impressive",
		})
	}

	if breakdown.Formatting < 0.8 {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "formatting",
			Priority: "medium",
			Message:  "Ensure all standard sections are present: Contact, Experience, Education, Skills",
			Impact:   "Improves ATS parsing accuracy",
		})
	}

	if resume.Contact.LinkedIn == "" {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "contact",
			Priority: "low",
			Message:  "Add your LinkedIn profile URL to increase credibility",
			Impact:   "Provides additional context for recruiters",
		})
	}

	if len(resume.Certifications) == 0 && len(jd.Keywords.Certifications) > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Type:     "certifications",
			Priority: "medium",
			Message:  fmt.Sprintf("Consider adding relevant certifications: %s", strings.Join(topN(jd.Keywords.Certifications, 2), ", ")),
			Impact:   "Demonstrates commitment to professional development",
		})
	}

	sortByPriority(suggestions)
	if len(suggestions) > constants.MaxSuggestions {
		suggestions = suggestions[:constants.MaxSuggestions]
	}
	return suggestions
}

var priorityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// sortByPriority 稳定排序，同优先级保持规则声明顺序。
func sortByPriority(s []types.Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return priorityRank[s[i].Priority] < priorityRank[s[j].Priority]
	})
}

func topN(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}
