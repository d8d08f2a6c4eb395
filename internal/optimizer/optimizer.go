package optimizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/textutil"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"
)

// Aggressiveness 控制一次优化整合多少个缺失关键词。
type Aggressiveness string

const (
	Conservative Aggressiveness = "conservative"
	Moderate     Aggressiveness = "moderate"
	Aggressive   Aggressiveness = "aggressive"
)

// Preferences 优化偏好。
// MutationOnly 开启后只做bullet内的字面替换，原文的排版、顺序
// 和未触及的文本保证原样保留(PDF原位改写依赖这一点)。
type Preferences struct {
	Aggressiveness Aggressiveness `json:"aggressiveness"`
	MutationOnly   bool           `json:"mutationOnly"`
}

// Result 优化的中间产物。最终打分由调用方对OptimizedText重新分析得出。
type Result struct {
	OptimizedText string
	OptimizedData *types.ParsedResume
	Changes       []types.Change
}

// weakPhrases 弱措辞到强动词的替换表，按声明顺序应用。
var weakPhrases = []struct {
	weak   string
	strong string
	re     *regexp.Regexp
}{
	{weak: "responsible for", strong: "Led"},
	{weak: "worked on", strong: "Developed"},
	{weak: "helped with", strong: "Contributed to"},
	{weak: "duties included", strong: "Managed"},
	{weak: "was involved in", strong: "Participated in"},
	{weak: "assisted in", strong: "Supported"},
	{weak: "tasked with", strong: "Executed"},
}

func init() {
	for i := range weakPhrases {
		weakPhrases[i].re = regexp.MustCompile(`(?i)` + weakPhrases[i].weak)
	}
}

// strongVerbs bullet开头应有的强动词。
var strongVerbs = []string{
	"Led", "Developed", "Implemented", "Designed", "Managed", "Achieved",
	"Improved", "Increased", "Reduced", "Optimized", "Streamlined",
	"Spearheaded", "Orchestrated", "Pioneered", "Established",
}

var (
	usingListRe   = regexp.MustCompile(`(?i)(\busing\b\s+)([^.,;]+)`)
	withListRe    = regexp.MustCompile(`(?i)(\bwith\b\s+)([^.,;]+)`)
	inListRe      = regexp.MustCompile(`(?i)(\bin\b\s+)([^.,;]+)`)
	pastTenseRe   = regexp.MustCompile(`^[A-Z][a-z]+ed\b`)
	openingVerbRe = regexp.MustCompile(`^([A-Z][a-z]+ing|[A-Z][a-z]+s)\b`)
)

// Optimize 对已解析的简历应用优化规则。
// 结构化模式: 关键词整合 + 内容重排 + 动词强化 + 区块建议，然后重新渲染全文。
// MutationOnly模式: 只做关键词整合，并把变更以字面替换的方式套回原文。
func Optimize(resumeText string, resume *types.ParsedResume, analysis *types.AnalysisResult, prefs Preferences) Result {
	if prefs.Aggressiveness == "" {
		prefs.Aggressiveness = Moderate
	}

	data := resume.Clone()
	changes := []types.Change{}

	integrateKeywords(data, analysis, prefs, &changes)

	if prefs.MutationOnly {
		return Result{
			OptimizedText: ApplyChangesToOriginalText(resumeText, changes),
			OptimizedData: data,
			Changes:       changes,
		}
	}

	reorderContent(data, analysis, &changes)
	enhanceActionVerbs(data, &changes)
	optimizeSections(data, analysis, &changes)

	return Result{
		OptimizedText: RenderText(data),
		OptimizedData: data,
		Changes:       changes,
	}
}

// keywordLimit 各激进档位允许整合的关键词数。
func keywordLimit(a Aggressiveness, available int) int {
	var limit int
	switch a {
	case Conservative:
		limit = constants.KeywordLimitConservative
	case Aggressive:
		limit = constants.KeywordLimitAggressive
	default:
		limit = constants.KeywordLimitModerate
	}
	if available < limit {
		return available
	}
	return limit
}

// integrateKeywords 把排名靠前的缺失关键词整合进简历。
// 结构化模式还会把关键词补进skills区，MutationOnly模式只动bullet。
func integrateKeywords(data *types.ParsedResume, analysis *types.AnalysisResult, prefs Preferences, changes *[]types.Change) {
	missing := analysis.MissingKeywords
	top := missing[:keywordLimit(prefs.Aggressiveness, len(missing))]

	if !prefs.MutationOnly {
		for _, keyword := range top {
			if !skillListed(data.Skills, keyword) {
				data.Skills = append(data.Skills, keyword)
				*changes = append(*changes, types.Change{
					Type:     "keyword_added",
					Location: "skills",
					Original: "",
					Modified: keyword,
					Reason:   fmt.Sprintf("Added missing keyword %q from job requirements", keyword),
					Impact:   "high",
				})
			}
		}
	}

	if len(data.Experience) == 0 || len(top) == 0 {
		return
	}

	n := constants.MaxBulletIntegrations
	if len(top) < n {
		n = len(top)
	}
	if len(data.Experience) < n {
		n = len(data.Experience)
	}

	for i := 0; i < n; i++ {
		keyword := top[i]
		exp := &data.Experience[i]
		if len(exp.Bullets) == 0 {
			continue
		}

		// 简化策略: 总是改每段经历的第一条bullet
		original := exp.Bullets[0]

		// 密度守卫，避免关键词堆砌
		density := float64(textutil.CountWords(keyword)) / float64(textutil.CountWords(original))
		if density >= constants.MaxKeywordDensity {
			continue
		}

		enhanced := integrateKeywordNaturally(original, keyword)
		if enhanced == original {
			continue
		}

		exp.Bullets[0] = enhanced
		*changes = append(*changes, types.Change{
			Type:     "keyword_added",
			Location: fmt.Sprintf("experience.%d.bullets.0", i),
			Original: original,
			Modified: enhanced,
			Reason:   fmt.Sprintf("Integrated %q naturally into experience bullet", keyword),
			Impact:   "high",
		})
	}
}

// integrateKeywordNaturally 把关键词追加到bullet里已有的技术清单末尾，
// 依次尝试 "using ..."、"with ..."、"in ..." 三种句式，首个命中生效。
// 任一守卫不满足(已包含、无插入点、词数膨胀超15%)时原样返回。
func integrateKeywordNaturally(bullet, keyword string) string {
	if strings.Contains(strings.ToLower(bullet), strings.ToLower(keyword)) {
		return bullet
	}

	updated := bullet
	for _, re := range []*regexp.Regexp{usingListRe, withListRe, inListRe} {
		updated = insertAfterList(re, bullet, keyword)
		if updated != bullet {
			break
		}
	}
	if updated == bullet {
		return bullet
	}

	maxWords := int(float64(textutil.CountWords(bullet)) * constants.MaxBulletGrowth)
	if textutil.CountWords(updated) > maxWords {
		return bullet
	}
	return updated
}

// insertAfterList 在首个匹配的清单捕获组末尾追加 ", keyword"。
func insertAfterList(re *regexp.Regexp, bullet, keyword string) string {
	loc := re.FindStringSubmatchIndex(bullet)
	if loc == nil {
		return bullet
	}
	listEnd := loc[5] // 第二个捕获组(清单本体)的结束位置
	return bullet[:listEnd] + ", " + keyword + bullet[listEnd:]
}

// reorderContent 按命中的关键词数把经历和bullet重排到前面。
// 相同命中数保持原有相对顺序，只有顺序真正变化时才记录change。
func reorderContent(data *types.ParsedResume, analysis *types.AnalysisResult, changes *[]types.Change) {
	jobKeywords := make([]string, 0, len(analysis.MatchedKeywords)+len(analysis.MatchedSkills))
	for _, k := range analysis.MatchedKeywords {
		jobKeywords = append(jobKeywords, strings.ToLower(k))
	}
	for _, k := range analysis.MatchedSkills {
		jobKeywords = append(jobKeywords, strings.ToLower(k))
	}

	if len(data.Experience) > 1 {
		originalOrder := experienceTitles(data.Experience)

		relevance := make([]int, len(data.Experience))
		for i, exp := range data.Experience {
			relevance[i] = countHits(strings.ToLower(exp.Title+" "+strings.Join(exp.Bullets, " ")), jobKeywords)
		}
		perm := stableOrder(len(data.Experience), relevance)

		if !identity(perm) {
			reordered := make([]types.Experience, len(perm))
			for newIdx, oldIdx := range perm {
				reordered[newIdx] = data.Experience[oldIdx]
			}
			data.Experience = reordered
			*changes = append(*changes, types.Change{
				Type:     "content_reordered",
				Location: "experience",
				Original: originalOrder,
				Modified: experienceTitles(data.Experience),
				Reason:   "Reordered experience to prioritize most relevant positions",
				Impact:   "medium",
			})
		}
	}

	for i := range data.Experience {
		exp := &data.Experience[i]
		if len(exp.Bullets) <= 1 {
			continue
		}

		relevance := make([]int, len(exp.Bullets))
		for j, bullet := range exp.Bullets {
			relevance[j] = countHits(strings.ToLower(bullet), jobKeywords)
		}
		perm := stableOrder(len(exp.Bullets), relevance)

		if !identity(perm) {
			reordered := make([]string, len(perm))
			for newIdx, oldIdx := range perm {
				reordered[newIdx] = exp.Bullets[oldIdx]
			}
			exp.Bullets = reordered
			*changes = append(*changes, types.Change{
				Type:     "content_reordered",
				Location: fmt.Sprintf("experience.%d.bullets", i),
				Original: "Original bullet order",
				Modified: "Reordered to highlight relevant achievements",
				Reason:   "Prioritized bullets with job-relevant keywords",
				Impact:   "medium",
			})
		}
	}
}

// enhanceActionVerbs 弱措辞全局替换为强动词。
// 没有弱措辞且不以强动词或过去式开头时，把开头的动名词/三单动词
// 换成按bullet长度确定性选取的强动词。
func enhanceActionVerbs(data *types.ParsedResume, changes *[]types.Change) {
	for i := range data.Experience {
		exp := &data.Experience[i]
		for j, original := range exp.Bullets {
			bullet := original
			modified := false

			for _, wp := range weakPhrases {
				if wp.re.MatchString(bullet) {
					bullet = wp.re.ReplaceAllString(bullet, wp.strong)
					modified = true
				}
			}

			if !modified && !startsWithStrongVerb(bullet) && !pastTenseRe.MatchString(bullet) {
				if m := openingVerbRe.FindString(bullet); m != "" {
					verb := strongVerbs[len(bullet)%len(strongVerbs)]
					bullet = verb + bullet[len(m):]
					modified = true
				}
			}

			if modified {
				exp.Bullets[j] = bullet
				*changes = append(*changes, types.Change{
					Type:     "verb_enhanced",
					Location: fmt.Sprintf("experience.%d.bullets.%d", i, j),
					Original: original,
					Modified: bullet,
					Reason:   "Replaced weak phrases with strong action verbs",
					Impact:   "medium",
				})
			}
		}
	}
}

// optimizeSections 纯建议性的变更，不改动文本。
func optimizeSections(data *types.ParsedResume, analysis *types.AnalysisResult, changes *[]types.Change) {
	if analysis.JobData != nil && len(analysis.JobData.Keywords.Certifications) > 0 && len(data.Certifications) == 0 {
		suggested := analysis.JobData.Keywords.Certifications
		if len(suggested) > 2 {
			suggested = suggested[:2]
		}
		*changes = append(*changes, types.Change{
			Type:     "section_added",
			Location: "certifications",
			Original: "",
			Modified: "Certifications section recommended",
			Reason:   fmt.Sprintf("Job requires certifications: %s", strings.Join(suggested, ", ")),
			Impact:   "low",
		})
	}

	if len(data.Skills) < 5 {
		*changes = append(*changes, types.Change{
			Type:     "section_optimization",
			Location: "skills",
			Original: fmt.Sprintf("%d skills", len(data.Skills)),
			Modified: "Recommend adding more skills",
			Reason:   "Skills section should have at least 5-10 relevant skills",
			Impact:   "medium",
		})
	}
}

// ApplyChangesToOriginalText MutationOnly模式的落盘: 只把bullet上的
// keyword_added变更以首次出现的字面替换套回原文。original子串在原文中
// 不存在时跳过该条变更，保证不会误伤其他文本。
func ApplyChangesToOriginalText(resumeText string, changes []types.Change) string {
	if len(changes) == 0 {
		return resumeText
	}

	updated := resumeText
	for _, change := range changes {
		if change.Type != "keyword_added" {
			continue
		}
		if !strings.Contains(change.Location, "bullets") {
			continue
		}
		if change.Original == "" || change.Original == change.Modified {
			continue
		}
		if strings.Contains(updated, change.Original) {
			updated = strings.Replace(updated, change.Original, change.Modified, 1)
		}
	}
	return updated
}

// RenderText 把结构化简历渲染回纯文本，区块顺序和分隔格式固定。
func RenderText(data *types.ParsedResume) string {
	var b strings.Builder

	if data.Contact.Name != "" {
		b.WriteString(data.Contact.Name + "\n")
	}
	var contactParts []string
	for _, part := range []string{data.Contact.Email, data.Contact.Phone, data.Contact.Location, data.Contact.LinkedIn} {
		if part != "" {
			contactParts = append(contactParts, part)
		}
	}
	if len(contactParts) > 0 {
		b.WriteString(strings.Join(contactParts, " | ") + "\n\n")
	}

	if data.Summary != "" {
		b.WriteString("PROFESSIONAL SUMMARY\n")
		b.WriteString(data.Summary + "\n\n")
	}

	if len(data.Experience) > 0 {
		b.WriteString("EXPERIENCE\n\n")
		for _, exp := range data.Experience {
			b.WriteString(exp.Title)
			if exp.Company != "" {
				b.WriteString(" | " + exp.Company)
			}
			if exp.StartDate != "" || exp.EndDate != "" {
				b.WriteString(" | " + exp.StartDate + " - " + exp.EndDate)
			}
			b.WriteString("\n")
			for _, bullet := range exp.Bullets {
				b.WriteString("• " + bullet + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(data.Education) > 0 {
		b.WriteString("EDUCATION\n\n")
		for _, edu := range data.Education {
			if edu.Degree != "" {
				b.WriteString(edu.Degree)
			}
			if edu.Field != "" {
				b.WriteString(" in " + edu.Field)
			}
			b.WriteString("\n")
			if edu.Institution != "" {
				b.WriteString(edu.Institution)
			}
			if edu.GraduationDate != "" {
				b.WriteString(" | " + edu.GraduationDate)
			}
			b.WriteString("\n\n")
		}
	}

	if len(data.Skills) > 0 {
		b.WriteString("SKILLS\n")
		b.WriteString(strings.Join(data.Skills, ", ") + "\n\n")
	}

	if len(data.Certifications) > 0 {
		b.WriteString("CERTIFICATIONS\n")
		for _, cert := range data.Certifications {
			b.WriteString("• " + cert + "\n")
		}
	}

	return strings.TrimSpace(b.String())
}

func skillListed(skills []string, keyword string) bool {
	lower := strings.ToLower(keyword)
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s), lower) {
			return true
		}
	}
	return false
}

// experienceTitles 把经历标题按当前顺序拼接，用作重排change的审计快照。
func experienceTitles(experience []types.Experience) string {
	titles := make([]string, 0, len(experience))
	for _, exp := range experience {
		titles = append(titles, exp.Title)
	}
	return strings.Join(titles, ", ")
}

func countHits(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func startsWithStrongVerb(bullet string) bool {
	lower := strings.ToLower(bullet)
	for _, verb := range strongVerbs {
		if strings.HasPrefix(lower, strings.ToLower(verb)) {
			return true
		}
	}
	return false
}

// stableOrder 返回按relevance降序的下标排列，相同分数保持原顺序。
func stableOrder(n int, relevance []int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return relevance[perm[a]] > relevance[perm[b]]
	})
	return perm
}

func identity(perm []int) bool {
	for i, p := range perm {
		if p != i {
			return false
		}
	}
	return true
}
