package optimizer

import (
	"strings"
	"testing"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *types.ParsedResume {
	return &types.ParsedResume{
		Contact: types.Contact{
			Name:  "John Smith",
			Email: "john@example.com",
			Phone: "415-555-0134",
		},
		Summary: "Backend engineer focused on distributed systems.",
		Experience: []types.Experience{
			{
				Title:     "Senior Engineer",
				Company:   "Acme",
				StartDate: "2020",
				EndDate:   "Present",
				Bullets: []string{
					"Built internal dashboards and admin tooling using React",
					"Maintained legacy billing scripts",
				},
			},
			{
				Title:   "Engineer",
				Company: "Widget",
				Bullets: []string{
					"Shipped reporting features with Python",
				},
			},
		},
		Education: []types.Education{{Institution: "MIT", Degree: "B.S", Field: "CS"}},
		Skills:    []string{"Go", "Python", "React", "Docker", "PostgreSQL"},
	}
}

func sampleAnalysis() *types.AnalysisResult {
	return &types.AnalysisResult{
		ATSScore:        60,
		MatchedKeywords: []string{"Go", "React"},
		MissingKeywords: []string{"GraphQL", "Terraform"},
		MatchedSkills:   []string{"Go", "React"},
		MissingSkills:   []string{"GraphQL"},
	}
}

func TestKeywordLimitPerAggressiveness(t *testing.T) {
	assert.Equal(t, 3, keywordLimit(Conservative, 10))
	assert.Equal(t, 5, keywordLimit(Moderate, 10))
	assert.Equal(t, 8, keywordLimit(Aggressive, 10))
	// 缺失数不足时取缺失数
	assert.Equal(t, 2, keywordLimit(Aggressive, 2))
}

func TestIntegrateKeywordNaturally(t *testing.T) {
	bullet := "Built internal dashboards and admin tooling using React"
	got := integrateKeywordNaturally(bullet, "GraphQL")
	assert.Equal(t, "Built internal dashboards and admin tooling using React, GraphQL", got)
}

func TestIntegrateKeywordNaturallyTriesWithAndIn(t *testing.T) {
	got := integrateKeywordNaturally("Shipped several large reporting features with Python", "Pandas")
	assert.Equal(t, "Shipped several large reporting features with Python, Pandas", got)

	got = integrateKeywordNaturally("Delivered three consumer products written entirely in Go", "gRPC")
	assert.Equal(t, "Delivered three consumer products written entirely in Go, gRPC", got)
}

func TestIntegrateKeywordNaturallySkipsWhenPresent(t *testing.T) {
	bullet := "Built dashboards using React and GraphQL subscriptions"
	assert.Equal(t, bullet, integrateKeywordNaturally(bullet, "graphql"))
}

func TestIntegrateKeywordNaturallyRejectsExcessGrowth(t *testing.T) {
	// 4词的bullet注入2词关键词: 6 > floor(4*1.15)=4
	bullet := "Built apps using Go"
	assert.Equal(t, bullet, integrateKeywordNaturally(bullet, "machine learning"))
}

func TestIntegrateKeywordNaturallyNoInsertionPoint(t *testing.T) {
	bullet := "Reduced deployment time by 40%"
	assert.Equal(t, bullet, integrateKeywordNaturally(bullet, "Terraform"))
}

func TestOptimizeStructuredAddsSkillsAndBulletKeywords(t *testing.T) {
	resume := sampleResume()
	res := Optimize("", resume, sampleAnalysis(), Preferences{Aggressiveness: Moderate})

	assert.Contains(t, res.OptimizedData.Skills, "GraphQL")
	assert.Contains(t, res.OptimizedData.Skills, "Terraform")

	var skillAdds, bulletAdds int
	for _, c := range res.Changes {
		if c.Type != "keyword_added" {
			continue
		}
		if c.Location == "skills" {
			skillAdds++
		}
		if strings.Contains(c.Location, "bullets") {
			bulletAdds++
			assert.NotEmpty(t, c.Original)
			assert.NotEqual(t, c.Original, c.Modified)
		}
	}
	assert.Equal(t, 2, skillAdds)
	assert.GreaterOrEqual(t, bulletAdds, 1)

	// 输入简历不被修改
	assert.NotContains(t, resume.Skills, "GraphQL")
	assert.NotContains(t, resume.Experience[0].Bullets[0], "GraphQL")
}

func TestOptimizeMutationOnly(t *testing.T) {
	resumeText := `John Smith

EXPERIENCE
• Built internal dashboards and admin tooling using React
• Maintained legacy billing scripts

SKILLS
Go, Python, React`

	resume := sampleResume()
	res := Optimize(resumeText, resume, sampleAnalysis(), Preferences{Aggressiveness: Moderate, MutationOnly: true})

	// 只有被改写的bullet发生变化，其余文本逐字保留
	assert.Contains(t, res.OptimizedText, "using React, GraphQL")
	assert.Contains(t, res.OptimizedText, "Maintained legacy billing scripts")
	assert.Contains(t, res.OptimizedText, "SKILLS\nGo, Python, React")

	// MutationOnly不向skills追加关键词
	for _, c := range res.Changes {
		assert.NotEqual(t, "skills", c.Location)
	}
}

func TestApplyChangesFirstOccurrenceOnly(t *testing.T) {
	text := "alpha beta\nalpha beta\n"
	changes := []types.Change{{
		Type:     "keyword_added",
		Location: "experience.0.bullets.0",
		Original: "alpha beta",
		Modified: "alpha beta, gamma",
	}}
	got := ApplyChangesToOriginalText(text, changes)
	assert.Equal(t, "alpha beta, gamma\nalpha beta\n", got)
}

func TestApplyChangesSkipsNonMatching(t *testing.T) {
	text := "original resume text"
	changes := []types.Change{
		{Type: "content_reordered", Location: "experience.0.bullets", Original: "original", Modified: "x"},
		{Type: "keyword_added", Location: "skills", Original: "original", Modified: "x"},
		{Type: "keyword_added", Location: "experience.0.bullets.0", Original: "not present", Modified: "x"},
		{Type: "keyword_added", Location: "experience.0.bullets.0", Original: "", Modified: "x"},
	}
	assert.Equal(t, text, ApplyChangesToOriginalText(text, changes))
}

func TestReorderContentMovesRelevantExperienceFirst(t *testing.T) {
	data := &types.ParsedResume{
		Experience: []types.Experience{
			{Title: "Barista", Bullets: []string{"Served coffee"}},
			{Title: "Go Engineer", Bullets: []string{"Built services with go and docker"}},
		},
	}
	analysis := &types.AnalysisResult{MatchedKeywords: []string{"Go", "Docker"}}

	changes := []types.Change{}
	reorderContent(data, analysis, &changes)

	assert.Equal(t, "Go Engineer", data.Experience[0].Title)
	assert.Equal(t, "Barista", data.Experience[1].Title)

	require.NotEmpty(t, changes)
	assert.Equal(t, "content_reordered", changes[0].Type)
	assert.Equal(t, "experience", changes[0].Location)
	// 审计字段记录重排前后的标题顺序
	assert.Equal(t, "Barista, Go Engineer", changes[0].Original)
	assert.Equal(t, "Go Engineer, Barista", changes[0].Modified)
}

func TestExperienceTitles(t *testing.T) {
	assert.Equal(t, "", experienceTitles(nil))
	assert.Equal(t, "Engineer", experienceTitles([]types.Experience{{Title: "Engineer"}}))
	assert.Equal(t, "Engineer, Manager", experienceTitles([]types.Experience{
		{Title: "Engineer"},
		{Title: "Manager"},
	}))
}

func TestReorderContentStableOnTies(t *testing.T) {
	data := &types.ParsedResume{
		Experience: []types.Experience{
			{Title: "First", Bullets: []string{"go work"}},
			{Title: "Second", Bullets: []string{"go work"}},
		},
	}
	analysis := &types.AnalysisResult{MatchedKeywords: []string{"Go"}}

	changes := []types.Change{}
	reorderContent(data, analysis, &changes)

	// 同分保持原顺序且不记录变更
	assert.Equal(t, "First", data.Experience[0].Title)
	assert.Empty(t, changes)
}

func TestReorderContentPreservesEntrySet(t *testing.T) {
	data := sampleResume()
	before := map[string]bool{}
	for _, e := range data.Experience {
		before[e.Title] = true
	}

	changes := []types.Change{}
	reorderContent(data, sampleAnalysis(), &changes)

	after := map[string]bool{}
	for _, e := range data.Experience {
		after[e.Title] = true
	}
	assert.Equal(t, before, after)
}

func TestEnhanceActionVerbsWeakPhrases(t *testing.T) {
	data := &types.ParsedResume{
		Experience: []types.Experience{{
			Title: "Engineer",
			Bullets: []string{
				"Responsible for release management",
				"worked on the billing system",
				"Led the migration to Kubernetes",
			},
		}},
	}

	changes := []types.Change{}
	enhanceActionVerbs(data, &changes)

	assert.Equal(t, "Led release management", data.Experience[0].Bullets[0])
	assert.Equal(t, "Developed the billing system", data.Experience[0].Bullets[1])
	// 已是强动词开头的bullet不动
	assert.Equal(t, "Led the migration to Kubernetes", data.Experience[0].Bullets[2])

	assert.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, "verb_enhanced", c.Type)
		assert.Equal(t, "medium", c.Impact)
	}
}

func TestEnhanceActionVerbsOpeningGerund(t *testing.T) {
	data := &types.ParsedResume{
		Experience: []types.Experience{{
			Bullets: []string{"Maintaining the deployment pipeline"},
		}},
	}

	changes := []types.Change{}
	enhanceActionVerbs(data, &changes)

	got := data.Experience[0].Bullets[0]
	assert.NotEqual(t, "Maintaining the deployment pipeline", got)
	assert.True(t, strings.HasSuffix(got, " the deployment pipeline"))
	assert.True(t, startsWithStrongVerb(got))
	require.Len(t, changes, 1)
}

func TestEnhanceActionVerbsSkipsPastTense(t *testing.T) {
	data := &types.ParsedResume{
		Experience: []types.Experience{{
			Bullets: []string{"Shipped the v2 API on schedule"},
		}},
	}
	changes := []types.Change{}
	enhanceActionVerbs(data, &changes)
	assert.Equal(t, "Shipped the v2 API on schedule", data.Experience[0].Bullets[0])
	assert.Empty(t, changes)
}

func TestOptimizeSectionsAdvisoryChanges(t *testing.T) {
	data := &types.ParsedResume{Skills: []string{"Go", "Docker"}}
	analysis := &types.AnalysisResult{
		JobData: &types.ParsedJobDescription{
			Keywords: types.Keywords{Certifications: []string{"AWS Certified", "CKA", "PMP"}},
		},
	}

	changes := []types.Change{}
	optimizeSections(data, analysis, &changes)

	require.Len(t, changes, 2)
	assert.Equal(t, "section_added", changes[0].Type)
	assert.Equal(t, "certifications", changes[0].Location)
	assert.Contains(t, changes[0].Reason, "AWS Certified")
	assert.NotContains(t, changes[0].Reason, "PMP")

	assert.Equal(t, "section_optimization", changes[1].Type)
	assert.Equal(t, "2 skills", changes[1].Original)
}

func TestRenderTextLayout(t *testing.T) {
	text := RenderText(sampleResume())

	assert.True(t, strings.HasPrefix(text, "John Smith\n"))
	assert.Contains(t, text, "john@example.com | 415-555-0134")
	assert.Contains(t, text, "PROFESSIONAL SUMMARY\n")
	assert.Contains(t, text, "EXPERIENCE\n\n")
	assert.Contains(t, text, "Senior Engineer | Acme | 2020 - Present")
	assert.Contains(t, text, "• Built internal dashboards and admin tooling using React")
	assert.Contains(t, text, "EDUCATION\n\n")
	assert.Contains(t, text, "B.S in CS\nMIT")
	assert.Contains(t, text, "SKILLS\nGo, Python, React, Docker, PostgreSQL")
	// 末尾无多余空白
	assert.Equal(t, strings.TrimSpace(text), text)
}

func TestOptimizeStructuredRoundTrip(t *testing.T) {
	res := Optimize("", sampleResume(), sampleAnalysis(), Preferences{})
	require.NotEmpty(t, res.OptimizedText)
	require.NotNil(t, res.OptimizedData)
	// 补进skills的关键词出现在渲染文本里
	assert.Contains(t, res.OptimizedText, "GraphQL")
	assert.NotEmpty(t, res.Changes)
}
