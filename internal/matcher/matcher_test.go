package matcher

import (
	"testing"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywordsEmptyText(t *testing.T) {
	m := New()
	kw := m.ExtractKeywords("   ")
	assert.Empty(t, kw.Technical)
	assert.Empty(t, kw.Soft)
	assert.Empty(t, kw.Tools)
	assert.Empty(t, kw.Certifications)
	assert.Empty(t, kw.Phrases)
}

func TestExtractTechnicalCanonicalNames(t *testing.T) {
	m := New()
	kw := m.ExtractKeywords("Built services in golang and nodejs, deployed with k8s on amazon web services.")

	assert.Contains(t, kw.Technical, "Go")
	assert.Contains(t, kw.Technical, "Node.js")
	assert.Contains(t, kw.Technical, "Kubernetes")
	assert.Contains(t, kw.Technical, "AWS")
}

func TestExtractWholeWordOnly(t *testing.T) {
	m := New()
	// json 不应命中 JavaScript 的 js 写法，restore 不应命中 REST
	kw := m.ExtractKeywords("Parsed json payloads and restored backups.")
	assert.NotContains(t, kw.Technical, "JavaScript")
	assert.NotContains(t, kw.Technical, "REST API")
}

func TestExtractSymbolEdgedNames(t *testing.T) {
	m := New()
	kw := m.ExtractKeywords("Maintained C++ services and a C# desktop client on .NET.")
	assert.Contains(t, kw.Technical, "C++")
	assert.Contains(t, kw.Technical, "C#")
	assert.Contains(t, kw.Technical, "ASP.NET")
}

func TestExtractDedupAcrossAlternates(t *testing.T) {
	m := New()
	// 同组多个写法命中只产出一个规范名
	kw := m.ExtractKeywords("react reactjs react.js")
	count := 0
	for _, k := range kw.Technical {
		if k == "React" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractPriorityOrder(t *testing.T) {
	m := New()
	kw := m.ExtractKeywords("Experienced with CSS, HTML and Python.")

	// Python(95) 排在 HTML/CSS(50) 之前
	require.NotEmpty(t, kw.Technical)
	assert.Equal(t, "Python", kw.Technical[0])
}

func TestExtractSoftSkillsAndPhrases(t *testing.T) {
	m := New()
	kw := m.ExtractKeywords("Led cross-functional teams, focused on code review and unit testing. Strong communication.")

	assert.Contains(t, kw.Soft, "Leadership")
	assert.Contains(t, kw.Soft, "Communication")
	assert.Contains(t, kw.Phrases, "Code Review")
	assert.Contains(t, kw.Phrases, "Unit Testing")
}

func TestExtractCertifications(t *testing.T) {
	m := New()
	kw := m.ExtractKeywords("AWS Certified Solutions Architect, Certified Kubernetes Administrator.")
	assert.Contains(t, kw.Certifications, "AWS Certified")
	assert.Contains(t, kw.Certifications, "CKA")
}

func TestMatchExactTier(t *testing.T) {
	resume := types.Keywords{Technical: []string{"Docker", "Go"}}
	job := types.Keywords{Technical: []string{"Docker"}}

	res := New().MatchKeywordSets(resume, job)
	require.Len(t, res.Details, 1)
	assert.Equal(t, types.MatchExact, res.Details[0].MatchType)
	assert.Equal(t, 100, res.Details[0].Confidence)
	assert.Equal(t, []string{"Docker"}, res.Matched)
	assert.Equal(t, 100, res.Confidence)
}

func TestMatchSynonymTier(t *testing.T) {
	// JD要kubernetes，简历只有k8s写法(作为独立关键词)
	resume := types.Keywords{Technical: []string{"k8s"}}
	job := types.Keywords{Technical: []string{"Kubernetes"}}

	res := New().MatchKeywordSets(resume, job)
	require.Len(t, res.Details, 1)
	assert.Equal(t, types.MatchSynonym, res.Details[0].MatchType)
	assert.Equal(t, 90, res.Details[0].Confidence)
}

func TestMatchPartialTier(t *testing.T) {
	resume := types.Keywords{Phrases: []string{"Advanced Unit Testing"}}
	job := types.Keywords{Phrases: []string{"Unit Testing"}}

	res := New().MatchKeywordSets(resume, job)
	require.Len(t, res.Details, 1)
	assert.Equal(t, types.MatchPartial, res.Details[0].MatchType)
	assert.Equal(t, 75, res.Details[0].Confidence)
}

func TestMatchFuzzyTier(t *testing.T) {
	// 笔误: kubernets 与目标仅差一个字符，相似度0.9
	resume := types.Keywords{Technical: []string{"Xubernetes"}}
	job := types.Keywords{Technical: []string{"Kubernetes"}}

	res := New().MatchKeywordSets(resume, job)
	require.Len(t, res.Details, 1)
	assert.Equal(t, types.MatchFuzzy, res.Details[0].MatchType)
	assert.Equal(t, 90, res.Details[0].Confidence)
}

func TestMatchMissing(t *testing.T) {
	resume := types.Keywords{Technical: []string{"Python"}}
	job := types.Keywords{Technical: []string{"Rust", "Python"}}

	res := New().MatchKeywordSets(resume, job)
	assert.Equal(t, []string{"Rust"}, res.Missing)
	assert.Equal(t, []string{"Python"}, res.Matched)
	// 2个JD关键词匹配1个 = 50%
	assert.Equal(t, 50, res.Confidence)
}

func TestMatchEmptyJobKeywords(t *testing.T) {
	res := New().MatchKeywordSets(types.Keywords{Technical: []string{"Go"}}, types.Keywords{})
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 0, res.Confidence)
}

func TestMatchEndToEnd(t *testing.T) {
	resumeText := "Senior engineer: golang, Docker, postgres, REST APIs. Leading a team of 4."
	jobText := "Looking for Go developer with Docker, PostgreSQL and RESTful services. Leadership a plus."

	res := New().Match(resumeText, jobText)
	assert.Contains(t, res.Matched, "Go")
	assert.Contains(t, res.Matched, "Docker")
	assert.Contains(t, res.Matched, "PostgreSQL")
	assert.Contains(t, res.Matched, "Leadership")
	assert.Greater(t, res.Confidence, 50)
}
