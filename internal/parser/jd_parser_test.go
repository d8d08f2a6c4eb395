package parser

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/cache"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/matcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheKeyFor(text string) string {
	sum := md5.Sum([]byte(text))
	return fmt.Sprintf(constants.KeyJobParsed, hex.EncodeToString(sum[:]))
}

const sampleJD = `Senior Backend Engineer, Full-Time.

About us
We build developer tools used by thousands of teams.

Responsibilities
- Design and operate Go microservices on Kubernetes
- Own the PostgreSQL data layer end to end

Requirements
- 5+ years of experience with backend development
- Proficiency in Go and Docker required for this role

Nice to have
- Familiarity with Terraform and AWS infrastructure

Benefits
- Remote friendly, generous equipment budget
`

func newTestJDParser(t *testing.T) (*JDParser, *cache.Memory) {
	t.Helper()
	mem := cache.NewMemory()
	t.Cleanup(func() { mem.Close() })
	return NewJDParser(matcher.New(), mem, nil), mem
}

func TestJDParseEmptyInput(t *testing.T) {
	p, _ := newTestJDParser(t)
	_, err := p.Parse(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyJobDescription)
}

func TestJDParseSections(t *testing.T) {
	p, _ := newTestJDParser(t)
	jd, err := p.Parse(context.Background(), sampleJD)
	require.NoError(t, err)

	assert.Contains(t, jd.Sections.Responsibilities, "Go microservices")
	assert.Contains(t, jd.Sections.Requirements, "5+ years")
	assert.Contains(t, jd.Sections.Qualifications, "Terraform")
	assert.Contains(t, jd.Sections.Benefits, "Remote friendly")
	assert.Contains(t, jd.Sections.About, "developer tools")
	// 标题行之前的内容落在other
	assert.Contains(t, jd.Sections.Other, "Senior Backend Engineer")
}

func TestJDParseKeywordsAreCanonical(t *testing.T) {
	p, _ := newTestJDParser(t)
	jd, err := p.Parse(context.Background(), sampleJD)
	require.NoError(t, err)

	assert.Contains(t, jd.Keywords.Technical, "Go")
	assert.Contains(t, jd.Keywords.Technical, "Kubernetes")
	assert.Contains(t, jd.Keywords.Technical, "PostgreSQL")
	assert.Contains(t, jd.Keywords.Technical, "Docker")
	assert.Contains(t, jd.Keywords.Technical, "Terraform")
	assert.Contains(t, jd.Keywords.Technical, "AWS")
}

func TestJDParseRequirements(t *testing.T) {
	p, _ := newTestJDParser(t)
	jd, err := p.Parse(context.Background(), sampleJD)
	require.NoError(t, err)

	require.Len(t, jd.Requirements.Required, 2)
	assert.Contains(t, jd.Requirements.Required[0], "5+ years")
	require.Len(t, jd.Requirements.Preferred, 1)
	assert.Contains(t, jd.Requirements.Preferred[0], "Terraform")
}

func TestJDParseMetadata(t *testing.T) {
	p, _ := newTestJDParser(t)
	jd, err := p.Parse(context.Background(), sampleJD)
	require.NoError(t, err)

	assert.Equal(t, "Senior", jd.Metadata.ExperienceLevel)
	assert.Equal(t, 5, jd.Metadata.YearsRequired)
	assert.Equal(t, "Full-Time", jd.Metadata.EmploymentType)
}

func TestJDParseMetadataTerseYearsPhrasing(t *testing.T) {
	p, _ := newTestJDParser(t)

	// 年限后不跟"of experience"也要能识别
	jd, err := p.Parse(context.Background(), "Requires 5+ years Python, AWS, Docker. Bachelor's degree required.")
	require.NoError(t, err)

	assert.Equal(t, 5, jd.Metadata.YearsRequired)
	assert.Equal(t, "Bachelors", jd.Metadata.EducationLevel)
}

func TestJDParseCacheRoundTrip(t *testing.T) {
	p, mem := newTestJDParser(t)
	ctx := context.Background()

	first, err := p.Parse(ctx, sampleJD)
	require.NoError(t, err)
	require.Equal(t, 1, mem.Len())

	// 第二次解析应命中缓存并得到等价结果
	second, err := p.Parse(ctx, sampleJD)
	require.NoError(t, err)
	assert.Equal(t, first.Keywords, second.Keywords)
	assert.Equal(t, first.Sections, second.Sections)
	assert.Equal(t, first.Requirements, second.Requirements)
	assert.Equal(t, first.Metadata, second.Metadata)
	assert.Equal(t, first.RawText, second.RawText)
}

func TestJDParseDifferentTextsGetDifferentCacheKeys(t *testing.T) {
	p, mem := newTestJDParser(t)
	ctx := context.Background()

	_, err := p.Parse(ctx, sampleJD)
	require.NoError(t, err)
	_, err = p.Parse(ctx, sampleJD+" extra line")
	require.NoError(t, err)
	assert.Equal(t, 2, mem.Len())
}

func TestJDParseCorruptCacheEntryIgnored(t *testing.T) {
	p, mem := newTestJDParser(t)
	ctx := context.Background()

	// 先正常解析拿到缓存键，再污染缓存内容
	_, err := p.Parse(ctx, sampleJD)
	require.NoError(t, err)

	jd, err := p.Parse(ctx, sampleJD)
	require.NoError(t, err)
	require.NotNil(t, jd)

	// 污染后应重新解析而非报错
	mem.Set(ctx, cacheKeyFor(sampleJD), "{not json", time.Minute)
	jd, err = p.Parse(ctx, sampleJD)
	require.NoError(t, err)
	assert.Contains(t, jd.Keywords.Technical, "Go")
}

func TestJDParseNilCache(t *testing.T) {
	p := NewJDParser(matcher.New(), nil, nil)
	jd, err := p.Parse(context.Background(), sampleJD)
	require.NoError(t, err)
	assert.NotEmpty(t, jd.Keywords.Technical)
}
