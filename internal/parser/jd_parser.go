package parser

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/cache"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/matcher"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/tracing"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"

	"github.com/rs/zerolog"
)

// ErrEmptyJobDescription 输入JD文本为空。
var ErrEmptyJobDescription = errors.New("parser: job description is empty")

// JDParser 职位描述解析器。
// 对相同原文的解析结果是纯derive，因此按内容MD5缓存，命中时跳过整套解析。
type JDParser struct {
	matcher *matcher.Matcher
	cache   cache.Store
	logger  *zerolog.Logger
}

// NewJDParser 创建JD解析器。cache为nil时不做缓存。
func NewJDParser(m *matcher.Matcher, store cache.Store, logger *zerolog.Logger) *JDParser {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &JDParser{matcher: m, cache: store, logger: logger}
}

// JD区块标题模式。逐行扫描，命中标题行即切换当前区块。
var jdSectionPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"responsibilities", regexp.MustCompile(`(?i)^(responsibilities|duties|what you('ll| will) do|role|job description|key responsibilities)`)},
	{"requirements", regexp.MustCompile(`(?i)^(requirements|required|must have|what we('re| are) looking for|minimum qualifications)`)},
	{"qualifications", regexp.MustCompile(`(?i)^(qualifications|preferred|nice to have|bonus|plus|ideal candidate|desired)`)},
	{"benefits", regexp.MustCompile(`(?i)^(benefits|perks|what we offer|compensation|why join|why work)`)},
	{"about", regexp.MustCompile(`(?i)^(about|who we are|company|our mission|our team)`)},
}

var (
	reqBulletRe      = regexp.MustCompile(`^[•\-\*\d+.]`)
	reqBulletTrimRe  = regexp.MustCompile(`^[•\-\*\d+.]\s*`)
	requiredHeadRe   = regexp.MustCompile(`^(required|must have|minimum)`)
	preferredHeadRe  = regexp.MustCompile(`^(preferred|nice to have|bonus|plus)`)
	yearsRequiredRe  = regexp.MustCompile(`(?i)(\d+)\+?\s*years?`)
	seniorLevelRe    = regexp.MustCompile(`\b(senior|sr\.|lead|principal|staff)\b`)
	midLevelRe       = regexp.MustCompile(`\b(mid-level|intermediate|mid level)\b`)
	juniorLevelRe    = regexp.MustCompile(`\b(junior|jr\.|entry|entry-level|entry level)\b`)
	internLevelRe    = regexp.MustCompile(`\b(intern|internship)\b`)
	phdRe            = regexp.MustCompile(`\b(phd|ph\.d|doctorate)\b`)
	mastersRe        = regexp.MustCompile(`\b(master|masters|ms|m\.s|mba|m\.b\.a)\b`)
	bachelorsRe      = regexp.MustCompile(`\b(bachelor|bachelors|bs|b\.s|ba|b\.a|degree)\b`)
	fullTimeRe       = regexp.MustCompile(`\b(full-time|full time|fulltime)\b`)
	partTimeRe       = regexp.MustCompile(`\b(part-time|part time|parttime)\b`)
	contractRe       = regexp.MustCompile(`\b(contract|contractor)\b`)
)

// Parse 解析JD。缓存命中直接返回反序列化结果，未命中则解析后回填缓存。
func (p *JDParser) Parse(ctx context.Context, jobDescription string) (*types.ParsedJobDescription, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}

	sum := md5.Sum([]byte(jobDescription))
	cacheKey := fmt.Sprintf(constants.KeyJobParsed, hex.EncodeToString(sum[:]))

	if p.cache != nil {
		if raw, err := p.cache.Get(ctx, cacheKey); err == nil {
			var cached types.ParsedJobDescription
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				p.logger.Debug().Str("cache_key", tracing.SafeRedisKey(cacheKey)).Msg("JD解析结果命中缓存")
				return &cached, nil
			}
			// 缓存内容损坏时当作未命中，重新解析覆盖
			p.logger.Warn().Str("cache_key", tracing.SafeRedisKey(cacheKey)).Msg("JD缓存内容无法反序列化，忽略")
		}
	}

	sections := identifySections(jobDescription)
	result := &types.ParsedJobDescription{
		Sections:     sections,
		Keywords:     p.matcher.ExtractKeywords(jobDescription),
		Requirements: classifyRequirements(jobDescription, sections),
		Metadata:     extractMetadata(jobDescription),
		RawText:      jobDescription,
	}

	if p.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := p.cache.Set(ctx, cacheKey, string(raw), constants.JDCacheTTL); err != nil {
				p.logger.Warn().Err(err).Str("cache_key", tracing.SafeRedisKey(cacheKey)).Msg("写入JD解析缓存失败")
			}
		}
	}
	return result, nil
}

// identifySections 逐行扫描，按标题行把JD切成固定的几个区块。
// 标题行本身不进入区块内容，标题前的内容归入other。
func identifySections(text string) types.JDSections {
	contents := map[string][]string{}
	current := "other"

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		matched := false
		for _, sp := range jdSectionPatterns {
			if sp.re.MatchString(line) {
				current = sp.name
				matched = true
				break
			}
		}
		if !matched {
			contents[current] = append(contents[current], line)
		}
	}

	join := func(name string) string { return strings.Join(contents[name], "\n") }
	return types.JDSections{
		Responsibilities: join("responsibilities"),
		Requirements:     join("requirements"),
		Qualifications:   join("qualifications"),
		Benefits:         join("benefits"),
		About:            join("about"),
		Other:            join("other"),
	}
}

// classifyRequirements 把requirements区块的条目归为必备，
// qualifications区块的归为优先。两个区块都没有条目时退回全篇扫描，
// 根据就近的标题行决定归属，无上下文时默认必备。
func classifyRequirements(text string, sections types.JDSections) types.Requirements {
	req := types.Requirements{Required: []string{}, Preferred: []string{}}

	collect := func(sectionText string, dst *[]string) {
		for _, line := range strings.Split(sectionText, "\n") {
			trimmed := strings.TrimSpace(line)
			if reqBulletRe.MatchString(trimmed) {
				cleaned := strings.TrimSpace(reqBulletTrimRe.ReplaceAllString(trimmed, ""))
				if len(cleaned) > 10 {
					*dst = append(*dst, cleaned)
				}
			}
		}
	}
	collect(sections.Requirements, &req.Required)
	collect(sections.Qualifications, &req.Preferred)

	if len(req.Required) > 0 || len(req.Preferred) > 0 {
		return req
	}

	inRequired, inPreferred := false, false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if requiredHeadRe.MatchString(lower) {
			inRequired, inPreferred = true, false
		} else if preferredHeadRe.MatchString(lower) {
			inRequired, inPreferred = false, true
		}

		if reqBulletRe.MatchString(trimmed) {
			cleaned := strings.TrimSpace(reqBulletTrimRe.ReplaceAllString(trimmed, ""))
			if len(cleaned) > 10 {
				switch {
				case inRequired:
					req.Required = append(req.Required, cleaned)
				case inPreferred:
					req.Preferred = append(req.Preferred, cleaned)
				default:
					req.Required = append(req.Required, cleaned)
				}
			}
		}
	}
	return req
}

// extractMetadata 各元信息字段独立抽取，模式按从高到低的档位排列，首个命中生效。
func extractMetadata(text string) types.JDMetadata {
	var md types.JDMetadata
	lower := strings.ToLower(text)

	switch {
	case seniorLevelRe.MatchString(lower):
		md.ExperienceLevel = "Senior"
	case midLevelRe.MatchString(lower):
		md.ExperienceLevel = "Mid-Level"
	case juniorLevelRe.MatchString(lower):
		md.ExperienceLevel = "Junior"
	case internLevelRe.MatchString(lower):
		md.ExperienceLevel = "Intern"
	}

	if m := yearsRequiredRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			md.YearsRequired = n
		}
	}

	switch {
	case phdRe.MatchString(lower):
		md.EducationLevel = "PhD"
	case mastersRe.MatchString(lower):
		md.EducationLevel = "Masters"
	case bachelorsRe.MatchString(lower):
		md.EducationLevel = "Bachelors"
	}

	switch {
	case fullTimeRe.MatchString(lower):
		md.EmploymentType = "Full-Time"
	case partTimeRe.MatchString(lower):
		md.EmploymentType = "Part-Time"
	case contractRe.MatchString(lower):
		md.EmploymentType = "Contract"
	case internLevelRe.MatchString(lower):
		md.EmploymentType = "Internship"
	}

	return md
}
