package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/constants"
	"github.com/aashutoshkumarbhardwaj/ATS-Resume-Optimizer/internal/types"
)

// ErrEmptyResume 输入简历文本为空。
var ErrEmptyResume = errors.New("parser: resume text is empty")

// 简历解析采用尽力而为策略: 任何字段解析失败都置空值，不报错。
// 只有整体输入为空时才返回错误。

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinRe = regexp.MustCompile(`(?i)(linkedin\.com/in/[\w\-]+)`)
	nameRe     = regexp.MustCompile(`^[A-Z][a-z]+(\s[A-Z][a-z]+){1,3}$`)
	locationRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s[A-Z][a-z]+)*),\s*([A-Z]{2}|[A-Z][a-z]+)`)

	// 摘要段: 标题后50~500字符，到空行或下一个区块标题为止
	summaryRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)professional summary[:\s]+(.{50,500}?)(?:\n\n|\nexperience|\neducation|\nskills)`),
		regexp.MustCompile(`(?is)summary[:\s]+(.{50,500}?)(?:\n\n|\nexperience|\neducation|\nskills)`),
		regexp.MustCompile(`(?is)profile[:\s]+(.{50,500}?)(?:\n\n|\nexperience|\neducation|\nskills)`),
		regexp.MustCompile(`(?is)objective[:\s]+(.{50,500}?)(?:\n\n|\nexperience|\neducation|\nskills)`),
	}

	expSectionRe    = regexp.MustCompile(`(?is)(?:experience|work history|employment)[:\s]+(.+?)(?:\n(?:education|skills|certifications|projects)|$)`)
	eduSectionRe    = regexp.MustCompile(`(?is)(?:education|academic)[:\s]+(.+?)(?:\n(?:experience|skills|certifications|projects)|$)`)
	skillsSectionRe = regexp.MustCompile(`(?is)(?:skills|technical skills|core competencies)[:\s]+(.+?)(?:\n(?:experience|education|certifications|projects)|$)`)
	certSectionRe   = regexp.MustCompile(`(?is)(?:certifications?|licenses?)[:\s]+(.+?)(?:\n(?:experience|education|skills|projects)|$)`)

	bulletPrefixRe = regexp.MustCompile(`^[•\-\*]\s*`)
	isBulletRe     = regexp.MustCompile(`^[•\-\*]`)
	yearRe         = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
	dateRangeRe    = regexp.MustCompile(`(?i)(\w+\s+20\d{2}|20\d{2})\s*[-–—]\s*(\w+\s+20\d{2}|20\d{2}|present|current)`)
	degreeRe       = regexp.MustCompile(`(?i)(bachelor|master|phd|ph\.d|associate|b\.s|m\.s|b\.a|m\.a|mba)(?:\s+of\s+)?(?:\s+science|\s+arts)?`)
	eduFieldRe     = regexp.MustCompile(`\bin\s+([A-Z][a-zA-Z\s]+?)(?:\s*,|\s*-|\s*\||$)`)
	skillDelimRe   = regexp.MustCompile(`[,•\-\*\n]`)
	skillPrefixRe  = regexp.MustCompile(`(?i)^(and|or)\s+`)
	titleAtRe      = regexp.MustCompile(`(?i)^(.+?)\s+at\s+(.+?)(?:\s*\||$)`)
	titleDashRe    = regexp.MustCompile(`(?i)^(.+?)\s*[-–—]\s*(.+?)(?:\s*\||$)`)
	titlePipeRe    = regexp.MustCompile(`(?i)^(.+?)\s*\|\s*(.+?)$`)
)

// ParseResume 从原始简历文本构造结构化简历。
func ParseResume(text string) (*types.ParsedResume, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResume
	}
	return &types.ParsedResume{
		Contact:        extractContact(text),
		Summary:        extractSummary(text),
		Experience:     extractExperience(text),
		Education:      extractEducation(text),
		Skills:         extractSkills(text),
		Certifications: extractResumeCerts(text),
	}, nil
}

func extractContact(text string) types.Contact {
	var c types.Contact

	if m := emailRe.FindString(text); m != "" {
		c.Email = m
	}
	if m := phoneRe.FindString(text); m != "" {
		c.Phone = m
	}
	if m := linkedinRe.FindString(text); m != "" {
		c.LinkedIn = m
	}

	// 姓名通常是首行: 2~4个首字母大写的单词
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < 50 && nameRe.MatchString(line) {
			c.Name = line
		}
		break
	}

	if m := locationRe.FindString(text); m != "" {
		c.Location = m
	}
	return c
}

func extractSummary(text string) string {
	for _, re := range summaryRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractExperience(text string) []types.Experience {
	experience := []types.Experience{}

	m := expSectionRe.FindStringSubmatch(text)
	if m == nil {
		return experience
	}

	lines := nonEmptyLines(m[1])

	var current *types.Experience
	var bullets []string

	for i, line := range lines {
		hasDate := yearRe.MatchString(line)
		isHeader := hasDate || (len(line) < 100 && !isBulletRe.MatchString(line))

		if isHeader && len(line) > 5 {
			if current != nil {
				current.Bullets = bullets
				experience = append(experience, *current)
				bullets = nil
			}
			next := ""
			if i+1 < len(lines) {
				next = lines[i+1]
			}
			job := parseJobEntry(line, next)
			current = &job
		} else if isBulletRe.MatchString(line) || (current != nil && len(line) > 10) {
			bullet := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
			if len(bullet) > 10 {
				bullets = append(bullets, bullet)
			}
		}
	}

	if current != nil {
		current.Bullets = bullets
		experience = append(experience, *current)
	}
	return experience
}

// parseJobEntry 从一条经历的头行(和可能的下一行)解析职位、公司和起止时间。
func parseJobEntry(line1, line2 string) types.Experience {
	var job types.Experience

	if m := dateRangeRe.FindStringSubmatch(line1 + " " + line2); m != nil {
		job.StartDate = m[1]
		job.EndDate = m[2]
	}

	// 常见写法: "Title at Company"、"Company - Title"、"Title | Company"
	for _, re := range []*regexp.Regexp{titleAtRe, titleDashRe, titlePipeRe} {
		if m := re.FindStringSubmatch(line1); m != nil {
			job.Title = strings.TrimSpace(m[1])
			job.Company = strings.TrimSpace(m[2])
			break
		}
	}

	if job.Title == "" && job.Company == "" {
		cleanLine := strings.TrimSpace(dateRangeRe.ReplaceAllString(line1, ""))
		switch {
		case strings.Contains(cleanLine, "|"):
			parts := strings.SplitN(cleanLine, "|", 2)
			job.Title = strings.TrimSpace(parts[0])
			job.Company = strings.TrimSpace(parts[1])
		case strings.Contains(cleanLine, "-"):
			parts := strings.SplitN(cleanLine, "-", 2)
			job.Title = strings.TrimSpace(parts[0])
			job.Company = strings.TrimSpace(parts[1])
		default:
			job.Title = cleanLine
			if line2 != "" && !isBulletRe.MatchString(line2) && len(line2) < 100 {
				job.Company = strings.TrimSpace(dateRangeRe.ReplaceAllString(line2, ""))
			}
		}
	}
	return job
}

func extractEducation(text string) []types.Education {
	education := []types.Education{}

	m := eduSectionRe.FindStringSubmatch(text)
	if m == nil {
		return education
	}

	var current *types.Education
	for _, line := range nonEmptyLines(m[1]) {
		hasDegree := degreeRe.MatchString(line)
		if hasDegree || (len(line) < 100 && !isBulletRe.MatchString(line)) {
			if current != nil {
				education = append(education, *current)
			}
			entry := parseEducationEntry(line)
			current = &entry
		}
	}
	if current != nil {
		education = append(education, *current)
	}
	return education
}

func parseEducationEntry(line string) types.Education {
	var edu types.Education

	if m := yearRe.FindString(line); m != "" {
		edu.GraduationDate = m
	}
	if m := degreeRe.FindString(line); m != "" {
		edu.Degree = m
	}
	if m := eduFieldRe.FindStringSubmatch(line); m != nil {
		edu.Field = strings.TrimSpace(m[1])
	}

	cleanLine := strings.TrimSpace(degreeRe.ReplaceAllString(yearRe.ReplaceAllString(line, ""), ""))
	parts := regexp.MustCompile(`[-,|]`).Split(cleanLine, -1)
	if len(parts) > 0 {
		edu.Institution = strings.TrimSpace(parts[0])
	}
	return edu
}

func extractSkills(text string) []string {
	skills := []string{}

	m := skillsSectionRe.FindStringSubmatch(text)
	if m == nil {
		return skills
	}

	for _, raw := range skillDelimRe.Split(m[1], -1) {
		trimmed := strings.TrimSpace(raw)
		if len(trimmed) >= constants.MinSkillLen && trimmed != "" && len(trimmed) < constants.MaxSkillLen {
			cleaned := strings.TrimSpace(skillPrefixRe.ReplaceAllString(trimmed, ""))
			if len(cleaned) >= constants.MinSkillLen {
				skills = append(skills, cleaned)
			}
		}
	}
	return skills
}

func extractResumeCerts(text string) []string {
	certs := []string{}

	m := certSectionRe.FindStringSubmatch(text)
	if m == nil {
		return certs
	}

	for _, line := range nonEmptyLines(m[1]) {
		cleaned := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
		if len(cleaned) > constants.MinCertLen && len(cleaned) < constants.MaxCertLen {
			certs = append(certs, cleaned)
		}
	}
	return certs
}

// nonEmptyLines 去掉首尾空白后的非空行。
func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
