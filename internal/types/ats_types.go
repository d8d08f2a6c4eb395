package types

// 本包定义ATS分析流水线中流转的全部结构化数据。
// 所有类型均为纯数据：每次分析调用重新构造，不携带任何共享状态。

// Contact 简历联系方式。字段缺失时为空字符串（尽力解析策略）。
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

// Experience 一段工作经历，Bullets 保持原文顺序。
type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Bullets   []string `json:"bullets"`
}

// Education 一条教育经历。
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduationDate"`
}

// ParsedResume 结构化简历。作为分析的输入工件视为不可变，
// 优化器只在深拷贝上工作。
type ParsedResume struct {
	Contact        Contact      `json:"contact"`
	Summary        string       `json:"summary"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Skills         []string     `json:"skills"`
	Certifications []string     `json:"certifications"`
}

// Clone 返回深拷贝，优化器在副本上做变更。
func (r *ParsedResume) Clone() *ParsedResume {
	if r == nil {
		return nil
	}
	out := *r
	out.Experience = make([]Experience, len(r.Experience))
	for i, exp := range r.Experience {
		out.Experience[i] = exp
		out.Experience[i].Bullets = append([]string(nil), exp.Bullets...)
	}
	out.Education = append([]Education(nil), r.Education...)
	out.Skills = append([]string(nil), r.Skills...)
	out.Certifications = append([]string(nil), r.Certifications...)
	return &out
}

// JDSections 职位描述按标题切分后的原文段落。
type JDSections struct {
	Responsibilities string `json:"responsibilities"`
	Requirements     string `json:"requirements"`
	Qualifications   string `json:"qualifications"`
	Benefits         string `json:"benefits"`
	About            string `json:"about"`
	Other            string `json:"other"`
}

// Keywords 按类别分组的规范化关键词集合，每个类别内部去重且按优先级排序。
type Keywords struct {
	Technical      []string `json:"technical"`
	Soft           []string `json:"soft"`
	Tools          []string `json:"tools"`
	Certifications []string `json:"certifications"`
	Phrases        []string `json:"phrases"`
}

// All 按 技术->软技能->工具->证书->短语 的固定顺序拼接全部关键词。
func (k Keywords) All() []string {
	out := make([]string, 0, len(k.Technical)+len(k.Soft)+len(k.Tools)+len(k.Certifications)+len(k.Phrases))
	out = append(out, k.Technical...)
	out = append(out, k.Soft...)
	out = append(out, k.Tools...)
	out = append(out, k.Certifications...)
	out = append(out, k.Phrases...)
	return out
}

// Requirements 从JD中抽取的必备/优先条目，保持出现顺序。
type Requirements struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

// JDMetadata 职位元信息，各字段独立抽取，首个命中生效。
type JDMetadata struct {
	ExperienceLevel string `json:"experienceLevel"`
	YearsRequired   int    `json:"yearsRequired"`
	EducationLevel  string `json:"educationLevel"`
	EmploymentType  string `json:"employmentType"`
}

// ParsedJobDescription 结构化职位描述。对相同原文是纯函数可重derive，
// 因此可以按内容哈希缓存。
type ParsedJobDescription struct {
	Sections     JDSections   `json:"sections"`
	Keywords     Keywords     `json:"keywords"`
	Requirements Requirements `json:"requirements"`
	Metadata     JDMetadata   `json:"metadata"`
	RawText      string       `json:"rawText"`
}

// MatchType 关键词匹配策略档位。
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchSynonym MatchType = "synonym"
	MatchPartial MatchType = "partial"
	MatchFuzzy   MatchType = "fuzzy"
)

// MatchDetail 单个JD关键词的匹配明细。
type MatchDetail struct {
	JobKeyword  string    `json:"jobKeyword"`
	ResumeMatch string    `json:"resumeMatch"`
	MatchType   MatchType `json:"matchType"`
	Confidence  int       `json:"confidence"`
}

// KeywordMatchResult 关键词匹配结果，派生数据，不持久化。
type KeywordMatchResult struct {
	Matched       []string      `json:"matched"`
	Missing       []string      `json:"missing"`
	MatchedSkills []string      `json:"matchedSkills"`
	MissingSkills []string      `json:"missingSkills"`
	Confidence    int           `json:"confidence"`
	Details       []MatchDetail `json:"details"`
}

// ScoreBreakdown 五个[0,1]子分。
// 不变式: atsScore = round(100 * Σ weight_i * subscore_i)，裁剪到[0,100]。
type ScoreBreakdown struct {
	KeywordMatch        float64 `json:"keywordMatch"`
	ExperienceRelevance float64 `json:"experienceRelevance"`
	SkillsAlignment     float64 `json:"skillsAlignment"`
	Formatting          float64 `json:"formatting"`
	Completeness        float64 `json:"completeness"`
}

// Suggestion 一条改进建议。
type Suggestion struct {
	Type     string `json:"type"`
	Priority string `json:"priority"` // high / medium / low
	Message  string `json:"message"`
	Impact   string `json:"impact"`
}

// AnalysisResult analyze入口的完整输出，可直接JSON序列化。
type AnalysisResult struct {
	ATSScore        int                   `json:"atsScore"`
	MatchedKeywords []string              `json:"matchedKeywords"`
	MissingKeywords []string              `json:"missingKeywords"`
	MatchedSkills   []string              `json:"matchedSkills"`
	MissingSkills   []string              `json:"missingSkills"`
	Suggestions     []Suggestion          `json:"suggestions"`
	Breakdown       ScoreBreakdown        `json:"breakdown"`
	ResumeData      *ParsedResume         `json:"resumeData,omitempty"`
	JobData         *ParsedJobDescription `json:"jobData,omitempty"`
}

// Change 优化器单次变更的审计记录。
type Change struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Original string `json:"original"`
	Modified string `json:"modified"`
	Reason   string `json:"reason"`
	Impact   string `json:"impact"` // low / medium / high
}

// OptimizationResult optimize入口的输出。
type OptimizationResult struct {
	OptimizedText    string        `json:"optimizedText"`
	OptimizedData    *ParsedResume `json:"optimizedData,omitempty"`
	Changes          []Change      `json:"changes"`
	OriginalScore    int           `json:"originalScore"`
	OptimizedScore   int           `json:"optimizedScore"`
	ScoreImprovement int           `json:"scoreImprovement"`
}

// Improvements compareVersions的差异摘要。
type Improvements struct {
	ATSScoreImprovement     int      `json:"atsScoreImprovement"`
	KeywordMatchImprovement int      `json:"keywordMatchImprovement"`
	NewKeywordsAdded        []string `json:"newKeywordsAdded"`
	KeywordsLost            []string `json:"keywordsLost"`
}

// ComparisonResult compareVersions的输出。
type ComparisonResult struct {
	Original     *AnalysisResult `json:"original"`
	Optimized    *AnalysisResult `json:"optimized"`
	Improvements Improvements    `json:"improvements"`
}

// TextLine PDF页面上一行渲染文本及其几何信息。
type TextLine struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LineDiff 将一次字面替换绑定到具体页面上的一行文本。
type LineDiff struct {
	Page     int      `json:"page"` // 0-based页索引
	Line     TextLine `json:"line"`
	Original string   `json:"original"`
	Improved string   `json:"improved"`
}

// ImproveTask 异步原位改写任务，经由消息队列投递给worker。
type ImproveTask struct {
	TaskID               string `json:"task_id"`
	ObjectKey            string `json:"object_key"`
	Filename             string `json:"filename"`
	JobDescription       string `json:"job_description"`
	MaxWordsAddedPerLine int    `json:"max_words_added_per_line"`
	AllowShrinkFont      bool   `json:"allow_shrink_font"`
}

// ImproveTaskStatus worker回写的任务状态。
type ImproveTaskStatus struct {
	TaskID         string     `json:"task_id"`
	Status         string     `json:"status"` // PENDING / PROCESSING / DONE / FAILED
	ResultKey      string     `json:"result_key,omitempty"`
	Error          string     `json:"error,omitempty"`
	Changes        []LineDiff `json:"changes,omitempty"`
	OriginalScore  int        `json:"original_score,omitempty"`
	OptimizedScore int        `json:"optimized_score,omitempty"`
}
