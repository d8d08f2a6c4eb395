package constants

import "time"

// 评分模型权重。五个子分加权求和后乘100得到最终ATS分。
const (
	WeightKeywordMatch        = 0.40
	WeightExperienceRelevance = 0.25
	WeightSkillsAlignment     = 0.20
	WeightFormatting          = 0.10
	WeightCompleteness        = 0.05
)

// 匹配策略各档位的置信度。
const (
	ConfidenceExact   = 100
	ConfidenceSynonym = 90
	ConfidencePartial = 75
	// FuzzyThreshold 模糊匹配的最低相似度，超过才算命中。
	FuzzyThreshold = 0.80
)

// 优化器限制。
const (
	// MaxKeywordDensity 单个bullet中关键词占比上限，避免堆砌。
	MaxKeywordDensity = 0.15
	// MaxBulletGrowth 注入关键词后bullet词数相对原文的上限倍率。
	MaxBulletGrowth = 1.15
	// MaxBulletIntegrations 单次优化最多向bullet注入的关键词数。
	MaxBulletIntegrations = 3
	// MaxSuggestions 建议列表截断长度。
	MaxSuggestions = 8
	// DefaultMaxWordsAddedPerLine PDF原位改写时单行允许新增的词数。
	DefaultMaxWordsAddedPerLine = 3
)

// 不同激进程度下允许整合的缺失关键词数量上限。
const (
	KeywordLimitConservative = 3
	KeywordLimitModerate     = 5
	KeywordLimitAggressive   = 8
)

// PDF原位改写的几何参数。
const (
	// LineClusterTolerance 行聚类时y坐标的容差(单位: PDF点)。
	LineClusterTolerance = 2.0
	// WordGapThreshold 同行相邻文本项之间视为空格的最小水平间距。
	WordGapThreshold = 2.0
	// MinFontSize 基准字号下限。
	MinFontSize = 8
	// MinShrunkFontSize 自动缩字后允许的最小字号。
	MinShrunkFontSize = 6
	// CoverHeightRatio 覆盖白底矩形相对行高的放大比例，盖住上伸下延部分。
	CoverHeightRatio = 1.2
)

// 缓存行为。
const (
	// JDCacheTTL 解析后的JD缓存时长。
	JDCacheTTL = time.Hour
	// CacheSweepInterval 过期条目的周期性清理间隔。
	CacheSweepInterval = 10 * time.Minute
	// ImproveTaskTTL 异步改写任务状态的保留时长。
	ImproveTaskTTL = 24 * time.Hour
	// ResultURLExpiry 改写结果预签名下载URL的有效期。
	ResultURLExpiry = time.Hour
)

// 异步改写任务的状态机。
const (
	TaskStatusPending    = "PENDING"
	TaskStatusProcessing = "PROCESSING"
	TaskStatusDone       = "DONE"
	TaskStatusFailed     = "FAILED"
)

// 简历解析时的长度过滤。
const (
	MinSkillLen = 2
	MaxSkillLen = 50
	MinCertLen  = 5
	MaxCertLen  = 150
)
