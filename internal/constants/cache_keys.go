package constants

// 缓存Key前缀和格式常量
// 统一命名规范: ats:{module}:{entity}:{unique_id}
const (
	// AppPrefix 所有缓存Key的统一应用前缀
	AppPrefix = "ats"

	// JobModulePrefix 职位模块
	JobModulePrefix = "job"
	// ImproveModulePrefix 原位改写模块
	ImproveModulePrefix = "improve"

	// KeyJobParsed 解析后的JD缓存 (值为JSON)
	// 格式: ats:job:parsed:{md5}
	KeyJobParsed = AppPrefix + ":" + JobModulePrefix + ":parsed:%s"

	// KeyImproveTask 异步改写任务状态 (值为JSON)
	// 格式: ats:improve:task:{task_id}
	KeyImproveTask = AppPrefix + ":" + ImproveModulePrefix + ":task:%s"
)
