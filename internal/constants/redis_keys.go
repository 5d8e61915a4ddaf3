package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: resume_insights:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "resume_insights"

	// EntityCache 分析结果缓存实体
	EntityCache = "cache"
	// EntitySubmission 异步提交实体
	EntitySubmission = "submission"
	// EntityLock 分布式锁实体
	EntityLock = "lock"

	// KeyAnalysisCache 分析结果缓存 (STRING, JSON)
	// 格式: resume_insights:cache:{digest}
	KeyAnalysisCache = AppPrefix + ":" + EntityCache + ":%s"

	// KeySubmission 异步提交的状态与报告 (STRING, JSON)
	// 格式: resume_insights:submission:{submissionID}
	KeySubmission = AppPrefix + ":" + EntitySubmission + ":%s"

	// KeySubmissionLock 处理某个提交时持有的锁，防止重复投递被并发处理
	// 格式: resume_insights:lock:{submissionID}
	KeySubmissionLock = AppPrefix + ":" + EntityLock + ":%s"
)
