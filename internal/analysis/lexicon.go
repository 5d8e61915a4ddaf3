package analysis

// Section 简历分区名称
type Section string

const (
	SectionHeader         Section = "header"
	SectionEducation      Section = "education"
	SectionExperience     Section = "experience"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionAchievements   Section = "achievements"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
	SectionContact        Section = "contact"
)

// 分区的固定顺序，决定标题匹配的优先级
var sectionOrder = []Section{
	SectionHeader,
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionAchievements,
	SectionCertifications,
	SectionLanguages,
	SectionContact,
}

// AllSections 返回全部分区（含 header），顺序固定
func AllSections() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// ScoredSections 返回参与指标统计的 8 个分区（不含 header）
func ScoredSections() []Section {
	return AllSections()[1:]
}

type sectionKeywords struct {
	section  Section
	keywords []string
}

// 分区标题关键词表，按 sectionOrder 排列
var sectionTaxonomy = []sectionKeywords{
	{SectionEducation, []string{"education", "academic background", "degree", "university", "college", "school",
		"graduation", "diploma", "bachelor", "master", "phd", "doctorate"}},
	{SectionExperience, []string{"experience", "work history", "employment", "job", "position", "career",
		"professional background", "work experience", "internship", "intern"}},
	{SectionSkills, []string{"skills", "abilities", "competencies", "expertise", "proficiencies", "technical skills",
		"soft skills", "hard skills", "qualifications", "technical"}},
	{SectionProjects, []string{"projects", "portfolio", "personal projects", "academic projects", "project experience"}},
	{SectionAchievements, []string{"achievements", "accomplishments", "awards", "honors", "recognitions", "accolades"}},
	{SectionCertifications, []string{"certifications", "certificates", "licenses", "accreditations", "credentials"}},
	{SectionLanguages, []string{"languages", "language proficiency", "multilingual", "fluent in"}},
	{SectionContact, []string{"contact", "email", "phone", "address", "linkedin", "github", "website", "portfolio"}},
}

// 动词原形表
var actionVerbs = []string{
	"achieve", "improve", "develop", "create", "implement", "manage", "lead",
	"design", "analyze", "reduce", "increase", "negotiate", "streamline", "optimize",
	"coordinate", "launch", "execute", "generate", "deliver", "resolve", "spearhead",
	"produce", "transform", "build", "establish", "pioneer", "innovate", "administer",
	"modernize", "engineer", "direct", "accelerate", "formulate", "restructure",
	"gain", "partner", "assist", "maintain", "deploy", "contribute", "serve",
	"volunteer", "organize", "rank",
}

// 不规则过去式 -> 原形
var irregularVerbForms = map[string]string{
	"led":   "lead",
	"built": "build",
	"made":  "make",
	"ran":   "run",
	"won":   "win",
	"drove": "drive",
	"wrote": "write",
	"grew":  "grow",
	"began": "begin",
	"took":  "take",
}

var weakPhrases = []string{
	"responsible for", "duties included", "worked on", "involved in", "helped with",
	"assisted with", "participated in", "was tasked with", "was asked to",
}

// Industry 行业标识
type Industry string

const (
	IndustrySoftwareDevelopment Industry = "software_development"
	IndustryDataScience         Industry = "data_science"
	IndustryMarketing           Industry = "marketing"
	IndustryFinance             Industry = "finance"
	IndustryProjectManagement   Industry = "project_management"
)

var industryOrder = []Industry{
	IndustrySoftwareDevelopment,
	IndustryDataScience,
	IndustryMarketing,
	IndustryFinance,
	IndustryProjectManagement,
}

// Industries 返回已知行业，顺序固定
func Industries() []Industry {
	out := make([]Industry, len(industryOrder))
	copy(out, industryOrder)
	return out
}

// KeywordTable 行业 -> 关键词列表
type KeywordTable map[Industry][]string

// 行业识别用关键词（基础分析）
var defaultIndustryKeywords = KeywordTable{
	IndustrySoftwareDevelopment: {"python", "java", "javascript", "react", "node", "aws", "cloud", "api", "database",
		"frontend", "backend", "fullstack", "devops", "agile", "scrum", "ci/cd", "testing", "git", "docker",
		"kubernetes", "microservices", "express", "mongodb", "typescript", "next.js", "html5", "css3", "redux",
		"websockets", "jwt", "rest", "mern", "c++", "algorithms"},
	IndustryDataScience: {"machine learning", "artificial intelligence", "data analysis", "statistics", "python", "r",
		"sql", "pandas", "numpy", "tensorflow", "pytorch", "scikit-learn", "data visualization", "big data", "nlp",
		"computer vision", "deep learning"},
	IndustryMarketing: {"digital marketing", "seo", "sem", "content strategy", "social media", "analytics",
		"campaign management", "google analytics", "conversion optimization", "a/b testing",
		"customer acquisition", "funnel optimization", "brand management"},
	IndustryFinance: {"financial analysis", "accounting", "budgeting", "forecasting", "risk assessment",
		"portfolio management", "investment", "banking", "excel", "financial modeling"},
	IndustryProjectManagement: {"project management", "agile", "scrum", "kanban", "jira", "stakeholder", "timeline",
		"resource allocation", "risk management", "project planning"},
}

// ATS 评分用的行业标准关键词
var defaultATSKeywords = KeywordTable{
	IndustrySoftwareDevelopment: {"javascript", "python", "java", "react", "node.js", "api", "rest", "git", "aws",
		"cloud", "agile", "ci/cd", "backend", "frontend", "sql", "devops", "docker", "kubernetes", "testing",
		"microservices"},
	IndustryDataScience: {"machine learning", "deep learning", "neural networks", "ai", "data analysis", "python", "r",
		"sql", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "statistics", "big data",
		"data visualization", "nlp", "computer vision", "predictive modeling", "data mining", "feature engineering"},
	IndustryMarketing: {"digital marketing", "social media", "content marketing", "seo", "sem", "google analytics",
		"campaign management", "market research", "brand strategy", "email marketing", "crm", "customer journey",
		"analytics", "kpis", "conversion rate optimization", "a/b testing", "marketing automation"},
	IndustryFinance: {"financial analysis", "accounting", "budgeting", "forecasting", "risk assessment",
		"financial reporting", "investment analysis", "portfolio management", "excel", "financial modeling",
		"valuation", "cfa", "bloomberg", "financial statements", "compliance", "regulatory reporting", "audit", "tax"},
	IndustryProjectManagement: {"project management", "agile", "scrum", "kanban", "waterfall", "prince2", "pmp",
		"project planning", "risk management", "stakeholder management", "resource allocation", "gantt", "jira",
		"ms project", "project lifecycle", "change management", "budget management", "timeline", "kpis"},
}

// DefaultIndustryKeywords 返回行业识别关键词表的副本
func DefaultIndustryKeywords() KeywordTable { return defaultIndustryKeywords.clone() }

// DefaultATSKeywords 返回 ATS 标准关键词表的副本
func DefaultATSKeywords() KeywordTable { return defaultATSKeywords.clone() }

func (t KeywordTable) clone() KeywordTable {
	out := make(KeywordTable, len(t))
	for k, v := range t {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ATS 不友好元素，共 9 种
const (
	IssueTables             = "tables"
	IssueColumns            = "columns"
	IssueHeadersFooters     = "headers/footers"
	IssueImages             = "images"
	IssueCharts             = "charts"
	IssueTextBoxes          = "text boxes"
	IssueSpecialCharacters  = "special characters"
	IssueCustomFonts        = "custom fonts"
	IssueUncommonFileFormat = "uncommon file formats"
)

var atsUnfriendlyElements = []string{
	IssueTables, IssueColumns, IssueHeadersFooters, IssueImages, IssueCharts,
	IssueTextBoxes, IssueSpecialCharacters, IssueCustomFonts, IssueUncommonFileFormat,
}

// 可接受的标点
const allowedPunctuation = "-_.,@:()/"

// 关键词提取停用词
var keywordStopwords = map[string]struct{}{
	"and": {}, "the": {}, "to": {}, "of": {}, "for": {}, "in": {},
	"on": {}, "at": {}, "with": {}, "by": {}, "a": {}, "an": {},
}

// Factor 评分因子
type Factor string

const (
	FactorKeywordMatch    Factor = "keyword_match"
	FactorFormatScore     Factor = "format_score"
	FactorWordCount       Factor = "word_count"
	FactorActionVerbs     Factor = "action_verbs"
	FactorFileFormat      Factor = "file_format"
	FactorContactInfo     Factor = "contact_info"
	FactorEducationFormat Factor = "education_format"
)

// 七个因子的固定权重，总和为 1
var factorWeights = map[Factor]float64{
	FactorKeywordMatch:    0.35,
	FactorFormatScore:     0.25,
	FactorWordCount:       0.10,
	FactorActionVerbs:     0.10,
	FactorFileFormat:      0.10,
	FactorContactInfo:     0.05,
	FactorEducationFormat: 0.05,
}

var factorOrder = []Factor{
	FactorKeywordMatch,
	FactorFormatScore,
	FactorWordCount,
	FactorActionVerbs,
	FactorFileFormat,
	FactorContactInfo,
	FactorEducationFormat,
}

// Weight 返回因子权重，未知因子为 0
func Weight(f Factor) float64 { return factorWeights[f] }

// Factors 返回因子列表，顺序固定
func Factors() []Factor {
	out := make([]Factor, len(factorOrder))
	copy(out, factorOrder)
	return out
}

// 评分阈值
const (
	idealWordCountMin   = 300
	idealWordCountMax   = 1000
	actionVerbCap       = 10
	acceptedFileFormat  = "pdf"
	keywordMatchDefault = 0.3
)
