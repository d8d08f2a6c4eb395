package matcher

import (
	"regexp"
	"strings"
)

// patternGroup 一组同义写法到规范名的映射。
// 组内按声明顺序尝试，命中任意一个写法即记为该规范名。
type patternGroup struct {
	canonical  string
	alternates []string
	res        []*regexp.Regexp
}

// compileGroups 为每组的每个写法预编译整词正则。
// wholeWord=false 时按子串匹配(证书类沿用这种宽松匹配)。
func compileGroups(groups []patternGroup, wholeWord bool) []patternGroup {
	for i := range groups {
		groups[i].res = make([]*regexp.Regexp, len(groups[i].alternates))
		for j, alt := range groups[i].alternates {
			groups[i].res[j] = compileAlternate(alt, wholeWord)
		}
	}
	return groups
}

// compileAlternate 把单个写法包装成大小写不敏感的整词正则。
// 写法边缘是非单词字符时(c++、c#、.net)，\b的语义会反转，
// 这里改用显式的非单词字符或串首尾作为边界。
func compileAlternate(alt string, wholeWord bool) *regexp.Regexp {
	if !wholeWord {
		return regexp.MustCompile(`(?i)` + alt)
	}
	left, right := `\b`, `\b`
	if startsWithNonWord(alt) {
		left = `(?:^|[^\w])`
	}
	if endsWithNonWord(alt) {
		right = `(?:[^\w]|$)`
	}
	return regexp.MustCompile(`(?i)` + left + `(?:` + alt + `)` + right)
}

func startsWithNonWord(alt string) bool {
	if alt == "" {
		return false
	}
	if strings.HasPrefix(alt, `\.`) {
		return true
	}
	c := alt[0]
	return !(c == '\\' || c == '(' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_')
}

func endsWithNonWord(alt string) bool {
	if alt == "" {
		return false
	}
	// 表中只有 c\+\+ 和 c# 以非单词字符收尾
	return strings.HasSuffix(alt, `\+`) || strings.HasSuffix(alt, "#")
}

// technicalPatterns 技术技能表。组内第一个命中的写法生效。
var technicalPatterns = compileGroups([]patternGroup{
	// 编程语言
	{canonical: "JavaScript", alternates: []string{`javascript`, `js`, `ecmascript`}},
	{canonical: "TypeScript", alternates: []string{`typescript`, `ts`}},
	{canonical: "Python", alternates: []string{`python`, `py`}},
	{canonical: "Java", alternates: []string{`java`, `jdk`, `jre`}},
	{canonical: "C++", alternates: []string{`c\+\+`, `cpp`, `cplusplus`}},
	{canonical: "C#", alternates: []string{`c#`, `csharp`, `c sharp`}},
	{canonical: "Ruby", alternates: []string{`ruby`, `rb`}},
	{canonical: "PHP", alternates: []string{`php`, `php\d+`}},
	{canonical: "Swift", alternates: []string{`swift`, `swift\d+`}},
	{canonical: "Kotlin", alternates: []string{`kotlin`, `kt`}},
	{canonical: "Go", alternates: []string{`go`, `golang`}},
	{canonical: "Rust", alternates: []string{`rust`, `rustlang`}},
	{canonical: "Scala", alternates: []string{`scala`}},
	{canonical: "R", alternates: []string{`r programming`, `r`}},

	// 前端框架/库
	{canonical: "React", alternates: []string{`react`, `reactjs`, `react\.js`}},
	{canonical: "Angular", alternates: []string{`angular`, `angularjs`, `angular\d+`}},
	{canonical: "Vue.js", alternates: []string{`vue`, `vuejs`, `vue\.js`}},
	{canonical: "Svelte", alternates: []string{`svelte`, `sveltekit`}},
	{canonical: "Next.js", alternates: []string{`next\.?js`, `nextjs`}},
	{canonical: "Nuxt.js", alternates: []string{`nuxt`, `nuxtjs`}},
	{canonical: "Ember.js", alternates: []string{`ember`, `emberjs`}},
	{canonical: "Backbone.js", alternates: []string{`backbone`, `backbonejs`}},
	{canonical: "jQuery", alternates: []string{`jquery`, `jquery\d+`}},

	// CSS/样式
	{canonical: "HTML", alternates: []string{`html5?`, `html`}},
	{canonical: "CSS", alternates: []string{`css3?`, `css`}},
	{canonical: "Sass/SCSS", alternates: []string{`sass`, `scss`}},
	{canonical: "Less", alternates: []string{`less`}},
	{canonical: "Tailwind CSS", alternates: []string{`tailwind`, `tailwindcss`}},
	{canonical: "Bootstrap", alternates: []string{`bootstrap`, `bootstrap\d+`}},
	{canonical: "Material-UI", alternates: []string{`material.?ui`, `mui`}},

	// 构建工具
	{canonical: "Webpack", alternates: []string{`webpack`, `webpack\d+`}},
	{canonical: "Vite", alternates: []string{`vite`, `vitejs`}},
	{canonical: "Parcel", alternates: []string{`parcel`, `parceljs`}},
	{canonical: "Rollup", alternates: []string{`rollup`, `rollupjs`}},
	{canonical: "Babel", alternates: []string{`babel`, `babeljs`}},
	{canonical: "Gulp", alternates: []string{`gulp`, `gulpjs`}},
	{canonical: "Grunt", alternates: []string{`grunt`, `gruntjs`}},

	// 后端框架
	{canonical: "Node.js", alternates: []string{`node\.?js`, `nodejs`}},
	{canonical: "Express.js", alternates: []string{`express`, `expressjs`}},
	{canonical: "Fastify", alternates: []string{`fastify`}},
	{canonical: "Koa.js", alternates: []string{`koa`, `koajs`}},
	{canonical: "Django", alternates: []string{`django`}},
	{canonical: "Flask", alternates: []string{`flask`}},
	{canonical: "FastAPI", alternates: []string{`fastapi`}},
	{canonical: "Spring", alternates: []string{`spring`, `spring boot`, `springframework`}},
	{canonical: "ASP.NET", alternates: []string{`asp\.?net`, `dotnet`, `\.net`}},
	{canonical: "Laravel", alternates: []string{`laravel`}},
	{canonical: "Symfony", alternates: []string{`symfony`}},
	{canonical: "Ruby on Rails", alternates: []string{`rails`, `ruby on rails`}},
	{canonical: "NestJS", alternates: []string{`nestjs`}},

	// 数据库
	{canonical: "MongoDB", alternates: []string{`mongodb`, `mongo`}},
	{canonical: "PostgreSQL", alternates: []string{`postgresql`, `postgres`}},
	{canonical: "MySQL", alternates: []string{`mysql`}},
	{canonical: "SQLite", alternates: []string{`sqlite`}},
	{canonical: "Redis", alternates: []string{`redis`}},
	{canonical: "Elasticsearch", alternates: []string{`elasticsearch`, `elastic search`}},
	{canonical: "DynamoDB", alternates: []string{`dynamodb`, `dynamo db`}},
	{canonical: "Cassandra", alternates: []string{`cassandra`}},
	{canonical: "Oracle", alternates: []string{`oracle`, `oracle db`}},
	{canonical: "SQL Server", alternates: []string{`sql server`, `mssql`}},
	{canonical: "MariaDB", alternates: []string{`mariadb`}},
	{canonical: "CouchDB", alternates: []string{`couchdb`}},
	{canonical: "Neo4j", alternates: []string{`neo4j`}},

	// 云平台
	{canonical: "AWS", alternates: []string{`aws`, `amazon web services`}},
	{canonical: "Azure", alternates: []string{`azure`, `microsoft azure`}},
	{canonical: "Google Cloud", alternates: []string{`gcp`, `google cloud`, `google cloud platform`}},
	{canonical: "Heroku", alternates: []string{`heroku`}},
	{canonical: "Vercel", alternates: []string{`vercel`}},
	{canonical: "Netlify", alternates: []string{`netlify`}},
	{canonical: "DigitalOcean", alternates: []string{`digitalocean`}},

	// DevOps与基础设施
	{canonical: "Docker", alternates: []string{`docker`}},
	{canonical: "Kubernetes", alternates: []string{`kubernetes`, `k8s`}},
	{canonical: "Jenkins", alternates: []string{`jenkins`}},
	{canonical: "GitLab CI", alternates: []string{`gitlab ci`, `gitlab-ci`}},
	{canonical: "GitHub Actions", alternates: []string{`github actions`}},
	{canonical: "CircleCI", alternates: []string{`circleci`}},
	{canonical: "Travis CI", alternates: []string{`travis ci`, `travis-ci`}},
	{canonical: "Terraform", alternates: []string{`terraform`}},
	{canonical: "Ansible", alternates: []string{`ansible`}},
	{canonical: "Chef", alternates: []string{`chef`}},
	{canonical: "Puppet", alternates: []string{`puppet`}},
	{canonical: "Vagrant", alternates: []string{`vagrant`}},
	{canonical: "Helm", alternates: []string{`helm`}},

	// API与协议
	{canonical: "REST API", alternates: []string{`rest api`, `restful`, `rest`}},
	{canonical: "GraphQL", alternates: []string{`graphql`, `graph ql`}},
	{canonical: "SOAP", alternates: []string{`soap`}},
	{canonical: "gRPC", alternates: []string{`grpc`}},
	{canonical: "WebSocket", alternates: []string{`websocket`, `web socket`}},
	{canonical: "OAuth", alternates: []string{`oauth`, `oauth\d+`}},
	{canonical: "JWT", alternates: []string{`jwt`, `json web token`}},
	{canonical: "SAML", alternates: []string{`saml`}},

	// 数据与机器学习
	{canonical: "Machine Learning", alternates: []string{`machine learning`, `ml`}},
	{canonical: "Deep Learning", alternates: []string{`deep learning`, `dl`}},
	{canonical: "AI", alternates: []string{`artificial intelligence`, `ai`}},
	{canonical: "TensorFlow", alternates: []string{`tensorflow`, `tf`}},
	{canonical: "PyTorch", alternates: []string{`pytorch`}},
	{canonical: "Keras", alternates: []string{`keras`}},
	{canonical: "Scikit-learn", alternates: []string{`scikit.?learn`, `sklearn`}},
	{canonical: "Pandas", alternates: []string{`pandas`}},
	{canonical: "NumPy", alternates: []string{`numpy`}},
	{canonical: "Matplotlib", alternates: []string{`matplotlib`}},
	{canonical: "Seaborn", alternates: []string{`seaborn`}},
	{canonical: "Jupyter", alternates: []string{`jupyter`}},
	{canonical: "Apache Spark", alternates: []string{`apache spark`, `spark`}},
	{canonical: "Hadoop", alternates: []string{`hadoop`}},
	{canonical: "Kafka", alternates: []string{`kafka`}},
	{canonical: "Airflow", alternates: []string{`airflow`}},

	// 移动开发
	{canonical: "iOS", alternates: []string{`ios development`, `ios`}},
	{canonical: "Android", alternates: []string{`android development`, `android`}},
	{canonical: "React Native", alternates: []string{`react native`}},
	{canonical: "Flutter", alternates: []string{`flutter`}},
	{canonical: "Xamarin", alternates: []string{`xamarin`}},
	{canonical: "Cordova", alternates: []string{`cordova`, `phonegap`}},

	// 测试
	{canonical: "Jest", alternates: []string{`jest`}},
	{canonical: "Mocha", alternates: []string{`mocha`}},
	{canonical: "Chai", alternates: []string{`chai`}},
	{canonical: "Cypress", alternates: []string{`cypress`}},
	{canonical: "Selenium", alternates: []string{`selenium`}},
	{canonical: "Puppeteer", alternates: []string{`puppeteer`}},
	{canonical: "Playwright", alternates: []string{`playwright`}},
	{canonical: "JUnit", alternates: []string{`junit`}},
	{canonical: "PyTest", alternates: []string{`pytest`}},
	{canonical: "RSpec", alternates: []string{`rspec`}},
}, true)

// softSkillPatterns 软技能表。
var softSkillPatterns = compileGroups([]patternGroup{
	{canonical: "Leadership", alternates: []string{`leadership`, `lead`, `led`, `leading`}},
	{canonical: "Communication", alternates: []string{`communication`, `communicating`, `communicate`}},
	{canonical: "Teamwork", alternates: []string{`teamwork`, `team work`, `collaboration`, `collaborative`}},
	{canonical: "Problem Solving", alternates: []string{`problem solving`, `problem-solving`, `troubleshooting`}},
	{canonical: "Analytical Skills", alternates: []string{`analytical`, `analysis`, `analyze`}},
	{canonical: "Critical Thinking", alternates: []string{`critical thinking`}},
	{canonical: "Creativity", alternates: []string{`creativity`, `creative`, `innovation`, `innovative`}},
	{canonical: "Adaptability", alternates: []string{`adaptability`, `adaptable`, `flexible`, `flexibility`}},
	{canonical: "Time Management", alternates: []string{`time management`, `time-management`}},
	{canonical: "Project Management", alternates: []string{`project management`, `project-management`}},
	{canonical: "Mentoring", alternates: []string{`mentoring`, `mentor`, `coaching`, `coach`}},
	{canonical: "Presentation Skills", alternates: []string{`presentation`, `presenting`, `public speaking`}},
	{canonical: "Negotiation", alternates: []string{`negotiation`, `negotiating`}},
	{canonical: "Decision Making", alternates: []string{`decision making`, `decision-making`}},
	{canonical: "Strategic Thinking", alternates: []string{`strategic thinking`, `strategic planning`}},
	{canonical: "Attention to Detail", alternates: []string{`attention to detail`, `detail-oriented`}},
	{canonical: "Self-Motivated", alternates: []string{`self-motivated`, `self motivated`, `motivated`}},
	{canonical: "Proactive", alternates: []string{`proactive`}},
	{canonical: "Organization", alternates: []string{`organized`, `organization`}},
	{canonical: "Multitasking", alternates: []string{`multitasking`, `multi-tasking`}},
}, true)

// toolPatterns 工具与平台表。
var toolPatterns = compileGroups([]patternGroup{
	{canonical: "Git", alternates: []string{`git`, `github`, `gitlab`, `bitbucket`}},
	{canonical: "Jira", alternates: []string{`jira`}},
	{canonical: "Confluence", alternates: []string{`confluence`}},
	{canonical: "Slack", alternates: []string{`slack`}},
	{canonical: "Trello", alternates: []string{`trello`}},
	{canonical: "Asana", alternates: []string{`asana`}},
	{canonical: "Notion", alternates: []string{`notion`}},
	{canonical: "Figma", alternates: []string{`figma`}},
	{canonical: "Sketch", alternates: []string{`sketch`}},
	{canonical: "Adobe XD", alternates: []string{`adobe xd`, `xd`}},
	{canonical: "Photoshop", alternates: []string{`photoshop`}},
	{canonical: "Illustrator", alternates: []string{`illustrator`}},
	{canonical: "Postman", alternates: []string{`postman`}},
	{canonical: "Swagger", alternates: []string{`swagger`}},
	{canonical: "VS Code", alternates: []string{`vs code`, `visual studio code`}},
	{canonical: "IntelliJ IDEA", alternates: []string{`intellij`, `idea`}},
	{canonical: "Eclipse", alternates: []string{`eclipse`}},
	{canonical: "Visual Studio", alternates: []string{`visual studio`}},
	{canonical: "Sublime Text", alternates: []string{`sublime text`}},
	{canonical: "Vim", alternates: []string{`vim`, `neovim`}},
	{canonical: "Emacs", alternates: []string{`emacs`}},
}, true)

// certPatterns 证书表。证书名常嵌在长句里，沿用子串匹配。
var certPatterns = compileGroups([]patternGroup{
	{canonical: "AWS Certified", alternates: []string{`aws certified`, `aws certification`}},
	{canonical: "Azure Certified", alternates: []string{`azure certified`, `azure certification`}},
	{canonical: "GCP Certified", alternates: []string{`gcp certified`, `google cloud certified`}},
	{canonical: "PMP", alternates: []string{`pmp`, `project management professional`}},
	{canonical: "Scrum Master", alternates: []string{`scrum master`, `csm`, `certified scrum master`}},
	{canonical: "PSM", alternates: []string{`psm`, `professional scrum master`}},
	{canonical: "CISSP", alternates: []string{`cissp`}},
	{canonical: "CompTIA", alternates: []string{`comptia`, `comp tia`}},
	{canonical: "CEH", alternates: []string{`ceh`, `certified ethical hacker`}},
	{canonical: "CKA", alternates: []string{`cka`, `certified kubernetes administrator`}},
	{canonical: "CKAD", alternates: []string{`ckad`, `certified kubernetes application developer`}},
}, false)

// keyPhrases 二三词组合的领域短语，命中后按 Title Case 输出。
var keyPhrases = []string{
	"full stack", "front end", "back end", "software development", "web development",
	"mobile development", "data analysis", "data science", "machine learning",
	"artificial intelligence", "cloud computing", "devops", "agile development",
	"test driven development", "continuous integration", "continuous deployment",
	"microservices architecture", "api development", "database design",
	"user experience", "user interface", "responsive design", "cross platform",
	"version control", "code review", "performance optimization", "security testing",
	"load testing", "unit testing", "integration testing", "system administration",
	"network security", "data visualization", "business intelligence",
}

var keyPhraseRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(keyPhrases))
	for i, p := range keyPhrases {
		res[i] = regexp.MustCompile(`(?i)\b` + p + `\b`)
	}
	return res
}()

// titleCasePhrase 把短语的每个词首字母大写。
func titleCasePhrase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// synonymTable 同义词表。键和值都在构建时做过关键词归一化，
// 查询侧只需归一化一次即可命中。
var synonymTable = buildSynonymTable(map[string][]string{
	"javascript":              {"js", "ecmascript", "es6", "es2015", "es2020"},
	"typescript":              {"ts"},
	"node.js":                 {"node", "nodejs"},
	"react":                   {"reactjs", "react.js"},
	"angular":                 {"angularjs", "angular.js"},
	"vue.js":                  {"vue", "vuejs"},
	"python":                  {"py"},
	"c++":                     {"cpp", "cplusplus"},
	"c#":                      {"csharp", "c sharp"},
	"aws":                     {"amazon web services"},
	"gcp":                     {"google cloud", "google cloud platform"},
	"azure":                   {"microsoft azure"},
	"rest api":                {"restful", "rest", "restful api", "restful services"},
	"graphql":                 {"graph ql"},
	"mongodb":                 {"mongo"},
	"postgresql":              {"postgres"},
	"machine learning":        {"ml"},
	"artificial intelligence": {"ai"},
	"deep learning":           {"dl"},
	"continuous integration":  {"ci"},
	"continuous deployment":   {"cd"},
	"devops":                  {"dev ops"},
	"frontend":                {"front end", "front-end"},
	"backend":                 {"back end", "back-end"},
	"fullstack":               {"full stack", "full-stack"},
	"ui":                      {"user interface"},
	"ux":                      {"user experience"},
	"api":                     {"application programming interface"},
	"sql":                     {"structured query language"},
	"nosql":                   {"no sql"},
	"html":                    {"hypertext markup language"},
	"css":                     {"cascading style sheets"},
	"json":                    {"javascript object notation"},
	"xml":                     {"extensible markup language"},
	"yaml":                    {"yml"},
	"docker":                  {"containerization"},
	"kubernetes":              {"k8s", "container orchestration"},
	"microservices":           {"micro services"},
	"serverless":              {"server less"},
	"saas":                    {"software as a service"},
	"paas":                    {"platform as a service"},
	"iaas":                    {"infrastructure as a service"},
})

// skillPriorities 类别内排序用的优先级，未列出的默认50。
var skillPriorities = map[string]int{
	"javascript":              95,
	"python":                  95,
	"java":                    90,
	"react":                   90,
	"node.js":                 90,
	"aws":                     85,
	"docker":                  85,
	"kubernetes":              85,
	"machine learning":        85,
	"artificial intelligence": 85,
	"typescript":              80,
	"angular":                 80,
	"vue.js":                  80,
	"mongodb":                 75,
	"postgresql":              75,
	"rest api":                75,
	"graphql":                 70,
	"sql":                     65,
	"git":                     60,
	"html":                    50,
	"css":                     50,
	"problem solving":         40,
	"leadership":              35,
	"communication":           30,
	"teamwork":                30,
}
