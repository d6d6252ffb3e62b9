package usecase

// JobTypeDefinition is one classifier target: a display label, keywords
// expected in prose, and skill keywords expected in skill lists.
type JobTypeDefinition struct {
	ID            string
	Label         string
	Keywords      []string
	SkillKeywords []string
}

// JobTypeDefinitions is the classifier vocabulary. Keyword hit rate,
// token-counter similarity and skill overlap are blended per definition and
// the best one wins; nothing matching falls back to General.
var JobTypeDefinitions = []JobTypeDefinition{
	{
		ID:    "frontend",
		Label: "Frontend Engineering",
		Keywords: []string{
			"frontend", "front end", "user interface", "web application", "responsive",
			"component", "accessibility", "browser", "single page application", "design system",
		},
		SkillKeywords: []string{
			"javascript", "typescript", "react", "vue", "angular", "svelte", "css", "html",
			"tailwind", "webpack", "vite",
		},
	},
	{
		ID:    "backend",
		Label: "Backend Engineering",
		Keywords: []string{
			"backend", "back end", "api", "microservice", "distributed system", "database",
			"scalability", "server", "queue", "caching",
		},
		SkillKeywords: []string{
			"go", "golang", "java", "python", "node", "postgresql", "mysql", "redis",
			"kafka", "grpc", "rest", "sql",
		},
	},
	{
		ID:    "fullstack",
		Label: "Full-Stack Engineering",
		Keywords: []string{
			"full stack", "fullstack", "end to end", "web development", "feature delivery",
			"prototype", "mvp",
		},
		SkillKeywords: []string{
			"react", "node", "typescript", "python", "django", "rails", "nextjs", "graphql",
		},
	},
	{
		ID:    "data",
		Label: "Data & Machine Learning",
		Keywords: []string{
			"data pipeline", "machine learning", "analytics", "data science", "model",
			"etl", "data warehouse", "experimentation", "statistics", "llm",
		},
		SkillKeywords: []string{
			"python", "pandas", "numpy", "pytorch", "tensorflow", "spark", "sql", "airflow",
			"scikit-learn", "dbt",
		},
	},
	{
		ID:    "devops",
		Label: "DevOps & Infrastructure",
		Keywords: []string{
			"infrastructure", "deployment", "ci/cd", "reliability", "observability",
			"monitoring", "automation", "cloud", "incident", "on-call",
		},
		SkillKeywords: []string{
			"kubernetes", "docker", "terraform", "aws", "gcp", "azure", "ansible",
			"prometheus", "grafana", "linux", "bash",
		},
	},
	{
		ID:    "mobile",
		Label: "Mobile Engineering",
		Keywords: []string{
			"mobile", "ios", "android", "app store", "mobile application", "cross platform",
		},
		SkillKeywords: []string{
			"swift", "kotlin", "objective-c", "react native", "flutter", "dart",
		},
	},
	{
		ID:    "design",
		Label: "Product Design",
		Keywords: []string{
			"design", "user experience", "user research", "wireframe", "prototype",
			"visual design", "interaction design", "usability",
		},
		SkillKeywords: []string{
			"figma", "sketch", "adobe", "illustrator", "photoshop", "framer",
		},
	},
	{
		ID:    "product",
		Label: "Product Management",
		Keywords: []string{
			"product management", "roadmap", "stakeholder", "backlog", "discovery",
			"go to market", "okr", "prioritization", "product strategy",
		},
		SkillKeywords: []string{
			"jira", "agile", "scrum", "analytics", "a/b testing",
		},
	},
	{
		ID:    "qa",
		Label: "Quality Engineering",
		Keywords: []string{
			"quality assurance", "test automation", "testing", "regression", "test plan",
			"defect", "coverage",
		},
		SkillKeywords: []string{
			"selenium", "cypress", "playwright", "junit", "pytest", "postman",
		},
	},
}
