package techstack

// The detector is table-driven: filenames and dependency names map straight
// to display labels. Extending detection means adding rows, not code.

// ecosystemMarkers maps top-level manifest filenames to the backend
// platform they imply.
var ecosystemMarkers = map[string]string{
	"package.json":     "Node.js",
	"requirements.txt": "Python",
	"pyproject.toml":   "Python",
	"setup.py":         "Python",
	"pipfile":          "Python",
	"go.mod":           "Go",
	"cargo.toml":       "Rust",
	"gemfile":          "Ruby",
	"composer.json":    "PHP",
	"pom.xml":          "Java",
	"build.gradle":     "Java",
	"build.gradle.kts": "Kotlin",
	"mix.exs":          "Elixir",
	"package.swift":    "Swift",
}

// frameworkMarkers maps framework config filenames to framework labels.
var frameworkMarkers = map[string]string{
	"next.config.js":    "Next.js",
	"next.config.mjs":   "Next.js",
	"next.config.ts":    "Next.js",
	"nuxt.config.js":    "Nuxt",
	"nuxt.config.ts":    "Nuxt",
	"angular.json":      "Angular",
	"vue.config.js":     "Vue",
	"svelte.config.js":  "Svelte",
	"gatsby-config.js":  "Gatsby",
	"remix.config.js":   "Remix",
	"astro.config.mjs":  "Astro",
	"tailwind.config.js": "Tailwind CSS",
	"tailwind.config.ts": "Tailwind CSS",
	"manage.py":         "Django",
}

// toolMarkers maps build/infra config filenames to tool labels.
var toolMarkers = map[string]string{
	"dockerfile":         "Docker",
	"docker-compose.yml": "Docker Compose",
	"docker-compose.yaml": "Docker Compose",
	"makefile":           "Make",
	"justfile":           "Just",
	"webpack.config.js":  "Webpack",
	"vite.config.js":     "Vite",
	"vite.config.ts":     "Vite",
	"rollup.config.js":   "Rollup",
	"tsconfig.json":      "TypeScript",
	"babel.config.js":    "Babel",
	".babelrc":           "Babel",
	".eslintrc":          "ESLint",
	".eslintrc.js":       "ESLint",
	".eslintrc.json":     "ESLint",
	"jest.config.js":     "Jest",
	"jenkinsfile":        "Jenkins",
	".travis.yml":        "Travis CI",
	".gitlab-ci.yml":     "GitLab CI",
	"vercel.json":        "Vercel",
	"netlify.toml":       "Netlify",
	"serverless.yml":     "Serverless",
	"terraform.tf":       "Terraform",
	"main.tf":            "Terraform",
	"helmfile.yaml":      "Helm",
}

// containerTools are the tools bucket entries that imply container-based
// deployment.
var containerTools = map[string]bool{
	"Docker":         true,
	"Docker Compose": true,
	"Helm":           true,
}

// frontendDeps maps dependency names to frontend framework labels.
var frontendDeps = map[string]string{
	"react":         "React",
	"react-dom":     "React",
	"preact":        "Preact",
	"vue":           "Vue",
	"@angular/core": "Angular",
	"svelte":        "Svelte",
	"next":          "Next.js",
	"nuxt":          "Nuxt",
	"gatsby":        "Gatsby",
	"solid-js":      "SolidJS",
	"jquery":        "jQuery",
	"@remix-run/react": "Remix",
	"astro":         "Astro",
}

// backendDeps maps dependency names to backend framework labels.
var backendDeps = map[string]string{
	"express":      "Express",
	"koa":          "Koa",
	"fastify":      "Fastify",
	"@nestjs/core": "NestJS",
	"@hapi/hapi":   "Hapi",
	"django":       "Django",
	"flask":        "Flask",
	"fastapi":      "FastAPI",
	"tornado":      "Tornado",
	"rails":        "Ruby on Rails",
	"sinatra":      "Sinatra",
	"laravel/framework":             "Laravel",
	"github.com/gin-gonic/gin":      "Gin",
	"github.com/labstack/echo/v4":   "Echo",
	"github.com/go-chi/chi/v5":      "Chi",
	"github.com/gofiber/fiber/v2":   "Fiber",
	"actix-web":                     "Actix Web",
	"axum":                          "Axum",
	"rocket":                        "Rocket",
	"phoenix":                       "Phoenix",
}

// databaseDeps maps dependency names to database labels.
var databaseDeps = map[string]string{
	"pg":              "PostgreSQL",
	"psycopg2":        "PostgreSQL",
	"psycopg2-binary": "PostgreSQL",
	"asyncpg":         "PostgreSQL",
	"mysql":           "MySQL",
	"mysql2":          "MySQL",
	"pymysql":         "MySQL",
	"sqlite3":         "SQLite",
	"better-sqlite3":  "SQLite",
	"mongoose":        "MongoDB",
	"mongodb":         "MongoDB",
	"pymongo":         "MongoDB",
	"redis":           "Redis",
	"ioredis":         "Redis",
	"sequelize":       "Sequelize",
	"prisma":          "Prisma",
	"@prisma/client":  "Prisma",
	"typeorm":         "TypeORM",
	"sqlalchemy":      "SQLAlchemy",
	"knex":            "Knex",
	"diesel":          "Diesel",
	"sqlx":            "SQLx",
	"gorm.io/gorm":                    "GORM",
	"github.com/jackc/pgx/v5":         "PostgreSQL",
	"github.com/lib/pq":               "PostgreSQL",
	"github.com/go-sql-driver/mysql":  "MySQL",
	"github.com/mattn/go-sqlite3":     "SQLite",
	"github.com/redis/go-redis/v9":    "Redis",
	"go.mongodb.org/mongo-driver":     "MongoDB",
}

// toolingDeps maps dependency names to development tool labels.
var toolingDeps = map[string]string{
	"webpack":     "Webpack",
	"vite":        "Vite",
	"rollup":      "Rollup",
	"esbuild":     "esbuild",
	"@babel/core": "Babel",
	"typescript":  "TypeScript",
	"eslint":      "ESLint",
	"prettier":    "Prettier",
	"jest":        "Jest",
	"mocha":       "Mocha",
	"vitest":      "Vitest",
	"cypress":     "Cypress",
	"playwright":  "Playwright",
	"pytest":      "pytest",
	"black":       "Black",
	"ruff":        "Ruff",
	"mypy":        "mypy",
	"tox":         "tox",
}
