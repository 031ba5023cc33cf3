// Package toolchain detects the languages and frameworks of a project
// directory from its marker files (go.mod, package.json, pyproject.toml, ...).
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skillmesh/skillmesh/pkg/types"
)

// marker ties a filename to the language and tooling it implies.
type marker struct {
	file           string
	language       string
	buildTool      string
	packageManager string
}

var markers = []marker{
	{file: "go.mod", language: "Go", buildTool: "go", packageManager: "go modules"},
	{file: "package.json", language: "JavaScript", buildTool: "npm", packageManager: "npm"},
	{file: "tsconfig.json", language: "TypeScript", buildTool: "tsc", packageManager: "npm"},
	{file: "pyproject.toml", language: "Python", buildTool: "pip", packageManager: "pip"},
	{file: "requirements.txt", language: "Python", buildTool: "pip", packageManager: "pip"},
	{file: "setup.py", language: "Python", buildTool: "setuptools", packageManager: "pip"},
	{file: "Cargo.toml", language: "Rust", buildTool: "cargo", packageManager: "cargo"},
	{file: "pom.xml", language: "Java", buildTool: "maven", packageManager: "maven"},
	{file: "build.gradle", language: "Java", buildTool: "gradle", packageManager: "gradle"},
	{file: "Gemfile", language: "Ruby", buildTool: "bundler", packageManager: "rubygems"},
	{file: "composer.json", language: "PHP", buildTool: "composer", packageManager: "composer"},
	{file: "mix.exs", language: "Elixir", buildTool: "mix", packageManager: "hex"},
	{file: "CMakeLists.txt", language: "C++", buildTool: "cmake", packageManager: ""},
}

// frameworkHints maps dependency substrings, searched in manifest files, to
// framework names.
var frameworkHints = map[string][]struct{ needle, framework string }{
	"package.json": {
		{"react", "React"},
		{"vue", "Vue"},
		{"next", "Next.js"},
		{"express", "Express"},
		{"jest", "Jest"},
		{"vitest", "Vitest"},
	},
	"go.mod": {
		{"gin-gonic/gin", "Gin"},
		{"go-chi/chi", "Chi"},
		{"labstack/echo", "Echo"},
		{"spf13/cobra", "Cobra"},
		{"stretchr/testify", "Testify"},
	},
	"pyproject.toml": {
		{"django", "Django"},
		{"fastapi", "FastAPI"},
		{"flask", "Flask"},
		{"pytest", "pytest"},
	},
	"requirements.txt": {
		{"django", "Django"},
		{"fastapi", "FastAPI"},
		{"flask", "Flask"},
		{"pytest", "pytest"},
	},
	"Cargo.toml": {
		{"actix", "Actix"},
		{"axum", "Axum"},
		{"tokio", "Tokio"},
	},
}

var testFrameworkNames = map[string]struct{}{
	"Jest": {}, "Vitest": {}, "pytest": {}, "Testify": {},
}

// Detector inspects a project directory and summarizes its toolchain.
type Detector struct{}

// NewDetector creates a marker-file based detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect scans projectPath for toolchain markers. The path must exist and be
// a directory. Confidence grows with the number of corroborating markers and
// is 0 when nothing is recognized.
func (d *Detector) Detect(projectPath string) (types.ToolchainInfo, error) {
	info, err := os.Stat(projectPath)
	if err != nil {
		return types.ToolchainInfo{}, fmt.Errorf("cannot stat project path %s: %w", projectPath, err)
	}
	if !info.IsDir() {
		return types.ToolchainInfo{}, fmt.Errorf("project path is not a directory: %s", projectPath)
	}

	langHits := make(map[string]int)
	buildTools := make(map[string]struct{})
	pkgManagers := make(map[string]struct{})
	frameworks := make(map[string]struct{})

	for _, m := range markers {
		full := filepath.Join(projectPath, m.file)
		if _, err := os.Stat(full); err != nil {
			continue
		}
		langHits[m.language]++
		if m.buildTool != "" {
			buildTools[m.buildTool] = struct{}{}
		}
		if m.packageManager != "" {
			pkgManagers[m.packageManager] = struct{}{}
		}

		hints, ok := frameworkHints[m.file]
		if !ok {
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		lower := strings.ToLower(string(content))
		for _, h := range hints {
			if strings.Contains(lower, h.needle) {
				frameworks[h.framework] = struct{}{}
			}
		}
	}

	// TypeScript markers imply JavaScript tooling; prefer the more specific
	// language as primary when both are present.
	if langHits["TypeScript"] > 0 && langHits["JavaScript"] > 0 {
		langHits["TypeScript"] += langHits["JavaScript"]
	}

	languages := make([]string, 0, len(langHits))
	for lang := range langHits {
		languages = append(languages, lang)
	}
	sort.Slice(languages, func(i, j int) bool {
		if langHits[languages[i]] == langHits[languages[j]] {
			return languages[i] < languages[j]
		}
		return langHits[languages[i]] > langHits[languages[j]]
	})

	result := types.ToolchainInfo{
		SecondaryLanguages: []string{},
		Frameworks:         sortedKeys(frameworks),
		BuildTools:         sortedKeys(buildTools),
		PackageManagers:    sortedKeys(pkgManagers),
		TestFrameworks:     []string{},
	}

	if len(languages) > 0 {
		result.PrimaryLanguage = languages[0]
		result.SecondaryLanguages = languages[1:]
	}
	for _, f := range result.Frameworks {
		if _, ok := testFrameworkNames[f]; ok {
			result.TestFrameworks = append(result.TestFrameworks, f)
		}
	}

	// One marker gives moderate confidence; corroboration raises it.
	switch {
	case len(languages) == 0:
		result.Confidence = 0
	case langHits[result.PrimaryLanguage] > 1 || len(result.Frameworks) > 0:
		result.Confidence = 0.95
	default:
		result.Confidence = 0.7
	}

	return result, nil
}

// QueryString synthesizes a pseudo search query from detected toolchain
// info, used for project-based recommendations.
func QueryString(info types.ToolchainInfo) string {
	parts := make([]string, 0, 4)
	if info.PrimaryLanguage != "" {
		parts = append(parts, info.PrimaryLanguage)
	}
	parts = append(parts, info.SecondaryLanguages...)
	parts = append(parts, info.Frameworks...)
	parts = append(parts, "development best practices")
	return strings.Join(parts, " ")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
