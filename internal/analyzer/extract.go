package analyzer

import (
	"regexp"
	"strings"
)

var (
	jsImportFrom  = regexp.MustCompile(`import\s+.*?\bfrom\s+['"]([^'"]+)['"]`)
	jsRequire     = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsExport      = regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var)\s+(\w+)`)
	pyImport      = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	pyFromImport  = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`)
	javaImport    = regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`)
	goImport      = regexp.MustCompile(`^\s*import\s+(?:\w+\s+)?"([^"]+)"`)
	goBlockImport = regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"`)
)

// extractDependencies line-scans content for import statements. This is a
// heuristic, not true parsing.
func extractDependencies(language, content string) []string {
	var deps []string
	seen := make(map[string]bool)
	add := func(dep string) {
		if dep != "" && !seen[dep] {
			seen[dep] = true
			deps = append(deps, dep)
		}
	}

	lines := strings.Split(content, "\n")
	switch language {
	case "javascript", "typescript":
		for _, line := range lines {
			for _, m := range jsImportFrom.FindAllStringSubmatch(line, -1) {
				add(m[1])
			}
			for _, m := range jsRequire.FindAllStringSubmatch(line, -1) {
				add(m[1])
			}
		}
	case "python":
		for _, line := range lines {
			if m := pyFromImport.FindStringSubmatch(line); m != nil {
				add(m[1])
				continue
			}
			if m := pyImport.FindStringSubmatch(line); m != nil {
				add(m[1])
			}
		}
	case "java":
		for _, line := range lines {
			if m := javaImport.FindStringSubmatch(line); m != nil {
				add(m[1])
			}
		}
	case "go":
		inBlock := false
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "import (") {
				inBlock = true
				continue
			}
			if inBlock {
				if trimmed == ")" {
					inBlock = false
					continue
				}
				if m := goBlockImport.FindStringSubmatch(line); m != nil {
					add(m[1])
				}
				continue
			}
			if m := goImport.FindStringSubmatch(line); m != nil {
				add(m[1])
			}
		}
	}
	return deps
}

// extractExports pulls exported symbol names. Only JS and TS have an export
// keyword to scan for.
func extractExports(language, content string) []string {
	if language != "javascript" && language != "typescript" {
		return nil
	}
	var exports []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		for _, m := range jsExport.FindAllStringSubmatch(line, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				exports = append(exports, m[1])
			}
		}
	}
	return exports
}
