package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/copilot-core/models"
)

const (
	patternWeight = 0.6
	keywordWeight = 0.4
	minKeywordLen = 3
)

// scoreTemplate computes the match confidence for one template against a
// prompt: up to 0.6 when the template's pattern regex matches, plus 0.4
// times the fraction of name+description keywords found in the prompt.
func scoreTemplate(t *models.CodeTemplate, prompt string) float64 {
	confidence := 0.0
	lowerPrompt := strings.ToLower(prompt)

	if t.Pattern != "" {
		if re, err := regexp.Compile("(?i)" + t.Pattern); err == nil && re.MatchString(prompt) {
			confidence += patternWeight
		}
	}

	keywords := templateKeywords(t)
	if len(keywords) > 0 {
		hits := 0
		for _, word := range keywords {
			if strings.Contains(lowerPrompt, word) {
				hits++
			}
		}
		confidence += keywordWeight * float64(hits) / float64(len(keywords))
	}

	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// templateKeywords tokenizes the template's name and description, keeping
// deduplicated lowercase words longer than two characters.
func templateKeywords(t *models.CodeTemplate) []string {
	fields := strings.FieldsFunc(strings.ToLower(t.Name+" "+t.Description), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool)
	var words []string
	for _, word := range fields {
		if len(word) < minKeywordLen || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words
}

// extractVariables resolves each declared variable from the prompt, trying
// "name: value", "name = value", then "name value" (first match wins), and
// falling back to the declared default. A variable with no match and no
// default stays absent; its {{name}} token survives rendering untouched,
// which callers can detect.
func extractVariables(t *models.CodeTemplate, prompt string) map[string]models.VariableValue {
	variables := make(map[string]models.VariableValue)

	for _, declared := range t.Variables {
		quoted := regexp.QuoteMeta(declared.Name)
		shapes := []*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s*:\s*([^\s,]+)`, quoted)),
			regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s*=\s*([^\s,]+)`, quoted)),
			regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s+([^\s,]+)`, quoted)),
		}

		resolved := false
		for _, shape := range shapes {
			if m := shape.FindStringSubmatch(prompt); m != nil {
				variables[declared.Name] = newValue(declared, m[1], models.VariableExtracted)
				resolved = true
				break
			}
		}
		if !resolved && declared.DefaultValue != "" {
			variables[declared.Name] = newValue(declared, declared.DefaultValue, models.VariableDefaulted)
		}
	}
	return variables
}

// newValue builds a VariableValue, splitting array-typed values on commas.
func newValue(declared models.TemplateVariable, raw string, source models.VariableSource) models.VariableValue {
	value := models.VariableValue{Value: raw, Source: source}
	if declared.Type == models.VariableArray {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				value.Items = append(value.Items, item)
			}
		}
	}
	return value
}
