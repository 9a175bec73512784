package template

import (
	"regexp"
	"strings"

	"github.com/yourusername/copilot-core/models"
)

var (
	conditionalBlock = regexp.MustCompile(`(?s)\{\{#if\s+(\w+)\}\}(.*?)\{\{/if\}\}`)
	loopBlock        = regexp.MustCompile(`(?s)\{\{#each\s+(\w+)\}\}(.*?)\{\{/each\}\}`)
)

// render substitutes variables into the template body in three passes:
// simple {{name}} substitution, then {{#if}} conditionals, then {{#each}}
// loops. The order is load-bearing: conditionals and loops must see
// substituted content. Unresolved {{name}} tokens survive as-is.
func render(body string, variables map[string]models.VariableValue) string {
	out := body
	for name, value := range variables {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value.Value)
	}
	out = renderConditionals(out, variables)
	out = renderLoops(out, variables)
	return out
}

// renderConditionals keeps each {{#if var}} block iff the variable is
// present and not "false", "0" or "".
func renderConditionals(body string, variables map[string]models.VariableValue) string {
	return conditionalBlock.ReplaceAllStringFunc(body, func(block string) string {
		m := conditionalBlock.FindStringSubmatch(block)
		value, present := variables[m[1]]
		if present && isTruthy(value.Value) {
			return m[2]
		}
		return ""
	})
}

// renderLoops expands each {{#each var}} block once per array item, with
// {{this}} bound to the item; expanded blocks are joined by newline. A
// missing or non-array variable renders nothing.
func renderLoops(body string, variables map[string]models.VariableValue) string {
	return loopBlock.ReplaceAllStringFunc(body, func(block string) string {
		m := loopBlock.FindStringSubmatch(block)
		value, present := variables[m[1]]
		if !present || len(value.Items) == 0 {
			return ""
		}
		expanded := make([]string, len(value.Items))
		for i, item := range value.Items {
			expanded[i] = strings.ReplaceAll(m[2], "{{this}}", item)
		}
		return strings.Join(expanded, "\n")
	})
}

func isTruthy(value string) bool {
	switch value {
	case "", "false", "0":
		return false
	}
	return true
}

// UnresolvedVariables lists the {{name}} tokens still present in rendered
// output, the detectable soft-failure for missing required variables.
func UnresolvedVariables(rendered string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range simpleToken.FindAllStringSubmatch(rendered, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

var simpleToken = regexp.MustCompile(`\{\{(\w+)\}\}`)
