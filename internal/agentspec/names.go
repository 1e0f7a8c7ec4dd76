package agentspec

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const classSuffix = "Agent"

// DeriveIdentifiers computes the agent and class names for an info.name
// value. The agent name swaps hyphens for underscores. The class name
// title-cases each underscore-delimited segment of the agent name and appends
// "Agent" unless the result already ends with it (case-insensitive), so
// "my-agent-agent" becomes "MyAgentAgent" rather than "MyAgentAgentAgent".
func DeriveIdentifiers(name string) Identifiers {
	agentName := strings.ReplaceAll(name, "-", "_")

	// Casers are stateful; allocate one per call.
	caser := cases.Title(language.Und)

	var b strings.Builder
	for _, seg := range strings.Split(agentName, "_") {
		if seg == "" {
			continue
		}
		b.WriteString(caser.String(seg))
	}

	className := b.String()
	if !strings.HasSuffix(strings.ToLower(className), strings.ToLower(classSuffix)) {
		className += classSuffix
	}

	return Identifiers{AgentName: agentName, ClassName: className}
}

// DisplayName turns info.name into a heading, e.g. "test-agent" -> "Test Agent".
func DisplayName(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "-", " "))
}

// CamelCase joins the hyphen- or underscore-delimited words of s with each
// word title-cased, e.g. "summarize-text" -> "SummarizeText".
func CamelCase(s string) string {
	caser := cases.Title(language.Und)
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, "")
}
