package prompt

import (
	"strings"
	"text/template"

	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/checks"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

const issueSchema = `{
  "issues": [
    {
      "id": "<the check id, copied exactly>",
      "title": "<the check title>",
      "status": "<passed|failed>",
      "description": "<detailed description of the outcome>",
      "relevantText": "<first occurrence, verbatim>",
      "count": 0,
      "occurrences": ["<verbatim snippet>"]
    }
  ]
}`

const checklistSystem = `You are an expert SOW (Statement of Work) auditor. You analyze the provided SOW document against a set of rules and must produce one valid JSON object only (no markdown, no commentary, no code fences) that follows the schema below.

Requirements:
- For each rule, return exactly one issue with the same id as the rule, its title, a status ("passed" or "failed") and a detailed description of the outcome.
- You must identify ALL occurrences of an issue.
- occurrences: an array with the EXACT, verbatim text snippet of every single instance of the issue.
- count: the total number of occurrences found.
- relevantText: the first occurrence, as the main relevant text for initial focus.
- If no specific text is relevant (for example a missing section), relevantText must be the sentence of the document closest to where the missing item should be, occurrences must be an empty array and count must be 0.

Schema:
` + issueSchema

var rulesTmpl = template.Must(template.New("rules").Parse(`Document to analyze:
` + "```" + `
{{.Document}}
` + "```" + `

Rules to enforce:
{{range .Checks}}- ID: "{{.ID}}", Title: "{{.Title}}"
  Logic: {{.Prompt}}
{{end}}
Respond with the JSON object per schema. Produce exactly one issue for each rule above.`))

// Checklist renders the checklist-scan prompt for the given normalized document and rules.
func Checklist(document string, list []checks.Check) ai.Prompt {
	return ai.Prompt{
		Name:   scans.PromptChecklist,
		System: checklistSystem,
		User:   renderRules(document, list),
	}
}

// LegacyChecklist renders the fixed nine-rule scan kept for clients that never
// configured their own checks.
func LegacyChecklist(document string) ai.Prompt {
	return ai.Prompt{
		Name:   scans.PromptLegacyChecklist,
		System: checklistSystem,
		User:   renderRules(document, checks.Defaults()),
	}
}

func renderRules(document string, list []checks.Check) string {
	var b strings.Builder
	// the template only ranges over plain structs, execution cannot fail
	_ = rulesTmpl.Execute(&b, struct {
		Document string
		Checks   []checks.Check
	}{document, list})
	return b.String()
}
