package prompt

import (
	"fmt"

	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/scans"
)

const suggestionSystem = `You are an AI assistant specializing in improving Statement of Work (SOW) documents. You are given an SOW document, the description of an issue found in it, and the text related to the issue. Suggest concrete improvements that correct the issue.

You must produce one valid JSON object only (no markdown, no commentary, no code fences):
{
  "suggestedImprovements": ["<string>"]
}
Return an empty array when nothing needs to change.`

// Suggestion renders the suggestion template.
func Suggestion(document, issueDescription, relevantText string) ai.Prompt {
	return ai.Prompt{
		Name:   scans.PromptSuggestion,
		System: suggestionSystem,
		User: fmt.Sprintf("SOW document:\n%s\n\nIssue description:\n%s\n\nRelevant text:\n%s\n\nRespond with the JSON object per schema.",
			document, issueDescription, relevantText),
	}
}
