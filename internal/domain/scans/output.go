package scans

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/arishali16742/SOW/internal/domain/ai"
	"github.com/arishali16742/SOW/internal/domain/checks"
)

// Prompt names, used in error reports.
const (
	PromptChecklist       = "checklist-scan"
	PromptLegacyChecklist = "legacy-checklist"
	PromptCustom          = "custom-prompt"
	PromptSuggestion      = "suggestion"
)

type rawIssue struct {
	ID           *string  `json:"id"`
	Title        *string  `json:"title"`
	Status       *string  `json:"status"`
	Description  *string  `json:"description"`
	RelevantText *string  `json:"relevantText"`
	Count        *int     `json:"count"`
	Occurrences  []string `json:"occurrences"`
}

// CleanJSON strips markdown code fences some models wrap around JSON.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// ParseChecklist validates a checklist answer and orders it like list.
// Ids the model invented are dropped, as are duplicates after the first.
// Checks the model skipped are simply absent from the result.
func ParseChecklist(prompt, raw string, list []checks.Check) ([]Issue, error) {
	items, err := decodeIssueArray(prompt, raw)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Issue, len(items))
	for n, it := range items {
		is, err := it.toIssue()
		if err != nil {
			return nil, ai.InvalidOutput(prompt, raw, "issue %d: %v", n, err)
		}
		if _, dup := byID[is.ID]; !dup {
			byID[is.ID] = is
		}
	}

	out := make([]Issue, 0, len(list))
	for _, c := range list {
		is, ok := byID[c.ID]
		if !ok {
			continue
		}
		is.Title = c.Title
		out = append(out, is)
	}
	return out, nil
}

// ParseCustom validates a custom-prompt answer.
func ParseCustom(raw string) (CustomFinding, error) {
	var v struct {
		Status       *string `json:"status"`
		Description  *string `json:"description"`
		RelevantText *string `json:"relevantText"`
	}
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &v); err != nil {
		return CustomFinding{}, ai.InvalidOutput(PromptCustom, raw, "decode: %v", err)
	}
	if v.Status == nil || v.Description == nil || v.RelevantText == nil {
		return CustomFinding{}, ai.InvalidOutput(PromptCustom, raw, "status, description and relevantText are required")
	}
	st := normalizeStatus(*v.Status)
	if !st.Valid() {
		return CustomFinding{}, ai.InvalidOutput(PromptCustom, raw, "unknown status %q", *v.Status)
	}
	return CustomFinding{Status: st, Description: *v.Description, RelevantText: *v.RelevantText}, nil
}

// ParseSuggestions validates a suggestion answer. An empty list is valid.
func ParseSuggestions(raw string) ([]string, error) {
	var v struct {
		Suggested *[]string `json:"suggestedImprovements"`
	}
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &v); err != nil {
		return nil, ai.InvalidOutput(PromptSuggestion, raw, "decode: %v", err)
	}
	if v.Suggested == nil {
		// "null" decodes to a nil pointer too, so look for the key itself
		var keys map[string]json.RawMessage
		_ = json.Unmarshal([]byte(CleanJSON(raw)), &keys)
		if _, ok := keys["suggestedImprovements"]; !ok {
			return nil, ai.InvalidOutput(PromptSuggestion, raw, "suggestedImprovements is required")
		}
		return []string{}, nil
	}
	out := make([]string, 0, len(*v.Suggested))
	for _, s := range *v.Suggested {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// decodeIssueArray accepts either a bare array or an object wrapping it under "issues".
func decodeIssueArray(prompt, raw string) ([]rawIssue, error) {
	data := []byte(CleanJSON(raw))
	if len(data) == 0 {
		return nil, ai.InvalidOutput(prompt, raw, "empty response")
	}

	var items []rawIssue
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, ai.InvalidOutput(prompt, raw, "decode: %v", err)
		}
		return items, nil
	}

	var wrapped struct {
		Issues *[]rawIssue `json:"issues"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, ai.InvalidOutput(prompt, raw, "decode: %v", err)
	}
	if wrapped.Issues == nil {
		return nil, ai.InvalidOutput(prompt, raw, "issues array is required")
	}
	return *wrapped.Issues, nil
}

func (r rawIssue) toIssue() (Issue, error) {
	switch {
	case r.ID == nil || strings.TrimSpace(*r.ID) == "":
		return Issue{}, errField("id")
	case r.Title == nil:
		return Issue{}, errField("title")
	case r.Status == nil:
		return Issue{}, errField("status")
	case r.Description == nil:
		return Issue{}, errField("description")
	case r.RelevantText == nil:
		return Issue{}, errField("relevantText")
	}
	st := normalizeStatus(*r.Status)
	if !st.Valid() {
		return Issue{}, fieldError("status " + *r.Status + " is not passed or failed")
	}
	if r.Count != nil && *r.Count < 0 {
		return Issue{}, fieldError("count must not be negative")
	}

	is := Issue{
		ID:           strings.TrimSpace(*r.ID),
		Title:        *r.Title,
		Status:       st,
		Description:  *r.Description,
		RelevantText: *r.RelevantText,
		Count:        r.Count,
	}
	for _, o := range r.Occurrences {
		if o != "" {
			is.Occurrences = append(is.Occurrences, o)
		}
	}
	return is, nil
}

func normalizeStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func errField(name string) error { return fieldError(name + " is required") }
