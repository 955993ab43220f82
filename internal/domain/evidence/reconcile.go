// Package evidence locates the text a failed check points at and marks it up for display.
package evidence

import (
	"regexp"
	"sort"
	"strings"

	"github.com/arishali16742/SOW/internal/domain/scans"
)

const (
	DefaultAnchorID = "highlight-span"
	DefaultClass    = "highlight"
)

var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// Span is one located piece of evidence, as byte offsets into the document.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Reconciler wraps evidence in <mark> elements. The zero value uses the defaults.
type Reconciler struct {
	// AnchorID goes on the first span so the UI can scroll to it.
	AnchorID string
	Class    string
}

// New returns a Reconciler with the given anchor id, or the default one when empty.
func New(anchorID string) *Reconciler {
	return &Reconciler{AnchorID: anchorID}
}

// EscapePattern makes s safe to use as a literal regular expression.
func EscapePattern(s string) string {
	return regexp.QuoteMeta(s)
}

// Snippets returns the evidence for is: its unique occurrences, or its relevant text.
// Passed issues have no evidence.
func Snippets(is scans.Issue) []string {
	if !is.Failed() {
		return nil
	}
	seen := make(map[string]struct{}, len(is.Occurrences))
	var out []string
	for _, o := range is.Occurrences {
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	if len(out) == 0 && is.RelevantText != "" {
		out = append(out, is.RelevantText)
	}
	return out
}

// Spans finds every literal match of the issue's evidence, in document order.
// Matches inside markup tags are skipped and overlapping matches keep the leftmost one.
func (r *Reconciler) Spans(text string, is scans.Issue) []Span {
	snippets := Snippets(is)
	if len(snippets) == 0 {
		return nil
	}
	tags := tagPattern.FindAllStringIndex(text, -1)

	var found []Span
	for _, s := range snippets {
		re := regexp.MustCompile(EscapePattern(s))
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if insideTag(tags, loc[0], loc[1]) {
				continue
			}
			found = append(found, Span{Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].End > found[j].End
	})

	out := found[:0]
	end := 0
	for _, sp := range found {
		if sp.Start < end {
			continue
		}
		out = append(out, sp)
		end = sp.End
	}
	return out
}

// Highlight returns text with every evidence span wrapped in a mark element.
// When nothing matches the text comes back unchanged.
func (r *Reconciler) Highlight(text string, is scans.Issue) string {
	spans := r.Spans(text, is)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(spans)*40)
	last := 0
	for i, sp := range spans {
		b.WriteString(text[last:sp.Start])
		b.WriteString(`<mark class="`)
		b.WriteString(r.class())
		b.WriteByte('"')
		if i == 0 {
			b.WriteString(` id="`)
			b.WriteString(r.anchor())
			b.WriteByte('"')
		}
		b.WriteByte('>')
		b.WriteString(sp.Text)
		b.WriteString("</mark>")
		last = sp.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func (r *Reconciler) anchor() string {
	if r == nil || r.AnchorID == "" {
		return DefaultAnchorID
	}
	return r.AnchorID
}

func (r *Reconciler) class() string {
	if r == nil || r.Class == "" {
		return DefaultClass
	}
	return r.Class
}

func insideTag(tags [][]int, start, end int) bool {
	i := sort.Search(len(tags), func(i int) bool { return tags[i][1] > start })
	return i < len(tags) && tags[i][0] < end
}
