package checks

import "strings"

// Check is one natural-language compliance rule evaluated by the model.
type Check struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// Validate reports ErrInvalidInput when the check cannot be sent to a model.
func (c Check) Validate() error {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Prompt) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Clone returns an independent copy of the list.
func Clone(list []Check) []Check {
	if list == nil {
		return nil
	}
	out := make([]Check, len(list))
	copy(out, list)
	return out
}

// IndexOf returns the position of id in list, or -1.
func IndexOf(list []Check, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
