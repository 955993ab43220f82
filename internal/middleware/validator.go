package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Input validation and sanitization utilities

const (
	maxPromptLength   = 4000
	maxTitleLength    = 200
	maxFileNameLength = 255
)

var (
	checkIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	scanIDPattern  = regexp.MustCompile(`^(scan|custom)-[0-9]{1,20}$`)
)

// ValidateFileName checks an uploaded file name and its extension against allowed.
func ValidateFileName(name string, allowed []string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if len(name) > maxFileNameLength {
		return fmt.Errorf("file name too long (max %d chars)", maxFileNameLength)
	}
	if strings.ContainsAny(name, "\x00\r\n") {
		return fmt.Errorf("invalid characters in file name")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("file name must not contain a path")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if len(allowed) > 0 && !slices.Contains(allowed, ext) {
		return fmt.Errorf("unsupported file type %q (allowed: %s)", ext, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateCheckID accepts the built-in ids (check1..) and generated ones (check-<uuid>).
func ValidateCheckID(id string) error {
	if id == "" {
		return fmt.Errorf("check ID cannot be empty")
	}
	if !checkIDPattern.MatchString(id) {
		return fmt.Errorf("invalid check ID format")
	}
	return nil
}

// ValidateScanID validates scan ID format
func ValidateScanID(scanID string) error {
	if scanID == "" {
		return fmt.Errorf("scan ID cannot be empty")
	}
	if !scanIDPattern.MatchString(scanID) {
		return fmt.Errorf("invalid scan ID format")
	}
	return nil
}

// ValidatePrompt checks a free-text question or check prompt.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if utf8.RuneCountInString(prompt) > maxPromptLength {
		return fmt.Errorf("prompt too long (max %d chars)", maxPromptLength)
	}
	return nil
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("title too long (max %d chars)", maxTitleLength)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	// buang control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage clamps a 1-based page number.
func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
