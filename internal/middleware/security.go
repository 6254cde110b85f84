package middleware

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Sanitizer provides input sanitization helpers for free-text fields.
type Sanitizer struct {
	emailRegex *regexp.Regexp
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		emailRegex: regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	}
}

// ValidateEmail validates email format
func (s *Sanitizer) ValidateEmail(email string) error {
	if !s.emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// SanitizeInput sanitizes user input
func (s *Sanitizer) SanitizeInput(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// ContainsSuspiciousContent checks for suspicious patterns in input
func (s *Sanitizer) ContainsSuspiciousContent(input string) bool {
	suspiciousPatterns := []string{
		"<script", "javascript:", "data:", "vbscript:",
		"onload=", "onerror=", "onclick=", "onmouseover=",
		"eval(", "document.cookie", "window.location",
		"<iframe", "<object", "<embed",
	}

	lower := strings.ToLower(input)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email address.
func (s *Sanitizer) NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
