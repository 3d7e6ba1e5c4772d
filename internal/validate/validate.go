// Package validate sanitizes client-supplied input before it reaches
// the engine.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxNameLength = 50
	MaxChatLength = 500
)

var (
	// Unicode letters, digits, spaces, apostrophes, hyphens,
	// underscores, dots. Covers accented names.
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
)

// Events a client is allowed to send.
var inboundEvents = map[string]bool{
	"student_join":            true,
	"teacher_create_poll":     true,
	"submit_answer":           true,
	"teacher_show_results":    true,
	"teacher_request_history": true,
	"send_chat":               true,
	"kick_student":            true,
}

// IsInboundEvent reports whether an event name is one clients may send.
func IsInboundEvent(event string) bool {
	return inboundEvents[event]
}

// Name trims and validates a display name. Returns the sanitized name.
func Name(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters")
	}
	return name, nil
}

// ChatText trims a chat message and caps its length. Empty messages
// are rejected.
func ChatText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("chat message cannot be empty")
	}
	if len(text) > MaxChatLength {
		text = text[:MaxChatLength]
	}
	return text, nil
}
