// Package sanitize cleans and bounds user-submitted text before it is
// sent to the text-generation service.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alienxp03/boardroom/internal/core"
)

const (
	// MaxMessageLength is the hard cap on a single user message.
	MaxMessageLength = 500

	// MaxHistoryLength is the default recency window for conversation
	// history sent to the service.
	MaxHistoryLength = 20
)

// Validation errors, user-visible.
var (
	ErrEmptyMessage   = errors.New("El mensaje no puede estar vacío")
	ErrMessageTooLong = fmt.Errorf("El mensaje no puede exceder %d caracteres", MaxMessageLength)
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Basic prompt-injection patterns. Advisory only, not a security boundary;
// anything outside this fixed set passes through unchanged.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)system\s*:`),
	regexp.MustCompile(`(?i)assistant\s*:`),
}

// Sanitize strips known injection patterns, collapses whitespace runs to
// single spaces, trims, and hard-cuts the result to MaxMessageLength runes.
func Sanitize(input string) string {
	s := input
	for _, pattern := range injectionPatterns {
		s = pattern.ReplaceAllString(s, "")
	}

	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.TrimSpace(s)

	if runes := []rune(s); len(runes) > MaxMessageLength {
		s = string(runes[:MaxMessageLength])
	}

	return s
}

// Validate rejects empty or whitespace-only messages and messages over
// MaxMessageLength. It does not sanitize; callers invoke both as needed.
func Validate(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if len([]rune(message)) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// TruncateHistory keeps only the most recent maxLength entries, preserving
// order. It is a pure recency window, not a compaction strategy.
func TruncateHistory(history []core.Message, maxLength int) []core.Message {
	if maxLength <= 0 {
		maxLength = MaxHistoryLength
	}
	if len(history) <= maxLength {
		return history
	}
	return history[len(history)-maxLength:]
}
