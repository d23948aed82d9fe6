// Package core provides the domain types and business logic for training
// registrations.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to HR or support
// staff for faster diagnosis.
//
// # Registration Errors (REG001-REG099)
//
//	REG001 - Submit failed: The registration could not be saved
//	         Action: Please try again
//	         Sentinel: ErrSubmitFailed
//
//	REG002 - Invalid form: Some fields need attention
//	         Action: Review the highlighted fields
//	         Sentinel: ValidationErrors
//
//	REG003 - Busy: Too many registrations are being saved right now
//	         Action: Wait a moment and submit again
//	         Sentinel: ErrTooManySubmissions
//
// # Review Errors (LOAD001-LOAD099)
//
//	LOAD001 - Load failed: Registrations could not be refreshed
//	          Action: The list shows the last loaded data
//	          Sentinel: ErrLoadFailed
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A registration with this ID already exists
//	        Patterns: "duplicate key", "violates unique"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Patterns "context canceled"
//	REQ002 - Request timeout: Patterns "context deadline exceeded"
//	REQ003 - Not found: Patterns "not found"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Patterns "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no sentinel or pattern matches. Check the application logs
// for the original technical error, correlated by request_id.
//
// # Matching Order
//
// Sentinels are checked first with errors.Is / errors.As, then the patterns
// are matched case-insensitively using strings.Contains. The first matching
// pattern wins, so more specific patterns are defined before general ones.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	submitFailedMessage = UserMessage{
		Message: "We could not complete your registration",
		Action:  "Please try again",
		Code:    "REG001",
	}
	invalidFormMessage = UserMessage{
		Message: "Some fields need attention",
		Action:  "Review the highlighted fields",
		Code:    "REG002",
	}
	busyMessage = UserMessage{
		Message: "Too many registrations are being saved right now",
		Action:  "Please wait a moment and submit again",
		Code:    "REG003",
	}
	loadFailedMessage = UserMessage{
		Message: "Registrations could not be refreshed",
		Action:  "The list shows the last loaded data",
		Code:    "LOAD001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A registration with this ID already exists",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A registration with this ID already exists",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// =========================================================================
	// Request Errors
	// "context deadline exceeded" must precede the generic "timeout".
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please check your connection and try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "The requested page does not exist",
			Action:  "Check the address and try again",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	err := fmt.Errorf("%w: %w", ErrSubmitFailed, dbErr)
//	msg := MapError(err)
//	// msg.Code == "REG001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return invalidFormMessage
	case errors.Is(err, ErrTooManySubmissions):
		return busyMessage
	case errors.Is(err, ErrSubmitFailed):
		return submitFailedMessage
	case errors.Is(err, ErrLoadFailed):
		return loadFailedMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
