package core

// convert.go normalises raw form input before it is validated and stored.
//
// Browsers and copy-paste bring along the usual noise: surrounding whitespace,
// NUL bytes, non-breaking spaces and stray BOMs. Optional text that is blank
// after cleanup becomes nil so the store writes NULL.

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// CleanField trims whitespace and removes characters that have no business in
// a text column.
func CleanField(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\ufeff", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// OptionalText returns nil for blank input, otherwise a pointer to the
// cleaned value.
func OptionalText(s string) *string {
	s = CleanField(s)
	if s == "" {
		return nil
	}
	return &s
}

// ToPgText converts an optional string to pgtype.Text.
// nil becomes an invalid (NULL) value.
func ToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// FromPgText converts a pgtype.Text back to an optional string.
func FromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
