package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "submit failure wraps store error",
			err:         fmt.Errorf("%w: %w", ErrSubmitFailed, errors.New("dial tcp: connection refused")),
			wantCode:    "REG001",
			wantMessage: "We could not complete your registration",
		},
		{
			name:        "validation errors",
			err:         ValidationErrors{{Field: FieldFullName, Message: "too short"}},
			wantCode:    "REG002",
			wantMessage: "Some fields need attention",
		},
		{
			name:        "wrapped validation errors",
			err:         fmt.Errorf("handler: %w", ValidationErrors{{Field: FieldDepartment}}),
			wantCode:    "REG002",
			wantMessage: "Some fields need attention",
		},
		{
			name:        "busy precedes submit failure",
			err:         fmt.Errorf("%w: %w", ErrSubmitFailed, ErrTooManySubmissions),
			wantCode:    "REG003",
			wantMessage: "Too many registrations are being saved right now",
		},
		{
			name:        "load failure",
			err:         fmt.Errorf("%w: %w", ErrLoadFailed, errors.New("timeout")),
			wantCode:    "LOAD001",
			wantMessage: "Registrations could not be refreshed",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint"),
			wantCode:    "DB001",
			wantMessage: "A registration with this ID already exists",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "connection reset maps correctly",
			err:         errors.New("read: connection reset by peer"),
			wantCode:    "DB005",
			wantMessage: "Database connection was interrupted",
		},
		{
			name:        "deadline precedes generic timeout",
			err:         errors.New("context deadline exceeded (timeout)"),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "generic timeout",
			err:         errors.New("i/o timeout"),
			wantCode:    "DB006",
			wantMessage: "Operation timed out",
		},
		{
			name:        "context canceled",
			err:         errors.New("context canceled"),
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("CONNECTION REFUSED"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "unknown error falls back to default",
			err:         errors.New("something unexpected"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := fmt.Errorf("%w: boom", ErrSubmitFailed)
	want := "We could not complete your registration (Code: REG001). Please try again"
	if got := FormatUserError(err); got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}
