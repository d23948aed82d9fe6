package core

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestCleanField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Ana", "Ana"},
		{"surrounding whitespace", "  Ana Souza \t\n", "Ana Souza"},
		{"null bytes", "An\x00a", "Ana"},
		{"bom", "\ufeffAna", "Ana"},
		{"nbsp becomes space", "Ana\u00a0Souza", "Ana Souza"},
		{"trailing nbsp trimmed", "Ana\u00a0", "Ana"},
		{"only whitespace", " \u00a0 ", ""},
		{"accents kept", " Operações ", "Operações"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanField(tt.input); got != tt.want {
				t.Errorf("CleanField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptionalText(t *testing.T) {
	if got := OptionalText("   "); got != nil {
		t.Errorf("OptionalText(blank) = %q, want nil", *got)
	}
	got := OptionalText(" wheelchair access ")
	if got == nil || *got != "wheelchair access" {
		t.Errorf("OptionalText() = %v, want %q", got, "wheelchair access")
	}
}

func TestPgTextRoundTrip(t *testing.T) {
	if v := ToPgText(nil); v.Valid {
		t.Errorf("ToPgText(nil).Valid = true, want false")
	}
	if s := FromPgText(pgtype.Text{}); s != nil {
		t.Errorf("FromPgText(NULL) = %q, want nil", *s)
	}

	in := "vegetarian"
	v := ToPgText(&in)
	if !v.Valid || v.String != in {
		t.Errorf("ToPgText() = %+v", v)
	}
	out := FromPgText(v)
	if out == nil || *out != in {
		t.Errorf("FromPgText() = %v, want %q", out, in)
	}

	// Empty but present text is distinct from NULL.
	empty := ""
	if got := FromPgText(ToPgText(&empty)); got == nil || *got != "" {
		t.Errorf("empty text round trip = %v", got)
	}
}

func TestStringValue(t *testing.T) {
	if got := StringValue(nil); got != "" {
		t.Errorf("StringValue(nil) = %q", got)
	}
	s := "x"
	if got := StringValue(&s); got != "x" {
		t.Errorf("StringValue() = %q", got)
	}
}
