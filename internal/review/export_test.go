package review

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

func parseExport(t *testing.T, doc Document) [][]string {
	t.Helper()
	body := string(doc.Data)
	require.True(t, strings.HasPrefix(body, ExportBOM), "missing BOM")

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, ExportBOM)))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExport_EnglishDefault(t *testing.T) {
	records := []core.Registration{{
		ID:                       "1",
		FullName:                 "Ana Souza",
		CorporateEmail:           "ana@empresa.com",
		Department:               "Operações",
		AutomationFamiliarity:    "high",
		ParticipationDay:         "12/12",
		NeedsAccessibility:       true,
		AccessibilityDescription: ptr("wheelchair; ramp"),
		Observations:             ptr(`says "hi"`),
		CreatedAt:                time.Date(2024, 12, 5, 14, 30, 0, 0, time.UTC),
	}}

	now := time.Date(2024, 12, 6, 23, 59, 0, 0, time.UTC)
	doc, err := Export(records, now, ExportOptions{})
	require.NoError(t, err)

	assert.Equal(t, "training-registrations-2024-12-06.csv", doc.Name)
	assert.Equal(t, ExportContentType, doc.ContentType)
	assert.Equal(t, 1, doc.Rows)

	rows := parseExport(t, doc)
	require.Len(t, rows, 2)
	assert.Equal(t, English.Headers, rows[0])
	assert.Equal(t, []string{
		"Ana Souza", "ana@empresa.com", "Operações", "high", "12/12",
		"Yes", "wheelchair; ramp", `says "hi"`, "12/5/2024, 2:30:00 PM",
	}, rows[1])
}

func TestExport_PortugueseWithTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	records := []core.Registration{{
		ID:        "1",
		FullName:  "Bruno",
		CreatedAt: time.Date(2024, 12, 5, 14, 30, 0, 0, time.UTC),
	}}
	doc, err := Export(records, baseTime, ExportOptions{
		Locale:   BrazilianPortuguese,
		Location: loc,
		Prefix:   "inscricoes-",
	})
	require.NoError(t, err)
	assert.Equal(t, "inscricoes-2024-12-01.csv", doc.Name)

	rows := parseExport(t, doc)
	assert.Equal(t, BrazilianPortuguese.Headers, rows[0])
	assert.Equal(t, "Não", rows[1][5])
	assert.Equal(t, "", rows[1][6])
	assert.Equal(t, "05/12/2024, 11:30:00", rows[1][8])
}

func TestExport_KeepsOrderAndIgnoresNothing(t *testing.T) {
	records := makeRecords(23)
	doc, err := Export(records, baseTime, ExportOptions{})
	require.NoError(t, err)

	rows := parseExport(t, doc)
	require.Len(t, rows, 24)
	for i, r := range records {
		assert.Equal(t, r.FullName, rows[i+1][0])
	}
}

func TestExport_Empty(t *testing.T) {
	doc, err := Export(nil, baseTime, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Rows)
	assert.Len(t, parseExport(t, doc), 1)
}

func TestExportFileName_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2024, 12, 6, 22, 0, 0, 0, loc)
	assert.Equal(t, "training-registrations-2024-12-07.csv", ExportFileName("", now))
}

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		tag     string
		want    string
		wantErr bool
	}{
		{"en", "Yes", false},
		{"en-US", "Yes", false},
		{"pt-BR", "Sim", false},
		{"pt", "Sim", false},
		{"not a tag!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			l, err := LocaleFor(tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Yes)
		})
	}
}
