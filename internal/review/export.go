package review

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// ExportBOM marks the document as UTF-8 for spreadsheet tools.
const ExportBOM = "\ufeff"

// ExportContentType is the media type of the exported document.
const ExportContentType = "text/csv; charset=utf-8"

// DefaultExportPrefix is prepended to the dated export file name.
const DefaultExportPrefix = "training-registrations-"

// Locale holds the human-language parts of the export and the collation
// language used for sorting.
type Locale struct {
	Tag            language.Tag
	Headers        []string
	Yes            string
	No             string
	DateTimeLayout string
}

// English export labels.
var English = Locale{
	Tag: language.English,
	Headers: []string{
		"Full Name",
		"Corporate Email",
		"Department",
		"Familiarity",
		"Day",
		"Accessibility",
		"Accessibility Description",
		"Observations",
		"Registration Date",
	},
	Yes:            "Yes",
	No:             "No",
	DateTimeLayout: "1/2/2006, 3:04:05 PM",
}

// BrazilianPortuguese export labels, as used by the HR team's spreadsheets.
var BrazilianPortuguese = Locale{
	Tag: language.BrazilianPortuguese,
	Headers: []string{
		"Nome Completo",
		"E-mail Corporativo",
		"Departamento",
		"Familiaridade",
		"Dia",
		"Acessibilidade",
		"Descrição Acessibilidade",
		"Observações",
		"Data Inscrição",
	},
	Yes:            "Sim",
	No:             "Não",
	DateTimeLayout: "02/01/2006, 15:04:05",
}

var (
	locales       = []Locale{English, BrazilianPortuguese}
	localeMatcher = language.NewMatcher([]language.Tag{English.Tag, BrazilianPortuguese.Tag})
)

// LocaleFor resolves a BCP 47 tag such as "en", "pt-BR" or "pt" to the closest
// supported locale.
func LocaleFor(tag string) (Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", tag, err)
	}
	_, idx, conf := localeMatcher.Match(t)
	if conf == language.No {
		return Locale{}, fmt.Errorf("unsupported locale %q", tag)
	}
	return locales[idx], nil
}

// ExportOptions controls rendering of the export document.
type ExportOptions struct {
	Locale   Locale
	Location *time.Location // time zone for the registration date; nil means UTC
	Prefix   string         // file name prefix; empty means DefaultExportPrefix
}

// Document is a downloadable export.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
	Rows        int // data rows, excluding the header
}

// Export renders every record, in the given order, as a semicolon-separated
// document with a header row. now dates the file name.
func Export(records []core.Registration, now time.Time, opts ExportOptions) (Document, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	locale := opts.Locale
	if len(locale.Headers) == 0 {
		locale = English
	}

	var buf bytes.Buffer
	buf.WriteString(ExportBOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(locale.Headers); err != nil {
		return Document{}, fmt.Errorf("write export header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(exportRow(r, locale, loc)); err != nil {
			return Document{}, fmt.Errorf("write export row %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Document{}, fmt.Errorf("flush export: %w", err)
	}

	return Document{
		Name:        ExportFileName(opts.Prefix, now),
		ContentType: ExportContentType,
		Data:        buf.Bytes(),
		Rows:        len(records),
	}, nil
}

// ExportFileName returns prefix + YYYY-MM-DD + ".csv", dated in UTC.
func ExportFileName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultExportPrefix
	}
	return prefix + now.UTC().Format(time.DateOnly) + ".csv"
}

func exportRow(r core.Registration, locale Locale, loc *time.Location) []string {
	accessibility := locale.No
	if r.NeedsAccessibility {
		accessibility = locale.Yes
	}
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.In(loc).Format(locale.DateTimeLayout)
	}
	return []string{
		r.FullName,
		r.CorporateEmail,
		r.Department,
		r.AutomationFamiliarity,
		r.ParticipationDay,
		accessibility,
		core.StringValue(r.AccessibilityDescription),
		core.StringValue(r.Observations),
		created,
	}
}
