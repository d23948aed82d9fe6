package core

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/form.yaml
var defaultCatalogYAML []byte

// Option is a selectable value with its display label.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Catalog holds the closed sets agreed with the registration form.
type Catalog struct {
	Departments []string `yaml:"departments" json:"departments"`
	Familiarity []Option `yaml:"familiarity" json:"familiarity"`
	Days        []string `yaml:"days" json:"days"`
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded form catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from path, or returns the embedded default when
// path is empty. Files saved with a UTF-8 or UTF-16 byte order mark are
// decoded to plain UTF-8 first.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read form catalog: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return Catalog{}, fmt.Errorf("read form catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse form catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that every closed set is non-empty and free of blanks.
func (c Catalog) Validate() error {
	var errs []string
	if len(c.Departments) == 0 {
		errs = append(errs, "departments is empty")
	}
	if len(c.Familiarity) == 0 {
		errs = append(errs, "familiarity is empty")
	}
	if len(c.Days) == 0 {
		errs = append(errs, "days is empty")
	}
	for _, d := range c.Departments {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, "departments contains a blank entry")
			break
		}
	}
	for _, o := range c.Familiarity {
		if strings.TrimSpace(o.Value) == "" {
			errs = append(errs, "familiarity contains a blank value")
			break
		}
	}
	for _, d := range c.Days {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, "days contains a blank entry")
			break
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid form catalog: %s", strings.Join(errs, "; "))
	}
	return nil
}

// HasDepartment reports whether d is an offered department.
func (c Catalog) HasDepartment(d string) bool {
	return containsFold(c.Departments, d)
}

// HasFamiliarity reports whether v is an offered familiarity value.
func (c Catalog) HasFamiliarity(v string) bool {
	for _, o := range c.Familiarity {
		if strings.EqualFold(o.Value, v) {
			return true
		}
	}
	return false
}

// HasDay reports whether d is an offered participation day.
func (c Catalog) HasDay(d string) bool {
	return containsFold(c.Days, d)
}

// FamiliarityLabel returns the display label for a stored familiarity value.
// Unknown values are shown with their first letter upper-cased.
func (c Catalog) FamiliarityLabel(v string) string {
	for _, o := range c.Familiarity {
		if strings.EqualFold(o.Value, v) && o.Label != "" {
			return o.Label
		}
	}
	if v == "" {
		return v
	}
	r := []rune(v)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
