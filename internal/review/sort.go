package review

import (
	"strings"
	"time"

	"golang.org/x/text/collate"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// SortKey names an orderable Registration field.
type SortKey string

// Orderable fields, named after their stored columns.
const (
	SortID                       SortKey = "id"
	SortFullName                 SortKey = "full_name"
	SortCorporateEmail           SortKey = "corporate_email"
	SortDepartment               SortKey = "department"
	SortAutomationFamiliarity    SortKey = "automation_familiarity"
	SortParticipationDay         SortKey = "participation_day"
	SortNeedsAccessibility       SortKey = "needs_accessibility"
	SortAccessibilityDescription SortKey = "accessibility_description"
	SortObservations             SortKey = "observations"
	SortCreatedAt                SortKey = "created_at"
)

// SortKeys lists every orderable field.
var SortKeys = []SortKey{
	SortID,
	SortFullName,
	SortCorporateEmail,
	SortDepartment,
	SortAutomationFamiliarity,
	SortParticipationDay,
	SortNeedsAccessibility,
	SortAccessibilityDescription,
	SortObservations,
	SortCreatedAt,
}

// ParseSortKey returns the key for s, or false if s is not orderable.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range SortKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps "asc"/"desc" (any case) to a Direction; anything else is Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindTime
)

// sortValue is a field value extracted for comparison.
type sortValue struct {
	null bool
	kind valueKind
	s    string
	b    bool
	t    time.Time
}

func (k SortKey) value(r core.Registration) sortValue {
	switch k {
	case SortID:
		return sortValue{s: r.ID}
	case SortFullName:
		return sortValue{s: r.FullName}
	case SortCorporateEmail:
		return sortValue{s: r.CorporateEmail}
	case SortDepartment:
		return sortValue{s: r.Department}
	case SortAutomationFamiliarity:
		return sortValue{s: r.AutomationFamiliarity}
	case SortParticipationDay:
		return sortValue{s: r.ParticipationDay}
	case SortNeedsAccessibility:
		return sortValue{kind: kindBool, b: r.NeedsAccessibility}
	case SortAccessibilityDescription:
		return optionalValue(r.AccessibilityDescription)
	case SortObservations:
		return optionalValue(r.Observations)
	case SortCreatedAt:
		return sortValue{kind: kindTime, t: r.CreatedAt, null: r.CreatedAt.IsZero()}
	default:
		return sortValue{null: true}
	}
}

func optionalValue(s *string) sortValue {
	if s == nil {
		return sortValue{null: true}
	}
	return sortValue{s: *s}
}

// compareValues orders two non-null values of the same kind.
// Strings use the collator, booleans put false first, times are chronological.
func compareValues(a, b sortValue, coll *collate.Collator) int {
	switch a.kind {
	case kindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case kindTime:
		return a.t.Compare(b.t)
	default:
		return coll.CompareString(a.s, b.s)
	}
}

// comparator builds the ordering used by Derive. Nulls are placed last in
// both directions; the direction only flips the comparison of non-null values.
func comparator(key SortKey, dir Direction, coll *collate.Collator) func(a, b core.Registration) int {
	return func(a, b core.Registration) int {
		av, bv := key.value(a), key.value(b)
		switch {
		case av.null && bv.null:
			return 0
		case av.null:
			return 1
		case bv.null:
			return -1
		}
		c := compareValues(av, bv, coll)
		if dir == Desc {
			c = -c
		}
		return c
	}
}
