package review

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// Result is the derived view: one page of the filtered, sorted set plus the
// numbers needed to render pagination.
type Result struct {
	Rows       []core.Registration `json:"rows"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int                 `json:"total"`       // records before filtering
	TotalRows  int                 `json:"total_rows"`  // filtered count
	TotalPages int                 `json:"total_pages"` // 0 when the filtered set is empty
	Search     string              `json:"search"`
	SortKey    SortKey             `json:"sort_key"`
	Direction  Direction           `json:"direction"`
}

// HasPrev reports whether a previous page exists.
func (r Result) HasPrev() bool { return r.Page > 1 }

// HasNext reports whether a next page exists.
func (r Result) HasNext() bool { return r.Page < r.TotalPages }

// Derive applies filter, sort and paginate, in that order, to records.
// records is not modified. The output depends only on the arguments.
func Derive(records []core.Registration, v View, lang language.Tag) Result {
	filtered := Filter(records, v.search)

	coll := collate.New(lang)
	slices.SortStableFunc(filtered, comparator(v.sortKey, v.dir, coll))

	page := v.page
	if page < 1 {
		page = 1
	}

	return Result{
		Rows:       Paginate(filtered, page, PageSize),
		Page:       page,
		PageSize:   PageSize,
		Total:      len(records),
		TotalRows:  len(filtered),
		TotalPages: TotalPages(len(filtered), PageSize),
		Search:     v.search,
		SortKey:    v.sortKey,
		Direction:  v.dir,
	}
}

// Filter returns a new slice with the records whose full name, corporate
// email or department contains search, ignoring case. An empty search keeps
// every record.
func Filter(records []core.Registration, search string) []core.Registration {
	out := make([]core.Registration, 0, len(records))
	if search == "" {
		return append(out, records...)
	}
	needle := strings.ToLower(search)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.FullName), needle) ||
			strings.Contains(strings.ToLower(r.CorporateEmail), needle) ||
			strings.Contains(strings.ToLower(r.Department), needle) {
			out = append(out, r)
		}
	}
	return out
}

// TotalPages returns ceil(n/size), which is 0 for an empty set.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns page (1-based) of records. Pages past the end are empty.
func Paginate(records []core.Registration, page, size int) []core.Registration {
	if page < 1 {
		page = 1
	}
	// Checked before multiplying: (page-1)*size overflows for huge pages.
	if page > TotalPages(len(records), size) {
		return []core.Registration{}
	}
	start := (page - 1) * size
	end := min(start+size, len(records))
	return records[start:end]
}
