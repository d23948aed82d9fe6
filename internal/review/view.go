package review

// PageSize is the fixed number of rows per page.
const PageSize = 10

// View is the user-controlled state of one HR table: search text, sort key,
// sort direction and page number. The zero value is not useful; start from
// NewView.
type View struct {
	search  string
	sortKey SortKey
	dir     Direction
	page    int
}

// NewView returns the initial state: no search, newest first, page 1.
func NewView() View {
	return View{sortKey: SortCreatedAt, dir: Desc, page: 1}
}

// RestoreView rebuilds a View from previously rendered state (e.g. a query
// string) without the page resets the setters apply. Invalid values fall back
// to the NewView defaults.
func RestoreView(search string, key SortKey, dir Direction, page int) View {
	v := NewView()
	v.search = search
	if _, ok := ParseSortKey(string(key)); ok {
		v.sortKey = key
		v.dir = dir
		if dir != Asc && dir != Desc {
			v.dir = Asc
		}
	}
	if page >= 1 {
		v.page = page
	}
	return v
}

// Search returns the current search text.
func (v View) Search() string { return v.search }

// SortKey returns the current sort key.
func (v View) SortKey() SortKey { return v.sortKey }

// Direction returns the current sort direction.
func (v View) Direction() Direction { return v.dir }

// Page returns the current page number (1-based).
func (v View) Page() int { return v.page }

// SetSearch changes the search text and returns to page 1.
func (v *View) SetSearch(text string) {
	v.search = text
	v.page = 1
}

// SetSort selects a sort key and returns to page 1. Selecting the current key
// toggles the direction; a new key starts ascending. Unknown keys are ignored.
func (v *View) SetSort(key SortKey) {
	if _, ok := ParseSortKey(string(key)); !ok {
		return
	}
	if v.sortKey == key {
		v.dir = v.dir.Toggle()
	} else {
		v.sortKey = key
		v.dir = Asc
	}
	v.page = 1
}

// SetPage moves to page n. Values below 1 are clamped to 1; the upper bound
// is not checked here because it depends on the filtered set.
func (v *View) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	v.page = n
}
