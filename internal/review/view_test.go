package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewView(t *testing.T) {
	v := NewView()
	assert.Equal(t, "", v.Search())
	assert.Equal(t, SortCreatedAt, v.SortKey())
	assert.Equal(t, Desc, v.Direction())
	assert.Equal(t, 1, v.Page())
}

func TestSetSort(t *testing.T) {
	v := NewView()
	v.SetPage(3)

	v.SetSort(SortFullName)
	assert.Equal(t, SortFullName, v.SortKey())
	assert.Equal(t, Asc, v.Direction(), "new key starts ascending")
	assert.Equal(t, 1, v.Page())

	v.SetPage(2)
	v.SetSort(SortFullName)
	assert.Equal(t, Desc, v.Direction(), "same key toggles")
	assert.Equal(t, 1, v.Page())

	v.SetSort(SortFullName)
	assert.Equal(t, Asc, v.Direction())

	v.SetSort(SortDepartment)
	assert.Equal(t, SortDepartment, v.SortKey())
	assert.Equal(t, Asc, v.Direction())
}

func TestSetSort_ToggleCreatedAtFromDefault(t *testing.T) {
	v := NewView()
	v.SetSort(SortCreatedAt)
	assert.Equal(t, Asc, v.Direction())
}

func TestSetSort_UnknownKeyIgnored(t *testing.T) {
	v := NewView()
	v.SetPage(4)
	v.SetSort("salary")
	assert.Equal(t, SortCreatedAt, v.SortKey())
	assert.Equal(t, 4, v.Page())
}

func TestSetSearchResetsPage(t *testing.T) {
	v := NewView()
	v.SetPage(5)
	v.SetSearch("ana")
	assert.Equal(t, "ana", v.Search())
	assert.Equal(t, 1, v.Page())
}

func TestSetPageClamps(t *testing.T) {
	v := NewView()
	v.SetPage(0)
	assert.Equal(t, 1, v.Page())
	v.SetPage(-3)
	assert.Equal(t, 1, v.Page())
	v.SetPage(99)
	assert.Equal(t, 99, v.Page())
}

func TestRestoreView(t *testing.T) {
	tests := []struct {
		name     string
		key      SortKey
		dir      Direction
		page     int
		wantKey  SortKey
		wantDir  Direction
		wantPage int
	}{
		{"valid", SortDepartment, Desc, 3, SortDepartment, Desc, 3},
		{"unknown key falls back", "salary", Asc, 2, SortCreatedAt, Desc, 2},
		{"bad direction becomes asc", SortFullName, "sideways", 1, SortFullName, Asc, 1},
		{"bad page", SortFullName, Asc, 0, SortFullName, Asc, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := RestoreView("q", tt.key, tt.dir, tt.page)
			assert.Equal(t, "q", v.Search())
			assert.Equal(t, tt.wantKey, v.SortKey())
			assert.Equal(t, tt.wantDir, v.Direction())
			assert.Equal(t, tt.wantPage, v.Page())
		})
	}
}

func TestParseSortKeyAndDirection(t *testing.T) {
	k, ok := ParseSortKey(" Full_Name ")
	assert.True(t, ok)
	assert.Equal(t, SortFullName, k)

	_, ok = ParseSortKey("password")
	assert.False(t, ok)

	assert.Equal(t, Desc, ParseDirection("DESC"))
	assert.Equal(t, Asc, ParseDirection(""))
	assert.Equal(t, Asc, Desc.Toggle())
}
