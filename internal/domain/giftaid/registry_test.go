package giftaid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(id string) Record {
	return Record{ID: id, PaidAmount: "1.00"}
}

func TestSelectionRegistry_ReconcilePage(t *testing.T) {
	t.Run("adds checked rows", func(t *testing.T) {
		reg := NewSelectionRegistry()
		reg.ReconcilePage([]string{"a", "b", "c"}, []Record{rec("a"), rec("c")})

		assert.Equal(t, []string{"a", "c"}, reg.SelectedIDs())
		assert.Equal(t, 2, reg.Count())
	})

	t.Run("drops unchecked rows of the page only", func(t *testing.T) {
		reg := NewSelectionRegistry()
		reg.ReconcilePage([]string{"a", "b"}, []Record{rec("a"), rec("b")})
		reg.ReconcilePage([]string{"c", "d"}, []Record{rec("c")})

		reg.ReconcilePage([]string{"a", "b"}, []Record{rec("b")})

		assert.Equal(t, []string{"b", "c"}, reg.SelectedIDs())
		assert.False(t, reg.Contains("a"))
		assert.True(t, reg.Contains("c"))
	})

	t.Run("keeps first selection order when a row stays checked", func(t *testing.T) {
		reg := NewSelectionRegistry()
		reg.ReconcilePage([]string{"a", "b"}, []Record{rec("b")})
		reg.ReconcilePage([]string{"c"}, []Record{rec("c")})
		reg.ReconcilePage([]string{"a", "b"}, []Record{rec("a"), rec("b")})

		assert.Equal(t, []string{"b", "c", "a"}, reg.SelectedIDs())
	})

	t.Run("overwrites snapshots of reselected rows", func(t *testing.T) {
		reg := NewSelectionRegistry()
		reg.ReconcilePage([]string{"a"}, []Record{{ID: "a", PaidAmount: "1.00"}})
		reg.ReconcilePage([]string{"a"}, []Record{{ID: "a", PaidAmount: "2.00"}})

		selected := reg.Selected()
		assert.Len(t, selected, 1)
		assert.Equal(t, "2.00", selected[0].PaidAmount)
	})

	t.Run("empty page report clears that page", func(t *testing.T) {
		reg := NewSelectionRegistry()
		reg.ReconcilePage([]string{"a", "b"}, []Record{rec("a"), rec("b")})
		reg.ReconcilePage([]string{"a", "b"}, nil)

		assert.Equal(t, 0, reg.Count())
		assert.Empty(t, reg.SelectedIDs())
	})
}

func TestSelectionRegistry_SelectedIDsIsACopy(t *testing.T) {
	reg := NewSelectionRegistry()
	reg.ReconcilePage([]string{"a"}, []Record{rec("a")})

	ids := reg.SelectedIDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"a"}, reg.SelectedIDs())
}

func TestSelectionRegistry_Clear(t *testing.T) {
	reg := NewSelectionRegistry()
	reg.ReconcilePage([]string{"a", "b"}, []Record{rec("a"), rec("b")})

	reg.Clear()

	assert.Equal(t, 0, reg.Count())
	assert.False(t, reg.Contains("a"))
	reg.ReconcilePage([]string{"b"}, []Record{rec("b")})
	assert.Equal(t, []string{"b"}, reg.SelectedIDs())
}
