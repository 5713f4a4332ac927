package giftaid

// SelectionRegistry keeps the records a user has selected, independent of the page
// they were selected on. Keys are record ids; order is the order of first selection.
type SelectionRegistry struct {
	order []string
	rows  map[string]Record
}

// NewSelectionRegistry creates an empty registry
func NewSelectionRegistry() *SelectionRegistry {
	return &SelectionRegistry{
		rows: make(map[string]Record),
	}
}

// ReconcilePage applies a per-page selection report.
// Every id of the current page is dropped first, then every selected row is
// inserted or overwritten. Ids belonging to other pages are untouched.
// A row that was already selected and is still selected keeps its position.
func (r *SelectionRegistry) ReconcilePage(currentPageIDs []string, selectedRows []Record) {
	stillSelected := make(map[string]bool, len(selectedRows))
	for _, row := range selectedRows {
		stillSelected[row.ID] = true
	}

	removed := make(map[string]bool)
	for _, id := range currentPageIDs {
		if stillSelected[id] {
			continue
		}
		if _, ok := r.rows[id]; ok {
			delete(r.rows, id)
			removed[id] = true
		}
	}
	if len(removed) > 0 {
		kept := r.order[:0]
		for _, id := range r.order {
			if !removed[id] {
				kept = append(kept, id)
			}
		}
		r.order = kept
	}

	for _, row := range selectedRows {
		if _, ok := r.rows[row.ID]; !ok {
			r.order = append(r.order, row.ID)
		}
		r.rows[row.ID] = row
	}
}

// SelectedIDs returns the selected ids in order of first selection
func (r *SelectionRegistry) SelectedIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Selected returns the last known snapshot of every selected record
func (r *SelectionRegistry) Selected() []Record {
	records := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.rows[id])
	}
	return records
}

// Contains reports whether id is selected
func (r *SelectionRegistry) Contains(id string) bool {
	_, ok := r.rows[id]
	return ok
}

// Count returns the number of selected records
func (r *SelectionRegistry) Count() int {
	return len(r.order)
}

// Clear empties the registry
func (r *SelectionRegistry) Clear() {
	r.order = nil
	r.rows = make(map[string]Record)
}
