package giftaid

import (
	"sync"
	"time"
)

// PageDirection selects the neighbour page to move to
type PageDirection string

const (
	PageNext PageDirection = "next"
	PagePrev PageDirection = "prev"
)

// Session is the state of one review session: the record store, its paginator,
// the cross-page selection and the applied filter.
// The mutex is never held across a remote call; remote results are applied
// in the order they resolve.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	mu            sync.Mutex
	filter        FilterState
	defaultScope  *UserScope
	scopeResolved bool
	records       []Record
	paginator     *Paginator
	selection     *SelectionRegistry
	inFlight      int
	lastUsed      time.Time
}

// NewSession creates an empty session
func NewSession(id, userID string, pageSize int, now time.Time) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		records:   []Record{},
		paginator: NewPaginator(pageSize),
		selection: NewSelectionRegistry(),
		lastUsed:  now,
	}
}

// View returns a snapshot of the current page
func (s *Session) View() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() PageView {
	rows := s.paginator.CurrentSlice()
	selectedOnPage := make([]string, 0, len(rows))
	for _, row := range rows {
		if s.selection.Contains(row.ID) {
			selectedOnPage = append(selectedOnPage, row.ID)
		}
	}
	visible := make([]Record, len(rows))
	copy(visible, rows)

	var scope *UserScope
	if s.defaultScope != nil {
		copied := *s.defaultScope
		scope = &copied
	}

	count := s.selection.Count()
	return PageView{
		SessionID:          s.ID,
		Rows:               visible,
		Window:             s.paginator.Window(),
		SelectedOnPage:     selectedOnPage,
		SelectedIDs:        s.selection.SelectedIDs(),
		TotalSelected:      count,
		SelectedBadgeLabel: SelectedBadgeLabel(count),
		Filter:             s.filter.Current(),
		DefaultScope:       scope,
		Busy:               s.inFlight > 0,
	}
}

// ChangePage moves one page forward or back. When the caller reports the
// selection of the page being left, it is reconciled before the move; moving
// by itself never drops a selection. Moving past either end is a no-op.
func (s *Session) ChangePage(direction PageDirection, leavingSelection []string) PageView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if leavingSelection != nil {
		s.reconcileLocked(leavingSelection)
	}
	switch direction {
	case PageNext:
		s.paginator.Next()
	case PagePrev:
		s.paginator.Prev()
	}
	return s.viewLocked()
}

// SelectRows applies the set of checked rows reported for the current page.
// Ids that are not on the current page are ignored and returned.
func (s *Session) SelectRows(checkedIDs []string) (PageView, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ignored := s.reconcileLocked(checkedIDs)
	return s.viewLocked(), ignored
}

func (s *Session) reconcileLocked(checkedIDs []string) []string {
	byID := make(map[string]Record)
	for _, record := range s.paginator.CurrentSlice() {
		byID[record.ID] = record
	}

	var ignored []string
	rows := make([]Record, 0, len(checkedIDs))
	for _, id := range checkedIDs {
		record, ok := byID[id]
		if !ok {
			ignored = append(ignored, id)
			continue
		}
		rows = append(rows, record)
	}
	s.selection.ReconcilePage(s.paginator.CurrentIDs(), rows)
	return ignored
}

// SelectedIDs returns the selection in order of first selection
func (s *Session) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.SelectedIDs()
}

// SelectedRecords returns the last known snapshot of every selected record
func (s *Session) SelectedRecords() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Selected()
}

// Records returns the whole current result set, not only the visible page
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]Record, len(s.records))
	copy(records, s.records)
	return records
}

// Filter returns the criteria of the last applied query
func (s *Session) Filter() FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Current()
}

// DefaultScope returns the resolved company of the session user, if any
func (s *Session) DefaultScope() (*UserScope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultScope, s.scopeResolved
}

// Busy reports whether a remote call is in flight
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

func (s *Session) setDefaultScope(scope *UserScope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultScope = scope
	s.scopeResolved = true
}

// defaultCriteria is the criteria of the default load
func (s *Session) defaultCriteria(status GiftAidStatus) FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	criteria := FilterCriteria{GiftAidStatus: string(status)}
	if s.defaultScope != nil {
		criteria.CompanyID = s.defaultScope.ScopeID
	}
	return criteria
}

func (s *Session) beginRemote() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *Session) endRemote() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

// applyQueryResult stores criteria, replaces the record store, resets the
// paginator to page 1 and clears the selection, which is only meaningful for
// the previous result set. Criteria the filter state rejects change nothing.
func (s *Session) applyQueryResult(criteria FilterCriteria, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.filter.Set(criteria); err != nil {
		return err
	}
	s.records = records
	s.paginator.SetSource(records)
	s.selection.Clear()
	return nil
}

func (s *Session) clearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}


// closeOut drops the applied criteria and the selection of a closing session
func (s *Session) closeOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Reset()
	s.selection.Clear()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
