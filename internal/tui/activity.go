package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/tabula/internal/domain"
)

// activityLogMaxItems caps retained activity entries.
const activityLogMaxItems = 200

// activityEntry stores one grid mutation for the status line.
type activityEntry struct {
	At      time.Time
	Summary string
	Target  string
}

// ActivityLog records grid mutations and tracks unsaved changes. It satisfies
// app.Observer and is only used from the program's update loop.
type ActivityLog struct {
	now     func() time.Time
	entries []activityEntry
	dirty   bool
}

// NewActivityLog constructs an empty activity log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{now: time.Now}
}

// SelectionChanged ignores selection updates; only mutations mark the grid dirty.
func (a *ActivityLog) SelectionChanged(domain.Selection, bool) {}

// GridChanged records ev.
func (a *ActivityLog) GridChanged(ev domain.ChangeEvent) {
	a.entries = append(a.entries, mapChangeEventToActivityEntry(ev, a.now()))
	if len(a.entries) > activityLogMaxItems {
		a.entries = append([]activityEntry(nil), a.entries[len(a.entries)-activityLogMaxItems:]...)
	}
	a.dirty = true
}

// Dirty reports whether mutations happened since the last MarkSaved.
func (a *ActivityLog) Dirty() bool {
	if a == nil {
		return false
	}
	return a.dirty
}

// MarkSaved clears the dirty flag.
func (a *ActivityLog) MarkSaved() {
	if a == nil {
		return
	}
	a.dirty = false
}

// Restore sets the dirty flag back to a previously observed state.
func (a *ActivityLog) Restore(dirty bool) {
	if a == nil {
		return
	}
	a.dirty = dirty
}

// Last returns the newest entry.
func (a *ActivityLog) Last() (activityEntry, bool) {
	if a == nil {
		return activityEntry{}, false
	}
	if len(a.entries) == 0 {
		return activityEntry{}, false
	}
	return a.entries[len(a.entries)-1], true
}

// Len returns the number of retained entries.
func (a *ActivityLog) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// mapChangeEventToActivityEntry derives a compact activity row from one change event.
func mapChangeEventToActivityEntry(ev domain.ChangeEvent, at time.Time) activityEntry {
	summary := strings.ReplaceAll(string(ev.Operation), "-", " ")
	if summary == "" {
		summary = "change"
	}
	target := "-"
	switch {
	case ev.Operation == domain.ChangeRenameColumn && len(ev.Keys) == 2:
		target = ev.Keys[0] + " → " + ev.Keys[1]
	case len(ev.Keys) > 0:
		target = strings.Join(ev.Keys, ",")
	}
	if ev.Range.IsSingle() {
		c := ev.Range.Start
		target = fmt.Sprintf("%s@%d", target, c.Row+1)
	}
	return activityEntry{
		At:      at.UTC(),
		Summary: summary,
		Target:  target,
	}
}
