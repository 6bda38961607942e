// Package history keeps a bounded undo/redo stack of board snapshots.
package history

import (
	"github.com/OCAP2/tacticboard/pkg/core"
)

// DefaultMax is the default number of snapshots kept.
const DefaultMax = 20

// Manager is a linear undo/redo stack with a cursor. Pushing while the
// cursor is below the top discards the redo branch. When the stack is
// full the oldest entry is evicted and the cursor stays on the newest.
type Manager struct {
	max     int
	entries []core.Snapshot
	step    int
}

// New creates a manager holding at most max snapshots. Values below 1 fall
// back to DefaultMax.
func New(max int) *Manager {
	if max < 1 {
		max = DefaultMax
	}
	return &Manager{max: max, step: -1}
}

// Push records snap as the new current entry. It reports false when snap
// equals the current entry, in which case nothing changes.
func (m *Manager) Push(snap core.Snapshot) bool {
	if cur, ok := m.Current(); ok && cur.Equal(snap) {
		return false
	}

	m.entries = append(m.entries[:m.step+1], snap.Clone())
	m.step++

	if len(m.entries) > m.max {
		m.entries = m.entries[1:]
		m.step--
	}
	return true
}

// Undo moves the cursor back and returns the snapshot to restore.
func (m *Manager) Undo() (core.Snapshot, bool) {
	if !m.CanUndo() {
		return core.Snapshot{}, false
	}
	m.step--
	return m.entries[m.step].Clone(), true
}

// Redo moves the cursor forward and returns the snapshot to restore.
func (m *Manager) Redo() (core.Snapshot, bool) {
	if !m.CanRedo() {
		return core.Snapshot{}, false
	}
	m.step++
	return m.entries[m.step].Clone(), true
}

// Current returns the snapshot under the cursor.
func (m *Manager) Current() (core.Snapshot, bool) {
	if m.step < 0 {
		return core.Snapshot{}, false
	}
	return m.entries[m.step].Clone(), true
}

// CanUndo reports whether an older snapshot exists.
func (m *Manager) CanUndo() bool { return m.step > 0 }

// CanRedo reports whether a newer snapshot exists.
func (m *Manager) CanRedo() bool { return m.step >= 0 && m.step < len(m.entries)-1 }

// Len returns the number of stored snapshots.
func (m *Manager) Len() int { return len(m.entries) }

// Step returns the cursor, or -1 when empty.
func (m *Manager) Step() int { return m.step }

// Max returns the capacity.
func (m *Manager) Max() int { return m.max }

// Clear drops every entry.
func (m *Manager) Clear() {
	m.entries = nil
	m.step = -1
}
