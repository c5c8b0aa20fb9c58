// Package histmanager builds the composite histogram from a molecule's
// bodies, in three strengths: a single-threaded pass that rebuilds
// everything, a multi-threaded pass that splits the same work across
// internal/workerpool, and an incremental variant that tracks which bodies
// changed since the last calculation and only recomputes their partials.
//
// MATHEMATICIAN: incremental recompute is a subtract-old/add-new delta
// update on the master histogram - the same trick the teacher's
// PartialHistogramManager analogue uses to avoid an O(n^2) rebuild on
// every timestep when only one body actually moved.
package histmanager

import (
	"sync"

	"github.com/sarat-asymmetrica/saxskit/internal/structure"
)

// StateManager tracks, per body, whether it changed since the last
// CalculateAll call, and whether the shared hydration layer changed. It
// implements structure.ChangeNotifier so a Body can report changes without
// depending on this package.
type StateManager struct {
	mu                sync.Mutex
	modifiedExternal  map[uint64]bool
	modifiedInternal  map[uint64]bool
	modifiedHydration bool
}

// NewStateManager creates an empty tracker; every body starts out
// unmodified until something changes it or RegisterBody marks it dirty for
// the mandatory first build.
func NewStateManager() *StateManager {
	return &StateManager{
		modifiedExternal: make(map[uint64]bool),
		modifiedInternal: make(map[uint64]bool),
	}
}

// RegisterBody marks a body as modified so its first CalculateAll pass
// always builds its partials from scratch.
func (sm *StateManager) RegisterBody(id uint64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.modifiedInternal[id] = true
}

// NotifyModified implements structure.ChangeNotifier.
func (sm *StateManager) NotifyModified(bodyID uint64, kind structure.ChangeKind) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	switch kind {
	case structure.ModifiedExternal:
		sm.modifiedExternal[bodyID] = true
	case structure.ModifiedInternal:
		sm.modifiedInternal[bodyID] = true
	case structure.ModifiedHydration:
		sm.modifiedHydration = true
	}
}

// ModifiedBodies returns the set of body IDs modified (externally or
// internally) since the last Reset.
func (sm *StateManager) ModifiedBodies() map[uint64]bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make(map[uint64]bool, len(sm.modifiedExternal)+len(sm.modifiedInternal))
	for id := range sm.modifiedExternal {
		out[id] = true
	}
	for id := range sm.modifiedInternal {
		out[id] = true
	}
	return out
}

// ModifiedInternally returns the set of body IDs whose internal geometry
// (not just rigid position) changed - these need their self-partial
// rebuilt, not just their cross-partials.
func (sm *StateManager) ModifiedInternally() map[uint64]bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make(map[uint64]bool, len(sm.modifiedInternal))
	for id := range sm.modifiedInternal {
		out[id] = true
	}
	return out
}

// ModifiedHydration reports whether the hydration layer changed since the
// last Reset.
func (sm *StateManager) ModifiedHydration() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.modifiedHydration
}

// Reset clears every tracked change, called after a successful
// CalculateAll.
func (sm *StateManager) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.modifiedExternal = make(map[uint64]bool)
	sm.modifiedInternal = make(map[uint64]bool)
	sm.modifiedHydration = false
}
