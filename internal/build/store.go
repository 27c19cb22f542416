// File path: internal/build/store.go
package build

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/liveforge-ai/liveforge/internal/common"
)

// Store keeps every build record for the lifetime of the process. All
// mutation goes through the store so append-only invariants (chain proofs,
// generated files) and the single terminal status transition cannot be
// bypassed by callers holding record pointers.
//
// Retention is unbounded; the sqlite history archive limits what a restart
// loses but nothing is ever evicted while the process lives.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Patch carries the optional scalar fields merged into a record by Apply.
// Nil fields are left untouched.
type Patch struct {
	Status      *Status
	CompletedAt *time.Time
	Duration    *string
	ProgramID   *string
}

// Insert adds a new record. A duplicate id is a programmer error: ids are
// generated uniquely by the orchestrator.
func (s *Store) Insert(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("build %s already exists", rec.ID)
	}
	stored := cloneRecord(rec)
	s.records[rec.ID] = &stored
	return nil
}

// Apply merges the provided fields into an existing record. Unknown ids
// are a no-op. The status transition is monotonic: once terminal, status,
// completion time and duration no longer change.
func (s *Store) Apply(id string, patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return
	}
	if rec.Terminal() {
		if patch.Status != nil || patch.CompletedAt != nil || patch.Duration != nil {
			common.Logger().Warn("build: ignoring terminal-state patch", "id", id, "status", rec.Status)
		}
		if patch.ProgramID != nil && rec.ProgramID == "" {
			rec.ProgramID = *patch.ProgramID
		}
		return
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.CompletedAt != nil {
		completed := *patch.CompletedAt
		rec.CompletedAt = &completed
	}
	if patch.Duration != nil {
		rec.Duration = *patch.Duration
	}
	if patch.ProgramID != nil {
		rec.ProgramID = *patch.ProgramID
	}
}

// AppendProof appends one chain proof, keeping step indices strictly
// increasing. Out-of-order appends are dropped with a warning rather than
// reordering the history.
func (s *Store) AppendProof(id string, proof ChainProof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return
	}
	if n := len(rec.ChainProofs); n > 0 && rec.ChainProofs[n-1].Step >= proof.Step {
		common.Logger().Warn("build: dropping out-of-order chain proof", "id", id, "step", proof.Step)
		return
	}
	rec.ChainProofs = append(rec.ChainProofs, proof)
}

// AppendFile appends one generated file. Files accumulate monotonically.
func (s *Store) AppendFile(id string, file GeneratedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return
	}
	rec.Files = append(rec.Files, file)
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return cloneRecord(*rec), true
}

// List returns copies of all records ordered by start time, newest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, cloneRecord(*rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Seed loads previously archived records, skipping ids that already exist.
func (s *Store) Seed(records []Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := 0
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, ok := s.records[rec.ID]; ok {
			continue
		}
		stored := cloneRecord(rec)
		s.records[rec.ID] = &stored
		loaded++
	}
	return loaded
}
