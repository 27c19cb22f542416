// File path: internal/build/record.go
package build

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// ChainProof is one append-only verification entry: the ledger transaction
// that anchored a step together with the short content fingerprint it
// committed.
type ChainProof struct {
	Step   int    `json:"step"`
	TxHash string `json:"txHash"`
	Hash   string `json:"hash"`
}

type GeneratedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Record is the mutable state of one build. It is created once at
// orchestration start, mutated in place as phases complete, and reaches
// exactly one terminal status.
type Record struct {
	ID          string          `json:"id"`
	Prompt      string          `json:"prompt"`
	Status      Status          `json:"status"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt"`
	Duration    string          `json:"duration,omitempty"`
	ProgramID   string          `json:"programId,omitempty"`
	ChainProofs []ChainProof    `json:"chainProofs"`
	Files       []GeneratedFile `json:"files"`
}

// Terminal reports whether the record reached a final status.
func (r Record) Terminal() bool {
	return r.Status == StatusSuccess || r.Status == StatusFailed
}

// NewBuildID returns a unique, time-prefixed build identifier.
func NewBuildID() string {
	return fmt.Sprintf("build_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// FormatDuration renders an elapsed duration in the "4m 28s" style used by
// record duration strings and the stats endpoint.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// cloneRecord deep-copies a record, preserving slice nil-ness: an empty
// chainProofs/files slice serializes as [] on the wire, never null.
func cloneRecord(src Record) Record {
	clone := src
	if src.CompletedAt != nil {
		completed := *src.CompletedAt
		clone.CompletedAt = &completed
	}
	if src.ChainProofs != nil {
		clone.ChainProofs = append(make([]ChainProof, 0, len(src.ChainProofs)), src.ChainProofs...)
	}
	if src.Files != nil {
		clone.Files = append(make([]GeneratedFile, 0, len(src.Files)), src.Files...)
	}
	return clone
}
