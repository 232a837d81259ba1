package dedup

import (
	"time"

	"dupescan/internal/hash"
)

// FileHashRecord holds the hash computed for one candidate file.
type FileHashRecord struct {
	Path    string      `json:"path"`
	Hash    string      `json:"hash"`
	Method  hash.Method `json:"method"`
	Size    int64       `json:"size"`
	ModTime time.Time   `json:"mod_time"`
}

// DuplicateGroup is a set of files sharing one hash. Every group has
// at least two members and exactly one designated original: the
// member with the oldest modification time, ties broken by
// first-encountered order.
type DuplicateGroup struct {
	Hash       string            `json:"hash"`
	Original   *FileHashRecord   `json:"original"`
	Duplicates []*FileHashRecord `json:"duplicates"`
	// WastedBytes is the total size of the duplicate members; the
	// original is never counted as waste.
	WastedBytes int64 `json:"wasted_bytes"`
}

// Members returns the original followed by the duplicates.
func (g *DuplicateGroup) Members() []*FileHashRecord {
	out := make([]*FileHashRecord, 0, 1+len(g.Duplicates))
	out = append(out, g.Original)
	out = append(out, g.Duplicates...)
	return out
}

// Report is the result of one duplicate scan. Groups are sorted by
// wasted bytes, descending.
type Report struct {
	FilesScanned    int               `json:"files_scanned"`
	Candidates      int               `json:"candidates"`
	GroupCount      int               `json:"group_count"`
	TotalDuplicates int               `json:"total_duplicates"`
	WastedBytes     int64             `json:"wasted_bytes"`
	Method          hash.Method       `json:"method"`
	Groups          []*DuplicateGroup `json:"groups"`
}

// Comparison is the outcome of a pairwise file comparison.
type Comparison struct {
	SameSize        bool `json:"same_size"`
	PartialMatch    bool `json:"partial_match"`
	ExactMatch      bool `json:"exact_match"`
	PerceptualMatch bool `json:"perceptual_match"`
}
