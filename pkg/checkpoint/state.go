// Package checkpoint provides durable snapshots of an in-progress sweep.
// A snapshot is keyed by a run ID derived from the grid, carries every
// result accumulated so far, and can be reloaded to resume the sweep
// deterministically.
package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
)

// MetadataVersion is the current checkpoint metadata format version.
const MetadataVersion = 1

// Snapshot is the persisted state of a sweep: the processed-cell count and
// all results accumulated so far, in sweep order.
type Snapshot struct {
	RunID          string            `json:"run_id"`
	GridKey        string            `json:"grid_key"`
	ProcessedCount int               `json:"processed_count"`
	Results        []analysis.Result `json:"results"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Metadata holds checkpoint metadata for validation and resume. The result
// payload lives in a sibling file written through a persist codec; metadata
// stays plain JSON so it can be inspected and schema-validated.
type Metadata struct {
	Version        int    `json:"version"`
	RunID          string `json:"run_id"`
	GridKey        string `json:"grid_key"`
	ProcessedCount int    `json:"processed_count"`
	CreatedAt      string `json:"created_at"`
	ResultsFile    string `json:"results_file"`
}

// RunID computes a short deterministic identifier from the canonical grid
// key. Resuming the same grid therefore finds the same checkpoint
// directory.
func RunID(gridKey string) string {
	h := sha256.Sum256([]byte(gridKey))

	return hex.EncodeToString(h[:8])
}
