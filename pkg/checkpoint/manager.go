package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Sumatoshi-tech/curvefang/pkg/persist"
)

// Sentinel errors for checkpoint validation.
var (
	ErrGridMismatch    = errors.New("grid mismatch")
	ErrVersionMismatch = errors.New("metadata version mismatch")
	ErrMetadataInvalid = errors.New("metadata failed schema validation")
)

// Directory permissions for checkpoints.
const dirPerm = 0o750

// metadataFile is the name of the metadata file inside a run directory.
const metadataFile = "checkpoint.json"

// resultsBasename is the basename of the results payload file; the codec
// contributes the extension.
const resultsBasename = "results"

// DefaultDir returns the default checkpoint directory (~/.curvefang/checkpoints).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return filepath.Join(home, ".curvefang", "checkpoints")
}

// Manager persists and restores sweep snapshots for one run.
type Manager struct {
	BaseDir string
	RunID   string
	Codec   persist.Codec
}

// NewManager creates a checkpoint manager for the given run. A nil codec
// selects LZ4-compressed gob.
func NewManager(baseDir, runID string, codec persist.Codec) *Manager {
	if codec == nil {
		codec = persist.NewLZ4Codec()
	}

	return &Manager{BaseDir: baseDir, RunID: runID, Codec: codec}
}

// Dir returns the directory holding this run's checkpoint.
func (m *Manager) Dir() string {
	return filepath.Join(m.BaseDir, m.RunID)
}

// MetadataPath returns the path to the metadata file.
func (m *Manager) MetadataPath() string {
	return filepath.Join(m.Dir(), metadataFile)
}

// Exists returns true if a checkpoint exists for this run.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.MetadataPath())

	return err == nil
}

// Clear removes the checkpoint for this run.
func (m *Manager) Clear() error {
	dir := m.Dir()

	_, statErr := os.Stat(dir)
	if os.IsNotExist(statErr) {
		return nil
	}

	err := os.RemoveAll(dir)
	if err != nil {
		return fmt.Errorf("remove checkpoint dir: %w", err)
	}

	return nil
}

// Save persists the snapshot: the results payload through the codec, then
// the metadata file. The metadata is written last so a crash mid-save
// leaves no metadata pointing at a complete-looking payload.
func (m *Manager) Save(snapshot Snapshot) error {
	dir := m.Dir()

	err := os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	saveErr := persist.SaveState(dir, resultsBasename, m.Codec, snapshot.Results)
	if saveErr != nil {
		return fmt.Errorf("save results payload: %w", saveErr)
	}

	meta := Metadata{
		Version:        MetadataVersion,
		RunID:          snapshot.RunID,
		GridKey:        snapshot.GridKey,
		ProcessedCount: snapshot.ProcessedCount,
		CreatedAt:      snapshot.CreatedAt.UTC().Format(time.RFC3339),
		ResultsFile:    resultsBasename + m.Codec.Extension(),
	}

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	writeErr := os.WriteFile(m.MetadataPath(), metaData, 0o600)
	if writeErr != nil {
		return fmt.Errorf("write metadata: %w", writeErr)
	}

	return nil
}

// LoadMetadata reads and schema-validates the checkpoint metadata.
func (m *Manager) LoadMetadata() (*Metadata, error) {
	raw, err := os.ReadFile(m.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	validateErr := validateMetadataBytes(raw)
	if validateErr != nil {
		return nil, validateErr
	}

	var meta Metadata

	unmarshalErr := json.Unmarshal(raw, &meta)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", unmarshalErr)
	}

	return &meta, nil
}

// Load restores the full snapshot for this run.
func (m *Manager) Load() (*Snapshot, error) {
	meta, err := m.LoadMetadata()
	if err != nil {
		return nil, err
	}

	if meta.Version != MetadataVersion {
		return nil, fmt.Errorf("%w: checkpoint has %d, want %d", ErrVersionMismatch, meta.Version, MetadataVersion)
	}

	snapshot := Snapshot{
		RunID:          meta.RunID,
		GridKey:        meta.GridKey,
		ProcessedCount: meta.ProcessedCount,
	}

	createdAt, parseErr := time.Parse(time.RFC3339, meta.CreatedAt)
	if parseErr == nil {
		snapshot.CreatedAt = createdAt
	}

	loadErr := persist.LoadState(m.Dir(), resultsBasename, m.Codec, &snapshot.Results)
	if loadErr != nil {
		return nil, fmt.Errorf("load results payload: %w", loadErr)
	}

	return &snapshot, nil
}

// Validate checks that the stored checkpoint belongs to the given grid.
func (m *Manager) Validate(gridKey string) error {
	meta, err := m.LoadMetadata()
	if err != nil {
		return err
	}

	if meta.GridKey != gridKey {
		return fmt.Errorf("%w: checkpoint has %q, got %q", ErrGridMismatch, meta.GridKey, gridKey)
	}

	return nil
}

// IsStructural reports whether a persistence failure is structural, i.e.
// retrying will not help: permission denied, read-only or missing
// filesystem, disk full. The sweep disables further checkpoint attempts on
// structural failures and keeps trying on transient ones.
func IsStructural(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, fs.ErrPermission) {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ENOSPC, syscall.EROFS, syscall.ENOTDIR} {
		if errors.Is(err, errno) {
			return true
		}
	}

	return false
}
