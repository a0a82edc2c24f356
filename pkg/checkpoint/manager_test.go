package checkpoint_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/checkpoint"
	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
	"github.com/Sumatoshi-tech/curvefang/pkg/persist"
)

const testGridKey = "a[-2:2:1]b[-2:2:1]"

func testSnapshot() checkpoint.Snapshot {
	return checkpoint.Snapshot{
		RunID:          checkpoint.RunID(testGridKey),
		GridKey:        testGridKey,
		ProcessedCount: 2,
		Results: []analysis.Result{
			{Params: curve.Params{A: -2, B: -2}, RankEstimate: 0, LValue: 1.5, Verdict: analysis.VerdictConsistent},
			{Params: curve.Params{A: -2, B: -1}, RankEstimate: 1, LValue: 2.0, Verdict: analysis.VerdictInconsistent},
		},
		CreatedAt: time.Now(),
	}
}

func TestRunID_Deterministic(t *testing.T) {
	t.Parallel()

	first := checkpoint.RunID(testGridKey)
	second := checkpoint.RunID(testGridKey)

	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
	assert.NotEqual(t, first, checkpoint.RunID("a[0:1:1]b[0:1:1]"))
}

func TestManager_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	m := checkpoint.NewManager(t.TempDir(), snap.RunID, persist.NewJSONCodec())

	require.False(t, m.Exists())
	require.NoError(t, m.Save(snap))
	require.True(t, m.Exists())

	loaded, err := m.Load()
	require.NoError(t, err)

	assert.Equal(t, snap.RunID, loaded.RunID)
	assert.Equal(t, snap.GridKey, loaded.GridKey)
	assert.Equal(t, snap.ProcessedCount, loaded.ProcessedCount)
	assert.Equal(t, snap.Results, loaded.Results)
}

func TestManager_SaveLoad_LZ4Codec(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	m := checkpoint.NewManager(t.TempDir(), snap.RunID, nil)

	require.NoError(t, m.Save(snap))

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.Results, loaded.Results)
}

func TestManager_Validate(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	m := checkpoint.NewManager(t.TempDir(), snap.RunID, persist.NewJSONCodec())

	require.NoError(t, m.Save(snap))
	require.NoError(t, m.Validate(testGridKey))

	err := m.Validate("a[0:9:1]b[0:9:1]")
	require.ErrorIs(t, err, checkpoint.ErrGridMismatch)
}

func TestManager_Load_RejectsCorruptMetadata(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	m := checkpoint.NewManager(t.TempDir(), snap.RunID, persist.NewJSONCodec())
	require.NoError(t, m.Save(snap))

	// Drop a required field.
	require.NoError(t, os.WriteFile(m.MetadataPath(), []byte(`{"version": 1}`), 0o600))

	_, err := m.Load()
	require.ErrorIs(t, err, checkpoint.ErrMetadataInvalid)
}

func TestManager_Clear(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	m := checkpoint.NewManager(t.TempDir(), snap.RunID, persist.NewJSONCodec())

	require.NoError(t, m.Save(snap))
	require.True(t, m.Exists())

	require.NoError(t, m.Clear())
	assert.False(t, m.Exists())

	// Clearing a missing checkpoint is a no-op.
	require.NoError(t, m.Clear())
}

func TestManager_Dir_Layout(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	m := checkpoint.NewManager(base, "0123456789abcdef", persist.NewJSONCodec())

	assert.Equal(t, filepath.Join(base, "0123456789abcdef"), m.Dir())
	assert.Equal(t, filepath.Join(base, "0123456789abcdef", "checkpoint.json"), m.MetadataPath())
}

func TestIsStructural(t *testing.T) {
	t.Parallel()

	assert.False(t, checkpoint.IsStructural(nil))
	assert.False(t, checkpoint.IsStructural(os.ErrDeadlineExceeded))
	assert.True(t, checkpoint.IsStructural(fs.ErrPermission))
}
