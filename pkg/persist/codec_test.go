package persist_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/pkg/persist"
)

type sampleState struct {
	Name   string
	Values []float64
	Count  int
}

func sample() sampleState {
	return sampleState{
		Name:   "sweep",
		Values: []float64{1.5, -2.25, 0},
		Count:  3,
	}
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := persist.NewJSONCodec()

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, sample()))

	var out sampleState

	require.NoError(t, codec.Decode(&buf, &out))
	assert.Equal(t, sample(), out)
	assert.Equal(t, ".json", codec.Extension())
}

func TestGobCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := persist.NewGobCodec()

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, sample()))

	var out sampleState

	require.NoError(t, codec.Decode(&buf, &out))
	assert.Equal(t, sample(), out)
	assert.Equal(t, ".gob", codec.Extension())
}

func TestLZ4Codec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := persist.NewLZ4Codec()

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, sample()))
	require.NotZero(t, buf.Len())

	var out sampleState

	require.NoError(t, codec.Decode(&buf, &out))
	assert.Equal(t, sample(), out)
	assert.Equal(t, ".gob.lz4", codec.Extension())
}

func TestSaveLoadState(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	codec := persist.NewJSONCodec()

	require.NoError(t, persist.SaveState(dir, "state", codec, sample()))

	var out sampleState

	require.NoError(t, persist.LoadState(dir, "state", codec, &out))
	assert.Equal(t, sample(), out)
}

func TestLoadState_Missing(t *testing.T) {
	t.Parallel()

	var out sampleState

	err := persist.LoadState(t.TempDir(), "absent", persist.NewGobCodec(), &out)
	require.Error(t, err)
}
