package commands_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/curvefang/cmd/curvefang/commands"
)

func TestAnalyzeCommand_KnownCurve(t *testing.T) {
	t.Parallel()

	cmd := commands.NewAnalyzeCommand()

	var buf bytes.Buffer

	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--a", "-5", "--b", "5", "--bound", "25", "--max-prime", "50"})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "y² = x³ -5x +5")
	assert.Contains(t, out, "Rank estimate: 2")
	assert.Contains(t, out, "Verdict:")
}

func TestAnalyzeCommand_InvalidConfigRejected(t *testing.T) {
	t.Parallel()

	cmd := commands.NewAnalyzeCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--bound", "-10"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestSweepCommand_SmallGrid(t *testing.T) {
	t.Parallel()

	cmd := commands.NewSweepCommand()

	var buf bytes.Buffer

	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{
		"--a-start", "-1", "--a-end", "1",
		"--b-start", "0", "--b-end", "1",
		"--no-checkpoint",
	})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "VERDICT")
}

func TestSweepCommand_WritesCSV(t *testing.T) {
	t.Parallel()

	csvPath := filepath.Join(t.TempDir(), "results.csv")

	cmd := commands.NewSweepCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--a-start", "0", "--a-end", "1",
		"--b-start", "1", "--b-end", "2",
		"--no-checkpoint", "--silent",
		"--csv", csvPath,
	})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.FileExists(t, csvPath)
}

func TestSweepCommand_InvalidGridRejected(t *testing.T) {
	t.Parallel()

	cmd := commands.NewSweepCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--a-start", "5", "--a-end", "1",
		"--b-start", "0", "--b-end", "1",
	})

	err := cmd.Execute()
	require.Error(t, err)
}
