package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankwatch/internal/domain"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  driver: sqlite\n  path: " + filepath.Join(dir, "rank.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_RecordStatusHistory(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "no rank recorded yet")

	out, err = run(t, "--config", cfg, "record", "12", "--category", domain.DefaultCategory)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded #1: rank 12 in "+domain.DefaultCategory)

	out, err = run(t, "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "rank 12 in "+domain.DefaultCategory)

	out, err = run(t, "--config", cfg, "history", "--days", "0", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "12")
	assert.Contains(t, out, domain.ByManual)
}

func TestCommands_RecordRejectsBadRank(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, "--config", cfg, "record", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidManualInput)

	_, err = run(t, "--config", cfg, "record", "1001")
	assert.ErrorIs(t, err, domain.ErrInvalidManualInput)
}
