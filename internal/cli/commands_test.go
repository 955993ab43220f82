package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arishali16742/SOW/internal/domain/checks"
)

// run executes the root command with a sqlite database in a temp dir.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := Execute(context.Background())
	return out.String(), err
}

func offlineConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "storage:\n  sqlite:\n    path: " + filepath.Join(dir, "sow.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestChecksCommandsWithoutModel(t *testing.T) {
	cfg := offlineConfig(t)

	out, err := run(t, cfg, "checks", "add", "Signatures", "Are both parties named in the signature block?")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Signatures")

	out, err = run(t, cfg, "--json", "checks", "list")
	require.NoError(t, err)
	var list []checks.Check
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 10)
	added := list[len(list)-1]
	assert.Equal(t, "Signatures", added.Title)

	out, err = run(t, cfg, "checks", "update", added.ID, "--title", "Signature Block")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Signature Block")

	_, err = run(t, cfg, "checks", "remove", added.ID)
	require.NoError(t, err)

	out, err = run(t, cfg, "checks", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 9 built-in checks")
}

func TestHistoryEmpty(t *testing.T) {
	out, err := run(t, offlineConfig(t), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No scans yet")
}

func TestHistoryRejectsBadID(t *testing.T) {
	_, err := run(t, offlineConfig(t), "history", "../etc")
	assert.Error(t, err)
}

func TestScanNeedsModelKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	_, err := run(t, offlineConfig(t), "scan", "sow.txt")
	assert.Error(t, err)
}
