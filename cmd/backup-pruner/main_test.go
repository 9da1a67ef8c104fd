package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fiveMonthsAgo returns a month whose bucket is pruned to the 1st and 15th.
func fiveMonthsAgo() (int, time.Month) {
	now := time.Now().UTC()
	t := time.Date(now.Year(), now.Month()-5, 1, 0, 0, 0, 0, now.Location())
	return t.Year(), t.Month()
}

func backupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	y, m := fiveMonthsAgo()
	for d := 1; d <= 31; d++ {
		name := fmt.Sprintf("%04d%02d%02d.tar.gz", y, m, d)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestRunDryRun(t *testing.T) {
	dir := backupDir(t)

	out, err := execute(t, "run",
		"--config", filepath.Join(dir, "absent.yaml"),
		"--read-from", "dir", "--path", dir, "--dry-run")
	require.Error(t, err, "an explicit --config must exist")

	out, err = execute(t, "run", "--read-from", "dir", "--path", dir, "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, 13, strings.Count(out, "Dry run removing: "))
	assert.Contains(t, out, "13 of 31 backups would be removed")
	assert.Equal(t, 32, countFiles(t, dir))
}

func TestRunDeletes(t *testing.T) {
	dir := backupDir(t)

	out, err := execute(t, "run", "--read-from", "dir", "--path", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "13 of 31 backups removed")
	assert.Equal(t, 32-13, countFiles(t, dir))

	y, m := fiveMonthsAgo()
	for _, d := range []int{1, 15, 16, 31} {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("%04d%02d%02d.tar.gz", y, m, d)))
		assert.NoError(t, err, "day %d must survive", d)
	}
}

func TestRunFromConfigFile(t *testing.T) {
	dir := backupDir(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf("source:\n  kind: dir\n  path: %q\ndryRun: true\nlogging:\n  format: json\n", dir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "would be removed")
	assert.Equal(t, 32, countFiles(t, dir))

	// flags win over the file
	out, err = execute(t, "run", "--config", cfgPath, "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "13 of 31 backups removed")
}

func TestRunListingNeverDeletes(t *testing.T) {
	dir := backupDir(t)
	listing := filepath.Join(t.TempDir(), "backups.txt")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var lines []string
	for _, e := range entries {
		lines = append(lines, e.Name())
	}
	require.NoError(t, os.WriteFile(listing, []byte(strings.Join(lines, "\n")), 0o644))

	out, err := execute(t, "run", "--read-from", "fs", "--path", listing)
	require.NoError(t, err)
	assert.Contains(t, out, "13 of 31 backups removed")
	assert.Equal(t, 32, countFiles(t, dir))
}

func TestRunMissingSource(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "run", "--read-from", "dir")
	assert.ErrorContains(t, err, "source.path")
}

func TestServeRequiresConfig(t *testing.T) {
	_, err := execute(t, "serve", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "backup-pruner "+version+"\n", out)
}
