package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hdfsconn")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCommand(t, "init", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hdfs://namenode:8020")

	// A second run must refuse to clobber without --force.
	_, err = runCommand(t, "init", path)
	assert.Error(t, err)

	_, err = runCommand(t, "init", "--force", path)
	assert.NoError(t, err)
}

func TestValidateCommand_ReportsIssues(t *testing.T) {
	t.Setenv("HADOOP_USER_NAME", "tester")

	// No URI anywhere: validation must fail and name the missing source.
	out, err := runCommand(t, "validate", "--uri", "")
	require.Error(t, err)
	assert.Contains(t, out, "HDFS_61")
}
