package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args against a fixed root and returns stdout and stderr.
func run(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--root", root}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default so executions don't leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestCLI_Pipeline(t *testing.T) {
	t.Chdir(t.TempDir())
	root := filepath.Join(t.TempDir(), ".smolbox")

	out, _, err := run(t, root, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized empty pipeline")
	assert.FileExists(t, filepath.Join(root, "state.json"))

	out, _, err = run(t, root, "resolve", "dataset_path", "/data/raw")
	require.NoError(t, err)
	assert.Equal(t, "/data/raw\n", out)

	out, _, err = run(t, root, "resolve", "output_model_path", "--write")
	require.NoError(t, err)
	allocated := strings.TrimSpace(out)
	assert.DirExists(t, allocated)

	out, _, err = run(t, root, "get", "output_model_path")
	require.NoError(t, err)
	assert.Equal(t, allocated+"\n", out)

	_, stderr, err := run(t, root, "next")
	require.NoError(t, err)
	assert.Contains(t, stderr, "model_path = "+allocated)

	out, _, err = run(t, root, "resolve", "model_path")
	require.NoError(t, err)
	assert.Equal(t, allocated+"\n", out)

	out, _, err = run(t, root, "history", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, allocated)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "models", "base"), 0755))
	out, _, err = run(t, root, "models")
	require.NoError(t, err)
	assert.Equal(t, "base\n", out)
}

func TestCLI_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	root := filepath.Join(t.TempDir(), ".smolbox")

	_, _, err := run(t, root, "resolve", "dataset_path")
	assert.ErrorContains(t, err, "could not resolve key")

	_, _, err = run(t, root, "resolve", "model_path", "--write")
	assert.ErrorContains(t, err, "key is not writable")

	_, _, err = run(t, root, "update", "model_path")
	assert.ErrorContains(t, err, "expected key=value")
}

func TestCLI_Warnings(t *testing.T) {
	t.Chdir(t.TempDir())
	root := filepath.Join(t.TempDir(), ".smolbox")

	out, stderr, err := run(t, root, "set", "bogus", "/x")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "invalid key name for state")

	out, stderr, err = run(t, root, "update", "model_path=/m/base", "bogus=/x")
	require.NoError(t, err)
	assert.Contains(t, out, `"model_path": "/m/base"`)
	assert.NotContains(t, out, "bogus")
	assert.Contains(t, stderr, "invalid key name for state")
}

func TestCLI_ModelsMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	root := filepath.Join(t.TempDir(), ".smolbox")

	out, _, err := run(t, root, "models")
	require.NoError(t, err)
	assert.Equal(t, "No models directory found.\n", out)
}

func TestCLI_Reset(t *testing.T) {
	t.Chdir(t.TempDir())
	root := filepath.Join(t.TempDir(), ".smolbox")

	_, _, err := run(t, root, "set", "model_path", "/m/base")
	require.NoError(t, err)
	assert.DirExists(t, root)

	_, _, err = run(t, root, "reset")
	require.NoError(t, err)
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}
