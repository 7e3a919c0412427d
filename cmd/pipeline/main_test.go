package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("mesh:\n  dbPath: \""+filepath.Join(dir, "mesh.db")+"\"\n"), 0o644))
	return path
}

func TestRunRequiresInput(t *testing.T) {
	_, err := execute(t, "run")

	assert.EqualError(t, err, "--input is required")
}

func TestRunRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "run", "--config", writeConfig(t, dir), "--input", "x.csv", "--mode", "both")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --mode both")
}

func TestMeshLoad(t *testing.T) {
	dir := t.TempDir()
	descriptors := filepath.Join(dir, "desc.tsv")
	require.NoError(t, os.WriteFile(descriptors, []byte(
		"DescriptorUI\tDescriptorName\tTreeNumbers\n"+
			"D001943\tBreast Neoplasms\tC04.588.180\n"), 0o644))
	config := writeConfig(t, dir)

	out, err := execute(t, "mesh", "--config", config, "--descriptors", descriptors)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 descriptors (1 in catalog)")

	// the catalog persists across invocations
	out, err = execute(t, "mesh", "--config", config, "-d", descriptors)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 descriptors (1 in catalog)")
}

func TestMeshRequiresDescriptors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "mesh", "--config", writeConfig(t, dir))

	assert.EqualError(t, err, "--descriptors is required")
}
