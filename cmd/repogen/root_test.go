package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianporeilly/repogen/compiler/gen"
)

const usersYAML = `package: models
records:
  - name: User
    soft_delete: true
    searchable: [name]
    fields:
      - {name: ID, type: int64}
      - {name: Name, type: string}
      - {name: DeletedAt, type: "*time.Time"}
  - name: Key
    table: kv
    fields:
      - {name: ID, type: int64}
      - {name: Value, type: string}
`

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateDescriptor(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	schema := writeFile(t, dir, "records.yaml", usersYAML)
	target := filepath.Join(dir, "repository")

	out, err := execute(t, "generate", "--schema", schema, "--target", target, "--manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "3 written, 0 unchanged, 0 removed")

	b, err := os.ReadFile(filepath.Join(target, "user_repo.go"))
	require.NoError(t, err)
	src := string(b)
	assert.Contains(t, src, "package models")
	assert.Contains(t, src, "type User struct")
	assert.Contains(t, src, "type UserRepository struct")
	assert.Contains(t, src, "func (ur *UserRepository) Restore(")
	assert.FileExists(t, filepath.Join(target, "key_repo.go"))
	assert.FileExists(t, filepath.Join(target, "repositories.go"))

	out, err = execute(t, "generate", "--schema", schema, "--target", target, "--manifest")
	require.NoError(t, err)
	assert.Contains(t, out, "0 written, 3 unchanged, 0 removed")

	out, err = execute(t, "generate", "--schema", schema, "--target", target, "--manifest", "--records", "User")
	require.NoError(t, err)
	assert.Contains(t, out, "1 removed")
	assert.NoFileExists(t, filepath.Join(target, "key_repo.go"))
}

func TestGenerateFeatures(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	schema := writeFile(t, dir, "records.yaml", usersYAML)
	target := filepath.Join(dir, "store")

	_, err := execute(t, "generate", "--schema", schema, "--target", target, "--package", "store", "--features", "sql/templates", "--header", "// Code generated by make gen. DO NOT EDIT.")
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(target, "user_repo.go"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "// Code generated by make gen. DO NOT EDIT.")
	assert.Contains(t, string(b), "package store")
	assert.Contains(t, string(b), "var UserTemplates = map[string]string{")

	_, err = execute(t, "generate", "--schema", schema, "--target", target, "--features", "privacy")
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}

func TestGenerateMissingTarget(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	schema := writeFile(t, dir, "records.yaml", usersYAML)
	_, err := execute(t, "generate", "--schema", schema)
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("Valid", func(t *testing.T) {
		schema := writeFile(t, dir, "records.yaml", usersYAML)
		out, err := execute(t, "check", "--schema", schema)
		require.NoError(t, err)
		assert.Contains(t, out, "ok: 2 records, 3 files")
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "check writes nothing")
	})

	t.Run("Invalid", func(t *testing.T) {
		schema := writeFile(t, dir, "invalid.yaml", `package: models
records:
  - name: User
    soft_delete: true
    fields:
      - {name: Name, type: string}
`)
		_, err := execute(t, "check", "--schema", schema)
		require.Error(t, err)
		assert.True(t, gen.IsSchemaError(err))
		diags := gen.Diagnostics(err)
		assert.Len(t, diags, 2)
		assert.Contains(t, err.Error(), "missing primary key")
		assert.Contains(t, err.Error(), "soft_delete requires a DeletedAt *time.Time field")
	})

	t.Run("UnknownRecord", func(t *testing.T) {
		schema := writeFile(t, dir, "records.yaml", usersYAML)
		_, err := execute(t, "check", "--schema", schema, "--records", "Post")
		assert.ErrorContains(t, err, "not declared")
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "records.yaml", usersYAML)
	writeFile(t, dir, "repogen.yaml", "schema: records.yaml\ntarget: out\nrecords: [Key]\n")

	out, err := execute(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "2 written")
	assert.FileExists(t, filepath.Join(dir, "out", "key_repo.go"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "user_repo.go"))

	// Flags take precedence over the config file.
	_, err = execute(t, "generate", "--target", "flag")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "flag", "key_repo.go"))
}

func TestExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	schema := writeFile(t, dir, "records.yaml", usersYAML)
	cfg := writeFile(t, dir, "custom.yaml", "schema: "+schema+"\n")

	out, err := execute(t, "check", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 2 records")

	_, err = execute(t, "check", "--config", filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	schema := writeFile(t, dir, "records.yaml", usersYAML)
	t.Setenv("REPOGEN_SCHEMA", schema)
	t.Setenv("REPOGEN_TARGET", filepath.Join(dir, "env"))

	_, err := execute(t, "generate")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "env", "user_repo.go"))
}

func TestVerbose(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	schema := writeFile(t, dir, "records.yaml", usersYAML)

	out, err := execute(t, "generate", "-v", "--schema", schema, "--target", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "generation finished")

	out, err = execute(t, "generate", "--schema", schema, "--target", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.NotContains(t, out, "level=DEBUG")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "repogen "+version()+"\n", out)
}
