package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadShorthandAndDetailedForms(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "pmo.yml", `
web: "sleep 60"
api:
  cmd: "echo hi"
  cwd: "sub"
  env:
    FOO: bar
legacy:
  script: "echo legacy"
`)

	specs, warnings, err := Load(desc)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, specs, 3)

	require.Equal(t, "web", specs[0].Name)
	require.Equal(t, "sleep 60", specs[0].Cmd)

	require.Equal(t, "api", specs[1].Name)
	require.Equal(t, "echo hi", specs[1].Cmd)
	require.Equal(t, filepath.Join(dir, "sub"), specs[1].Cwd)
	require.Equal(t, "bar", specs[1].Env["FOO"])

	require.Equal(t, "legacy", specs[2].Name)
	require.Equal(t, "echo legacy", specs[2].Cmd)
}

func TestLoadDeclarationOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "pmo.yml", "zeta: \"echo 1\"\nalpha: \"echo 2\"\nmid: \"echo 3\"\n")

	specs, _, err := Load(desc)
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha", "mid"}, []string{specs[0].Name, specs[1].Name, specs[2].Name})
}

func TestLoadReservedNameSkippedWithWarning(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "pmo.yml", "pmo: \"echo hi\"\nweb: \"sleep 10\"\n")

	specs, warnings, err := Load(desc)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, "web", specs[0].Name)
	require.Len(t, warnings, 1)
	require.Equal(t, "pmo", warnings[0].Name)
}

func TestLoadReservedNameOnlyYieldsEmptySet(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "pmo.yml", "pmo: \"echo hi\"\n")

	specs, warnings, err := Load(desc)
	require.NoError(t, err)
	require.Empty(t, specs)
	require.Len(t, warnings, 1)
}

func TestLoadNotAMappingIsConfigError(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "pmo.yml", "- a\n- b\n")

	_, _, err := Load(desc)
	require.Error(t, err)
}

func TestLoadMissingDescriptorIsConfigError(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoadDotenvMergePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "FOO=from-env\n# a comment\n\nBAR=baz\n")
	desc := writeFile(t, dir, "pmo.yml", "t:\n  cmd: \"env\"\n  env:\n    FOO: from-spec\n")

	specs, _, err := Load(desc)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, "from-spec", specs[0].Env["FOO"])
	require.Equal(t, "baz", specs[0].Env["BAR"])
}

func TestLoadMissingDotenvSilentlySkipped(t *testing.T) {
	dir := t.TempDir()
	desc := writeFile(t, dir, "pmo.yml", "web: \"sleep 10\"\n")

	specs, _, err := Load(desc)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	require.Empty(t, specs[0].Env)
}
