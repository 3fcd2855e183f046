package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeamick/ares-visual-sub001/internal/config"
)

func TestConfigCmd_IsRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "config" {
			found = true
			break
		}
	}
	assert.True(t, found, "config command should be registered on rootCmd")
}

func TestConfigSubcommands_AreRegistered(t *testing.T) {
	subs := map[string]bool{}
	for _, cmd := range configCmd.Commands() {
		subs[cmd.Name()] = true
	}
	assert.True(t, subs["get"], "get subcommand should be registered")
	assert.True(t, subs["set"], "set subcommand should be registered")
	assert.True(t, subs["list"], "list subcommand should be registered")
}

func TestConfigGet_TopLevel(t *testing.T) {
	dir := inTempDir(t)
	writeTestFile(t, dir, config.FileName, "output_format: json\n")

	out, _, err := execute(t, "config", "get", "output_format")
	require.NoError(t, err)
	assert.Contains(t, out, "json")
}

func TestConfigGet_MapEntry(t *testing.T) {
	dir := inTempDir(t)
	writeTestFile(t, dir, config.FileName, "libraries:\n  ChartJs: https://example.org/chart.js\n")

	out, _, err := execute(t, "config", "get", "libraries.ChartJs")
	require.NoError(t, err)
	assert.Contains(t, out, "https://example.org/chart.js")
}

func TestConfigGet_MapBlock(t *testing.T) {
	dir := inTempDir(t)
	writeTestFile(t, dir, config.FileName, "url_params:\n  region: eu\n  year: 2026\n")

	out, _, err := execute(t, "config", "get", "url_params")
	require.NoError(t, err)
	assert.Contains(t, out, "region: eu")
	assert.Contains(t, out, "year: 2026")
}

func TestConfigGet_NotFound(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "config", "get", "output_format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestConfigGet_Global(t *testing.T) {
	inTempDir(t)
	writeTestFile(t, config.GlobalConfigDir(), "config.yaml", "polyfills: false\n")

	out, _, err := execute(t, "config", "get", "--global", "polyfills")
	require.NoError(t, err)
	assert.Contains(t, out, "false")
}

func TestConfigGet_ProjectOverridesGlobal(t *testing.T) {
	dir := inTempDir(t)
	writeTestFile(t, config.GlobalConfigDir(), "config.yaml", "title: Global\n")
	writeTestFile(t, dir, config.FileName, "title: Project\n")

	out, _, err := execute(t, "config", "get", "title")
	require.NoError(t, err)
	assert.Contains(t, out, "Project")
}

func TestConfigGet_RequiresOneArg(t *testing.T) {
	_, _, err := execute(t, "config", "get")
	assert.Error(t, err)
}

func TestConfigSet_Simple(t *testing.T) {
	dir := inTempDir(t)

	out, _, err := execute(t, "config", "set", "output_format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Set output_format = json")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestConfigSet_MapEntry(t *testing.T) {
	dir := inTempDir(t)

	_, _, err := execute(t, "config", "set", "url_params.region", "eu")
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"region": "eu"}, cfg.URLParams)
}

func TestConfigSet_List(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "packs", "a"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "packs", "b"), 0o750))

	_, _, err := execute(t, "config", "set", "adapter_dirs", "packs/a,packs/b")
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"packs/a", "packs/b"}, cfg.AdapterDirs)
}

func TestConfigSet_InvalidKey(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "config", "set", "invalid_key", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestConfigSet_InvalidValue(t *testing.T) {
	inTempDir(t)

	_, _, err := execute(t, "config", "set", "output_format", "invalid_format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, _, err = execute(t, "config", "set", "libraries.ChartJs", "chart.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an absolute URL")
}

func TestConfigSet_Global(t *testing.T) {
	inTempDir(t)

	out, _, err := execute(t, "config", "set", "--global", "debug", "true")
	require.NoError(t, err)
	assert.Contains(t, out, "Set debug = true")

	cfg, err := config.LoadGlobal()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestConfigSet_PreservesExisting(t *testing.T) {
	dir := inTempDir(t)
	writeTestFile(t, dir, config.FileName, "output_format: json\ntitle: Sales\n")

	_, _, err := execute(t, "config", "set", "debug", "true")
	require.NoError(t, err)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "Sales", cfg.Title)
	assert.True(t, cfg.Debug)
}

func TestConfigSet_RequiresTwoArgs(t *testing.T) {
	_, _, err := execute(t, "config", "set", "key_only")
	assert.Error(t, err)
}

func TestConfigList_Empty(t *testing.T) {
	inTempDir(t)

	out, _, err := execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No configuration set")
}

func TestConfigList_ShowsBothSources(t *testing.T) {
	dir := inTempDir(t)
	writeTestFile(t, config.GlobalConfigDir(), "config.yaml", "polyfills: false\n")
	writeTestFile(t, dir, config.FileName, "output_format: json\nurl_params:\n  region: eu\n")

	out, _, err := execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "polyfills = false")
	assert.Contains(t, out, "(global)")
	assert.Contains(t, out, "output_format = json")
	assert.Contains(t, out, "url_params.region = eu")
	assert.Contains(t, out, "(project)")
}

func TestConfigList_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "config", "list", "extra")
	assert.Error(t, err)
}

func TestConfigCmd_Help(t *testing.T) {
	out, _, err := execute(t, "config", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "View and modify")
	assert.Contains(t, out, "get")
	assert.Contains(t, out, "set")
	assert.Contains(t, out, "list")
}

func TestConfigGetCmd_GlobalFlag(t *testing.T) {
	f := configGetCmd.Flags().Lookup("global")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}
