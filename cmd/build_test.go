package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/pyguide/internal/config"
	"github.com/Bitlatte/pyguide/internal/content"
	"github.com/Bitlatte/pyguide/internal/logger"
	"github.com/Bitlatte/pyguide/internal/model"
	"github.com/Bitlatte/pyguide/internal/site"
	"github.com/Bitlatte/pyguide/internal/validate"
)

func quietLogs(t *testing.T) {
	t.Helper()
	logger.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
}

func testConfig(t *testing.T, format string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		ContentDir: filepath.Join(dir, "docs"),
		OutputDir:  filepath.Join(dir, "docs", ".vitepress"),
		Format:     format,
	}
}

func TestRunBuildProcess_WritesJSON(t *testing.T) {
	quietLogs(t)
	c := testConfig(t, "json")

	var out bytes.Buffer
	path, report, err := runBuildProcess(c, site.New(site.Production), &out)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Empty(t, report.Issues)
	assert.Equal(t, filepath.Join(c.OutputDir, "site.json"), path)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.SiteConfig
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, site.ProductionBase, got.BasePath)
	assert.Equal(t, 31, got.ThemeConfig.Sidebar.Len())
}

func TestRunBuildProcess_RemovesStaleArtifacts(t *testing.T) {
	quietLogs(t)
	c := testConfig(t, "yaml")

	_, _, err := runBuildProcess(c, site.New(site.Development), &bytes.Buffer{})
	require.NoError(t, err)

	c.Format = "toml"
	path, _, err := runBuildProcess(c, site.New(site.Development), &bytes.Buffer{})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.NoFileExists(t, filepath.Join(c.OutputDir, "site.yaml"))
}

func TestRunBuildProcess_ReportsDeadLinks(t *testing.T) {
	quietLogs(t)
	c := testConfig(t, "json")
	cfg := site.New(site.Development)

	_, err := content.Scaffold(c.ContentDir, cfg, content.ScaffoldOptions{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(c.ContentDir, "projects", "index.md")))

	var out bytes.Buffer
	_, _, err = runBuildProcess(c, cfg, &out)
	require.NoError(t, err, "dead links are warnings while ignoreDeadLinks is set")
	assert.Contains(t, out.String(), "warning [dead-link] nav[3]")

	cfg.IgnoreDeadLinks = false
	out.Reset()
	_, report, err := runBuildProcess(c, cfg, &out)
	assert.ErrorIs(t, err, validate.ErrInvalidConfig)
	require.NotNil(t, report, "the report comes back with the validation error")
	assert.Len(t, report.Errors(), 1)
	assert.Contains(t, out.String(), "error [dead-link] nav[3]")
}

func TestRunBuildProcess_InvalidConfigWritesNothing(t *testing.T) {
	quietLogs(t)
	c := testConfig(t, "json")
	cfg := site.New(site.Development)
	cfg.ThemeConfig.Nav[0].Link = ""

	_, _, err := runBuildProcess(c, cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, validate.ErrInvalidConfig)
	assert.NoDirExists(t, c.OutputDir)
}

func TestRunBuildProcess_UnknownFormat(t *testing.T) {
	quietLogs(t)
	c := testConfig(t, "xml")

	_, _, err := runBuildProcess(c, site.New(site.Development), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoadSite(t *testing.T) {
	cfg, err := loadSite(config.Config{Env: "production"})
	require.NoError(t, err)
	assert.Equal(t, site.ProductionBase, cfg.BasePath)

	cfg, err = loadSite(config.Config{})
	require.NoError(t, err)
	assert.Equal(t, site.DevelopmentBase, cfg.BasePath)

	_, err = loadSite(config.Config{SiteFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildCommand(t *testing.T) {
	quietLogs(t)
	t.Setenv(site.EnvVar, "production")
	c := testConfig(t, "json")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"build", "--content", c.ContentDir, "--output", c.OutputDir})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Wrote "+filepath.Join(c.OutputDir, "site.json"))

	data, err := os.ReadFile(filepath.Join(c.OutputDir, "site.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"base": "/python-awesome-basic-coding/"`)
}
