package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/pyguide/internal/model"
)

func scaffoldConfig() *model.SiteConfig {
	var sb model.Sidebar
	sb.Set("/guide/", []model.SidebarItem{
		model.Group("基础语法",
			model.Link("运算符", "/guide/02-operators/"),
			model.Link("算术运算符", "/guide/02-operators/arithmetic-operators"),
			model.DisabledLink("即将推出", "/guide/99-soon/"),
			model.Link("外部", "https://example.com/"),
		),
	})
	sb.Set("/guide/02-operators/", []model.SidebarItem{
		model.Link("模块概述", "/guide/02-operators/"),
	})
	return &model.SiteConfig{
		ThemeConfig: model.ThemeConfig{
			Nav:     []model.NavItem{{Text: "首页", Link: "/"}, {Text: "教程", Link: "/guide/"}},
			Sidebar: sb,
		},
	}
}

func TestStubs(t *testing.T) {
	stubs := Stubs(scaffoldConfig())

	var routes []string
	for _, s := range stubs {
		routes = append(routes, s.Route)
	}
	assert.Equal(t, []string{"/", "/guide/", "/guide/02-operators/", "/guide/02-operators/arithmetic-operators"}, routes)
	assert.Equal(t, "运算符", stubs[2].Title, "first label seen names the page")
}

func TestScaffold_CreatesMissingDocuments(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.md", "# Existing home\n")

	created, err := Scaffold(root, scaffoldConfig(), ScaffoldOptions{})
	require.NoError(t, err)
	assert.Len(t, created, 3)

	home, err := os.ReadFile(filepath.Join(root, "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Existing home\n", string(home), "existing documents are left alone")

	stub, err := os.ReadFile(filepath.Join(root, "guide", "02-operators", "arithmetic-operators.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stub), "---\ntitle: 算术运算符\n---\n"), string(stub))
	assert.Contains(t, string(stub), "# 算术运算符")

	overview, err := os.ReadFile(filepath.Join(root, "guide", "02-operators", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(overview), "outline: deep")

	// The scaffolded tree resolves every enabled link.
	idx, err := Scan(root)
	require.NoError(t, err)
	for _, s := range Stubs(scaffoldConfig()) {
		assert.True(t, idx.Has(s.Route), s.Route)
	}

	again, err := Scaffold(root, scaffoldConfig(), ScaffoldOptions{})
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestScaffold_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()

	created, err := Scaffold(root, scaffoldConfig(), ScaffoldOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, created, 4)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScaffold_RejectsRoutesOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "docs")
	require.NoError(t, os.MkdirAll(root, 0o755))

	cfg := &model.SiteConfig{
		ThemeConfig: model.ThemeConfig{
			Nav: []model.NavItem{{Text: "escape", Link: "/../escaped"}},
		},
	}

	created, err := Scaffold(root, cfg, ScaffoldOptions{})
	assert.ErrorIs(t, err, ErrOutsideRoot)
	assert.Empty(t, created)
	assert.NoFileExists(t, filepath.Join(parent, "escaped.md"))

	_, err = Scaffold(root, cfg, ScaffoldOptions{DryRun: true})
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestScaffold_DirectoryIndexSatisfiesBareRoute(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "projects/index.md", "# Projects\n")

	cfg := &model.SiteConfig{
		ThemeConfig: model.ThemeConfig{
			Nav: []model.NavItem{{Text: "项目", Link: "/projects"}},
		},
	}

	created, err := Scaffold(root, cfg, ScaffoldOptions{})
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.NoFileExists(t, filepath.Join(root, "projects.md"))

	idx, err := Scan(root)
	require.NoError(t, err)
	assert.True(t, idx.Has("/projects"))
}
