package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Bitlatte/pyguide/internal/logger"
	"github.com/Bitlatte/pyguide/internal/model"
)

// ErrOutsideRoot is returned when a linked route would place a document
// outside the content root.
var ErrOutsideRoot = errors.New("route resolves outside the content root")

type ScaffoldOptions struct {
	DryRun bool
}

// Stub is a page the site links to, with the title it is linked by.
type Stub struct {
	Route string
	Title string
	Path  string // file path under the content root
}

type stubFrontmatter struct {
	Title   string `yaml:"title"`
	Outline string `yaml:"outline,omitempty"`
}

// Stubs lists one Stub per distinct internal page the configuration links
// to: nav entries first, then sidebars in key order. The first label seen
// for a route names it. Disabled and external links are skipped.
func Stubs(cfg *model.SiteConfig) []Stub {
	var stubs []Stub
	seen := make(map[string]bool)
	add := func(text, link string) {
		if !strings.HasPrefix(link, "/") || seen[link] {
			return
		}
		seen[link] = true
		stubs = append(stubs, Stub{Route: link, Title: text, Path: PathFor(link)})
	}

	for _, n := range cfg.ThemeConfig.Nav {
		add(n.Text, n.Link)
	}
	sb := cfg.ThemeConfig.Sidebar
	for _, key := range sb.Keys() {
		items, _ := sb.Get(key)
		for _, it := range items {
			for _, l := range it.Links() {
				if !l.Disabled() {
					add(l.Text, l.Link)
				}
			}
		}
	}
	return stubs
}

// Scaffold writes a stub document under root for every linked page that has
// no file yet. Existing files are never touched, and a route without its
// trailing slash counts as present when the directory's index exists. It
// returns the paths it created, or would create under DryRun.
func Scaffold(root string, cfg *model.SiteConfig, opts ScaffoldOptions) ([]string, error) {
	var created []string
	for _, stub := range Stubs(cfg) {
		target, err := containedPath(root, stub.Path)
		if err != nil {
			return created, fmt.Errorf("failed to scaffold %s: %w", stub.Route, err)
		}

		exists, err := documentExists(root, stub.Route)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		created = append(created, target)
		if opts.DryRun {
			logger.Info("would create document", "path", target, "route", stub.Route)
			continue
		}

		body, err := renderStub(stub)
		if err != nil {
			return created, fmt.Errorf("failed to render stub for %s: %w", stub.Route, err)
		}
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return created, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, body, 0o644); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", target, err)
		}
		logger.Info("created document", "path", target, "route", stub.Route)
	}
	return created, nil
}

// containedPath joins rel to root and rejects results that climb out of it.
func containedPath(root, rel string) (string, error) {
	target := filepath.Join(root, rel)
	back, err := filepath.Rel(root, target)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	if back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, target)
	}
	return target, nil
}

// documentExists mirrors Index.Get: a route resolves to its own file, or to
// the directory index when written without a trailing slash.
func documentExists(root, route string) (bool, error) {
	candidates := []string{PathFor(route)}
	if !strings.HasSuffix(route, "/") {
		candidates = append(candidates, PathFor(route+"/"))
	}
	for _, rel := range candidates {
		target := filepath.Join(root, rel)
		_, err := os.Stat(target)
		if err == nil {
			return true, nil
		}
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to stat %s: %w", target, err)
		}
	}
	return false, nil
}

func renderStub(stub Stub) ([]byte, error) {
	title := stub.Title
	if title == "" {
		title = titleFromPath(stub.Path)
	}
	fm := stubFrontmatter{Title: title}
	if strings.HasSuffix(stub.Route, "/") {
		fm.Outline = "deep"
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n# ")
	buf.WriteString(title)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
