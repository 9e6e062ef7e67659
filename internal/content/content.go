// Package content indexes the Markdown content tree the site configuration
// points into, and scaffolds documents that are missing from it.
package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/pyguide/internal/logger"
)

// Document is one Markdown page of the content tree.
type Document struct {
	Route       string
	SourcePath  string
	Title       string
	Frontmatter map[string]any
	Headings    []Heading
	Links       []string // link destinations in document order
}

type Heading struct {
	Level int
	ID    string
	Text  string
}

// HasAnchor reports whether a heading with the given id exists.
func (d *Document) HasAnchor(id string) bool {
	for _, h := range d.Headings {
		if h.ID == id {
			return true
		}
	}
	return false
}

// Index maps page routes to documents.
type Index struct {
	Root string
	docs map[string]*Document
}

// Has reports whether route resolves to a document. A directory route
// without its trailing slash also resolves.
func (idx *Index) Has(route string) bool {
	_, ok := idx.Get(route)
	return ok
}

func (idx *Index) Get(route string) (*Document, bool) {
	if d, ok := idx.docs[route]; ok {
		return d, true
	}
	if !strings.HasSuffix(route, "/") {
		d, ok := idx.docs[route+"/"]
		return d, ok
	}
	return nil, false
}

// Documents returns every document sorted by route.
func (idx *Index) Documents() []*Document {
	out := make([]*Document, 0, len(idx.docs))
	for _, d := range idx.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

func (idx *Index) Len() int { return len(idx.docs) }

// skipDir names directories that never hold pages: generator state, build
// output and dependencies.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "public"
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	)
}

// Scan walks root for .md files and indexes them by route.
func Scan(root string) (*Index, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("content directory '%s' not found: %w", root, err)
	}

	md := newMarkdown()
	idx := &Index{Root: root, docs: make(map[string]*Document)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, walkErr)
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", path, err)
		}

		doc := parseDocument(md, RouteFor(rel), data)
		doc.SourcePath = path
		if doc.Title == "" {
			doc.Title = titleFromPath(rel)
		}
		idx.docs[doc.Route] = doc
		logger.Debug("indexed document", "route", doc.Route, "title", doc.Title, "links", len(doc.Links))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content walk: %w", err)
	}
	return idx, nil
}

// RouteFor maps a path relative to the content root to its page route:
// guide/02-operators/index.md becomes /guide/02-operators/ and
// guide/02-operators/exercises.md becomes /guide/02-operators/exercises.
func RouteFor(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	if rel == "index" {
		return "/"
	}
	if strings.HasSuffix(rel, "/index") {
		return "/" + strings.TrimSuffix(rel, "index")
	}
	return "/" + rel
}

// PathFor is the inverse of RouteFor: the content file a route expects.
func PathFor(route string) string {
	route = strings.TrimPrefix(route, "/")
	if route == "" || strings.HasSuffix(route, "/") {
		route += "index"
	}
	return filepath.FromSlash(route + ".md")
}

func parseDocument(md goldmark.Markdown, route string, data []byte) *Document {
	doc := &Document{Route: route}

	var fm map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		logger.Warn("could not parse frontmatter, treating as pure markdown", "route", route, "error", err)
		body = data
		fm = nil
	}
	if fm == nil {
		fm = make(map[string]any)
	}
	doc.Frontmatter = fm
	if t, ok := fm["title"].(string); ok && t != "" {
		doc.Title = t
	}

	root := md.Parser().Parse(text.NewReader(body))
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			h := Heading{Level: node.Level, Text: nodeText(node, body)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			doc.Headings = append(doc.Headings, h)
			if doc.Title == "" && node.Level == 1 {
				doc.Title = h.Text
			}
		case *ast.Link:
			doc.Links = append(doc.Links, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	return doc
}

// nodeText concatenates the literal text under n.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// titleFromPath derives a title from the file name, or the directory name
// for index pages.
func titleFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	name := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if name == "index" {
		dir := filepath.Base(filepath.Dir(rel))
		if dir == "." || dir == "/" {
			return "Home"
		}
		name = dir
	}
	return TitleCase(name)
}

// TitleCase turns a slug such as "basic-variables" into "Basic Variables".
func TitleCase(slug string) string {
	s := strings.ReplaceAll(strings.ReplaceAll(slug, "-", " "), "_", " ")
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
