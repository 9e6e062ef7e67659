// Package course holds the ordered catalog of course modules and lessons.
// The catalog is embedded in the binary and parsed once per process.
package course

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var (
	// ErrModuleNotFound is returned when a slug names no catalog module.
	ErrModuleNotFound = errors.New("module not found")

	// ErrInvalidCatalog is returned when the catalog breaks an ordering
	// or uniqueness rule.
	ErrInvalidCatalog = errors.New("invalid course catalog")
)

// GuidePrefix is the URL prefix every module lives under.
const GuidePrefix = "/guide/"

// ExercisesSlug is the lesson slug of a module's exercise page.
const ExercisesSlug = "exercises"

var slugPattern = regexp.MustCompile(`^(\d{2})-[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Catalog is the whole course: sections of modules in teaching order.
type Catalog struct {
	Sections []Section `yaml:"sections"`

	modules []*Module
	bySlug  map[string]int
}

// Section groups consecutive modules under one heading of the guide index.
type Section struct {
	Title   string   `yaml:"title"`
	Modules []Module `yaml:"modules"`
}

// Module is one numbered unit of the course with its own sidebar. Heading,
// when set, overrides Title as the label of the module's lesson group.
type Module struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Heading string   `yaml:"heading,omitempty"`
	Lessons []Lesson `yaml:"lessons"`
}

// Lesson is a single page inside a module.
type Lesson struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
}

// Route is the module overview path, e.g. /guide/02-operators/.
func (m *Module) Route() string {
	return GuidePrefix + m.Slug + "/"
}

// LessonRoute is the page path of one lesson inside the module.
func (m *Module) LessonRoute(l Lesson) string {
	return m.Route() + l.Slug
}

// SidebarTitle is the label used for the module's own sidebar group.
func (m *Module) SidebarTitle() string {
	if m.Heading != "" {
		return m.Heading
	}
	return m.Title
}

// Exercises returns the module's exercise lesson, if it has one.
func (m *Module) Exercises() (Lesson, bool) {
	for _, l := range m.Lessons {
		if l.Slug == ExercisesSlug {
			return l, true
		}
	}
	return Lesson{}, false
}

// Number is the two-digit position prefix of the slug.
func (m *Module) Number() int {
	match := slugPattern.FindStringSubmatch(m.Slug)
	if match == nil {
		return 0
	}
	n, _ := strconv.Atoi(match[1])
	return n
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Load returns the embedded catalog. It is parsed and checked on first use;
// later calls return the same value.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(catalogYAML)
	})
	return loaded, loadErr
}

// MustLoad is Load for callers that treat a broken embedded catalog as a
// programming error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and checks a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.modules = nil
	c.bySlug = make(map[string]int)
	prev := 0
	for si := range c.Sections {
		sec := &c.Sections[si]
		if len(sec.Modules) == 0 {
			return fmt.Errorf("%w: section %q has no modules", ErrInvalidCatalog, sec.Title)
		}
		for mi := range sec.Modules {
			m := &sec.Modules[mi]
			if !slugPattern.MatchString(m.Slug) {
				return fmt.Errorf("%w: malformed module slug %q", ErrInvalidCatalog, m.Slug)
			}
			if _, dup := c.bySlug[m.Slug]; dup {
				return fmt.Errorf("%w: duplicate module %q", ErrInvalidCatalog, m.Slug)
			}
			if n := m.Number(); n != prev+1 {
				return fmt.Errorf("%w: module %q is numbered %d, want %d", ErrInvalidCatalog, m.Slug, n, prev+1)
			}
			if len(m.Lessons) == 0 {
				return fmt.Errorf("%w: module %q has no lessons", ErrInvalidCatalog, m.Slug)
			}
			seen := make(map[string]bool, len(m.Lessons))
			for _, l := range m.Lessons {
				if seen[l.Slug] {
					return fmt.Errorf("%w: module %q repeats lesson %q", ErrInvalidCatalog, m.Slug, l.Slug)
				}
				seen[l.Slug] = true
			}
			prev = m.Number()
			c.bySlug[m.Slug] = len(c.modules)
			c.modules = append(c.modules, m)
		}
	}
	if len(c.modules) == 0 {
		return fmt.Errorf("%w: no modules", ErrInvalidCatalog)
	}
	return nil
}

// Modules returns every module in teaching order.
func (c *Catalog) Modules() []*Module {
	out := make([]*Module, len(c.modules))
	copy(out, c.modules)
	return out
}

func (c *Catalog) Module(slug string) (*Module, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, slug)
	}
	return c.modules[i], nil
}

// Neighbors returns the modules immediately before and after slug in
// teaching order. Either is nil at the ends of the course.
func (c *Catalog) Neighbors(slug string) (prev, next *Module, err error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrModuleNotFound, slug)
	}
	if i > 0 {
		prev = c.modules[i-1]
	}
	if i+1 < len(c.modules) {
		next = c.modules[i+1]
	}
	return prev, next, nil
}
