// Package validate checks a site configuration for structural mistakes and,
// given a content index, for links that lead nowhere.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/Bitlatte/pyguide/internal/content"
	"github.com/Bitlatte/pyguide/internal/course"
	"github.com/Bitlatte/pyguide/internal/model"
	"github.com/Bitlatte/pyguide/internal/nav"
	"github.com/Bitlatte/pyguide/internal/site"
)

// ErrInvalidConfig is wrapped by Report.Err when any issue is an error.
var ErrInvalidConfig = errors.New("invalid site configuration")

// Severity decides whether an issue fails a build.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue codes.
const (
	CodeNavLink       = "nav-link"
	CodeSidebarKey    = "sidebar-key"
	CodeDeadLink      = "dead-link"
	CodeQuickNav      = "quick-nav"
	CodeDuplicateLink = "duplicate-link"
	CodeContentLink   = "content-link"
)

// Issue is one finding of a check.
type Issue struct {
	Severity Severity
	Code     string
	Path     string // where the issue sits: a nav index, sidebar key or route
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Code, i.Path, i.Message)
}

// Report collects the issues of one validation run in check order.
type Report struct {
	Issues []Issue
}

func (r *Report) add(sev Severity, code, where, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Code: code, Path: where, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) Errors() []Issue   { return r.filter(Error) }
func (r *Report) Warnings() []Issue { return r.filter(Warning) }

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// Codes returns the issue codes in report order. Handy in tests.
func (r *Report) Codes() []string {
	out := make([]string, len(r.Issues))
	for i, is := range r.Issues {
		out[i] = is.Code
	}
	return out
}

// Err returns nil when the report holds no errors.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d error(s), first: %s", ErrInvalidConfig, len(errs), errs[0])
}

// Site runs every check. idx may be nil, in which case links are not
// resolved against content.
func Site(cfg *model.SiteConfig, idx *content.Index) *Report {
	r := &Report{}
	checkNav(r, cfg)
	checkSidebarKeys(r, cfg)
	checkDuplicates(r, cfg)
	if cat, err := course.Load(); err == nil {
		checkQuickNav(r, cfg, cat)
	}
	if idx != nil {
		checkDeadLinks(r, cfg, idx)
		checkContentLinks(r, cfg, idx)
	}
	return r
}

func deadLinkSeverity(cfg *model.SiteConfig) Severity {
	if cfg.IgnoreDeadLinks {
		return Warning
	}
	return Error
}

func checkNav(r *Report, cfg *model.SiteConfig) {
	for i, n := range cfg.ThemeConfig.Nav {
		where := fmt.Sprintf("nav[%d]", i)
		switch {
		case n.Link == "":
			r.add(Error, CodeNavLink, where, "%q has an empty link", n.Text)
		case !strings.HasPrefix(n.Link, "/"):
			r.add(Error, CodeNavLink, where, "%q links to %q, which does not start with /", n.Text, n.Link)
		}
	}
}

func checkSidebarKeys(r *Report, cfg *model.SiteConfig) {
	for _, key := range cfg.ThemeConfig.Sidebar.Keys() {
		if !strings.HasPrefix(key, "/") || !strings.HasSuffix(key, "/") {
			r.add(Error, CodeSidebarKey, key, "sidebar key must begin and end with /")
		}
	}
}

func checkDuplicates(r *Report, cfg *model.SiteConfig) {
	sb := cfg.ThemeConfig.Sidebar
	for _, key := range sb.Keys() {
		items, _ := sb.Get(key)
		for _, it := range items {
			if !it.IsGroup() {
				continue
			}
			seen := make(map[string]bool)
			for _, l := range it.Links() {
				if l.Disabled() {
					continue
				}
				if seen[l.Link] {
					r.add(Warning, CodeDuplicateLink, key, "%s appears twice in group %q", l.Link, it.Text)
				}
				seen[l.Link] = true
			}
		}
	}
}

// checkQuickNav verifies that each module sidebar's quick navigation links
// the adjacent catalog modules.
func checkQuickNav(r *Report, cfg *model.SiteConfig, cat *course.Catalog) {
	sb := cfg.ThemeConfig.Sidebar
	for _, m := range cat.Modules() {
		items, ok := sb.Get(m.Route())
		if !ok {
			continue
		}
		var qn *model.SidebarItem
		for i := range items {
			if items[i].IsGroup() && items[i].Text == site.QuickNavTitle {
				qn = &items[i]
				break
			}
		}
		if qn == nil {
			r.add(Warning, CodeQuickNav, m.Route(), "module has no %s group", site.QuickNavTitle)
			continue
		}
		links := qn.Links()
		if len(links) < 2 {
			r.add(Error, CodeQuickNav, m.Route(), "%s group needs previous and next links", site.QuickNavTitle)
			continue
		}
		prev, next, _ := cat.Neighbors(m.Slug)
		checkNeighbor(r, m.Route(), "previous", links[0], prev)
		checkNeighbor(r, m.Route(), "next", links[len(links)-1], next)
	}
}

func checkNeighbor(r *Report, where, side string, link model.SidebarItem, want *course.Module) {
	if want == nil {
		if !link.Disabled() {
			r.add(Error, CodeQuickNav, where, "%s link %s should be disabled at the end of the course", side, link.Link)
		}
		return
	}
	if link.Disabled() || link.Link != want.Route() {
		r.add(Error, CodeQuickNav, where, "%s link targets %s, want %s", side, link.Link, want.Route())
	}
}

func checkDeadLinks(r *Report, cfg *model.SiteConfig, idx *content.Index) {
	sev := deadLinkSeverity(cfg)
	for i, n := range cfg.ThemeConfig.Nav {
		if strings.HasPrefix(n.Link, "/") && !idx.Has(n.Link) {
			r.add(sev, CodeDeadLink, fmt.Sprintf("nav[%d]", i), "%s has no document", n.Link)
		}
	}
	sb := cfg.ThemeConfig.Sidebar
	reported := make(map[string]bool)
	for _, key := range sb.Keys() {
		items, _ := sb.Get(key)
		for _, it := range items {
			for _, l := range it.Links() {
				if l.Disabled() || !strings.HasPrefix(l.Link, "/") || reported[l.Link] {
					continue
				}
				if !idx.Has(l.Link) {
					reported[l.Link] = true
					r.add(sev, CodeDeadLink, key, "%s (%q) has no document", l.Link, l.Text)
				}
			}
		}
	}
}

// checkContentLinks resolves internal links found inside documents.
func checkContentLinks(r *Report, cfg *model.SiteConfig, idx *content.Index) {
	sev := deadLinkSeverity(cfg)
	for _, doc := range idx.Documents() {
		for _, dest := range doc.Links {
			route, anchor, ok := resolveLink(cfg.BasePath, doc.Route, dest)
			if !ok {
				continue
			}
			target, found := idx.Get(route)
			if !found {
				r.add(sev, CodeContentLink, doc.Route, "link %s has no document", dest)
				continue
			}
			if anchor != "" && isASCII(anchor) && !target.HasAnchor(anchor) {
				r.add(sev, CodeContentLink, doc.Route, "link %s has no heading #%s", dest, anchor)
			}
		}
	}
}

// resolveLink turns a link destination inside the document at from into a
// route and anchor. ok is false for external links and non-page assets.
func resolveLink(base, from, dest string) (route, anchor string, ok bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", "", false
	}
	anchor = u.Fragment
	p := u.Path
	if p == "" {
		return from, anchor, anchor != ""
	}
	if ext := path.Ext(p); ext != "" && ext != ".md" && ext != ".html" {
		return "", "", false
	}
	if !strings.HasPrefix(p, "/") {
		dir := from
		if !strings.HasSuffix(dir, "/") {
			dir = path.Dir(dir) + "/"
		}
		trailing := strings.HasSuffix(p, "/")
		p = path.Join(dir, p)
		if trailing && !strings.HasSuffix(p, "/") {
			p += "/"
		}
	}
	return nav.Normalize(base, p), anchor, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
