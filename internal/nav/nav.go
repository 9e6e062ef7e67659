// Package nav resolves the navigation chrome for a page: which sidebar it
// gets, which nav bar entry is active, and its previous and next pages.
package nav

import (
	"strings"

	"github.com/Bitlatte/pyguide/internal/model"
)

// Normalize turns a request path or content path into a page route.
// The site base path is stripped, .md and .html suffixes are dropped and a
// trailing "index" collapses to its directory. The base path without its
// trailing slash is the root page.
func Normalize(base, p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if base != "" && base != "/" {
		switch {
		case p == strings.TrimSuffix(base, "/"):
			return "/"
		case strings.HasPrefix(p, base):
			p = "/" + strings.TrimPrefix(p, base)
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for _, ext := range []string{".md", ".html"} {
		p = strings.TrimSuffix(p, ext)
	}
	if p == "/index" {
		return "/"
	}
	if strings.HasSuffix(p, "/index") {
		p = strings.TrimSuffix(p, "index")
	}
	return p
}

// under reports whether route lies under prefix. "/guide" counts as under
// "/guide/".
func under(route, prefix string) bool {
	return strings.HasPrefix(route, prefix) || route+"/" == prefix
}

// SidebarFor returns the sidebar whose key is the longest prefix of route.
func SidebarFor(cfg *model.SiteConfig, route string) (string, []model.SidebarItem, bool) {
	sb := cfg.ThemeConfig.Sidebar
	best := ""
	for _, key := range sb.Keys() {
		if under(route, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return "", nil, false
	}
	items, _ := sb.Get(best)
	return best, items, true
}

// ActiveNav returns the nav entry whose link is the longest prefix of route.
// The root link only matches the root page.
func ActiveNav(cfg *model.SiteConfig, route string) *model.NavItem {
	var active *model.NavItem
	for i := range cfg.ThemeConfig.Nav {
		item := &cfg.ThemeConfig.Nav[i]
		if item.Link == "/" {
			if route == "/" && active == nil {
				active = item
			}
			continue
		}
		if under(route, item.Link) && (active == nil || len(item.Link) > len(active.Link)) {
			active = item
		}
	}
	return active
}

// Pages returns the enabled links of a sidebar that live under its key, in
// render order, without repeats. These are the pages a reader pages through.
func Pages(key string, items []model.SidebarItem) []model.SidebarItem {
	var pages []model.SidebarItem
	seen := make(map[string]bool)
	for _, it := range items {
		for _, l := range it.Links() {
			if l.Disabled() || !under(l.Link, key) || seen[l.Link] {
				continue
			}
			seen[l.Link] = true
			pages = append(pages, l)
		}
	}
	return pages
}

// samePage reports whether link names the page at route. A directory route
// written without its trailing slash names the directory's page, as it does
// for the content index.
func samePage(link, route string) bool {
	return link == route || (!strings.HasSuffix(route, "/") && link == route+"/")
}

// Pager returns the pages before and after route within its sidebar.
func Pager(cfg *model.SiteConfig, route string) (prev, next *model.SidebarItem) {
	key, items, ok := SidebarFor(cfg, route)
	if !ok {
		return nil, nil
	}
	pages := Pages(key, items)
	for i := range pages {
		if !samePage(pages[i].Link, route) {
			continue
		}
		if i > 0 {
			prev = &pages[i-1]
		}
		if i+1 < len(pages) {
			next = &pages[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Resolve collects the navigation chrome for a raw page path.
func Resolve(cfg *model.SiteConfig, p string) model.PageData {
	route := Normalize(cfg.BasePath, p)
	data := model.PageData{Path: route, ActiveNav: ActiveNav(cfg, route)}
	if key, items, ok := SidebarFor(cfg, route); ok {
		data.SidebarKey = key
		data.Sidebar = items
	}
	data.Prev, data.Next = Pager(cfg, route)
	return data
}
