package model

// PageData is the navigation chrome resolved for one page path.
type PageData struct {
	Path       string        `json:"path"`                 // normalised page route
	SidebarKey string        `json:"sidebarKey,omitempty"` // matched sidebar prefix, empty if none
	Sidebar    []SidebarItem `json:"sidebar,omitempty"`
	ActiveNav  *NavItem      `json:"activeNav,omitempty"`
	Prev       *SidebarItem  `json:"prev,omitempty"`
	Next       *SidebarItem  `json:"next,omitempty"`
}
