package model

// SiteConfig is the root configuration handed to the static-site generator.
// Field tags follow the generator's own key names.
type SiteConfig struct {
	Title           string         `json:"title" yaml:"title"`
	Description     string         `json:"description" yaml:"description"`
	BasePath        string         `json:"base" yaml:"base"`
	OutDir          string         `json:"outDir,omitempty" yaml:"outDir,omitempty"`
	IgnoreDeadLinks bool           `json:"ignoreDeadLinks" yaml:"ignoreDeadLinks"`
	CleanURLs       bool           `json:"cleanUrls" yaml:"cleanUrls"`
	ThemeConfig     ThemeConfig    `json:"themeConfig" yaml:"themeConfig"`
	Markdown        MarkdownConfig `json:"markdown" yaml:"markdown"`
}

// ThemeConfig holds the theme chrome: logo, navigation bar, sidebars and footer.
type ThemeConfig struct {
	Logo        string       `json:"logo,omitempty" yaml:"logo,omitempty"`
	Nav         []NavItem    `json:"nav" yaml:"nav"`
	Sidebar     Sidebar      `json:"sidebar" yaml:"sidebar"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty" yaml:"socialLinks,omitempty"`
	Footer      Footer       `json:"footer" yaml:"footer"`
	Search      Search       `json:"search" yaml:"search"`
}

// NavItem is one entry of the top navigation bar.
type NavItem struct {
	Text string `json:"text" yaml:"text"`
	Link string `json:"link" yaml:"link"`
}

// SocialLink is an icon link shown in the navigation bar.
type SocialLink struct {
	Icon string `json:"icon" yaml:"icon"`
	Link string `json:"link" yaml:"link"`
}

// Footer is the text shown at the bottom of every page.
type Footer struct {
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Copyright string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// Search names the generator's search provider, "local" for the built-in index.
type Search struct {
	Provider string `json:"provider" yaml:"provider"`
}

// MarkdownConfig carries the Markdown processing options. Plugins names
// markdown-it extensions for the generator's extension hook; it is empty for
// this site.
type MarkdownConfig struct {
	LineNumbers bool     `json:"lineNumbers" yaml:"lineNumbers"`
	Plugins     []string `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// ClassDisabled marks a sidebar link that has no target yet.
const ClassDisabled = "disabled"
