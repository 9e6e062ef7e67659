package config

// Config is the CLI's own configuration, filled by viper from flags,
// PYGUIDE_* environment variables and an optional pyguide.yaml.
type Config struct {
	Env        string `mapstructure:"env"`
	SiteFile   string `mapstructure:"siteFile"`
	ContentDir string `mapstructure:"contentDir"`
	OutputDir  string `mapstructure:"outputDir"`
	Format     string `mapstructure:"format"`
	Verbose    bool   `mapstructure:"verbose"`
}

// Defaults applied before any config source is read.
const (
	DefaultContentDir = "docs"
	DefaultOutputDir  = "docs/.vitepress"
	DefaultFormat     = "json"
)
