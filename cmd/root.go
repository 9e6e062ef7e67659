package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bitlatte/pyguide/internal/config"
	"github.com/Bitlatte/pyguide/internal/logger"
	"github.com/Bitlatte/pyguide/internal/model"
	"github.com/Bitlatte/pyguide/internal/site"
)

var cfgFile string
var appConfig config.Config

// siteConfig is the configuration every subcommand works on. It is loaded
// once in PersistentPreRunE and not modified afterwards.
var siteConfig *model.SiteConfig

var rootCmd = &cobra.Command{
	Use:   "pyguide",
	Short: "Site configuration for the Python basics course",
	Long: `pyguide builds the navigation and theme configuration of the Python
basics course website, checks it against the Markdown content tree and
exports it for the static-site generator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags, environment and pyguide.yaml first, so --verbose applies to
		// everything that follows
		if err := initializeConfig(cmd); err != nil {
			return err
		}
		logger.SetVerbose(appConfig.Verbose)
		cfg, err := loadSite(appConfig)
		if err != nil {
			return err
		}
		siteConfig = cfg
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./pyguide.yaml)")
	pf.String("env", "", "deployment environment: production or development (env PYGUIDE_ENV)")
	pf.String("site", "", "load the site definition from a YAML, JSON or TOML file instead of the built-in one")
	pf.String("content", config.DefaultContentDir, "Markdown content directory")
	pf.String("output", config.DefaultOutputDir, "directory the exported configuration is written to")
	pf.String("format", config.DefaultFormat, "export format: json, yaml or toml")
	pf.BoolP("verbose", "v", false, "enable debug logging")
}

// flagKeys maps config keys to the persistent flags that set them.
var flagKeys = map[string]string{
	"env":        "env",
	"siteFile":   "site",
	"contentDir": "content",
	"outputDir":  "output",
	"format":     "format",
	"verbose":    "verbose",
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetDefault("env", string(site.Development))
	v.SetDefault("contentDir", config.DefaultContentDir)
	v.SetDefault("outputDir", config.DefaultOutputDir)
	v.SetDefault("format", config.DefaultFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pyguide")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PYGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}

	// A missing default config file is fine; a missing explicit one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFile == "":
			logger.Debug("no config file found, using defaults, flags and environment")
		case errors.As(err, &notFound):
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		default:
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		logger.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	appConfig = c
	return nil
}

// loadSite returns the site file's configuration when one is given, and the
// built-in configuration for the selected environment otherwise.
func loadSite(c config.Config) (*model.SiteConfig, error) {
	if c.SiteFile != "" {
		logger.Debug("loading site definition", "path", c.SiteFile)
		return site.LoadFile(c.SiteFile)
	}
	env := site.ParseEnvironment(c.Env)
	logger.Debug("using built-in site definition", "env", string(env), "base", env.BasePath())
	return site.New(env), nil
}
