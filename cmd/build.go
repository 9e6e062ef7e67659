// cmd/build.go
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/pyguide/internal/config"
	"github.com/Bitlatte/pyguide/internal/content"
	"github.com/Bitlatte/pyguide/internal/export"
	"github.com/Bitlatte/pyguide/internal/logger"
	"github.com/Bitlatte/pyguide/internal/model"
	"github.com/Bitlatte/pyguide/internal/validate"
)

// artifactName is the base name of the exported configuration file.
const artifactName = "site"

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Validates the site configuration and writes it for the generator",
	Long: `The build command checks the site configuration, resolves its links
against the content directory when it exists, and writes the configuration
to <output>/site.<format> for the static-site generator to load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// siteConfig is loaded by the root command before any subcommand runs
		path, _, err := runBuildProcess(appConfig, siteConfig, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

// runBuildProcess validates cfg and writes the exported artifact. Warnings
// are printed to out; errors abort before anything is written. The report is
// returned whenever validation ran, also alongside a validation error.
func runBuildProcess(c config.Config, cfg *model.SiteConfig, out io.Writer) (string, *validate.Report, error) {
	// Reject a bad format before doing any work
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return "", nil, err
	}

	// Check the configuration, resolving links when there is content to
	// resolve them against
	idx := scanContent(c.ContentDir)
	report := validate.Site(cfg, idx)
	for _, issue := range report.Warnings() {
		fmt.Fprintln(out, issue)
	}
	if err := report.Err(); err != nil {
		for _, issue := range report.Errors() {
			fmt.Fprintln(out, issue)
		}
		return "", report, err
	}

	// Encode into memory first so a failed encode leaves the old artifact
	var buf bytes.Buffer
	if err := export.Encode(&buf, cfg, format); err != nil {
		return "", report, fmt.Errorf("failed to encode site configuration as %s: %w", format, err)
	}

	// The output dir usually lives inside the docs tree next to the
	// generator's theme, so only our own artifacts are ever removed
	if err := os.MkdirAll(c.OutputDir, os.ModePerm); err != nil {
		return "", report, fmt.Errorf("failed to create output directory '%s': %w", c.OutputDir, err)
	}
	removeStaleArtifacts(c.OutputDir, format)

	path := filepath.Join(c.OutputDir, artifactName+format.Ext())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", report, fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("site configuration exported", "path", path, "format", string(format), "sidebars", cfg.ThemeConfig.Sidebar.Len())
	return path, report, nil
}

// removeStaleArtifacts deletes artifacts left by a build in another format,
// so the generator never picks up an outdated file.
func removeStaleArtifacts(dir string, keep export.Format) {
	for _, f := range export.Formats {
		if f == keep {
			continue
		}
		stale := filepath.Join(dir, artifactName+f.Ext())
		if err := os.Remove(stale); err == nil {
			logger.Debug("removed stale artifact", "path", stale)
		}
	}
}

// scanContent indexes dir, or returns nil when there is no content tree to
// check against.
func scanContent(dir string) *content.Index {
	// Link checks are optional; a site without content still builds
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Warn("content directory not found, skipping link checks", "dir", dir)
		return nil
	}
	idx, err := content.Scan(dir)
	if err != nil {
		logger.Warn("could not index content, skipping link checks", "dir", dir, "error", err)
		return nil
	}
	logger.Debug("content indexed", "dir", dir, "documents", idx.Len())
	return idx
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
