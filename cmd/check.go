// cmd/check.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/pyguide/internal/validate"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks the site configuration and its links",
	Long: `The check command verifies nav links, sidebar keys and each module's
quick navigation, then resolves every link against the content directory.
Dead links are warnings while ignoreDeadLinks is set and errors otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		// siteConfig is the package-level variable from cmd/root.go
		report := validate.Site(siteConfig, scanContent(appConfig.ContentDir))
		for _, issue := range report.Issues {
			fmt.Fprintln(out, issue)
		}
		// Summary line last so it is visible at the bottom of long reports
		fmt.Fprintf(out, "%d error(s), %d warning(s)\n", len(report.Errors()), len(report.Warnings()))
		return report.Err()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
