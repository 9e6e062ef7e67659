// cmd/scaffold.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/pyguide/internal/content"
)

var scaffoldDryRun bool // For the --dry-run flag

// scaffoldCmd represents the scaffold command
var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Creates stub documents for linked pages that do not exist yet",
	Long: `The scaffold command walks the nav bar and every sidebar and writes a
Markdown stub with a title in frontmatter for each linked page missing from
the content directory. Existing documents are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := content.Scaffold(appConfig.ContentDir, siteConfig, content.ScaffoldOptions{DryRun: scaffoldDryRun})
		out := cmd.OutOrStdout()
		// Print what was created even when a later stub failed
		for _, path := range created {
			fmt.Fprintln(out, path)
		}
		if err != nil {
			return err
		}
		verb := "Created"
		if scaffoldDryRun {
			verb = "Would create"
		}
		fmt.Fprintf(out, "%s %d document(s)\n", verb, len(created))
		return nil
	},
}

func init() {
	scaffoldCmd.Flags().BoolVar(&scaffoldDryRun, "dry-run", false, "list the documents without writing them")
	rootCmd.AddCommand(scaffoldCmd)
}
