// cmd/nav.go
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/pyguide/internal/model"
	"github.com/Bitlatte/pyguide/internal/nav"
)

var navJSON bool // For the --json flag

// navCmd represents the nav command
var navCmd = &cobra.Command{
	Use:   "nav <page-path>",
	Short: "Shows the sidebar, active nav entry and pager for a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The argument may carry the base path, a .md/.html suffix or a fragment
		page := nav.Resolve(siteConfig, args[0])
		out := cmd.OutOrStdout()
		if navJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(page)
		}
		printPage(out, page)
		return nil
	},
}

// printPage writes the resolved page as aligned "label: value" lines with
// the sidebar tree indented underneath.
func printPage(out io.Writer, page model.PageData) {
	fmt.Fprintf(out, "page:    %s\n", page.Path)
	if page.ActiveNav != nil {
		fmt.Fprintf(out, "nav:     %s (%s)\n", page.ActiveNav.Text, page.ActiveNav.Link)
	} else {
		fmt.Fprintln(out, "nav:     -")
	}
	if page.SidebarKey == "" {
		fmt.Fprintln(out, "sidebar: -")
	} else {
		fmt.Fprintf(out, "sidebar: %s\n", page.SidebarKey)
		printItems(out, page.Sidebar, 1)
	}
	fmt.Fprintf(out, "prev:    %s\n", linkLabel(page.Prev))
	fmt.Fprintf(out, "next:    %s\n", linkLabel(page.Next))
}

func printItems(out io.Writer, items []model.SidebarItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if it.IsGroup() {
			fmt.Fprintf(out, "%s%s\n", indent, it.Text)
			printItems(out, it.Items, depth+1)
			continue
		}
		suffix := ""
		if it.Disabled() {
			suffix = " (disabled)"
		}
		fmt.Fprintf(out, "%s%s -> %s%s\n", indent, it.Text, it.Link, suffix)
	}
}

func linkLabel(it *model.SidebarItem) string {
	if it == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", it.Text, it.Link)
}

func init() {
	navCmd.Flags().BoolVar(&navJSON, "json", false, "print the resolved page as JSON")
	rootCmd.AddCommand(navCmd)
}
