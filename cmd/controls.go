package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/shieldagent/pkg/catalog"
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "List the SOC 2 control catalog",
	Run: func(cmd *cobra.Command, args []string) {
		scanFlag, _ := cmd.Flags().GetString("scan-type")
		controls := catalog.ForScanType(catalog.ParseScanType(scanFlag))

		for _, c := range controls {
			fmt.Printf("%-7s %-35s %s\n", c.ID, c.Category, c.Title)
		}
		fmt.Printf("\n%d controls\n", len(controls))
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Summarize control categories",
	Run: func(cmd *cobra.Command, args []string) {
		for _, cat := range catalog.Categories() {
			fmt.Printf("%-35s %2d controls (%s)\n", cat.Name, cat.Count, strings.Join(cat.ControlIDs, ", "))
		}
		stats := catalog.Summary()
		fmt.Printf("\nTotal: %d controls\n", stats.TotalControls)
	},
}

func init() {
	controlsCmd.Flags().StringP("scan-type", "s", "full", "Scan type: quick or full")
	controlsCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(controlsCmd)
}
