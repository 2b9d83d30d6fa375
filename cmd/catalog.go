package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"rangers/internal/catalog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var catalogPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the card catalog",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the card catalog definition",
	Long: `Check verifies that the catalog can satisfy every ranger choice: unique names,
known card types and sets, a personality card for each aspect, at least five cards
per background and specialty set, and a role card for each specialty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(resolveCatalogPath())
		if err != nil {
			return err
		}

		results := cat.Check()

		fmt.Println("Catalog Check Results:")
		fmt.Println("----------------------")

		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		if len(results.Errors) == 0 {
			fmt.Printf("%s catalog with %d cards is valid.\n", green("OK"), len(cat.Cards))
		} else {
			fmt.Printf("%s catalog has %d errors:\n", red("FAIL"), len(results.Errors))
			for i, e := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, e)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println()
			fmt.Println(yellow("Warnings:"))
			for i, w := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, w)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("catalog check failed")
		}
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cardType, _ := cmd.Flags().GetString("type")
		set, _ := cmd.Flags().GetString("set")

		cat, err := catalog.Load(resolveCatalogPath())
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", bold("NAME"), bold("TYPE"), bold("SET"), bold("ASPECT"), bold("EXPERT"))
		for _, d := range cat.Filter(cardType, set) {
			expert := ""
			if d.Expert {
				expert = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Type, d.Set, d.Aspect, expert)
		}
		return w.Flush()
	},
}

func resolveCatalogPath() string {
	if catalogPath != "" {
		return catalogPath
	}
	return os.Getenv("CATALOG_PATH")
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogPath, "file", "", "catalog TOML file (defaults to CATALOG_PATH or the built-in catalog)")

	catalogListCmd.Flags().String("type", "", "filter by card type")
	catalogListCmd.Flags().String("set", "", "filter by source set")

	catalogCmd.AddCommand(catalogCheckCmd)
	catalogCmd.AddCommand(catalogListCmd)
}
