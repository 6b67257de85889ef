package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/datasciencecampus/geosnap/internal/catalog"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List cataloged datasets",
	RunE:  runDatasets,
}

func init() {
	datasetsCmd.Flags().String("name", "", "Filter by dataset name")
	datasetsCmd.Flags().Int("limit", 20, "Maximum datasets to list")
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")

	cat, err := catalog.NewSQLite(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer cat.Close() //nolint:errcheck

	ctx := cmd.Context()
	if err := cat.Migrate(ctx); err != nil {
		return err
	}

	datasets, err := cat.ListDatasets(ctx, catalog.Filter{Name: name, Limit: limit})
	if err != nil {
		return err
	}

	if len(datasets) == 0 {
		fmt.Println("no datasets")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRECORDS\tCRS\tPATH\tFETCHED")
	for _, d := range datasets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			d.ID, d.Name, d.Records, d.CRS, d.Path, d.FetchedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
