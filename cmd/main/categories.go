package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/source"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the selectable categories and static rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCategories(cmd.OutOrStdout(), source.NewSources(cfg.Upstream, nil), catalog.Default())
	},
}

func printCategories(out io.Writer, sources []source.Source, cat *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "SOURCE\tCATEGORY\tNOTE")
	for _, src := range sources {
		for _, c := range src.Categories() {
			note := ""
			if c.Mandatory {
				note = "always included"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", src.Type(), c.ID, note)
		}
	}

	fmt.Fprintln(w, "\t\t")
	fmt.Fprintln(w, "STATIC\tSUBCATEGORIES\tINPUT")
	for _, info := range cat.Infos() {
		subs := make([]string, 0, len(info.Subcategories))
		for _, s := range info.Subcategories {
			subs = append(subs, s.Name)
		}
		input := ""
		if info.HasInput {
			input = fmt.Sprintf("%s %d..%d (default %d)", info.InputLabel, info.InputMin, info.InputMax, info.InputDefault)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, strings.Join(subs, ", "), input)
	}

	return w.Flush()
}
