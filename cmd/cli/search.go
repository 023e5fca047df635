package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dsjohal14/peoplepicker/internal/libs/paging"
	"github.com/dsjohal14/peoplepicker/internal/scope/db"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
)

func newSearchCmd() *cobra.Command {
	var (
		dataset string
		offset  int
		count   int
		domain  bool
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Rank a dataset file against a query and print the matched tier of each hit",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.OpenStore(dataset)
			if err != nil {
				return err
			}

			fields := search.NameSurname
			if domain {
				fields = search.NameSurnameDomain
			}

			query := strings.Join(args, " ")
			hits := search.Rank(query, store.All(), fields)
			lo, hi := paging.Bounds(len(hits), offset, count)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d of %d users match %q\n", hi-lo, len(hits), query)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDOMAIN\tTIER")
			for _, h := range hits[lo:hi] {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Record.ID, h.Record.FullName(), h.Record.Domain, h.Tier)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "./data/users.json", "dataset file (JSON array or .jsonl)")
	cmd.Flags().IntVar(&offset, "offset", 0, "index of the first hit to print")
	cmd.Flags().IntVar(&count, "count", 20, "number of hits to print")
	cmd.Flags().BoolVar(&domain, "domain", true, "match the domain login as well as the name")
	return cmd
}
