package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marek-kar/fuzz-aggregator/pkg/store"
)

func newRunsCmd(g *globalOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs [results-name]",
		Short: "List reports stored in the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(dbPath, log)
			if err != nil {
				return err
			}
			defer st.Close()

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			runs, err := st.Runs(cmd.Context(), name)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCAMPAIGN\tCOHORT\tCONTRACTS\tGENERATED")
			for _, r := range runs {
				cohort := r.Cohort
				if cohort == "" {
					cohort = "all"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.ResultsName, cohort, r.Contracts, r.GeneratedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "fuzzagg.sqlite", "SQLite database path")
	return cmd
}
