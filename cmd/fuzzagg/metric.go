package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marek-kar/fuzz-aggregator/pkg/compare"
	"github.com/marek-kar/fuzz-aggregator/pkg/model"
	"github.com/marek-kar/fuzz-aggregator/pkg/store"
)

func newMetricCmd(g *globalOptions) *cobra.Command {
	var dbPath, strategy string

	cmd := &cobra.Command{
		Use:   "metric <run-id> <section> <key>",
		Short: "Print a stored report cell for each strategy",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies := model.Strategies()
			if strategy != "" {
				s, err := model.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				strategies = []model.Strategy{s}
			}

			log, err := g.logger(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(dbPath, log)
			if err != nil {
				return err
			}
			defer st.Close()

			runID, section, key := args[0], args[1], args[2]
			for _, s := range strategies {
				m, err := st.Metric(cmd.Context(), runID, section, key, s)
				if err != nil {
					return fmt.Errorf("%s %s/%s: %w", s, section, key, err)
				}
				value := compare.NotAvailable
				if v, ok := m.Value(); ok {
					value = fmt.Sprintf("%g", v)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s, value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "fuzzagg.sqlite", "SQLite database path")
	cmd.Flags().StringVar(&strategy, "strategy", "", "only print this strategy (blackbox, greybox or directed_greybox)")
	return cmd
}
