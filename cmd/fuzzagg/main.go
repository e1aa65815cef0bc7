package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marek-kar/fuzz-aggregator/pkg/config"
)

type globalOptions struct {
	cfg       config.Config
	verbose   bool
	logFormat string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{cfg: config.Default()}

	root := &cobra.Command{
		Use:          "fuzzagg",
		Short:        "Aggregate smart-contract fuzzing campaigns into comparison reports",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.cfg.Validate()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&g.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&g.cfg.ResultsFolder, "results-folder", g.cfg.ResultsFolder, "folder holding one directory per campaign")
	flags.StringVar(&g.cfg.TempFolder, "temp-folder", g.cfg.TempFolder, "folder archives are extracted into")

	root.AddCommand(
		newExtractCmd(g),
		newReportCmd(g),
		newFetchCmd(g),
		newRunsCmd(g),
		newMetricCmd(g),
	)
	return root
}

func (g *globalOptions) logger(cmd *cobra.Command) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	switch g.logFormat {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", g.logFormat)
	}
	if g.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, nil
}
