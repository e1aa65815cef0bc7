package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marek-kar/fuzz-aggregator/pkg/config"
	"github.com/marek-kar/fuzz-aggregator/pkg/results"
)

func newExtractCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <results-name>",
		Short: "Unpack a campaign archive into the temp folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}
			_, err = extract(g.cfg, args[0], log)
			return err
		},
	}
}

// extract unpacks the campaign archive if needed and returns the folder the
// result files live in.
func extract(cfg config.Config, name string, log logrus.FieldLogger) (string, error) {
	archive := cfg.ArchivePath(name)
	dest := cfg.ExtractDir(name)
	unpacked, err := results.Extract(archive, dest)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", name, err)
	}
	entry := log.WithFields(logrus.Fields{"archive": archive, "dest": dest})
	if unpacked {
		entry.Info("archive extracted")
	} else {
		entry.Debug("archive already extracted, skipping")
	}
	return dest, nil
}
