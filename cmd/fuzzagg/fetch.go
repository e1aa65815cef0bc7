package main

import (
	"errors"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/marek-kar/fuzz-aggregator/pkg/fetch"
)

func newFetchCmd(g *globalOptions) *cobra.Command {
	var bucket, prefix, credentials string

	cmd := &cobra.Command{
		Use:   "fetch <results-name>",
		Short: "Download a campaign archive from a Cloud Storage bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" {
				return errors.New("--bucket is required")
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}

			var opts []option.ClientOption
			if credentials != "" {
				opts = append(opts, option.WithCredentialsFile(credentials))
			}
			src, err := fetch.NewGCS(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			defer src.Close()

			name := args[0]
			_, err = fetch.New(src, log).Fetch(cmd.Context(), bucket, prefix, name, g.cfg.ArchivePath(name))
			return err
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket holding campaign archives")
	cmd.Flags().StringVar(&prefix, "prefix", "", "object prefix inside the bucket")
	cmd.Flags().StringVar(&credentials, "credentials", "", "service account key file (default: application default credentials)")
	return cmd
}
