package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marek-kar/fuzz-aggregator/pkg/contracts"
	"github.com/marek-kar/fuzz-aggregator/pkg/metrics"
	"github.com/marek-kar/fuzz-aggregator/pkg/model"
	"github.com/marek-kar/fuzz-aggregator/pkg/render"
	"github.com/marek-kar/fuzz-aggregator/pkg/report"
	"github.com/marek-kar/fuzz-aggregator/pkg/results"
	"github.com/marek-kar/fuzz-aggregator/pkg/store"
)

type reportOptions struct {
	build           report.Options
	format          string
	byVulnerability bool
	clusters        string
	dbPath          string
}

func newReportCmd(g *globalOptions) *cobra.Command {
	opts := reportOptions{build: report.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "report <results-name>",
		Short: "Compare the fuzzing strategies of a campaign and write the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}
			return runReport(cmd, g, opts, format, args[0], log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&g.cfg.ContractsFile, "contracts", g.cfg.ContractsFile, "contract list CSV (name,tags,link)")
	f.StringVarP(&g.cfg.OutputFile, "out", "o", g.cfg.OutputFile, "report file name inside the campaign folder")
	f.StringVar(&opts.format, "format", string(render.FormatTable), "report format: table or json")
	f.BoolVar(&opts.build.IncludeNewDetections, "include-new-detections", false, "count detections on contracts that do not declare the vulnerability")
	f.BoolVar(&opts.byVulnerability, "by-vulnerability", false, "also write one report per declared vulnerability")
	f.StringVar(&opts.clusters, "clusters", "", "cluster assignment CSV (name,cluster); writes one report per cluster")
	f.BoolVar(&opts.build.DetailedHits, "detailed-hits", false, "add per-instruction hit counts")
	f.StringSliceVar(&opts.build.Instructions, "instructions", opts.build.Instructions, "instructions listed in the detailed hits table")
	f.StringVar(&opts.dbPath, "db", "", "store every report in this SQLite database")
	return cmd
}

func runReport(cmd *cobra.Command, g *globalOptions, opts reportOptions, format render.Format, name string, log logrus.FieldLogger) error {
	dir, err := extract(g.cfg, name, log)
	if err != nil {
		return err
	}

	list, err := contracts.Load(g.cfg.ContractsFile)
	if err != nil {
		return err
	}
	cohorts := []contracts.Cohort{contracts.All(list)}
	if opts.byVulnerability {
		cohorts = append(cohorts, contracts.ByVulnerability(list)...)
	}
	if opts.clusters != "" {
		assignment, err := contracts.LoadClusters(opts.clusters)
		if err != nil {
			return err
		}
		cohorts = append(cohorts, contracts.ByCluster(list, assignment)...)
	}

	sets, err := results.NewRepository(dir, log).LoadAll()
	if err != nil {
		return err
	}
	builder := report.NewBuilder(metrics.NewEngine(sets), opts.build)

	var st *store.Store
	if opts.dbPath != "" {
		st, err = store.Open(opts.dbPath, log)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	renderer := render.New(format)
	for _, cohort := range cohorts {
		log.WithFields(logrus.Fields{
			"cohort":    cohort.Name,
			"contracts": model.ContractNames(cohort.Contracts),
		}).Debug("building report")
		rep, err := builder.Build(uuid.NewString(), name, cohort)
		if err != nil {
			return fmt.Errorf("build report for cohort %q: %w", cohort.Name, err)
		}

		path := withExtension(g.cfg.OutputPath(name, cohort.Name), format)
		if err := writeReport(path, renderer, rep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)

		if st != nil {
			if err := st.Save(cmd.Context(), rep); err != nil {
				return err
			}
		}
	}
	return nil
}

func withExtension(path string, format render.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + format.Extension()
}

func writeReport(path string, renderer render.Renderer, rep model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := renderer.Render(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}
