package config

import (
	"errors"
	"path/filepath"
)

// Config holds the folder layout. It is built once at startup and only read
// afterwards.
type Config struct {
	// ResultsFolder contains one directory per campaign, each holding
	// <name>.zip and the generated reports.
	ResultsFolder string
	// TempFolder is where archives are extracted.
	TempFolder    string
	ContractsFile string
	OutputFile    string
}

func Default() Config {
	return Config{
		ResultsFolder: "results",
		TempFolder:    ".temp",
		ContractsFile: filepath.Join("resources", "contracts", "contracts.csv"),
		OutputFile:    "output.txt",
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ResultsFolder == "" {
		errs = append(errs, errors.New("results folder is empty"))
	}
	if c.TempFolder == "" {
		errs = append(errs, errors.New("temp folder is empty"))
	}
	if c.ContractsFile == "" {
		errs = append(errs, errors.New("contracts file is empty"))
	}
	if c.OutputFile == "" {
		errs = append(errs, errors.New("output file is empty"))
	}
	return errors.Join(errs...)
}

func (c Config) CampaignDir(name string) string {
	return filepath.Join(c.ResultsFolder, name)
}

func (c Config) ArchivePath(name string) string {
	return filepath.Join(c.ResultsFolder, name, name+".zip")
}

func (c Config) ExtractDir(name string) string {
	return filepath.Join(c.TempFolder, name)
}

// OutputPath returns the report path for a cohort. The full cohort uses
// OutputFile unchanged; others get the cohort name as a suffix.
func (c Config) OutputPath(name, cohort string) string {
	file := c.OutputFile
	if cohort != "" {
		ext := filepath.Ext(file)
		file = file[:len(file)-len(ext)] + "_" + cohort + ext
	}
	return filepath.Join(c.CampaignDir(name), file)
}
