package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

// Repository reads the per-strategy result files of one extracted archive.
type Repository struct {
	root string
	log  logrus.FieldLogger
}

func NewRepository(root string, log logrus.FieldLogger) *Repository {
	return &Repository{root: root, log: log}
}

// Load reads every result file of the strategy and keeps the eligible
// executions. Entries for the same contract from different files are
// concatenated in file name order.
func (r *Repository) Load(s model.Strategy) (model.ResultSet, error) {
	dir := filepath.Join(r.root, s.Dir())
	log := r.log.WithField("strategy", s)

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ResultSet{}, &MissingResultsError{Strategy: s, Dir: dir}
		}
		return model.ResultSet{}, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return model.ResultSet{}, &MissingResultsError{Strategy: s, Dir: dir}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.ResultSet{}, fmt.Errorf("list %s: %w", dir, err)
	}

	set := model.NewResultSet(s)
	var files, kept, skipped int
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		k, sk, err := r.loadFile(path, s, set, log)
		if err != nil {
			return model.ResultSet{}, err
		}
		files++
		kept += k
		skipped += sk
	}

	log.WithFields(logrus.Fields{
		"files":     files,
		"contracts": len(set.Executions),
		"kept":      kept,
		"skipped":   skipped,
	}).Info("loaded results")
	return set, nil
}

func (r *Repository) loadFile(path string, s model.Strategy, set model.ResultSet, log logrus.FieldLogger) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}

	var file resultFile
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	log = log.WithField("file", filepath.Base(path))
	var kept, skipped int
	for contract, byStrategy := range file {
		executions, ok := byStrategy[string(s)]
		if !ok {
			return 0, 0, &MalformedRecordError{
				File:     path,
				Contract: contract,
				Index:    -1,
				Reason:   fmt.Sprintf("no %q entry", s),
			}
		}

		if _, ok := set.Executions[contract]; !ok {
			set.Executions[contract] = nil
		}
		for i, raw := range executions {
			rec, eligible, reason := convert(raw, log)
			if reason != "" {
				return 0, 0, &MalformedRecordError{File: path, Contract: contract, Index: i, Reason: reason}
			}
			if !eligible {
				skipped++
				continue
			}
			set.Executions[contract] = append(set.Executions[contract], rec)
			kept++
		}
	}
	log.WithFields(logrus.Fields{"kept": kept, "skipped": skipped}).Debug("read result file")
	return kept, skipped, nil
}

// LoadAll loads every strategy. A missing strategy aborts the whole load.
func (r *Repository) LoadAll() (map[model.Strategy]model.ResultSet, error) {
	sets := make(map[model.Strategy]model.ResultSet, len(model.Strategies()))
	for _, s := range model.Strategies() {
		set, err := r.Load(s)
		if err != nil {
			return nil, err
		}
		sets[s] = set
	}
	return sets, nil
}
