package contracts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

// Cohort is a named subset of the contract list. Metrics are always computed
// over a cohort; the full list is the cohort with an empty name.
type Cohort struct {
	Name      string
	Contracts []model.Contract
}

func All(list []model.Contract) Cohort {
	return Cohort{Contracts: list}
}

// WithVulnerability keeps the contracts that declare v.
func WithVulnerability(list []model.Contract, v model.Vulnerability) Cohort {
	var out []model.Contract
	for _, c := range list {
		if c.Declares(v) {
			out = append(out, c)
		}
	}
	return Cohort{Name: string(v), Contracts: out}
}

// ByVulnerability returns one cohort per canonical vulnerability, skipping
// vulnerabilities nothing declares.
func ByVulnerability(list []model.Contract) []Cohort {
	var out []Cohort
	for _, v := range model.Vulnerabilities() {
		if c := WithVulnerability(list, v); len(c.Contracts) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// LoadClusters reads a cluster assignment file with rows name,cluster.
func LoadClusters(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cluster assignment: %w", err)
	}
	defer f.Close()
	return ParseClusters(f)
}

func ParseClusters(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	clusters := make(map[string]string)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read cluster assignment: %w", err)
		}
		name, cluster := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if name == "" || cluster == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: empty contract or cluster", line)
		}
		clusters[name] = cluster
	}
	return clusters, nil
}

// ByCluster groups the contract list by cluster id, ordered by id. Contracts
// without an assignment are left out.
func ByCluster(list []model.Contract, clusters map[string]string) []Cohort {
	groups := make(map[string][]model.Contract)
	for _, c := range list {
		id, ok := clusters[c.Name]
		if !ok {
			continue
		}
		groups[id] = append(groups[id], c)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Cohort, 0, len(ids))
	for _, id := range ids {
		out = append(out, Cohort{Name: "cluster_" + id, Contracts: groups[id]})
	}
	return out
}
