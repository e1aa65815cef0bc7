package contracts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

var ErrContractsNotFound = errors.New("contract list not found")

const (
	nameColumn            = 0
	vulnerabilitiesColumn = 1
	linkColumn            = 2
)

// Load reads the contract list: one contract per row with columns name,
// ';'-separated raw vulnerability tags and source link.
func Load(path string) ([]model.Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (download the contracts first)", ErrContractsNotFound, path)
		}
		return nil, fmt.Errorf("open contract list: %w", err)
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

func Parse(r io.Reader) ([]model.Contract, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var list []model.Contract
	seen := make(map[string]bool)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read contract list: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(row) <= vulnerabilitiesColumn {
			return nil, fmt.Errorf("line %d: expected at least 2 columns, got %d", line, len(row))
		}
		name := strings.TrimSpace(row[nameColumn])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty contract name", line)
		}
		if seen[name] {
			return nil, fmt.Errorf("line %d: duplicate contract %q", line, name)
		}
		seen[name] = true

		vulns, err := parseTags(row[vulnerabilitiesColumn])
		if err != nil {
			return nil, fmt.Errorf("line %d: contract %q: %w", line, name, err)
		}

		c := model.Contract{Name: name, Vulnerabilities: vulns}
		if len(row) > linkColumn {
			c.Link = strings.TrimSpace(row[linkColumn])
		}
		list = append(list, c)
	}
	return list, nil
}

func parseTags(column string) (model.VulnerabilitySet, error) {
	set := model.NewVulnerabilitySet()
	for _, raw := range strings.Split(column, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := model.ParseRawTag(raw)
		if err != nil {
			return nil, err
		}
		set[v] = struct{}{}
	}
	return set, nil
}

// Declaring returns how many contracts declare v.
func Declaring(list []model.Contract, v model.Vulnerability) int {
	n := 0
	for _, c := range list {
		if c.Declares(v) {
			n++
		}
	}
	return n
}
