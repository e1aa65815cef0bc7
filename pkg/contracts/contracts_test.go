package contracts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

const sampleList = `Bank,reentrancy;timedependency,https://example.org/bank.sol
Lottery,numberdependency,https://example.org/lottery.sol
Wallet,,https://example.org/wallet.sol
Proxy, delegatecall_dangerous ; gasless_send ,https://example.org/proxy.sol
`

func TestParse(t *testing.T) {
	list, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, "Bank", list[0].Name)
	assert.Equal(t, model.NewVulnerabilitySet(model.Reentrancy, model.TimestampDependency), list[0].Vulnerabilities)
	assert.Equal(t, "https://example.org/bank.sol", list[0].Link)

	assert.Empty(t, list[2].Vulnerabilities)
	assert.Equal(t, model.NewVulnerabilitySet(model.Delegate, model.GaslessSend), list[3].Vulnerabilities)
}

func TestParseRejectsUnknownTag(t *testing.T) {
	_, err := Parse(strings.NewReader("Bank,reentrancy;overflow,link\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownVulnerability))
	assert.Contains(t, err.Error(), "line 1")
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse(strings.NewReader("Bank,reentrancy,a\nBank,,b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate contract")
}

func TestParseWithoutLinkColumn(t *testing.T) {
	list, err := Parse(strings.NewReader("Bank,reentrancy\n"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Link)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "contracts.csv"))
	assert.ErrorIs(t, err, ErrContractsNotFound)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleList), 0o644))

	list, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, 1, Declaring(list, model.Reentrancy))
	assert.Equal(t, 0, Declaring(list, model.ExceptionDisorder))
}

func TestCohorts(t *testing.T) {
	list, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)

	reentrant := WithVulnerability(list, model.Reentrancy)
	assert.Equal(t, "reentrancy", reentrant.Name)
	assert.Equal(t, []string{"Bank"}, model.ContractNames(reentrant.Contracts))

	byVuln := ByVulnerability(list)
	names := make([]string, 0, len(byVuln))
	for _, c := range byVuln {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"delegate", "gasless-send", "number-dependency", "reentrancy", "timestamp-dependency"}, names)
}

func TestByCluster(t *testing.T) {
	list, err := Parse(strings.NewReader(sampleList))
	require.NoError(t, err)

	clusters, err := ParseClusters(strings.NewReader("Bank,2\nWallet,1\nLottery,2\nUnknown,3\n"))
	require.NoError(t, err)

	cohorts := ByCluster(list, clusters)
	require.Len(t, cohorts, 2)
	assert.Equal(t, "cluster_1", cohorts[0].Name)
	assert.Equal(t, []string{"Wallet"}, model.ContractNames(cohorts[0].Contracts))
	assert.Equal(t, "cluster_2", cohorts[1].Name)
	assert.Equal(t, []string{"Bank", "Lottery"}, model.ContractNames(cohorts[1].Contracts))
}

func TestParseClustersRejectsEmptyCells(t *testing.T) {
	_, err := ParseClusters(strings.NewReader("Bank,\n"))
	assert.Error(t, err)
}
