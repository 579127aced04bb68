package pkg

import (
	"testing"

	"github.com/alecthomas/assert"
	"github.com/posops/termpick/pkg/core"
	"github.com/samber/lo"
)

func TestNewConfigFile(t *testing.T) {
	c, err := NewConfigFile("../fixtures/termpick.yml")
	assert.NoError(t, err)

	assert.Equal(t, c.Project, "terminal-lab")
	assert.Equal(t, c.OutputRoot, "lab-results")
	assert.Equal(t, c.Runner.Prefix(), []string{"python", "-m", "robot.run"})
	assert.Equal(t, c.Runner.Lister, []string{"robot-lister"})
	assert.Equal(t, c.Versions.DualLabel, "V1+V2")
	assert.Equal(t, c.Mapping["Combined Auth"], core.CombinedTest{V1: "AUAI Onus", V2: "AUAI Offus"})
	assert.Equal(t, c.Mapping["V1 Only Flow"], core.CombinedTest{V1: "CAI Onus"})
}

func TestNewConfigFileDefaults(t *testing.T) {
	c, err := NewConfigFile("../fixtures/minimal.yml")
	assert.NoError(t, err)

	assert.Equal(t, c.Runner.Mode, RunnerModeProduction)
	assert.Equal(t, c.Runner.Prefix(), []string{"robot"})
	assert.Equal(t, c.Versions.Available, []string{"V1", "V2"})
	assert.Equal(t, c.Versions.DualLabel, "V1+V2")
	assert.Equal(t, c.OutputRoot, "results")
	assert.Equal(t, c.BlacklistPatterns(), []string{"INCOMING", "AIAI", "AIFA", "QR"})
}

func TestNewConfigFileValidation(t *testing.T) {
	_, err := NewConfigFile("../fixtures/bad-card.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "without a pan")
}

func TestNewConfigFileMissing(t *testing.T) {
	_, err := NewConfigFile("../fixtures/no-such-file.yml")
	assert.Error(t, err)
}

func TestConfigCatalogPerVersion(t *testing.T) {
	c, err := NewConfigFile("../fixtures/termpick.yml")
	assert.NoError(t, err)

	catalog := c.Catalog("V1")
	cards, err := catalog.Cards("visa", false)
	assert.NoError(t, err)
	assert.Equal(t, cards[0].PAN, "4761739001010010")

	ms := catalog.Merchants()
	assert.Equal(t, len(ms), 1)
	assert.Equal(t, ms[0].ID, "MERCH01")

	catalog = c.Catalog("V2")
	assert.Equal(t, catalog.Merchants()[0].ID, "MERCH02")

	// dual mode builds the catalog without an active version
	catalog = c.Catalog("")
	assert.Equal(t, len(catalog.Merchants()), 0)
}

func TestConfigBlacklistOverride(t *testing.T) {
	c := testConfig()
	c.MerchantBlacklist = []string{"SETTLEMENT"}
	assert.Equal(t, c.BlacklistPatterns(), []string{"SETTLEMENT"})
}

func TestConfigRunnerEnv(t *testing.T) {
	c, err := NewConfigFile("../fixtures/termpick.yml")
	assert.NoError(t, err)

	env, err := c.RunnerEnv()
	assert.NoError(t, err)
	assert.True(t, lo.Contains(env, "TERM_LAB=1"))
	assert.True(t, lo.Contains(env, "LAB_BAUD=115200"))
}

func TestConfigRunnerEnvWithoutFile(t *testing.T) {
	c := testConfig()
	env, err := c.RunnerEnv()
	assert.NoError(t, err)
	assert.True(t, len(env) > 0)
}
