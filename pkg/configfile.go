package pkg

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/posops/termpick/pkg/core"
	"gopkg.in/yaml.v3"
)

const (
	RunnerModeProduction  = "production"
	RunnerModeDevelopment = "development"
)

// defaults applied by NewConfigFile when the file leaves them out
var (
	defaultProductionRunner  = []string{"robot"}
	defaultDevelopmentRunner = []string{"python", "-m", "robot.run"}
	defaultVersions          = []string{core.TrackV1, core.TrackV2}
	defaultDualLabel         = "V1+V2"
	defaultOutputRoot        = "results"

	// selected test names matching any of these never trigger the
	// merchant prompt
	defaultMerchantBlacklist = []string{"INCOMING", "AIAI", "AIFA", "QR"}
)

type RunnerConfig struct {
	Mode        string   `yaml:"mode,omitempty"`
	Production  []string `yaml:"production,omitempty"`
	Development []string `yaml:"development,omitempty"`
	Lister      []string `yaml:"lister,omitempty"`
}

// Prefix returns the runner invocation tokens for the configured mode.
func (r *RunnerConfig) Prefix() []string {
	if r.Mode == RunnerModeDevelopment {
		return r.Development
	}
	return r.Production
}

type VersionsConfig struct {
	Available []string `yaml:"available,omitempty"`
	DualLabel string   `yaml:"dual_label,omitempty"`
}

type CardConfig struct {
	PAN         string `yaml:"pan"`
	Expiry      string `yaml:"expiry,omitempty"`
	CVV1        string `yaml:"cvv1,omitempty"`
	CVV2        string `yaml:"cvv2,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type CardSets struct {
	OnUs  []CardConfig `yaml:"onus,omitempty"`
	OffUs []CardConfig `yaml:"offus,omitempty"`
}

type MerchantConfig struct {
	Org         string `yaml:"org,omitempty"`
	ID          string `yaml:"id"`
	Currency    string `yaml:"currency,omitempty"`
	Terminal    string `yaml:"terminal,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ConfigFile is the parsed and validated launcher configuration. One
// validating parse up front; lookups after that never surprise the
// business logic with missing structure.
type ConfigFile struct {
	Project           string                       `yaml:"project,omitempty"`
	OutputRoot        string                       `yaml:"output_root,omitempty"`
	EnvFile           string                       `yaml:"env_file,omitempty"`
	Runner            RunnerConfig                 `yaml:"runner,omitempty"`
	Versions          VersionsConfig               `yaml:"versions,omitempty"`
	Mapping           map[string]core.CombinedTest `yaml:"mapping,omitempty"`
	Cards             map[string]CardSets          `yaml:"cards,omitempty"`
	Merchants         map[string][]MerchantConfig  `yaml:"merchants,omitempty"`
	MerchantBlacklist []string                     `yaml:"merchant_blacklist,omitempty"`
	LoadedFrom        string                       `yaml:"-"`
}

func NewConfigFile(path string) (*ConfigFile, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	c := &ConfigFile{}
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, fmt.Errorf("cannot parse %v: %v", path, err)
	}
	c.LoadedFrom = expanded
	c.applyDefaults()

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %v: %v", path, err)
	}
	return c, nil
}

func (c *ConfigFile) applyDefaults() {
	if len(c.Runner.Production) == 0 {
		c.Runner.Production = defaultProductionRunner
	}
	if len(c.Runner.Development) == 0 {
		c.Runner.Development = defaultDevelopmentRunner
	}
	if c.Runner.Mode == "" {
		c.Runner.Mode = RunnerModeProduction
	}
	if len(c.Versions.Available) == 0 {
		c.Versions.Available = defaultVersions
	}
	if c.Versions.DualLabel == "" {
		c.Versions.DualLabel = defaultDualLabel
	}
	if c.OutputRoot == "" {
		c.OutputRoot = defaultOutputRoot
	}
}

func (c *ConfigFile) validate() error {
	if c.Runner.Mode != RunnerModeProduction && c.Runner.Mode != RunnerModeDevelopment {
		return fmt.Errorf("unknown runner mode %q", c.Runner.Mode)
	}
	for network, sets := range c.Cards {
		for _, card := range append(append([]CardConfig{}, sets.OnUs...), sets.OffUs...) {
			if card.PAN == "" {
				return fmt.Errorf("network %q has a card without a pan", network)
			}
		}
	}
	for version, merchants := range c.Merchants {
		for _, m := range merchants {
			if m.ID == "" {
				return fmt.Errorf("version %q has a merchant without an id", version)
			}
		}
	}
	return nil
}

// Catalog builds the session catalog for the active version. Merchant
// records only exist for single-version runs, so the version may be
// empty in dual mode.
func (c *ConfigFile) Catalog(version string) *core.Catalog {
	networks := map[string]core.NetworkCards{}
	for name, sets := range c.Cards {
		networks[name] = core.NetworkCards{
			OnUs:  toCardRecords(sets.OnUs),
			OffUs: toCardRecords(sets.OffUs),
		}
	}

	merchants := []core.MerchantRecord{}
	for _, m := range c.Merchants[version] {
		merchants = append(merchants, core.MerchantRecord{
			Org:         m.Org,
			ID:          m.ID,
			Currency:    m.Currency,
			Terminal:    m.Terminal,
			Description: m.Description,
		})
	}
	return core.NewCatalog(networks, merchants)
}

func toCardRecords(cards []CardConfig) []core.CardRecord {
	records := []core.CardRecord{}
	for _, c := range cards {
		records = append(records, core.CardRecord{
			PAN:         c.PAN,
			Expiry:      c.Expiry,
			CVV1:        c.CVV1,
			CVV2:        c.CVV2,
			Description: c.Description,
		})
	}
	return records
}

// BlacklistPatterns returns the merchant-prompt blacklist, falling back
// to the built-in patterns.
func (c *ConfigFile) BlacklistPatterns() []string {
	if len(c.MerchantBlacklist) > 0 {
		return c.MerchantBlacklist
	}
	return defaultMerchantBlacklist
}

// RunnerEnv returns the child process environment: the current one,
// optionally extended by the configured env_file.
func (c *ConfigFile) RunnerEnv() ([]string, error) {
	env := os.Environ()
	if c.EnvFile == "" {
		return env, nil
	}

	path, err := homedir.Expand(c.EnvFile)
	if err != nil {
		return nil, err
	}
	extra, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read env_file %v: %v", c.EnvFile, err)
	}
	for k, v := range extra {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env, nil
}
