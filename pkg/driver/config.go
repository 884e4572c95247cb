package driver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/report"
)

// Config is the run configuration, loaded from a YAML file and
// overridable by command-line flags.
type Config struct {
	// Registry is the path to the API registry XML file.
	Registry string `yaml:"registry"`

	// Family selects the registry family ("openxr" by default), which
	// determines macro/category registrations and the system type set.
	Family string `yaml:"family"`

	// Documents are doublestar glob patterns selecting the document
	// set to scan.
	Documents []string `yaml:"documents"`

	// Exclude are glob patterns removing documents from the set.
	Exclude []string `yaml:"exclude"`

	// Enable and Disable adjust the default enabled message set.
	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`

	// Jobs bounds concurrent document scans; 0 means one per CPU.
	Jobs int `yaml:"jobs"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// EnabledIDs computes the effective enabled message set: the family
// defaults, plus Enable, minus Disable.
func (c *Config) EnabledIDs() (map[report.MessageID]bool, error) {
	family := c.Family
	if family == "" {
		family = "openxr"
	}
	enabled := report.DefaultEnabled(family)
	for _, name := range c.Enable {
		id, err := report.ParseMessageID(name)
		if err != nil {
			return nil, err
		}
		if !id.AppliesTo(family) {
			return nil, fmt.Errorf("message id %s does not apply to the %s family", id, family)
		}
		enabled[id] = true
	}
	for _, name := range c.Disable {
		id, err := report.ParseMessageID(name)
		if err != nil {
			return nil, err
		}
		delete(enabled, id)
	}
	return enabled, nil
}
