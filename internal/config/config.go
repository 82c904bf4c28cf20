package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
)

// FileNames are the configuration file names searched for, in order of preference
var FileNames = []string{"astgen.json", "astgen.toml"}

// Config represents the astgen.json (or astgen.toml) configuration file
type Config struct {
	Name      string      `json:"name" toml:"name"`
	Schema    []string    `json:"schema" toml:"schema"`
	Output    string      `json:"output" toml:"output"`
	License   string      `json:"license,omitempty" toml:"license,omitempty"`
	Namespace string      `json:"namespace,omitempty" toml:"namespace,omitempty"`
	Module    string      `json:"module,omitempty" toml:"module,omitempty"`
	Targets   []string    `json:"targets" toml:"targets"`
	Watch     WatchConfig `json:"watch" toml:"watch"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Include []string `json:"include" toml:"include"`
	Exclude []string `json:"exclude" toml:"exclude"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// New returns the default configuration of the named project
func New(name string) *Config {
	c := &Config{Name: name}
	c.applyDefaults()
	return c
}

// LoadConfig loads the configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadConfigFromDir(dir)
}

// LoadConfigFromPath loads a configuration file; the format follows the extension
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadConfigFromDir searches for a configuration file in the given directory and its parents
func LoadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no %s found in %s or any parent directory", strings.Join(FileNames, " or "), startDir)
}

// Resolve makes the relative paths of the configuration relative to dir
func (c *Config) Resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	for i, s := range c.Schema {
		c.Schema[i] = abs(s)
	}
	c.Output = abs(c.Output)
	c.License = abs(c.License)
}

// Marshal encodes the configuration as indented JSON
func (c *Config) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the configuration as indented JSON
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Schema) == 0 {
		c.Schema = []string{"./schema"}
	}
	if c.Output == "" {
		c.Output = "./generated"
	}
	if len(c.Targets) == 0 {
		c.Targets = []string{"cpp"}
	}
	if c.Module == "" && c.Name != "" {
		c.Module = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(c.Name)
	}
	if len(c.Watch.Include) == 0 {
		c.Watch.Include = []string{"*.json", "*.yaml", "*.yml", "*.graphql", "*.gql"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{".*", "*~", "*.swp"}
	}
}
