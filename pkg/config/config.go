package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/ghodss/yaml"
)

const (
	// DefaultPollInitialMs is the first poll interval used when none is
	// configured.
	DefaultPollInitialMs = 500

	// DefaultPollCeilingMs bounds how far apart poll ticks can get.
	DefaultPollCeilingMs = 5000
)

// Config represents the configuration for a kubeterm session.
type Config struct {
	// KubectlPath is the binary used for Kubernetes operations.
	//
	// Optional, defaults to "kubectl".
	KubectlPath string `json:"kubectlPath"`

	// HelmPath is the binary used for chart operations.
	//
	// Optional, defaults to "helm".
	HelmPath string `json:"helmPath"`

	// CloudPath is the binary used for cloud-provider operations.
	//
	// Optional, defaults to "cloudctl".
	CloudPath string `json:"cloudPath"`

	// Namespace is the namespace assumed when a command doesn't set one.
	//
	// Optional, defaults to "default".
	Namespace string `json:"namespace"`

	// PollInitialMs is the first interval, in milliseconds, between status
	// polls after a create/apply/delete.
	//
	// Optional, defaults to 500.
	PollInitialMs int `json:"pollInitialMs"`

	// PollCeilingMs is the maximum interval, in milliseconds, between
	// status polls. It bounds the worst-case query volume for
	// long-running operations.
	//
	// Optional, defaults to 5000.
	PollCeilingMs int `json:"pollCeilingMs"`

	// Aliases are user-defined command templates, keyed by the alias
	// name. Templates are rendered with sprig functions; see pkg/shell.
	//
	// Optional.
	Aliases map[string]string `json:"aliases"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Load reads a config from the argument path.
func Load(path string) (*Config, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("Error parsing config %s: %+v", path, err)
	}

	config.applyDefaults()
	return config, nil
}

// LoadDefault loads the config from ~/.config/kubeterm/config.yaml, falling
// back to defaults if the file doesn't exist.
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}

	path := filepath.Join(home, ".config", "kubeterm", "config.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// PollInitial returns the initial poll interval as a duration.
func (c *Config) PollInitial() time.Duration {
	return time.Duration(c.PollInitialMs) * time.Millisecond
}

// PollCeiling returns the poll interval ceiling as a duration.
func (c *Config) PollCeiling() time.Duration {
	return time.Duration(c.PollCeilingMs) * time.Millisecond
}

func (c *Config) applyDefaults() {
	if c.KubectlPath == "" {
		c.KubectlPath = "kubectl"
	}
	if c.HelmPath == "" {
		c.HelmPath = "helm"
	}
	if c.CloudPath == "" {
		c.CloudPath = "cloudctl"
	}
	if c.Namespace == "" {
		c.Namespace = "default"
	}
	if c.PollInitialMs <= 0 {
		c.PollInitialMs = DefaultPollInitialMs
	}
	if c.PollCeilingMs <= 0 {
		c.PollCeilingMs = DefaultPollCeilingMs
	}
}
