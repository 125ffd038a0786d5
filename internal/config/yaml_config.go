package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the toxshield.yaml file.
type YAMLConfig struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Observer   ObserverConfig   `yaml:"observer"`
}

// ClassifierConfig lists the analysis service endpoints in the order they are tried.
type ClassifierConfig struct {
	Endpoints []string      `yaml:"endpoints"`
	Timeout   time.Duration `yaml:"timeout"` // e.g. "8s"
}

// ObserverConfig tunes the per-tab automatic pass.
type ObserverConfig struct {
	SettleDelay   time.Duration `yaml:"settle_delay"`
	MinTextLength int           `yaml:"min_text_length"`
	MaxTextLength int           `yaml:"max_text_length"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "toxshield.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "toxshield.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	endpoints := cfg.Classifier.Endpoints[:0]
	for _, ep := range cfg.Classifier.Endpoints {
		if ep = strings.TrimSpace(ep); ep != "" {
			endpoints = append(endpoints, ep)
		}
	}
	cfg.Classifier.Endpoints = endpoints

	return &cfg, nil
}

