// internal/config/config.go
package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

type Config struct {
	DatasetDir   string `yaml:"dataset_dir"`
	Collection   string `yaml:"collection"`
	ManifestPath string `yaml:"manifest_path"`
	CreditsPath  string `yaml:"credits_path"`
	RockInfoPath string `yaml:"rockinfo_path"`
	DeckSize     int    `yaml:"deck_size"`
	Server       struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Fetch struct {
		Limit        int    `yaml:"limit"`
		QuerySuffix  string `yaml:"query_suffix"`
		MaxDimension int    `yaml:"max_dimension"`
	} `yaml:"fetch"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DatasetDir == "" {
		cfg.DatasetDir = "./rock_images"
	}
	if cfg.Collection == "" {
		cfg.Collection = "rock_images"
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = "./manifest.json"
	}
	if cfg.CreditsPath == "" {
		cfg.CreditsPath = "./credits.json"
	}
	if cfg.RockInfoPath == "" {
		cfg.RockInfoPath = "./rock_definitions.json"
	}
	if cfg.DeckSize == 0 {
		cfg.DeckSize = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Fetch.Limit == 0 {
		cfg.Fetch.Limit = 10
	}
	if cfg.Fetch.QuerySuffix == "" {
		cfg.Fetch.QuerySuffix = "rock sample"
	}
	if cfg.Fetch.MaxDimension == 0 {
		cfg.Fetch.MaxDimension = 1600
	}
}
