package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root     string `yaml:"root"`
		Language string `yaml:"language"` // source language of the scanned codebase
	} `yaml:"project"`
	Index struct {
		DBPath       string `yaml:"db_path"`
		SnapshotPath string `yaml:"snapshot_path"` // optional JSON export of the registry
	} `yaml:"index"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Project.Root = "."
	cfg.Project.Language = "java"
	cfg.Index.DBPath = "typelens.db"
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if root := os.Getenv("TYPELENS_PROJECT_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if dbPath := os.Getenv("TYPELENS_DB_PATH"); dbPath != "" {
		cfg.Index.DBPath = dbPath
	}
	if snapshot := os.Getenv("TYPELENS_SNAPSHOT_PATH"); snapshot != "" {
		cfg.Index.SnapshotPath = snapshot
	}
}
