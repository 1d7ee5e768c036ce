package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Neo4jURI      string `toml:"neo4j_uri"`
	Neo4jUser     string `toml:"neo4j_user"`
	Neo4jPassword string `toml:"neo4j_password"`
	BatchSize     int    `toml:"batch_size"`
	QueueSize     int    `toml:"queue_size"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Neo4jURI:      "bolt://localhost:7687",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
		BatchSize:     100,
		QueueSize:     16,
	}

	cfgPath := filepath.Join(home, ".config", "chatgraph", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// environment wins over the file for store credentials
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Neo4jURI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Neo4jUser = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4jPassword = v
	}

	return cfg, nil
}
