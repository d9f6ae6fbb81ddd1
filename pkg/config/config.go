package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is a netscan-config.yaml catalog helper implementation
type Config struct {
	ConfigVersion string     `yaml:"version"`
	Scan          ConfigScan `yaml:"scan"`
}

type ConfigScan struct {
	Timeout     int    `yaml:"timeout"`     // milliseconds
	Concurrency int    `yaml:"concurrency"` // worker pool size
	Proxy       string `yaml:"proxy"`
	History     bool   `yaml:"history"` // keep results in the local database
}

const netscanConfigFilename = ".netscan-config.yaml"

// Version of the scan engine, shown in the banner.
const Version = "1.0.0"

// NewConfig loads the user configuration, creating the file with
// defaults on first run.
func NewConfig() (*Config, error) {
	if config, err := ReadConfiguration(); err == nil {
		return config, nil
	}

	c := &Config{}
	c.ConfigVersion = Version
	c.Scan.Timeout = DefaultTimeout
	c.Scan.Concurrency = DefaultConcurrency

	if err := WriteConfiguration(c); err != nil {
		return nil, err
	}
	return ReadConfiguration()
}

func getConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not get home directory")
	}
	configDir := filepath.Join(homeDir, ".config", "netscan")
	_ = os.MkdirAll(configDir, 0755)
	netscanConfigFile := filepath.Join(configDir, netscanConfigFilename)
	return netscanConfigFile, nil
}

// ReadConfiguration reads the netscan configuration file from disk.
func ReadConfiguration() (*Config, error) {
	netscanConfigFile, err := getConfigFile()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(netscanConfigFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &Config{}
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteConfiguration writes the updated netscan configuration to disk
func WriteConfiguration(config *Config) error {
	netscanConfigYAML, err := yaml.Marshal(&config)
	if err != nil {
		return err
	}

	netscanConfigFile, err := getConfigFile()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(netscanConfigFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(netscanConfigYAML); err != nil {
		return err
	}
	return nil
}
