package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config drives the sample pipeline. InputDir, OutputDir, SVGFile and Verbose
// can be overridden on the command line; Suffix and DrainDelayMS are set only
// through the config file.
type Config struct {
	InputDir     string `yaml:"input_dir"`
	OutputDir    string `yaml:"output_dir"`
	Suffix       string `yaml:"suffix"`
	SVGFile      string `yaml:"svg"`
	DrainDelayMS int    `yaml:"drain_delay_ms"`
	Verbose      bool   `yaml:"verbose"`
}

// DefaultConfig mirrors the defaults of the original detector app: read the
// current directory and write siblings tagged with a _modified suffix.
func DefaultConfig() Config {
	return Config{
		InputDir:     ".",
		OutputDir:    "",
		Suffix:       "_modified",
		DrainDelayMS: 500,
	}
}

// ConfigFromFile loads a yaml config, filling the blanks from the defaults.
func ConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to read config file %s", path)
	}
	err = yaml.Unmarshal(raw, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to parse config file %s", path)
	}
	if cfg.Suffix == "" {
		cfg.Suffix = "_modified"
	}
	if cfg.DrainDelayMS <= 0 {
		cfg.DrainDelayMS = 500
	}

	return cfg, nil
}

// DrainDelay returns the configured pause of the shutdown cascade.
func (c Config) DrainDelay() time.Duration {
	return time.Duration(c.DrainDelayMS) * time.Millisecond
}
