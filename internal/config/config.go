// Package config loads the tool's settings. Values come from an optional YAML file
// and are overridden by CODEC_ environment variables (CODEC_LOG__LEVEL=debug sets
// log.level).
package config

import (
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvPrefix = "CODEC_"
	// PathEnv names the variable holding the config file path.
	PathEnv = EnvPrefix + "CONFIG"

	DefaultMaxDepth = 16
)

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type PipelineCfg struct {
	// MaxDepth bounds how deeply sub-pipelines may nest.
	MaxDepth int `koanf:"max_depth"`
}

type MetricsCfg struct {
	Textfile string `koanf:"textfile"`
}

type GraphCfg struct {
	DOTFile string `koanf:"dot_file"`
}

type Config struct {
	Log      LogCfg      `koanf:"log"`
	Pipeline PipelineCfg `koanf:"pipeline"`
	Metrics  MetricsCfg  `koanf:"metrics"`
	Graph    GraphCfg    `koanf:"graph"`
}

// Load merges the YAML file at path (if present) with the environment.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "unable to load %s", path)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to load environment")
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to decode config")
	}

	applyDefaults(&cfg)

	return cfg, nil
}

// LoadFromEnv loads the file named by CODEC_CONFIG.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv(PathEnv))
}

func applyDefaults(c *Config) {
	if c.Pipeline.MaxDepth <= 0 {
		c.Pipeline.MaxDepth = DefaultMaxDepth
	}

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}
