// Package config 读取 YAML 格式的配置文件。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Decoder Decoder `yaml:"Decoder"`
	Cache   Cache   `yaml:"Cache"`
	Logging Logging `yaml:"Logging"`
	Metrics Metrics `yaml:"Metrics"`
}

type Decoder struct {
	Strict bool `yaml:"Strict"`
}

type Cache struct {
	// Size 为 0 表示不启用缓存。
	Size int `yaml:"Size"`
}

type Logging struct {
	Format string `yaml:"Format,omitempty"`
	Spec   string `yaml:"Spec,omitempty"`
}

// Metrics 的 Provider 可以是 "prometheus"、"statsd" 或 "disabled"。
type Metrics struct {
	Provider string `yaml:"Provider"`
	Statsd   Statsd `yaml:"Statsd,omitempty"`
}

type Statsd struct {
	Network       string        `yaml:"Network"`
	Address       string        `yaml:"Address"`
	WriteInterval time.Duration `yaml:"WriteInterval"`
	Prefix        string        `yaml:"Prefix,omitempty"`
}

// Default 返回不读取任何文件时使用的配置。
func Default() *Config {
	return &Config{
		Cache:   Cache{Size: 100},
		Logging: Logging{Format: "console", Spec: "info"},
		Metrics: Metrics{
			Provider: "disabled",
			Statsd: Statsd{
				Network:       "udp",
				Address:       "127.0.0.1:8125",
				WriteInterval: 10 * time.Second,
			},
		},
	}
}

// Load 在 Default 的基础上读取 path 指向的配置文件，文件中没有出现的字段保留默认值。
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading config file [%s]: %w", path, err)
	}

	conf := Default()
	if err = yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("failed unmarshaling config file [%s]: %w", path, err)
	}
	if err = conf.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file [%s]: %w", path, err)
	}
	return conf, nil
}

func (c *Config) validate() error {
	switch c.Metrics.Provider {
	case "prometheus", "disabled", "":
	case "statsd":
		if c.Metrics.Statsd.Address == "" {
			return fmt.Errorf("statsd address must be set")
		}
		if c.Metrics.Statsd.WriteInterval <= 0 {
			return fmt.Errorf("statsd write interval must be positive, but got %s", c.Metrics.Statsd.WriteInterval)
		}
	default:
		return fmt.Errorf("unknown metrics provider [%s]", c.Metrics.Provider)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must not be negative, but got %d", c.Cache.Size)
	}
	return nil
}
