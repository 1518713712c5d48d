// Package config собирает настройки клиента: значения по умолчанию,
// затем TOML-файл, затем переменные окружения.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultEngineAddr = "localhost:1099"
	DefaultEngineName = "FruitComputeEngine"
)

type Config struct {
	EngineAddr    string
	EngineName    string
	LookupTimeout time.Duration
	CallTimeout   time.Duration
	RedisAddr     string // пусто: без кэша
	CacheTTL      time.Duration
	MetricsAddr   string // пусто: метрики не отдаются
	LogLevel      string
}

type configFile struct {
	Engine struct {
		Addr          string `toml:"addr"`
		Name          string `toml:"name"`
		LookupTimeout string `toml:"lookup_timeout"`
		CallTimeout   string `toml:"call_timeout"`
	} `toml:"engine"`
	Cache struct {
		RedisAddr string `toml:"redis_addr"`
		TTL       string `toml:"ttl"`
	} `toml:"cache"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

func Default() Config {
	return Config{
		EngineAddr:    DefaultEngineAddr,
		EngineName:    DefaultEngineName,
		LookupTimeout: 2 * time.Second,
		CallTimeout:   5 * time.Second,
		CacheTTL:      5 * time.Minute,
		LogLevel:      "info",
	}
}

// Load берёт значения по умолчанию, накладывает TOML-файл path (если путь
// не пустой), затем переменные окружения FRUIT_*.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.apply(data); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var file configFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if file.Engine.Addr != "" {
		c.EngineAddr = file.Engine.Addr
	}
	if file.Engine.Name != "" {
		c.EngineName = file.Engine.Name
	}
	if err := setDuration(&c.LookupTimeout, "engine.lookup_timeout", file.Engine.LookupTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.CallTimeout, "engine.call_timeout", file.Engine.CallTimeout); err != nil {
		return err
	}
	if file.Cache.RedisAddr != "" {
		c.RedisAddr = file.Cache.RedisAddr
	}
	if err := setDuration(&c.CacheTTL, "cache.ttl", file.Cache.TTL); err != nil {
		return err
	}
	if file.Metrics.Addr != "" {
		c.MetricsAddr = file.Metrics.Addr
	}
	if file.Log.Level != "" {
		c.LogLevel = file.Log.Level
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"FRUIT_ENGINE_ADDR":  &c.EngineAddr,
		"FRUIT_ENGINE_NAME":  &c.EngineName,
		"FRUIT_REDIS_ADDR":   &c.RedisAddr,
		"FRUIT_METRICS_ADDR": &c.MetricsAddr,
		"FRUIT_LOG_LEVEL":    &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	durs := map[string]*time.Duration{
		"FRUIT_LOOKUP_TIMEOUT": &c.LookupTimeout,
		"FRUIT_CALL_TIMEOUT":   &c.CallTimeout,
		"FRUIT_CACHE_TTL":      &c.CacheTTL,
	}
	for key, dst := range durs {
		v, _ := lookup(key)
		if err := setDuration(dst, key, v); err != nil {
			return err
		}
	}
	return nil
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	*dst = d
	return nil
}
