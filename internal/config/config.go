package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "myday.db"
	DefaultLogName        = "myday.log"
	DefaultStorageKey     = "mydayTasks"
	EnvConfigPath         = "MYDAY_CONFIG"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Keymap struct {
	Quit           string `toml:"quit" yaml:"quit"`
	Add            string `toml:"add" yaml:"add"`
	Up             string `toml:"up" yaml:"up"`
	Down           string `toml:"down" yaml:"down"`
	Toggle         string `toml:"toggle" yaml:"toggle"`
	Star           string `toml:"star" yaml:"star"`
	Delete         string `toml:"delete" yaml:"delete"`
	Confirm        string `toml:"confirm" yaml:"confirm"`
	Cancel         string `toml:"cancel" yaml:"cancel"`
	Edit           string `toml:"edit" yaml:"edit"`
	Search         string `toml:"search" yaml:"search"`
	FilterStatus   string `toml:"filter_status" yaml:"filter_status"`
	FilterPriority string `toml:"filter_priority" yaml:"filter_priority"`
	FilterCategory string `toml:"filter_category" yaml:"filter_category"`
	NextPage       string `toml:"next_page" yaml:"next_page"`
	PrevPage       string `toml:"prev_page" yaml:"prev_page"`
}

type Redis struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

type Config struct {
	Backend       string `toml:"backend" yaml:"backend"`
	DBPath        string `toml:"db_path" yaml:"db_path"`
	Redis         Redis  `toml:"redis" yaml:"redis"`
	StorageKey    string `toml:"storage_key" yaml:"storage_key"`
	DefaultPage   string `toml:"default_page" yaml:"default_page"`
	DefaultFilter string `toml:"default_filter" yaml:"default_filter"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFile       string `toml:"log_file" yaml:"log_file"`
	Keys          Keymap `toml:"keys" yaml:"keys"`
}

// ResolveConfigPath picks the config file: $MYDAY_CONFIG, else
// <user config dir>/myday/config.toml, else ./config.toml.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "myday", DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Relative db and log paths are resolved against the config directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := unmarshal(path, data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg.resolve(path), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return toml.Unmarshal(data, cfg)
}

func write(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = toml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	d := defaultConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = d.Redis.Addr
	}
	if c.StorageKey == "" {
		c.StorageKey = d.StorageKey
	}
	if c.DefaultPage == "" {
		c.DefaultPage = d.DefaultPage
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = d.DefaultFilter
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
	c.Keys.fillDefaults(d.Keys)
}

func (k *Keymap) fillDefaults(d Keymap) {
	fields := []struct {
		dst *string
		def string
	}{
		{&k.Quit, d.Quit}, {&k.Add, d.Add}, {&k.Up, d.Up}, {&k.Down, d.Down},
		{&k.Toggle, d.Toggle}, {&k.Star, d.Star}, {&k.Delete, d.Delete},
		{&k.Confirm, d.Confirm}, {&k.Cancel, d.Cancel}, {&k.Edit, d.Edit},
		{&k.Search, d.Search}, {&k.FilterStatus, d.FilterStatus},
		{&k.FilterPriority, d.FilterPriority}, {&k.FilterCategory, d.FilterCategory},
		{&k.NextPage, d.NextPage}, {&k.PrevPage, d.PrevPage},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) && !strings.HasPrefix(c.DBPath, "file:") {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogFile != "" && c.LogFile != "stderr" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(dir, c.LogFile)
	}
	return c
}

func defaultConfig() Config {
	return Config{
		Backend:       BackendSQLite,
		DBPath:        DefaultDBName,
		Redis:         Redis{Addr: "localhost:6379"},
		StorageKey:    DefaultStorageKey,
		DefaultPage:   "my-day",
		DefaultFilter: "all",
		LogLevel:      "info",
		LogFile:       DefaultLogName,
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Star:           "s",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			Search:         "/",
			FilterStatus:   "f",
			FilterPriority: "p",
			FilterCategory: "c",
			NextPage:       "tab",
			PrevPage:       "shift+tab",
		},
	}
}
