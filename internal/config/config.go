package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "daytodo"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "daytodo.db"
	DefaultLogName        = "daytodo.log"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	PrevDay        string `toml:"prev_day"`
	NextDay        string `toml:"next_day"`
	Today          string `toml:"today"`
	FilterPriority string `toml:"filter_priority"`
	FilterCategory string `toml:"filter_category"`
	CyclePriority  string `toml:"cycle_priority"`
	CycleCategory  string `toml:"cycle_category"`
	Weather        string `toml:"weather"`
	Theme          string `toml:"theme"`
	ClearAll       string `toml:"clear_all"`
}

type Config struct {
	Backend         string `toml:"backend"`
	DBPath          string `toml:"db_path"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPrefix     string `toml:"redis_prefix"`
	LogPath         string `toml:"log_path"`
	WeatherLocation string `toml:"weather_location"`
	DefaultPriority string `toml:"default_priority"`
	DefaultCategory string `toml:"default_category"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath returns $DAYTODO_CONFIG or the file under the user config directory.
func ResolveConfigPath() string {
	if path := os.Getenv("DAYTODO_CONFIG"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.resolvePaths(path)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()
	cfg.resolvePaths(path)
	return cfg, cfg.Validate()
}

// LoadEnv reads an optional .env file and applies DAYTODO_* overrides on top of cfg.
func LoadEnv(cfg *Config, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	ApplyEnv(cfg)
	return cfg.Validate()
}

func ApplyEnv(cfg *Config) {
	cfg.Backend = getEnv("DAYTODO_BACKEND", cfg.Backend)
	cfg.DBPath = getEnv("DAYTODO_DB_PATH", cfg.DBPath)
	cfg.RedisAddr = getEnv("DAYTODO_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPrefix = getEnv("DAYTODO_REDIS_PREFIX", cfg.RedisPrefix)
	cfg.LogPath = getEnv("DAYTODO_LOG_PATH", cfg.LogPath)
	cfg.WeatherLocation = getEnv("DAYTODO_WEATHER_LOCATION", cfg.WeatherLocation)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("db_path must not be empty for the sqlite backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr must not be empty for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, redis or memory)", c.Backend)
	}
	return nil
}

func Save(path string, cfg Config) error {
	return write(path, cfg)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// resolvePaths makes relative data paths relative to the config file's directory.
func (c *Config) resolvePaths(configPath string) {
	dir := filepath.Dir(configPath)
	if c.DBPath != "" && c.DBPath != ":memory:" && !strings.HasPrefix(c.DBPath, "file:") && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.RedisAddr == "" {
		c.RedisAddr = def.RedisAddr
	}
	if c.RedisPrefix == "" {
		c.RedisPrefix = def.RedisPrefix
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.WeatherLocation == "" {
		c.WeatherLocation = def.WeatherLocation
	}
	if c.DefaultPriority == "" {
		c.DefaultPriority = def.DefaultPriority
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = def.DefaultCategory
	}
	fillKeys(&c.Keys, def.Keys)
}

func fillKeys(k *Keymap, def Keymap) {
	pairs := []struct {
		dst *string
		def string
	}{
		{&k.Quit, def.Quit},
		{&k.Add, def.Add},
		{&k.Up, def.Up},
		{&k.Down, def.Down},
		{&k.Toggle, def.Toggle},
		{&k.Delete, def.Delete},
		{&k.Edit, def.Edit},
		{&k.Confirm, def.Confirm},
		{&k.Cancel, def.Cancel},
		{&k.PrevDay, def.PrevDay},
		{&k.NextDay, def.NextDay},
		{&k.Today, def.Today},
		{&k.FilterPriority, def.FilterPriority},
		{&k.FilterCategory, def.FilterCategory},
		{&k.CyclePriority, def.CyclePriority},
		{&k.CycleCategory, def.CycleCategory},
		{&k.Weather, def.Weather},
		{&k.Theme, def.Theme},
		{&k.ClearAll, def.ClearAll},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = p.def
		}
	}
}

func Default() Config {
	return Config{
		Backend:         BackendSQLite,
		DBPath:          DefaultDBName,
		RedisAddr:       "127.0.0.1:6379",
		RedisPrefix:     AppName,
		LogPath:         DefaultLogName,
		WeatherLocation: "창원시",
		DefaultPriority: "normal",
		DefaultCategory: "personal",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Edit:           "e",
			Confirm:        "enter",
			Cancel:         "esc",
			PrevDay:        "h",
			NextDay:        "l",
			Today:          "t",
			FilterPriority: "p",
			FilterCategory: "c",
			CyclePriority:  "tab",
			CycleCategory:  "shift+tab",
			Weather:        "w",
			Theme:          "m",
			ClearAll:       "X",
		},
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
