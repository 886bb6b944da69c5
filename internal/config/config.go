package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ticketdesk/internal/format"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TICKETDESK_"

type Config struct {
	// BaseURL is the ticket API root, e.g. http://localhost:8080.
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Token   string        `yaml:"token,omitempty" json:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// RowsPerPage is the table page size in the TUI.
	RowsPerPage int `yaml:"rows_per_page" json:"rows_per_page"`
	// LoadLimit is the single-request fetch size used to load "all" tickets.
	LoadLimit int `yaml:"load_limit" json:"load_limit"`

	// Format is the default CLI output format (json|text|html).
	Format string `yaml:"format" json:"format"`

	LogFile  string `yaml:"log_file" json:"log_file"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	ServeAddr string `yaml:"serve_addr" json:"serve_addr"`
	ServeDB   string `yaml:"serve_db" json:"serve_db"`
}

func Default() Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return Config{
		BaseURL:     "http://localhost:8080",
		Timeout:     30 * time.Second,
		RowsPerPage: 20,
		LoadLimit:   10000,
		Format:      "json",
		LogFile:     filepath.Join(dir, "ticketdesk.log"),
		LogLevel:    "info",
		ServeAddr:   "127.0.0.1:8080",
		ServeDB:     filepath.Join(dir, "tickets.sqlite"),
	}
}

// Dir is the per-user config directory.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests away from the real home dir).
	if v := strings.TrimSpace(os.Getenv(envPrefix + "CONFIG_DIR")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "ticketdesk"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load layers defaults, the YAML config file, a .env file in the working
// directory and TICKETDESK_* environment variables, in that order.
// Missing files are not an error.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if err := loadFile(path, &cfg); err != nil {
		return cfg, err
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"BASE_URL":   &cfg.BaseURL,
		"TOKEN":      &cfg.Token,
		"FORMAT":     &cfg.Format,
		"LOG_FILE":   &cfg.LogFile,
		"LOG_LEVEL":  &cfg.LogLevel,
		"SERVE_ADDR": &cfg.ServeAddr,
		"SERVE_DB":   &cfg.ServeDB,
	}
	for k, p := range strs {
		if v, ok := os.LookupEnv(envPrefix + k); ok {
			*p = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"ROWS_PER_PAGE": &cfg.RowsPerPage,
		"LOAD_LIMIT":    &cfg.LoadLimit,
	}
	for k, p := range ints {
		v, ok := os.LookupEnv(envPrefix + k)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, k, err)
		}
		*p = n
	}

	if v, ok := os.LookupEnv(envPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Validate reports settings the client cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base_url is empty")
	}
	if c.RowsPerPage <= 0 {
		return fmt.Errorf("rows_per_page must be positive, got %d", c.RowsPerPage)
	}
	if c.LoadLimit <= 0 {
		return fmt.Errorf("load_limit must be positive, got %d", c.LoadLimit)
	}
	if err := format.Check(c.Format); err != nil {
		return err
	}
	return nil
}

// Save writes cfg to the config file, replacing it atomically.
func Save(cfg Config) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	// The file may hold a token.
	return path, atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
