package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sacsbd/sacs-tui/internal/util"
)

// Defaults applied to server profiles that leave a field unset.
const (
	DefaultTimeout           = 10 * time.Second
	DefaultRefreshInterval   = 30 * time.Second
	DefaultAnimationDuration = time.Second
	DefaultKPIsPath          = "/dashboard/kpis-api/"
	DefaultMetricsPath       = "/dashboard/api/metrics/"
)

// DefaultKPIs are the counters shown when a profile does not list any.
var DefaultKPIs = []string{"users", "sessions", "backups"}

// Config is the top-level configuration.
type Config struct {
	LogFile string                  `toml:"log_file"`
	Servers map[string]ServerConfig `toml:"servers"`
}

// ServerConfig holds connection and display settings for one SACS_BD server.
type ServerConfig struct {
	BaseURL            string          `toml:"base_url"`
	SessionID          string          `toml:"session_id"`
	CSRFToken          string          `toml:"csrf_token"`
	InsecureSkipVerify bool            `toml:"insecure_skip_verify"`
	Timeout            time.Duration   `toml:"timeout"`
	RefreshInterval    time.Duration   `toml:"refresh_interval"`
	AnimationDuration  time.Duration   `toml:"animation_duration"`
	KPIsPath           string          `toml:"kpis_path"`
	MetricsPath        string          `toml:"metrics_path"`
	KPIs               []string        `toml:"kpis"`
	NotifyFailures     bool            `toml:"notify_failures"`
	Operator           *OperatorConfig `toml:"operator"`
}

// OperatorConfig identifies who is on call for a server. Shown in the header.
type OperatorConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
	Phone string `toml:"phone"`
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return dir
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	return filepath.Join(configDir(), "sacs-tui", "config.toml")
}

// DefaultLogFile returns the log path used when log_file is not set.
func DefaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "sacs-tui", "sacs-tui.log")
}

// LoadFrom reads and parses the config file at the given path.
// It applies defaults and validates every server profile after parsing.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config has no servers defined")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile()
	}
	cfg.LogFile = expandPath(cfg.LogFile)

	for name, server := range cfg.Servers {
		server.applyDefaults()
		if err := server.validate(); err != nil {
			return nil, fmt.Errorf("server %q: %w", name, err)
		}
		cfg.Servers[name] = server
	}
	return &cfg, nil
}

func (s *ServerConfig) applyDefaults() {
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	s.SessionID = os.ExpandEnv(s.SessionID)
	s.CSRFToken = os.ExpandEnv(s.CSRFToken)
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
	if s.RefreshInterval == 0 {
		s.RefreshInterval = DefaultRefreshInterval
	}
	if s.AnimationDuration == 0 {
		s.AnimationDuration = DefaultAnimationDuration
	}
	if s.KPIsPath == "" {
		s.KPIsPath = DefaultKPIsPath
	}
	if s.MetricsPath == "" {
		s.MetricsPath = DefaultMetricsPath
	}
	if len(s.KPIs) == 0 {
		s.KPIs = append([]string(nil), DefaultKPIs...)
	}
}

func (s *ServerConfig) validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", u.Scheme)
	}
	if s.RefreshInterval < 0 || s.AnimationDuration < 0 || s.Timeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if op := s.Operator; op != nil {
		if op.Email != "" && !util.IsValidEmail(op.Email) {
			return fmt.Errorf("operator email %q is not valid", op.Email)
		}
		if op.Phone != "" && !util.IsValidPhone(op.Phone) {
			return fmt.Errorf("operator phone %q is not valid", op.Phone)
		}
	}
	return nil
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}

// ServerNames returns the sorted list of server profile names.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the profile to use. An empty name is allowed only when
// exactly one profile is configured.
func (c *Config) Select(name string) (string, ServerConfig, error) {
	if name == "" {
		names := c.ServerNames()
		if len(names) != 1 {
			return "", ServerConfig{}, fmt.Errorf("multiple servers configured, use --server (available: %v)", names)
		}
		name = names[0]
	}
	server, ok := c.Servers[name]
	if !ok {
		return "", ServerConfig{}, fmt.Errorf("server %q not found in config", name)
	}
	return name, server, nil
}
