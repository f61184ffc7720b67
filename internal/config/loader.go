package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the growthhub service.
type Config struct {
	HTTPPort         int
	DBPath           string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
	Location         *time.Location
	ScheduleHorizon  int
	LogLevel         string
	LogFormat        string
}

// fileConfig mirrors Config for the optional YAML file. Durations and the
// time zone are kept as strings so they go through the same parsing as the
// environment.
type fileConfig struct {
	HTTPPort         string `yaml:"http_port"`
	DBPath           string `yaml:"db_path"`
	ConnectTimeout   string `yaml:"connect_timeout"`
	OperationTimeout string `yaml:"operation_timeout"`
	Timezone         string `yaml:"timezone"`
	ScheduleHorizon  string `yaml:"schedule_horizon"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
}

const (
	envConfigFile       = "GROWTHHUB_CONFIG"
	envHTTPPort         = "GROWTHHUB_HTTP_PORT"
	envDBPath           = "GROWTHHUB_DB_PATH"
	envConnectTimeout   = "GROWTHHUB_CONNECT_TIMEOUT"
	envOperationTimeout = "GROWTHHUB_OPERATION_TIMEOUT"
	envTimezone         = "GROWTHHUB_TIMEZONE"
	envScheduleHorizon  = "GROWTHHUB_SCHEDULE_HORIZON"
	envLogLevel         = "GROWTHHUB_LOG_LEVEL"
	envLogFormat        = "GROWTHHUB_LOG_FORMAT"
)

// ErrInvalid is wrapped by Load when one or more values cannot be parsed.
var ErrInvalid = errors.New("config: invalid values")

// Load builds the configuration from defaults, the optional YAML file named by
// GROWTHHUB_CONFIG and the process environment, in increasing precedence.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		DBPath:           "growthhub.db",
		ConnectTimeout:   800 * time.Millisecond,
		OperationTimeout: 2 * time.Second,
		Location:         time.Local,
		ScheduleHorizon:  365,
		LogLevel:         "info",
		LogFormat:        "json",
	}

	values, err := readFile(strings.TrimSpace(os.Getenv(envConfigFile)))
	if err != nil {
		return Config{}, err
	}
	overlay := func(name string, fromFile string) string {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
		return strings.TrimSpace(fromFile)
	}

	invalid := make([]string, 0, 2)

	if v := overlay(envHTTPPort, values.HTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, envHTTPPort)
		} else {
			cfg.HTTPPort = port
		}
	}

	if v := overlay(envDBPath, values.DBPath); v != "" {
		cfg.DBPath = v
	}

	if v := overlay(envConnectTimeout, values.ConnectTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, envConnectTimeout)
		} else {
			cfg.ConnectTimeout = d
		}
	}

	if v := overlay(envOperationTimeout, values.OperationTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, envOperationTimeout)
		} else {
			cfg.OperationTimeout = d
		}
	}

	if v := overlay(envTimezone, values.Timezone); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			invalid = append(invalid, envTimezone)
		} else {
			cfg.Location = loc
		}
	}

	if v := overlay(envScheduleHorizon, values.ScheduleHorizon); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			invalid = append(invalid, envScheduleHorizon)
		} else {
			cfg.ScheduleHorizon = days
		}
	}

	if v := overlay(envLogLevel, values.LogLevel); v != "" {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = strings.ToLower(v)
		default:
			invalid = append(invalid, envLogLevel)
		}
	}

	if v := overlay(envLogFormat, values.LogFormat); v != "" {
		switch strings.ToLower(v) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(v)
		default:
			invalid = append(invalid, envLogFormat)
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var values fileConfig
	if path == "" {
		return values, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return fileConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return values, nil
}
