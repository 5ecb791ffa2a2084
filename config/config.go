package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

const (
	ModeRaw     = "raw"
	ModeNetHTTP = "nethttp"
)

// Config holds all application configuration
type Config struct {
	Addr        string `short:"a" long:"addr" env:"COYOTE_ADDR" description:"Address to listen on" default:"0.0.0.0:8080"`
	Mode        string `long:"mode" env:"COYOTE_MODE" description:"Serving mode" choice:"raw" choice:"nethttp" default:"raw"`
	StaticDir   string `long:"static-dir" env:"COYOTE_STATIC_DIR" description:"Directory with static resources (embedded bundle when empty)"`
	NotFound    string `long:"not-found" description:"Resource served as the 404 body" default:"/404.html"`
	DefaultOK   bool   `long:"default-ok" description:"Answer 200 OK when a handler leaves the status unset"`
	ReadTimeout int    `long:"read-timeout" description:"Request read timeout in seconds" default:"10"`
	MaxBodySize int64  `long:"max-body-size" description:"Maximum request body size in bytes" default:"2097152"`
	LogLevel    string `long:"log-level" env:"COYOTE_LOG_LEVEL" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`

	Telemetry   bool   `long:"telemetry" env:"COYOTE_TELEMETRY" description:"Export traces, metrics and logs over OTLP/gRPC"`
	ServiceName string `long:"service-name" env:"OTEL_SERVICE_NAME" description:"Service name reported to the collector" default:"coyote"`

	// Real read timeout duration (not parsed from flags directly)
	ReadTimeoutDuration time.Duration
}

// ParseFlags parses command line flags
func ParseFlags() (*Config, error) {
	return Parse(os.Args[1:])
}

func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			// Help has been printed by the library, exit cleanly
			os.Exit(0)
		}
		return nil, err
	}

	cfg.ReadTimeoutDuration = time.Duration(cfg.ReadTimeout) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address must not be empty")
	}

	if c.Mode != ModeRaw && c.Mode != ModeNetHTTP {
		return fmt.Errorf("unknown serving mode %q", c.Mode)
	}

	if c.ReadTimeoutDuration <= 0 {
		return fmt.Errorf("read timeout must be > 0, got %s", c.ReadTimeoutDuration)
	}

	if c.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be > 0, got %d", c.MaxBodySize)
	}

	if len(c.NotFound) == 0 || c.NotFound[0] != '/' {
		return fmt.Errorf("not found resource must be a path starting with '/', got %q", c.NotFound)
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil {
			return fmt.Errorf("static directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("static directory %q is not a directory", c.StaticDir)
		}
	}

	return nil
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
