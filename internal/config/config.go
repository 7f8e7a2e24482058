package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr    = ":8080"
	defaultDBPath        = "qoqo-aqt.db"
	defaultEndpoint      = "https://arnica.aqt.eu/api/v1/"
	defaultResource      = "simulator_noise"
	defaultNumberQubits  = 5
	defaultPollInterval  = 2 * time.Second
	defaultProbeSchedule = "@every 1m"

	envListenAddr    = "AQT_LISTEN_ADDR"
	envDBPath        = "AQT_DB_PATH"
	envLogLevel      = "AQT_LOG_LEVEL"
	envAccessToken   = "AQT_ACCESS_TOKEN"
	envEndpoint      = "AQT_ENDPOINT"
	envResource      = "AQT_RESOURCE"
	envNumberQubits  = "AQT_NUMBER_QUBITS"
	envPollInterval  = "AQT_POLL_INTERVAL"
	envProbeSchedule = "AQT_PROBE_SCHEDULE"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level

	// AccessToken is the AQT bearer token. It may be empty; the backend then
	// refuses to start.
	AccessToken   string
	Endpoint      string
	Resource      string
	NumberQubits  int
	PollInterval  time.Duration
	ProbeSchedule string
}

// Load reads an optional .env file from the working directory and then the
// environment. Variables already set in the environment win over the file.
func Load() Config {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. A missing file is ignored.
func LoadFile(path string) Config {
	_ = godotenv.Load(path)

	cfg := Config{
		ListenAddr:    defaultListenAddr,
		DBPath:        defaultDBPath,
		LogLevel:      slog.LevelInfo,
		Endpoint:      defaultEndpoint,
		Resource:      defaultResource,
		NumberQubits:  defaultNumberQubits,
		PollInterval:  defaultPollInterval,
		ProbeSchedule: defaultProbeSchedule,
	}

	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	cfg.AccessToken = os.Getenv(envAccessToken)
	if v := os.Getenv(envEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(envResource); v != "" {
		cfg.Resource = v
	}
	if v := os.Getenv(envNumberQubits); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NumberQubits = n
		}
	}
	if v := os.Getenv(envPollInterval); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := os.Getenv(envProbeSchedule); v != "" {
		cfg.ProbeSchedule = v
	}

	return cfg
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
