package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "tacticboard.cfg.json"

// StorageConfig selects and configures the board state store.
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Key       string          `json:"key" mapstructure:"key"`
	Timeout   time.Duration   `json:"timeout" mapstructure:"timeout"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	Postgres  PostgresConfig  `json:"postgres" mapstructure:"postgres"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// MemoryConfig holds settings for the in-memory store and its JSON file.
type MemoryConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// WebSocketConfig points the live mirror at a remote viewer.
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// BoardConfig holds the defaults used for a fresh board.
type BoardConfig struct {
	Language   string        `json:"language" mapstructure:"language"`
	Formation  string        `json:"formation" mapstructure:"formation"`
	TeamAColor string        `json:"teamAColor" mapstructure:"teamAColor"`
	TeamBColor string        `json:"teamBColor" mapstructure:"teamBColor"`
	DrawColor  string        `json:"drawColor" mapstructure:"drawColor"`
	HistoryMax int           `json:"historyMax" mapstructure:"historyMax"`
	Duration   time.Duration `json:"duration" mapstructure:"duration"`
	Settle     time.Duration `json:"settle" mapstructure:"settle"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from the JSON file in configDir and sets
// default values. Defaults stay in effect when the file is missing, but
// the read error is still returned so the caller can log it.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.key", "soccerBoardState")
	viper.SetDefault("storage.timeout", "2s")
	viper.SetDefault("storage.memory.path", "./board.json")
	viper.SetDefault("storage.memory.compress", false)
	viper.SetDefault("storage.sqlite.path", "./tacticboard.db")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "tacticboard")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/board")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("board.language", "zh-TW")
	viper.SetDefault("board.formation", "4-3-3")
	viper.SetDefault("board.teamAColor", "#ef4444")
	viper.SetDefault("board.teamBColor", "#3b82f6")
	viper.SetDefault("board.drawColor", "#ffff00")

	viper.SetDefault("history.max", 20)

	viper.SetDefault("animation.duration", "2s")
	viper.SetDefault("animation.settle", "2.1s")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "tacticboard")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:    viper.GetString("storage.type"),
		Key:     viper.GetString("storage.key"),
		Timeout: viper.GetDuration("storage.timeout"),
		Memory: MemoryConfig{
			Path:     viper.GetString("storage.memory.path"),
			Compress: viper.GetBool("storage.memory.compress"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("storage.postgres.host"),
			Port:     viper.GetString("storage.postgres.port"),
			Username: viper.GetString("storage.postgres.username"),
			Password: viper.GetString("storage.postgres.password"),
			Database: viper.GetString("storage.postgres.database"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetBoardConfig returns board, history and animation settings.
func GetBoardConfig() BoardConfig {
	return BoardConfig{
		Language:   viper.GetString("board.language"),
		Formation:  viper.GetString("board.formation"),
		TeamAColor: viper.GetString("board.teamAColor"),
		TeamBColor: viper.GetString("board.teamBColor"),
		DrawColor:  viper.GetString("board.drawColor"),
		HistoryMax: viper.GetInt("history.max"),
		Duration:   viper.GetDuration("animation.duration"),
		Settle:     viper.GetDuration("animation.settle"),
	}
}

// GetOTelConfig returns the otel section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
