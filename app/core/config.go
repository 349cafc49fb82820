package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/knova-ai/knova/app/core/srv"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.applyDefaults()

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.applyDefaults()
	return c
}

type CoreConfig struct {
	Addr     string      `toml:"addr"`
	Log      Log         `toml:"log"`
	Postgres PGConfig    `toml:"postgres"`
	Redis    RedisConfig `toml:"redis"`

	AI     srv.AIConfig     `toml:"ai"`
	Rerank srv.RerankConfig `toml:"rerank"`

	Retrieval RetrievalConfig `toml:"retrieval"`
	Chat      ChatConfig      `toml:"chat"`
	Auth      AuthConfig      `toml:"auth"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("KNOVA_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.AI.FromENV()
	c.Rerank.FromENV()
	c.Auth.FromENV()
}

func (c *CoreConfig) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":33031"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.RerankTopN <= 0 {
		c.Retrieval.RerankTopN = 5
	}
	if c.Retrieval.HistoryLimit <= 0 {
		c.Retrieval.HistoryLimit = 10
	}
	if c.Retrieval.ContextTokenLimit <= 0 {
		c.Retrieval.ContextTokenLimit = 4096
	}
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("KNOVA_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("KNOVA_REDIS_ADDR")
	r.Password = os.Getenv("KNOVA_REDIS_PASSWORD")
	if dbStr := os.Getenv("KNOVA_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("KNOVA_API_LOG_LEVEL")
	l.Path = os.Getenv("KNOVA_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

type RetrievalConfig struct {
	TopK              int `toml:"top_k"`
	RerankTopN        int `toml:"rerank_top_n"`
	HistoryLimit      int `toml:"history_limit"`
	ContextTokenLimit int `toml:"context_token_limit"`
}

type ChatConfig struct {
	// PersistPartialOnDisconnect keeps whatever answer text accumulated when
	// the caller drops mid-stream. Off by default: an abandoned turn should
	// not leave a truncated assistant message behind.
	PersistPartialOnDisconnect bool `toml:"persist_partial_on_disconnect"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	TokenTTLHour int    `toml:"token_ttl_hour"`
}

func (a *AuthConfig) FromENV() {
	a.JWTSecret = os.Getenv("KNOVA_API_JWT_SECRET")
}
