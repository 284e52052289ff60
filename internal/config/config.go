package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Definition sources.
const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

// SpellServer holds all configuration for the spell server.
type SpellServer struct {
	LogLevel string `yaml:"log_level"`

	// Definitions
	DefinitionSource string `yaml:"definition_source"` // file | database
	SpellsPath       string `yaml:"spells_path"`
	ScriptsDir       string `yaml:"scripts_dir"`
	RequireSpells    bool   `yaml:"require_spells"`

	// Timing
	SpellExhaustionTime  time.Duration `yaml:"spell_exhaustion_time"`
	CombatExhaustionTime time.Duration `yaml:"combat_exhaustion_time"`
	SpellInFightTime     time.Duration `yaml:"spell_in_fight_time"`
	TickInterval         time.Duration `yaml:"tick_interval"`

	// Console reads commands from stdin.
	Console bool `yaml:"console"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection parameters. Empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether cooldowns are persisted.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// DefaultSpellServer returns SpellServer config with sensible defaults.
func DefaultSpellServer() SpellServer {
	return SpellServer{
		LogLevel:             "info",
		DefinitionSource:     SourceFile,
		SpellsPath:           "data/spells.yaml",
		ScriptsDir:           "data/scripts",
		SpellExhaustionTime:  time.Second,
		CombatExhaustionTime: 2 * time.Second,
		SpellInFightTime:     6 * time.Second,
		TickInterval:         100 * time.Millisecond,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "otspells",
			Password: "otspells",
			DBName:   "otspells",
			SSLMode:  "disable",
		},
	}
}

// Validate checks values that would make the server misbehave.
func (c SpellServer) Validate() error {
	var errs []error
	switch c.DefinitionSource {
	case SourceFile:
		if c.SpellsPath == "" {
			errs = append(errs, errors.New("spells_path is required for the file source"))
		}
	case SourceDatabase:
	default:
		errs = append(errs, fmt.Errorf("definition_source %q: want %q or %q", c.DefinitionSource, SourceFile, SourceDatabase))
	}
	if c.SpellExhaustionTime < 0 || c.CombatExhaustionTime < 0 || c.SpellInFightTime < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be positive"))
	}
	return errors.Join(errs...)
}

// LoadSpellServer loads spell server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSpellServer(path string) (SpellServer, error) {
	cfg := DefaultSpellServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
