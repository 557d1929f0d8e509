// Package config provides Viper-based configuration loading for the actor simulation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	StorageNone     = "none"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StorageConfig selects where actor snapshots are persisted.
type StorageConfig struct {
	// Driver is one of "none", "postgres", or "sqlite".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used when Driver is "sqlite".
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RegenConfig holds the regeneration timer intervals.
type RegenConfig struct {
	HPDelay      time.Duration `mapstructure:"hp_delay"`
	MPDelay      time.Duration `mapstructure:"mp_delay"`
	APDelay      time.Duration `mapstructure:"ap_delay"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// SimulationConfig holds the world step settings.
type SimulationConfig struct {
	// StepInterval is the wall-clock period between world steps.
	StepInterval time.Duration `mapstructure:"step_interval"`
	// SnapshotInterval is how often every actor is persisted; 0 disables periodic saves.
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval"`
	Regen            RegenConfig   `mapstructure:"regen"`
}

// ContentConfig points at the content directories loaded at startup.
type ContentConfig struct {
	AurasDir   string `mapstructure:"auras_dir"`
	ItemsDir   string `mapstructure:"items_dir"`
	ActorsDir  string `mapstructure:"actors_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
	// InstructionLimit caps Lua opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Driver == StoragePostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 0, got %d", c.Content.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Driver {
	case StorageNone, StoragePostgres:
		return nil
	case StorageSQLite:
		if s.SQLitePath == "" {
			return errors.New("storage.sqlite_path must not be empty when storage.driver is sqlite")
		}
		return nil
	default:
		return fmt.Errorf("storage.driver must be one of [none, postgres, sqlite], got %q", s.Driver)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.StepInterval <= 0 {
		errs = append(errs, "simulation.step_interval must be > 0")
	}
	if s.SnapshotInterval < 0 {
		errs = append(errs, "simulation.snapshot_interval must not be negative")
	}
	if s.Regen.HPDelay <= 0 || s.Regen.MPDelay <= 0 || s.Regen.APDelay <= 0 {
		errs = append(errs, "simulation.regen delays must be > 0")
	}
	if s.Regen.TickInterval <= 0 {
		errs = append(errs, "simulation.regen.tick_interval must be > 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ACTORCORE_ prefix
	v.SetEnvPrefix("ACTORCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance populated with every default value.
//
// Postcondition: LoadFromViper(Defaults()) succeeds.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "actorcore")
	v.SetDefault("database.password", "actorcore")
	v.SetDefault("database.name", "actorcore")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.driver", StorageNone)
	v.SetDefault("storage.sqlite_path", "actorcore.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.step_interval", "50ms")
	v.SetDefault("simulation.snapshot_interval", "1m")
	v.SetDefault("simulation.regen.hp_delay", "5s")
	v.SetDefault("simulation.regen.mp_delay", "3s")
	v.SetDefault("simulation.regen.ap_delay", "1s")
	v.SetDefault("simulation.regen.tick_interval", "250ms")

	v.SetDefault("content.auras_dir", "content/auras")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.actors_dir", "content/actors")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.instruction_limit", 0)
}
