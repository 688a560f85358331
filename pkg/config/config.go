// Package config provides the settings driving all database operations in GoSQLDev
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EngineType identifies the database engine a command is built for.
type EngineType string

// Supported engine types
const (
	EngineMySQL      EngineType = "mysql"
	EnginePostgreSQL EngineType = "postgresql"
)

// UnsupportedEngineError is returned when an engine type is not one of
// the supported values. It is raised before any command is built or
// subprocess spawned.
type UnsupportedEngineError struct {
	Value string
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("unsupported database engine: %q (supported: mysql, postgresql)", e.Value)
}

// ParseEngineType normalizes a user-supplied engine name. Input is
// case-insensitive; "postgres" is accepted as an alias for "postgresql".
func ParseEngineType(value string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "mysql":
		return EngineMySQL, nil
	case "postgresql", "postgres":
		return EnginePostgreSQL, nil
	default:
		return "", &UnsupportedEngineError{Value: value}
	}
}

// Settings holds the configuration for one or more database operations.
// The struct is owned by the caller and may be mutated between calls;
// each operation reads a snapshot of the fields at call time.
type Settings struct {
	// Engine selects the database engine. Required; there is no default.
	Engine EngineType `yaml:"engine"`

	// Host and Port locate the database server. Port 0 selects the
	// engine's default port at command-build time.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// DatabaseName is the database targeted by create and execute
	// operations. CreateMainDatabase/CreateTestDatabase derive it from
	// the project name.
	DatabaseName string `yaml:"databaseName"`

	// CreateArguments are extra client arguments appended verbatim to
	// create-time commands. CreateSuffix is appended verbatim to the
	// CREATE DATABASE statement.
	CreateArguments string `yaml:"createArguments"`
	CreateSuffix    string `yaml:"createSuffix"`

	// CreateUsername is the account used for create/drop/grant
	// statements. When empty, the engine's administrative default is
	// substituted at command-build time (root for MySQL, postgres for
	// PostgreSQL).
	CreateUsername string `yaml:"createUsername"`

	// Compare credentials are used only for schema comparison connections.
	CompareUsername string `yaml:"compareUsername"`
	ComparePassword string `yaml:"comparePassword"`

	// Execute credentials and arguments are used for script execution.
	ExecuteArguments string `yaml:"executeArguments"`
	ExecuteUsername  string `yaml:"executeUsername"`
	ExecutePassword  string `yaml:"executePassword"`

	// GrantUsername enables the post-creation grant step when set.
	GrantUsername string `yaml:"grantUsername"`
	GrantPassword string `yaml:"grantPassword"`
}

// DefaultSettings returns a Settings populated with the development
// defaults. Engine and DatabaseName are left empty; both are required
// before running an operation.
func DefaultSettings() *Settings {
	return &Settings{
		Host:            "127.0.0.1",
		CompareUsername: "dev",
		ComparePassword: "dev",
		ExecuteUsername: "dev",
		ExecutePassword: "dev",
		GrantPassword:   "dev",
	}
}

// LoadSettingsFile reads a yaml settings document and overlays it on the
// defaults. Fields absent from the document keep their default values.
func LoadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if settings.Engine != "" {
		normalized, err := ParseEngineType(string(settings.Engine))
		if err != nil {
			return nil, err
		}
		settings.Engine = normalized
	}

	return settings, nil
}

// Validate checks that the settings can drive an operation.
func (s *Settings) Validate() error {
	if s.Engine == "" {
		return &UnsupportedEngineError{Value: ""}
	}
	if _, err := ParseEngineType(string(s.Engine)); err != nil {
		return err
	}
	if s.DatabaseName == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}
