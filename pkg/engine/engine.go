// Package engine provides engine-specific command construction for the
// supported database engines.
package engine

import (
	"github.com/supporttools/GoSQLDev/pkg/config"
)

// Engine translates settings into concrete client commands for one
// database engine.
type Engine interface {
	// Name returns the engine name (e.g., "mysql", "postgresql")
	Name() string

	// DefaultPort returns the engine's default local port.
	DefaultPort() int

	// DriverName returns the database/sql driver name used for schema
	// comparison connections.
	DriverName() string

	// BuildCreateCommands returns, in execution order, the commands that
	// drop, create, and (when a grant recipient is configured) grant the
	// configured database.
	BuildCreateCommands(settings *config.Settings) []Command

	// BuildExecuteCommand returns the command that feeds scriptText to
	// the engine's interactive client against the configured database.
	BuildExecuteCommand(settings *config.Settings, scriptText, displayName string) Command

	// CompareDSN builds the driver DSN for a schema comparison
	// connection to the named database.
	CompareDSN(settings *config.Settings, dbName string) string
}

// engines stores the registered engine implementations
var engines = make(map[config.EngineType]Engine)

// Register registers an engine implementation under the given type.
func Register(engineType config.EngineType, impl Engine) {
	engines[engineType] = impl
}

// Get returns the engine for the given type. Unknown types fail with an
// UnsupportedEngineError before any command is built.
func Get(engineType config.EngineType) (Engine, error) {
	normalized, err := config.ParseEngineType(string(engineType))
	if err != nil {
		return nil, err
	}

	impl, exists := engines[normalized]
	if !exists {
		return nil, &config.UnsupportedEngineError{Value: string(engineType)}
	}

	return impl, nil
}

// host returns the configured host or the local default.
func host(settings *config.Settings) string {
	if settings.Host != "" {
		return settings.Host
	}
	return "127.0.0.1"
}

// port returns the configured port or the engine default.
func port(settings *config.Settings, impl Engine) int {
	if settings.Port != 0 {
		return settings.Port
	}
	return impl.DefaultPort()
}
