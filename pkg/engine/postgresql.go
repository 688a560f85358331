package engine

import (
	"fmt"

	"github.com/supporttools/GoSQLDev/pkg/config"
)

// postgresDefaultCreateUser is substituted at command-build time when no
// create username is configured.
const postgresDefaultCreateUser = "postgres"

// PostgreSQL implements the Engine interface for the PostgreSQL family.
type PostgreSQL struct{}

// Name returns the engine name
func (e *PostgreSQL) Name() string {
	return "postgresql"
}

// DefaultPort returns the default PostgreSQL port
func (e *PostgreSQL) DefaultPort() int {
	return 5432
}

// DriverName returns the database/sql driver name
func (e *PostgreSQL) DriverName() string {
	return "postgres"
}

// statementCommand builds one psql invocation executing a single SQL
// statement via -c. Database-level statements run against the postgres
// maintenance database.
func (e *PostgreSQL) statementCommand(settings *config.Settings, statement string) Command {
	user := settings.CreateUsername
	if user == "" {
		user = postgresDefaultCreateUser
	}

	args := []string{
		"psql",
		"-h", host(settings),
		"-p", fmt.Sprintf("%d", port(settings, e)),
		"-U", user,
		"-d", "postgres",
	}
	args = append(args, splitArguments(settings.CreateArguments)...)
	args = append(args, "-c", statement)

	return Command{Args: pruneTokens(args)}
}

// BuildCreateCommands emits drop-if-exists, create, and the optional
// grant step. The grant is emitted once; PostgreSQL privileges are not
// scoped per client host.
func (e *PostgreSQL) BuildCreateCommands(settings *config.Settings) []Command {
	name := settings.DatabaseName

	createStmt := fmt.Sprintf("CREATE DATABASE %s", name)
	if settings.CreateSuffix != "" {
		createStmt = fmt.Sprintf("%s %s", createStmt, settings.CreateSuffix)
	}

	commands := []Command{
		e.statementCommand(settings, fmt.Sprintf("DROP DATABASE IF EXISTS %s", name)),
		e.statementCommand(settings, createStmt),
	}

	if settings.GrantUsername != "" {
		grantStmt := fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s",
			name, settings.GrantUsername)
		commands = append(commands, e.statementCommand(settings, grantStmt))
	}

	return commands
}

// BuildExecuteCommand builds the psql invocation that consumes
// scriptText on standard input. ON_ERROR_STOP makes psql exit nonzero on
// the first failing statement; the password travels via PGPASSWORD.
func (e *PostgreSQL) BuildExecuteCommand(settings *config.Settings, scriptText, displayName string) Command {
	args := []string{
		"psql",
		"-h", host(settings),
		"-p", fmt.Sprintf("%d", port(settings, e)),
		"-U", settings.ExecuteUsername,
		"-v", "ON_ERROR_STOP=1",
	}
	args = append(args, splitArguments(settings.ExecuteArguments)...)
	args = append(args, settings.DatabaseName)

	cmd := Command{
		Args:        pruneTokens(args),
		Input:       scriptText,
		DisplayName: displayName,
	}
	if settings.ExecutePassword != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("PGPASSWORD=%s", settings.ExecutePassword))
	}

	return cmd
}

// CompareDSN builds the lib/pq DSN for a comparison connection.
func (e *PostgreSQL) CompareDSN(settings *config.Settings, dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host(settings), port(settings, e),
		settings.CompareUsername, settings.ComparePassword, dbName)
}

func init() {
	// Register this engine with the command builder
	Register(config.EnginePostgreSQL, &PostgreSQL{})
}
