package engine

import (
	"fmt"

	"github.com/supporttools/GoSQLDev/pkg/config"
)

// mysqlDefaultCreateUser is substituted at command-build time when no
// create username is configured.
const mysqlDefaultCreateUser = "root"

// MySQL implements the Engine interface for the MySQL family.
type MySQL struct{}

// Name returns the engine name
func (e *MySQL) Name() string {
	return "mysql"
}

// DefaultPort returns the default MySQL port
func (e *MySQL) DefaultPort() int {
	return 3306
}

// DriverName returns the database/sql driver name
func (e *MySQL) DriverName() string {
	return "mysql"
}

// statementCommand builds one mysql client invocation executing a single
// SQL statement via -e.
func (e *MySQL) statementCommand(settings *config.Settings, statement string) Command {
	user := settings.CreateUsername
	if user == "" {
		user = mysqlDefaultCreateUser
	}

	args := []string{
		"mysql",
		"-h", host(settings),
		"-P", fmt.Sprintf("%d", port(settings, e)),
		"-u", user,
	}
	args = append(args, splitArguments(settings.CreateArguments)...)
	args = append(args, "-e", statement)

	return Command{Args: pruneTokens(args)}
}

// BuildCreateCommands emits drop-if-exists, create, and the optional
// grant steps. Grants target both 'localhost' and '127.0.0.1' so the
// recipient can connect over the socket and over TCP.
func (e *MySQL) BuildCreateCommands(settings *config.Settings) []Command {
	name := settings.DatabaseName

	createStmt := fmt.Sprintf("CREATE DATABASE `%s`", name)
	if settings.CreateSuffix != "" {
		createStmt = fmt.Sprintf("%s %s", createStmt, settings.CreateSuffix)
	}

	commands := []Command{
		e.statementCommand(settings, fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)),
		e.statementCommand(settings, createStmt),
	}

	if settings.GrantUsername != "" {
		for _, grantHost := range []string{"localhost", "127.0.0.1"} {
			grantStmt := fmt.Sprintf(
				"GRANT ALL PRIVILEGES ON `%s`.* TO '%s'@'%s' IDENTIFIED BY '%s'",
				name, settings.GrantUsername, grantHost, settings.GrantPassword,
			)
			commands = append(commands, e.statementCommand(settings, grantStmt))
		}
	}

	return commands
}

// BuildExecuteCommand builds the mysql client invocation that consumes
// scriptText on standard input. The execute password travels via the
// MYSQL_PWD environment variable, not argv.
func (e *MySQL) BuildExecuteCommand(settings *config.Settings, scriptText, displayName string) Command {
	args := []string{
		"mysql",
		"-h", host(settings),
		"-P", fmt.Sprintf("%d", port(settings, e)),
		"-u", settings.ExecuteUsername,
	}
	args = append(args, splitArguments(settings.ExecuteArguments)...)
	args = append(args, settings.DatabaseName)

	cmd := Command{
		Args:        pruneTokens(args),
		Input:       scriptText,
		DisplayName: displayName,
	}
	if settings.ExecutePassword != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("MYSQL_PWD=%s", settings.ExecutePassword))
	}

	return cmd
}

// CompareDSN builds the go-sql-driver DSN for a comparison connection.
func (e *MySQL) CompareDSN(settings *config.Settings, dbName string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		settings.CompareUsername, settings.ComparePassword,
		host(settings), port(settings, e), dbName)
}

func init() {
	// Register this engine with the command builder
	Register(config.EngineMySQL, &MySQL{})
}
