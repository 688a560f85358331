package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/supporttools/GoSQLDev/pkg/config"
	"github.com/supporttools/GoSQLDev/pkg/dbops"
	"github.com/supporttools/GoSQLDev/pkg/project"
	"github.com/supporttools/GoSQLDev/pkg/version"
)

// buildSettings assembles the operation settings from the optional yaml
// settings file overlaid with command-line flags and environment.
func buildSettings() (*config.Settings, error) {
	v := viper.GetViper()

	settings := config.DefaultSettings()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.LoadSettingsFile(path)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if engineFlag := v.GetString("engine"); engineFlag != "" {
		engineType, err := config.ParseEngineType(engineFlag)
		if err != nil {
			return nil, err
		}
		settings.Engine = engineType
	}
	if host := v.GetString("host"); host != "" {
		settings.Host = host
	}
	if port := v.GetInt("port"); port != 0 {
		settings.Port = port
	}

	return settings, nil
}

// buildProject resolves the project collaborator from flags, falling
// back to the working directory.
func buildProject() (*project.Project, error) {
	v := viper.GetViper()

	proj, err := project.FromWorkingDir()
	if err != nil {
		return nil, err
	}
	if root := v.GetString("project_root"); root != "" {
		proj.Root = root
	}
	if name := v.GetString("project_name"); name != "" {
		proj.Name = name
	}

	return proj, nil
}

func buildOperations() (*dbops.Operations, error) {
	settings, err := buildSettings()
	if err != nil {
		return nil, err
	}
	proj, err := buildProject()
	if err != nil {
		return nil, err
	}
	return dbops.New(settings, proj), nil
}

var createDatabaseCmd = &cobra.Command{
	Use:   "create-database",
	Short: "Drop and recreate a database, optionally granting privileges",
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := buildOperations()
		if err != nil {
			return err
		}

		ops.Settings.DatabaseName, _ = cmd.Flags().GetString("name")
		if user, _ := cmd.Flags().GetString("create-user"); user != "" {
			ops.Settings.CreateUsername = user
		}
		if user, _ := cmd.Flags().GetString("grant-user"); user != "" {
			ops.Settings.GrantUsername = user
		}
		if password, _ := cmd.Flags().GetString("grant-password"); password != "" {
			ops.Settings.GrantPassword = password
		}
		if extra, _ := cmd.Flags().GetString("create-args"); extra != "" {
			ops.Settings.CreateArguments = extra
		}
		if suffix, _ := cmd.Flags().GetString("create-suffix"); suffix != "" {
			ops.Settings.CreateSuffix = suffix
		}

		// Without an explicit name the database name is derived from the
		// project; --test selects the test database variant.
		if ops.Settings.DatabaseName == "" {
			if testDB, _ := cmd.Flags().GetBool("test"); testDB {
				return ops.CreateTestDatabase()
			}
			return ops.CreateMainDatabase()
		}

		return ops.CreateDatabase()
	},
}

var executeScriptCmd = &cobra.Command{
	Use:   "execute-script",
	Short: "Execute a SQL script file against a database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := buildOperations()
		if err != nil {
			return err
		}

		ops.Settings.DatabaseName, _ = cmd.Flags().GetString("name")
		if user, _ := cmd.Flags().GetString("exec-user"); user != "" {
			ops.Settings.ExecuteUsername = user
		}
		if password, _ := cmd.Flags().GetString("exec-password"); password != "" {
			ops.Settings.ExecutePassword = password
		}
		if extra, _ := cmd.Flags().GetString("exec-args"); extra != "" {
			ops.Settings.ExecuteArguments = extra
		}

		file, _ := cmd.Flags().GetString("file")
		return ops.ExecuteScript(file)
	},
}

var ensureEqualCmd = &cobra.Command{
	Use:   "ensure-equal",
	Short: "Fail unless two databases have structurally equal schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := buildOperations()
		if err != nil {
			return err
		}

		if user, _ := cmd.Flags().GetString("compare-user"); user != "" {
			ops.Settings.CompareUsername = user
		}
		if password, _ := cmd.Flags().GetString("compare-password"); password != "" {
			ops.Settings.ComparePassword = password
		}

		left, _ := cmd.Flags().GetString("left")
		right, _ := cmd.Flags().GetString("right")
		return ops.EnsureEqual(left, right)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	createDatabaseCmd.Flags().String("name", "", "database name (default: derived from the project name)")
	createDatabaseCmd.Flags().Bool("test", false, "target the project's test database")
	createDatabaseCmd.Flags().String("create-user", "", "account used for create/drop/grant statements")
	createDatabaseCmd.Flags().String("grant-user", "", "account granted all privileges on the database")
	createDatabaseCmd.Flags().String("grant-password", "", "password for the granted account")
	createDatabaseCmd.Flags().String("create-args", "", "extra client arguments for create-time commands")
	createDatabaseCmd.Flags().String("create-suffix", "", "SQL appended to the CREATE DATABASE statement")

	executeScriptCmd.Flags().String("name", "", "database name")
	executeScriptCmd.Flags().String("file", "", "path to the SQL script, relative to the project root")
	_ = executeScriptCmd.MarkFlagRequired("file")
	executeScriptCmd.Flags().String("exec-user", "", "account used to execute the script")
	executeScriptCmd.Flags().String("exec-password", "", "password for the executing account")
	executeScriptCmd.Flags().String("exec-args", "", "extra client arguments for script execution")

	ensureEqualCmd.Flags().String("left", "", "first database name")
	ensureEqualCmd.Flags().String("right", "", "second database name")
	_ = ensureEqualCmd.MarkFlagRequired("left")
	_ = ensureEqualCmd.MarkFlagRequired("right")
	ensureEqualCmd.Flags().String("compare-user", "", "account used for comparison connections")
	ensureEqualCmd.Flags().String("compare-password", "", "password for the comparison account")
}
