package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/supporttools/GoSQLDev/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "gosqldev",
	Short: "Provision, populate, and compare development databases",
	Long: `GoSQLDev drives the mysql and psql client binaries to provision named
development databases, execute SQL script files, and assert that two
databases have structurally equal schemas.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Initialize(viper.GetBool("debug"))
	},
}

func init() {
	v := viper.GetViper()

	// Environment variables support: GOSQLDEV_ENGINE, GOSQLDEV_DEBUG, ...
	v.SetEnvPrefix("GOSQLDEV")
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("engine", "", "database engine (mysql|postgresql)")
	rootCmd.PersistentFlags().String("config", "", "path to a yaml settings file")
	rootCmd.PersistentFlags().String("host", "", "database server host (default 127.0.0.1)")
	rootCmd.PersistentFlags().Int("port", 0, "database server port (default per engine)")
	rootCmd.PersistentFlags().String("project-root", "", "project root directory (default: working directory)")
	rootCmd.PersistentFlags().String("project-name", "", "project name used to derive database names")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging of subprocess output")

	_ = v.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = v.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = v.BindPFlag("project_root", rootCmd.PersistentFlags().Lookup("project-root"))
	_ = v.BindPFlag("project_name", rootCmd.PersistentFlags().Lookup("project-name"))
	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(createDatabaseCmd)
	rootCmd.AddCommand(executeScriptCmd)
	rootCmd.AddCommand(ensureEqualCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
