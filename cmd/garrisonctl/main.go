package main

import (
	"fmt"
	"os"

	"garrison/internal/config"
	"garrison/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "garrisonctl",
		Short: "Operator tool for the garrison portal",
		Long: `garrisonctl runs maintenance tasks against the portal database
using the same configuration as the server.

Examples:
  garrisonctl migrate                 # apply pending migrations
  garrisonctl migrate status          # list applied and pending migrations
  garrisonctl export -o apps.xlsx     # dump applications to a spreadsheet`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(config.LogConfig{Level: "warn", Console: true})
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	open := func() (*gorm.DB, error) {
		return config.Load(configFile).OpenGormDB()
	}
	rootCmd.AddCommand(migrateCmd(open))
	rootCmd.AddCommand(exportCmd(open))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
