package main

import (
	"fmt"

	"garrison/internal/migrate"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type opener func() (*gorm.DB, error)

func migrateCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			results, runErr := migrate.Run(cmd.Context(), db)
			for _, r := range results {
				line := fmt.Sprintf("%3d  %-28s %s", r.Migration.Version, r.Migration.Name, outcomeLabel(r.Outcome))
				if r.Err != nil {
					line += "  " + r.Err.Error()
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return runErr
		},
	}
	cmd.AddCommand(migrateStatusCmd(open))
	return cmd
}

func migrateStatusCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			states, err := migrate.Status(cmd.Context(), db)
			if err != nil {
				return err
			}
			for _, s := range states {
				state := color.New(color.FgYellow).Sprint("pending")
				at := ""
				if s.Applied {
					state = color.New(color.FgGreen).Sprint("applied")
					at = s.AppliedAt.Local().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-28s %s  %s\n", s.Migration.Version, s.Migration.Name, state, at)
			}
			return nil
		},
	}
}

func outcomeLabel(o migrate.Outcome) string {
	switch o {
	case migrate.OutcomeApplied:
		return color.New(color.FgGreen).Sprint("APPLIED")
	case migrate.OutcomeFailed:
		return color.New(color.FgRed).Sprint("FAILED ")
	default:
		return color.New(color.FgBlue).Sprint("SKIPPED")
	}
}
