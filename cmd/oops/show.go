package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"oops/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <report>",
	Short: "Print a stored crash report as TOML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := report.Load(args[0])
		if err != nil {
			return err
		}
		text, err := rep.Serialize()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}
