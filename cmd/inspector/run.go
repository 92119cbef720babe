package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive inspection chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildComponents(cfg, true)
		if err != nil {
			return err
		}
		defer c.Close()

		return NewREPL(c, cfg).Start()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
