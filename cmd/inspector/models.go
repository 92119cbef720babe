package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured models",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Models.Registry) == 0 {
			fmt.Println("No models configured.")
			return nil
		}

		purple := lipgloss.Color("99")
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return lipgloss.NewStyle().Foreground(purple).Bold(true).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("Name", "Provider", "Role")

		for _, entry := range cfg.Models.Registry {
			role := ""
			switch entry.Name {
			case cfg.Models.Default:
				role = "default"
			case cfg.Models.Fallback:
				role = "fallback"
			}
			t.Row(entry.Name, entry.Provider, role)
		}

		fmt.Println(t)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
