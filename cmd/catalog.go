package cmd

import (
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Character catalog commands",
	Long:  `Commands for inspecting and validating the character roster.`,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
