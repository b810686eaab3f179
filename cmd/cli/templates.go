package main

import (
	"fmt"

	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the regulation templates",
	Run: func(cmd *cobra.Command, args []string) {
		for _, template := range grf.Templates() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", template, template.Describe())
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
