package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show TriagR version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("TriagR %s (%s)\n", Version, build)
	},
}
