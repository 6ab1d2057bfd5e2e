package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gopanel/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gopanel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
		fmt.Println("Composite Panel Analysis Tool")
		fmt.Println("Classical laminate theory with triangular membrane elements")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
