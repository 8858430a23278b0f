package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd is the calltaker entry point
var rootCmd = &cobra.Command{
	Use:   "calltaker",
	Short: "Conversational complaint intake agent",
	Long: `calltaker collects a customer complaint, a contact number and a service
address through a chat, confirms the details and records the complaint.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.AddCommand(serveCmd, chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
