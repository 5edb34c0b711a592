package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "photobattle",
		Short:        "Telegram photo battle bot",
		Long:         "photobattle runs an elimination photo-voting game in Telegram group chats.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
