package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	// Load .env if present; endpoint and key may also come from the shell.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "realtor",
		Short: "LLM-driven realtor.ca listing search with recorded replay",
		Long: `realtor drives a browser through an LLM-planned task: search realtor.ca
for houses in Ottawa, open the first listing and verify the price is visible.
The executed actions are recorded into a script that can be replayed without
the LLM, recovering from selector drift by progressively trimming absolute
XPath selectors.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetLevel(logrus.InfoLevel)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(newRunCmd(), newReplayCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
