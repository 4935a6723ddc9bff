package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sparsh-goyal/browser-use/internal/browser"
	"github.com/sparsh-goyal/browser-use/internal/replay"
)

func newReplayCmd() *cobra.Command {
	var (
		headless      bool
		promptSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Execute a recorded script with selector-fallback recovery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := replay.LoadScript(args[0])
			if err != nil {
				return err
			}
			if err := script.Validate(); err != nil {
				return err
			}

			sensitive := replay.SensitiveDataFromEnv()
			if promptSecrets {
				if err := promptForSecrets(script, sensitive); err != nil {
					return err
				}
			}

			fmt.Println("launching chromium browser...")
			session, err := browser.NewSession(browser.Options{Headless: headless})
			if err != nil {
				return fmt.Errorf("launch browser: %w", err)
			}
			defer session.Close()

			runner := replay.NewRunner(session, sensitive)
			if err := runner.Run(script); err != nil {
				return fmt.Errorf("replay failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	cmd.Flags().BoolVar(&promptSecrets, "prompt-secrets", false,
		"Prompt for placeholder values not already supplied via SENSITIVE_* environment variables")

	return cmd
}

// promptForSecrets asks for every placeholder the script references that the
// environment did not provide. Input is read without echo.
func promptForSecrets(script *replay.Script, sensitive map[string]string) error {
	for _, name := range script.PlaceholderNames() {
		if _, ok := sensitive[name]; ok {
			continue
		}
		fmt.Printf("value for %s: ", name)
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read value for %s: %w", name, err)
		}
		sensitive[name] = string(value)
	}
	return nil
}
