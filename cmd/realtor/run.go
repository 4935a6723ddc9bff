package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sparsh-goyal/browser-use/internal/agent"
	"github.com/sparsh-goyal/browser-use/internal/config"
)

func newRunCmd() *cobra.Command {
	cfg := config.New()
	var skipReplay bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the listing-search agent, then replay the recorded script",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadEnv(); err != nil {
				return err
			}

			ag, err := agent.New(cfg)
			if err != nil {
				return fmt.Errorf("initialize agent: %w", err)
			}

			fmt.Printf("task: %s\n\n", cfg.Task)
			result, err := ag.ExecuteTask(cmd.Context())
			if err != nil {
				ag.Close()
				return fmt.Errorf("agent run: %w", err)
			}

			if result.Success {
				fmt.Printf("\nagent completed the task. final result: %s\n", result.FinalState)
			} else {
				fmt.Println("\nagent finished, but the task was not completed")
				if result.Error != nil {
					fmt.Printf("error: %v\n", result.Error)
				}
			}
			ag.History().PrintSummary()

			saveErr := ag.SaveScript(cfg.ScriptPath)
			// The replay child launches its own browser; release this one first.
			ag.Close()
			if saveErr != nil {
				return fmt.Errorf("save replay script: %w", saveErr)
			}
			fmt.Printf("replay script saved to %s\n", cfg.ScriptPath)

			if !result.Success {
				return fmt.Errorf("task not completed: %v", result.Error)
			}
			if skipReplay {
				return nil
			}

			return runRecordedScript(cfg.ScriptPath, cfg.Headless)
		},
	}

	cmd.Flags().StringVar(&cfg.Task, "task", cfg.Task, "Task description for the agent")
	cmd.Flags().BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run the browser headless")
	cmd.Flags().IntVar(&cfg.MaxSteps, "max-steps", cfg.MaxSteps, "Maximum agent steps")
	cmd.Flags().StringVar(&cfg.ScriptPath, "script", cfg.ScriptPath, "Where to save the recorded replay script")
	cmd.Flags().BoolVar(&skipReplay, "skip-replay", false, "Do not execute the recorded script after the agent run")

	return cmd
}

// runRecordedScript re-executes this binary's replay subcommand as a child
// process and relays its output.
func runRecordedScript(scriptPath string, headless bool) error {
	if _, err := os.Stat(scriptPath); err != nil {
		return fmt.Errorf("replay script not found at %s: %w", scriptPath, err)
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	args := []string{"replay", scriptPath}
	if headless {
		args = append(args, "--headless")
	}
	child := exec.Command(self, args...)

	stdout, err := child.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach stdout: %w", err)
	}
	stderr, err := child.StderrPipe()
	if err != nil {
		return fmt.Errorf("attach stderr: %w", err)
	}

	fmt.Println("\n--- replay script execution ---")
	if err := child.Start(); err != nil {
		return fmt.Errorf("start replay: %w", err)
	}

	// Both pipes are drained concurrently so neither can fill and stall the child.
	var wg sync.WaitGroup
	wg.Add(2)
	go streamOutput(&wg, stdout, "stdout")
	go streamOutput(&wg, stderr, "stderr")
	wg.Wait()

	err = child.Wait()
	fmt.Println("-------------------------------")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("replay script finished with exit code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("replay script: %w", err)
	}

	fmt.Println("replay script executed successfully")
	return nil
}

func streamOutput(wg *sync.WaitGroup, r io.Reader, prefix string) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Printf("%s: %s\n", prefix, scanner.Text())
	}
}
