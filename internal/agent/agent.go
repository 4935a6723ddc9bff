package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sparsh-goyal/browser-use/internal/browser"
	"github.com/sparsh-goyal/browser-use/internal/config"
	"github.com/sparsh-goyal/browser-use/internal/llm"
)

const validationInterval = 3

// Agent drives the browser through an LLM-generated plan and records the
// executed actions into a replayable script.
type Agent struct {
	config    *config.Config
	session   *browser.Session
	planner   *Planner
	executor  *Executor
	validator *Validator
	history   *History
	recorder  *Recorder
}

type TaskResult struct {
	Success       bool
	StepsExecuted int
	Duration      time.Duration
	FinalState    string
	Error         error
}

func New(cfg *config.Config) (*Agent, error) {
	session, err := browser.NewSession(browser.Options{
		Headless:       cfg.Headless,
		SlowMo:         cfg.SlowMo,
		AllowedDomains: cfg.AllowedDomains,
	})
	if err != nil {
		return nil, fmt.Errorf("create browser session: %w", err)
	}

	llmClient, err := llm.NewAzureClient(cfg.AzureEndpoint, cfg.AzureKey, cfg.Model, cfg.APIVersion)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	return &Agent{
		config:    cfg,
		session:   session,
		planner:   NewPlanner(llmClient),
		executor:  NewExecutor(session),
		validator: NewValidator(llmClient),
		history:   NewHistory(),
		recorder:  NewRecorder(cfg.Task),
	}, nil
}

func (a *Agent) History() *History { return a.history }

// SaveScript writes the recorded actions to path for later replay.
func (a *Agent) SaveScript(path string) error {
	return a.recorder.Save(path)
}

// ExecuteTask plans the task and walks the plan step by step, validating
// progress periodically and replanning when the validator asks for it.
func (a *Agent) ExecuteTask(ctx context.Context) (*TaskResult, error) {
	startTime := time.Now()
	var lastValidation time.Time

	plan, err := a.planner.CreatePlan(ctx, a.config.Task)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	fmt.Printf("generated plan with %d steps\n\n", len(plan.Steps))

	execCtx := &ExecutionContext{
		TaskDescription: a.config.Task,
		Plan:            plan,
	}

	stepsTaken := 0
	for execCtx.CurrentStepNum < len(plan.Steps) && stepsTaken < a.config.MaxSteps {
		if time.Since(startTime) > a.config.TotalTimeout {
			return &TaskResult{
				StepsExecuted: len(execCtx.ExecutedSteps),
				Duration:      time.Since(startTime),
				Error:         fmt.Errorf("total timeout exceeded"),
			}, nil
		}

		step := plan.Steps[execCtx.CurrentStepNum]
		stepsTaken++
		fmt.Printf("step %d/%d: %s\n", execCtx.CurrentStepNum+1, len(plan.Steps), step.Description)
		a.recorder.StartStep(fmt.Sprintf("Step %d", stepsTaken))

		result, err := a.executor.ExecuteStep(step, execCtx)
		if err != nil && step.Critical {
			fmt.Println("   failed, retrying critical step...")
			time.Sleep(2 * time.Second)
			result, err = a.executor.ExecuteStep(step, execCtx)
		}

		executed := ExecutedStep{
			Step:      step,
			Success:   err == nil,
			Error:     err,
			Timestamp: time.Now(),
		}
		execCtx.ExecutedSteps = append(execCtx.ExecutedSteps, executed)
		a.recordStep(step, result, err)

		if err != nil {
			fmt.Printf("   failed: %v\n", err)
			if step.Critical {
				return &TaskResult{
					StepsExecuted: len(execCtx.ExecutedSteps),
					Duration:      time.Since(startTime),
					Error:         fmt.Errorf("critical step failed after retry: %w", err),
				}, nil
			}
		} else {
			fmt.Println("   done")
		}

		execCtx.CurrentStepNum++

		if result != nil && result.Done {
			a.history.MarkDone(true, result.Message)
			return &TaskResult{
				Success:       true,
				StepsExecuted: len(execCtx.ExecutedSteps),
				Duration:      time.Since(startTime),
				FinalState:    result.Message,
			}, nil
		}

		if err == nil && execCtx.CurrentStepNum%validationInterval == 0 && time.Since(lastValidation) > 10*time.Second {
			pageState, stateErr := a.session.GetPageState()
			if stateErr != nil {
				logrus.WithError(stateErr).Warn("could not snapshot page for validation")
				continue
			}

			validation, valErr := a.validator.ValidateProgress(ctx, execCtx, pageState)
			if valErr != nil || validation == nil {
				continue
			}
			lastValidation = time.Now()

			if validation.IsComplete {
				fmt.Printf("\ntask completed: %s\n", validation.Message)
				a.history.MarkDone(true, validation.Message)
				a.recorder.StartStep(fmt.Sprintf("Step %d", stepsTaken+1))
				a.recorder.RecordDone(true, validation.Message)
				return &TaskResult{
					Success:       true,
					StepsExecuted: len(execCtx.ExecutedSteps),
					Duration:      time.Since(startTime),
					FinalState:    validation.Message,
				}, nil
			}

			if validation.NeedsReplanning {
				fmt.Printf("   replanning: %s\n", validation.Message)
				newPlan, replanErr := a.planner.Replan(ctx, execCtx, validation.Message)
				if replanErr != nil {
					logrus.WithError(replanErr).Warn("replan failed, continuing with original plan")
					continue
				}
				plan = newPlan
				execCtx.Plan = newPlan
				execCtx.CurrentStepNum = 0
				fmt.Printf("   new plan with %d steps\n", len(newPlan.Steps))
			}
		}
	}

	if stepsTaken >= a.config.MaxSteps && execCtx.CurrentStepNum < len(plan.Steps) {
		return &TaskResult{
			StepsExecuted: len(execCtx.ExecutedSteps),
			Duration:      time.Since(startTime),
			Error:         fmt.Errorf("max steps (%d) exceeded", a.config.MaxSteps),
		}, nil
	}

	a.history.MarkDone(true, "All planned steps completed")
	return &TaskResult{
		Success:       true,
		StepsExecuted: len(execCtx.ExecutedSteps),
		Duration:      time.Since(startTime),
		FinalState:    "All planned steps completed",
	}, nil
}

// recordStep appends the step to the run history and, when it succeeded and
// mutates the page, to the replay script.
func (a *Agent) recordStep(step Step, result *ExecutionResult, err error) {
	record := Record{
		Action: step.Action,
		URL:    a.session.CurrentURL(),
		Err:    err,
	}
	if result != nil {
		record.Extracted = result.Extracted
	}
	a.history.Append(record)

	if err != nil {
		return
	}

	switch step.Action {
	case "navigate":
		a.recorder.RecordNavigate(step.Target)
	case "fill":
		a.recorder.RecordFill(step.Target, step.Value)
	case "click":
		a.recorder.RecordClick(step.Target)
	case "switch_tab":
		index := 1
		if v, convErr := strconv.Atoi(strings.TrimSpace(step.Value)); convErr == nil {
			index = v
		}
		a.recorder.RecordSwitchTab(index)
	case "done":
		message := step.Value
		if message == "" && result != nil {
			message = result.Message
		}
		a.recorder.RecordDone(true, message)
	}
}

func (a *Agent) Close() {
	if a.session != nil {
		a.session.Close()
	}
}
