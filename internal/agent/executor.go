package agent

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sparsh-goyal/browser-use/internal/browser"
	"github.com/sparsh-goyal/browser-use/internal/replay"
)

const (
	navigateTimeout = 30 * time.Second
	extractTimeout  = 15 * time.Second
	defaultWait     = 2 * time.Second
	stepSettle      = 500 * time.Millisecond
)

type Executor struct {
	session *browser.Session
}

type ExecutionResult struct {
	Success   bool
	Message   string
	Extracted string
	Done      bool
}

type ExecutionContext struct {
	TaskDescription string
	Plan            *Plan
	ExecutedSteps   []ExecutedStep
	CurrentStepNum  int
}

type ExecutedStep struct {
	Step      Step
	Success   bool
	Error     error
	Timestamp time.Time
}

func NewExecutor(session *browser.Session) *Executor {
	return &Executor{session: session}
}

func (e *Executor) ExecuteStep(step Step, execCtx *ExecutionContext) (*ExecutionResult, error) {
	switch step.Action {
	case "navigate":
		return e.executeNavigate(step)
	case "fill":
		return e.executeFill(step)
	case "click":
		return e.executeClick(step)
	case "wait":
		return e.executeWait(step)
	case "switch_tab":
		return e.executeSwitchTab(step)
	case "extract":
		return e.executeExtract(step)
	case "verify":
		return e.executeVerify(step)
	case "done":
		return e.executeDone(step)
	default:
		return nil, fmt.Errorf("unknown action %q", step.Action)
	}
}

func (e *Executor) executeNavigate(step Step) (*ExecutionResult, error) {
	if step.Target == "" {
		return nil, fmt.Errorf("navigate requires target URL")
	}

	if err := e.session.Navigate(step.Target, navigateTimeout); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", step.Target, err)
	}
	e.session.Sleep(defaultWait)

	return &ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Navigated to %s", step.Target),
	}, nil
}

// executeFill writes text through the fallback action executor, so a drifted
// absolute selector is recovered the same way on a live run as on replay.
func (e *Executor) executeFill(step Step) (*ExecutionResult, error) {
	if step.Target == "" {
		return nil, fmt.Errorf("fill requires target selector")
	}
	if step.Value == "" {
		return nil, fmt.Errorf("fill requires value")
	}

	if err := replay.Execute(e.session, step.Target, replay.ActionFill, step.Value, step.Description); err != nil {
		return nil, fmt.Errorf("fill %s: %w", step.Target, err)
	}

	return &ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Filled %s", step.Target),
	}, nil
}

func (e *Executor) executeClick(step Step) (*ExecutionResult, error) {
	if step.Target == "" {
		return nil, fmt.Errorf("click requires target selector")
	}

	if err := replay.Execute(e.session, step.Target, replay.ActionClick, "", step.Description); err != nil {
		return nil, fmt.Errorf("click %s: %w", step.Target, err)
	}

	return &ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Clicked %s", step.Target),
	}, nil
}

func (e *Executor) executeWait(step Step) (*ExecutionResult, error) {
	duration := defaultWait
	if step.Value != "" {
		if parsed, err := time.ParseDuration(step.Value); err == nil {
			duration = parsed
		}
	}

	e.session.Sleep(duration)
	return &ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Waited %v", duration),
	}, nil
}

func (e *Executor) executeSwitchTab(step Step) (*ExecutionResult, error) {
	index := 1
	if step.Value != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(step.Value))
		if err != nil {
			return nil, fmt.Errorf("switch_tab value %q is not an index", step.Value)
		}
		index = parsed
	}

	if err := e.session.SwitchTab(index, extractTimeout); err != nil {
		return nil, fmt.Errorf("switch to tab %d: %w", index, err)
	}
	e.session.Sleep(stepSettle)

	return &ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Switched to tab %d", index),
	}, nil
}

func (e *Executor) executeExtract(step Step) (*ExecutionResult, error) {
	if step.Target == "" {
		return nil, fmt.Errorf("extract requires target selector")
	}

	text, err := e.session.GetText(step.Target, extractTimeout)
	if err != nil {
		return nil, fmt.Errorf("extract from %s: %w", step.Target, err)
	}
	text = strings.TrimSpace(text)

	fmt.Printf("   extracted: %s\n", text)

	return &ExecutionResult{
		Success:   true,
		Message:   fmt.Sprintf("Extracted: %s", text),
		Extracted: text,
	}, nil
}

func (e *Executor) executeVerify(step Step) (*ExecutionResult, error) {
	pageState, err := e.session.GetPageState()
	if err != nil {
		return nil, fmt.Errorf("get page state: %w", err)
	}

	if step.Value != "" {
		needle := strings.ToLower(step.Value)
		if !strings.Contains(strings.ToLower(pageState.URL), needle) &&
			!strings.Contains(strings.ToLower(pageState.Title), needle) &&
			!strings.Contains(strings.ToLower(pageState.Content), needle) {
			return nil, fmt.Errorf("verification failed: %q not found on page", step.Value)
		}
	}

	return &ExecutionResult{
		Success: true,
		Message: "Verification passed",
	}, nil
}

func (e *Executor) executeDone(step Step) (*ExecutionResult, error) {
	message := step.Value
	if message == "" {
		message = step.Description
	}
	return &ExecutionResult{
		Success: true,
		Message: message,
		Done:    true,
	}, nil
}
