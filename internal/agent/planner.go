package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sparsh-goyal/browser-use/internal/llm"
)

type Planner struct {
	llm *llm.Client
}

type Plan struct {
	Steps []Step `json:"steps"`
}

type Step struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	Target      string `json:"target,omitempty"`
	Value       string `json:"value,omitempty"`
	Critical    bool   `json:"critical"`
}

func NewPlanner(llmClient *llm.Client) *Planner {
	return &Planner{llm: llmClient}
}

func (p *Planner) CreatePlan(ctx context.Context, taskDescription string) (*Plan, error) {
	prompt := fmt.Sprintf(`You are a browser automation planner for real-estate listing sites. Create a step-by-step plan for this task:

Task: %s

Available actions:
- navigate: Go to URL (target: URL)
- fill: Type text into an input (target: selector, value: text)
- click: Click element (target: selector)
- wait: Wait for a duration (value: duration like "2s")
- switch_tab: Switch to another open tab (value: tab index, e.g. "1")
- extract: Extract text (target: selector, description: what to extract)
- verify: Verify page state (value: expected text)
- done: Mark the task finished (value: final result message)

Selector guidelines:
1. Prefer absolute XPath selectors prefixed with "xpath=", e.g. "xpath=/html/body/form/div[2]/input[1]". Absolute paths allow position-based recovery when the page layout drifts.
2. Listing sites open property pages in a new tab; add a switch_tab step after clicking a listing.
3. Include short wait steps after navigation and after search submission.
4. End the plan with a verify step for the expected content and a done step summarizing the outcome.

Return ONLY valid JSON in this format:
{
  "steps": [
    {
      "action": "navigate",
      "description": "Open the listing site",
      "target": "https://www.realtor.ca",
      "critical": true
    },
    {
      "action": "fill",
      "description": "Enter the city into the search box",
      "target": "xpath=/html/body/form/div[5]/div[2]/span/div/div[1]/div/div/div/div/div[2]/div/div/div/input[2]",
      "value": "Ottawa",
      "critical": true
    },
    {
      "action": "wait",
      "description": "Wait for results",
      "value": "3s",
      "critical": false
    }
  ]
}`, taskDescription)

	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	plan, err := parsePlan(response)
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w (response: %s)", err, response)
	}

	return plan, nil
}

func (p *Planner) Replan(ctx context.Context, execCtx *ExecutionContext, reason string) (*Plan, error) {
	executedStepsDesc := ""
	for i, step := range execCtx.ExecutedSteps {
		status := "ok"
		if !step.Success {
			status = "failed"
		}
		executedStepsDesc += fmt.Sprintf("%d. [%s] %s\n", i+1, status, step.Step.Description)
	}

	prompt := fmt.Sprintf(`You are a browser automation planner. The current plan needs adjustment.

Original Task: %s

Steps executed so far:
%s

Reason for replanning: %s

Generate a NEW complete plan that:
1. Considers what has already been accomplished
2. Addresses the issue that caused replanning
3. Continues from the current state to complete the task
4. Uses only these actions: navigate, fill, click, wait, switch_tab, extract, verify, done

Return ONLY valid JSON in the same format as before.`, execCtx.TaskDescription, executedStepsDesc, reason)

	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate replan: %w", err)
	}

	plan, err := parsePlan(response)
	if err != nil {
		return nil, fmt.Errorf("parse replan: %w", err)
	}

	return plan, nil
}

// parsePlan decodes a plan from an LLM response, tolerating fenced code
// blocks, and rejects steps missing required fields.
func parsePlan(response string) (*Plan, error) {
	response = stripCodeFence(response)

	var plan Plan
	if err := json.Unmarshal([]byte(response), &plan); err != nil {
		return nil, err
	}

	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}

	for i, step := range plan.Steps {
		if step.Action == "" {
			return nil, fmt.Errorf("step %d has empty action", i+1)
		}
		switch step.Action {
		case "navigate":
			if step.Target == "" {
				return nil, fmt.Errorf("step %d (navigate) must have a URL", i+1)
			}
		case "click", "extract":
			if step.Target == "" {
				return nil, fmt.Errorf("step %d (action: %s) must have a target selector", i+1, step.Action)
			}
		case "fill":
			if step.Target == "" {
				return nil, fmt.Errorf("step %d (fill) must have a target selector", i+1)
			}
			if step.Value == "" {
				return nil, fmt.Errorf("step %d (fill) must have a value", i+1)
			}
		case "wait", "switch_tab", "verify", "done":
		default:
			return nil, fmt.Errorf("step %d has unknown action %q", i+1, step.Action)
		}
	}

	return &plan, nil
}

func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimSuffix(response, "```")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
	}
	return strings.TrimSpace(response)
}
