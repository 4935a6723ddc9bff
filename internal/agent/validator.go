package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sparsh-goyal/browser-use/internal/browser"
	"github.com/sparsh-goyal/browser-use/internal/llm"
)

type Validator struct {
	llm *llm.Client
}

type ValidationResult struct {
	IsComplete      bool    `json:"is_complete"`
	NeedsReplanning bool    `json:"needs_replanning"`
	Message         string  `json:"message"`
	Confidence      float64 `json:"confidence"`
}

func NewValidator(llmClient *llm.Client) *Validator {
	return &Validator{llm: llmClient}
}

// ValidateProgress asks the model whether the task is complete or the plan is
// off track. Validation failures never abort the run; the agent just keeps
// following its plan.
func (v *Validator) ValidateProgress(ctx context.Context, execCtx *ExecutionContext, pageState *browser.PageState) (*ValidationResult, error) {
	executedStepsDesc := ""
	for i, step := range execCtx.ExecutedSteps {
		status := "ok"
		if !step.Success {
			status = "failed"
		}
		executedStepsDesc += fmt.Sprintf("%d. [%s] %s\n", i+1, status, step.Step.Description)
	}

	remainingStepsDesc := ""
	for i := execCtx.CurrentStepNum; i < len(execCtx.Plan.Steps) && i < execCtx.CurrentStepNum+5; i++ {
		remainingStepsDesc += fmt.Sprintf("%d. %s\n", i+1, execCtx.Plan.Steps[i].Description)
	}

	contentPreview := pageState.Content
	if len(contentPreview) > 2000 {
		contentPreview = contentPreview[:2000] + "..."
	}

	prompt := fmt.Sprintf(`You are validating browser automation progress.

Original Task: %s

Executed Steps:
%s

Remaining Planned Steps:
%s

Current Page State:
- URL: %s
- Title: %s
- Content Preview: %s

Analyze if:
1. The task is complete (goal achieved)
2. Progress is stuck or going wrong (needs replanning)
3. Everything is progressing normally (continue as planned)

Return ONLY valid JSON:
{
  "is_complete": true/false,
  "needs_replanning": true/false,
  "message": "explanation",
  "confidence": 0.0-1.0
}`, execCtx.TaskDescription, executedStepsDesc, remainingStepsDesc, pageState.URL, pageState.Title, contentPreview)

	response, err := v.llm.Generate(ctx, prompt)
	if err != nil {
		return &ValidationResult{
			Message:    "Validation unavailable, continuing",
			Confidence: 0.5,
		}, nil
	}

	var result ValidationResult
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &result); err != nil {
		return &ValidationResult{
			Message:    "Continuing with plan",
			Confidence: 0.5,
		}, nil
	}

	return &result, nil
}
