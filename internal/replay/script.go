package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Action kinds understood by the script runner.
const (
	KindNavigate  = "navigate"
	KindFill      = "fill"
	KindClick     = "click"
	KindSwitchTab = "switch_tab"
	KindDone      = "done"
)

// Script is the replayable record of an agent run: the ordered actions the
// agent executed, grouped by the step they belonged to.
type Script struct {
	Task  string `json:"task,omitempty"`
	Steps []Step `json:"steps"`
}

// Step groups the actions the agent executed within one step of its plan.
type Step struct {
	Label   string   `json:"label,omitempty"`
	Actions []Action `json:"actions"`
}

// Action is a single recorded interaction. Text may carry
// <secret>NAME</secret> placeholders resolved at execution time.
type Action struct {
	Kind     string `json:"kind"`
	Selector string `json:"selector,omitempty"`
	Text     string `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	TabIndex int    `json:"tab_index,omitempty"`
	Success  bool   `json:"success,omitempty"`
	Message  string `json:"message,omitempty"`
}

// LoadScript reads and decodes a recorded script from disk.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var script Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &script, nil
}

// Save writes the script as indented JSON, creating parent directories.
func (s *Script) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode script: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create script directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

// Validate rejects scripts that would fail mid-run, so a hand-edited script
// fails fast instead of after the browser has launched.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for si, step := range s.Steps {
		for ai, action := range step.Actions {
			where := fmt.Sprintf("step %d action %d", si+1, ai+1)
			switch action.Kind {
			case KindNavigate:
				if action.URL == "" {
					return fmt.Errorf("%s: navigate requires a url", where)
				}
			case KindFill:
				if action.Selector == "" {
					return fmt.Errorf("%s: fill requires a selector", where)
				}
				if action.Text == "" {
					return fmt.Errorf("%s: fill requires text", where)
				}
			case KindClick:
				if action.Selector == "" {
					return fmt.Errorf("%s: click requires a selector", where)
				}
			case KindSwitchTab:
				if action.TabIndex < 0 {
					return fmt.Errorf("%s: switch_tab requires a non-negative tab index", where)
				}
			case KindDone:
			default:
				return fmt.Errorf("%s: unknown action kind %q", where, action.Kind)
			}
		}
	}
	return nil
}

// PlaceholderNames returns the distinct placeholder names referenced anywhere
// in the script's fill texts and final message.
func (s *Script) PlaceholderNames() []string {
	var names []string
	seen := map[string]bool{}
	collect := func(text string) {
		for _, name := range PlaceholderNames(text) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for _, step := range s.Steps {
		for _, action := range step.Actions {
			collect(action.Text)
			collect(action.Message)
		}
	}
	return names
}
