package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare json",
			input:    `{"steps": []}`,
			expected: `{"steps": []}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"steps\": []}\n```",
			expected: `{"steps": []}`,
		},
		{
			name:     "plain fence",
			input:    "```\n{\"steps\": []}\n```",
			expected: `{"steps": []}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"steps\": []}\n  ",
			expected: `{"steps": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name     string
		response string
		errorMsg string
		steps    int
	}{
		{
			name: "valid plan",
			response: `{"steps": [
				{"action": "navigate", "description": "open site", "target": "https://realtor.ca", "critical": true},
				{"action": "fill", "description": "enter city", "target": "xpath=/html/body/form/input[2]", "value": "Ottawa", "critical": true},
				{"action": "wait", "description": "wait for results", "value": "3s"},
				{"action": "done", "description": "finish", "value": "price visible"}
			]}`,
			steps: 4,
		},
		{
			name: "fenced plan",
			response: "```json\n" + `{"steps": [{"action": "navigate", "description": "open", "target": "https://realtor.ca"}]}` + "\n```",
			steps: 1,
		},
		{
			name:     "not json",
			response: "I could not produce a plan",
			errorMsg: "invalid character",
		},
		{
			name:     "empty plan",
			response: `{"steps": []}`,
			errorMsg: "no steps",
		},
		{
			name:     "navigate without url",
			response: `{"steps": [{"action": "navigate", "description": "open"}]}`,
			errorMsg: "must have a URL",
		},
		{
			name:     "click without selector",
			response: `{"steps": [{"action": "click", "description": "press"}]}`,
			errorMsg: "must have a target selector",
		},
		{
			name:     "fill without value",
			response: `{"steps": [{"action": "fill", "description": "type", "target": "xpath=/a/b"}]}`,
			errorMsg: "must have a value",
		},
		{
			name:     "unknown action",
			response: `{"steps": [{"action": "hover", "description": "hover", "target": "xpath=/a"}]}`,
			errorMsg: "unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := parsePlan(tt.response)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, plan.Steps, tt.steps)
		})
	}
}
