package replay

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attemptRecord struct {
	kind     ActionKind
	selector string
	text     string
	timeout  time.Duration
}

// fakeRunner fails every attempt until succeedAt (1-based) is reached.
// succeedAt 0 means every attempt fails.
type fakeRunner struct {
	succeedAt int
	clearErr  error

	attempts []attemptRecord
	cleared  []string
	slept    []time.Duration
}

func (f *fakeRunner) try(kind ActionKind, selector, text string, timeout time.Duration) error {
	f.attempts = append(f.attempts, attemptRecord{kind: kind, selector: selector, text: text, timeout: timeout})
	if f.succeedAt != 0 && len(f.attempts) >= f.succeedAt {
		return nil
	}
	return errors.New("element not found")
}

func (f *fakeRunner) Click(selector string, timeout time.Duration) error {
	return f.try(ActionClick, selector, "", timeout)
}

func (f *fakeRunner) Fill(selector, text string, timeout time.Duration) error {
	return f.try(ActionFill, selector, text, timeout)
}

func (f *fakeRunner) Clear(selector string, timeout time.Duration) error {
	f.cleared = append(f.cleared, selector)
	return f.clearErr
}

func (f *fakeRunner) Sleep(d time.Duration) {
	f.slept = append(f.slept, d)
}

func TestExecuteSucceedsWithOriginalSelector(t *testing.T) {
	runner := &fakeRunner{succeedAt: 1}

	err := Execute(runner, "xpath=/html/body/div/a", ActionClick, "", "Step 1, Action 1")
	require.NoError(t, err)

	require.Len(t, runner.attempts, 1)
	assert.Equal(t, "xpath=/html/body/div/a", runner.attempts[0].selector)
	assert.Equal(t, InitialTimeout, runner.attempts[0].timeout)
	assert.Empty(t, runner.cleared)
	assert.Contains(t, runner.slept, SettleDelay)
}

func TestExecuteNonXPathFailsImmediately(t *testing.T) {
	runner := &fakeRunner{}

	err := Execute(runner, "#search-box", ActionClick, "", "Step 1, Action 1")

	var noFallback *NoFallbackError
	require.ErrorAs(t, err, &noFallback)
	assert.Equal(t, "#search-box", noFallback.Selector)
	assert.Equal(t, ActionClick, noFallback.Action)
	assert.Len(t, runner.attempts, 1, "non-xpath selectors get exactly one attempt")
	assert.Empty(t, runner.slept, "no settle wait on failure")
}

func TestExecuteFallbackTrimsFromRoot(t *testing.T) {
	runner := &fakeRunner{succeedAt: 2}

	err := Execute(runner, "xpath=//a/b/c/d", ActionClick, "", "Step 2, Action 1")
	require.NoError(t, err)

	require.Len(t, runner.attempts, 2)
	assert.Equal(t, "xpath=//a/b/c/d", runner.attempts[0].selector)
	assert.Equal(t, "xpath=//b/c/d", runner.attempts[1].selector)
	assert.Equal(t, FallbackTimeout, runner.attempts[1].timeout)
}

func TestExecuteExhaustsAllFallbacks(t *testing.T) {
	runner := &fakeRunner{}

	err := Execute(runner, "xpath=//a/b/c/d", ActionClick, "", "Step 2, Action 1")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts, "1 original + 3 fallbacks")
	assert.Equal(t, "xpath=//a/b/c/d", exhausted.Selector)

	selectors := make([]string, 0, len(runner.attempts))
	for _, a := range runner.attempts {
		selectors = append(selectors, a.selector)
	}
	assert.Equal(t, []string{
		"xpath=//a/b/c/d",
		"xpath=//b/c/d",
		"xpath=//c/d",
		"xpath=//d",
	}, selectors, "trim level increases by one segment per attempt")
}

func TestExecuteAttemptBounds(t *testing.T) {
	tests := []struct {
		name         string
		segments     int
		wantAttempts int
	}{
		{name: "single segment has no fallbacks", segments: 1, wantAttempts: 1},
		{name: "two segments allow one fallback", segments: 2, wantAttempts: 2},
		{name: "ten segments allow nine fallbacks", segments: 10, wantAttempts: 10},
		{name: "fallbacks capped at MaxFallbacks", segments: 60, wantAttempts: MaxFallbacks + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := make([]string, tt.segments)
			for i := range parts {
				parts[i] = fmt.Sprintf("seg%d", i)
			}
			selector := "xpath=/" + strings.Join(parts, "/")

			runner := &fakeRunner{}
			err := Execute(runner, selector, ActionClick, "", "bounds")

			var exhausted *ExhaustedError
			require.ErrorAs(t, err, &exhausted)
			assert.Equal(t, tt.wantAttempts, exhausted.Attempts)
			assert.Len(t, runner.attempts, tt.wantAttempts)
		})
	}
}

func TestExecuteFillClearsOnFallbackOnly(t *testing.T) {
	runner := &fakeRunner{succeedAt: 2}

	err := Execute(runner, "xpath=/form/input", ActionFill, "Ottawa", "Step 2, Action 1")
	require.NoError(t, err)

	require.Len(t, runner.attempts, 2)
	assert.Equal(t, "Ottawa", runner.attempts[1].text)
	assert.Equal(t, []string{"xpath=//input"}, runner.cleared, "clear runs only before fallback fills")
	assert.Contains(t, runner.slept, clearPause)
}

func TestExecuteFillClearFailureIsNonFatal(t *testing.T) {
	runner := &fakeRunner{succeedAt: 2, clearErr: errors.New("not editable")}

	err := Execute(runner, "xpath=/form/input", ActionFill, "Ottawa", "Step 2, Action 1")
	require.NoError(t, err)

	assert.Len(t, runner.cleared, 1)
	assert.NotContains(t, runner.slept, clearPause, "no pause when clear failed")
}

func TestExecuteRejectsUnknownActionKind(t *testing.T) {
	runner := &fakeRunner{succeedAt: 1}

	err := Execute(runner, "xpath=/a/b", ActionKind("hover"), "", "Step 1, Action 1")
	require.Error(t, err)
	assert.Empty(t, runner.attempts, "invalid kinds never reach the driver")
}
