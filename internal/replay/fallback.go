package replay

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Bounds and pacing for locate-and-act attempts. The original selector gets a
// generous timeout; trimmed fallback selectors get a short one so exhausting
// all of them stays cheap.
const (
	MaxFallbacks    = 50
	InitialTimeout  = 10 * time.Second
	FallbackTimeout = 1 * time.Second
	SettleDelay     = 500 * time.Millisecond
	clearPause      = 100 * time.Millisecond
)

// ActionKind is the element interaction to perform.
type ActionKind string

const (
	ActionClick ActionKind = "click"
	ActionFill  ActionKind = "fill"
)

// ActionRunner is the effectful half of locate-and-act: it resolves the first
// element matching a selector and performs the interaction within the given
// timeout. The retry logic in Execute stays a pure loop over path segments so
// it can be tested without a live page.
type ActionRunner interface {
	Click(selector string, timeout time.Duration) error
	Fill(selector, text string, timeout time.Duration) error
	Clear(selector string, timeout time.Duration) error
	Sleep(d time.Duration)
}

// NoFallbackError reports an action that failed on a selector whose form
// does not support trim-based fallback. Exactly one attempt was made.
type NoFallbackError struct {
	Action   ActionKind
	Selector string
	Label    string
	Cause    error
}

func (e *NoFallbackError) Error() string {
	return fmt.Sprintf("action %q failed, fallback not possible for non-xpath selector %q (%s): %v",
		e.Action, e.Selector, e.Label, e.Cause)
}

func (e *NoFallbackError) Unwrap() error { return e.Cause }

// ExhaustedError reports an action that failed on the original selector and
// on every trimmed fallback variant. Attempts counts the original attempt
// plus all fallbacks tried.
type ExhaustedError struct {
	Action   ActionKind
	Selector string
	Label    string
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("action %q failed after %d attempts, original selector %q (%s)",
		e.Action, e.Attempts, e.Selector, e.Label)
}

// Execute attempts an action against the first element matching selector,
// falling back to progressively trimmed suffix-anchored variants when the
// selector is an absolute xpath. The label is used only in diagnostics.
func Execute(r ActionRunner, selector string, action ActionKind, text, label string) error {
	if action != ActionClick && action != ActionFill {
		return fmt.Errorf("invalid action kind %q (%s)", action, label)
	}

	fmt.Printf("Attempting %s (%s) using selector: %q\n", action, label, selector)

	err := attempt(r, selector, action, text, InitialTimeout, false)
	if err == nil {
		fmt.Printf("  action %q successful with original selector\n", action)
		r.Sleep(SettleDelay)
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"action":   action,
		"selector": selector,
		"label":    label,
	}).WithError(err).Warn("action failed with original selector, starting fallback")

	loc := ParseLocator(selector)
	if !loc.IsXPath() {
		return &NoFallbackError{Action: action, Selector: selector, Label: label, Cause: err}
	}

	segments := loc.Segments()
	attempts := 1
	maxTrim := len(segments) - 1
	if maxTrim > MaxFallbacks {
		maxTrim = MaxFallbacks
	}

	for i := 1; i <= maxTrim; i++ {
		fallback := TrimmedSelector(segments, i)
		fmt.Printf("    fallback attempt %d/%d: trying selector %q\n", i, maxTrim, fallback)
		attempts++

		if err := attempt(r, fallback, action, text, FallbackTimeout, true); err != nil {
			logrus.WithField("selector", fallback).WithError(err).Debugf("fallback attempt %d failed", i)
			continue
		}

		fmt.Printf("    action %q successful with fallback selector %q\n", action, fallback)
		r.Sleep(SettleDelay)
		return nil
	}

	return &ExhaustedError{Action: action, Selector: selector, Label: label, Attempts: attempts}
}

func attempt(r ActionRunner, selector string, action ActionKind, text string, timeout time.Duration, clearFirst bool) error {
	switch action {
	case ActionClick:
		return r.Click(selector, timeout)
	case ActionFill:
		if clearFirst {
			// Best effort only: a field that cannot be cleared may still accept input.
			if err := r.Clear(selector, timeout); err != nil {
				logrus.WithField("selector", selector).WithError(err).Warn("could not clear field before fill")
			} else {
				r.Sleep(clearPause)
			}
		}
		return r.Fill(selector, text, timeout)
	default:
		return fmt.Errorf("invalid action kind %q", action)
	}
}
