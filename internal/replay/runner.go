package replay

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	navigateTimeout = 5 * time.Second
	tabLoadTimeout  = 15 * time.Second
	postNavDelay    = 1 * time.Second
)

// Session is the slice of the browser layer the runner drives: element
// interactions plus navigation and tab control.
type Session interface {
	ActionRunner
	Navigate(url string, timeout time.Duration) error
	WaitForLoad(timeout time.Duration) error
	SwitchTab(index int, timeout time.Duration) error
}

// Runner executes a recorded script against a live session, recovering from
// selector drift through the fallback action executor.
type Runner struct {
	session   Session
	sensitive map[string]string
}

func NewRunner(session Session, sensitive map[string]string) *Runner {
	return &Runner{session: session, sensitive: sensitive}
}

// Run validates and executes the script. The first unrecovered action failure
// aborts the remainder of the run.
func (r *Runner) Run(script *Script) error {
	if err := script.Validate(); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	fmt.Println("--- starting recorded script execution ---")
	for si, step := range script.Steps {
		for ai, action := range step.Actions {
			label := step.Label
			if label == "" {
				label = fmt.Sprintf("Step %d", si+1)
			}
			label = fmt.Sprintf("%s, Action %d", label, ai+1)
			if err := r.runAction(action, label); err != nil {
				return err
			}
		}
	}
	fmt.Println("--- recorded script execution finished ---")
	return nil
}

func (r *Runner) runAction(a Action, label string) error {
	switch a.Kind {
	case KindNavigate:
		fmt.Printf("Navigating to: %s (%s)\n", a.URL, label)
		if err := r.session.Navigate(a.URL, navigateTimeout); err != nil {
			return fmt.Errorf("navigate to %s (%s): %w", a.URL, label, err)
		}
		if err := r.session.WaitForLoad(navigateTimeout); err != nil {
			return fmt.Errorf("wait for load after %s (%s): %w", a.URL, label, err)
		}
		r.session.Sleep(postNavDelay)
		return nil

	case KindFill:
		text := ReplaceSensitiveData(a.Text, r.sensitive)
		return Execute(r.session, a.Selector, ActionFill, text, label)

	case KindClick:
		return Execute(r.session, a.Selector, ActionClick, "", label)

	case KindSwitchTab:
		fmt.Printf("Switching to tab %d (%s)\n", a.TabIndex, label)
		if err := r.session.SwitchTab(a.TabIndex, tabLoadTimeout); err != nil {
			// The tab the agent saw may never open on replay; keep going.
			logrus.WithField("tab", a.TabIndex).WithError(err).Warnf("tab switch failed (%s)", label)
			return nil
		}
		r.session.Sleep(SettleDelay)
		return nil

	case KindDone:
		fmt.Printf("\n--- task marked as done by agent (%s) ---\n", label)
		fmt.Printf("agent reported success: %v\n", a.Success)
		if msg := ReplaceSensitiveData(a.Message, r.sensitive); msg != "" {
			fmt.Println(msg)
		}
		return nil

	default:
		return fmt.Errorf("unknown action kind %q (%s)", a.Kind, label)
	}
}
