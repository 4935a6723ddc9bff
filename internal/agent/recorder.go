package agent

import (
	"github.com/sparsh-goyal/browser-use/internal/replay"
)

// Recorder folds the agent's successfully executed actions into a replayable
// script. Only actions that mutate the page are recorded; waits, extracts and
// verifications are run-time concerns the replay does not need.
type Recorder struct {
	script  replay.Script
	current *replay.Step
}

func NewRecorder(task string) *Recorder {
	return &Recorder{script: replay.Script{Task: task}}
}

// StartStep opens a new step; subsequent actions are recorded under it.
// Steps that end up with no recorded actions are dropped on Script().
func (r *Recorder) StartStep(label string) {
	r.flush()
	r.current = &replay.Step{Label: label}
}

func (r *Recorder) RecordNavigate(url string) {
	r.record(replay.Action{Kind: replay.KindNavigate, URL: url})
}

func (r *Recorder) RecordFill(selector, text string) {
	r.record(replay.Action{Kind: replay.KindFill, Selector: selector, Text: text})
}

func (r *Recorder) RecordClick(selector string) {
	r.record(replay.Action{Kind: replay.KindClick, Selector: selector})
}

func (r *Recorder) RecordSwitchTab(index int) {
	r.record(replay.Action{Kind: replay.KindSwitchTab, TabIndex: index})
}

func (r *Recorder) RecordDone(success bool, message string) {
	r.record(replay.Action{Kind: replay.KindDone, Success: success, Message: message})
}

// Script returns the recorded script. The recorder stays usable; further
// actions keep appending.
func (r *Recorder) Script() *replay.Script {
	r.flush()
	script := r.script
	return &script
}

func (r *Recorder) Save(path string) error {
	return r.Script().Save(path)
}

func (r *Recorder) record(a replay.Action) {
	if r.current == nil {
		r.current = &replay.Step{}
	}
	r.current.Actions = append(r.current.Actions, a)
}

func (r *Recorder) flush() {
	if r.current != nil && len(r.current.Actions) > 0 {
		r.script.Steps = append(r.script.Steps, *r.current)
	}
	r.current = nil
}
