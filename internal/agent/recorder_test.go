package agent

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparsh-goyal/browser-use/internal/replay"
)

func TestRecorderBuildsScript(t *testing.T) {
	rec := NewRecorder("search realtor.ca for houses in Ottawa")

	rec.StartStep("Step 1")
	rec.RecordNavigate("https://realtor.ca")

	rec.StartStep("Step 2")
	rec.RecordFill("xpath=/html/body/form/input[2]", "Ottawa")
	rec.RecordClick("xpath=/html/body/form/button")

	rec.StartStep("Step 3")
	rec.RecordSwitchTab(1)
	rec.RecordDone(true, "price is visible")

	script := rec.Script()
	require.NoError(t, script.Validate())
	assert.Equal(t, "search realtor.ca for houses in Ottawa", script.Task)
	require.Len(t, script.Steps, 3)

	assert.Equal(t, "Step 1", script.Steps[0].Label)
	assert.Equal(t, []replay.Action{
		{Kind: replay.KindNavigate, URL: "https://realtor.ca"},
	}, script.Steps[0].Actions)

	assert.Equal(t, []replay.Action{
		{Kind: replay.KindFill, Selector: "xpath=/html/body/form/input[2]", Text: "Ottawa"},
		{Kind: replay.KindClick, Selector: "xpath=/html/body/form/button"},
	}, script.Steps[1].Actions)

	assert.Equal(t, []replay.Action{
		{Kind: replay.KindSwitchTab, TabIndex: 1},
		{Kind: replay.KindDone, Success: true, Message: "price is visible"},
	}, script.Steps[2].Actions)
}

func TestRecorderDropsEmptySteps(t *testing.T) {
	rec := NewRecorder("task")

	rec.StartStep("Step 1")
	rec.RecordNavigate("https://realtor.ca")
	rec.StartStep("Step 2") // nothing recorded: the step was a wait or a failed action
	rec.StartStep("Step 3")
	rec.RecordDone(true, "done")

	script := rec.Script()
	require.Len(t, script.Steps, 2)
	assert.Equal(t, "Step 1", script.Steps[0].Label)
	assert.Equal(t, "Step 3", script.Steps[1].Label)
}

func TestRecorderWithoutStartStep(t *testing.T) {
	rec := NewRecorder("task")
	rec.RecordNavigate("https://realtor.ca")

	script := rec.Script()
	require.Len(t, script.Steps, 1)
	assert.Empty(t, script.Steps[0].Label)
}

func TestRecorderSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay_scripts", "realtor_script.json")

	rec := NewRecorder("task")
	rec.StartStep("Step 1")
	rec.RecordNavigate("https://realtor.ca")
	rec.RecordDone(true, "done")
	require.NoError(t, rec.Save(path))

	loaded, err := replay.LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, rec.Script(), loaded)
}
