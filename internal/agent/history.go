package agent

import (
	"fmt"
	"time"
)

// Record is one executed action in the run history.
type Record struct {
	Action    string
	URL       string
	Extracted string
	Err       error
	Timestamp time.Time
}

// History accumulates what the agent did, mirroring the run summary the
// driver prints once the task finishes.
type History struct {
	records     []Record
	done        bool
	success     bool
	finalResult string
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(r Record) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	h.records = append(h.records, r)
}

func (h *History) MarkDone(success bool, finalResult string) {
	h.done = true
	h.success = success
	h.finalResult = finalResult
}

func (h *History) IsDone() bool       { return h.done }
func (h *History) IsSuccessful() bool { return h.done && h.success }

// URLs returns the pages visited, collapsing consecutive duplicates.
func (h *History) URLs() []string {
	var urls []string
	for _, r := range h.records {
		if r.URL == "" {
			continue
		}
		if len(urls) > 0 && urls[len(urls)-1] == r.URL {
			continue
		}
		urls = append(urls, r.URL)
	}
	return urls
}

func (h *History) ActionNames() []string {
	names := make([]string, 0, len(h.records))
	for _, r := range h.records {
		names = append(names, r.Action)
	}
	return names
}

func (h *History) ExtractedContent() []string {
	var content []string
	for _, r := range h.records {
		if r.Extracted != "" {
			content = append(content, r.Extracted)
		}
	}
	return content
}

func (h *History) Errors() []error {
	var errs []error
	for _, r := range h.records {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

func (h *History) HasErrors() bool {
	return len(h.Errors()) > 0
}

func (h *History) FinalResult() string {
	return h.finalResult
}

// PrintSummary writes the human-readable run recap.
func (h *History) PrintSummary() {
	fmt.Println("Visited URLs:", h.URLs())
	fmt.Println("Executed actions:", h.ActionNames())
	if extracted := h.ExtractedContent(); len(extracted) > 0 {
		fmt.Println("Extracted content:", extracted)
	}
	if h.finalResult != "" {
		fmt.Println("Final result:", h.finalResult)
	}
	if h.HasErrors() {
		fmt.Println("Errors:", h.Errors())
	}
}
