package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/surveyorhq/surveyor/internal/models"
	"github.com/surveyorhq/surveyor/internal/session"
)

// Reply text fragments shared across handlers.
const (
	promptIdentify  = "Welcome to Surveyor. Please send your inspector code to begin."
	promptCondition = "What is the condition?\n1. Good\n2. Fair\n3. Unsatisfactory"
	promptMedia     = "Send photos or videos of this task, or reply 'done' to continue."
	promptRemarks   = "Any remarks? Reply with text, or 'skip'."
	promptCause     = "What caused the problem?"
	promptResolve   = "What should be done to resolve it?"
	replyRetry      = "Sorry, that could not be saved. Your entries are safe, please reply 'yes' to try again."
)

// formatJobMenu renders a numbered menu from the inspector's jobs and
// returns the snapshot rows that make later bare-number replies resolve
// deterministically.
func formatJobMenu(jobs []models.WorkOrder) (string, []session.JobChoice) {
	if len(jobs) == 0 {
		return "You have no inspections scheduled for today.", nil
	}
	var b strings.Builder
	b.WriteString("Your inspections for today:\n")
	snapshot := make([]session.JobChoice, 0, len(jobs))
	for i, j := range jobs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, j.Number)
		snapshot = append(snapshot, session.JobChoice{ID: j.ID, Number: j.Number})
	}
	b.WriteString("Reply with a number to choose.")
	return b.String(), snapshot
}

// formatSnapshotMenu re-renders a job menu from a stored snapshot, used by
// the recovery handler so the numbering the inspector sees stays stable.
func formatSnapshotMenu(snapshot []session.JobChoice) string {
	if len(snapshot) == 0 {
		return "You have no inspections scheduled for today."
	}
	var b strings.Builder
	b.WriteString("Your inspections for today:\n")
	for i, c := range snapshot {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Number)
	}
	b.WriteString("Reply with a number to choose.")
	return b.String()
}

// formatLocationMenu renders the location menu for a started job.
func formatLocationMenu(jobNumber string, locs []models.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Locations for %s:\n", jobNumber)
	for i, l := range locs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Name)
	}
	b.WriteString("Reply with a number, 'note <text>' for a location remark, or 'done' to finish the job.")
	return b.String()
}

// formatSubLocationMenu renders the sub-location menu within a location.
func formatSubLocationMenu(locationName string, subs []models.SubLocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Areas in %s:\n", locationName)
	for i, s := range subs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Name)
	}
	b.WriteString("Reply with a number, or '0' to go back.")
	return b.String()
}

// formatTaskMenu renders the task menu within a sub-location.
func formatTaskMenu(subName string, tasks []models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks in %s:\n", subName)
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Name)
	}
	b.WriteString("Reply with a number, or '0' to go back.")
	return b.String()
}

// formatConfirm renders the task summary shown at the confirm stage.
func formatConfirm(taskName string, draft *session.TaskDraft, mediaCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ready to record %q:\n", taskName)
	fmt.Fprintf(&b, "Condition: %s\n", draft.Condition)
	if draft.Remarks != "" {
		fmt.Fprintf(&b, "Remarks: %s\n", draft.Remarks)
	}
	fmt.Fprintf(&b, "Photos/videos: %d\n", mediaCount)
	b.WriteString("Reply 'yes' to confirm, or 'no' to start this task over.")
	return b.String()
}

// parseSelection parses a bare 1-based menu selection. Returns the
// zero-based index and true when the text is a number within [1, n].
func parseSelection(text string, n int) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

// isAffirmative reports whether the text is a yes-like reply.
func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "ok", "confirm", "1":
		return true
	}
	return false
}

// isNegative reports whether the text is a no-like reply.
func isNegative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "n", "no", "cancel", "2":
		return true
	}
	return false
}

// isSkip reports whether the text skips an optional step.
func isSkip(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "skip", "done", "-":
		return true
	}
	return false
}

// parseCondition maps a condition reply (menu number or word) to the
// stored condition value.
func parseCondition(text string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "good":
		return models.ConditionGood, true
	case "2", "fair":
		return models.ConditionFair, true
	case "3", "unsatisfactory", "unsat", "bad":
		return models.ConditionUnsatisfactory, true
	}
	return "", false
}
