package chat

import (
	"github.com/surveyorhq/surveyor/internal/session"
)

// Target names the controller that should handle an inbound message.
type Target string

const (
	TargetIdentify        Target = "identify"
	TargetJobMenu         Target = "job_menu"
	TargetJobConfirm      Target = "job_confirm"
	TargetLocationMenu    Target = "location_menu"
	TargetSubLocationMenu Target = "sublocation_menu"
	TargetTaskMenu        Target = "task_menu"
	TargetTaskFlow        Target = "task_flow"
)

// Route picks the controller for an inbound message from the session
// state alone. It is a pure function: no I/O, no mutation. Every state
// maps to some controller; input the chosen controller cannot interpret
// is its job to answer with a recovery reply, never an error, because a
// conversational channel gives no guarantee that a reply pairs with the
// prompt that preceded it.
//
// Cursor fields are re-checked on the way down: a session claiming to be
// at the task menu without a sub-location cursor (a partially expired or
// hand-rolled document) degrades to the nearest menu that is consistent.
func Route(s *session.Session, msg InboundMessage) Target {
	if s.Inspector == nil {
		return TargetIdentify
	}

	switch s.JobStatusOf() {
	case session.JobNone:
		return TargetJobMenu
	case session.JobConfirming:
		return TargetJobConfirm
	}

	// Job started: inside the walk.
	if s.Draft != nil && s.Task != nil {
		return TargetTaskFlow
	}

	switch s.LastMenu {
	case session.MenuTasks:
		if s.Location != nil && s.SubLocation != nil {
			return TargetTaskMenu
		}
	case session.MenuSubLocations:
		if s.Location != nil {
			return TargetSubLocationMenu
		}
	}
	return TargetLocationMenu
}
