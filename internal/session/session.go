// Package session holds the per-conversation state document for the chat
// inspection engine, the TTL-bound store it lives in, and the merger all
// controllers use to update it.
//
// A session is one JSON document per conversation identity (channel +
// phone). It tracks who the inspector is, which work order is in progress,
// where in the checklist walk the conversation is, and the drafted task
// data and buffered media that have not yet been committed durably.
package session

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle of the session's work-order binding. It moves
// forward only: none -> confirming -> started. Regression requires an
// explicit reset (completion or cancellation).
type JobStatus string

const (
	JobNone       JobStatus = "none"
	JobConfirming JobStatus = "confirming"
	JobStarted    JobStatus = "started"
)

// TaskStage is a point in the per-task recording flow.
type TaskStage string

const (
	StageCondition  TaskStage = "condition"
	StageMedia      TaskStage = "media"
	StageRemarks    TaskStage = "remarks"
	StageConfirm    TaskStage = "confirm"
	StageCause      TaskStage = "cause"
	StageResolution TaskStage = "resolution"
)

// Menu identifies the most recently shown menu, used to interpret bare
// numeric replies and to recover from unrecognized input.
type Menu string

const (
	MenuNone         Menu = ""
	MenuJobs         Menu = "jobs"
	MenuJobConfirm   Menu = "job_confirm"
	MenuLocations    Menu = "locations"
	MenuSubLocations Menu = "sublocations"
	MenuTasks        Menu = "tasks"
)

// InspectorRef binds a session to an authenticated inspector.
type InspectorRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// JobRef binds a session to a work order.
type JobRef struct {
	ID     uint      `json:"id"`
	Number string    `json:"number"`
	Status JobStatus `json:"status"`
}

// Cursor points into the externally-owned checklist tree (a location,
// sub-location, or task), identifying where in the walk the inspector is.
type Cursor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// JobChoice is one numbered row of the last rendered job menu. A bare
// numeric reply resolves against this snapshot, not against a fresh query,
// so the selection is deterministic even if the job list has changed.
type JobChoice struct {
	ID     uint   `json:"id"`
	Number string `json:"number"`
}

// MediaUpload is evidence already stored in object storage but not yet
// attached to a durable entry. Exactly one of TaskID / LocationID is set.
type MediaUpload struct {
	URL        string    `json:"url"`
	StorageKey string    `json:"storageKey"`
	MediaType  string    `json:"mediaType"`
	TaskID     *uint     `json:"taskRef,omitempty"`
	LocationID *uint     `json:"locationRef,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
	Condition  string    `json:"condition,omitempty"`
}

// Validate checks the one-of task/location reference invariant.
func (m MediaUpload) Validate() error {
	if (m.TaskID == nil) == (m.LocationID == nil) {
		return fmt.Errorf("session: media upload %s must reference exactly one of task or location", m.StorageKey)
	}
	return nil
}

// TaskDraft is the stage-scoped draft for the task currently being
// recorded. The Stage tag determines which fields may be set; Validate
// rejects documents that carry fields illegal for their stage, so a
// malformed merge cannot smuggle cause text into a task that was never
// marked unsatisfactory.
type TaskDraft struct {
	Stage      TaskStage `json:"stage"`
	Condition  string    `json:"condition,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	Cause      string    `json:"cause,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
}

// Validate checks that only fields legal for the tagged stage are set.
func (d TaskDraft) Validate() error {
	switch d.Stage {
	case StageCondition:
		if d.Condition != "" || d.Remarks != "" || d.Cause != "" || d.Resolution != "" {
			return fmt.Errorf("session: draft at %s stage must be empty", d.Stage)
		}
	case StageMedia, StageRemarks:
		if d.Condition == "" {
			return fmt.Errorf("session: draft at %s stage requires a condition", d.Stage)
		}
		if d.Cause != "" || d.Resolution != "" {
			return fmt.Errorf("session: draft at %s stage cannot carry cause or resolution", d.Stage)
		}
	case StageConfirm:
		if d.Condition == "" {
			return fmt.Errorf("session: draft at %s stage requires a condition", d.Stage)
		}
		if d.Cause != "" || d.Resolution != "" {
			return fmt.Errorf("session: draft at %s stage cannot carry cause or resolution", d.Stage)
		}
	case StageCause:
		if d.Condition != "unsatisfactory" {
			return fmt.Errorf("session: cause stage requires unsatisfactory condition, got %q", d.Condition)
		}
		if d.Resolution != "" {
			return fmt.Errorf("session: draft at cause stage cannot carry a resolution")
		}
	case StageResolution:
		if d.Condition != "unsatisfactory" {
			return fmt.Errorf("session: resolution stage requires unsatisfactory condition, got %q", d.Condition)
		}
	default:
		return fmt.Errorf("session: unknown task stage %q", d.Stage)
	}
	return nil
}

// Session is the per-conversation state document.
type Session struct {
	Identity      string        `json:"identity"`
	Inspector     *InspectorRef `json:"inspectorRef,omitempty"`
	Job           *JobRef       `json:"jobRef,omitempty"`
	Location      *Cursor       `json:"locationCursor,omitempty"`
	SubLocation   *Cursor       `json:"subLocationCursor,omitempty"`
	Task          *Cursor       `json:"taskCursor,omitempty"`
	Draft         *TaskDraft    `json:"taskDraft,omitempty"`
	Media         []MediaUpload `json:"pendingMediaUploads,omitempty"`
	LastMenu      Menu          `json:"lastMenu,omitempty"`
	JobsSnapshot  []JobChoice   `json:"lastJobsSnapshot,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastUpdatedAt time.Time     `json:"lastUpdatedAt"`
}

// New returns an empty session for an identity. This is also the document
// the merger falls back to when the store is unavailable or the previous
// document expired: a fresh conversation starting at identification.
func New(identity string) *Session {
	return &Session{Identity: identity}
}

// JobStatusOf returns the job binding status, mapping an absent binding
// to JobNone.
func (s *Session) JobStatusOf() JobStatus {
	if s.Job == nil {
		return JobNone
	}
	return s.Job.Status
}

// TaskMedia returns the buffered uploads referencing the given task.
func (s *Session) TaskMedia(taskID uint) []MediaUpload {
	var out []MediaUpload
	for _, m := range s.Media {
		if m.TaskID != nil && *m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

// LocationMedia returns the buffered uploads referencing the given location.
func (s *Session) LocationMedia(locationID uint) []MediaUpload {
	var out []MediaUpload
	for _, m := range s.Media {
		if m.LocationID != nil && *m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out
}
