package chat

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/surveyorhq/surveyor/internal/inspection"
	"github.com/surveyorhq/surveyor/internal/metrics"
	"github.com/surveyorhq/surveyor/internal/models"
	"github.com/surveyorhq/surveyor/internal/session"
)

// Handlers holds the stage controllers. Each inbound message runs exactly
// one controller, chosen by Route; controllers mutate session state only
// through the merger and touch the durable store only at confirmation
// points.
type Handlers struct {
	merger   *session.Merger
	store    *inspection.Store
	rec      *metrics.Recorder // optional
	menuSize int
	now      func() time.Time
	out      io.Writer
}

// HandlersOpts holds parameters for creating Handlers.
type HandlersOpts struct {
	Merger   *session.Merger
	Store    *inspection.Store
	Recorder *metrics.Recorder // optional
	MenuSize int               // max rows per job menu, defaults to 9
	Now      func() time.Time  // defaults to time.Now
	Out      io.Writer         // defaults to os.Stdout
}

// NewHandlers creates Handlers.
func NewHandlers(opts HandlersOpts) (*Handlers, error) {
	if opts.Merger == nil {
		return nil, fmt.Errorf("chat: handlers: merger is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("chat: handlers: store is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	menuSize := opts.MenuSize
	if menuSize <= 0 {
		menuSize = 9
	}
	return &Handlers{
		merger:   opts.Merger,
		store:    opts.Store,
		rec:      opts.Recorder,
		menuSize: menuSize,
		now:      now,
		out:      out,
	}, nil
}

// Handle loads the session for the message's identity, routes it to a
// controller, and returns the reply text. Every path produces a reply
// guiding the inspector to a valid next action; internal errors are
// logged, never surfaced raw.
func (h *Handlers) Handle(ctx context.Context, msg InboundMessage) string {
	s := h.merger.Load(ctx, msg.Identity)
	target := Route(s, msg)
	fmt.Fprintf(h.out, "chat: [%s] -> %s %q media=%d\n",
		msg.Identity, target, truncate(msg.Text, 60), len(msg.Attachments))

	switch target {
	case TargetIdentify:
		return h.handleIdentify(ctx, s, msg)
	case TargetJobMenu:
		return h.handleJobMenu(ctx, s, msg)
	case TargetJobConfirm:
		return h.handleJobConfirm(ctx, s, msg)
	case TargetLocationMenu:
		return h.handleLocationMenu(ctx, s, msg)
	case TargetSubLocationMenu:
		return h.handleSubLocationMenu(ctx, s, msg)
	case TargetTaskMenu:
		return h.handleTaskMenu(ctx, s, msg)
	case TargetTaskFlow:
		return h.handleTaskFlow(ctx, s, msg)
	}
	return h.recover(ctx, s)
}

// handleIdentify matches the message text against inspector access codes
// and, on success, binds the inspector and shows the day's job menu.
func (h *Handlers) handleIdentify(ctx context.Context, s *session.Session, msg InboundMessage) string {
	code := strings.TrimSpace(msg.Text)
	if code == "" {
		return promptIdentify
	}

	insp, err := h.store.FindInspectorByCode(ctx, code)
	if err != nil {
		log.Printf("chat: identify %s: %v", msg.Identity, err)
		return "We're having trouble right now. Please try again in a moment."
	}
	if insp == nil {
		return "That code was not recognized. " + promptIdentify
	}

	menu, snapshot, err := h.renderJobMenu(ctx, insp.ID)
	if err != nil {
		log.Printf("chat: job menu for %s: %v", msg.Identity, err)
		return "We're having trouble right now. Please try again in a moment."
	}

	jobsMenu := session.MenuJobs
	if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
		Inspector:    &session.InspectorRef{ID: insp.ID, Name: insp.Name},
		JobsSnapshot: &snapshot,
		LastMenu:     &jobsMenu,
	}); err != nil {
		log.Printf("chat: identify merge %s: %v", msg.Identity, err)
	}
	return fmt.Sprintf("Hello %s!\n%s", insp.Name, menu)
}

// handleJobMenu resolves a numbered selection against the cached snapshot
// and moves the job binding to confirming.
func (h *Handlers) handleJobMenu(ctx context.Context, s *session.Session, msg InboundMessage) string {
	text := strings.TrimSpace(msg.Text)

	if strings.EqualFold(text, "jobs") || strings.EqualFold(text, "menu") {
		return h.refreshJobMenu(ctx, s)
	}

	// Resolve against the snapshot, not a fresh query: the numbering the
	// inspector is replying to is the one that was rendered.
	if idx, ok := parseSelection(text, len(s.JobsSnapshot)); ok {
		choice := s.JobsSnapshot[idx]
		confirmMenu := session.MenuJobConfirm
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			Job:      &session.JobRef{ID: choice.ID, Number: choice.Number, Status: session.JobConfirming},
			LastMenu: &confirmMenu,
		}); err != nil {
			log.Printf("chat: job select merge %s: %v", s.Identity, err)
		}
		return fmt.Sprintf("Start inspection %s now? Reply 'yes' to begin or 'no' to pick another.", choice.Number)
	}

	return h.recover(ctx, s)
}

// handleJobConfirm starts the selected work order after checking for a
// scheduling conflict with another in-progress job.
func (h *Handlers) handleJobConfirm(ctx context.Context, s *session.Session, msg InboundMessage) string {
	switch {
	case isAffirmative(msg.Text):
		conflict, err := h.store.InProgressJob(ctx, s.Inspector.ID)
		if err != nil {
			log.Printf("chat: conflict check %s: %v", s.Identity, err)
			return "We're having trouble right now. Please reply 'yes' to try again."
		}
		if conflict != nil && conflict.ID != s.Job.ID {
			if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{ClearJob: true}); err != nil {
				log.Printf("chat: conflict merge %s: %v", s.Identity, err)
			}
			reply := fmt.Sprintf("You still have inspection %s in progress. Finish it before starting another.", conflict.Number)
			return reply + "\n" + h.refreshJobMenu(ctx, s)
		}

		if err := h.store.StartJob(ctx, s.Job.ID); err != nil {
			log.Printf("chat: start job %d: %v", s.Job.ID, err)
			return "We're having trouble right now. Please reply 'yes' to try again."
		}

		locs, err := h.store.Locations(ctx, s.Job.ID)
		if err != nil {
			log.Printf("chat: locations for job %d: %v", s.Job.ID, err)
			return "We're having trouble right now. Please reply 'yes' to try again."
		}

		locMenu := session.MenuLocations
		started := *s.Job
		started.Status = session.JobStarted
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			Job:      &started,
			LastMenu: &locMenu,
		}); err != nil {
			log.Printf("chat: job start merge %s: %v", s.Identity, err)
		}
		return fmt.Sprintf("Inspection %s started.\n%s", s.Job.Number, formatLocationMenu(s.Job.Number, locs))

	case isNegative(msg.Text):
		reply := h.refreshJobMenu(ctx, s)
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{ClearJob: true}); err != nil {
			log.Printf("chat: job decline merge %s: %v", s.Identity, err)
		}
		return reply
	}

	return h.recover(ctx, s)
}

// handleLocationMenu handles selection at the top of the walk, and the
// 'done' command that completes the whole work order.
func (h *Handlers) handleLocationMenu(ctx context.Context, s *session.Session, msg InboundMessage) string {
	text := strings.TrimSpace(msg.Text)

	if strings.EqualFold(text, "done") {
		if err := h.store.CompleteJob(ctx, s.Job.ID); err != nil {
			log.Printf("chat: complete job %d: %v", s.Job.ID, err)
			return "The inspection could not be completed. Please reply 'done' to try again."
		}
		number := s.Job.Number
		empty := []session.JobChoice{}
		jobsMenu := session.MenuJobs
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			ClearJob:         true,
			ClearLocation:    true,
			ClearSubLocation: true,
			ClearTask:        true,
			ClearDraft:       true,
			JobsSnapshot:     &empty,
			LastMenu:         &jobsMenu,
		}); err != nil {
			log.Printf("chat: complete merge %s: %v", s.Identity, err)
		}
		return fmt.Sprintf("Inspection %s complete. Thank you!\nSend 'jobs' to see your remaining inspections.", number)
	}

	locs, err := h.store.Locations(ctx, s.Job.ID)
	if err != nil {
		log.Printf("chat: locations for job %d: %v", s.Job.ID, err)
		return "We're having trouble right now. Please try again in a moment."
	}
	if idx, ok := parseSelection(text, len(locs)); ok {
		loc := locs[idx]
		subMenu := session.MenuSubLocations
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			Location: &session.Cursor{ID: loc.ID, Name: loc.Name},
			LastMenu: &subMenu,
		}); err != nil {
			log.Printf("chat: location select merge %s: %v", s.Identity, err)
		}
		subs, err := h.store.SubLocations(ctx, loc.ID)
		if err != nil {
			log.Printf("chat: sub-locations for %d: %v", loc.ID, err)
			return "We're having trouble right now. Please try again in a moment."
		}
		return formatSubLocationMenu(loc.Name, subs)
	}

	return h.recover(ctx, s)
}

// handleSubLocationMenu handles selection within a location, buffering of
// location-scoped media, and the 'note' command that records a location
// remark durably.
func (h *Handlers) handleSubLocationMenu(ctx context.Context, s *session.Session, msg InboundMessage) string {
	text := strings.TrimSpace(msg.Text)

	if len(msg.Attachments) > 0 {
		n := h.bufferMedia(ctx, s, msg.Attachments, nil, &s.Location.ID, "")
		return fmt.Sprintf("Saved %d file(s) against %s. Send 'note <text>' to record a remark with them.", n, s.Location.Name)
	}

	if rest, ok := cutCommand(text, "note"); ok {
		return h.commitLocation(ctx, s, rest)
	}

	if text == "0" {
		locMenu := session.MenuLocations
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			ClearLocation: true,
			LastMenu:      &locMenu,
		}); err != nil {
			log.Printf("chat: back merge %s: %v", s.Identity, err)
		}
		locs, err := h.store.Locations(ctx, s.Job.ID)
		if err != nil {
			log.Printf("chat: locations for job %d: %v", s.Job.ID, err)
			return "We're having trouble right now. Please try again in a moment."
		}
		return formatLocationMenu(s.Job.Number, locs)
	}

	subs, err := h.store.SubLocations(ctx, s.Location.ID)
	if err != nil {
		log.Printf("chat: sub-locations for %d: %v", s.Location.ID, err)
		return "We're having trouble right now. Please try again in a moment."
	}
	if idx, ok := parseSelection(text, len(subs)); ok {
		sub := subs[idx]
		taskMenu := session.MenuTasks
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			SubLocation: &session.Cursor{ID: sub.ID, Name: sub.Name},
			LastMenu:    &taskMenu,
		}); err != nil {
			log.Printf("chat: sub-location select merge %s: %v", s.Identity, err)
		}
		tasks, err := h.store.Tasks(ctx, sub.ID)
		if err != nil {
			log.Printf("chat: tasks for %d: %v", sub.ID, err)
			return "We're having trouble right now. Please try again in a moment."
		}
		return formatTaskMenu(sub.Name, tasks)
	}

	return h.recover(ctx, s)
}

// handleTaskMenu starts the per-task recording flow for a selected task.
func (h *Handlers) handleTaskMenu(ctx context.Context, s *session.Session, msg InboundMessage) string {
	text := strings.TrimSpace(msg.Text)

	if text == "0" {
		subMenu := session.MenuSubLocations
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			ClearSubLocation: true,
			LastMenu:         &subMenu,
		}); err != nil {
			log.Printf("chat: back merge %s: %v", s.Identity, err)
		}
		subs, err := h.store.SubLocations(ctx, s.Location.ID)
		if err != nil {
			log.Printf("chat: sub-locations for %d: %v", s.Location.ID, err)
			return "We're having trouble right now. Please try again in a moment."
		}
		return formatSubLocationMenu(s.Location.Name, subs)
	}

	tasks, err := h.store.Tasks(ctx, s.SubLocation.ID)
	if err != nil {
		log.Printf("chat: tasks for %d: %v", s.SubLocation.ID, err)
		return "We're having trouble right now. Please try again in a moment."
	}
	if idx, ok := parseSelection(text, len(tasks)); ok {
		task := tasks[idx]
		if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
			Task:  &session.Cursor{ID: task.ID, Name: task.Name},
			Draft: &session.TaskDraft{Stage: session.StageCondition},
		}); err != nil {
			log.Printf("chat: task select merge %s: %v", s.Identity, err)
		}
		return fmt.Sprintf("Recording %q.\n%s", task.Name, promptCondition)
	}

	return h.recover(ctx, s)
}

// handleTaskFlow advances the per-task sub-machine. Every transition
// before confirm only touches draft fields and the media buffer; the
// durable store is written exactly once, at commit.
func (h *Handlers) handleTaskFlow(ctx context.Context, s *session.Session, msg InboundMessage) string {
	draft := *s.Draft

	// Media can arrive at any stage of the flow; buffer it against the
	// current task rather than bouncing it.
	if len(msg.Attachments) > 0 {
		n := h.bufferMedia(ctx, s, msg.Attachments, &s.Task.ID, nil, draft.Condition)
		if draft.Stage == session.StageMedia {
			return fmt.Sprintf("Saved %d file(s). Send more, or reply 'done' to continue.", n)
		}
		return fmt.Sprintf("Saved %d file(s) against %q.", n, s.Task.Name)
	}

	text := strings.TrimSpace(msg.Text)

	switch draft.Stage {
	case session.StageCondition:
		cond, ok := parseCondition(text)
		if !ok {
			return promptCondition
		}
		draft.Condition = cond
		draft.Stage = session.StageMedia
		h.mergeDraft(ctx, s, draft)
		return promptMedia

	case session.StageMedia:
		if isSkip(text) {
			draft.Stage = session.StageRemarks
			h.mergeDraft(ctx, s, draft)
			return promptRemarks
		}
		return promptMedia

	case session.StageRemarks:
		if !isSkip(text) {
			draft.Remarks = text
		}
		draft.Stage = session.StageConfirm
		h.mergeDraft(ctx, s, draft)
		return formatConfirm(s.Task.Name, &draft, len(s.TaskMedia(s.Task.ID)))

	case session.StageConfirm:
		switch {
		case isAffirmative(text):
			if draft.Condition == models.ConditionUnsatisfactory {
				draft.Stage = session.StageCause
				h.mergeDraft(ctx, s, draft)
				return promptCause
			}
			return h.commitTask(ctx, s, draft)
		case isNegative(text):
			draft = session.TaskDraft{Stage: session.StageCondition}
			h.mergeDraft(ctx, s, draft)
			return fmt.Sprintf("Starting %q over.\n%s", s.Task.Name, promptCondition)
		}
		return formatConfirm(s.Task.Name, &draft, len(s.TaskMedia(s.Task.ID)))

	case session.StageCause:
		if text == "" {
			return promptCause
		}
		draft.Cause = text
		draft.Stage = session.StageResolution
		h.mergeDraft(ctx, s, draft)
		return promptResolve

	case session.StageResolution:
		// After a failed commit the resolution is already drafted; a bare
		// 'yes' retries without re-entering it.
		if draft.Resolution != "" && isAffirmative(text) {
			return h.commitTask(ctx, s, draft)
		}
		if text == "" {
			return promptResolve
		}
		draft.Resolution = text
		h.mergeDraft(ctx, s, draft)
		return h.commitTask(ctx, s, draft)
	}

	return h.recover(ctx, s)
}

// mergeDraft persists a draft transition.
func (h *Handlers) mergeDraft(ctx context.Context, s *session.Session, draft session.TaskDraft) {
	if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{Draft: &draft}); err != nil {
		log.Printf("chat: draft merge %s: %v", s.Identity, err)
	}
}

// commitTask flushes the draft and the task's buffered media to the
// durable store, then clears them from the session. On failure nothing is
// cleared: the inspector retries with all entered data and uploads intact.
func (h *Handlers) commitTask(ctx context.Context, s *session.Session, draft session.TaskDraft) string {
	taskID := s.Task.ID
	media := s.TaskMedia(taskID)

	err := h.store.CommitTaskEntry(ctx, inspection.TaskCommit{
		WorkOrderID: s.Job.ID,
		TaskID:      taskID,
		InspectorID: s.Inspector.ID,
		Condition:   draft.Condition,
		Remarks:     draft.Remarks,
		Cause:       draft.Cause,
		Resolution:  draft.Resolution,
		Media:       media,
	})
	if err != nil {
		log.Printf("chat: commit task %d (order %d): %v", taskID, s.Job.ID, err)
		if h.rec != nil {
			h.rec.CommitFailure("task")
		}
		return replyRetry
	}
	if h.rec != nil {
		h.rec.Commit("task")
	}

	remaining := make([]session.MediaUpload, 0, len(s.Media))
	for _, m := range s.Media {
		if m.TaskID != nil && *m.TaskID == taskID {
			continue
		}
		remaining = append(remaining, m)
	}
	if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
		Media:      &remaining,
		ClearTask:  true,
		ClearDraft: true,
	}); err != nil {
		log.Printf("chat: commit merge %s: %v", s.Identity, err)
	}

	tasks, err := h.store.Tasks(ctx, s.SubLocation.ID)
	if err != nil {
		log.Printf("chat: tasks for %d: %v", s.SubLocation.ID, err)
		return "Recorded."
	}
	return "Recorded.\n\n" + formatTaskMenu(s.SubLocation.Name, tasks)
}

// commitLocation records a location remark with the location's buffered
// media. Same retry contract as commitTask.
func (h *Handlers) commitLocation(ctx context.Context, s *session.Session, remark string) string {
	locID := s.Location.ID
	media := s.LocationMedia(locID)

	err := h.store.CommitLocationEntry(ctx, inspection.LocationCommit{
		WorkOrderID: s.Job.ID,
		LocationID:  locID,
		InspectorID: s.Inspector.ID,
		Remarks:     remark,
		Media:       media,
	})
	if err != nil {
		log.Printf("chat: commit location %d (order %d): %v", locID, s.Job.ID, err)
		if h.rec != nil {
			h.rec.CommitFailure("location")
		}
		return "Sorry, that could not be saved. Your note and files are safe, please send the note again."
	}
	if h.rec != nil {
		h.rec.Commit("location")
	}

	remaining := make([]session.MediaUpload, 0, len(s.Media))
	for _, m := range s.Media {
		if m.LocationID != nil && *m.LocationID == locID {
			continue
		}
		remaining = append(remaining, m)
	}
	if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
		Media: &remaining,
	}); err != nil {
		log.Printf("chat: location note merge %s: %v", s.Identity, err)
	}
	return fmt.Sprintf("Noted for %s.", s.Location.Name)
}

// bufferMedia appends attachments to the session's upload buffer, scoped
// to either a task or a location. Returns the number buffered. Duplicate
// deliveries buffer again on purpose; deduplication happens at the
// durable layer, keyed by storage key.
func (h *Handlers) bufferMedia(ctx context.Context, s *session.Session, atts []Attachment, taskID, locationID *uint, condition string) int {
	uploads := make([]session.MediaUpload, 0, len(atts))
	for _, a := range atts {
		key := a.StorageKey
		if key == "" {
			key = uuid.NewString()
		}
		uploads = append(uploads, session.MediaUpload{
			URL:        a.URL,
			StorageKey: key,
			MediaType:  a.MediaType,
			TaskID:     taskID,
			LocationID: locationID,
			UploadedAt: h.now(),
			Condition:  condition,
		})
	}
	if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
		AppendMedia: uploads,
	}); err != nil {
		log.Printf("chat: buffer media %s: %v", s.Identity, err)
	}
	return len(uploads)
}

// recover answers input the current controller cannot interpret by
// re-showing the most relevant prompt for where the conversation is.
// Never an error: out-of-order delivery is normal for this channel.
func (h *Handlers) recover(ctx context.Context, s *session.Session) string {
	if h.rec != nil {
		h.rec.Recovery()
	}

	if s.Inspector == nil {
		return promptIdentify
	}
	if s.Draft != nil && s.Task != nil {
		return h.stagePrompt(s)
	}

	switch s.LastMenu {
	case session.MenuJobs:
		return "Sorry, I didn't understand that.\n" + formatSnapshotMenu(s.JobsSnapshot)
	case session.MenuJobConfirm:
		if s.Job != nil {
			return fmt.Sprintf("Start inspection %s now? Reply 'yes' or 'no'.", s.Job.Number)
		}
	case session.MenuLocations:
		if s.Job != nil {
			if locs, err := h.store.Locations(ctx, s.Job.ID); err == nil {
				return "Sorry, I didn't understand that.\n" + formatLocationMenu(s.Job.Number, locs)
			}
		}
	case session.MenuSubLocations:
		if s.Location != nil {
			if subs, err := h.store.SubLocations(ctx, s.Location.ID); err == nil {
				return "Sorry, I didn't understand that.\n" + formatSubLocationMenu(s.Location.Name, subs)
			}
		}
	case session.MenuTasks:
		if s.SubLocation != nil {
			if tasks, err := h.store.Tasks(ctx, s.SubLocation.ID); err == nil {
				return "Sorry, I didn't understand that.\n" + formatTaskMenu(s.SubLocation.Name, tasks)
			}
		}
	}
	return "Sorry, I didn't understand that.\n" + formatSnapshotMenu(s.JobsSnapshot)
}

// stagePrompt re-shows the prompt for the draft's current stage.
func (h *Handlers) stagePrompt(s *session.Session) string {
	switch s.Draft.Stage {
	case session.StageCondition:
		return promptCondition
	case session.StageMedia:
		return promptMedia
	case session.StageRemarks:
		return promptRemarks
	case session.StageConfirm:
		return formatConfirm(s.Task.Name, s.Draft, len(s.TaskMedia(s.Task.ID)))
	case session.StageCause:
		return promptCause
	case session.StageResolution:
		return promptResolve
	}
	return promptCondition
}

// refreshJobMenu re-queries the day's jobs, stores a fresh snapshot, and
// returns the rendered menu.
func (h *Handlers) refreshJobMenu(ctx context.Context, s *session.Session) string {
	menu, snapshot, err := h.renderJobMenu(ctx, s.Inspector.ID)
	if err != nil {
		log.Printf("chat: refresh job menu %s: %v", s.Identity, err)
		return "We're having trouble right now. Please try again in a moment."
	}
	jobsMenu := session.MenuJobs
	if _, err := h.merger.Merge(ctx, s.Identity, session.Partial{
		JobsSnapshot: &snapshot,
		LastMenu:     &jobsMenu,
	}); err != nil {
		log.Printf("chat: job menu merge %s: %v", s.Identity, err)
	}
	return menu
}

// renderJobMenu builds the job menu text and snapshot for an inspector.
// The menu is capped at the configured size; a single-digit reply must
// always map to a visible row.
func (h *Handlers) renderJobMenu(ctx context.Context, inspectorID uint) (string, []session.JobChoice, error) {
	jobs, err := h.store.FindActiveJobs(ctx, inspectorID, h.now())
	if err != nil {
		return "", nil, err
	}
	if len(jobs) > h.menuSize {
		jobs = jobs[:h.menuSize]
	}
	menu, snapshot := formatJobMenu(jobs)
	if snapshot == nil {
		snapshot = []session.JobChoice{}
	}
	return menu, snapshot, nil
}

// cutCommand splits "note some text" into ("some text", true) for the
// given command word.
func cutCommand(text, cmd string) (string, bool) {
	if strings.EqualFold(text, cmd) {
		return "", true
	}
	if !strings.HasPrefix(strings.ToLower(text), cmd+" ") {
		return "", false
	}
	return strings.TrimSpace(text[len(cmd):]), true
}

// truncate returns s truncated to at most maxLen bytes with "..."
// appended, backing up so the cut never lands mid-rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
