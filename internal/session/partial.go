package session

// Partial is a field-by-field update to a session document. Nil pointer
// fields leave the corresponding session field untouched; Clear flags
// reset a field to absent. Controllers express every state change as a
// Partial and hand it to the Merger; they never replace a document
// wholesale, which is what keeps concurrent updates to unrelated fields
// from clobbering each other.
type Partial struct {
	Inspector    *InspectorRef
	Job          *JobRef
	Location     *Cursor
	SubLocation  *Cursor
	Task         *Cursor
	Draft        *TaskDraft
	LastMenu     *Menu
	JobsSnapshot *[]JobChoice

	// AppendMedia appends to the upload buffer without touching existing
	// entries. Media replaces the whole buffer; the persistence path uses
	// it to drop entries that were flushed durably.
	AppendMedia []MediaUpload
	Media       *[]MediaUpload

	ClearInspector   bool
	ClearJob         bool
	ClearLocation    bool
	ClearSubLocation bool
	ClearTask        bool
	ClearDraft       bool
}

// apply merges the partial into s. Set fields are applied first, then
// clears, so a Partial that both sets and clears the same field resolves
// to cleared.
func (p Partial) apply(s *Session) {
	if p.Inspector != nil {
		s.Inspector = p.Inspector
	}
	if p.Job != nil {
		s.Job = p.Job
	}
	if p.Location != nil {
		s.Location = p.Location
	}
	if p.SubLocation != nil {
		s.SubLocation = p.SubLocation
	}
	if p.Task != nil {
		s.Task = p.Task
	}
	if p.Draft != nil {
		s.Draft = p.Draft
	}
	if p.LastMenu != nil {
		s.LastMenu = *p.LastMenu
	}
	if p.JobsSnapshot != nil {
		s.JobsSnapshot = *p.JobsSnapshot
	}
	if p.Media != nil {
		s.Media = *p.Media
	}
	if len(p.AppendMedia) > 0 {
		s.Media = append(s.Media, p.AppendMedia...)
	}

	if p.ClearInspector {
		s.Inspector = nil
	}
	if p.ClearJob {
		s.Job = nil
	}
	if p.ClearLocation {
		s.Location = nil
	}
	if p.ClearSubLocation {
		s.SubLocation = nil
	}
	if p.ClearTask {
		s.Task = nil
	}
	if p.ClearDraft {
		s.Draft = nil
	}
}
