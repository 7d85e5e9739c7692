package services

import (
	"strings"
	"time"
)

type NoteStore interface {
	GetProcess(id string) (*CareProcess, error)
	ListParticipants(processID string) ([]*Participant, error)
	GetSession(id string) (*Session, error)
	AddNote(n *Note) error
	GetNote(id string) (*Note, error)
	UpdateNote(n *Note) error
	DeleteNote(id string) error
	ListNotes(processID string) ([]*Note, error)
	AddAudit(entry AuditEntry)
}

// NoteService is the append-only-by-default note ledger. Every read path
// runs through CanReadNote so a hidden note is absent, not redacted.
type NoteService struct {
	store NoteStore
	now   func() time.Time
	idGen func() string
}

func NewNoteService(store NoteStore) *NoteService {
	return &NoteService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// CreateNote appends a note to a process, optionally pinned to one of its
// sessions. Counselees do not author process notes; their contributions
// flow through task responses.
func (s *NoteService) CreateNote(processID, sessionID, callerID, title, content string, visibility Visibility) (*Note, error) {
	p, role, err := s.loadWithRole(processID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may author notes")
	}
	if p.Status == ProcessClosed {
		return nil, NewConflictError("process is closed")
	}
	if err := ValidateRequestedVisibility(p.Type, visibility); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewFieldError("title", "title required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, NewFieldError("content", "content required")
	}
	if sessionID != "" {
		sn, err := s.store.GetSession(sessionID)
		if err != nil {
			return nil, err
		}
		if sn == nil {
			return nil, NewNotFoundError("session not found")
		}
		if sn.ProcessID != processID {
			return nil, NewFieldError("session_id", "session belongs to another process")
		}
	}
	n := &Note{
		ID:             s.idGen(),
		ProcessID:      processID,
		SessionID:      sessionID,
		AuthorMemberID: callerID,
		Title:          strings.TrimSpace(title),
		Content:        content,
		Visibility:     visibility,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddNote(n); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "note.create", Target: n.ID, Note: string(visibility)})
	return n, nil
}

// ListNotes returns the notes the caller may read, optionally restricted to
// one session.
func (s *NoteService) ListNotes(processID, callerID, sessionID string) ([]*Note, error) {
	_, role, err := s.loadWithRole(processID, callerID)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.ListNotes(processID)
	if err != nil {
		return nil, err
	}
	visible := FilterNotes(notes, role, callerID)
	if sessionID == "" {
		return visible, nil
	}
	out := make([]*Note, 0, len(visible))
	for _, n := range visible {
		if n.SessionID == sessionID {
			out = append(out, n)
		}
	}
	return out, nil
}

type NoteUpdate struct {
	Title      *string
	Content    *string
	Visibility *Visibility
}

// UpdateNote mutates title/content/visibility. Only the author may edit,
// and only while still holding a staff role on the process; the role is
// re-resolved here rather than trusted from creation time.
func (s *NoteService) UpdateNote(noteID, callerID string, upd NoteUpdate) (*Note, error) {
	n, role, p, err := s.loadNote(noteID, callerID)
	if err != nil {
		return nil, err
	}
	if !CanEditNote(n, role, callerID) {
		return nil, NewForbiddenError("only the note author may edit it")
	}
	if upd.Visibility != nil {
		if err := ValidateRequestedVisibility(p.Type, *upd.Visibility); err != nil {
			return nil, err
		}
		n.Visibility = *upd.Visibility
	}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, NewFieldError("title", "title required")
		}
		n.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Content != nil {
		n.Content = *upd.Content
	}
	if err := s.store.UpdateNote(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NoteService) DeleteNote(noteID, callerID string) error {
	n, role, _, err := s.loadNote(noteID, callerID)
	if err != nil {
		return err
	}
	if !CanEditNote(n, role, callerID) {
		return NewForbiddenError("only the note author may delete it")
	}
	if err := s.store.DeleteNote(noteID); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "note.delete", Target: noteID})
	return nil
}

// loadNote resolves the note together with the caller's current role. A
// note the caller cannot read is reported as missing so hidden notes leak
// no existence information.
func (s *NoteService) loadNote(noteID, callerID string) (*Note, Role, *CareProcess, error) {
	n, err := s.store.GetNote(noteID)
	if err != nil {
		return nil, RoleNone, nil, err
	}
	if n == nil {
		return nil, RoleNone, nil, NewNotFoundError("note not found")
	}
	p, role, err := s.loadWithRole(n.ProcessID, callerID)
	if err != nil {
		return nil, RoleNone, nil, err
	}
	if !CanReadNote(n, role, callerID) {
		return nil, RoleNone, nil, NewNotFoundError("note not found")
	}
	return n, role, p, nil
}

func (s *NoteService) loadWithRole(processID, callerID string) (*CareProcess, Role, error) {
	p, err := s.store.GetProcess(processID)
	if err != nil {
		return nil, RoleNone, err
	}
	if p == nil {
		return nil, RoleNone, NewNotFoundError("process not found")
	}
	participants, err := s.store.ListParticipants(processID)
	if err != nil {
		return nil, RoleNone, err
	}
	role := ResolveRole(p, participants, callerID)
	if role == RoleNone {
		return nil, RoleNone, NewNotFoundError("process not found")
	}
	return p, role, nil
}
