package services

import (
	"strings"
	"time"
)

type SessionStore interface {
	GetProcess(id string) (*CareProcess, error)
	ListParticipants(processID string) ([]*Participant, error)
	AddSession(sn *Session) error
	GetSession(id string) (*Session, error)
	UpdateSession(sn *Session) error
	ListSessions(processID string) ([]*Session, error)
	AddAudit(entry AuditEntry)
}

// SessionService schedules and lists encounters on formal processes.
type SessionService struct {
	store SessionStore
	now   func() time.Time
	idGen func() string
}

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

type SessionInput struct {
	Date            time.Time
	DurationMinutes int
	Topics          string
	Location        string
}

// CreateSession schedules an encounter. Sessions exist only on FORMAL
// processes, never on CLOSED ones, and only staff may schedule them.
func (s *SessionService) CreateSession(processID, callerID string, in SessionInput) (*Session, error) {
	p, role, err := s.loadWithRole(processID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may schedule sessions")
	}
	if p.Type != ProcessFormal {
		return nil, NewConflictError("informal processes do not track sessions")
	}
	if p.Status == ProcessClosed {
		return nil, NewConflictError("process is closed")
	}
	if in.Date.IsZero() {
		return nil, NewFieldError("date", "date required")
	}
	if in.DurationMinutes <= 0 {
		return nil, NewFieldError("duration_minutes", "duration must be positive")
	}
	sn := &Session{
		ID:              s.idGen(),
		ProcessID:       processID,
		Date:            in.Date,
		DurationMinutes: in.DurationMinutes,
		Topics:          strings.TrimSpace(in.Topics),
		Location:        strings.TrimSpace(in.Location),
		Status:          SessionScheduled,
	}
	if err := s.store.AddSession(sn); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "session.create", Target: sn.ID, Note: processID})
	return sn, nil
}

// ListSessions is open to every participant role; session metadata carries
// no confidentiality level, only attached notes and tasks do.
func (s *SessionService) ListSessions(processID, callerID string) ([]*Session, error) {
	if _, _, err := s.loadWithRole(processID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListSessions(processID)
}

// UpdateStatus moves a session through its scheduling states. Transitions
// never happen automatically from the session date passing.
func (s *SessionService) UpdateStatus(sessionID, callerID string, next SessionStatus) (*Session, error) {
	sn, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sn == nil {
		return nil, NewNotFoundError("session not found")
	}
	p, role, err := s.loadWithRole(sn.ProcessID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may update session status")
	}
	if p.Status == ProcessClosed {
		return nil, NewConflictError("process is closed")
	}
	if !canTransitionSession(sn.Status, next) {
		return nil, NewConflictError("cannot transition session from " + string(sn.Status) + " to " + string(next))
	}
	sn.Status = next
	if err := s.store.UpdateSession(sn); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "session.status", Target: sn.ID, Note: string(next)})
	return sn, nil
}

func canTransitionSession(from, to SessionStatus) bool {
	switch from {
	case SessionPending:
		return to == SessionScheduled || to == SessionCancelled
	case SessionScheduled:
		return to == SessionCompleted || to == SessionCancelled
	case SessionCompleted, SessionCancelled:
		return false
	}
	return false
}

func (s *SessionService) loadWithRole(processID, callerID string) (*CareProcess, Role, error) {
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
