package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProcessStore interface {
	AddProcess(p *CareProcess) error
	GetProcess(id string) (*CareProcess, error)
	UpdateProcess(p *CareProcess) error
	AddParticipant(pt *Participant) error
	ListParticipants(processID string) ([]*Participant, error)
	ListNotes(processID string) ([]*Note, error)
	GetMember(id string) (*Member, error)
	AddAudit(entry AuditEntry)
}

// ProcessService owns process creation, type invariants and status
// transitions.
type ProcessService struct {
	store ProcessStore
	now   func() time.Time
	idGen func() string
}

func NewProcessService(store ProcessStore) *ProcessService {
	return &ProcessService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// CareProcessView is the read model returned by GetProcess: the process,
// its participants and the notes visible to the caller.
type CareProcessView struct {
	CareProcess
	Participants []*Participant `json:"participants"`
	Notes        []*Note        `json:"notes"`
}

// CreateProcess starts a counseling process. A FORMAL process requires a
// designated counselee distinct from the creator; an INFORMAL process has
// the creator as its only participant.
func (s *ProcessService) CreateProcess(callerID string, typ ProcessType, motive, counseleeID string) (*CareProcess, error) {
	if callerID == "" {
		return nil, NewUnauthorizedError("caller identity required")
	}
	if strings.TrimSpace(motive) == "" {
		return nil, NewFieldError("motive", "motive required")
	}
	switch typ {
	case ProcessFormal:
		if counseleeID == "" {
			return nil, NewFieldError("counselee_id", "formal process requires a counselee")
		}
		if counseleeID == callerID {
			return nil, NewFieldError("counselee_id", "counselee must be distinct from the creator")
		}
		counselee, err := s.store.GetMember(counseleeID)
		if err != nil {
			return nil, err
		}
		if counselee == nil {
			return nil, NewNotFoundError("counselee not found")
		}
	case ProcessInformal:
		if counseleeID != "" {
			return nil, NewFieldError("counselee_id", "informal process takes no counselee")
		}
	default:
		return nil, NewFieldError("type", "unknown process type")
	}

	p := &CareProcess{
		ID:        s.idGen(),
		Type:      typ,
		Status:    ProcessActive,
		Motive:    strings.TrimSpace(motive),
		CreatedBy: callerID,
		CreatedAt: s.now(),
	}
	if err := s.store.AddProcess(p); err != nil {
		return nil, err
	}
	if typ == ProcessFormal {
		if err := s.store.AddParticipant(&Participant{ProcessID: p.ID, MemberID: callerID, Role: RoleCounselor}); err != nil {
			return nil, err
		}
		if err := s.store.AddParticipant(&Participant{ProcessID: p.ID, MemberID: counseleeID, Role: RoleCounselee}); err != nil {
			return nil, err
		}
	} else {
		if err := s.store.AddParticipant(&Participant{ProcessID: p.ID, MemberID: callerID, Role: RoleCounselee}); err != nil {
			return nil, err
		}
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "process.create", Target: p.ID, Note: string(typ)})
	return p, nil
}

// UpdateStatus applies a lifecycle transition. CLOSED is terminal.
func (s *ProcessService) UpdateStatus(processID, callerID string, next ProcessStatus) (*CareProcess, error) {
	p, role, err := s.loadWithRole(processID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may change process status")
	}
	if !canTransitionProcess(p.Status, next) {
		return nil, NewConflictError("cannot transition process from " + string(p.Status) + " to " + string(next))
	}
	p.Status = next
	if err := s.store.UpdateProcess(p); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "process.status", Target: p.ID, Note: string(next)})
	return p, nil
}

// UpdateMotive edits the process title. On an INFORMAL process the sole
// participant edits their own record.
func (s *ProcessService) UpdateMotive(processID, callerID, motive string) (*CareProcess, error) {
	if strings.TrimSpace(motive) == "" {
		return nil, NewFieldError("motive", "motive required")
	}
	p, role, err := s.loadWithRole(processID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may edit the motive")
	}
	p.Motive = strings.TrimSpace(motive)
	if err := s.store.UpdateProcess(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProcess assembles the caller-scoped view: participants plus only the
// notes the caller may read. Non-participants get a not-found, never a
// hint that the process exists.
func (s *ProcessService) GetProcess(processID, callerID string) (*CareProcessView, error) {
	p, err := s.store.GetProcess(processID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("process not found")
	}
	participants, err := s.store.ListParticipants(processID)
	if err != nil {
		return nil, err
	}
	role := ResolveRole(p, participants, callerID)
	if role == RoleNone {
		return nil, NewNotFoundError("process not found")
	}
	notes, err := s.store.ListNotes(processID)
	if err != nil {
		return nil, err
	}
	return &CareProcessView{
		CareProcess:  *p,
		Participants: participants,
		Notes:        FilterNotes(notes, role, callerID),
	}, nil
}

func (s *ProcessService) loadWithRole(processID, callerID string) (*CareProcess, Role, error) {
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

func canTransitionProcess(from, to ProcessStatus) bool {
	switch from {
	case ProcessActive:
		return to == ProcessPaused || to == ProcessClosed
	case ProcessPaused:
		return to == ProcessActive || to == ProcessClosed
	case ProcessClosed:
		return false
	}
	return false
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
