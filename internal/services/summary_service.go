package services

type SummaryStore interface {
	GetProcess(id string) (*CareProcess, error)
	ListParticipants(processID string) ([]*Participant, error)
	ListSessions(processID string) ([]*Session, error)
	ListNotes(processID string) ([]*Note, error)
	ListTasksByProcess(processID string) ([]*Task, error)
}

// SummaryService composes the other read paths into per-caller counts.
// The same process yields different counts for different callers, so the
// result is recomputed on every call and never cached across roles.
type SummaryService struct {
	store SummaryStore
}

func NewSummaryService(store SummaryStore) *SummaryService {
	return &SummaryService{store: store}
}

type ProcessSummary struct {
	ProcessID        string `json:"process_id"`
	SessionCount     int    `json:"session_count"`
	VisibleNoteCount int    `json:"visible_note_count"`
	TaskCount        int    `json:"task_count"`
}

func (s *SummaryService) Summary(processID, callerID string) (*ProcessSummary, error) {
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
	sessions, err := s.store.ListSessions(processID)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.ListNotes(processID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasksByProcess(processID)
	if err != nil {
		return nil, err
	}
	visible := 0
	for _, n := range notes {
		if CanReadNote(n, role, callerID) {
			visible++
		}
	}
	return &ProcessSummary{
		ProcessID:        processID,
		SessionCount:     len(sessions),
		VisibleNoteCount: visible,
		TaskCount:        len(tasks),
	}, nil
}
