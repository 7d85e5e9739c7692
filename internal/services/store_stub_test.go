package services

import "strings"

// stubStore is an in-memory store implementing every per-service store
// interface, used across the service tests.
type stubStore struct {
	members      map[string]*Member
	processes    map[string]*CareProcess
	participants []*Participant
	sessions     map[string]*Session
	notes        map[string]*Note
	tasks        map[string]*Task
	audit        []AuditEntry
}

func newStubStore() *stubStore {
	return &stubStore{
		members:   map[string]*Member{},
		processes: map[string]*CareProcess{},
		sessions:  map[string]*Session{},
		notes:     map[string]*Note{},
		tasks:     map[string]*Task{},
	}
}

func (s *stubStore) GetMember(id string) (*Member, error) {
	if m, ok := s.members[id]; ok {
		copy := *m
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) FindMemberByEmail(email string) (*Member, error) {
	for _, m := range s.members {
		if strings.EqualFold(m.Email, email) {
			copy := *m
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubStore) AddMember(m *Member) error {
	copy := *m
	s.members[m.ID] = &copy
	return nil
}

func (s *stubStore) AddProcess(p *CareProcess) error {
	copy := *p
	s.processes[p.ID] = &copy
	return nil
}

func (s *stubStore) GetProcess(id string) (*CareProcess, error) {
	if p, ok := s.processes[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) UpdateProcess(p *CareProcess) error {
	copy := *p
	s.processes[p.ID] = &copy
	return nil
}

func (s *stubStore) AddParticipant(pt *Participant) error {
	copy := *pt
	s.participants = append(s.participants, &copy)
	return nil
}

func (s *stubStore) ListParticipants(processID string) ([]*Participant, error) {
	out := []*Participant{}
	for _, pt := range s.participants {
		if pt.ProcessID == processID {
			copy := *pt
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *stubStore) AddSession(sn *Session) error {
	copy := *sn
	s.sessions[sn.ID] = &copy
	return nil
}

func (s *stubStore) GetSession(id string) (*Session, error) {
	if sn, ok := s.sessions[id]; ok {
		copy := *sn
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) UpdateSession(sn *Session) error {
	copy := *sn
	s.sessions[sn.ID] = &copy
	return nil
}

func (s *stubStore) ListSessions(processID string) ([]*Session, error) {
	out := []*Session{}
	for _, sn := range s.sessions {
		if sn.ProcessID == processID {
			copy := *sn
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *stubStore) AddNote(n *Note) error {
	copy := *n
	s.notes[n.ID] = &copy
	return nil
}

func (s *stubStore) GetNote(id string) (*Note, error) {
	if n, ok := s.notes[id]; ok {
		copy := *n
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) UpdateNote(n *Note) error {
	copy := *n
	s.notes[n.ID] = &copy
	return nil
}

func (s *stubStore) DeleteNote(id string) error {
	delete(s.notes, id)
	return nil
}

func (s *stubStore) ListNotes(processID string) ([]*Note, error) {
	out := []*Note{}
	for _, n := range s.notes {
		if n.ProcessID == processID {
			copy := *n
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *stubStore) AddTask(t *Task) error {
	copy := *t
	s.tasks[t.ID] = &copy
	return nil
}

func (s *stubStore) GetTask(id string) (*Task, error) {
	if t, ok := s.tasks[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) SetTaskResponse(id, response string, status TaskStatus) error {
	t, ok := s.tasks[id]
	if !ok {
		return NewNotFoundError("task not found")
	}
	t.CounseleeResponse = response
	t.Status = status
	return nil
}

func (s *stubStore) SetTaskFeedback(id, feedback string) error {
	t, ok := s.tasks[id]
	if !ok {
		return NewNotFoundError("task not found")
	}
	t.CounselorFeedback = feedback
	return nil
}

func (s *stubStore) SetTaskDefinition(id, title, description string) error {
	t, ok := s.tasks[id]
	if !ok {
		return NewNotFoundError("task not found")
	}
	t.Title = title
	t.Description = description
	return nil
}

func (s *stubStore) ListTasksBySession(sessionID string) ([]*Task, error) {
	out := []*Task{}
	for _, t := range s.tasks {
		if t.SessionID == sessionID {
			copy := *t
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *stubStore) ListTasksByProcess(processID string) ([]*Task, error) {
	out := []*Task{}
	for _, t := range s.tasks {
		if t.ProcessID == processID {
			copy := *t
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *stubStore) AddAudit(e AuditEntry) {
	s.audit = append(s.audit, e)
}

// seedFormal installs a FORMAL process with counselor "c1", counselee "e1"
// and supervisor "s1".
func (s *stubStore) seedFormal(id string) *CareProcess {
	p := &CareProcess{ID: id, Type: ProcessFormal, Status: ProcessActive, Motive: "Grief support", CreatedBy: "c1"}
	s.processes[id] = p
	s.participants = append(s.participants,
		&Participant{ProcessID: id, MemberID: "c1", Role: RoleCounselor},
		&Participant{ProcessID: id, MemberID: "e1", Role: RoleCounselee},
		&Participant{ProcessID: id, MemberID: "s1", Role: RoleSupervisor},
	)
	return p
}

// seedInformal installs an INFORMAL process owned by "m1".
func (s *stubStore) seedInformal(id string) *CareProcess {
	p := &CareProcess{ID: id, Type: ProcessInformal, Status: ProcessActive, Motive: "Personal growth", CreatedBy: "m1"}
	s.processes[id] = p
	s.participants = append(s.participants, &Participant{ProcessID: id, MemberID: "m1", Role: RoleCounselee})
	return p
}
