package api

import (
	"sort"
	"strings"
	"sync"

	"github.com/shepherd-app/shepherd/internal/services"
)

// MemoryStore is the non-persistent Store used in tests and when no
// sqlite path is configured.
type MemoryStore struct {
	mu           sync.RWMutex
	members      map[string]*services.Member
	processes    map[string]*services.CareProcess
	participants []*services.Participant
	sessions     map[string]*services.Session
	notes        map[string]*services.Note
	tasks        map[string]*services.Task
	audit        []services.AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:   map[string]*services.Member{},
		processes: map[string]*services.CareProcess{},
		sessions:  map[string]*services.Session{},
		notes:     map[string]*services.Note{},
		tasks:     map[string]*services.Task{},
	}
}

func (s *MemoryStore) AddMember(m *services.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *m
	s.members[m.ID] = &copy
}

func (s *MemoryStore) GetMember(id string) *services.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.members[id]; ok {
		copy := *m
		return &copy
	}
	return nil
}

func (s *MemoryStore) FindMemberByEmail(email string) *services.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if strings.EqualFold(m.Email, email) {
			copy := *m
			return &copy
		}
	}
	return nil
}

func (s *MemoryStore) AddProcess(p *services.CareProcess) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *p
	s.processes[p.ID] = &copy
}

func (s *MemoryStore) GetProcess(id string) *services.CareProcess {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.processes[id]; ok {
		copy := *p
		return &copy
	}
	return nil
}

func (s *MemoryStore) UpdateProcess(p *services.CareProcess) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[p.ID]; !ok {
		return false
	}
	copy := *p
	s.processes[p.ID] = &copy
	return true
}

func (s *MemoryStore) AddParticipant(pt *services.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *pt
	s.participants = append(s.participants, &copy)
}

func (s *MemoryStore) ListParticipants(processID string) []*services.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Participant{}
	for _, pt := range s.participants {
		if pt.ProcessID == processID {
			copy := *pt
			out = append(out, &copy)
		}
	}
	return out
}

func (s *MemoryStore) AddSession(sn *services.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *sn
	s.sessions[sn.ID] = &copy
}

func (s *MemoryStore) GetSession(id string) *services.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sn, ok := s.sessions[id]; ok {
		copy := *sn
		return &copy
	}
	return nil
}

func (s *MemoryStore) UpdateSession(sn *services.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sn.ID]; !ok {
		return false
	}
	copy := *sn
	s.sessions[sn.ID] = &copy
	return true
}

func (s *MemoryStore) ListSessions(processID string) []*services.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Session{}
	for _, sn := range s.sessions {
		if sn.ProcessID == processID {
			copy := *sn
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *MemoryStore) AddNote(n *services.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *n
	s.notes[n.ID] = &copy
}

func (s *MemoryStore) GetNote(id string) *services.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.notes[id]; ok {
		copy := *n
		return &copy
	}
	return nil
}

func (s *MemoryStore) UpdateNote(n *services.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[n.ID]; !ok {
		return false
	}
	copy := *n
	s.notes[n.ID] = &copy
	return true
}

func (s *MemoryStore) DeleteNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	return true
}

func (s *MemoryStore) ListNotes(processID string) []*services.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Note{}
	for _, n := range s.notes {
		if n.ProcessID == processID {
			copy := *n
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) AddTask(t *services.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *t
	s.tasks[t.ID] = &copy
}

func (s *MemoryStore) GetTask(id string) *services.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tasks[id]; ok {
		copy := *t
		return &copy
	}
	return nil
}

// The task setters mutate only their own fields on the stored record so
// that response, feedback and definition writes landing at the same
// instant never overwrite each other.

func (s *MemoryStore) SetTaskResponse(id, response string, status services.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.CounseleeResponse = response
	t.Status = status
	return true
}

func (s *MemoryStore) SetTaskFeedback(id, feedback string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.CounselorFeedback = feedback
	return true
}

func (s *MemoryStore) SetTaskDefinition(id, title, description string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.Title = title
	t.Description = description
	return true
}

func (s *MemoryStore) ListTasksBySession(sessionID string) []*services.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Task{}
	for _, t := range s.tasks {
		if t.SessionID == sessionID {
			copy := *t
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) ListTasksByProcess(processID string) []*services.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Task{}
	for _, t := range s.tasks {
		if t.ProcessID == processID {
			copy := *t
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) AddAudit(e services.AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *MemoryStore) ListAudit() []services.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]services.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
