package api

import "github.com/shepherd-app/shepherd/internal/services"

type Store interface {
	AddMember(m *services.Member)
	GetMember(id string) *services.Member
	FindMemberByEmail(email string) *services.Member

	AddProcess(p *services.CareProcess)
	GetProcess(id string) *services.CareProcess
	UpdateProcess(p *services.CareProcess) bool

	AddParticipant(pt *services.Participant)
	ListParticipants(processID string) []*services.Participant

	AddSession(sn *services.Session)
	GetSession(id string) *services.Session
	UpdateSession(sn *services.Session) bool
	ListSessions(processID string) []*services.Session

	AddNote(n *services.Note)
	GetNote(id string) *services.Note
	UpdateNote(n *services.Note) bool
	DeleteNote(id string) bool
	ListNotes(processID string) []*services.Note

	AddTask(t *services.Task)
	GetTask(id string) *services.Task
	SetTaskResponse(id, response string, status services.TaskStatus) bool
	SetTaskFeedback(id, feedback string) bool
	SetTaskDefinition(id, title, description string) bool
	ListTasksBySession(sessionID string) []*services.Task
	ListTasksByProcess(processID string) []*services.Task

	AddAudit(e services.AuditEntry)
	ListAudit() []services.AuditEntry
}

var _ Store = (*MemoryStore)(nil)
