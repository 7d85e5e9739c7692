package services

import (
	"strings"
	"time"
)

// TaskStore writes task fields through role-scoped setters rather than a
// whole-record update. CounseleeResponse and CounselorFeedback are written
// by different roles, possibly in the same instant, and a full-record
// rewrite from a stale read would lose the other role's field.
type TaskStore interface {
	GetProcess(id string) (*CareProcess, error)
	ListParticipants(processID string) ([]*Participant, error)
	GetSession(id string) (*Session, error)
	AddTask(t *Task) error
	GetTask(id string) (*Task, error)
	SetTaskResponse(id, response string, status TaskStatus) error
	SetTaskFeedback(id, feedback string) error
	SetTaskDefinition(id, title, description string) error
	ListTasksBySession(sessionID string) ([]*Task, error)
	AddAudit(entry AuditEntry)
}

// TaskService runs the assignment → response → feedback exchange. The
// counselee's response is the completion signal; counselor feedback is
// advisory and never moves the status.
type TaskService struct {
	store TaskStore
	now   func() time.Time
	idGen func() string
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// AssignTask attaches a new task to a session of an open formal process.
func (s *TaskService) AssignTask(sessionID, callerID, title, description string) (*Task, error) {
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
		return nil, NewForbiddenError("only a counselor or supervisor may assign tasks")
	}
	if p.Type != ProcessFormal {
		return nil, NewConflictError("informal processes do not track tasks")
	}
	if p.Status == ProcessClosed {
		return nil, NewConflictError("process is closed")
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewFieldError("title", "title required")
	}
	t := &Task{
		ID:          s.idGen(),
		SessionID:   sessionID,
		ProcessID:   sn.ProcessID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      TaskPending,
	}
	if err := s.store.AddTask(t); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "task.assign", Target: t.ID, Note: sessionID})
	return t, nil
}

// ListTasks returns the tasks of one session, readable by any participant.
func (s *TaskService) ListTasks(sessionID, callerID string) ([]*Task, error) {
	sn, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sn == nil {
		return nil, NewNotFoundError("session not found")
	}
	if _, _, err := s.loadWithRole(sn.ProcessID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListTasksBySession(sessionID)
}

// SubmitResponse records the counselee's answer and marks the task
// COMPLETED in the same write; submission is completion from the
// counselee's side. Re-submitting overwrites the response while the status
// stays COMPLETED.
func (s *TaskService) SubmitResponse(taskID, callerID, response string) (*Task, error) {
	t, role, err := s.loadTask(taskID, callerID)
	if err != nil {
		return nil, err
	}
	if role != RoleCounselee {
		return nil, NewForbiddenError("only the counselee may respond to a task")
	}
	if strings.TrimSpace(response) == "" {
		return nil, NewFieldError("response", "response required")
	}
	if err := s.store.SetTaskResponse(t.ID, response, TaskCompleted); err != nil {
		return nil, err
	}
	t.CounseleeResponse = response
	t.Status = TaskCompleted
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "task.respond", Target: t.ID})
	return t, nil
}

// SubmitFeedback records counselor feedback without touching the status.
func (s *TaskService) SubmitFeedback(taskID, callerID, feedback string) (*Task, error) {
	t, role, err := s.loadTask(taskID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may give feedback")
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, NewFieldError("feedback", "feedback required")
	}
	if err := s.store.SetTaskFeedback(t.ID, feedback); err != nil {
		return nil, err
	}
	t.CounselorFeedback = feedback
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: callerID, Action: "task.feedback", Target: t.ID})
	return t, nil
}

type TaskDefinitionUpdate struct {
	Title       *string
	Description *string
}

// UpdateDefinition lets staff clarify instructions at any status, including
// after the counselee has responded.
func (s *TaskService) UpdateDefinition(taskID, callerID string, upd TaskDefinitionUpdate) (*Task, error) {
	t, role, err := s.loadTask(taskID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.CanStaff() {
		return nil, NewForbiddenError("only a counselor or supervisor may edit a task")
	}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, NewFieldError("title", "title required")
		}
		t.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if err := s.store.SetTaskDefinition(t.ID, t.Title, t.Description); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) loadTask(taskID, callerID string) (*Task, Role, error) {
	t, err := s.store.GetTask(taskID)
	if err != nil {
		return nil, RoleNone, err
	}
	if t == nil {
		return nil, RoleNone, NewNotFoundError("task not found")
	}
	_, role, err := s.loadWithRole(t.ProcessID, callerID)
	if err != nil {
		return nil, RoleNone, err
	}
	return t, role, nil
}

func (s *TaskService) loadWithRole(processID, callerID string) (*CareProcess, Role, error) {
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
		return nil, RoleNone, NewNotFoundError("task not found")
	}
	return p, role, nil
}
