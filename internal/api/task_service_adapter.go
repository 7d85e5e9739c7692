package api

import "github.com/shepherd-app/shepherd/internal/services"

type taskStoreAdapter struct{ store Store }

func newTaskStoreAdapter(store Store) services.TaskStore {
	return &taskStoreAdapter{store: store}
}

func (a *taskStoreAdapter) GetProcess(id string) (*services.CareProcess, error) {
	return a.store.GetProcess(id), nil
}

func (a *taskStoreAdapter) ListParticipants(processID string) ([]*services.Participant, error) {
	return a.store.ListParticipants(processID), nil
}

func (a *taskStoreAdapter) GetSession(id string) (*services.Session, error) {
	return a.store.GetSession(id), nil
}

func (a *taskStoreAdapter) AddTask(t *services.Task) error {
	a.store.AddTask(t)
	return nil
}

func (a *taskStoreAdapter) GetTask(id string) (*services.Task, error) {
	return a.store.GetTask(id), nil
}

func (a *taskStoreAdapter) SetTaskResponse(id, response string, status services.TaskStatus) error {
	if !a.store.SetTaskResponse(id, response, status) {
		return services.NewNotFoundError("task not found")
	}
	return nil
}

func (a *taskStoreAdapter) SetTaskFeedback(id, feedback string) error {
	if !a.store.SetTaskFeedback(id, feedback) {
		return services.NewNotFoundError("task not found")
	}
	return nil
}

func (a *taskStoreAdapter) SetTaskDefinition(id, title, description string) error {
	if !a.store.SetTaskDefinition(id, title, description) {
		return services.NewNotFoundError("task not found")
	}
	return nil
}

func (a *taskStoreAdapter) ListTasksBySession(sessionID string) ([]*services.Task, error) {
	return a.store.ListTasksBySession(sessionID), nil
}

func (a *taskStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(entry)
}
