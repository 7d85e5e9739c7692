package api

import "github.com/shepherd-app/shepherd/internal/services"

type sessionStoreAdapter struct{ store Store }

func newSessionStoreAdapter(store Store) services.SessionStore {
	return &sessionStoreAdapter{store: store}
}

func (a *sessionStoreAdapter) GetProcess(id string) (*services.CareProcess, error) {
	return a.store.GetProcess(id), nil
}

func (a *sessionStoreAdapter) ListParticipants(processID string) ([]*services.Participant, error) {
	return a.store.ListParticipants(processID), nil
}

func (a *sessionStoreAdapter) AddSession(sn *services.Session) error {
	a.store.AddSession(sn)
	return nil
}

func (a *sessionStoreAdapter) GetSession(id string) (*services.Session, error) {
	return a.store.GetSession(id), nil
}

func (a *sessionStoreAdapter) UpdateSession(sn *services.Session) error {
	if !a.store.UpdateSession(sn) {
		return services.NewNotFoundError("session not found")
	}
	return nil
}

func (a *sessionStoreAdapter) ListSessions(processID string) ([]*services.Session, error) {
	return a.store.ListSessions(processID), nil
}

func (a *sessionStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(entry)
}
