package api

import "github.com/shepherd-app/shepherd/internal/services"

type processStoreAdapter struct{ store Store }

func newProcessStoreAdapter(store Store) services.ProcessStore {
	return &processStoreAdapter{store: store}
}

func (a *processStoreAdapter) AddProcess(p *services.CareProcess) error {
	a.store.AddProcess(p)
	return nil
}

func (a *processStoreAdapter) GetProcess(id string) (*services.CareProcess, error) {
	return a.store.GetProcess(id), nil
}

func (a *processStoreAdapter) UpdateProcess(p *services.CareProcess) error {
	if !a.store.UpdateProcess(p) {
		return services.NewNotFoundError("process not found")
	}
	return nil
}

func (a *processStoreAdapter) AddParticipant(pt *services.Participant) error {
	a.store.AddParticipant(pt)
	return nil
}

func (a *processStoreAdapter) ListParticipants(processID string) ([]*services.Participant, error) {
	return a.store.ListParticipants(processID), nil
}

func (a *processStoreAdapter) ListNotes(processID string) ([]*services.Note, error) {
	return a.store.ListNotes(processID), nil
}

func (a *processStoreAdapter) GetMember(id string) (*services.Member, error) {
	return a.store.GetMember(id), nil
}

func (a *processStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(entry)
}
