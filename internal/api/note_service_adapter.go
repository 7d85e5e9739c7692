package api

import "github.com/shepherd-app/shepherd/internal/services"

type noteStoreAdapter struct{ store Store }

func newNoteStoreAdapter(store Store) services.NoteStore {
	return &noteStoreAdapter{store: store}
}

func (a *noteStoreAdapter) GetProcess(id string) (*services.CareProcess, error) {
	return a.store.GetProcess(id), nil
}

func (a *noteStoreAdapter) ListParticipants(processID string) ([]*services.Participant, error) {
	return a.store.ListParticipants(processID), nil
}

func (a *noteStoreAdapter) GetSession(id string) (*services.Session, error) {
	return a.store.GetSession(id), nil
}

func (a *noteStoreAdapter) AddNote(n *services.Note) error {
	a.store.AddNote(n)
	return nil
}

func (a *noteStoreAdapter) GetNote(id string) (*services.Note, error) {
	return a.store.GetNote(id), nil
}

func (a *noteStoreAdapter) UpdateNote(n *services.Note) error {
	if !a.store.UpdateNote(n) {
		return services.NewNotFoundError("note not found")
	}
	return nil
}

func (a *noteStoreAdapter) DeleteNote(id string) error {
	if !a.store.DeleteNote(id) {
		return services.NewNotFoundError("note not found")
	}
	return nil
}

func (a *noteStoreAdapter) ListNotes(processID string) ([]*services.Note, error) {
	return a.store.ListNotes(processID), nil
}

func (a *noteStoreAdapter) AddAudit(entry services.AuditEntry) {
	a.store.AddAudit(entry)
}
