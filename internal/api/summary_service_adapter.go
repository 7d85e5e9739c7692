package api

import "github.com/shepherd-app/shepherd/internal/services"

type summaryStoreAdapter struct{ store Store }

func newSummaryStoreAdapter(store Store) services.SummaryStore {
	return &summaryStoreAdapter{store: store}
}

func (a *summaryStoreAdapter) GetProcess(id string) (*services.CareProcess, error) {
	return a.store.GetProcess(id), nil
}

func (a *summaryStoreAdapter) ListParticipants(processID string) ([]*services.Participant, error) {
	return a.store.ListParticipants(processID), nil
}

func (a *summaryStoreAdapter) ListSessions(processID string) ([]*services.Session, error) {
	return a.store.ListSessions(processID), nil
}

func (a *summaryStoreAdapter) ListNotes(processID string) ([]*services.Note, error) {
	return a.store.ListNotes(processID), nil
}

func (a *summaryStoreAdapter) ListTasksByProcess(processID string) ([]*services.Task, error) {
	return a.store.ListTasksByProcess(processID), nil
}
