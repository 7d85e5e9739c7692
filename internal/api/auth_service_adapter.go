package api

import "github.com/shepherd-app/shepherd/internal/services"

type authStoreAdapter struct{ store Store }

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindMemberByEmail(email string) (*services.Member, error) {
	return a.store.FindMemberByEmail(email), nil
}

func (a *authStoreAdapter) AddMember(m *services.Member) error {
	a.store.AddMember(m)
	return nil
}
