package internal

import (
	"context"
	"fmt"
)

const authTokenKey = "authToken"

// Credit price per feature mode. Saving artifacts is always free.
var featureCredits = map[string]int{
	"reframe":           6,
	"convert":           8,
	"persona_generator": 10,
	"image_prompt":      12,
	"explain":           5,
	"assistant":         15,
}

// FeatureCredits returns the credit cost of a feature mode. Unknown modes
// cost nothing.
func FeatureCredits(mode string) int {
	return featureCredits[mode]
}

// StoreTokens is a TokenSource backed by the auth bucket of a Store.
type StoreTokens struct {
	store Store
}

// NewStoreTokens creates a token source over a store.
func NewStoreTokens(store Store) *StoreTokens {
	return &StoreTokens{store: store}
}

// Token returns the persisted credential, if one is held.
func (s *StoreTokens) Token(ctx context.Context) (string, bool) {
	token, ok, err := s.store.Get(BucketAuth, authTokenKey)
	if err != nil {
		LogWarn("failed to read stored credential: %v", err)
		return "", false
	}
	return token, ok && token != ""
}

// Auth manages the login session: the credential lives in the store so it
// survives restarts, and every gateway call picks it up through StoreTokens.
type Auth struct {
	store   Store
	gateway Gateway
}

// NewAuth creates an auth manager.
func NewAuth(store Store, gateway Gateway) *Auth {
	return &Auth{store: store, gateway: gateway}
}

// Login exchanges credentials for a token and persists it.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	reply, err := a.gateway.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !reply.Success {
		if reply.Error != "" {
			return fmt.Errorf("login rejected: %s", reply.Error)
		}
		return fmt.Errorf("login rejected")
	}
	if err := a.store.Set(BucketAuth, authTokenKey, reply.Token); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	LogInfo("logged in as %s", email)
	return nil
}

// Logout discards the persisted credential.
func (a *Auth) Logout() error {
	return a.store.Delete(BucketAuth, authTokenKey)
}

// LoggedIn reports whether a credential is held.
func (a *Auth) LoggedIn(ctx context.Context) bool {
	_, ok := NewStoreTokens(a.store).Token(ctx)
	return ok
}

// Credits returns the account's remaining credit balance.
func (a *Auth) Credits(ctx context.Context) (int, error) {
	return a.gateway.Credits(ctx)
}

// Deduct charges the account for one use of a feature mode. Free features
// skip the round trip entirely.
func (a *Auth) Deduct(ctx context.Context, mode string) (int, error) {
	if FeatureCredits(mode) == 0 {
		balance, err := a.gateway.Credits(ctx)
		if err != nil {
			return 0, err
		}
		return balance, nil
	}
	reply, err := a.gateway.DeductCredits(ctx, mode)
	if err != nil {
		return 0, err
	}
	if !reply.Success {
		if reply.Message != "" {
			return reply.Remaining, fmt.Errorf("deduction refused: %s", reply.Message)
		}
		return reply.Remaining, fmt.Errorf("insufficient credits")
	}
	return reply.Remaining, nil
}
