package internal

import (
	"context"
	"testing"
)

func TestAuthLoginPersistsToken(t *testing.T) {
	store := NewMemoryStore()
	gw := &FakeGateway{LoginR: &LoginReply{Success: true, Token: "tok-abc"}}
	auth := NewAuth(store, gw)

	if err := auth.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	token, ok := NewStoreTokens(store).Token(context.Background())
	if !ok || token != "tok-abc" {
		t.Errorf("stored token = (%q, %v), want (tok-abc, true)", token, ok)
	}
	if !auth.LoggedIn(context.Background()) {
		t.Error("LoggedIn() = false after login")
	}
}

func TestAuthLoginRejection(t *testing.T) {
	store := NewMemoryStore()
	gw := &FakeGateway{LoginR: &LoginReply{Success: false, Error: "bad password"}}
	auth := NewAuth(store, gw)

	if err := auth.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("Login() succeeded on a rejected reply")
	}
	if auth.LoggedIn(context.Background()) {
		t.Error("LoggedIn() = true after rejection")
	}
}

func TestAuthLogoutDiscardsToken(t *testing.T) {
	store := NewMemoryStore()
	auth := NewAuth(store, &FakeGateway{})

	auth.Login(context.Background(), "a@b.c", "pw")
	if err := auth.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if auth.LoggedIn(context.Background()) {
		t.Error("LoggedIn() = true after logout")
	}
}

func TestStoreTokensEmptyStore(t *testing.T) {
	if _, ok := NewStoreTokens(NewMemoryStore()).Token(context.Background()); ok {
		t.Error("Token() = true on an empty store")
	}
}

func TestFeatureCreditsTable(t *testing.T) {
	tests := []struct {
		mode string
		want int
	}{
		{"reframe", 6},
		{"convert", 8},
		{"persona_generator", 10},
		{"image_prompt", 12},
		{"explain", 5},
		{"assistant", 15},
		{"", 0},
		{"save", 0},
	}
	for _, tt := range tests {
		if got := FeatureCredits(tt.mode); got != tt.want {
			t.Errorf("FeatureCredits(%q) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestAuthDeductFreeFeatureSkipsDeduction(t *testing.T) {
	gw := &FakeGateway{Balance: 30}
	auth := NewAuth(NewMemoryStore(), gw)

	balance, err := auth.Deduct(context.Background(), "save")
	if err != nil {
		t.Fatalf("Deduct() error = %v", err)
	}
	if balance != 30 {
		t.Errorf("balance = %d, want untouched 30", balance)
	}
	for _, call := range gw.Calls {
		if call == "deduct" {
			t.Error("free feature hit the deduction endpoint")
		}
	}
}

func TestAuthDeductPaidFeature(t *testing.T) {
	gw := &FakeGateway{Deduction: &DeductReply{Success: true, Remaining: 24}}
	auth := NewAuth(NewMemoryStore(), gw)

	balance, err := auth.Deduct(context.Background(), "reframe")
	if err != nil {
		t.Fatalf("Deduct() error = %v", err)
	}
	if balance != 24 {
		t.Errorf("balance = %d, want 24", balance)
	}
}

func TestAuthDeductRefused(t *testing.T) {
	gw := &FakeGateway{Deduction: &DeductReply{Success: false, Remaining: 2, Message: "not enough credits"}}
	auth := NewAuth(NewMemoryStore(), gw)

	if _, err := auth.Deduct(context.Background(), "assistant"); err == nil {
		t.Error("Deduct() succeeded on a refused deduction")
	}
}
