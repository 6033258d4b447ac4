package security

import (
	"errors"
	"testing"
)

func TestMethodString(t *testing.T) {
	if Simple.String() != "SIMPLE" || Kerberos.String() != "KERBEROS" {
		t.Errorf("Method strings = %q/%q", Simple, Kerberos)
	}
}

func TestIdentity_Principal(t *testing.T) {
	krb := &Identity{Username: "svc", Realm: "EXAMPLE.COM", Method: Kerberos}
	if got := krb.Principal(); got != "svc@EXAMPLE.COM" {
		t.Errorf("Principal() = %q, want svc@EXAMPLE.COM", got)
	}

	simple := &Identity{Username: "alice", Method: Simple}
	if got := simple.Principal(); got != "alice" {
		t.Errorf("Principal() = %q, want alice", got)
	}
}

func TestProxy(t *testing.T) {
	login := &Identity{Username: "etl", Realm: "EXAMPLE.COM", Method: Kerberos}

	t.Run("empty user returns login", func(t *testing.T) {
		acting, err := Proxy("", login)
		if err != nil || acting != login {
			t.Errorf("Proxy(\"\") = %v, %v; want login identity", acting, err)
		}
	})

	t.Run("same user returns login", func(t *testing.T) {
		acting, err := Proxy("etl", login)
		if err != nil || acting != login {
			t.Errorf("Proxy(login user) = %v, %v; want login identity", acting, err)
		}
	})

	t.Run("impersonation inherits credentials", func(t *testing.T) {
		acting, err := Proxy("alice", login)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acting.Username != "alice" {
			t.Errorf("Username = %q, want alice", acting.Username)
		}
		if acting.RealUser != "etl" || !acting.IsProxy() {
			t.Errorf("RealUser = %q, IsProxy = %v; want etl/true", acting.RealUser, acting.IsProxy())
		}
		if acting.Method != Kerberos || acting.Realm != "EXAMPLE.COM" {
			t.Errorf("Method/Realm = %v/%q, want inherited from login", acting.Method, acting.Realm)
		}
	})

	t.Run("rejects qualified names", func(t *testing.T) {
		for _, user := range []string{"alice@EXAMPLE.COM", "nn/host"} {
			if _, err := Proxy(user, login); err == nil {
				t.Errorf("Proxy(%q) succeeded, want error", user)
			}
		}
	})
}

func TestIdentity_Do(t *testing.T) {
	id := &Identity{Username: "alice", Method: Simple}

	t.Run("passes through results", func(t *testing.T) {
		if err := id.Do(func() error { return nil }); err != nil {
			t.Errorf("Do = %v, want nil", err)
		}
		want := errors.New("boom")
		if err := id.Do(func() error { return want }); !errors.Is(err, want) {
			t.Errorf("Do = %v, want %v", err, want)
		}
	})

	t.Run("recovers panics into errors", func(t *testing.T) {
		err := id.Do(func() error { panic("client blew up") })
		if err == nil {
			t.Fatal("Do returned nil after panic")
		}
	})
}
