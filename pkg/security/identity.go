// Package security resolves the identities a stage's filesystem operations
// run under.
//
// Two identities matter: the login identity, holding the process's own
// credentials (simple OS user or a Kerberos principal via gokrb5), and the
// acting identity, which is either the login identity or a proxy identity
// impersonating another user. The remote filesystem enforces permissions
// for the acting identity.
package security

import (
	"fmt"
	"strings"

	krbclient "github.com/jcmturner/gokrb5/v8/client"
)

// Method is the authentication method an identity carries.
type Method int

const (
	// Simple is username-only authentication.
	Simple Method = iota

	// Kerberos is ticket-based authentication via a Kerberos client.
	Kerberos
)

func (m Method) String() string {
	switch m {
	case Simple:
		return "SIMPLE"
	case Kerberos:
		return "KERBEROS"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Identity is an authenticated principal. Identities are immutable after
// creation.
type Identity struct {
	// Username is the short name filesystem operations run as.
	Username string

	// Realm is the Kerberos realm. Empty for simple authentication.
	Realm string

	// Method is how the underlying credentials were obtained. A proxy
	// identity inherits the method of the login identity that backs it.
	Method Method

	// RealUser is the login identity's username when this identity
	// impersonates someone else; empty otherwise.
	RealUser string

	krb *krbclient.Client
}

// Principal returns the full Kerberos principal (user@REALM), or just the
// username for simple authentication.
func (id *Identity) Principal() string {
	if id.Method == Kerberos && id.Realm != "" {
		return id.Username + "@" + id.Realm
	}
	return id.Username
}

// IsProxy reports whether this identity impersonates another user.
func (id *Identity) IsProxy() bool { return id.RealUser != "" }

// Kerberos returns the underlying Kerberos client, or nil for simple
// authentication.
func (id *Identity) Kerberos() *krbclient.Client { return id.krb }

// Do executes fn as a delegated action under this identity.
//
// There is no ambient identity to switch in Go: handles opened for this
// identity already carry its credentials, so the scope boundary is the
// closure itself. Do guarantees the caller gets an error (never a panic)
// on every exit path, which makes it the impersonation boundary where
// failures are converted into reportable issues.
func (id *Identity) Do(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delegated action as %s: %v", id.Username, r)
		}
	}()
	return fn()
}

// Proxy returns an acting identity that impersonates user, backed by the
// login identity's credentials. The remote service must be configured to
// allow the login user to proxy as user.
func Proxy(user string, login *Identity) (*Identity, error) {
	if user == "" {
		return login, nil
	}
	if strings.ContainsAny(user, "@/") {
		return nil, fmt.Errorf("proxy user must be a short name, got %q", user)
	}
	if user == login.Username {
		return login, nil
	}
	return &Identity{
		Username: user,
		Realm:    login.Realm,
		Method:   login.Method,
		RealUser: login.Username,
		krb:      login.krb,
	}, nil
}
