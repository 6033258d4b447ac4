package security

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	krbclient "github.com/jcmturner/gokrb5/v8/client"
	krb5config "github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/credentials"
	"github.com/jcmturner/gokrb5/v8/keytab"

	"github.com/datafab/hdfsconn/pkg/hadoop"
	"github.com/datafab/hdfsconn/pkg/issue"
)

// Environment variables consulted during login. They take precedence over
// derived defaults, mirroring the Hadoop client conventions.
const (
	// EnvUserName overrides the simple-authentication username.
	EnvUserName = "HADOOP_USER_NAME"

	// EnvKeytab points at a client keytab file for Kerberos login.
	EnvKeytab = "HADOOP_KEYTAB"

	// EnvPrincipal names the client principal when logging in by keytab.
	EnvPrincipal = "HADOOP_PRINCIPAL"

	// EnvKrb5Config overrides the krb5.conf location.
	EnvKrb5Config = "KRB5_CONFIG"

	// EnvCCache overrides the credential cache location.
	EnvCCache = "KRB5CCNAME"
)

const defaultKrb5Conf = "/etc/krb5.conf"

// Login resolves the process's own identity using the effective
// configuration. This is also the point where the Kerberos library reads
// its settings, so it must run before any capability check that depends
// on them.
func Login(conf hadoop.Conf) (*Identity, error) {
	if strings.EqualFold(conf.Get(hadoop.KeySecurityAuth), hadoop.AuthKerberos) {
		return kerberosLogin()
	}
	return simpleLogin()
}

func simpleLogin() (*Identity, error) {
	if name := os.Getenv(EnvUserName); name != "" {
		return &Identity{Username: name, Method: Simple}, nil
	}
	u, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	return &Identity{Username: u.Username, Method: Simple}, nil
}

// kerberosLogin builds a Kerberos-backed identity, preferring an explicit
// keytab (EnvKeytab + EnvPrincipal) and falling back to the credential
// cache left by kinit.
func kerberosLogin() (*Identity, error) {
	cfg, err := loadKrb5Conf()
	if err != nil {
		return nil, err
	}

	if ktPath := os.Getenv(EnvKeytab); ktPath != "" {
		principal := os.Getenv(EnvPrincipal)
		if principal == "" {
			return nil, fmt.Errorf("%s is set but %s is not", EnvKeytab, EnvPrincipal)
		}
		return keytabLogin(ktPath, principal, cfg)
	}
	return ccacheLogin(cfg)
}

func keytabLogin(path, principal string, cfg *krb5config.Config) (*Identity, error) {
	kt, err := keytab.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load keytab %s: %w", path, err)
	}

	username, realm := splitPrincipal(principal)
	if realm == "" {
		realm = cfg.LibDefaults.DefaultRealm
	}

	cl := krbclient.NewWithKeytab(username, realm, kt, cfg, krbclient.DisablePAFXFAST(true))
	if err := cl.Login(); err != nil {
		return nil, fmt.Errorf("kerberos login for %s@%s: %w", username, realm, err)
	}
	return &Identity{Username: username, Realm: realm, Method: Kerberos, krb: cl}, nil
}

func ccacheLogin(cfg *krb5config.Config) (*Identity, error) {
	path := os.Getenv(EnvCCache)
	path = strings.TrimPrefix(path, "FILE:")
	if path == "" {
		path = fmt.Sprintf("/tmp/krb5cc_%d", os.Getuid())
	}

	cc, err := credentials.LoadCCache(path)
	if err != nil {
		return nil, fmt.Errorf("load credential cache %s: %w", path, err)
	}
	cl, err := krbclient.NewFromCCache(cc, cfg, krbclient.DisablePAFXFAST(true))
	if err != nil {
		return nil, fmt.Errorf("kerberos client from credential cache: %w", err)
	}

	principal := cc.GetClientPrincipalName()
	username := strings.Join(principal.NameString, "/")
	return &Identity{
		Username: username,
		Realm:    cc.GetClientRealm(),
		Method:   Kerberos,
		krb:      cl,
	}, nil
}

// DefaultRealm returns the default realm from krb5.conf.
func DefaultRealm() (string, error) {
	cfg, err := loadKrb5Conf()
	if err != nil {
		return "", err
	}
	realm := cfg.LibDefaults.DefaultRealm
	if realm == "" {
		return "", fmt.Errorf("no default_realm in %s", krb5ConfPath())
	}
	return realm, nil
}

func krb5ConfPath() string {
	if p := os.Getenv(EnvKrb5Config); p != "" {
		return p
	}
	return defaultKrb5Conf
}

func loadKrb5Conf() (*krb5config.Config, error) {
	path := krb5ConfPath()
	cfg, err := krb5config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func splitPrincipal(principal string) (username, realm string) {
	if at := strings.LastIndexByte(principal, '@'); at >= 0 {
		return principal[:at], principal[at+1:]
	}
	return principal, ""
}

// Resolve determines the login and acting identities for a validation run.
//
// Login credentials are initialized first from conf. When proxyUser is
// non-empty the acting identity impersonates it; a proxy resolution
// failure is fail-fast, returning only that issue, because an invalid
// identity makes every later check meaningless. When Kerberos was
// requested but the login identity did not authenticate via Kerberos, a
// mismatch issue is recorded. In simple mode the authentication-method
// key in conf is forced to simple, so an ambient Kerberos setting picked
// up from a site file cannot leak through.
//
// A non-nil error signals an unexpected credential failure; the caller is
// responsible for converting it into an aggregated issue.
func Resolve(conf hadoop.Conf, kerberos bool, proxyUser, group, fieldPrefix string) (login, acting *Identity, issues *issue.List, err error) {
	issues = &issue.List{}

	if !kerberos {
		// Forced before login so an ambient kerberos setting inherited
		// from a site file cannot drive the credential lookup.
		conf[hadoop.KeySecurityAuth] = hadoop.AuthSimple
	}

	login, err = Login(conf)
	if err != nil {
		return nil, nil, issues, err
	}

	acting = login
	if proxyUser != "" {
		acting, err = Proxy(proxyUser, login)
		if err != nil {
			issues.Addf(group, fieldPrefix+"user", issue.CodeProxyUser, proxyUser, err.Error())
			return login, nil, issues, nil
		}
	}

	if kerberos && login.Method != Kerberos {
		issues.Addf(group, fieldPrefix+"kerberos", issue.CodeAuthMismatch, login.Method)
	}

	return login, acting, issues, nil
}
