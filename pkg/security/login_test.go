package security

import (
	"testing"

	"github.com/datafab/hdfsconn/pkg/hadoop"
	"github.com/datafab/hdfsconn/pkg/issue"
)

func TestSimpleLogin_EnvOverride(t *testing.T) {
	t.Setenv(EnvUserName, "pipeline")

	id, err := Login(hadoop.Conf{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if id.Username != "pipeline" || id.Method != Simple {
		t.Errorf("Login = %s/%v, want pipeline/SIMPLE", id.Username, id.Method)
	}
}

func TestSplitPrincipal(t *testing.T) {
	tests := []struct {
		in       string
		username string
		realm    string
	}{
		{"alice@EXAMPLE.COM", "alice", "EXAMPLE.COM"},
		{"nn/host@EXAMPLE.COM", "nn/host", "EXAMPLE.COM"},
		{"alice", "alice", ""},
	}
	for _, tt := range tests {
		username, realm := splitPrincipal(tt.in)
		if username != tt.username || realm != tt.realm {
			t.Errorf("splitPrincipal(%q) = %q, %q; want %q, %q", tt.in, username, realm, tt.username, tt.realm)
		}
	}
}

func TestResolve_ForcesSimple(t *testing.T) {
	t.Setenv(EnvUserName, "tester")

	// An ambient kerberos setting leaked in from a site file must not
	// survive a simple-mode run, nor drive the credential lookup.
	conf := hadoop.Conf{hadoop.KeySecurityAuth: hadoop.AuthKerberos}
	login, acting, issues, err := Resolve(conf, false, "", "HADOOP_FS", "hadoopFS.")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !issues.Empty() {
		t.Fatalf("unexpected issues: %v", issues.All())
	}
	if conf.Get(hadoop.KeySecurityAuth) != hadoop.AuthSimple {
		t.Errorf("%s = %q, want forced to simple", hadoop.KeySecurityAuth, conf.Get(hadoop.KeySecurityAuth))
	}
	if login != acting {
		t.Error("acting identity should equal login identity without impersonation")
	}
}

func TestResolve_KerberosMismatch(t *testing.T) {
	t.Setenv(EnvUserName, "tester")

	// Kerberos requested but the configuration never enabled it, so the
	// login identity comes back simple: that is a mismatch issue, not an
	// error.
	login, _, issues, err := Resolve(hadoop.Conf{}, true, "", "HADOOP_FS", "hadoopFS.")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if login.Method != Simple {
		t.Fatalf("login method = %v, want SIMPLE", login.Method)
	}

	all := issues.All()
	if len(all) != 1 || all[0].Code != issue.CodeAuthMismatch {
		t.Fatalf("issues = %v, want exactly one CodeAuthMismatch", all)
	}
	if all[0].Field != "hadoopFS.kerberos" {
		t.Errorf("Field = %q, want hadoopFS.kerberos", all[0].Field)
	}
}

func TestResolve_ProxyFailureIsFailFast(t *testing.T) {
	t.Setenv(EnvUserName, "tester")

	login, acting, issues, err := Resolve(hadoop.Conf{}, true, "bad@name", "HADOOP_FS", "hadoopFS.")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if login == nil {
		t.Fatal("login identity should still be returned")
	}
	if acting != nil {
		t.Error("acting identity must be nil after proxy failure")
	}

	// Only the proxy issue: the kerberos mismatch check must not run.
	all := issues.All()
	if len(all) != 1 || all[0].Code != issue.CodeProxyUser {
		t.Fatalf("issues = %v, want exactly one CodeProxyUser", all)
	}
}

func TestKerberosLogin_MissingPrincipalEnv(t *testing.T) {
	t.Setenv(EnvKrb5Config, "/nonexistent/krb5.conf")

	_, err := Login(hadoop.Conf{hadoop.KeySecurityAuth: hadoop.AuthKerberos})
	if err == nil {
		t.Fatal("Login succeeded without any Kerberos environment")
	}
}
