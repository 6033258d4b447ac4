// Package stage validates and establishes a stage's HDFS connection.
//
// Validate runs a linear sequence: merge the effective configuration,
// resolve the target URI, resolve the security identities, then open the
// filesystem handle under the acting identity. Expected misconfiguration
// accumulates as issues so the caller can surface every problem at once;
// only an invalid identity short-circuits, because it invalidates every
// later check. ProbeDir then canary-checks individual directories for
// writability using the identity and handle Validate produced.
package stage

import (
	"net/url"
	"strings"

	"github.com/datafab/hdfsconn/internal/logger"
	"github.com/datafab/hdfsconn/pkg/dfs"
	"github.com/datafab/hdfsconn/pkg/hadoop"
	"github.com/datafab/hdfsconn/pkg/issue"
	"github.com/datafab/hdfsconn/pkg/security"
)

// GroupHadoopFS is the configuration group connection issues are
// reported under.
const GroupHadoopFS = "HADOOP_FS"

// defaultFieldPrefix scopes issue field references to the connection
// block of the stage configuration.
const defaultFieldPrefix = "hadoopFS."

// ConnConfig is the user-facing connection configuration.
type ConnConfig struct {
	// URI is the explicit filesystem URI (e.g. hdfs://namenode:8020).
	// When empty, fs.defaultFS from the merged configuration is used.
	URI string

	// User, when set, is impersonated for all filesystem operations. The
	// login user must be configured as a proxy user on the cluster.
	User string

	// Kerberos enables Kerberos authentication.
	Kerberos bool

	// ConfDir is a directory holding core-site.xml and hdfs-site.xml.
	// Relative paths resolve against the stage's resources directory.
	ConfDir string

	// Extra are additional configuration entries, applied with the
	// highest precedence.
	Extra []hadoop.Entry
}

// Conn validates and owns a stage's filesystem connection.
//
// A Conn is built once per stage, validated during the stage's init hook
// and kept for its operational lifetime. The open handle is deliberately
// never closed here: teardown belongs to the stage, and the effective
// configuration disables the client's automatic close so nothing races
// the stage's final rename step.
type Conn struct {
	// Group and FieldPrefix scope recorded issues; they default to
	// GroupHadoopFS and the standard connection field prefix.
	Group       string
	FieldPrefix string

	// Open opens the filesystem handle. Defaults to dfs.Open; tests
	// inject a fake.
	Open dfs.OpenFunc

	// Realm discovers the default Kerberos realm. Defaults to
	// security.DefaultRealm.
	Realm func() (string, error)

	cfg    ConnConfig
	conf   hadoop.Conf
	uri    string
	login  *security.Identity
	acting *security.Identity
	fs     dfs.FileSystem
}

// NewConn returns a Conn for the given configuration.
func NewConn(cfg ConnConfig) *Conn {
	return &Conn{
		Group:       GroupHadoopFS,
		FieldPrefix: defaultFieldPrefix,
		Open:        dfs.Open,
		Realm:       security.DefaultRealm,
		cfg:         cfg,
	}
}

// URI returns the resolved target URI. Valid after Validate.
func (c *Conn) URI() string { return c.uri }

// Conf returns the effective configuration. Valid after Validate.
func (c *Conn) Conf() hadoop.Conf { return c.conf }

// FileSystem returns the open handle, or nil when validation did not
// reach a successful open.
func (c *Conn) FileSystem() dfs.FileSystem { return c.fs }

// LoginIdentity returns the process's own identity. Valid after Validate.
func (c *Conn) LoginIdentity() *security.Identity { return c.login }

// ActingIdentity returns the identity operations run as. Valid after
// Validate.
func (c *Conn) ActingIdentity() *security.Identity { return c.acting }

// Validate runs the full connection validation, appending every problem
// found to issues. It returns true only when the configuration resolved
// cleanly and the filesystem handle was opened.
func (c *Conn) Validate(ctx Context, issues *issue.List) bool {
	ok := c.validate(ctx, issues)
	if ok {
		validationRuns.WithLabelValues("valid").Inc()
	} else {
		validationRuns.WithLabelValues("invalid").Inc()
	}
	return ok
}

func (c *Conn) validate(ctx Context, issues *issue.List) bool {
	c.conf = hadoop.Build(hadoop.BuildRequest{
		Kerberos:     c.cfg.Kerberos,
		URI:          c.cfg.URI,
		ConfDir:      c.cfg.ConfDir,
		Entries:      c.cfg.Extra,
		Cluster:      ctx.ExecutionMode().IsCluster(),
		ResourcesDir: ctx.ResourcesDir(),
		Group:        c.Group,
		FieldPrefix:  c.FieldPrefix,
		Realm:        c.Realm,
	}, issues)

	valid := c.resolveURI(issues)

	login, acting, secIssues, err := security.Resolve(c.conf, c.cfg.Kerberos, c.cfg.User, c.Group, c.FieldPrefix)
	if err != nil {
		logger.Error("credential initialization failed", "uri", c.uri, "error", err)
		issues.Addf(c.Group, "", issue.CodeConnect, c.uri, err.Error())
		return false
	}
	if !secIssues.Empty() {
		// An unusable identity makes every later check meaningless.
		issues.Add(secIssues.All()...)
		return false
	}
	c.login = login
	c.acting = acting

	if c.cfg.Kerberos {
		logger.Info("using kerberos authentication", "principal", login.Principal(), "acting", acting.Username)
	} else {
		logger.Info("using simple authentication", "user", acting.Username)
	}

	if !valid || !issues.Empty() {
		return false
	}

	var fs dfs.FileSystem
	err = acting.Do(func() error {
		var openErr error
		fs, openErr = c.Open(c.uri, c.conf, acting)
		return openErr
	})
	if err != nil {
		// Network failures, auth rejections and unreachable namenodes all
		// land here; the cause travels in the issue, never as a raw error.
		logger.Error("could not open filesystem", "uri", c.uri, "error", err)
		issues.Addf(c.Group, "", issue.CodeConnect, c.uri, err.Error())
		return false
	}
	c.fs = fs

	return true
}

// resolveURI determines the target URI from the explicit setting or the
// merged configuration. Malformed explicit URIs are non-fatal for the
// rest of the run so later checks still surface their own issues.
func (c *Conn) resolveURI(issues *issue.List) bool {
	valid := true

	uri := c.cfg.URI
	if uri != "" {
		if strings.Contains(uri, "://") {
			if _, err := url.Parse(uri); err != nil {
				issues.Addf(c.Group, "", issue.CodeURIInvalid, uri, err.Error())
				valid = false
			}
			// A well-formed explicit URI has precedence over site files.
			c.conf[hadoop.KeyDefaultFS] = uri
		} else {
			issues.Addf(c.Group, c.FieldPrefix+"uri", issue.CodeURINoScheme, uri)
			valid = false
		}
	} else {
		uri = c.conf.Get(hadoop.KeyDefaultFS)
	}

	if uri == "" {
		issues.Addf(c.Group, "", issue.CodeURIUnresolved)
		valid = false
	}
	c.uri = uri

	return valid
}
